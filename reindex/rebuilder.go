// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/storage"
)

// Config holds configuration for the rebuild operation.
type Config struct {
	// ReportInterval is how often to report progress (number of embedding sets)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed inserts
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Rebuilder reconstructs the modality indexes from stored embedding sets.
//
// The indexes are append-only during normal operation, so resolved reports
// accumulate in them over time. A rebuild into a fresh target index keeps
// only the embedding sets whose report is still OPEN; sets for missing or
// non-open reports are skipped.
type Rebuilder struct {
	reports    storage.ReportRepository
	embeddings storage.EmbeddingRepository
	target     storage.IndexStore
	config     *Config
	progress   io.Writer
	logger     *slog.Logger
}

// NewRebuilder creates a new index rebuilder writing into target.
// progress: where to write progress output (typically os.Stderr)
func NewRebuilder(
	reports storage.ReportRepository,
	embeddings storage.EmbeddingRepository,
	target storage.IndexStore,
	config *Config,
	progress io.Writer,
) *Rebuilder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Rebuilder{
		reports:    reports,
		embeddings: embeddings,
		target:     target,
		config:     config,
		progress:   progress,
		logger:     slog.Default().With("component", "reindex"),
	}
}

// Run executes the rebuild. Returns the number of embedding sets that were
// indexed into the target.
func (r *Rebuilder) Run(ctx context.Context) (int, error) {
	// Count sets first so progress has a denominator.
	total := 0
	err := r.embeddings.ForEachEmbeddingSet(ctx, func(*core.EmbeddingSet) error {
		total++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count embedding sets: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No embedding sets found (0 sets)\n")
		return 0, nil
	}

	fmt.Fprintf(r.progress, "Starting index rebuild from %d embedding sets\n", total)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	indexed := 0

	err = r.embeddings.ForEachEmbeddingSet(ctx, func(set *core.EmbeddingSet) error {
		processed++
		tracker.Update(processed)

		report, err := r.reports.GetReport(ctx, set.ReportId)
		if err != nil {
			if err == storage.ErrNotFound {
				return nil
			}
			return err
		}
		if report.Status != core.ReportStatusOpen {
			return nil
		}

		if err := r.indexSet(ctx, set); err != nil {
			return fmt.Errorf("failed to index report %s: %w", set.ReportId, err)
		}
		indexed++
		return nil
	})
	if err != nil {
		return indexed, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Rebuild complete. Indexed %d of %d sets in %v (%.1f sets/sec)\n",
		indexed, total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return indexed, nil
}

// indexSet inserts one embedding set's vectors into the target, retrying
// transient failures with backoff.
func (r *Rebuilder) indexSet(ctx context.Context, set *core.EmbeddingSet) error {
	add := func(modality core.Modality, vectors [][]float32) error {
		ids := make([]string, len(vectors))
		for i := range ids {
			ids[i] = set.ReportId
		}
		return RetryWithBackoff(ctx, r.logger, func() error {
			return r.target.Add(ctx, modality, vectors, ids)
		}, r.config.MaxRetries, r.config.RetryDelay)
	}

	if len(set.FaceVectors) > 0 {
		if err := add(core.ModalityFace, set.FaceVectors); err != nil {
			return err
		}
	}
	if len(set.ImageVector) > 0 {
		if err := add(core.ModalityImage, [][]float32{set.ImageVector}); err != nil {
			return err
		}
	}
	if len(set.TextVector) > 0 {
		if err := add(core.ModalityText, [][]float32{set.TextVector}); err != nil {
			return err
		}
	}
	return nil
}
