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


package refind

import (
	"io"
	"log/slog"

	"github.com/poiesic/refind/ai"
	"github.com/poiesic/refind/ai/openai"
	"github.com/poiesic/refind/match"
	"github.com/poiesic/refind/notify"
	"github.com/poiesic/refind/reindex"
	"github.com/poiesic/refind/storage"
	"github.com/poiesic/refind/storage/badger"
)

// Engine bundles the storage layer, the model provider, and the notification
// hub behind a single open/close lifecycle.
type Engine struct {
	backend    *badger.Backend
	reports    storage.ReportRepository
	embeddings storage.EmbeddingRepository
	indexes    storage.IndexStore
	matches    storage.MatchRepository
	provider   ai.ModelProvider
	hub        *notify.Hub
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
	provider ai.ModelProvider
}

// WithAIConfig sets the model service configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built model provider, bypassing the AI config.
// Used by tests to substitute mocks.
func WithProvider(provider ai.ModelProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// NewEngine opens the storage backend at filePath and wires up the full
// engine. Pass an empty filePath to run fully in memory.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	reports, err := badger.NewReportRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embeddings, err := badger.NewEmbeddingRepository(backend)
	if err != nil {
		reports.Close()
		backend.Close()
		return nil, err
	}

	indexes, err := badger.NewIndexStore(backend)
	if err != nil {
		embeddings.Close()
		reports.Close()
		backend.Close()
		return nil, err
	}

	matches, err := badger.NewMatchRepository(backend)
	if err != nil {
		indexes.Close()
		embeddings.Close()
		reports.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			matches.Close()
			indexes.Close()
			embeddings.Close()
			reports.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Engine{
		backend:    backend,
		reports:    reports,
		embeddings: embeddings,
		indexes:    indexes,
		matches:    matches,
		provider:   provider,
		hub:        notify.NewHub(),
		logger:     slog.Default(),
	}, nil
}

// Close releases all resources held by the engine.
func (e *Engine) Close() error {
	e.hub.Close()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing model provider", "err", err)
	}
	if err := e.matches.Close(); err != nil {
		e.logger.Error("error closing match repository", "err", err)
		return err
	}
	if err := e.indexes.Close(); err != nil {
		e.logger.Error("error closing index store", "err", err)
		return err
	}
	if err := e.embeddings.Close(); err != nil {
		e.logger.Error("error closing embedding repository", "err", err)
		return err
	}
	if err := e.reports.Close(); err != nil {
		e.logger.Error("error closing report repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ReportRepository returns the report store.
func (e *Engine) ReportRepository() storage.ReportRepository {
	return e.reports
}

// EmbeddingRepository returns the embedding store.
func (e *Engine) EmbeddingRepository() storage.EmbeddingRepository {
	return e.embeddings
}

// IndexStore returns the modality index store.
func (e *Engine) IndexStore() storage.IndexStore {
	return e.indexes
}

// MatchRepository returns the match record store.
func (e *Engine) MatchRepository() storage.MatchRepository {
	return e.matches
}

// Hub returns the match notification hub.
func (e *Engine) Hub() *notify.Hub {
	return e.hub
}

// NewMatcher creates a matching engine over this engine's stores.
// The engine's notification hub is wired in unless overridden by opts.
func (e *Engine) NewMatcher(opts ...match.Option) (*match.Matcher, error) {
	merged := append([]match.Option{match.WithNotifier(e.hub)}, opts...)
	return match.NewMatcher(e.reports, e.embeddings, e.indexes, e.matches, e.provider, merged...)
}

// NewRebuilder creates an index rebuilder reading from this engine's stores
// and writing into target.
func (e *Engine) NewRebuilder(target storage.IndexStore, config *reindex.Config, progress io.Writer) *reindex.Rebuilder {
	return reindex.NewRebuilder(e.reports, e.embeddings, target, config, progress)
}
