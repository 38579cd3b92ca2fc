package storage

import (
	"context"

	"github.com/poiesic/refind/core"
)

// ReportRepository provides read access to reports for the matching engine
// and write access for the reporting workflow that owns them.
// Implementations must be thread-safe and support concurrent access.
type ReportRepository interface {
	// AddReports stores one or more reports. Reports are validated before
	// storage; invalid reports fail the whole call.
	AddReports(ctx context.Context, reports ...*core.Report) error

	// GetReport retrieves a single report by id.
	// Returns ErrNotFound if the report doesn't exist.
	GetReport(ctx context.Context, id string) (*core.Report, error)

	// GetReports retrieves multiple reports by id.
	// Returns only the reports that exist (no error for missing reports).
	GetReports(ctx context.Context, ids ...string) ([]*core.Report, error)

	// UpdateReportStatus transitions a report's lifecycle status.
	// Returns ErrNotFound if the report doesn't exist.
	UpdateReportStatus(ctx context.Context, id string, status core.ReportStatus) error

	// ForEachReport iterates all stored reports. The iteration stops early
	// if fn returns an error, which is propagated to the caller.
	ForEachReport(ctx context.Context, fn func(*core.Report) error) error

	// Close releases resources held by the repository.
	Close() error
}

// EmbeddingRepository persists per-report embedding sets. The stored sets are
// the source of truth for index rebuilds and serve as an audit trail.
type EmbeddingRepository interface {
	// PutEmbeddingSet stores the embedding set for a report, replacing any
	// previous set for the same report.
	PutEmbeddingSet(ctx context.Context, set *core.EmbeddingSet) error

	// GetEmbeddingSet retrieves the embedding set for a report.
	// Returns ErrNotFound if no set was stored.
	GetEmbeddingSet(ctx context.Context, reportID string) (*core.EmbeddingSet, error)

	// ForEachEmbeddingSet iterates all stored embedding sets. The iteration
	// stops early if fn returns an error, which is propagated to the caller.
	ForEachEmbeddingSet(ctx context.Context, fn func(*core.EmbeddingSet) error) error

	// Close releases resources held by the repository.
	Close() error
}

// IndexStore maintains one durable nearest-neighbor index per modality.
//
// Indexes are append-only: there is no deletion or update path. Inserting the
// same (vector, id) twice produces two retrievable entries. Dimensionality is
// fixed at first insertion and never changes. Implementations must serialize
// inserts per modality and must never expose a partially-written index to
// concurrent searches.
type IndexStore interface {
	// Ensure lazily creates the index for a modality with the given
	// dimensionality. It is a no-op if the index already exists with the
	// same dimensionality and returns ErrDimensionMismatch otherwise.
	Ensure(modality core.Modality, dim int) error

	// Add appends vectors with their owning report ids to a modality index.
	// len(vectors) must equal len(reportIDs) (ErrLengthMismatch otherwise).
	// The index is created on first insertion; later insertions with a
	// different dimensionality fail with ErrDimensionMismatch.
	Add(ctx context.Context, modality core.Modality, vectors [][]float32, reportIDs []string) error

	// Search returns up to k nearest neighbors of query in the modality
	// index, ordered descending by inner-product similarity. Callers should
	// pre-normalize vectors so similarities are cosine-comparable.
	// Returns ErrIndexNotFound if the modality was never initialized.
	Search(ctx context.Context, modality core.Modality, query []float32, k int) ([]core.NeighborHit, error)

	// Dim returns the fixed dimensionality of a modality index, and false
	// if the index was never initialized.
	Dim(modality core.Modality) (int, bool)

	// Len returns the number of entries in a modality index (0 if absent).
	Len(modality core.Modality) int

	// Close releases resources held by the store.
	Close() error
}

// MatchRepository persists match records with pair-level idempotency.
type MatchRepository interface {
	// InsertMatch stores a match record unless a record for the same
	// (lost, found) pair already exists. Returns true when the record was
	// inserted, false when an existing record made the insert a no-op.
	InsertMatch(ctx context.Context, record *core.MatchRecord) (bool, error)

	// GetMatch retrieves a match record by its id.
	// Returns ErrNotFound if the record doesn't exist.
	GetMatch(ctx context.Context, id string) (*core.MatchRecord, error)

	// GetMatchByPair retrieves the match record for a (lost, found) pair.
	// Returns ErrNotFound if no record exists for the pair.
	GetMatchByPair(ctx context.Context, lostReportID, foundReportID string) (*core.MatchRecord, error)

	// ListMatches returns all match records with the given status, or all
	// records when status is 0.
	ListMatches(ctx context.Context, status core.MatchStatus) ([]*core.MatchRecord, error)

	// UpdateMatchStatus transitions a match record's review status.
	// Returns ErrNotFound if the record doesn't exist.
	UpdateMatchStatus(ctx context.Context, id string, status core.MatchStatus) error

	// Close releases resources held by the repository.
	Close() error
}
