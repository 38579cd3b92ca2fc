package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	return &EmbeddingRepository{
		backend: backend,
	}, nil
}

// Close releases resources. EmbeddingRepository has no resources to release.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// PutEmbeddingSet stores the embedding set for a report, replacing any
// previous set for the same report.
func (r *EmbeddingRepository) PutEmbeddingSet(ctx context.Context, set *core.EmbeddingSet) error {
	if set.ReportId == "" {
		return core.ErrEmptyReportId
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeEmbeddingSetKey(set.ReportId)
		if err := tx.Set(key, storage.MarshalEmbeddingSet(set)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetEmbeddingSet retrieves the embedding set for a report.
func (r *EmbeddingRepository) GetEmbeddingSet(ctx context.Context, reportID string) (*core.EmbeddingSet, error) {
	var result *core.EmbeddingSet
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingSetKey(reportID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalEmbeddingSet(val)
			return err
		})
	}, false)
	return result, err
}

// ForEachEmbeddingSet iterates all stored embedding sets.
func (r *EmbeddingRepository) ForEachEmbeddingSet(ctx context.Context, fn func(*core.EmbeddingSet) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(embeddingSetPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var set *core.EmbeddingSet
			err := iter.Item().Value(func(val []byte) error {
				var err error
				set, err = storage.UnmarshalEmbeddingSet(val)
				return err
			})
			if err != nil {
				return err
			}

			if err := fn(set); err != nil {
				return err
			}
		}
		return nil
	}, false)
}
