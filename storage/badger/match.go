package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/storage"
)

// MatchRepository implements storage.MatchRepository for BadgerDB.
//
// Records are keyed by the (lost, found) pair fingerprint, which makes the
// pair the unit of idempotency. A secondary key maps the match id to the
// fingerprint for id lookups.
type MatchRepository struct {
	backend *Backend
}

var _ storage.MatchRepository = (*MatchRepository)(nil)

// NewMatchRepository creates a new MatchRepository.
func NewMatchRepository(backend *Backend) (*MatchRepository, error) {
	return &MatchRepository{
		backend: backend,
	}, nil
}

// Close releases resources. MatchRepository has no resources to release.
func (r *MatchRepository) Close() error {
	return nil
}

// InsertMatch stores a match record unless one already exists for the same
// (lost, found) pair. Returns true when the record was inserted.
func (r *MatchRepository) InsertMatch(ctx context.Context, record *core.MatchRecord) (bool, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if err := core.ValidateMatchRecord(record); err != nil {
		return false, err
	}

	inserted := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMatchKey(record.Fingerprint())
		_, err := tx.Get(key)
		if err == nil {
			// Pair already recorded, leave the existing record alone.
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		if err := tx.Set(key, storage.MarshalMatchRecord(record)); err != nil {
			return err
		}
		idValue := storage.MarshalID(record.Fingerprint())
		if err := tx.Set(makeMatchIDKey(record.Id), idValue); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		inserted = true
		return nil
	}, true)

	return inserted, err
}

// GetMatch retrieves a match record by its id.
func (r *MatchRepository) GetMatch(ctx context.Context, id string) (*core.MatchRecord, error) {
	var result *core.MatchRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		fingerprint, err := readMatchFingerprint(tx, id)
		if err != nil {
			return err
		}
		result, err = readMatchRecord(tx, makeMatchKey(fingerprint))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetMatchByPair retrieves the match record for a (lost, found) pair.
func (r *MatchRepository) GetMatchByPair(ctx context.Context, lostReportID, foundReportID string) (*core.MatchRecord, error) {
	var result *core.MatchRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMatchKey(core.PairFingerprint(lostReportID, foundReportID))
		var err error
		result, err = readMatchRecord(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListMatches returns all match records with the given status, or all records
// when status is 0.
func (r *MatchRepository) ListMatches(ctx context.Context, status core.MatchStatus) ([]*core.MatchRecord, error) {
	var results []*core.MatchRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(matchRecordPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record *core.MatchRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalMatchRecord(val)
				return err
			})
			if err != nil {
				return err
			}

			if status == 0 || record.Status == status {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// UpdateMatchStatus transitions a match record's review status.
func (r *MatchRepository) UpdateMatchStatus(ctx context.Context, id string, status core.MatchStatus) error {
	if err := core.ValidateMatchStatus(status); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		fingerprint, err := readMatchFingerprint(tx, id)
		if err != nil {
			return err
		}

		key := makeMatchKey(fingerprint)
		record, err := readMatchRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}

		record.Status = status
		if err := tx.Set(key, storage.MarshalMatchRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readMatchFingerprint resolves a match id to its pair fingerprint.
func readMatchFingerprint(tx *badger.Txn, id string) (core.ID, error) {
	item, err := tx.Get(makeMatchIDKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, storage.ErrNotFound
		}
		return 0, err
	}

	var fingerprint core.ID
	err = item.Value(func(val []byte) error {
		var err error
		fingerprint, err = storage.UnmarshalID(val)
		return err
	})
	return fingerprint, err
}

// readMatchRecord reads a match record from the transaction.
func readMatchRecord(tx *badger.Txn, key []byte) (*core.MatchRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.MatchRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalMatchRecord(val)
		return err
	})
	return record, err
}
