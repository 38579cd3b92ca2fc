package badger

import (
	"context"
	"encoding/binary"
	"slices"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/storage"
)

// IndexStore implements storage.IndexStore for BadgerDB.
//
// Entries are persisted under sequence-ordered keys and mirrored into memory
// at load time. Searches run against the memory mirror; inserts commit to
// badger first and publish to the mirror only after the commit succeeds, so
// a search never observes an entry that could be lost on restart.
type IndexStore struct {
	backend *Backend

	mu      sync.Mutex // guards the indexes map
	indexes map[core.Modality]*modalityIndex
}

// modalityIndex holds one modality's entries. The writer lock is held across
// the badger commit and the memory publish, keeping the two in step.
type modalityIndex struct {
	mu      sync.RWMutex
	dim     int
	entries []core.IndexEntry
	seq     *badger.Sequence
}

var _ storage.IndexStore = (*IndexStore)(nil)

// NewIndexStore creates an IndexStore and loads all persisted modality
// indexes into memory.
func NewIndexStore(backend *Backend) (*IndexStore, error) {
	s := &IndexStore{
		backend: backend,
		indexes: make(map[core.Modality]*modalityIndex),
	}

	for _, modality := range core.Modalities {
		idx, err := s.loadIndex(modality)
		if err != nil {
			s.Close()
			return nil, err
		}
		if idx != nil {
			s.indexes[modality] = idx
		}
	}

	return s, nil
}

// loadIndex restores a modality index from storage.
// Returns nil if the modality was never initialized.
func (s *IndexStore) loadIndex(modality core.Modality) (*modalityIndex, error) {
	var dim int
	var entries []core.IndexEntry

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeIndexMetaKey(modality))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrIndexNotFound
			}
			return err
		}
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return storage.ErrSerializationFailed
			}
			dim = int(binary.BigEndian.Uint64(val))
			return nil
		})
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makeIndexEntryPrefix(modality)
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var entry *core.IndexEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalIndexEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			entries = append(entries, *entry)
		}
		return nil
	}, false)
	if err != nil {
		if err == storage.ErrIndexNotFound {
			return nil, nil
		}
		return nil, err
	}

	seq, err := s.backend.GetSequence(indexSequenceName(modality))
	if err != nil {
		return nil, err
	}

	return &modalityIndex{
		dim:     dim,
		entries: entries,
		seq:     seq,
	}, nil
}

// Ensure lazily creates the index for a modality with the given
// dimensionality.
func (s *IndexStore) Ensure(modality core.Modality, dim int) error {
	_, err := s.ensure(modality, dim)
	return err
}

func (s *IndexStore) ensure(modality core.Modality, dim int) (*modalityIndex, error) {
	if dim <= 0 {
		return nil, storage.ErrInvalidDimension
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.indexes[modality]; ok {
		if idx.dim != dim {
			return nil, storage.ErrDimensionMismatch
		}
		return idx, nil
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(dim))
		if err := tx.Set(makeIndexMetaKey(modality), buf); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	seq, err := s.backend.GetSequence(indexSequenceName(modality))
	if err != nil {
		return nil, err
	}

	idx := &modalityIndex{
		dim: dim,
		seq: seq,
	}
	s.indexes[modality] = idx
	return idx, nil
}

// get returns the loaded index for a modality without creating it.
func (s *IndexStore) get(modality core.Modality) (*modalityIndex, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[modality]
	return idx, ok
}

// Add appends vectors with their owning report ids to a modality index.
func (s *IndexStore) Add(ctx context.Context, modality core.Modality, vectors [][]float32, reportIDs []string) error {
	if len(vectors) != len(reportIDs) {
		return storage.ErrLengthMismatch
	}
	if len(vectors) == 0 {
		return nil
	}

	idx, err := s.ensure(modality, len(vectors[0]))
	if err != nil {
		return err
	}

	entries := make([]core.IndexEntry, 0, len(vectors))
	for i, vector := range vectors {
		if len(vector) != idx.dim {
			return storage.ErrDimensionMismatch
		}
		entries = append(entries, core.IndexEntry{
			ReportId: reportIDs[i],
			Vector:   vector,
		})
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	err = s.backend.WithTx(func(tx *badger.Txn) error {
		for i := range entries {
			seq, err := idx.seq.Next()
			if err != nil {
				return err
			}
			key := makeIndexEntryKey(modality, seq)
			if err := tx.Set(key, storage.MarshalIndexEntry(&entries[i])); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	idx.entries = append(idx.entries, entries...)
	return nil
}

// Search returns up to k nearest neighbors of query in the modality index,
// ordered descending by inner-product similarity.
func (s *IndexStore) Search(ctx context.Context, modality core.Modality, query []float32, k int) ([]core.NeighborHit, error) {
	idx, ok := s.get(modality)
	if !ok {
		return nil, storage.ErrIndexNotFound
	}
	if len(query) != idx.dim {
		return nil, storage.ErrDimensionMismatch
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	hits := make([]core.NeighborHit, 0, len(idx.entries))
	for i := range idx.entries {
		hits = append(hits, core.NeighborHit{
			ReportId:   idx.entries[i].ReportId,
			Similarity: dotProduct(query, idx.entries[i].Vector),
		})
	}
	idx.mu.RUnlock()

	// Sort by similarity descending
	slices.SortFunc(hits, func(a, b core.NeighborHit) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})

	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Dim returns the fixed dimensionality of a modality index.
func (s *IndexStore) Dim(modality core.Modality) (int, bool) {
	idx, ok := s.get(modality)
	if !ok {
		return 0, false
	}
	return idx.dim, true
}

// Len returns the number of entries in a modality index.
func (s *IndexStore) Len(modality core.Modality) int {
	idx, ok := s.get(modality)
	if !ok {
		return 0
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases the badger sequences held by the store.
func (s *IndexStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, idx := range s.indexes {
		if idx.seq != nil {
			if err := idx.seq.Release(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
