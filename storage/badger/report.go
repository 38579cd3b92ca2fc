package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/storage"
)

// ReportRepository implements storage.ReportRepository for BadgerDB.
type ReportRepository struct {
	backend *Backend
}

var _ storage.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(backend *Backend) (*ReportRepository, error) {
	return &ReportRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ReportRepository has no resources to release.
func (r *ReportRepository) Close() error {
	return nil
}

// AddReports validates and stores one or more reports.
func (r *ReportRepository) AddReports(ctx context.Context, reports ...*core.Report) error {
	for _, report := range reports {
		if report.CreatedAt.IsZero() {
			report.CreatedAt = time.Now().UTC()
		}
		if report.Status == 0 {
			report.Status = core.ReportStatusOpen
		}
		if err := core.ValidateReport(report); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, report := range reports {
			key := makeReportKey(report.Id)
			value := storage.MarshalReport(report)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetReport retrieves a single report by ID.
func (r *ReportRepository) GetReport(ctx context.Context, id string) (*core.Report, error) {
	var result *core.Report
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readReport(tx, makeReportKey(id))
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

// GetReports retrieves multiple reports by ID, skipping missing ones.
func (r *ReportRepository) GetReports(ctx context.Context, ids ...string) ([]*core.Report, error) {
	var result []*core.Report
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			report, err := readReport(tx, makeReportKey(id))
			if err != nil {
				return err
			}
			if report != nil {
				result = append(result, report)
			}
		}
		return nil
	}, false)
	return result, err
}

// UpdateReportStatus transitions a report's lifecycle status.
func (r *ReportRepository) UpdateReportStatus(ctx context.Context, id string, status core.ReportStatus) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeReportKey(id)
		report, err := readReport(tx, key)
		if err != nil {
			return err
		}
		if report == nil {
			return storage.ErrNotFound
		}

		report.Status = status
		if err := tx.Set(key, storage.MarshalReport(report)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ForEachReport iterates all stored reports.
func (r *ReportRepository) ForEachReport(ctx context.Context, fn func(*core.Report) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(reportRecordPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var report *core.Report
			err := iter.Item().Value(func(val []byte) error {
				var err error
				report, err = storage.UnmarshalReport(val)
				return err
			})
			if err != nil {
				return err
			}

			if err := fn(report); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// readReport reads a report from the transaction.
func readReport(tx *badger.Txn, key []byte) (*core.Report, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var report *core.Report
	err = item.Value(func(val []byte) error {
		var err error
		report, err = storage.UnmarshalReport(val)
		return err
	})
	return report, err
}
