package match

import (
	"context"
	"log/slog"

	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/notify"
	"github.com/poiesic/refind/storage"
)

// Notifier receives events for freshly persisted matches.
// *notify.Hub satisfies this interface.
type Notifier interface {
	Publish(event notify.MatchEvent)
}

// sink persists match records and announces fresh inserts.
// Reruns over the same pair hit the repository's insert-or-ignore path and
// produce no duplicate records and no duplicate notifications.
type sink struct {
	matches  storage.MatchRepository
	notifier Notifier
	logger   *slog.Logger
}

// persist stores a record and notifies subscribers when the insert was fresh.
// Returns whether the record was freshly inserted.
func (s *sink) persist(ctx context.Context, record *core.MatchRecord) (bool, error) {
	inserted, err := s.matches.InsertMatch(ctx, record)
	if err != nil {
		return false, err
	}
	if !inserted {
		s.logger.Debug("match pair already recorded",
			"lost", record.LostReportId, "found", record.FoundReportId)
		return false, nil
	}

	if s.notifier != nil {
		s.notifier.Publish(notify.MatchEvent{
			MatchId:       record.Id,
			LostReportId:  record.LostReportId,
			FoundReportId: record.FoundReportId,
			FusedScore:    record.FusedScore,
		})
	}
	return true, nil
}
