package audit

import (
	"log/slog"
	"time"

	auditDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/audit"
)

// Sweeper collapses duplicate audit entries offline. Entries are
// duplicates when they share action, actor and target and fall into the
// same one minute bucket. The oldest entry of each bucket survives.
type Sweeper struct {
	repo   RepositoryAPI
	logger *slog.Logger
	window time.Duration
}

func NewSweeper(repo RepositoryAPI, logger *slog.Logger, window time.Duration) *Sweeper {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Sweeper{
		repo:   repo,
		logger: logger,
		window: window,
	}
}

type dedupKey struct {
	action     string
	targetType string
	targetID   string
	actorID    int64
	bucket     int64
}

// Sweep removes duplicates recorded within the sweeper window.
func (s *Sweeper) Sweep(now time.Time) (int64, error) {
	entries, err := s.repo.ListBetween(now.Add(-s.window), now)
	if err != nil {
		return 0, err
	}

	oldest := make(map[dedupKey]*auditDatamodel.AuditEntry)
	var stale []string
	for _, entry := range entries {
		key := dedupKey{
			action:     entry.Action,
			targetType: entry.TargetType,
			targetID:   entry.TargetID,
			actorID:    entry.ActorID,
			bucket:     entry.CreatedAt.Truncate(time.Minute).Unix(),
		}
		kept, seen := oldest[key]
		if !seen {
			oldest[key] = entry
			continue
		}
		if entry.CreatedAt.Before(kept.CreatedAt) {
			stale = append(stale, kept.ID)
			oldest[key] = entry
		} else {
			stale = append(stale, entry.ID)
		}
	}

	if len(stale) == 0 {
		return 0, nil
	}

	removed, err := s.repo.DeleteByIDs(stale)
	if err != nil {
		return 0, err
	}

	s.logger.Info("audit dedup sweep finished", "scanned", len(entries), "removed", removed)
	return removed, nil
}
