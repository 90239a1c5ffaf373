package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// CleanupJob prunes old read notifications on a fixed interval.
type CleanupJob struct {
	repo          Repository
	retentionDays int
}

func NewCleanupJob(repo Repository, retentionDays int) *CleanupJob {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &CleanupJob{
		repo:          repo,
		retentionDays: retentionDays,
	}
}

// Start blocks until ctx is cancelled, running cleanup on every tick.
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	j.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Notification cleanup job stopped")
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *CleanupJob) run(ctx context.Context) {
	deleted, err := j.repo.DeleteOlderThan(ctx, time.Duration(j.retentionDays)*24*time.Hour)
	if err != nil {
		log.Error().Err(err).Msg("Failed to cleanup old notifications")
		return
	}

	if deleted > 0 {
		log.Info().
			Int64("deleted", deleted).
			Int("retention_days", j.retentionDays).
			Msg("Cleaned up old notifications")
	}
}

// RunOnce runs cleanup once (for manual trigger or testing)
func (j *CleanupJob) RunOnce(ctx context.Context) (int64, error) {
	return j.repo.DeleteOlderThan(ctx, time.Duration(j.retentionDays)*24*time.Hour)
}
