package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TokenCleanupJobName identifies the refresh token purge
const TokenCleanupJobName = "refresh_token_cleanup"

// tokenCleanupTimeout bounds a single purge
const tokenCleanupTimeout = 5 * time.Minute

// StaleTokenStore deletes refresh tokens that can no longer be used
type StaleTokenStore interface {
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// TokenCleanupJob purges expired and revoked refresh tokens
type TokenCleanupJob struct {
	store  StaleTokenStore
	logger *zap.Logger
	now    func() time.Time
}

func NewTokenCleanupJob(store StaleTokenStore, logger *zap.Logger) *TokenCleanupJob {
	return &TokenCleanupJob{store: store, logger: logger, now: time.Now}
}

// Run deletes every token that expired, or was revoked, before now
func (j *TokenCleanupJob) Run(ctx context.Context) error {
	deleted, err := j.store.DeleteStale(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	j.logger.Info("purged refresh tokens", zap.Int64("deleted", deleted))
	return nil
}

// RegisterTokenCleanupJob schedules the purge with cronExpr
func RegisterTokenCleanupJob(scheduler *Scheduler, store StaleTokenStore, logger *zap.Logger, cronExpr string) error {
	job := NewTokenCleanupJob(store, logger)
	return scheduler.AddJob(TokenCleanupJobName, cronExpr, tokenCleanupTimeout, job.Run)
}
