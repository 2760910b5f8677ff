package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// TokenCleaner provides the ability to clear expired credential tokens.
type TokenCleaner interface {
	ClearExpiredTokens(now time.Time) (int64, error)
}

// CleanupTokensTask clears password reset and email verification tokens
// that have passed their expiry.
type CleanupTokensTask struct{}

// Config returns the queue configuration for token cleanup tasks.
func (t CleanupTokensTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_tokens",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupTokensProcessor creates a processor function for CleanupTokensTask.
func CleanupTokensProcessor(cleaner TokenCleaner) backlite.QueueProcessor[CleanupTokensTask] {
	return func(ctx context.Context, task CleanupTokensTask) error {
		if cleaner == nil {
			return fmt.Errorf("token cleaner not configured")
		}

		cleared, err := cleaner.ClearExpiredTokens(time.Now())
		if err != nil {
			return fmt.Errorf("cleanup tokens: %w", err)
		}

		log.Printf("[QUEUE] Cleared expired tokens on %d accounts", cleared)
		return nil
	}
}

// NewCleanupTokensQueue creates a backlite queue for token cleanup tasks.
func NewCleanupTokensQueue(cleaner TokenCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupTokensProcessor(cleaner))
}
