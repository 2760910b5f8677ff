package tasks

import "time"

// Config tunes the maintenance queue. Every knob has an environment
// default in internal/config; DefaultConfig mirrors those for callers
// that construct the queue directly.
type Config struct {
	// Workers is how many tasks may run concurrently.
	Workers int

	// MaxRetries caps attempts for a failing task.
	MaxRetries int

	// RetryDelay is the backoff between attempts.
	RetryDelay time.Duration

	// TaskTimeout bounds a single task execution.
	TaskTimeout time.Duration

	// ReleaseAfter is when a claimed but silent task is handed back to
	// the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed rows are swept.
	CleanupInterval time.Duration

	// RetentionDuration is how long completed rows survive the sweep.
	RetentionDuration time.Duration
}

// DefaultConfig returns the tuning used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}
