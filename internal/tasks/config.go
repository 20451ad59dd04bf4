package tasks

import (
	"time"

	"github.com/mikestefanello/backlite"
)

// Config tunes the refresh queue. Both refresh queues share one retry
// policy: a snapshot reload is idempotent, so a retried run is just a
// slightly later reload.
type Config struct {
	// Workers is the number of concurrent queue workers.
	Workers int

	// MaxRetries is how many attempts a failed refresh gets.
	MaxRetries int

	// RetryDelay is the backoff between attempts.
	RetryDelay time.Duration

	// TaskTimeout bounds a single refresh run.
	TaskTimeout time.Duration

	// ReleaseAfter is when tasks stuck in a dead worker return to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks are pruned.
	CleanupInterval time.Duration

	// RetentionDuration is how long completed tasks stay inspectable.
	RetentionDuration time.Duration
}

// DefaultConfig returns the tuning used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        30 * time.Second,
		TaskTimeout:       2 * time.Minute,
		ReleaseAfter:      10 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// queueConfig applies the shared retry policy to one named queue. Payload
// data is retained only for failed runs.
func (c Config) queueConfig(name string) backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        name,
		MaxAttempts: c.MaxRetries,
		Backoff:     c.RetryDelay,
		Timeout:     c.TaskTimeout,
		Retention: &backlite.Retention{
			Duration:   c.RetentionDuration,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}
