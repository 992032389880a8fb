package scheduler

import "context"

// Job is a unit of background maintenance work.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Schedule is a cron spec such as "@every 1h". An empty string registers
	// the job for on-demand runs only.
	Schedule() string

	Run(ctx context.Context) error
}
