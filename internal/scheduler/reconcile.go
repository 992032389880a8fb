package scheduler

import (
	"context"
	"log"
)

type counterReconciler interface {
	ReconcileCounters(ctx context.Context) (int64, error)
}

// CounterJob rebuilds the denormalized board and thread counters from the
// active rows, repairing any drift left by interrupted writes.
type CounterJob struct {
	repo     counterReconciler
	schedule string
}

func NewCounterJob(repo counterReconciler, schedule string) *CounterJob {
	return &CounterJob{repo: repo, schedule: schedule}
}

func (j *CounterJob) Name() string {
	return "counter-reconcile"
}

func (j *CounterJob) Schedule() string {
	return j.schedule
}

func (j *CounterJob) Run(ctx context.Context) error {
	rows, err := j.repo.ReconcileCounters(ctx)
	if err != nil {
		return err
	}
	log.Printf("🔁 Reconciled counters on %d rows", rows)
	return nil
}
