package pipeline

import (
	"sort"
	"time"

	"go-sales-report/internal/model"

	"github.com/google/uuid"
)

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
)

// Tracker records what a run did, stage by stage
type Tracker struct {
	run    model.RunSummary
	stages map[string]time.Duration
	now    func() time.Time
}

// NewTracker starts tracking a run with a fresh ID
func NewTracker() *Tracker {
	t := &Tracker{
		stages: make(map[string]time.Duration),
		now:    time.Now,
	}
	t.run = model.RunSummary{
		ID:        uuid.New().String(),
		StartedAt: t.now(),
		Status:    statusRunning,
	}
	return t
}

func (t *Tracker) ID() string { return t.run.ID }

// Stage times fn under the given stage name
func (t *Tracker) Stage(name string, fn func() error) error {
	start := t.now()
	err := fn()
	t.stages[name] += t.now().Sub(start)
	return err
}

// StageDuration returns the accumulated time spent in a stage
func (t *Tracker) StageDuration(name string) time.Duration {
	return t.stages[name]
}

func (t *Tracker) RecordLoad(res *LoadResult) {
	t.run.Files = res.Files
	t.run.FileCount = len(res.Files)
	t.run.RowsLoaded = len(res.Transactions)
	t.run.RowsRejected = len(res.Rejected)
}

func (t *Tracker) RecordAggregates(yearly map[int]*model.YearlySummary, customers []model.CustomerSummary) {
	t.run.Years = t.run.Years[:0]
	for year := range yearly {
		t.run.Years = append(t.run.Years, year)
	}
	sort.Ints(t.run.Years)
	t.run.Customers = len(customers)
}

func (t *Tracker) RecordArtifacts(results []model.ExportResult) {
	t.run.Artifacts = append(t.run.Artifacts, results...)
}

// Complete marks the run completed and returns a snapshot
func (t *Tracker) Complete() model.RunSummary {
	t.run.Status = statusCompleted
	t.run.FinishedAt = t.now()
	return t.Summary()
}

// Fail marks the run failed with err and returns a snapshot
func (t *Tracker) Fail(err error) model.RunSummary {
	t.run.Status = statusFailed
	t.run.FinishedAt = t.now()
	if err != nil {
		t.run.Error = err.Error()
	}
	return t.Summary()
}

// Summary returns a copy of the run record
func (t *Tracker) Summary() model.RunSummary {
	run := t.run
	run.Files = append([]model.FileStats(nil), t.run.Files...)
	run.Years = append([]int(nil), t.run.Years...)
	run.Artifacts = append([]model.ExportResult(nil), t.run.Artifacts...)
	return run
}
