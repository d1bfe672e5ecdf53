package pipeline

import (
	"context"
	"fmt"

	"go-sales-report/internal/config"
	"go-sales-report/internal/logger"
	"go-sales-report/internal/model"
	"go-sales-report/internal/store"
	"go-sales-report/pkg/utils"
)

// Report is everything a run computed
type Report struct {
	Run       model.RunSummary
	Yearly    map[int]*model.YearlySummary
	Customers []model.CustomerSummary
}

// Run loads every input file, builds the yearly and customer summaries and
// writes them under cfg.OutputDir. When cfg.SQLitePath is set the tables are
// mirrored into SQLite as well. Any error aborts the run; files already
// written stay on disk.
func Run(ctx context.Context, cfg *config.Config) (report *Report, err error) {
	tracker := NewTracker()
	log := logger.FromContext(ctx).With().Str("run_id", tracker.ID()).Logger()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("input", cfg.InputDir).Str("output", cfg.OutputDir).Msg("starting report run")
	defer func() {
		if err != nil {
			run := tracker.Fail(err)
			log.Error().Err(err).Dur("elapsed", run.FinishedAt.Sub(run.StartedAt)).Msg("report run failed")
		}
	}()

	var loaded *LoadResult
	if err = tracker.Stage("load", func() (err error) {
		loaded, err = LoadDirectory(ctx, cfg)
		return err
	}); err != nil {
		return nil, err
	}
	tracker.RecordLoad(loaded)

	var (
		yearly    map[int]*model.YearlySummary
		customers []model.CustomerSummary
	)
	if err = tracker.Stage("aggregate", func() (err error) {
		yearly, err = AggregateYearly(loaded.Transactions, cfg)
		if err != nil {
			return err
		}
		customers = SummarizeCustomers(loaded.Transactions)
		return nil
	}); err != nil {
		return nil, err
	}
	tracker.RecordAggregates(yearly, customers)
	log.Info().
		Int("rows", len(loaded.Transactions)).
		Int("rejected", len(loaded.Rejected)).
		Int("years", len(yearly)).
		Int("customers", len(customers)).
		Dur("elapsed", tracker.StageDuration("aggregate")).
		Msg("aggregation complete")

	exporter := &Exporter{
		Output:      utils.NewOutputManager(cfg.OutputDir),
		Sizes:       cfg.Sizes,
		RegionLabel: cfg.Region.Label,
	}
	if err = tracker.Stage("export", func() error {
		results, err := exporter.Export(ctx, yearly, customers)
		tracker.RecordArtifacts(results)
		return err
	}); err != nil {
		return nil, err
	}

	if cfg.SQLitePath != "" {
		if err = tracker.Stage("sqlite", func() error {
			return mirrorToSQLite(ctx, cfg.SQLitePath, tracker, loaded.Transactions, yearly, customers)
		}); err != nil {
			return nil, err
		}
	}

	run := tracker.Complete()
	log.Info().
		Int("artifacts", len(run.Artifacts)).
		Dur("elapsed", run.FinishedAt.Sub(run.StartedAt)).
		Msg("report run completed")

	return &Report{Run: run, Yearly: yearly, Customers: customers}, nil
}

func mirrorToSQLite(ctx context.Context, path string, tracker *Tracker, txns []model.Transaction,
	yearly map[int]*model.YearlySummary, customers []model.CustomerSummary) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	run := tracker.Summary()
	run.Status = statusCompleted
	run.FinishedAt = tracker.now()
	if err := db.SaveReport(ctx, run, txns, yearly, customers); err != nil {
		return fmt.Errorf("failed to mirror report into %s: %w", path, err)
	}

	tracker.RecordArtifacts([]model.ExportResult{{
		Type:        "sqlite",
		Path:        path,
		RecordCount: len(txns),
		ExportedAt:  run.FinishedAt,
	}})
	log := logger.FromContext(ctx)
	log.Info().Str("path", path).Int("records", len(txns)).Msg("report mirrored to sqlite")
	return nil
}
