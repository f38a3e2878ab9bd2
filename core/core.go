package core

import (
	"context"
	"fmt"
	"time"

	"github.com/mfofanah/dhistat/core/agg"
	"github.com/mfofanah/dhistat/core/period"
	"github.com/mfofanah/dhistat/internal/contract"
	"github.com/mfofanah/dhistat/internal/outwriter"
	"github.com/mfofanah/dhistat/internal/tabload"
	"github.com/mfofanah/dhistat/schema"
)

// ExecutorFunc defines the function signature for executing different pipeline modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteNormalize loads the input dataset, resolves its period labels and
// prints the extended dataset. It serves as the main entry point for the
// 'normalize' mode.
func ExecuteNormalize(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()

	ds, err := tabload.LoadCSV(cfg.InputFile, cfg.PeriodColumn)
	if err != nil {
		return err
	}

	normalized, report, err := NormalizeDataset(ctx, ds, cfg.PeriodColumn, cfg.Workers)
	if err != nil {
		return err
	}

	ow := outwriter.NewOutWriter()
	if err := ow.WriteNormalized(normalized, cfg); err != nil {
		return err
	}

	printNormalizeSummary(report, cfg, time.Since(start))
	return nil
}

// ExecuteAggregate loads the input dataset, normalizes it and prints one
// aggregated table per selected level. Levels whose grouping columns are
// absent are skipped with a warning instead of failing the run.
func ExecuteAggregate(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()

	ds, err := tabload.LoadCSV(cfg.InputFile, cfg.PeriodColumn)
	if err != nil {
		return err
	}

	normalized, report, err := NormalizeDataset(ctx, ds, cfg.PeriodColumn, cfg.Workers)
	if err != nil {
		return err
	}

	if _, err := writeAggregatedLevels(ctx, normalized, cfg); err != nil {
		return err
	}

	printNormalizeSummary(report, cfg, time.Since(start))
	return nil
}

// ExecuteRun performs the full pipeline: normalize, aggregate every level,
// print all outputs, and persist the run through the results store when one
// is configured. A nil store from the manager disables persistence without
// changing the printed output.
func ExecuteRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	ds, err := tabload.LoadCSV(cfg.InputFile, cfg.PeriodColumn)
	if err != nil {
		return err
	}

	store := mgr.GetResultsStore()
	var runID int64
	if store != nil {
		runID, err = store.BeginRun(start, cfg.InputFile)
		if err != nil {
			return fmt.Errorf("failed to begin run: %w", err)
		}
	}

	normalized, report, err := NormalizeDataset(ctx, ds, cfg.PeriodColumn, cfg.Workers)
	if err != nil {
		return err
	}

	ow := outwriter.NewOutWriter()
	if err := ow.WriteNormalized(normalized, cfg); err != nil {
		return err
	}

	results, err := writeAggregatedLevels(ctx, normalized, cfg)
	if err != nil {
		return err
	}

	if store != nil {
		for i, result := range results {
			values, err := agg.LongValues(result, cfg.Levels[i])
			if err != nil {
				return err
			}
			if err := store.RecordLevelValues(runID, values); err != nil {
				return fmt.Errorf("failed to persist level %s: %w", result.LevelName, err)
			}
		}
		if err := store.EndRun(runID, time.Now(), report.TotalRows, report.ResolvedRows); err != nil {
			return fmt.Errorf("failed to end run: %w", err)
		}
	}

	printNormalizeSummary(report, cfg, time.Since(start))
	return nil
}

// ExecuteFormats displays the supported period label formats with examples.
// This is a static display that does not require an input dataset.
func ExecuteFormats(_ context.Context, cfg *contract.Config) error {
	table := schema.NewDataset("format", "example")
	for _, rule := range period.Rules {
		// Rule shape comes from the static table; append cannot fail.
		_ = table.AppendRow([]any{rule.Name, rule.Example})
	}
	return outwriter.WriteDataset(table, "Supported period formats", "format", []string{"format"}, cfg, cfg.OutputFile)
}

// writeAggregatedLevels aggregates every configured level and prints the
// surviving tables. Skipped levels produce a stderr warning.
func writeAggregatedLevels(ctx context.Context, ds *schema.Dataset, cfg *contract.Config) ([]*agg.Result, error) {
	results, err := agg.AggregateLevels(ctx, ds, cfg.Levels)
	if err != nil {
		return nil, err
	}

	ow := outwriter.NewOutWriter()
	for i, result := range results {
		if result.Skipped() {
			contract.LogWarn(
				fmt.Sprintf("skipping level %s", result.LevelName),
				fmt.Errorf("missing grouping columns: %v", result.Missing))
			continue
		}
		if err := ow.WriteLevel(result.Table, cfg.Levels[i], cfg); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// printNormalizeSummary prints resolution statistics for a run. The summary
// goes to stdout only in text mode or when data went to a file, so machine
// readable stdout output stays clean.
func printNormalizeSummary(report schema.NormalizeReport, cfg *contract.Config, duration time.Duration) {
	if cfg.Output != schema.TextOut && cfg.OutputFile == "" {
		return
	}

	rate := report.ResolutionRate()
	label := contract.GetPlainLabel(rate)
	if cfg.UseColors {
		label = contract.GetColorLabel(rate)
	}

	fmt.Println("Period Resolution:")
	fmt.Printf("  Total rows:  %d\n", report.TotalRows)
	fmt.Printf("  Resolved:    %d\n", report.ResolvedRows)
	fmt.Printf("  Unresolved:  %d\n", report.UnresolvedRows)
	fmt.Printf("  Rate:        %.1f%% (%s)\n", rate*100, label)
	fmt.Printf("\nProcessed %d rows in %v\n", report.TotalRows, duration)
}
