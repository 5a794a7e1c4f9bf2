package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warin/clinicstats/internal/db"
	"github.com/warin/clinicstats/internal/exitcode"
	"github.com/warin/clinicstats/internal/export"
	"github.com/warin/clinicstats/internal/logging"
	"github.com/warin/clinicstats/internal/model"
	"github.com/warin/clinicstats/internal/strategy"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Bulk-load cleaned rows and monthly stats into Postgres",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&cfg.StartDate, "start", "", "Start date YYYY-MM-DD (inclusive)")
	f.StringVar(&cfg.EndDate, "end", "", "End date YYYY-MM-DD (inclusive)")
	f.StringSliceVar(&cfg.Branches, "branches", nil, "Branches to include (default all)")
	f.StringVar(&cfg.ProfitFormula, "formula", "", "Profit formula: per_unit, current or fixed40")
	f.BoolVar(&cfg.StrictDedup, "strict-dedup", true, "Drop duplicate rows on the composite key")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := setupConfig(cmd); err != nil {
		log.Error().Err(err).Msg("config load failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	filtered, summary, err := loadAndClean(ctx, &cfg)
	if err != nil {
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.DataUnavailable)
	}
	for _, w := range summary.Warnings {
		log.Warn().Msg(w)
	}
	if filtered.Empty() {
		log.Warn().Msg("nothing to export after filtering")
		os.Exit(exitcode.EmptyResult)
	}

	var stats []model.MonthlyBranchStat
	if len(filtered.Columns.Missing(model.ColBranch, model.ColLineTotal)) == 0 {
		stats = strategy.BuildMonthlyStats(filtered)
	}

	result, err := export.Run(ctx, pool, log, filtered, stats, export.Options{
		Source:        cfg.Source,
		ProfitFormula: cfg.ProfitFormula,
	})
	if err != nil {
		if pe, ok := err.(*export.PipelineError); ok {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("export failed")
		} else {
			log.Error().Err(err).Msg("export failed")
		}
		os.Exit(exitcode.ExportError)
	}

	fmt.Printf("Export complete: %d line(s), %d stat row(s), batch %s (%.1fs)\n",
		result.RowsCopied, result.StatsCopied, result.ExportBatchID, result.DurationTotal.Seconds())
	return nil
}
