package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warin/clinicstats/internal/clean"
	"github.com/warin/clinicstats/internal/exitcode"
	"github.com/warin/clinicstats/internal/logging"
	"github.com/warin/clinicstats/internal/model"
	"github.com/warin/clinicstats/internal/source"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run load and clean; print data profile (no rendering, no writes)",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&cfg.StrictDedup, "strict-dedup", true, "Drop duplicate rows on the composite key")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := setupConfig(cmd); err != nil {
		log.Error().Err(err).Msg("config load failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	raw, err := source.Load(ctx, cfg.Source)
	if err != nil {
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.DataUnavailable)
	}

	ds, summary, err := clean.Clean(raw, clean.Options{
		StrictDedup:   cfg.StrictDedup,
		ProfitFormula: cfg.ProfitFormula,
	})
	if err != nil {
		log.Error().Err(err).Msg("clean failed")
		os.Exit(exitcode.DataUnavailable)
	}

	fmt.Println("=== clinicstats plan ===")
	fmt.Printf("Source:       %s\n", cfg.Source)
	fmt.Printf("Raw columns:  %s\n", strings.Join(raw.Columns, ", "))
	fmt.Printf("Rows read:    %d\n", summary.RowsIn)
	fmt.Printf("Rows cleaned: %d\n", summary.RowsOut)
	fmt.Printf("Bad dates:    %d dropped\n", summary.DroppedBadDate)
	if summary.DedupKey != nil {
		fmt.Printf("Dedup key:    %s (%d duplicate(s) dropped)\n",
			strings.Join(summary.DedupKey, "+"), summary.DuplicatesDropped)
	} else {
		fmt.Printf("Dedup key:    none qualified (%d exact duplicate(s) found)\n", summary.ExactDuplicates)
	}

	present := make([]string, 0, len(ds.Columns))
	for col := range ds.Columns {
		present = append(present, col)
	}
	sort.Strings(present)
	fmt.Printf("Canonical columns present: %s\n", strings.Join(present, ", "))

	branches := ds.Branches()
	sort.Strings(branches)
	fmt.Printf("Branches:     %s\n", strings.Join(branches, ", "))

	if len(ds.Records) > 0 {
		minDate, maxDate := ds.Records[0].Date, ds.Records[0].Date
		for i := range ds.Records {
			d := ds.Records[i].Date
			if d.Before(minDate) {
				minDate = d
			}
			if d.After(maxDate) {
				maxDate = d
			}
		}
		fmt.Printf("Date range:   %s .. %s\n", minDate.Format("2006-01-02"), maxDate.Format("2006-01-02"))
	}

	for _, w := range summary.Warnings {
		fmt.Printf("Warning:      %s\n", w)
	}
	printMissingViews(ds)
	return nil
}

// printMissingViews lists canonical columns that at least one view needs but
// the source lacks.
func printMissingViews(ds *model.Dataset) {
	all := []string{
		model.ColBranch, model.ColDate, model.ColDocNo, model.ColDescription,
		model.ColLineTotal, model.ColAvgCost, model.ColQuantity, model.ColAge,
		model.ColGender, model.ColDiseaseGroup, model.ColPayer,
		model.ColPaymentMethod, model.ColHospital,
	}
	if missing := ds.Columns.Missing(all...); len(missing) > 0 {
		fmt.Printf("Absent columns (dependent views will be skipped): %s\n", strings.Join(missing, ", "))
	}
}
