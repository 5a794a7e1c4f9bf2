package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/warin/clinicstats/internal/clean"
	"github.com/warin/clinicstats/internal/config"
	"github.com/warin/clinicstats/internal/exitcode"
	"github.com/warin/clinicstats/internal/filter"
	"github.com/warin/clinicstats/internal/logging"
	"github.com/warin/clinicstats/internal/model"
	"github.com/warin/clinicstats/internal/source"
	"github.com/warin/clinicstats/internal/strategy"
	"github.com/warin/clinicstats/internal/views"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print every dashboard view as terminal tables",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&cfg.StartDate, "start", "", "Start date YYYY-MM-DD (inclusive)")
	f.StringVar(&cfg.EndDate, "end", "", "End date YYYY-MM-DD (inclusive)")
	f.StringSliceVar(&cfg.Branches, "branches", nil, "Branches to include (default all)")
	f.StringVar(&cfg.ProfitFormula, "formula", "", "Profit formula: per_unit, current or fixed40")
	f.IntVar(&cfg.TopN, "topn", 0, "Top-N for ranked views (5-60)")
	f.BoolVar(&cfg.StrictDedup, "strict-dedup", true, "Drop duplicate rows on the composite key")
	f.StringVar(&cfg.HeatmapMetric, "metric", "", "Heatmap metric: cases or revenue")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
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

	filtered, summary, err := loadAndClean(ctx, &cfg)
	if err != nil {
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.DataUnavailable)
	}

	for _, w := range summary.Warnings {
		log.Warn().Msg(w)
	}

	if filtered.Empty() {
		fmt.Println("ไม่พบข้อมูลในช่วงวันที่/สาขาที่เลือก — ปรับตัวกรองแล้วลองใหม่")
		os.Exit(exitcode.EmptyResult)
	}

	params := views.Params{TopN: cfg.TopN, HeatmapMetric: cfg.HeatmapMetric}
	for _, rendered := range views.RunAll(filtered, params) {
		fmt.Printf("\n== %s ==\n", rendered.View.Title)
		if rendered.Skipped != nil {
			fmt.Printf("ไม่พบคอลัมน์ที่ต้องใช้ — %s\n", rendered.Skipped.Error())
			continue
		}
		printTable(rendered.Table)
	}

	fmt.Printf("\n== Branch Strategy (per month) ==\n")
	if missing := filtered.Columns.Missing(model.ColBranch, model.ColLineTotal); len(missing) > 0 {
		fmt.Println("ไม่พบคอลัมน์ที่ต้องใช้สำหรับตาราง strategy")
		return nil
	}
	printStrategy(strategy.BuildMonthlyStats(filtered))
	return nil
}

// loadAndClean runs load → clean → filter with the CLI's filter flags.
func loadAndClean(ctx context.Context, cfg *config.Config) (*model.Dataset, *model.CleanSummary, error) {
	raw, err := source.Load(ctx, cfg.Source)
	if err != nil {
		return nil, nil, err
	}

	cleaned, summary, err := clean.Clean(raw, clean.Options{
		StrictDedup:   cfg.StrictDedup,
		ProfitFormula: cfg.ProfitFormula,
	})
	if err != nil {
		return nil, nil, err
	}

	var r filter.Range
	if cfg.StartDate != "" {
		r.Start, _ = clean.ParseDate(cfg.StartDate)
	}
	if cfg.EndDate != "" {
		r.End, _ = clean.ParseDate(cfg.EndDate)
	}
	return filter.Apply(cleaned, r, cfg.Branches), summary, nil
}

func printTable(t *model.ResultTable) {
	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader(t.Columns)
	for _, row := range t.Rows {
		w.Append(row)
	}
	w.Render()
}

func printStrategy(stats []model.MonthlyBranchStat) {
	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader([]string{"Branch", "Month", "Revenue", "PI", "MoM", "Top Product", "Top Share", "Strategy"})
	for _, s := range stats {
		w.Append([]string{
			s.Branch,
			s.Month,
			fmt.Sprintf("%.2f", s.Revenue),
			fmt.Sprintf("%.2f", s.PerformanceIndex),
			fmt.Sprintf("%.2f", s.MoM),
			s.TopProduct,
			fmt.Sprintf("%.0f%%", s.TopShare*100),
			s.Strategy,
		})
	}
	w.Render()
}
