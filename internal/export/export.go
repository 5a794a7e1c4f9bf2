package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/warin/clinicstats/internal/db"
	"github.com/warin/clinicstats/internal/model"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Options names the run for the batch registry.
type Options struct {
	Source        string
	ProfitFormula string
}

const copyBatchSize = 1024

// Run bulk-loads a cleaned dataset and its monthly stats into Postgres:
// migrate → register batch → copy lines → copy stats → finalize. The export
// is best-effort; a failed batch leaves its registry row with null counts.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, ds *model.Dataset, stats []model.MonthlyBranchStat, opts Options) (*model.ExportSummary, error) {
	totalStart := time.Now()
	batchID := uuid.New()

	log.Info().Str("source", opts.Source).Msg("applying migrations")
	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		return nil, &PipelineError{Phase: "migrate", Err: err}
	}

	log.Info().Str("batch_id", batchID.String()).Msg("registering export batch")
	_, err := pool.Exec(ctx,
		"INSERT INTO analytics.export_batches (export_batch_id, source, profit_formula) VALUES ($1, $2, $3)",
		batchID, opts.Source, opts.ProfitFormula,
	)
	if err != nil {
		return nil, &PipelineError{Phase: "register", Err: err}
	}

	copyStart := time.Now()
	rowsCopied, err := copyLines(ctx, pool, ds, batchID)
	if err != nil {
		return nil, &PipelineError{Phase: "copy-lines", Err: err}
	}

	statsCopied, err := copyStats(ctx, pool, stats, batchID)
	if err != nil {
		return nil, &PipelineError{Phase: "copy-stats", Err: err}
	}
	copyDur := time.Since(copyStart)

	_, err = pool.Exec(ctx,
		"UPDATE analytics.export_batches SET rows_copied = $2, stats_copied = $3 WHERE export_batch_id = $1",
		batchID, rowsCopied, statsCopied,
	)
	if err != nil {
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}

	summary := &model.ExportSummary{
		Source:        opts.Source,
		ExportBatchID: batchID.String(),
		RowsCopied:    rowsCopied,
		StatsCopied:   statsCopied,
		DurationCopy:  copyDur,
		DurationTotal: time.Since(totalStart),
	}

	log.Info().
		Int64("rows_copied", summary.RowsCopied).
		Int64("stats_copied", summary.StatsCopied).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("export complete")

	return summary, nil
}

// copyLines streams cleaned records through a channel-backed CopyFromSource.
func copyLines(ctx context.Context, pool *pgxpool.Pool, ds *model.Dataset, batchID uuid.UUID) (int64, error) {
	ch := make(chan *model.ExportRow, copyBatchSize)

	go func() {
		defer close(ch)
		for i := range ds.Records {
			row := toExportRow(&ds.Records[i], ds.Columns, batchID, int64(i+1))
			select {
			case ch <- row:
			case <-ctx.Done():
				return
			}
		}
	}()

	source := db.NewChannelSource(ch)
	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"analytics", "cleaned_lines"},
		model.ExportColumns(),
		source,
	)
	if err != nil {
		return 0, fmt.Errorf("copy cleaned lines: %w", err)
	}
	return n, nil
}

func copyStats(ctx context.Context, pool *pgxpool.Pool, stats []model.MonthlyBranchStat, batchID uuid.UUID) (int64, error) {
	rows := make([][]any, len(stats))
	for i := range stats {
		rows[i] = model.StatCopyValues(batchID, &stats[i])
	}
	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"analytics", "monthly_branch_stats"},
		model.StatColumns(),
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy monthly stats: %w", err)
	}
	return n, nil
}

// toExportRow converts a cleaned record into its DB shape. Columns absent
// from the source export as NULL, not zero values.
func toExportRow(r *model.Record, cols model.ColumnSet, batchID uuid.UUID, rowNum int64) *model.ExportRow {
	row := &model.ExportRow{
		ExportBatchID:   batchID,
		SourceRowNumber: rowNum,
		Branch:          r.Branch,
		Date:            r.Date,
		Year:            int32(r.Year),
		YearMonth:       r.YearMonth,
		LineTotal:       r.LineTotal,
		Quantity:        r.Quantity,
		Profit:          r.Profit,
	}

	if cols.Has(model.ColDocNo) {
		row.DocNo = &r.DocNo
	}
	if cols.Has(model.ColDescription) {
		row.Description = &r.Description
	}
	if cols.Has(model.ColAvgCost) {
		row.AvgCost = &r.AvgCost
	}
	if cols.Has(model.ColAge) {
		row.Age = &r.Age
		row.AgeGroup = &r.AgeGroup
	}
	if cols.Has(model.ColGender) {
		row.Gender = &r.Gender
	}
	if cols.Has(model.ColDiseaseGroup) {
		row.DiseaseGroup = &r.DiseaseGroup
	}
	if cols.Has(model.ColPayer) {
		row.Payer = &r.Payer
	}
	if cols.Has(model.ColPaymentMethod) {
		row.PaymentMethod = &r.PaymentMethod
	}
	if cols.Has(model.ColHospital) {
		row.Hospital = &r.Hospital
	}
	return row
}
