package model

import "time"

// CleanSummary captures metrics and warnings from one cleaning run.
type CleanSummary struct {
	RowsIn            int
	RowsOut           int
	DroppedBadDate    int
	DedupKey          []string // composite key used, empty if none qualified
	DuplicatesDropped int
	ExactDuplicates   int // full-row duplicates found when no key qualified (reported, not dropped)
	ProfitFormula     string
	Warnings          []string
}

// ExportSummary captures metrics from a Postgres export run.
type ExportSummary struct {
	Source        string
	ExportBatchID string
	RowsCopied    int64
	StatsCopied   int64
	DurationCopy  time.Duration
	DurationTotal time.Duration
}
