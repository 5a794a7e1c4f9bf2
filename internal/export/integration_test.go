package export_test

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warin/clinicstats/internal/clean"
	"github.com/warin/clinicstats/internal/config"
	"github.com/warin/clinicstats/internal/db"
	"github.com/warin/clinicstats/internal/export"
	"github.com/warin/clinicstats/internal/logging"
	"github.com/warin/clinicstats/internal/model"
	"github.com/warin/clinicstats/internal/source"
	"github.com/warin/clinicstats/internal/strategy"
)

const (
	testPort     = 15433
	testDB       = "clinictest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

func TestMain(m *testing.M) {
	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30*time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupDB creates a connection pool against a freshly dropped analytics schema.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS analytics CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

// writeFixture writes a 100-row CSV: 99 unique transaction lines spread over
// 3 branches and 2 months, plus one exact duplicate of the first line.
func writeFixture(t *testing.T) string {
	t.Helper()
	branches := []string{"สาขาสีลม", "สาขาอารีย์", "สาขาลาดพร้าว"}
	months := []string{"2025-01", "2025-02"}
	products := []string{"Vitamin C", "Blood Test", "Consultation", "Botox", "Physical Therapy"}

	var b strings.Builder
	b.WriteString("branch,date,doc_no,description,line_total,avg_cost,quantity,age,gender,disease_group\n")
	var first string
	for i := 0; i < 99; i++ {
		line := fmt.Sprintf("%s,%s-%02d,INV-%04d,%s,%d,%d,%d,%d,%s,%s\n",
			branches[i%3],
			months[(i/3)%2], i%27+1,
			i+1,
			products[i%len(products)],
			100+i, 20+i%40, i%3+1, 5+i%80,
			[]string{"ชาย", "หญิง", "M"}[i%3],
			[]string{"เบาหวาน", "ไข้หวัด", "ภูมิแพ้"}[i%3],
		)
		if i == 0 {
			first = line
		}
		b.WriteString(line)
	}
	b.WriteString(first)

	path := filepath.Join(t.TempDir(), "transactions.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExportEndToEnd(t *testing.T) {
	ctx := context.Background()
	pool := setupDB(t)
	log := logging.Setup("text")
	src := writeFixture(t)

	raw, err := source.Load(ctx, src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if raw.NumRows() != 100 {
		t.Fatalf("fixture rows = %d, want 100", raw.NumRows())
	}

	ds, summary, err := clean.Clean(raw, clean.Options{
		StrictDedup:   true,
		ProfitFormula: config.ProfitPerUnit,
	})
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if len(ds.Records) != 99 {
		t.Fatalf("cleaned rows = %d, want 99", len(ds.Records))
	}
	if summary.DuplicatesDropped != 1 {
		t.Fatalf("duplicates dropped = %d, want 1", summary.DuplicatesDropped)
	}

	stats := strategy.BuildMonthlyStats(ds)
	if len(stats) != 6 {
		t.Fatalf("monthly stats = %d, want 6 (3 branches x 2 months)", len(stats))
	}

	out, err := export.Run(ctx, pool, log, ds, stats, export.Options{
		Source:        src,
		ProfitFormula: config.ProfitPerUnit,
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.RowsCopied != 99 || out.StatsCopied != 6 {
		t.Fatalf("copied %d lines / %d stats", out.RowsCopied, out.StatsCopied)
	}

	var n int64
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM analytics.cleaned_lines").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 99 {
		t.Errorf("cleaned_lines count = %d", n)
	}
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM analytics.monthly_branch_stats").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Errorf("monthly_branch_stats count = %d", n)
	}

	var rowsCopied, statsCopied int64
	err = pool.QueryRow(ctx,
		"SELECT rows_copied, stats_copied FROM analytics.export_batches WHERE export_batch_id = $1::uuid",
		out.ExportBatchID,
	).Scan(&rowsCopied, &statsCopied)
	if err != nil {
		t.Fatalf("batch registry: %v", err)
	}
	if rowsCopied != 99 || statsCopied != 6 {
		t.Errorf("registry counts = %d / %d", rowsCopied, statsCopied)
	}

	// Gender normalization survives the round trip.
	if err := pool.QueryRow(ctx,
		"SELECT count(*) FROM analytics.cleaned_lines WHERE gender NOT IN ('Male', 'Female')",
	).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("%d rows with unnormalized gender", n)
	}
}

func TestExport_NaNRatiosStoreAsNull(t *testing.T) {
	ctx := context.Background()
	pool := setupDB(t)
	log := logging.Setup("text")

	cols := model.ColumnSet{
		model.ColBranch:    true,
		model.ColDate:      true,
		model.ColLineTotal: true,
	}
	date, _ := time.Parse("2006-01-02", "2025-01-05")
	ds := &model.Dataset{
		Columns: cols,
		Records: []model.Record{
			{Branch: "A", Date: date, Year: 2025, YearMonth: "2025-01", LineTotal: 100, Quantity: 1},
		},
	}
	stats := []model.MonthlyBranchStat{{
		Branch:           "A",
		Month:            "2025-01",
		Revenue:          100,
		MedianRevenue:    100,
		PrevRevenue:      math.NaN(),
		PerformanceIndex: 1,
		MoM:              math.NaN(),
		Strategy:         "Stable | รักษาระดับ",
	}}

	if _, err := export.Run(ctx, pool, log, ds, stats, export.Options{Source: "inline", ProfitFormula: config.ProfitPerUnit}); err != nil {
		t.Fatalf("export: %v", err)
	}

	var prev, mom *float64
	err := pool.QueryRow(ctx,
		"SELECT prev_revenue, mom FROM analytics.monthly_branch_stats WHERE branch = 'A'",
	).Scan(&prev, &mom)
	if err != nil {
		t.Fatal(err)
	}
	if prev != nil || mom != nil {
		t.Errorf("NaN ratios should store as NULL, got %v / %v", prev, mom)
	}

	// Absent optional columns store as NULL too.
	var docNo *string
	if err := pool.QueryRow(ctx, "SELECT doc_no FROM analytics.cleaned_lines").Scan(&docNo); err != nil {
		t.Fatal(err)
	}
	if docNo != nil {
		t.Errorf("doc_no should be NULL when the column is absent, got %q", *docNo)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	pool := setupDB(t)
	log := logging.Setup("text")

	for i := 0; i < 2; i++ {
		if err := db.ApplyMigrations(ctx, pool, log); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}
}
