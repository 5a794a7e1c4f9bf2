package clean

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/warin/clinicstats/internal/config"
	"github.com/warin/clinicstats/internal/model"
	"github.com/warin/clinicstats/internal/source"
)

func defaultOptions() Options {
	return Options{StrictDedup: true, ProfitFormula: config.ProfitPerUnit}
}

func baseTable() *source.RawTable {
	return &source.RawTable{
		Columns: []string{"branch", "date", "doc_no", "description", "line_total", "avg_cost", "quantity", "age", "gender", "disease_group"},
		Rows: [][]string{
			{"A", "2025-01-05", "INV-1", "Vitamin C", "100", "20", "2", "34", "ชาย", "เบาหวาน"},
			{"A", "2025-01-06", "INV-2", "Blood Test", "250", "80", "1", "61", "W", "ไข้หวัด"},
			{"B", "2025-02-01", "INV-3", "Consultation", "500", "100", "1", "8", "X", "Migraine"},
		},
	}
}

func TestClean_DropsBadDateRows(t *testing.T) {
	raw := baseTable()
	raw.Rows = append(raw.Rows,
		[]string{"B", "not-a-date", "INV-4", "Vaccine", "300", "50", "1", "40", "F", "ภูมิแพ้"},
		[]string{"B", "", "INV-5", "Vaccine", "300", "50", "1", "40", "F", "ภูมิแพ้"},
	)

	ds, summary, err := Clean(raw, defaultOptions())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if summary.DroppedBadDate != 2 {
		t.Errorf("expected 2 bad-date rows dropped, got %d", summary.DroppedBadDate)
	}
	if len(ds.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ds.Records))
	}
	for i, r := range ds.Records {
		if r.Date.IsZero() {
			t.Errorf("record %d has zero date", i)
		}
	}
}

func TestClean_DerivedColumns(t *testing.T) {
	ds, _, err := Clean(baseTable(), defaultOptions())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	r := ds.Records[0]
	if r.Year != 2025 || r.YearMonth != "2025-01" {
		t.Errorf("year/month derivation wrong: %d %q", r.Year, r.YearMonth)
	}
	if r.Gender != "Male" {
		t.Errorf("gender ชาย should map to Male, got %q", r.Gender)
	}
	if r.DiseaseGroup != "Diabetes" {
		t.Errorf("disease เบาหวาน should map to Diabetes, got %q", r.DiseaseGroup)
	}
	if r.AgeGroup != AgeGroupAdult {
		t.Errorf("age 34 should bucket to %q, got %q", AgeGroupAdult, r.AgeGroup)
	}

	if g := ds.Records[1].Gender; g != "Female" {
		t.Errorf("gender W should map to Female, got %q", g)
	}
	if g := ds.Records[2].Gender; g != "Other" {
		t.Errorf("unmapped gender should map to Other, got %q", g)
	}
	if d := ds.Records[2].DiseaseGroup; d != "Migraine" {
		t.Errorf("unmapped disease should pass through, got %q", d)
	}
	if ag := ds.Records[2].AgeGroup; ag != AgeGroupChild {
		t.Errorf("age 8 should bucket to %q, got %q", AgeGroupChild, ag)
	}
}

func TestClean_ThaiHeaderAliases(t *testing.T) {
	raw := &source.RawTable{
		Columns: []string{"สาขา", "วันที่", "รายการ", "ยอดขาย"},
		Rows: [][]string{
			{"สีลม", "2025-03-01", "นวดแผนไทย", "1,200"},
		},
	}

	ds, _, err := Clean(raw, defaultOptions())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if !ds.Columns.Has(model.ColBranch) || !ds.Columns.Has(model.ColDescription) || !ds.Columns.Has(model.ColLineTotal) {
		t.Fatalf("Thai aliases not resolved: %v", ds.Columns)
	}
	if ds.Records[0].LineTotal != 1200 {
		t.Errorf("thousands separator not coerced: %v", ds.Records[0].LineTotal)
	}
}

func TestClean_MissingRequiredColumn(t *testing.T) {
	raw := &source.RawTable{
		Columns: []string{"description", "line_total"},
		Rows:    [][]string{{"Vitamin C", "100"}},
	}
	_, _, err := Clean(raw, defaultOptions())
	if err == nil {
		t.Fatal("expected error for missing date/branch columns")
	}
	// A table without its required columns is a corrupt source, not an
	// internal failure.
	if !errors.Is(err, source.ErrDataUnavailable) {
		t.Errorf("error should wrap ErrDataUnavailable, got %v", err)
	}
}

func TestClean_QuantityDefaultsWhenColumnAbsent(t *testing.T) {
	raw := &source.RawTable{
		Columns: []string{"branch", "date", "line_total"},
		Rows:    [][]string{{"A", "2025-01-05", "100"}},
	}
	ds, _, err := Clean(raw, defaultOptions())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if q := ds.Records[0].Quantity; q != 1 {
		t.Errorf("quantity should default to 1 when column absent, got %v", q)
	}
}

func TestClean_StrictDedupDropsKeyDuplicates(t *testing.T) {
	raw := baseTable()
	raw.Rows = append(raw.Rows, raw.Rows[0]) // exact duplicate pair

	ds, summary, err := Clean(raw, defaultOptions())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if summary.DuplicatesDropped != 1 {
		t.Errorf("expected 1 duplicate dropped, got %d", summary.DuplicatesDropped)
	}
	if len(ds.Records) != 3 {
		t.Errorf("expected 3 records after dedup, got %d", len(ds.Records))
	}
	wantKey := []string{model.ColBranch, model.ColDate, model.ColDocNo, model.ColDescription, model.ColLineTotal}
	if strings.Join(summary.DedupKey, "+") != strings.Join(wantKey, "+") {
		t.Errorf("unexpected dedup key: %v", summary.DedupKey)
	}
}

func TestClean_NonStrictReportsWithoutDropping(t *testing.T) {
	raw := baseTable()
	raw.Rows = append(raw.Rows, raw.Rows[0])

	opts := defaultOptions()
	opts.StrictDedup = false
	ds, summary, err := Clean(raw, opts)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if summary.DuplicatesDropped != 0 {
		t.Errorf("non-strict run should not drop, dropped %d", summary.DuplicatesDropped)
	}
	if len(ds.Records) != 4 {
		t.Errorf("expected 4 records kept, got %d", len(ds.Records))
	}
	if len(summary.Warnings) == 0 {
		t.Error("expected a duplicate warning")
	}
}

func TestClean_DedupIdempotent(t *testing.T) {
	raw := baseTable()
	raw.Rows = append(raw.Rows, raw.Rows[0])

	ds, _, err := Clean(raw, defaultOptions())
	if err != nil {
		t.Fatalf("first Clean: %v", err)
	}

	// Round-trip the cleaned records back into a raw table and clean again.
	again := &source.RawTable{Columns: []string{"branch", "date", "doc_no", "description", "line_total", "avg_cost", "quantity"}}
	for _, r := range ds.Records {
		again.Rows = append(again.Rows, []string{
			r.Branch, r.Date.Format("2006-01-02"), r.DocNo, r.Description,
			strconv.FormatFloat(r.LineTotal, 'f', -1, 64),
			strconv.FormatFloat(r.AvgCost, 'f', -1, 64),
			strconv.FormatFloat(r.Quantity, 'f', -1, 64),
		})
	}

	ds2, summary2, err := Clean(again, defaultOptions())
	if err != nil {
		t.Fatalf("second Clean: %v", err)
	}
	if summary2.DuplicatesDropped != 0 {
		t.Errorf("second clean dropped %d rows, want 0", summary2.DuplicatesDropped)
	}
	if len(ds2.Records) != len(ds.Records) {
		t.Errorf("second clean changed row count: %d -> %d", len(ds.Records), len(ds2.Records))
	}
}

func TestClean_NoQualifyingKeyReportsExactDuplicates(t *testing.T) {
	raw := &source.RawTable{
		Columns: []string{"branch", "date"},
		Rows: [][]string{
			{"A", "2025-01-05"},
			{"A", "2025-01-05"},
		},
	}
	ds, summary, err := Clean(raw, defaultOptions())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if summary.DedupKey != nil {
		t.Errorf("no key should qualify with only 2 columns, got %v", summary.DedupKey)
	}
	if summary.ExactDuplicates != 1 {
		t.Errorf("expected 1 exact duplicate reported, got %d", summary.ExactDuplicates)
	}
	if len(ds.Records) != 2 {
		t.Errorf("rows must be kept when no key qualifies, got %d", len(ds.Records))
	}
}

func TestSelectDedupKey_FirstQualifyingWins(t *testing.T) {
	cols := model.ColumnSet{
		model.ColBranch:    true,
		model.ColDate:      true,
		model.ColLineTotal: true,
	}
	// First candidate has 3 of its 5 columns present and wins, even though
	// later candidates would also qualify.
	key := selectDedupKey(cols)
	want := []string{model.ColBranch, model.ColDate, model.ColLineTotal}
	if strings.Join(key, "+") != strings.Join(want, "+") {
		t.Errorf("selectDedupKey = %v, want %v", key, want)
	}
}

func TestProfitFormulas(t *testing.T) {
	// Fixed fixture: LineTotal=100, avg_cost=20, Quantity=2.
	tests := []struct {
		formula string
		want    float64
	}{
		{config.ProfitPerUnit, 60},
		{config.ProfitCurrent, 80},
		{config.ProfitFixed40, 40},
	}
	for _, tt := range tests {
		if got := Profit(tt.formula, 100, 20, 2); got != tt.want {
			t.Errorf("Profit(%s) = %v, want %v", tt.formula, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	valid := []string{"2025-01-05", "01/05/2025", "2025/01/05", "Jan 5, 2025", "2025-01-05T10:30:00"}
	for _, s := range valid {
		if _, ok := ParseDate(s); !ok {
			t.Errorf("ParseDate(%q) should succeed", s)
		}
	}
	invalid := []string{"", "  ", "yesterday", "2025-13-40"}
	for _, s := range invalid {
		if _, ok := ParseDate(s); ok {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
	if d, _ := ParseDate("2025-02-07"); !d.Equal(time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate returned wrong date: %v", d)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"1200", 1200, true},
		{"1,200.50", 1200.50, true},
		{"฿350", 350, true},
		{" 42 ", 42, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseNumber(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMapGender(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ชาย", "Male"},
		{"W", "Female"},
		{"f", "Female"},
		{"หญิง", "Female"},
		{"alien", "Other"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := MapGender(tt.in); got != tt.want {
			t.Errorf("MapGender(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAgeGroup(t *testing.T) {
	tests := []struct {
		age   float64
		known bool
		want  string
	}{
		{5, true, AgeGroupChild},
		{13, true, AgeGroupYouth},
		{24, true, AgeGroupYouth},
		{25, true, AgeGroupAdult},
		{59, true, AgeGroupAdult},
		{60, true, AgeGroupSenior},
		{95, true, AgeGroupSenior},
		{0, false, AgeGroupUnknown},
	}
	for _, tt := range tests {
		if got := AgeGroup(tt.age, tt.known); got != tt.want {
			t.Errorf("AgeGroup(%v, %v) = %q, want %q", tt.age, tt.known, got, tt.want)
		}
	}
}
