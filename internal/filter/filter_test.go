package filter

import (
	"reflect"
	"testing"
	"time"

	"github.com/warin/clinicstats/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testDataset() *model.Dataset {
	return &model.Dataset{
		Columns: model.ColumnSet{model.ColBranch: true, model.ColDate: true},
		Records: []model.Record{
			{Branch: "A", Date: day("2025-01-05")},
			{Branch: "A", Date: day("2025-01-31")},
			{Branch: "B", Date: day("2025-02-01")},
			{Branch: "B", Date: day("2025-02-15")},
			{Branch: "C", Date: day("2025-03-01")},
		},
	}
}

func branchNames(ds *model.Dataset) []string {
	out := make([]string, len(ds.Records))
	for i, r := range ds.Records {
		out[i] = r.Branch
	}
	return out
}

func TestRangeContains_InclusiveBounds(t *testing.T) {
	r := Range{Start: day("2025-01-05"), End: day("2025-02-01")}
	if !r.Contains(day("2025-01-05")) || !r.Contains(day("2025-02-01")) {
		t.Error("range bounds must be inclusive")
	}
	if r.Contains(day("2025-01-04")) || r.Contains(day("2025-02-02")) {
		t.Error("dates outside the range must be excluded")
	}
}

func TestRangeContains_OpenSides(t *testing.T) {
	open := Range{}
	if !open.Contains(day("1999-01-01")) || !open.Contains(day("2099-12-31")) {
		t.Error("zero range must contain everything")
	}
	from := Range{Start: day("2025-02-01")}
	if from.Contains(day("2025-01-31")) || !from.Contains(day("2025-06-01")) {
		t.Error("open end must admit all later dates only")
	}
}

func TestApply_BranchSelection(t *testing.T) {
	ds := testDataset()

	got := Apply(ds, Range{}, []string{"B"})
	if want := []string{"B", "B"}; !reflect.DeepEqual(branchNames(got), want) {
		t.Errorf("branch filter = %v, want %v", branchNames(got), want)
	}

	all := Apply(ds, Range{}, nil)
	if len(all.Records) != len(ds.Records) {
		t.Errorf("nil branch list should select all, got %d records", len(all.Records))
	}
	empty := Apply(ds, Range{}, []string{})
	if len(empty.Records) != len(ds.Records) {
		t.Errorf("empty branch list should select all, got %d records", len(empty.Records))
	}
}

func TestApply_OrderIndependence(t *testing.T) {
	ds := testDataset()
	r := Range{Start: day("2025-01-10"), End: day("2025-02-28")}
	branches := []string{"A", "B"}

	dateFirst := Apply(Apply(ds, r, nil), Range{}, branches)
	branchFirst := Apply(Apply(ds, Range{}, branches), r, nil)
	combined := Apply(ds, r, branches)

	if !reflect.DeepEqual(dateFirst.Records, branchFirst.Records) {
		t.Error("date-then-branch differs from branch-then-date")
	}
	if !reflect.DeepEqual(combined.Records, dateFirst.Records) {
		t.Error("combined filter differs from sequential filters")
	}
}

func TestApply_Idempotent(t *testing.T) {
	ds := testDataset()
	r := Range{Start: day("2025-01-01"), End: day("2025-02-28")}
	branches := []string{"A", "B"}

	once := Apply(ds, r, branches)
	twice := Apply(once, r, branches)
	if !reflect.DeepEqual(once.Records, twice.Records) {
		t.Error("applying the same filter twice changed the result")
	}
}

func TestApply_EmptyResultIsValid(t *testing.T) {
	ds := testDataset()
	got := Apply(ds, Range{Start: day("2030-01-01")}, nil)
	if !got.Empty() {
		t.Errorf("expected empty dataset, got %d records", len(got.Records))
	}
	if got.Columns == nil {
		t.Error("columns must survive an empty filter result")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	ds := testDataset()
	before := len(ds.Records)
	Apply(ds, Range{End: day("2025-01-31")}, []string{"A"})
	if len(ds.Records) != before {
		t.Error("input dataset was mutated")
	}
}
