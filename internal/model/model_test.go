package model

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestMonthlyBranchStatJSON_NaNBecomesNull(t *testing.T) {
	s := MonthlyBranchStat{
		Branch:           "A",
		Month:            "2025-01",
		Revenue:          1000,
		MedianRevenue:    1000,
		PrevRevenue:      math.NaN(),
		PerformanceIndex: 1.0,
		MoM:              math.NaN(),
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"mom":null`) || !strings.Contains(out, `"prev_revenue":null`) {
		t.Errorf("NaN fields should encode as null: %s", out)
	}
	if !strings.Contains(out, `"performance_index":1`) {
		t.Errorf("finite fields must survive: %s", out)
	}
}

func TestColumnSetMissing(t *testing.T) {
	cs := ColumnSet{ColBranch: true, ColDate: true}
	if got := cs.Missing(ColBranch, ColDate); len(got) != 0 {
		t.Errorf("Missing = %v, want none", got)
	}
	got := cs.Missing(ColBranch, ColLineTotal, ColPayer)
	if len(got) != 2 || got[0] != ColLineTotal || got[1] != ColPayer {
		t.Errorf("Missing = %v", got)
	}
}

func TestDatasetBranches_FirstSeenOrder(t *testing.T) {
	ds := &Dataset{Records: []Record{
		{Branch: "B"}, {Branch: "A"}, {Branch: "B"}, {Branch: "C"},
	}}
	got := ds.Branches()
	want := []string{"B", "A", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Branches = %v, want %v", got, want)
		}
	}
}

func TestDatasetEmpty(t *testing.T) {
	var nilDS *Dataset
	if !nilDS.Empty() {
		t.Error("nil dataset should be empty")
	}
	if !(&Dataset{}).Empty() {
		t.Error("zero dataset should be empty")
	}
	if (&Dataset{Records: []Record{{}}}).Empty() {
		t.Error("dataset with a record should not be empty")
	}
}
