package views

import (
	"fmt"
	"sort"

	"github.com/warin/clinicstats/internal/model"
)

// group is one bucket of a one- or two-key aggregation.
type group struct {
	Key   string
	Key2  string
	Sum   float64
	Count int
}

// aggregate buckets records by key (and optional key2), summing val and
// counting rows. key2 and val may be nil.
func aggregate(ds *model.Dataset, key func(*model.Record) string, key2 func(*model.Record) string, val func(*model.Record) float64) []group {
	index := make(map[string]int)
	var out []group
	for i := range ds.Records {
		r := &ds.Records[i]
		k1 := key(r)
		k2 := ""
		if key2 != nil {
			k2 = key2(r)
		}
		mk := k1 + "\x1f" + k2
		gi, ok := index[mk]
		if !ok {
			gi = len(out)
			index[mk] = gi
			out = append(out, group{Key: k1, Key2: k2})
		}
		out[gi].Count++
		if val != nil {
			out[gi].Sum += val(r)
		}
	}
	return out
}

// sortBySumDesc orders groups by Sum descending, then Count descending,
// then key ascending for a stable presentation.
func sortBySumDesc(groups []group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Sum != groups[j].Sum {
			return groups[i].Sum > groups[j].Sum
		}
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
}

// sortByCountDesc orders groups by Count descending, then Sum descending,
// then key ascending.
func sortByCountDesc(groups []group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		if groups[i].Sum != groups[j].Sum {
			return groups[i].Sum > groups[j].Sum
		}
		return groups[i].Key < groups[j].Key
	})
}

// sortByKeyAsc orders groups by key ascending (used for time series).
func sortByKeyAsc(groups []group) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
}

func totalSum(groups []group) float64 {
	var t float64
	for _, g := range groups {
		t += g.Sum
	}
	return t
}

func money(v float64) string   { return fmt.Sprintf("%.2f", v) }
func count(n int) string       { return fmt.Sprintf("%d", n) }
func ratio1(v float64) string  { return fmt.Sprintf("%.1f", v) }
func percent(v float64) string { return fmt.Sprintf("%.1f%%", v*100) }
