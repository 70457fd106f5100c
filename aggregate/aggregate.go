// Package aggregate groups resolved cost lines for reconciliation views:
// totals by category, by project, and labor versus non-labor. Aggregators
// depend only on the resolver; unresolved lines fold into an explicit
// uncategorized bucket, never into a misleading default category.
package aggregate

import (
	"sort"

	"github.com/c360/rubro/resolver"
)

// Uncategorized is the bucket name for cost lines that resolve to nothing.
const Uncategorized = "Sin Categoria"

// CostLine is one raw cost record entering reconciliation.
type CostLine struct {
	Record  resolver.Record `json:"record"`
	Project string          `json:"project,omitempty"`
	Amount  float64         `json:"amount"`
}

// Total is an aggregated amount under one grouping key.
type Total struct {
	Key    string  `json:"key"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// LaborSplit separates totals into labor, non-labor and uncategorized.
type LaborSplit struct {
	Labor         float64 `json:"labor"`
	NonLabor      float64 `json:"non_labor"`
	Uncategorized float64 `json:"uncategorized"`
}

// ByCategory groups lines by resolved display category. Unresolved lines land
// under Uncategorized. Output is sorted by key for deterministic totals.
func ByCategory(r *resolver.Resolver, lines []CostLine) []Total {
	return groupBy(lines, func(line CostLine, res *resolver.Resolution) string {
		if res == nil {
			return Uncategorized
		}
		return res.Category()
	}, r)
}

// ByProject groups lines by their project field. Lines without a project
// group under the empty key.
func ByProject(r *resolver.Resolver, lines []CostLine) []Total {
	return groupBy(lines, func(line CostLine, _ *resolver.Resolution) string {
		return line.Project
	}, r)
}

// ByRubro groups lines by resolved canonical ID.
func ByRubro(r *resolver.Resolver, lines []CostLine) []Total {
	return groupBy(lines, func(line CostLine, res *resolver.Resolution) string {
		if res == nil {
			return Uncategorized
		}
		return res.ID()
	}, r)
}

// SplitLabor totals lines into labor, non-labor and uncategorized buckets.
func SplitLabor(r *resolver.Resolver, lines []CostLine) LaborSplit {
	var split LaborSplit
	for _, line := range lines {
		res := r.Resolve(line.Record)
		switch {
		case res == nil:
			split.Uncategorized += line.Amount
		case res.IsLabor():
			split.Labor += line.Amount
		default:
			split.NonLabor += line.Amount
		}
	}
	return split
}

func groupBy(lines []CostLine, keyFn func(CostLine, *resolver.Resolution) string, r *resolver.Resolver) []Total {
	buckets := make(map[string]*Total)
	for _, line := range lines {
		res := r.Resolve(line.Record)
		key := keyFn(line, res)
		t, ok := buckets[key]
		if !ok {
			t = &Total{Key: key}
			buckets[key] = t
		}
		t.Count++
		t.Amount += line.Amount
	}

	totals := make([]Total, 0, len(buckets))
	for _, t := range buckets {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Key < totals[j].Key
	})
	return totals
}
