// Package series derives chart-ready time series, header statistics, and the
// latest-snapshot table from parsed log rows. All functions are pure: they
// read the row slices they are given and return fresh values, so the view
// layer can re-derive on every filter change without shared state.
package series

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"optrack/internal/tracklog"
)

// Point is one dated sample of a derived series.
type Point struct {
	Date      string  `json:"date"`
	Value     float64 `json:"value"`
	PnL       float64 `json:"pnl"`
	PctReturn float64 `json:"pctReturn"`
}

// Num coerces a raw field to a float64. Missing, malformed, NaN, and
// infinite values all collapse to 0 so a single bad row never aborts an
// aggregation.
func Num(rec tracklog.Record, col string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// pctReturn computes pnl/cost as a percentage with the zero-cost guard: a
// zero or negative cost basis yields exactly 0, never NaN or Inf, so charts
// stay stable.
func pctReturn(pnl, cost float64) float64 {
	if cost > 0 {
		return pnl / cost * 100
	}
	return 0
}

// ComputeSeriesAll derives the whole-portfolio series from portfolio-level
// rows. Duplicate dates resolve last-wins (a re-run of the fetch step
// supersedes the earlier row for that day); output is sorted ascending by
// date key.
func ComputeSeriesAll(portfolio []tracklog.Record) []Point {
	byDate := make(map[string]tracklog.Record, len(portfolio))
	for _, rec := range portfolio {
		byDate[rec[tracklog.ColDate]] = rec
	}

	points := make([]Point, 0, len(byDate))
	for date, rec := range byDate {
		pnl := Num(rec, tracklog.ColTotalPnL)
		points = append(points, Point{
			Date:      date,
			Value:     Num(rec, tracklog.ColTotalValue),
			PnL:       pnl,
			PctReturn: pctReturn(pnl, Num(rec, tracklog.ColTotalCostBasis)),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// ComputeSeriesUnderlying derives the series for one underlying from
// position-level rows. Matching is a case-sensitive exact comparison on the
// underlying column. Rows are grouped by date; value and the implied cost
// basis (cost_per_contract × contracts × 100) are summed additively, so
// multiple positions on the same underlying and day all contribute. An
// underlying with no matching rows yields an empty series.
func ComputeSeriesUnderlying(positions []tracklog.Record, underlying string) []Point {
	type sums struct{ value, cost float64 }
	byDate := make(map[string]*sums)

	for _, rec := range positions {
		if rec[tracklog.ColUnderlying] != underlying {
			continue
		}
		date := rec[tracklog.ColDate]
		s := byDate[date]
		if s == nil {
			s = &sums{}
			byDate[date] = s
		}
		s.value += Num(rec, tracklog.ColValue)
		s.cost += Num(rec, tracklog.ColCostPerContract) * Num(rec, tracklog.ColContracts) * 100
	}

	points := make([]Point, 0, len(byDate))
	for date, s := range byDate {
		pnl := s.value - s.cost
		points = append(points, Point{
			Date:      date,
			Value:     s.value,
			PnL:       pnl,
			PctReturn: pctReturn(pnl, s.cost),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// LatestPositions returns the rows of the lexically greatest date present,
// in their original relative order. The rows are not deduplicated: an
// accidental duplicate append would double-show here even though the series
// aggregation sums it coherently.
func LatestPositions(positions []tracklog.Record) []tracklog.Record {
	maxDate := ""
	for _, rec := range positions {
		if d := rec[tracklog.ColDate]; d > maxDate {
			maxDate = d
		}
	}
	if maxDate == "" {
		return nil
	}

	var latest []tracklog.Record
	for _, rec := range positions {
		if rec[tracklog.ColDate] == maxDate {
			latest = append(latest, rec)
		}
	}
	return latest
}

// Underlyings returns the distinct underlying symbols present in the
// position rows, sorted, for building filter controls.
func Underlyings(positions []tracklog.Record) []string {
	seen := make(map[string]struct{})
	for _, rec := range positions {
		if u := rec[tracklog.ColUnderlying]; u != "" {
			seen[u] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Default axis range used when a series has no finite percent values at all.
const (
	DefaultAxisMin = -10
	DefaultAxisMax = 10
)

// AxisBounds suggests a display range for a set of percent-return values.
// Non-finite values are excluded (not coerced to 0). The range always
// brackets 0; with no finite input it falls back to [-10, 10].
func AxisBounds(pcts []float64) (suggestedMin, suggestedMax float64) {
	finite := false
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, v := range pcts {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = true
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	if !finite {
		return DefaultAxisMin, DefaultAxisMax
	}
	return math.Min(0, minV), math.Max(0, maxV)
}
