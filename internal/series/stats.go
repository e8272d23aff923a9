package series

import "fmt"

// HeaderStats are the headline figures for the currently active filter,
// taken from the latest chronological point of a derived series.
type HeaderStats struct {
	TotalValue float64
	TotalPnL   float64
	PctReturn  float64
	// HasReturn is false when there is no series to project; renderers must
	// then show a placeholder rather than a number.
	HasReturn bool
}

// Project reduces a derived series to its headline statistics. Value and
// P&L are copied from the last point; the percent return is recomputed from
// the implied cost basis (value − pnl) with the usual zero guard rather than
// read off the point, so it stays consistent however the series was built.
// An empty series degrades to zero value and P&L with HasReturn false.
func Project(points []Point) HeaderStats {
	if len(points) == 0 {
		return HeaderStats{}
	}

	last := points[len(points)-1]
	cost := last.Value - last.PnL
	return HeaderStats{
		TotalValue: last.Value,
		TotalPnL:   last.PnL,
		PctReturn:  pctReturn(last.PnL, cost),
		HasReturn:  true,
	}
}

// FormatPct renders the percent return, or the "-" placeholder when no
// return is available. Never renders NaN.
func (s HeaderStats) FormatPct() string {
	if !s.HasReturn {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", s.PctReturn)
}
