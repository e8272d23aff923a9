// Package view owns the dashboard's presentation state: the loaded row sets
// and the current filter (whole portfolio or one underlying). Every
// transition re-derives the chart series, header stats, axis bounds, and the
// latest-snapshot table from scratch; the data volumes are small enough that
// recomputing per interaction beats caching.
package view

import (
	"strings"
	"sync"

	"optrack/internal/series"
	"optrack/internal/tracklog"
)

// TotalLabel is the chart label for the unfiltered, whole-portfolio view.
const TotalLabel = "Total"

// View is a complete render payload for one state of the dashboard.
type View struct {
	// Filter is the active underlying, or "" for the whole portfolio.
	Filter string
	// Label names the plotted series: the underlying symbol, or "Total".
	Label  string
	Series []series.Point
	Stats  series.HeaderStats
	// AxisMin/AxisMax are the suggested percent-return axis bounds.
	AxisMin float64
	AxisMax float64
	// Latest holds the latest-snapshot table rows (always unfiltered).
	Latest []tracklog.Record
	// Underlyings lists the distinct symbols available as filters.
	Underlyings []string
}

// Controller holds the session state. Methods are safe for concurrent use;
// the derivations themselves are pure, only the filter and the row-set
// references are guarded.
type Controller struct {
	mu        sync.Mutex
	positions []tracklog.Record
	portfolio []tracklog.Record
	filter    string
}

// NewController creates a controller over the given row sets, starting in
// the whole-portfolio state.
func NewController(positions, portfolio []tracklog.Record) *Controller {
	return &Controller{positions: positions, portfolio: portfolio}
}

// ApplyFilter switches to the single-underlying view and returns its render
// payload. Applying the same filter again derives an identical View.
func (c *Controller) ApplyFilter(underlying string) View {
	c.mu.Lock()
	c.filter = underlying
	v := c.renderLocked()
	c.mu.Unlock()
	return v
}

// ResetFilter switches back to the whole-portfolio view.
func (c *Controller) ResetFilter() View {
	return c.ApplyFilter("")
}

// SelectRow filters by the underlying implied by a latest-table row's
// symbolKey: its first whitespace-separated token.
func (c *Controller) SelectRow(symbolKey string) View {
	fields := strings.Fields(symbolKey)
	if len(fields) == 0 {
		return c.ResetFilter()
	}
	return c.ApplyFilter(fields[0])
}

// Current re-renders the present state without changing the filter.
func (c *Controller) Current() View {
	c.mu.Lock()
	v := c.renderLocked()
	c.mu.Unlock()
	return v
}

// Filter returns the active filter ("" = whole portfolio).
func (c *Controller) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Replace swaps in freshly loaded row sets, keeping the current filter.
func (c *Controller) Replace(positions, portfolio []tracklog.Record) {
	c.mu.Lock()
	c.positions = positions
	c.portfolio = portfolio
	c.mu.Unlock()
}

func (c *Controller) renderLocked() View {
	var pts []series.Point
	label := TotalLabel
	if c.filter == "" {
		pts = series.ComputeSeriesAll(c.portfolio)
	} else {
		pts = series.ComputeSeriesUnderlying(c.positions, c.filter)
		label = c.filter
	}

	pcts := make([]float64, len(pts))
	for i, p := range pts {
		pcts[i] = p.PctReturn
	}
	axisMin, axisMax := series.AxisBounds(pcts)

	return View{
		Filter:      c.filter,
		Label:       label,
		Series:      pts,
		Stats:       series.Project(pts),
		AxisMin:     axisMin,
		AxisMax:     axisMax,
		Latest:      series.LatestPositions(c.positions),
		Underlyings: series.Underlyings(c.positions),
	}
}
