// Package httpapi serves the dashboard HTTP API: derived series, header
// stats, and the latest-snapshot table, backed by the append-only logs.
package httpapi

import "optrack/internal/series"

// StatsJSON is the JSON shape of the headline figures. PctReturn is omitted
// when no return is available; PctDisplay always carries a renderable string
// (a placeholder when the backing series is empty), never "NaN".
type StatsJSON struct {
	TotalValue float64  `json:"totalValue"`
	TotalPnL   float64  `json:"totalPnl"`
	PctReturn  *float64 `json:"pctReturn,omitempty"`
	PctDisplay string   `json:"pctDisplay"`
}

// PositionJSON is one latest-table row, fields verbatim from the log.
type PositionJSON struct {
	Date            string `json:"date"`
	SymbolKey       string `json:"symbolKey"`
	Underlying      string `json:"underlying"`
	Expiry          string `json:"expiry"`
	Type            string `json:"type"`
	Strike          string `json:"strike"`
	Contracts       string `json:"contracts"`
	CostPerContract string `json:"costPerContract"`
	Price           string `json:"price"`
	Value           string `json:"value"`
	PnL             string `json:"pnl"`
	PnLPct          string `json:"pnlPct"`
}

// SeriesResponse carries one chart-ready series with its suggested
// percent-return axis bounds.
type SeriesResponse struct {
	Label   string         `json:"label"`
	Points  []series.Point `json:"points"`
	AxisMin float64        `json:"axisMin"`
	AxisMax float64        `json:"axisMax"`
}

// ViewResponse is the full render payload for one dashboard state.
type ViewResponse struct {
	Filter      string         `json:"filter"`
	Label       string         `json:"label"`
	Points      []series.Point `json:"points"`
	AxisMin     float64        `json:"axisMin"`
	AxisMax     float64        `json:"axisMax"`
	Stats       StatsJSON      `json:"stats"`
	Latest      []PositionJSON `json:"latest"`
	Underlyings []string       `json:"underlyings"`
}

// UnderlyingsResponse lists the distinct underlyings available as filters.
type UnderlyingsResponse struct {
	Underlyings []string `json:"underlyings"`
}

// LastRunResponse reports the fetch step's last-run marker. Recorded is
// false when the marker has not been produced yet.
type LastRunResponse struct {
	Recorded bool   `json:"recorded"`
	LastRun  string `json:"lastRun,omitempty"`
}

// ReloadResponse reports the row counts after a log re-read.
type ReloadResponse struct {
	Positions int `json:"positions"`
	Portfolio int `json:"portfolio"`
}
