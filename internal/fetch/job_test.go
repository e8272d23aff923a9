package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"optrack/internal/pricing"
	"optrack/internal/series"
	"optrack/internal/tracklog"
)

// fakeQuoter serves canned quotes by OCC symbol; unknown symbols error.
type fakeQuoter struct {
	quotes map[string]pricing.Quote
	calls  int
}

func (f *fakeQuoter) OptionQuote(_ context.Context, occ string) (pricing.Quote, error) {
	f.calls++
	q, ok := f.quotes[occ]
	if !ok {
		return pricing.Quote{}, errors.New("unknown contract")
	}
	return q, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 1, 2, 21, 30, 0, 0, time.UTC)
}

func testPositions() []Position {
	return []Position{
		{Underlying: "AAPL", Expiry: "2025-09-19", Type: "call", Strike: 200, Contracts: 2, CostPerContract: 5},
		{Underlying: "MSFT", Expiry: "2025-06-20", Type: "put", Strike: 400, Contracts: 1, CostPerContract: 3},
	}
}

func newTestJob(t *testing.T, quoter Quoter) (*Job, tracklog.Dir) {
	t.Helper()
	dir := tracklog.NewDir(t.TempDir(), nil)
	job := NewJob(dir, quoter, testPositions(), 1, 6000, nil)
	job.now = fixedNow
	return job, dir
}

func TestJobRunAppendsSnapshots(t *testing.T) {
	quoter := &fakeQuoter{quotes: map[string]pricing.Quote{
		"AAPL250919C00200000": {Bid: 6.00, Ask: 6.20, HasBidAsk: true}, // mark 6.05
		"MSFT250620P00400000": {Last: 3.05, HasLast: true},             // mark 3.00
	}}
	job, dir := newTestJob(t, quoter)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	positions := dir.LoadPositions()
	if len(positions) != 2 {
		t.Fatalf("history has %d rows, want 2", len(positions))
	}

	aapl := positions[0]
	if aapl[tracklog.ColSymbolKey] != "AAPL 2025-09-19 C 200" {
		t.Errorf("symbolKey = %q", aapl[tracklog.ColSymbolKey])
	}
	if aapl[tracklog.ColPrice] != "6.05" {
		t.Errorf("price = %q, want 6.05", aapl[tracklog.ColPrice])
	}
	if aapl[tracklog.ColValue] != "1210.00" {
		t.Errorf("value = %q, want 1210.00", aapl[tracklog.ColValue])
	}
	if aapl[tracklog.ColPnL] != "210.00" {
		t.Errorf("pnl = %q, want 210.00", aapl[tracklog.ColPnL])
	}
	if aapl[tracklog.ColPnLPct] != "21.00" {
		t.Errorf("pnl_pct = %q, want 21.00", aapl[tracklog.ColPnLPct])
	}

	portfolio := dir.LoadPortfolio()
	if len(portfolio) != 1 {
		t.Fatalf("portfolio has %d rows, want 1", len(portfolio))
	}
	row := portfolio[0]
	if row[tracklog.ColDate] != "2025-01-02" {
		t.Errorf("date = %q, want 2025-01-02", row[tracklog.ColDate])
	}
	// totals: AAPL 1210 + MSFT 300 = 1510; cost 1000 + 300 = 1300.
	if row[tracklog.ColTotalValue] != "1510.00" {
		t.Errorf("total_value = %q, want 1510.00", row[tracklog.ColTotalValue])
	}
	if row[tracklog.ColTotalCostBasis] != "1300.00" {
		t.Errorf("total_cost_basis = %q, want 1300.00", row[tracklog.ColTotalCostBasis])
	}
	if row[tracklog.ColTotalPnL] != "210.00" {
		t.Errorf("total_pnl = %q, want 210.00", row[tracklog.ColTotalPnL])
	}

	lastRun, ok := dir.LastRun()
	if !ok {
		t.Fatal("last run marker missing")
	}
	if !lastRun.Equal(fixedNow()) {
		t.Errorf("last run = %v, want %v", lastRun, fixedNow())
	}
}

func TestJobRunQuoteFailureKeepsRow(t *testing.T) {
	quoter := &fakeQuoter{quotes: map[string]pricing.Quote{
		"MSFT250620P00400000": {Bid: 3.00, Ask: 3.10, HasBidAsk: true},
	}}
	job, dir := newTestJob(t, quoter)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	positions := dir.LoadPositions()
	if len(positions) != 2 {
		t.Fatalf("history has %d rows, want 2 (failed quote keeps its row)", len(positions))
	}
	if positions[0][tracklog.ColPrice] != "0.00" {
		t.Errorf("failed quote price = %q, want 0.00", positions[0][tracklog.ColPrice])
	}
	if positions[0][tracklog.ColValue] != "0.00" {
		t.Errorf("failed quote value = %q, want 0.00", positions[0][tracklog.ColValue])
	}
	// Its loss still counts in the totals: pnl = 0 − 1000.
	if positions[0][tracklog.ColPnL] != "-1000.00" {
		t.Errorf("failed quote pnl = %q, want -1000.00", positions[0][tracklog.ColPnL])
	}
}

func TestJobRunNoPositions(t *testing.T) {
	dir := tracklog.NewDir(t.TempDir(), nil)
	job := NewJob(dir, &fakeQuoter{}, nil, 1, 6000, nil)
	job.now = fixedNow

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir.Path, tracklog.HistoryFile)); !os.IsNotExist(err) {
		t.Error("history.csv should not be created when there are no positions")
	}
	portfolio := dir.LoadPortfolio()
	if len(portfolio) != 1 {
		t.Fatalf("portfolio has %d rows, want 1 (zero totals)", len(portfolio))
	}
	if portfolio[0][tracklog.ColTotalValue] != "0.00" {
		t.Errorf("total_value = %q, want 0.00", portfolio[0][tracklog.ColTotalValue])
	}
	if _, ok := dir.LastRun(); !ok {
		t.Error("last run marker should be written even with no positions")
	}
}

func TestJobRunDailyAppendBuildsSeries(t *testing.T) {
	quoter := &fakeQuoter{quotes: map[string]pricing.Quote{
		"AAPL250919C00200000": {Bid: 6.00, Ask: 6.20, HasBidAsk: true},
		"MSFT250620P00400000": {Bid: 3.00, Ask: 3.10, HasBidAsk: true},
	}}
	job, dir := newTestJob(t, quoter)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	job.now = func() time.Time { return fixedNow().AddDate(0, 0, 1) }
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	points := series.ComputeSeriesAll(dir.LoadPortfolio())
	if len(points) != 2 {
		t.Fatalf("portfolio series has %d points, want 2", len(points))
	}
	if points[0].Date != "2025-01-02" || points[1].Date != "2025-01-03" {
		t.Errorf("series dates = %q, %q", points[0].Date, points[1].Date)
	}
}

func TestJobRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job, dir := newTestJob(t, &fakeQuoter{})
	if err := job.Run(ctx); err == nil {
		t.Fatal("Run with cancelled context should fail")
	}
	if rows := dir.LoadPortfolio(); len(rows) != 0 {
		t.Errorf("cancelled run wrote %d portfolio rows, want 0", len(rows))
	}
}

func TestLoadPositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.yaml")
	content := `
positions:
  - underlying: AAPL
    expiry: "2025-09-19"
    type: call
    strike: 200
    contracts: 2
    cost_per_contract: 5.00
  - underlying: MSFT
    expiry: "2025-06-20"
    type: put
    strike: 400
    contracts: 1
    cost_per_contract: 3.00
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	positions, err := LoadPositions(path)
	if err != nil {
		t.Fatalf("LoadPositions: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(positions))
	}
	if positions[0].Underlying != "AAPL" || positions[0].Strike != 200 {
		t.Errorf("positions[0] = %+v", positions[0])
	}
}

func TestLoadPositionsValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad expiry", "positions:\n  - {underlying: AAPL, expiry: soon, type: call, strike: 200, contracts: 1, cost_per_contract: 5}\n"},
		{"bad type", "positions:\n  - {underlying: AAPL, expiry: \"2025-09-19\", type: straddle, strike: 200, contracts: 1, cost_per_contract: 5}\n"},
		{"zero contracts", "positions:\n  - {underlying: AAPL, expiry: \"2025-09-19\", type: call, strike: 200, contracts: 0, cost_per_contract: 5}\n"},
		{"missing underlying", "positions:\n  - {expiry: \"2025-09-19\", type: call, strike: 200, contracts: 1, cost_per_contract: 5}\n"},
		{"zero strike", "positions:\n  - {underlying: AAPL, expiry: \"2025-09-19\", type: call, strike: 0, contracts: 1, cost_per_contract: 5}\n"},
	}

	for _, c := range cases {
		path := filepath.Join(t.TempDir(), "positions.yaml")
		if err := os.WriteFile(path, []byte(c.yaml), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadPositions(path); err == nil {
			t.Errorf("%s: LoadPositions should fail", c.name)
		}
	}
}
