// Package export converts the append-only CSV logs to Parquet files for
// offline analysis tooling.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"optrack/internal/series"
	"optrack/internal/tracklog"
)

// Output file names inside the export directory.
const (
	HistoryParquet   = "history.parquet"
	PortfolioParquet = "portfolio.parquet"
)

// PositionSnapshotRecord is the Parquet schema for position-level rows.
// Textual fields carry the log values verbatim; numeric fields are coerced
// with the same tolerance as the dashboard aggregations (unparseable → 0).
type PositionSnapshotRecord struct {
	Date            string  `parquet:"date"`
	SymbolKey       string  `parquet:"symbol_key"`
	Underlying      string  `parquet:"underlying"`
	Expiry          string  `parquet:"expiry"`
	Type            string  `parquet:"type"`
	Strike          float64 `parquet:"strike"`
	Contracts       float64 `parquet:"contracts"`
	CostPerContract float64 `parquet:"cost_per_contract"`
	Price           float64 `parquet:"price"`
	Value           float64 `parquet:"value"`
	PnL             float64 `parquet:"pnl"`
	PnLPct          float64 `parquet:"pnl_pct"`
}

// PortfolioSnapshotRecord is the Parquet schema for the daily portfolio rows.
type PortfolioSnapshotRecord struct {
	Date           string  `parquet:"date"`
	TotalValue     float64 `parquet:"total_value"`
	TotalCostBasis float64 `parquet:"total_cost_basis"`
	TotalPnL       float64 `parquet:"total_pnl"`
}

// ExportHistory loads the position log from dir and writes it to
// <outDir>/history.parquet. Returns the number of rows written.
func ExportHistory(dir tracklog.Dir, outDir string) (int, error) {
	rows := dir.LoadPositions()
	records := make([]PositionSnapshotRecord, 0, len(rows))
	for _, rec := range rows {
		records = append(records, PositionSnapshotRecord{
			Date:            rec[tracklog.ColDate],
			SymbolKey:       rec[tracklog.ColSymbolKey],
			Underlying:      rec[tracklog.ColUnderlying],
			Expiry:          rec[tracklog.ColExpiry],
			Type:            rec[tracklog.ColType],
			Strike:          series.Num(rec, tracklog.ColStrike),
			Contracts:       series.Num(rec, tracklog.ColContracts),
			CostPerContract: series.Num(rec, tracklog.ColCostPerContract),
			Price:           series.Num(rec, tracklog.ColPrice),
			Value:           series.Num(rec, tracklog.ColValue),
			PnL:             series.Num(rec, tracklog.ColPnL),
			PnLPct:          series.Num(rec, tracklog.ColPnLPct),
		})
	}
	if err := writeParquetFile(filepath.Join(outDir, HistoryParquet), records); err != nil {
		return 0, fmt.Errorf("exporting position log: %w", err)
	}
	return len(records), nil
}

// ExportPortfolio loads the portfolio log from dir and writes it to
// <outDir>/portfolio.parquet. Returns the number of rows written.
func ExportPortfolio(dir tracklog.Dir, outDir string) (int, error) {
	rows := dir.LoadPortfolio()
	records := make([]PortfolioSnapshotRecord, 0, len(rows))
	for _, rec := range rows {
		records = append(records, PortfolioSnapshotRecord{
			Date:           rec[tracklog.ColDate],
			TotalValue:     series.Num(rec, tracklog.ColTotalValue),
			TotalCostBasis: series.Num(rec, tracklog.ColTotalCostBasis),
			TotalPnL:       series.Num(rec, tracklog.ColTotalPnL),
		})
	}
	if err := writeParquetFile(filepath.Join(outDir, PortfolioParquet), records); err != nil {
		return 0, fmt.Errorf("exporting portfolio log: %w", err)
	}
	return len(records), nil
}

func writeParquetFile[T any](path string, records []T) error {
	if len(records) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}
