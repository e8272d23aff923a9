package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"optrack/internal/tracklog"
)

const testHistory = `date,symbolKey,underlying,expiry,type,strike,contracts,cost_per_contract,price,value,pnl,pnl_pct
2025-01-02,AAPL 2025-09-19 C 200,AAPL,2025-09-19,call,200,2,5.00,6.05,1210.00,210.00,21.00
2025-01-02,MSFT 2025-09-19 P 400,MSFT,2025-09-19,put,400,1,3.00,bad,150.00,-150.00,-50.00
`

const testPortfolio = `date,total_value,total_cost_basis,total_pnl
2025-01-02,1360.00,1300.00,60.00
`

func testDir(t *testing.T) tracklog.Dir {
	t.Helper()
	dataDir := t.TempDir()
	for name, content := range map[string]string{
		tracklog.HistoryFile:   testHistory,
		tracklog.PortfolioFile: testPortfolio,
	} {
		if err := os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return tracklog.NewDir(dataDir, nil)
}

func TestExportHistory(t *testing.T) {
	dir := testDir(t)
	outDir := t.TempDir()

	n, err := ExportHistory(dir, outDir)
	if err != nil {
		t.Fatalf("ExportHistory: %v", err)
	}
	if n != 2 {
		t.Fatalf("rows written = %d, want 2", n)
	}

	records, err := parquet.ReadFile[PositionSnapshotRecord](filepath.Join(outDir, HistoryParquet))
	if err != nil {
		t.Fatalf("reading exported parquet: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].SymbolKey != "AAPL 2025-09-19 C 200" {
		t.Errorf("records[0].SymbolKey = %q", records[0].SymbolKey)
	}
	if records[0].Value != 1210.00 {
		t.Errorf("records[0].Value = %v, want 1210", records[0].Value)
	}
	// Unparseable price field coerces to 0 rather than failing the export.
	if records[1].Price != 0 {
		t.Errorf("records[1].Price = %v, want 0", records[1].Price)
	}
}

func TestExportPortfolio(t *testing.T) {
	dir := testDir(t)
	outDir := t.TempDir()

	n, err := ExportPortfolio(dir, outDir)
	if err != nil {
		t.Fatalf("ExportPortfolio: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows written = %d, want 1", n)
	}

	records, err := parquet.ReadFile[PortfolioSnapshotRecord](filepath.Join(outDir, PortfolioParquet))
	if err != nil {
		t.Fatalf("reading exported parquet: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].TotalValue != 1360.00 || records[0].TotalPnL != 60.00 {
		t.Errorf("records[0] = %+v, want total_value 1360, total_pnl 60", records[0])
	}
}

func TestExportEmptyLogsWritesNothing(t *testing.T) {
	dir := tracklog.NewDir(t.TempDir(), nil)
	outDir := t.TempDir()

	n, err := ExportHistory(dir, outDir)
	if err != nil {
		t.Fatalf("ExportHistory: %v", err)
	}
	if n != 0 {
		t.Errorf("rows written = %d, want 0", n)
	}
	if _, err := os.Stat(filepath.Join(outDir, HistoryParquet)); !os.IsNotExist(err) {
		t.Error("history.parquet exists after exporting empty logs")
	}
}
