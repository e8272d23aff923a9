// Package tracklog reads and writes the append-only snapshot logs that back
// the options dashboard: history.csv (one row per position per day),
// portfolio.csv (one row per day), and last_run.txt (RFC3339 marker).
//
// The log format is deliberately simple: a header line naming the columns,
// then one comma-separated record per line, with no quoting or embedded
// delimiters. Column i of the header maps to column i of each data row.
// Date keys must be ISO-8601 (YYYY-MM-DD) so that lexical string comparison
// orders them chronologically; that is a hard format precondition enforced
// when rows are loaded.
package tracklog

import (
	"strings"
)

// Standard column names of the position-level log (history.csv).
const (
	ColDate            = "date"
	ColSymbolKey       = "symbolKey"
	ColUnderlying      = "underlying"
	ColExpiry          = "expiry"
	ColType            = "type"
	ColStrike          = "strike"
	ColContracts       = "contracts"
	ColCostPerContract = "cost_per_contract"
	ColPrice           = "price"
	ColValue           = "value"
	ColPnL             = "pnl"
	ColPnLPct          = "pnl_pct"
)

// Standard column names of the portfolio-level log (portfolio.csv).
const (
	ColTotalValue     = "total_value"
	ColTotalCostBasis = "total_cost_basis"
	ColTotalPnL       = "total_pnl"
)

// PositionHeader is the header line of history.csv.
var PositionHeader = []string{
	ColDate, ColSymbolKey, ColUnderlying, ColExpiry, ColType, ColStrike,
	ColContracts, ColCostPerContract, ColPrice, ColValue, ColPnL, ColPnLPct,
}

// PortfolioHeader is the header line of portfolio.csv.
var PortfolioHeader = []string{
	ColDate, ColTotalValue, ColTotalCostBasis, ColTotalPnL,
}

// Record maps a header column name to the raw string value of one row.
// Fields stay untyped; numeric coercion is the consumer's job so that each
// aggregate can apply its own invalid-value policy. A row shorter than the
// header simply lacks the trailing keys.
type Record map[string]string

// Parse turns raw delimited log text into an ordered slice of records. The
// first line names the columns; every following non-empty line becomes one
// record. Empty input, or input with only a header line, yields an empty
// slice. Parse never fails: there is nothing to reject at this layer.
func Parse(text string) []Record {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return nil
	}

	header := splitRow(lines[0])
	if len(header) == 0 || header[0] == "" {
		return nil
	}

	var records []Record
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitRow(line)
		rec := make(Record, len(header))
		for i, name := range header {
			if i < len(fields) {
				rec[name] = fields[i]
			}
		}
		records = append(records, rec)
	}
	return records
}

func splitRow(line string) []string {
	fields := strings.Split(strings.TrimRight(line, "\r"), ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// IsISODate reports whether s is a YYYY-MM-DD date key. Only such keys sort
// chronologically under the lexical comparison the aggregations rely on.
func IsISODate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FilterISODates returns the records whose date column is a valid ISO-8601
// key, preserving order, along with the number of rows dropped.
func FilterISODates(records []Record) ([]Record, int) {
	kept := records[:0:0]
	dropped := 0
	for _, rec := range records {
		if IsISODate(rec[ColDate]) {
			kept = append(kept, rec)
		} else {
			dropped++
		}
	}
	return kept, dropped
}
