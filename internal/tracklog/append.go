package tracklog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Append writes a batch of rows to the named log inside the data directory,
// creating the file with its header line first if it does not exist yet.
// The batch is serialized in memory and written in a single call so a
// failing run never leaves a partially appended day in the log. Existing
// content is never rewritten.
func (d Dir) Append(name string, header []string, rows []Record) error {
	if len(rows) == 0 {
		return nil
	}

	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(d.Path, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var buf strings.Builder

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		buf.WriteString(strings.Join(header, ","))
		buf.WriteByte('\n')
	}

	for _, rec := range rows {
		fields := make([]string, len(header))
		for i, col := range header {
			fields[i] = sanitizeField(rec[col])
		}
		buf.WriteString(strings.Join(fields, ","))
		buf.WriteByte('\n')
	}

	if _, err := f.WriteString(buf.String()); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return nil
}

// AppendPositions appends position snapshot rows to history.csv.
func (d Dir) AppendPositions(rows []Record) error {
	return d.Append(HistoryFile, PositionHeader, rows)
}

// AppendPortfolio appends a portfolio snapshot row to portfolio.csv.
func (d Dir) AppendPortfolio(rows []Record) error {
	return d.Append(PortfolioFile, PortfolioHeader, rows)
}

// sanitizeField strips the characters the format cannot represent. The
// format has no quoting, so commas and newlines inside a value would corrupt
// every later column of the row.
func sanitizeField(v string) string {
	if !strings.ContainsAny(v, ",\n\r") {
		return v
	}
	r := strings.NewReplacer(",", " ", "\n", " ", "\r", " ")
	return r.Replace(v)
}
