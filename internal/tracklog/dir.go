package tracklog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// File names inside the data directory.
const (
	HistoryFile   = "history.csv"
	PortfolioFile = "portfolio.csv"
	LastRunFile   = "last_run.txt"
)

// Dir is a handle on the data directory holding the snapshot logs.
type Dir struct {
	Path string
	log  *slog.Logger
}

// NewDir creates a Dir rooted at path. The logger may be nil.
func NewDir(path string, log *slog.Logger) Dir {
	if log == nil {
		log = slog.Default()
	}
	return Dir{Path: path, log: log}
}

// LoadPositions reads and parses the position-level log. A missing or
// unreadable file yields an empty slice, never an error: the fetch step may
// simply not have run yet.
func (d Dir) LoadPositions() []Record {
	return d.loadLog(HistoryFile)
}

// LoadPortfolio reads and parses the portfolio-level log with the same
// missing-file tolerance as LoadPositions.
func (d Dir) LoadPortfolio() []Record {
	return d.loadLog(PortfolioFile)
}

func (d Dir) loadLog(name string) []Record {
	path := filepath.Join(d.Path, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			d.log.Warn("reading log", "path", path, "error", err)
		}
		return nil
	}

	records, dropped := FilterISODates(Parse(string(data)))
	if dropped > 0 {
		d.log.Warn("dropped rows with non-ISO date keys", "path", path, "dropped", dropped)
	}
	return records
}

// LoadAll reads both logs concurrently and waits for both. Neither load can
// fail; an absent log degrades to an empty row set. The context is accepted
// for call-site symmetry with other loaders but the reads are local and fast.
func (d Dir) LoadAll(_ context.Context) (positions, portfolio []Record) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		positions = d.LoadPositions()
	}()
	go func() {
		defer wg.Done()
		portfolio = d.LoadPortfolio()
	}()
	wg.Wait()
	return positions, portfolio
}

// LastRun returns the parsed last-run marker. ok is false when the marker is
// absent or not an RFC3339 timestamp.
func (d Dir) LastRun() (time.Time, bool) {
	data, err := os.ReadFile(filepath.Join(d.Path, LastRunFile))
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WriteLastRun stamps the last-run marker with t in RFC3339 UTC.
func (d Dir) WriteLastRun(t time.Time) error {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return err
	}
	path := filepath.Join(d.Path, LastRunFile)
	return os.WriteFile(path, []byte(t.UTC().Format(time.RFC3339)), 0o644)
}
