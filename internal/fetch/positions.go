// Package fetch implements the daily snapshot job: it prices every
// configured option position, appends one dated row per position to the
// history log plus one portfolio total row, and stamps the last-run marker.
package fetch

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Position is one configured option holding.
type Position struct {
	Underlying      string  `yaml:"underlying"`
	Expiry          string  `yaml:"expiry"` // YYYY-MM-DD
	Type            string  `yaml:"type"`   // "call" or "put"
	Strike          float64 `yaml:"strike"`
	Contracts       int     `yaml:"contracts"`
	CostPerContract float64 `yaml:"cost_per_contract"`
}

// ExpiryTime parses the expiry date.
func (p Position) ExpiryTime() (time.Time, error) {
	return time.Parse("2006-01-02", p.Expiry)
}

type positionsFile struct {
	Positions []Position `yaml:"positions"`
}

// LoadPositions reads the YAML positions file and validates each entry. An
// invalid position is an error at load time: silently skipping one would
// make the appended totals wrong for every later date.
func LoadPositions(path string) ([]Position, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pf positionsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for i, pos := range pf.Positions {
		if pos.Underlying == "" {
			return nil, fmt.Errorf("position %d: missing underlying", i)
		}
		if _, err := pos.ExpiryTime(); err != nil {
			return nil, fmt.Errorf("position %d (%s): bad expiry %q", i, pos.Underlying, pos.Expiry)
		}
		t := strings.ToLower(pos.Type)
		if !strings.HasPrefix(t, "c") && !strings.HasPrefix(t, "p") {
			return nil, fmt.Errorf("position %d (%s): bad type %q", i, pos.Underlying, pos.Type)
		}
		if pos.Strike <= 0 {
			return nil, fmt.Errorf("position %d (%s): bad strike %v", i, pos.Underlying, pos.Strike)
		}
		if pos.Contracts <= 0 {
			return nil, fmt.Errorf("position %d (%s): bad contracts %d", i, pos.Underlying, pos.Contracts)
		}
	}

	return pf.Positions, nil
}
