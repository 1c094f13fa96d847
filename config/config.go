// Package config loads simulator run configuration from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimConfig holds the simulator's run-level configuration: how long it is
// allowed to run, and how much it reports as it runs.
type SimConfig struct {
	// CycleBudget is the maximum number of cycles the driver will tick
	// before reporting nontermination. 0 means unbounded.
	CycleBudget uint64 `json:"cycle_budget"`

	// Verbose enables a per-run summary (final PC, cycles, retired
	// instructions, CPI, stall/flush/forwarding counts). Register and
	// memory contents are not printed.
	Verbose bool `json:"verbose"`
}

// DefaultSimConfig returns the configuration a run uses when no config
// file is given on the command line.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		CycleBudget: 1_000_000,
		Verbose:     false,
	}
}

// LoadConfig loads a SimConfig from a JSON file, starting from the
// defaults so a config file only needs to override the fields it cares
// about.
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sim config file: %w", err)
	}

	cfg := DefaultSimConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sim config: %w", err)
	}

	return cfg, nil
}
