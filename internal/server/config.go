package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the analysis service configuration
type Config struct {
	Server     *ServerSettings     `hcl:"server,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Decision   *DecisionSettings   `hcl:"decision,block"`
}

// ServerSettings contains listener configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// SimulationSettings contains Monte Carlo defaults applied when a
// request leaves them unset.
type SimulationSettings struct {
	Samples      int   `hcl:"samples,optional"`
	Workers      int   `hcl:"workers,optional"`
	TimeBudgetMS int   `hcl:"time_budget_ms,optional"`
	Seed         int64 `hcl:"seed,optional"`
}

// DecisionSettings contains decision model defaults
type DecisionSettings struct {
	RiskFactor float64 `hcl:"risk_factor,optional"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     8417,
			LogLevel: "info",
		},
		Simulation: &SimulationSettings{
			Samples: 50000,
		},
		Decision: &DecisionSettings{},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file is
// not an error; defaults are returned. Missing blocks and fields fall
// back to their defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server == nil {
		config.Server = defaults.Server
	} else {
		if config.Server.Address == "" {
			config.Server.Address = defaults.Server.Address
		}
		if config.Server.Port == 0 {
			config.Server.Port = defaults.Server.Port
		}
		if config.Server.LogLevel == "" {
			config.Server.LogLevel = defaults.Server.LogLevel
		}
	}
	if config.Simulation == nil {
		config.Simulation = defaults.Simulation
	} else if config.Simulation.Samples == 0 {
		config.Simulation.Samples = defaults.Simulation.Samples
	}
	if config.Decision == nil {
		config.Decision = defaults.Decision
	}

	return &config, nil
}
