// Package config is for app wide settings that are unmarshalled
// from Viper (see: cmd/pepscore/cmd)
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ChrisMcGann/PepScore/pkg/core"
	"github.com/ChrisMcGann/PepScore/pkg/filter"
	"github.com/ChrisMcGann/PepScore/pkg/search"
)

// ExperimentConfig describes the observed spectrum and its precursor
type ExperimentConfig struct {
	// observed fragment ion masses in Da
	Peaks []float64 `mapstructure:"peaks"`

	// half-width of every tolerance window in Da
	Margin float64 `mapstructure:"margin"`

	// precursor m/z and charge state
	TargetMZ float64 `mapstructure:"target-mz"`
	Charge   int     `mapstructure:"charge"`

	// peaks outside [min-mass, max-mass] are ignored, 0 disables a bound
	MinMass float64 `mapstructure:"min-mass"`
	MaxMass float64 `mapstructure:"max-mass"`
}

// SearchConfig holds the sequence search settings
type SearchConfig struct {
	// fixed prefix placed before every extension
	Anchor string `mapstructure:"anchor"`

	// amino acids that also enter the alphabet in phosphorylated form
	PhosphoResidues []string `mapstructure:"phospho-residues"`

	SeedLength   int  `mapstructure:"seed-length"`
	TieWindow    int  `mapstructure:"tie-window"`
	IncludeBlank bool `mapstructure:"include-blank"`
	Workers      int  `mapstructure:"workers"`
}

// TablesConfig points at optional mass table overrides
type TablesConfig struct {
	CSV string `mapstructure:"csv"`
}

// LogConfig is for logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the root-level settings struct and is a mix
// of settings available in the config file and those
// available from the command line
type Config struct {
	Experiment ExperimentConfig `mapstructure:"experiment"`
	Search     SearchConfig     `mapstructure:"search"`
	Tables     TablesConfig     `mapstructure:"tables"`
	Log        LogConfig        `mapstructure:"log"`

	// optional SQLite report path
	DB string `mapstructure:"db"`
}

// ValidationError represents an invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("experiment.margin", 0.015)
	v.SetDefault("experiment.charge", 2)
	v.SetDefault("search.anchor", "RH")
	v.SetDefault("search.phospho-residues", []string{"R", "S", "Y"})
	v.SetDefault("search.seed-length", 4)
	v.SetDefault("search.tie-window", 1)
	v.SetDefault("search.include-blank", true)
	v.SetDefault("search.workers", 0)
	v.SetDefault("log.level", "info")
}

// Load unmarshals v into a Config and validates it
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks settings that do not depend on the mass table
func (c *Config) Validate() error {
	switch {
	case c.Experiment.Margin < 0:
		return &ValidationError{Field: "experiment.margin", Message: "must be non-negative"}
	case c.Experiment.Charge <= 0:
		return &ValidationError{Field: "experiment.charge", Message: "must be positive"}
	case c.Experiment.TargetMZ < 0:
		return &ValidationError{Field: "experiment.target-mz", Message: "must be non-negative"}
	case c.Search.SeedLength < 1:
		return &ValidationError{Field: "search.seed-length", Message: "must be at least 1"}
	case c.Search.TieWindow < 0:
		return &ValidationError{Field: "search.tie-window", Message: "must be non-negative"}
	}
	for _, r := range c.Search.PhosphoResidues {
		if len(strings.TrimSpace(r)) != 1 {
			return &ValidationError{Field: "search.phospho-residues", Message: fmt.Sprintf("%q is not a single residue code", r)}
		}
	}
	return nil
}

// MassTable builds the mass table, merging tables.csv over the defaults
func (c *Config) MassTable() (*core.MassTable, error) {
	cfg := core.DefaultTableConfig()
	if c.Tables.CSV != "" {
		f, err := os.Open(c.Tables.CSV)
		if err != nil {
			return nil, fmt.Errorf("failed to open mass table: %w", err)
		}
		defer f.Close()
		if err := core.LoadTableCSV(f, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", c.Tables.CSV, err)
		}
	}
	return core.NewMassTable(cfg)
}

// Spectrum returns the filtered observed spectrum
func (c *Config) Spectrum() (*core.Spectrum, error) {
	spec := &core.Spectrum{
		Peaks:    append([]float64(nil), c.Experiment.Peaks...),
		Margin:   c.Experiment.Margin,
		TargetMZ: c.Experiment.TargetMZ,
		Charge:   c.Experiment.Charge,
	}

	pf := filter.Config{MinMass: c.Experiment.MinMass, MaxMass: c.Experiment.MaxMass}
	if err := pf.Apply(spec); err != nil {
		return nil, fmt.Errorf("failed to filter peaks: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// PhosphoBytes returns the phospho residue codes as bytes
func (c *Config) PhosphoBytes() []byte {
	var out []byte
	for _, r := range c.Search.PhosphoResidues {
		out = append(out, strings.TrimSpace(r)[0])
	}
	return out
}

// SearchConfig assembles a search.Config for the given table and spectrum
func (c *Config) SearchConfig(table *core.MassTable, spec *core.Spectrum) search.Config {
	return search.Config{
		Table:      table,
		Windows:    spec.Windows(),
		TargetMass: spec.TargetNeutralMass(table),
		Alphabet:   search.DefaultAlphabet(table, c.PhosphoBytes(), c.Search.IncludeBlank),
		SeedLength: c.Search.SeedLength,
		Anchor:     c.Search.Anchor,
		TieWindow:  c.Search.TieWindow,
		Workers:    c.Search.Workers,
	}
}
