// Package cmd provides CLI command implementations
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/PepScore/pkg/config"
	"github.com/ChrisMcGann/PepScore/pkg/core"
	"github.com/ChrisMcGann/PepScore/pkg/logging"
	"github.com/ChrisMcGann/PepScore/pkg/writer/sqlite"
)

var cfgFile string

// flagKeys maps persistent flags onto their config keys
var flagKeys = map[string]string{
	"peaks":     "experiment.peaks",
	"margin":    "experiment.margin",
	"target-mz": "experiment.target-mz",
	"charge":    "experiment.charge",
	"min-mass":  "experiment.min-mass",
	"max-mass":  "experiment.max-mass",
	"tables":    "tables.csv",
	"db":        "db",
	"log-level": "log.level",
}

var rootCmd = &cobra.Command{
	Use:   "pepscore",
	Short: "PepScore - peptide fragment scoring and sequence search",
	Long: `PepScore scores peptide sequences against an observed MS/MS fragment
spectrum and searches for sequences that explain it.

Commands:
- ions:   b/y ion table of a sequence with matched peaks marked
- sites:  ion tables for every candidate phosphorylation site
- score:  score a list of candidate sequences
- search: two-phase sequence search against the precursor mass

Settings come from flags, PEPSCORE_* environment variables or a config file.`,
	Version:      "1.0.0",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
			}
		}
		return logging.Setup(cmd.ErrOrStderr(), viper.GetString("log.level"))
	},
}

// Execute runs the root command, cancelling long searches on interrupt
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (YAML, TOML or JSON)")
	flags.StringSlice("peaks", nil, "Observed fragment masses, comma-separated")
	flags.Float64("margin", 0.015, "Tolerance window half-width in Da")
	flags.Float64("target-mz", 0, "Precursor m/z (0 = no precursor)")
	flags.Int("charge", 2, "Precursor charge state")
	flags.Float64("min-mass", 0, "Ignore peaks below this mass (0 = no bound)")
	flags.Float64("max-mass", 0, "Ignore peaks above this mass (0 = no bound)")
	flags.String("tables", "", "CSV of extra masses (kind,code,mass)")
	flags.String("db", "", "Write a SQLite report to this path")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")

	bindFlags(flags, flagKeys)

	viper.SetEnvPrefix("PEPSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(ionsCmd)
	rootCmd.AddCommand(sitesCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(searchCmd)
}

func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", name, err))
		}
	}
}

// session is the state every command starts from
type session struct {
	cfg   *config.Config
	table *core.MassTable
	spec  *core.Spectrum
}

// loadSession reads settings and builds the mass table and spectrum.
// Without requirePeaks an empty peak list yields a spectrum with no windows.
func loadSession(requirePeaks bool) (*session, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	table, err := cfg.MassTable()
	if err != nil {
		return nil, err
	}

	var spec *core.Spectrum
	if !requirePeaks && len(cfg.Experiment.Peaks) == 0 {
		spec = &core.Spectrum{
			Margin:   cfg.Experiment.Margin,
			TargetMZ: cfg.Experiment.TargetMZ,
			Charge:   cfg.Experiment.Charge,
		}
	} else if spec, err = cfg.Spectrum(); err != nil {
		return nil, err
	}

	return &session{cfg: cfg, table: table, spec: spec}, nil
}

// openReport opens the SQLite report when db is set and records the run
func (s *session) openReport(command string) (*sqlite.Writer, string, error) {
	if s.cfg.DB == "" {
		return nil, "", nil
	}
	w, err := sqlite.NewWriter(s.cfg.DB)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create report database: %w", err)
	}
	runID, err := w.BeginRun(command, s.spec, s.spec.TargetNeutralMass(s.table))
	if err != nil {
		w.Close()
		return nil, "", err
	}
	return w, runID, nil
}
