package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/PepScore/pkg/logging"
	"github.com/ChrisMcGann/PepScore/pkg/report"
	"github.com/ChrisMcGann/PepScore/pkg/search"
)

var sitesCmd = &cobra.Command{
	Use:   "sites [sequence]",
	Short: "Print ion tables for each phosphorylation site",
	Long: `Phosphorylate each site of a sequence in turn and print the resulting ion
table against the observed peaks. Sites are residues listed in
search.phospho-residues (or --residues).

Examples:
  pepscore sites ELFDDPSYVNVQNLDK --peaks 1590,1476,1361 --margin 0.04
  pepscore sites ELFDDPSYVNVQNLDK --residues S,T,Y --config experiment.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSites,
}

func init() {
	sitesCmd.Flags().StringSlice("residues", []string{"R", "S", "Y"}, "Residues to phosphorylate")
	if err := viper.BindPFlag("search.phospho-residues", sitesCmd.Flags().Lookup("residues")); err != nil {
		panic(err)
	}
}

func runSites(cmd *cobra.Command, args []string) error {
	s, err := loadSession(true)
	if err != nil {
		return err
	}
	log := logging.ForService("sites")

	p, err := s.table.ParseSequence(args[0])
	if err != nil {
		return fmt.Errorf("invalid sequence %q: %w", args[0], err)
	}

	sites, err := search.ScanSites(p, s.cfg.PhosphoBytes(), s.spec.Windows())
	if err != nil {
		return err
	}
	log.Info("scanned phosphorylation sites", "sequence", p.Sequence(), "sites", len(sites))

	out := cmd.OutOrStdout()
	for _, site := range sites {
		if err := report.WriteSite(out, site); err != nil {
			return err
		}
	}

	w, runID, err := s.openReport("sites")
	if err != nil || w == nil {
		return err
	}
	defer w.Close()
	for _, site := range sites {
		if err := w.WriteIonTable(runID, site.Sequence, site.Table); err != nil {
			return err
		}
	}
	return w.Finalize()
}
