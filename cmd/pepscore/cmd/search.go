package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/PepScore/pkg/logging"
	"github.com/ChrisMcGann/PepScore/pkg/match"
	"github.com/ChrisMcGann/PepScore/pkg/report"
	"github.com/ChrisMcGann/PepScore/pkg/search"
)

// searchFlagKeys maps search flags onto their config keys
var searchFlagKeys = map[string]string{
	"anchor":        "search.anchor",
	"seed-length":   "search.seed-length",
	"tie-window":    "search.tie-window",
	"include-blank": "search.include-blank",
	"workers":       "search.workers",
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for sequences that explain the spectrum",
	Long: `Run the two-phase sequence search. The seed phase scores every block of
seed-length residues. The extension phase prepends blocks between the anchor
and the best seeds until a sequence agrees with the precursor mass or no
block improves the score. Accepted sequences are printed with their doubly
protonated m/z.

Examples:
  pepscore search --config configs/denovo.yaml
  pepscore search --config configs/denovo.yaml --seed-length 3 --workers 8 --db run.db`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	flags := searchCmd.Flags()
	flags.String("anchor", "RH", "Fixed prefix placed before every extension")
	flags.Int("seed-length", 4, "Residues per enumerated block")
	flags.Int("tie-window", 1, "Keep blocks scoring within this of the best")
	flags.Bool("include-blank", true, "Allow blank positions inside blocks")
	flags.Int("workers", 0, "Scoring goroutines (0 = GOMAXPROCS)")
	bindFlags(flags, searchFlagKeys)
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := loadSession(true)
	if err != nil {
		return err
	}
	if s.spec.TargetMZ <= 0 {
		return fmt.Errorf("a precursor m/z is required, set --target-mz or experiment.target-mz")
	}

	sc := s.cfg.SearchConfig(s.table, s.spec)
	sc.Logger = logging.ForService("search")

	res, err := search.Run(cmd.Context(), sc)
	if err != nil {
		return err
	}
	sc.Logger.Info("search finished",
		"seeds", len(res.Seeds), "seed_score", res.SeedScore,
		"rounds", res.Rounds, "candidates", len(res.Candidates))

	if err := report.WriteCandidates(cmd.OutOrStdout(), res); err != nil {
		return err
	}

	w, runID, err := s.openReport("search")
	if err != nil || w == nil {
		return err
	}
	defer w.Close()
	for _, c := range res.Candidates {
		if err := w.WriteCandidate(runID, c.Peptide, c.Result); err != nil {
			return err
		}
		if err := w.WriteIonTable(runID, c.Sequence, match.Tabulate(c.Peptide, sc.Windows)); err != nil {
			return err
		}
	}
	return w.Finalize()
}
