package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/PepScore/pkg/logging"
	"github.com/ChrisMcGann/PepScore/pkg/match"
	"github.com/ChrisMcGann/PepScore/pkg/report"
	"github.com/ChrisMcGann/PepScore/pkg/score"
)

var ionsCmd = &cobra.Command{
	Use:   "ions [sequence]",
	Short: "Print the b/y ion table of a sequence",
	Long: `Print the singly charged b and y ions of every prefix/suffix split of a
sequence. Ions whose 1+ or 2+ mass falls inside a tolerance window around an
observed peak are marked with '*'. With --target-mz the score is printed too.

Examples:
  pepscore ions RDLPVpYEDAASFK
  pepscore ions RDLPVpYEDAASFK --peaks 147.11,157.10,244.09 --target-mz 795.86`,
	Args: cobra.ExactArgs(1),
	RunE: runIons,
}

func runIons(cmd *cobra.Command, args []string) error {
	s, err := loadSession(false)
	if err != nil {
		return err
	}
	log := logging.ForService("ions")

	p, err := s.table.ParseSequence(args[0])
	if err != nil {
		return fmt.Errorf("invalid sequence %q: %w", args[0], err)
	}

	windows := s.spec.Windows()
	t := match.Tabulate(p, windows)
	log.Debug("tabulated ions", "sequence", p.Sequence(), "windows", len(windows), "matches", t.Total())

	out := cmd.OutOrStdout()
	if err := report.WriteIonTable(out, t); err != nil {
		return err
	}
	if s.spec.TargetMZ > 0 {
		r := score.Score(p, windows, s.spec.TargetNeutralMass(s.table))
		if err := report.WriteScore(out, p.Sequence(), r); err != nil {
			return err
		}
	}

	w, runID, err := s.openReport("ions")
	if err != nil || w == nil {
		return err
	}
	defer w.Close()
	if err := w.WriteIonTable(runID, p.Sequence(), t); err != nil {
		return err
	}
	return w.Finalize()
}
