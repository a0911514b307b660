package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/PepScore/pkg/core"
	"github.com/ChrisMcGann/PepScore/pkg/logging"
	"github.com/ChrisMcGann/PepScore/pkg/report"
	"github.com/ChrisMcGann/PepScore/pkg/score"
)

var scoreCmd = &cobra.Command{
	Use:   "score [sequence...]",
	Short: "Score candidate sequences against the spectrum",
	Long: `Score each sequence against the observed peaks and the precursor mass and
print one summary line per sequence: score, b and y match counts and the
difference between the precursor neutral mass and the sequence mass.

Examples:
  pepscore score RHGDLPVpYEDAASFK RHDLPVpYEDAASFKGG --config denovo.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	s, err := loadSession(true)
	if err != nil {
		return err
	}
	if s.spec.TargetMZ <= 0 {
		return fmt.Errorf("a precursor m/z is required, set --target-mz or experiment.target-mz")
	}
	log := logging.ForService("score")

	peptides := make([]*core.Peptide, 0, len(args))
	for _, arg := range args {
		p, err := s.table.ParseSequence(arg)
		if err != nil {
			return fmt.Errorf("invalid sequence %q: %w", arg, err)
		}
		peptides = append(peptides, p)
	}

	windows := s.spec.Windows()
	target := s.spec.TargetNeutralMass(s.table)
	results := make([]score.Result, len(peptides))

	out := cmd.OutOrStdout()
	for i, p := range peptides {
		results[i] = score.Score(p, windows, target)
		if results[i].Accepted {
			log.Info("sequence agrees with precursor", "sequence", p.Sequence(), "score", results[i].Score)
		}
		if err := report.WriteScore(out, p.Sequence(), results[i]); err != nil {
			return err
		}
	}

	w, runID, err := s.openReport("score")
	if err != nil || w == nil {
		return err
	}
	defer w.Close()
	for i, p := range peptides {
		if err := w.WriteCandidate(runID, p, results[i]); err != nil {
			return err
		}
	}
	return w.Finalize()
}
