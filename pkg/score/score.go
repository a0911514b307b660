// Package score reduces fragment ion matches and precursor mass agreement to
// a single candidate score.
package score

import (
	"math"

	"github.com/ChrisMcGann/PepScore/pkg/core"
	"github.com/ChrisMcGann/PepScore/pkg/match"
)

const (
	// OverweightLimit is how far (Da) a candidate may exceed the target mass
	// before it is penalised as unextendable.
	OverweightLimit = 0.5
	// LongPeptide is the length above which b ions and precursor mass count.
	LongPeptide = 12
	// PrecursorTolerance is the precursor agreement (Da) that accepts a candidate.
	PrecursorTolerance = 0.015
	// AcceptBonus is added to accepted candidates.
	AcceptBonus = 100
)

// Result is the outcome of scoring one peptide.
type Result struct {
	Score    int
	Accepted bool
	BCount   int
	YCount   int
	MassDiff float64 // target minus peptide neutral mass
}

// Score matches p against windows and rates it against targetNeutralMass.
func Score(p *core.Peptide, windows []core.MassRange, targetNeutralMass float64) Result {
	b, y := match.Counts(p, windows)
	return FromCounts(b, y, p.Len(), targetNeutralMass-p.NeutralMass())
}

// FromCounts applies the scoring rules to precomputed match counts.
//
// A peptide heavier than the target by more than OverweightLimit scores
// -5 per residue. Peptides longer than LongPeptide score 10 per b and y
// match minus 10 per residue, plus AcceptBonus when the precursor mass
// agrees. Shorter peptides score 10 per y match minus 5 per residue.
func FromCounts(bCount, yCount, length int, massDiff float64) Result {
	r := Result{BCount: bCount, YCount: yCount, MassDiff: massDiff}

	var s float64
	switch {
	case massDiff < -OverweightLimit:
		s = -5 * float64(length)
	case length > LongPeptide:
		s = 10*float64(yCount) + 10*float64(bCount) - 10*float64(length)
		if math.Abs(massDiff) < PrecursorTolerance {
			s += AcceptBonus
			r.Accepted = true
		}
	default:
		s = 10*float64(yCount) - 5*float64(length)
	}

	r.Score = int(math.Round(s))
	return r
}
