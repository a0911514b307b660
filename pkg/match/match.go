// Package match checks computed fragment ion masses against the tolerance
// windows of an observed spectrum.
package match

import (
	"github.com/ChrisMcGann/PepScore/pkg/core"
)

// MatchFlags reports, per query, whether it falls inside at least one window.
func MatchFlags(windows []core.MassRange, queries ...float64) []bool {
	out := make([]bool, len(queries))
	for _, w := range windows {
		for i, q := range queries {
			if w.Low <= q && q <= w.High {
				out[i] = true
			}
		}
	}
	return out
}

// Row is one position of an ion table with its match state per charge.
type Row struct {
	Position int
	B        float64
	Y        float64
	BSingle  bool // b+ matched
	BDouble  bool // b++ matched
	YSingle  bool
	YDouble  bool
}

// Table is the tabulated match result for a whole peptide.
type Table struct {
	Rows   []Row
	BCount int
	YCount int
}

// Total returns BCount + YCount.
func (t Table) Total() int {
	return t.BCount + t.YCount
}

// DoublyCharged converts a singly protonated ion mass to its 2+ m/z.
func DoublyCharged(mass, proton float64) float64 {
	return (mass + proton) / 2
}

// Tabulate matches every ion pair of p, singly and doubly charged, against
// windows. Each matched charge state adds one to its series count, so one
// position can contribute up to two b and two y matches.
func Tabulate(p *core.Peptide, windows []core.MassRange) Table {
	return TabulateIons(p.AllIons(), p.Table().ProtonMass(), windows)
}

// TabulateIons is Tabulate over precomputed ion pairs.
func TabulateIons(ions []core.IonPair, proton float64, windows []core.MassRange) Table {
	t := Table{Rows: make([]Row, len(ions))}
	for i, ion := range ions {
		single := MatchFlags(windows, ion.B, ion.Y)
		double := MatchFlags(windows, DoublyCharged(ion.B, proton), DoublyCharged(ion.Y, proton))

		row := Row{
			Position: i,
			B:        ion.B,
			Y:        ion.Y,
			BSingle:  single[0],
			YSingle:  single[1],
			BDouble:  double[0],
			YDouble:  double[1],
		}
		t.BCount += count(row.BSingle) + count(row.BDouble)
		t.YCount += count(row.YSingle) + count(row.YDouble)
		t.Rows[i] = row
	}
	return t
}

// Counts returns only the b and y match counts, without building rows.
func Counts(p *core.Peptide, windows []core.MassRange) (bCount, yCount int) {
	proton := p.Table().ProtonMass()
	for _, ion := range p.AllIons() {
		if inAny(windows, ion.B) {
			bCount++
		}
		if inAny(windows, ion.Y) {
			yCount++
		}
		if inAny(windows, DoublyCharged(ion.B, proton)) {
			bCount++
		}
		if inAny(windows, DoublyCharged(ion.Y, proton)) {
			yCount++
		}
	}
	return bCount, yCount
}

func inAny(windows []core.MassRange, q float64) bool {
	for _, w := range windows {
		if w.Low <= q && q <= w.High {
			return true
		}
	}
	return false
}

func count(b bool) int {
	if b {
		return 1
	}
	return 0
}
