package core

import (
	"fmt"
	"strings"
)

// Peptide is an ordered sequence of residues. A Peptide owns its residues;
// constructors copy their inputs.
type Peptide struct {
	residues []Residue
	table    *MassTable
}

// IonPair is one row of the fragment ion table.
type IonPair struct {
	B float64
	Y float64
}

// ParseSequence parses text using the default table.
func ParseSequence(text string) (*Peptide, error) {
	return defaultTable.ParseSequence(text)
}

// MustParseSequence is like ParseSequence but panics on error.
func MustParseSequence(text string) *Peptide {
	p, err := ParseSequence(text)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseSequence scans text left to right. A known modification code and the
// character after it form one residue; any other character is one residue.
func (t *MassTable) ParseSequence(text string) (*Peptide, error) {
	text = strings.TrimSpace(text)
	p := &Peptide{table: t, residues: make([]Residue, 0, len(text))}

	for i := 0; i < len(text); {
		end := i + 1
		if t.IsModification(text[i]) {
			end = i + 2
			if end > len(text) {
				end = len(text)
			}
		}
		r, err := t.ParseResidue(text[i:end])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		p.residues = append(p.residues, r)
		i = end
	}

	return p, nil
}

// NewPeptide builds a peptide from a copy of residues.
func (t *MassTable) NewPeptide(residues ...Residue) *Peptide {
	p := &Peptide{table: t, residues: make([]Residue, len(residues))}
	copy(p.residues, residues)
	return p
}

// FromResidues builds a peptide against the table of the first residue, or
// the default table when there are none.
func FromResidues(residues ...Residue) *Peptide {
	t := defaultTable
	if len(residues) > 0 && residues[0].table != nil {
		t = residues[0].table
	}
	return t.NewPeptide(residues...)
}

// Concat returns a new peptide with the residues of a followed by those of b.
// Neither input is modified.
func Concat(a, b *Peptide) *Peptide {
	t := a.table
	if t == nil {
		t = b.table
	}
	p := &Peptide{table: t, residues: make([]Residue, 0, len(a.residues)+len(b.residues))}
	p.residues = append(p.residues, a.residues...)
	p.residues = append(p.residues, b.residues...)
	return p
}

// Table returns the mass table the peptide resolves against, the default
// table for a zero Peptide.
func (p *Peptide) Table() *MassTable {
	if p.table == nil {
		return defaultTable
	}
	return p.table
}

// Len returns the number of residues.
func (p *Peptide) Len() int { return len(p.residues) }

// IsEmpty reports whether the peptide has no residues.
func (p *Peptide) IsEmpty() bool { return len(p.residues) == 0 }

// Residue returns the residue at index i.
func (p *Peptide) Residue(i int) Residue { return p.residues[i] }

// Residues returns a copy of the residue list.
func (p *Peptide) Residues() []Residue {
	return append([]Residue(nil), p.residues...)
}

// Clone returns a deep copy.
func (p *Peptide) Clone() *Peptide {
	return p.Table().NewPeptide(p.residues...)
}

// Sequence renders every residue code in order, modification prefixes included.
func (p *Peptide) Sequence() string {
	var sb strings.Builder
	for _, r := range p.residues {
		if r.mod != 0 {
			sb.WriteByte(r.mod)
		}
		sb.WriteByte(r.aa)
	}
	return sb.String()
}

// Equal reports whether both peptides render the same sequence text.
func (p *Peptide) Equal(o *Peptide) bool {
	if o == nil {
		return false
	}
	return p.Sequence() == o.Sequence()
}

// Contains reports whether code is one of the residue codes or a substring
// of the sequence text.
func (p *Peptide) Contains(code string) bool {
	for _, r := range p.residues {
		if r.Code() == code {
			return true
		}
	}
	return strings.Contains(p.Sequence(), code)
}

// NeutralMass is the residue mass sum plus one water. An empty peptide weighs 0.
func (p *Peptide) NeutralMass() float64 {
	if len(p.residues) == 0 {
		return 0
	}
	m := p.Table().water
	for _, r := range p.residues {
		m += r.Mass()
	}
	return m
}

// ChargedMass adds numProtons proton masses to the neutral mass. An empty
// peptide weighs 0 at any charge.
func (p *Peptide) ChargedMass(numProtons int) float64 {
	if len(p.residues) == 0 {
		return 0
	}
	return p.NeutralMass() + float64(numProtons)*p.Table().proton
}

// FragmentMass splits the peptide before position (0..Len inclusive) and
// returns the b and y masses. The y fragment is the suffix starting at
// position at charge 1. The b mass is the peptide at charge 2 minus y when
// the suffix is a non-empty strict suffix, otherwise at charge 1 minus y.
func (p *Peptide) FragmentMass(position int) (b, y float64) {
	suffix := Peptide{table: p.Table(), residues: p.residues[position:]}
	y = suffix.ChargedMass(1)

	totalCharge := 1
	if len(suffix.residues) > 0 && len(suffix.residues) < len(p.residues) {
		totalCharge = 2
	}
	b = p.ChargedMass(totalCharge) - y
	return b, y
}

// AllIons returns Len()+1 ion pairs. The y series is reversed before pairing
// so that row i holds the b ion of the i-residue prefix and the y ion of the
// i-residue suffix.
func (p *Peptide) AllIons() []IonPair {
	n := len(p.residues)
	bs := make([]float64, n+1)
	ys := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		bs[i], ys[i] = p.FragmentMass(i)
	}

	ions := make([]IonPair, n+1)
	for i := range ions {
		ions[i] = IonPair{B: bs[i], Y: ys[n-i]}
	}
	return ions
}

// Phosphorylate sets the phospho modification on the residue at position.
func (p *Peptide) Phosphorylate(position int) error {
	return p.SetModification(position, Phospho)
}

// SetModification sets mod on the residue at position in place.
func (p *Peptide) SetModification(position int, mod byte) error {
	if position < 0 || position >= len(p.residues) {
		return fmt.Errorf("position %d out of range for peptide of length %d", position, len(p.residues))
	}
	return p.residues[position].SetModification(mod)
}

// ClearMod removes the modification at position.
func (p *Peptide) ClearMod(position int) error {
	if position < 0 || position >= len(p.residues) {
		return fmt.Errorf("position %d out of range for peptide of length %d", position, len(p.residues))
	}
	p.residues[position].ClearModification()
	return nil
}

// ClearMods removes every modification.
func (p *Peptide) ClearMods() {
	for i := range p.residues {
		p.residues[i].ClearModification()
	}
}

func (p *Peptide) String() string {
	return fmt.Sprintf("Peptide('%s')", p.Sequence())
}
