// Package core provides the peptide mass model: residue and modification mass
// tables, residues, peptides, fragment ions and observed spectra.
package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Monoisotopic constants used by the default table
const (
	WaterMass  = 18.010565
	ProtonMass = 1.007276

	// PhosphoMass is the mass shift added by the 'p' modification
	PhosphoMass = 79.97
)

// Phospho is the modification code for phosphorylation.
const Phospho byte = 'p'

// StandardAminoAcids lists the 20 standard amino acid codes in table order.
// Enumeration over the alphabet follows this order.
const StandardAminoAcids = "ARNDCEQGHILKMFPSTWYV"

// DefaultAminoAcidMasses maps amino acid one-letter codes to residue masses
var DefaultAminoAcidMasses = map[string]float64{
	"A": 71.03711, "R": 156.10111, "N": 114.04293, "D": 115.02694, "C": 103.00919,
	"E": 129.04259, "Q": 128.05858, "G": 57.02146, "H": 137.05891, "I": 113.08406,
	"L": 113.08406, "K": 128.09496, "M": 131.04049, "F": 147.06841, "P": 97.05276,
	"S": 87.03203, "T": 101.04768, "W": 186.07931, "Y": 163.06333, "V": 99.06841,
}

// DefaultModificationMasses maps modification codes to mass shifts
var DefaultModificationMasses = map[string]float64{
	string(Phospho): PhosphoMass,
}

// TableConfig is the mutable description a MassTable is built from.
type TableConfig struct {
	AminoAcids    map[string]float64
	Modifications map[string]float64
	WaterMass     float64
	ProtonMass    float64
}

// DefaultTableConfig returns a copy of the built-in tables.
func DefaultTableConfig() TableConfig {
	cfg := TableConfig{
		AminoAcids:    make(map[string]float64, len(DefaultAminoAcidMasses)),
		Modifications: make(map[string]float64, len(DefaultModificationMasses)),
		WaterMass:     WaterMass,
		ProtonMass:    ProtonMass,
	}
	for code, mass := range DefaultAminoAcidMasses {
		cfg.AminoAcids[code] = mass
	}
	for code, mass := range DefaultModificationMasses {
		cfg.Modifications[code] = mass
	}
	return cfg
}

// MassTable is an immutable lookup of residue and modification masses.
// Build one with NewMassTable and share it freely.
type MassTable struct {
	aminoAcids    map[byte]float64
	modifications map[byte]float64
	aaOrder       []byte
	modOrder      []byte
	water         float64
	proton        float64
}

// NewMassTable validates cfg and freezes it into a MassTable.
func NewMassTable(cfg TableConfig) (*MassTable, error) {
	t := &MassTable{
		aminoAcids:    make(map[byte]float64, len(cfg.AminoAcids)),
		modifications: make(map[byte]float64, len(cfg.Modifications)),
		water:         cfg.WaterMass,
		proton:        cfg.ProtonMass,
	}

	for code, mass := range cfg.AminoAcids {
		c, err := tableCode(code)
		if err != nil {
			return nil, fmt.Errorf("amino acid %w", err)
		}
		if math.IsNaN(mass) || mass <= 0 {
			return nil, fmt.Errorf("amino acid '%s': mass must be positive, got %v", code, mass)
		}
		t.aminoAcids[c] = mass
	}
	for code, mass := range cfg.Modifications {
		c, err := tableCode(code)
		if err != nil {
			return nil, fmt.Errorf("modification %w", err)
		}
		if _, clash := t.aminoAcids[c]; clash {
			return nil, fmt.Errorf("modification '%s' collides with an amino acid code", code)
		}
		if math.IsNaN(mass) {
			return nil, fmt.Errorf("modification '%s': invalid mass", code)
		}
		t.modifications[c] = mass
	}
	if len(t.aminoAcids) == 0 {
		return nil, fmt.Errorf("mass table has no amino acids")
	}
	if t.water <= 0 || t.proton <= 0 {
		return nil, fmt.Errorf("water and proton masses must be positive")
	}

	t.aaOrder = orderedCodes(t.aminoAcids)
	t.modOrder = orderedCodes(t.modifications)
	return t, nil
}

func tableCode(code string) (byte, error) {
	code = strings.TrimSpace(code)
	if len(code) != 1 || code[0] > 127 {
		return 0, fmt.Errorf("code '%s' must be a single ASCII character", code)
	}
	return code[0], nil
}

// orderedCodes puts standard amino acids first in table order, then the rest sorted.
func orderedCodes(m map[byte]float64) []byte {
	var out []byte
	for i := 0; i < len(StandardAminoAcids); i++ {
		if _, ok := m[StandardAminoAcids[i]]; ok {
			out = append(out, StandardAminoAcids[i])
		}
	}
	var extra []byte
	for c := range m {
		if strings.IndexByte(StandardAminoAcids, c) < 0 {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

var defaultTable = mustMassTable(DefaultTableConfig())

func mustMassTable(cfg TableConfig) *MassTable {
	t, err := NewMassTable(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultMassTable returns the shared built-in table.
func DefaultMassTable() *MassTable {
	return defaultTable
}

// AminoAcidMass returns the residue mass for an amino acid code
func (t *MassTable) AminoAcidMass(code byte) (float64, bool) {
	m, ok := t.aminoAcids[code]
	return m, ok
}

// ModificationMass returns the mass shift for a modification code
func (t *MassTable) ModificationMass(code byte) (float64, bool) {
	m, ok := t.modifications[code]
	return m, ok
}

// IsModification reports whether code is a known modification prefix.
func (t *MassTable) IsModification(code byte) bool {
	_, ok := t.modifications[code]
	return ok
}

// AminoAcids returns the known amino acid codes in table order.
func (t *MassTable) AminoAcids() []byte {
	return append([]byte(nil), t.aaOrder...)
}

// Modifications returns the known modification codes.
func (t *MassTable) Modifications() []byte {
	return append([]byte(nil), t.modOrder...)
}

// WaterMass returns the mass added once per non-empty peptide.
func (t *MassTable) WaterMass() float64 { return t.water }

// ProtonMass returns the mass of one proton.
func (t *MassTable) ProtonMass() float64 { return t.proton }

// TargetNeutralMass converts an observed precursor m/z at the given charge
// into a neutral peptide mass.
func (t *MassTable) TargetNeutralMass(mz float64, charge int) float64 {
	return mz*float64(charge) - float64(charge)*t.proton
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
