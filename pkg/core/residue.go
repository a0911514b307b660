package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAminoAcid is returned for codes missing from the amino acid table.
	ErrInvalidAminoAcid = errors.New("invalid amino acid")
	// ErrInvalidModification is returned for codes missing from the modification table.
	ErrInvalidModification = errors.New("invalid modification")
)

// ResidueError records which code failed to resolve.
type ResidueError struct {
	Code string
	Err  error
}

func (e *ResidueError) Error() string {
	return fmt.Sprintf("%s is not valid: %v", e.Code, e.Err)
}

func (e *ResidueError) Unwrap() error {
	return e.Err
}

// Residue is one amino acid with an optional modification.
type Residue struct {
	aa    byte
	mod   byte // 0 when unmodified
	table *MassTable
}

// ParseResidue parses a residue code using the default table.
func ParseResidue(code string) (Residue, error) {
	return defaultTable.ParseResidue(code)
}

// ParseResidue interprets a 1 or 2 character code. With two characters the
// first is the modification and the second the amino acid.
func (t *MassTable) ParseResidue(code string) (Residue, error) {
	code = strings.TrimSpace(code)
	switch len(code) {
	case 1:
		return t.NewResidue(code[0], 0)
	case 2:
		return t.NewResidue(code[1], code[0])
	default:
		return Residue{}, &ResidueError{Code: code, Err: ErrInvalidAminoAcid}
	}
}

// NewResidue builds a residue from an amino acid code and a modification
// code, where 0 means unmodified.
func (t *MassTable) NewResidue(aa, mod byte) (Residue, error) {
	if _, ok := t.aminoAcids[aa]; !ok {
		return Residue{}, &ResidueError{Code: string(aa), Err: ErrInvalidAminoAcid}
	}
	r := Residue{aa: aa, table: t}
	if mod != 0 {
		if err := r.SetModification(mod); err != nil {
			return Residue{}, err
		}
	}
	return r, nil
}

// AminoAcid returns the one-letter amino acid code.
func (r Residue) AminoAcid() byte { return r.aa }

// Modification returns the modification code and whether one is set.
func (r Residue) Modification() (byte, bool) { return r.mod, r.mod != 0 }

// IsModified reports whether a modification is set.
func (r Residue) IsModified() bool { return r.mod != 0 }

// Mass returns the amino acid mass plus the modification shift.
func (r Residue) Mass() float64 {
	t := r.Table()
	m := t.aminoAcids[r.aa]
	if r.mod != 0 {
		m += t.modifications[r.mod]
	}
	return m
}

// Code renders the residue as its modification prefix and amino acid, e.g. "pS".
func (r Residue) Code() string {
	if r.mod == 0 {
		return string(r.aa)
	}
	return string([]byte{r.mod, r.aa})
}

// SetModification sets the modification in place.
func (r *Residue) SetModification(mod byte) error {
	if _, ok := r.Table().modifications[mod]; !ok {
		return &ResidueError{Code: string(mod), Err: ErrInvalidModification}
	}
	r.mod = mod
	return nil
}

// ClearModification removes any modification in place.
func (r *Residue) ClearModification() {
	r.mod = 0
}

// WithModification returns a copy of r carrying mod.
func (r Residue) WithModification(mod byte) (Residue, error) {
	if err := r.SetModification(mod); err != nil {
		return Residue{}, err
	}
	return r, nil
}

// Table returns the mass table the residue resolves against. A zero Residue
// resolves against the default table.
func (r Residue) Table() *MassTable {
	if r.table == nil {
		return defaultTable
	}
	return r.table
}

func (r Residue) String() string {
	return fmt.Sprintf("Residue('%s')", r.Code())
}
