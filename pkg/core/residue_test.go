package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResidueMass(t *testing.T) {
	table := DefaultMassTable()
	for _, aa := range table.AminoAcids() {
		r, err := ParseResidue(string(aa))
		require.NoError(t, err)
		want, _ := table.AminoAcidMass(aa)
		assert.Equal(t, want, r.Mass(), "mass of %c", aa)
		assert.False(t, r.IsModified())

		for _, mod := range table.Modifications() {
			code := string([]byte{mod, aa})
			r, err := ParseResidue(code)
			require.NoError(t, err)
			shift, _ := table.ModificationMass(mod)
			assert.InDelta(t, want+shift, r.Mass(), 1e-9, "mass of %s", code)
			assert.Equal(t, code, r.Code())
		}
	}
}

func TestParseResidueErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"unknown amino acid", "B", ErrInvalidAminoAcid},
		{"lowercase amino acid", "s", ErrInvalidAminoAcid},
		{"empty code", "", ErrInvalidAminoAcid},
		{"too long", "pSS", ErrInvalidAminoAcid},
		{"unknown modification", "xS", ErrInvalidModification},
		{"unknown amino acid after modification", "pB", ErrInvalidAminoAcid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResidue(tt.code)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var rerr *ResidueError
			assert.ErrorAs(t, err, &rerr)
		})
	}
}

func TestResidueModification(t *testing.T) {
	r, err := ParseResidue("S")
	require.NoError(t, err)
	base := r.Mass()

	require.NoError(t, r.SetModification(Phospho))
	assert.Equal(t, "pS", r.Code())
	assert.InDelta(t, base+PhosphoMass, r.Mass(), 1e-9)
	mod, ok := r.Modification()
	assert.True(t, ok)
	assert.Equal(t, Phospho, mod)

	r.ClearModification()
	assert.Equal(t, "S", r.Code())
	assert.Equal(t, base, r.Mass())

	err = r.SetModification('x')
	assert.ErrorIs(t, err, ErrInvalidModification)
	assert.Equal(t, "S", r.Code(), "failed assignment must not change the residue")
}

func TestResidueWithModification(t *testing.T) {
	r, err := ParseResidue("Y")
	require.NoError(t, err)

	m, err := r.WithModification(Phospho)
	require.NoError(t, err)
	assert.Equal(t, "pY", m.Code())
	assert.Equal(t, "Y", r.Code(), "original must be untouched")

	_, err = r.WithModification('q')
	assert.ErrorIs(t, err, ErrInvalidModification)
}

func TestResidueString(t *testing.T) {
	r, err := ParseResidue("pS")
	require.NoError(t, err)
	assert.Equal(t, "Residue('pS')", r.String())
}

func TestZeroResidueUsesDefaultTable(t *testing.T) {
	var r Residue
	assert.Equal(t, DefaultMassTable(), r.Table())
	assert.Equal(t, 0.0, r.Mass())

	p := FromResidues(Residue{})
	assert.Equal(t, 1, p.Len())
	assert.InDelta(t, WaterMass, p.NeutralMass(), 1e-9)

	require.NoError(t, r.SetModification(Phospho))
	assert.InDelta(t, PhosphoMass, r.Mass(), 1e-9)

	var zero Peptide
	assert.Equal(t, 0.0, zero.NeutralMass())
	assert.Equal(t, DefaultMassTable(), zero.Table())
}
