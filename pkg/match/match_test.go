package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/PepScore/pkg/core"
)

func TestMatchFlags(t *testing.T) {
	windows := []core.MassRange{
		{Low: 100.0, High: 100.1},
		{Low: 200.0, High: 200.1},
		{Low: 200.05, High: 200.2},
	}

	tests := []struct {
		name    string
		queries []float64
		want    []bool
	}{
		{"lower bound inclusive", []float64{100.0}, []bool{true}},
		{"upper bound inclusive", []float64{100.1}, []bool{true}},
		{"outside", []float64{99.99, 150.0}, []bool{false, false}},
		{"overlapping windows", []float64{200.07}, []bool{true}},
		{"mixed", []float64{100.05, 300.0, 200.15}, []bool{true, false, true}},
		{"no queries", nil, []bool{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchFlags(windows, tt.queries...))
		})
	}
}

func TestMatchFlagsNoWindows(t *testing.T) {
	assert.Equal(t, []bool{false, false}, MatchFlags(nil, 1.0, 2.0))
}

func TestTabulateCountsChargeStatesSeparately(t *testing.T) {
	p := core.MustParseSequence("GASK")
	proton := p.Table().ProtonMass()
	ions := p.AllIons()

	// Position 2 matches b singly and doubly, y only singly.
	windows := core.Windows([]float64{
		ions[2].B,
		DoublyCharged(ions[2].B, proton),
		ions[2].Y,
	}, 0.001)

	table := Tabulate(p, windows)
	require.Len(t, table.Rows, p.Len()+1)

	row := table.Rows[2]
	assert.True(t, row.BSingle)
	assert.True(t, row.BDouble)
	assert.True(t, row.YSingle)
	assert.False(t, row.YDouble)

	assert.Equal(t, 2, table.BCount)
	assert.Equal(t, 1, table.YCount)
	assert.Equal(t, 3, table.Total())
}

func TestCountsAgreesWithTabulate(t *testing.T) {
	p := core.MustParseSequence("RDLPVpYEDAASFK")
	var masses []float64
	for i, ion := range p.AllIons() {
		if i%2 == 0 {
			masses = append(masses, ion.Y)
		} else {
			masses = append(masses, ion.B)
		}
	}
	windows := core.Windows(masses, 0.015)

	table := Tabulate(p, windows)
	b, y := Counts(p, windows)
	assert.Equal(t, table.BCount, b)
	assert.Equal(t, table.YCount, y)
	assert.Positive(t, b)
	assert.Positive(t, y)
}

func TestTabulateEmptyPeptide(t *testing.T) {
	p := core.MustParseSequence("")
	table := Tabulate(p, core.Windows([]float64{147.11}, 0.04))
	require.Len(t, table.Rows, 1)
	assert.Zero(t, table.Total())
}
