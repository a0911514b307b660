package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/PepScore/pkg/core"
	"github.com/ChrisMcGann/PepScore/pkg/match"
	"github.com/ChrisMcGann/PepScore/pkg/score"
	"github.com/ChrisMcGann/PepScore/pkg/search"
)

func TestWriteIonTable(t *testing.T) {
	table := match.Table{
		Rows: []match.Row{
			{Position: 0},
			{Position: 1, B: 58.03, Y: 147.11, YSingle: true},
			{Position: 2, B: 129.07, Y: 234.14, BSingle: true, BDouble: true},
		},
		BCount: 2,
		YCount: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteIonTable(&buf, table))

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "  Num Res. |       b+ ion |       y+ ion", lines[0])
	assert.Equal(t, "         0 |         0.00 |         0.00", lines[1])
	assert.Equal(t, "         1 |        58.03 |  *    147.11", lines[2])
	assert.Equal(t, "         2 | **    129.07 |       234.14", lines[3])
	assert.Equal(t, "N Match. :              2 |            1   = 3", lines[4])
}

func TestWriteSite(t *testing.T) {
	var buf bytes.Buffer
	site := search.SiteReport{Position: 6, AminoAcid: 'S'}
	require.NoError(t, WriteSite(&buf, site))
	assert.True(t, strings.HasPrefix(buf.String(), "\n Phosphorylating S-7\n"))
}

func TestWriteScore(t *testing.T) {
	var buf bytes.Buffer
	r := score.Result{Score: 310, BCount: 8, YCount: 13, MassDiff: -0.01}
	require.NoError(t, WriteScore(&buf, "RDLPVpYEDAASFK", r))
	assert.Equal(t, "Sequence:       RDLPVpYEDAASFK, Score =  310 ( 8, 13) Mass Diff: -0.01\n", buf.String())
}

func TestWriteCandidates(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, &search.Result{}))
	assert.Equal(t, "Candidates:\nFailed to find any candidates\n", buf.String())

	p := core.MustParseSequence("RDLPVpYEDAASFK")
	res := &search.Result{Candidates: []search.Candidate{{
		Sequence: p.Sequence(),
		Peptide:  p,
		MZ2:      p.ChargedMass(2) / 2,
	}}}
	buf.Reset()
	require.NoError(t, WriteCandidates(&buf, res))
	assert.Contains(t, buf.String(), "  Seq - RDLPVpYEDAASFK\n")
	assert.Contains(t, buf.String(), "  (M + 2H)++ = ")
}
