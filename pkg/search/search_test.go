package search

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/PepScore/pkg/core"
	"github.com/ChrisMcGann/PepScore/pkg/score"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ionWindows turns every non-zero ion of the target into a tolerance window.
func ionWindows(t *testing.T, target string, margin float64) []core.MassRange {
	t.Helper()
	p := core.MustParseSequence(target)
	var masses []float64
	for _, ion := range p.AllIons() {
		if ion.B > 0 {
			masses = append(masses, ion.B)
		}
		if ion.Y > 0 {
			masses = append(masses, ion.Y)
		}
	}
	return core.Windows(masses, margin)
}

func glycineConfig(t *testing.T, targetOffset float64) Config {
	target := "RH" + strings.Repeat("G", 11)
	return Config{
		Windows:    ionWindows(t, target, 0.02),
		TargetMass: core.MustParseSequence(target).NeutralMass() + targetOffset,
		Alphabet:   []string{"G", ""},
		SeedLength: 4,
		Anchor:     "RH",
		TieWindow:  1,
		Workers:    2,
		Logger:     quietLogger,
	}
}

func TestRunFindsCandidate(t *testing.T) {
	res, err := Run(context.Background(), glycineConfig(t, 0))
	require.NoError(t, err)

	assert.Equal(t, []string{"GGG"}, res.Seeds)
	assert.Equal(t, 20, res.SeedScore)
	assert.Equal(t, 3, res.Rounds)

	require.True(t, res.Found())
	require.Len(t, res.Candidates, 1)
	c := res.Candidates[0]
	assert.Equal(t, "RH"+strings.Repeat("G", 11), c.Sequence)
	assert.True(t, c.Result.Accepted)
	assert.Equal(t, 230, c.Result.Score)
	assert.InDelta(t, c.Peptide.ChargedMass(2)/2, c.MZ2, 1e-9)
}

func TestRunNoCandidates(t *testing.T) {
	res, err := Run(context.Background(), glycineConfig(t, 30))
	require.NoError(t, err)

	assert.False(t, res.Found())
	assert.Empty(t, res.Candidates)
	assert.Equal(t, 4, res.Rounds)
}

func TestRunIsIndependentOfWorkers(t *testing.T) {
	base := Config{
		Windows:    ionWindows(t, "RHGApSGASK", 0.015),
		TargetMass: core.MustParseSequence("RHGApSGASK").NeutralMass(),
		Alphabet:   []string{"G", "A", "pS", "K", ""},
		SeedLength: 3,
		Anchor:     "RH",
		TieWindow:  1,
		Logger:     quietLogger,
	}

	summarise := func(r *Result) []string {
		out := append([]string(nil), r.Seeds...)
		for _, c := range r.Candidates {
			out = append(out, c.Sequence)
		}
		return out
	}

	serial := base
	serial.Workers = 1
	want, err := Run(context.Background(), serial)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8} {
		cfg := base
		cfg.Workers = workers
		got, err := Run(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, summarise(want), summarise(got), "workers=%d", workers)
		assert.Equal(t, want.SeedScore, got.SeedScore)
		assert.Equal(t, want.Rounds, got.Rounds)
	}
}

func TestRunConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad alphabet entry", func(c *Config) { c.Alphabet = []string{"G", "B"} }},
		{"empty alphabet", func(c *Config) { c.Alphabet = nil }},
		{"bad anchor", func(c *Config) { c.Anchor = "RX" }},
		{"zero seed length", func(c *Config) { c.SeedLength = 0 }},
		{"negative tie window", func(c *Config) { c.TieWindow = -1 }},
		{"no windows", func(c *Config) { c.Windows = nil }},
		{"enumeration too large", func(c *Config) {
			c.Alphabet = DefaultAlphabet(core.DefaultMassTable(), []byte("RSY"), true)
			c.SeedLength = 8
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := glycineConfig(t, 0)
			tt.mutate(&cfg)
			res, err := Run(context.Background(), cfg)
			assert.Error(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := glycineConfig(t, 0)
	cfg.Workers = 1
	_, err := Run(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultAlphabet(t *testing.T) {
	alphabet := DefaultAlphabet(core.DefaultMassTable(), []byte("RSY"), true)
	require.Len(t, alphabet, 24)
	assert.Equal(t, "A", alphabet[0])
	assert.Equal(t, "V", alphabet[19])
	assert.Equal(t, []string{"pR", "pS", "pY", ""}, alphabet[20:])

	assert.Len(t, DefaultAlphabet(core.DefaultMassTable(), nil, false), 20)
}

func TestTracker(t *testing.T) {
	tr := tracker{window: 1}
	raised := []bool{}
	for idx, s := range []int{5, 5, 6, 4, 6, 7, 6} {
		raised = append(raised, tr.observe(idx, s))
	}

	assert.Equal(t, 7, tr.max)
	assert.Equal(t, []int{5, 6}, tr.retained)
	assert.Equal(t, []bool{false, false, true, false, false, true, false}, raised)
}

func TestTrackerZeroWindow(t *testing.T) {
	tr := tracker{}
	for idx, s := range []int{3, 2, 3, 4, 4, 3} {
		tr.observe(idx, s)
	}
	assert.Equal(t, 4, tr.max)
	assert.Equal(t, []int{3, 4}, tr.retained)
}

func TestDropFirstUnique(t *testing.T) {
	got := dropFirstUnique([]string{"GGGG", "AGGG", "pYSK", "SK", "", "G"})
	assert.Equal(t, []string{"GGG", "YSK", "K", ""}, got)
}

func TestEnumerationOrder(t *testing.T) {
	cfg := glycineConfig(t, 0)
	cfg.Alphabet = []string{"G", "A", ""}
	cfg.SeedLength = 2
	cfg.setDefaults()
	tokens, err := cfg.tokens()
	require.NoError(t, err)

	s := &searcher{cfg: cfg, tokens: tokens, total: 9}
	var texts []string
	for idx := 0; idx < s.total; idx++ {
		texts = append(texts, s.blockText(idx))
	}
	assert.Equal(t, []string{"GG", "GA", "G", "AG", "AA", "A", "G", "A", ""}, texts)
}

func TestAcceptedRetained(t *testing.T) {
	accepted := map[int]score.Result{
		3: {Score: 140, Accepted: true},
		7: {Score: 130, Accepted: true},
		9: {Score: 139, Accepted: true},
	}

	tests := []struct {
		name     string
		retained []int
		want     []int
	}{
		{"accepted outside retained set dropped", []int{3, 5}, []int{3}},
		{"retained order kept", []int{9, 3}, []int{9, 3}},
		{"duplicate retained index once", []int{3, 3, 9}, []int{3, 9}},
		{"none accepted", []int{1, 2}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, acceptedRetained(tt.retained, accepted))
		})
	}
}

func TestScoreAllReducesInIndexOrder(t *testing.T) {
	cfg := glycineConfig(t, 0)
	cfg.Alphabet = []string{"G", "A", "S", "P", "V", "T", "C", "L", "N", "D", "Q", "K", "E", "M", "H", "F", ""}
	cfg.Workers = 3
	cfg.setDefaults()
	tokens, err := cfg.tokens()
	require.NoError(t, err)

	s := &searcher{cfg: cfg, tokens: tokens, total: 17 * 17 * 17 * 17, log: quietLogger}
	require.Greater(t, s.total, scoreBatch, "needs more than one batch")

	build := func(idx int, buf []core.Residue) []core.Residue {
		return s.block(idx, buf[:0])
	}
	next := 0
	err = s.scoreAll(context.Background(), build, func(idx int, r score.Result) {
		if idx != next {
			t.Fatalf("reduced index %d, want %d", idx, next)
		}
		next++
	})
	require.NoError(t, err)
	assert.Equal(t, s.total, next)
}
