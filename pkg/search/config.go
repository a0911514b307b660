package search

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/ChrisMcGann/PepScore/pkg/core"
)

// Config drives one search run.
type Config struct {
	Table      *core.MassTable  // nil uses the default table
	Windows    []core.MassRange // tolerance windows of the observed spectrum
	TargetMass float64          // neutral precursor mass

	// Alphabet holds the residue codes tried at each enumerated position.
	// An empty string is a blank filler that lets shorter sequences through.
	Alphabet   []string
	SeedLength int    // residues per enumerated block
	Anchor     string // fixed prefix placed before every extension
	TieWindow  int    // scores within this distance of the max are retained
	Workers    int    // scoring goroutines, 0 means GOMAXPROCS

	Logger *slog.Logger
}

// DefaultAlphabet returns every amino acid of t, the phosphorylated form of
// each code in phospho, and optionally the blank filler.
func DefaultAlphabet(t *core.MassTable, phospho []byte, includeBlank bool) []string {
	var out []string
	for _, aa := range t.AminoAcids() {
		out = append(out, string(aa))
	}
	for _, aa := range phospho {
		out = append(out, string([]byte{core.Phospho, aa}))
	}
	if includeBlank {
		out = append(out, "")
	}
	return out
}

// token is one alphabet entry resolved against the mass table.
type token struct {
	residue core.Residue
	blank   bool
}

func (c *Config) setDefaults() {
	if c.Table == nil {
		c.Table = core.DefaultMassTable()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Logger == nil {
		c.Logger = slog.Default().With("service", "search")
	}
}

func (c *Config) tokens() ([]token, error) {
	if len(c.Alphabet) == 0 {
		return nil, fmt.Errorf("alphabet is empty")
	}
	out := make([]token, len(c.Alphabet))
	for i, code := range c.Alphabet {
		if code == "" {
			out[i] = token{blank: true}
			continue
		}
		r, err := c.Table.ParseResidue(code)
		if err != nil {
			return nil, fmt.Errorf("alphabet entry %d: %w", i, err)
		}
		out[i] = token{residue: r}
	}
	return out, nil
}

func (c *Config) validate() error {
	if c.SeedLength < 1 {
		return fmt.Errorf("seed length must be at least 1, got %d", c.SeedLength)
	}
	if c.TieWindow < 0 {
		return fmt.Errorf("tie window must be non-negative, got %d", c.TieWindow)
	}
	if len(c.Windows) == 0 {
		return fmt.Errorf("no tolerance windows to match against")
	}
	return nil
}
