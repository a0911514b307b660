// Package search narrows candidate peptide sequences for an observed spectrum
// by enumerating residue blocks and keeping the best scoring ones.
//
// The seed phase scores every block of SeedLength residues on its own. The
// extension phase places the anchor, a new block and the current seed in
// that order, rescoring the whole peptide, and grows the seed until a
// candidate agrees with the precursor mass or no block improves the score.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ChrisMcGann/PepScore/pkg/core"
	"github.com/ChrisMcGann/PepScore/pkg/score"
)

const (
	// maxEnumeration bounds alphabet^SeedLength.
	maxEnumeration = 1 << 26
	// scoreBatch is how many indexes are scored before reducing.
	scoreBatch = 1 << 16
)

// Candidate is a full sequence that agreed with the precursor mass.
type Candidate struct {
	Sequence string
	Peptide  *core.Peptide
	Result   score.Result
	// MZ2 is the doubly protonated m/z, (M + 2H) / 2.
	MZ2 float64
}

// Result summarises a search run.
type Result struct {
	Seeds      []string // normalised seeds from the seed phase
	SeedScore  int      // best seed phase score
	Rounds     int      // extension rounds across all seeds
	Candidates []Candidate
}

// Found reports whether any candidate was accepted.
func (r *Result) Found() bool {
	return len(r.Candidates) > 0
}

type searcher struct {
	cfg    Config
	tokens []token
	anchor *core.Peptide
	total  int
	log    *slog.Logger
}

// Run executes both search phases. It only fails on invalid configuration or
// context cancellation; finding nothing is a valid empty result.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid search config: %w", err)
	}

	tokens, err := cfg.tokens()
	if err != nil {
		return nil, fmt.Errorf("invalid search config: %w", err)
	}
	anchor, err := cfg.Table.ParseSequence(cfg.Anchor)
	if err != nil {
		return nil, fmt.Errorf("invalid anchor %q: %w", cfg.Anchor, err)
	}

	total := math.Pow(float64(len(tokens)), float64(cfg.SeedLength))
	if total > maxEnumeration {
		return nil, fmt.Errorf("alphabet of %d entries at seed length %d gives %.0f combinations, limit is %d",
			len(tokens), cfg.SeedLength, total, maxEnumeration)
	}

	s := &searcher{
		cfg:    cfg,
		tokens: tokens,
		anchor: anchor,
		total:  int(total),
		log:    cfg.Logger,
	}
	return s.run(ctx)
}

func (s *searcher) run(ctx context.Context) (*Result, error) {
	res := &Result{}

	seeds, seedScore, err := s.seedPhase(ctx)
	if err != nil {
		return nil, err
	}
	res.Seeds = seeds
	res.SeedScore = seedScore
	s.log.Info("seed phase complete",
		"combinations", s.total,
		"best_score", seedScore,
		"seeds", len(seeds))

	found := make(map[string]int)
	for _, seedText := range seeds {
		if err := s.extendSeed(ctx, seedText, seedScore, res, found); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(res.Candidates, func(i, j int) bool {
		return res.Candidates[i].Result.Score > res.Candidates[j].Result.Score
	})
	return res, nil
}

// seedPhase scores every block alone and returns the retained sequences with
// their first character dropped.
func (s *searcher) seedPhase(ctx context.Context) ([]string, int, error) {
	build := func(idx int, buf []core.Residue) []core.Residue {
		return s.block(idx, buf[:0])
	}

	tr := tracker{window: s.cfg.TieWindow}
	err := s.scoreAll(ctx, build, func(idx int, r score.Result) {
		if tr.observe(idx, r.Score) {
			s.log.Debug("new best seed", "sequence", s.blockText(idx), "score", r.Score)
		}
	})
	if err != nil {
		return nil, 0, err
	}

	texts := make([]string, 0, len(tr.retained))
	for _, idx := range tr.retained {
		texts = append(texts, s.blockText(idx))
	}
	return dropFirstUnique(texts), tr.max, nil
}

// extendSeed runs extension rounds for one seed. On improvement the retained
// extensions become the fallback list and the first of them the new seed;
// otherwise the next fallback entry is tried until the list runs out.
func (s *searcher) extendSeed(ctx context.Context, seedText string, best int, res *Result, found map[string]int) error {
	seed, err := s.cfg.Table.ParseSequence(seedText)
	if err != nil {
		return fmt.Errorf("seed %q: %w", seedText, err)
	}

	var fallback []string
	next := 0
	for {
		rr, err := s.round(ctx, seed)
		if err != nil {
			return err
		}
		res.Rounds++

		for _, c := range rr.accepted {
			if _, dup := found[c.Sequence]; dup {
				continue
			}
			found[c.Sequence] = len(res.Candidates)
			res.Candidates = append(res.Candidates, c)
			s.log.Info("candidate found",
				"sequence", c.Sequence,
				"score", c.Result.Score,
				"mass_diff", c.Result.MassDiff,
				"mz2", c.MZ2)
		}

		s.log.Debug("extension round",
			"seed", seed.Sequence(),
			"round_best", rr.max,
			"best", best,
			"retained", len(rr.retained))

		var nextText string
		if rr.max > best {
			best = rr.max
			fallback = dropFirstUnique(rr.retained)
			next = 0
			nextText = fallback[0]
		} else {
			next++
			if next >= len(fallback) {
				return nil
			}
			nextText = fallback[next]
		}

		if len(rr.accepted) > 0 {
			return nil
		}

		seed, err = s.cfg.Table.ParseSequence(nextText)
		if err != nil {
			return fmt.Errorf("seed %q: %w", nextText, err)
		}
	}
}

type roundResult struct {
	max      int
	retained []string // block plus seed, anchor excluded
	accepted []Candidate
}

// round scores anchor+block+seed for every block.
func (s *searcher) round(ctx context.Context, seed *core.Peptide) (roundResult, error) {
	anchor := s.anchor.Residues()
	tail := seed.Residues()
	build := func(idx int, buf []core.Residue) []core.Residue {
		buf = append(buf[:0], anchor...)
		buf = s.block(idx, buf)
		return append(buf, tail...)
	}

	tr := tracker{window: s.cfg.TieWindow}
	accepted := make(map[int]score.Result)
	err := s.scoreAll(ctx, build, func(idx int, r score.Result) {
		if tr.observe(idx, r.Score) {
			s.log.Debug("new best extension", "sequence", s.blockText(idx)+seed.Sequence(), "score", r.Score)
		}
		if r.Accepted {
			accepted[idx] = r
		}
	})
	if err != nil {
		return roundResult{}, err
	}

	rr := roundResult{max: tr.max}
	var buf []core.Residue
	for _, idx := range acceptedRetained(tr.retained, accepted) {
		buf = build(idx, buf)
		p := s.cfg.Table.NewPeptide(buf...)
		rr.accepted = append(rr.accepted, Candidate{
			Sequence: p.Sequence(),
			Peptide:  p,
			Result:   accepted[idx],
			MZ2:      p.ChargedMass(2) / 2,
		})
	}

	seedText := seed.Sequence()
	for _, idx := range tr.retained {
		rr.retained = append(rr.retained, s.blockText(idx)+seedText)
	}
	return rr, nil
}

// acceptedRetained returns the retained indexes whose score was accepted,
// once each, in retained order. Accepted scores that fell out of the
// retained set are not candidates.
func acceptedRetained(retained []int, accepted map[int]score.Result) []int {
	seen := make(map[int]bool, len(retained))
	var out []int
	for _, idx := range retained {
		if _, ok := accepted[idx]; !ok || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}

// scoreAll scores every enumeration index and feeds the results to reduce
// in index order. Scoring runs in parallel over batches of scoreBatch
// indexes, so memory stays bounded and the reduction is independent of
// scheduling.
func (s *searcher) scoreAll(ctx context.Context, build func(int, []core.Residue) []core.Residue, reduce func(int, score.Result)) error {
	batch := make([]score.Result, min(scoreBatch, s.total))
	for base := 0; base < s.total; base += len(batch) {
		out := batch[:min(len(batch), s.total-base)]
		if err := s.scoreRange(ctx, build, base, out); err != nil {
			return err
		}
		for i, r := range out {
			reduce(base+i, r)
		}
	}
	return nil
}

// scoreRange scores indexes base..base+len(out) into out.
func (s *searcher) scoreRange(ctx context.Context, build func(int, []core.Residue) []core.Residue, base int, out []score.Result) error {
	workers := min(s.cfg.Workers, len(out))
	chunk := (len(out) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(out); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(out))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf []core.Residue
			for i := lo; i < hi; i++ {
				buf = build(base+i, buf)
				p := s.cfg.Table.NewPeptide(buf...)
				out[i] = score.Score(p, s.cfg.Windows, s.cfg.TargetMass)
			}
			return nil
		})
	}
	return g.Wait()
}

// digits decodes idx into alphabet positions, last position varying fastest.
func (s *searcher) digits(idx int) []int {
	k := len(s.tokens)
	d := make([]int, s.cfg.SeedLength)
	for pos := len(d) - 1; pos >= 0; pos-- {
		d[pos] = idx % k
		idx /= k
	}
	return d
}

// block appends the residues of enumeration index idx to buf.
func (s *searcher) block(idx int, buf []core.Residue) []core.Residue {
	for _, d := range s.digits(idx) {
		if t := s.tokens[d]; !t.blank {
			buf = append(buf, t.residue)
		}
	}
	return buf
}

func (s *searcher) blockText(idx int) string {
	var text string
	for _, d := range s.digits(idx) {
		if t := s.tokens[d]; !t.blank {
			text += t.residue.Code()
		}
	}
	return text
}

// tracker keeps the enumeration indexes scoring within window of the running
// maximum. A strictly higher score replaces everything retained so far.
type tracker struct {
	window   int
	started  bool
	max      int
	retained []int
}

// observe feeds one score and reports whether it raised the maximum.
func (t *tracker) observe(idx, s int) bool {
	if !t.started {
		t.started = true
		t.max = s
		t.retained = []int{idx}
	}
	if abs(s-t.max) <= t.window {
		t.retained = append(t.retained, idx)
	}
	if s > t.max {
		t.retained = []int{idx}
		t.max = s
		return true
	}
	return false
}

// dropFirstUnique drops the first character of every text and removes
// duplicates, keeping first-seen order.
func dropFirstUnique(texts []string) []string {
	seen := make(map[string]bool, len(texts))
	var out []string
	for _, t := range texts {
		if len(t) > 0 {
			t = t[1:]
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
