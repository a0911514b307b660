// Package report renders ion tables, candidate scores and search results as
// plain text tables.
package report

import (
	"fmt"
	"io"

	"github.com/ChrisMcGann/PepScore/pkg/match"
	"github.com/ChrisMcGann/PepScore/pkg/score"
	"github.com/ChrisMcGann/PepScore/pkg/search"
)

// WriteIonTable prints one row per position. A '*' in front of a mass marks
// each charge state (1+ then 2+) that fell inside a tolerance window.
func WriteIonTable(w io.Writer, t match.Table) error {
	if _, err := fmt.Fprintf(w, "%10s | %12s | %12s\n", "Num Res.", "b+ ion", "y+ ion"); err != nil {
		return err
	}
	for _, row := range t.Rows {
		_, err := fmt.Fprintf(w, "%10d | %2s%10.2f | %2s%10.2f\n",
			row.Position, stars(row.BSingle, row.BDouble), row.B,
			stars(row.YSingle, row.YDouble), row.Y)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%10s   %12d | %12d   = %d\n\n", "N Match. :", t.BCount, t.YCount, t.Total())
	return err
}

func stars(single, double bool) string {
	s := ""
	if single {
		s += "*"
	}
	if double {
		s += "*"
	}
	return s
}

// WriteSite prints the heading and ion table of one phosphorylation site.
func WriteSite(w io.Writer, site search.SiteReport) error {
	if _, err := fmt.Fprintf(w, "\n Phosphorylating %c-%d\n", site.AminoAcid, site.Position+1); err != nil {
		return err
	}
	return WriteIonTable(w, site.Table)
}

// WriteScore prints a one-line score summary for a sequence.
func WriteScore(w io.Writer, sequence string, r score.Result) error {
	_, err := fmt.Fprintf(w, "Sequence: %20s, Score = %4d (%2d, %2d) Mass Diff: %5.2f\n",
		sequence, r.Score, r.BCount, r.YCount, r.MassDiff)
	return err
}

// WriteCandidates prints the accepted candidates of a search with their
// doubly protonated m/z.
func WriteCandidates(w io.Writer, res *search.Result) error {
	if _, err := fmt.Fprintln(w, "Candidates:"); err != nil {
		return err
	}
	if !res.Found() {
		_, err := fmt.Fprintln(w, "Failed to find any candidates")
		return err
	}
	for _, c := range res.Candidates {
		if _, err := fmt.Fprintf(w, "  Seq - %s\n", c.Sequence); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  (M + 2H)++ = %10.2f\n", c.MZ2); err != nil {
			return err
		}
	}
	return nil
}
