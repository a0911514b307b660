package search

import (
	"fmt"
	"strings"

	"github.com/ChrisMcGann/PepScore/pkg/core"
	"github.com/ChrisMcGann/PepScore/pkg/match"
)

// SiteReport is the ion table of a peptide phosphorylated at one position.
type SiteReport struct {
	Position  int  // 0-based residue index
	AminoAcid byte // residue that was phosphorylated
	Sequence  string
	Table     match.Table
}

// ScanSites phosphorylates, one at a time, every residue whose amino acid is
// in residues and tabulates the ion matches. The scan runs on a private copy,
// so p is returned unchanged.
func ScanSites(p *core.Peptide, residues []byte, windows []core.MassRange) ([]SiteReport, error) {
	work := p.Clone()
	var reports []SiteReport
	for i := 0; i < work.Len(); i++ {
		aa := work.Residue(i).AminoAcid()
		if !strings.ContainsRune(string(residues), rune(aa)) {
			continue
		}

		if err := work.Phosphorylate(i); err != nil {
			return nil, fmt.Errorf("site %c-%d: %w", aa, i+1, err)
		}
		reports = append(reports, SiteReport{
			Position:  i,
			AminoAcid: aa,
			Sequence:  work.Sequence(),
			Table:     match.Tabulate(work, windows),
		})
		work.ClearMods()
	}
	return reports, nil
}
