package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Spectrum is an observed fragment spectrum plus the precursor it came from.
type Spectrum struct {
	Peaks    []float64 // Observed ion masses in Da
	Margin   float64   // Half-width of each tolerance window in Da
	TargetMZ float64   // Precursor m/z, 0 when unknown
	Charge   int       // Precursor charge state
}

// MassRange is a closed interval of masses.
type MassRange struct {
	Low  float64
	High float64
}

// Contains reports whether m lies in the range, bounds included.
func (r MassRange) Contains(m float64) bool {
	return r.Low <= m && m <= r.High
}

// ValidationError represents an error found during spectrum validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Validate checks that the spectrum can be matched against.
func (s *Spectrum) Validate() error {
	var errs []string

	if len(s.Peaks) == 0 {
		errs = append(errs, "at least one peak is required")
	}
	if math.IsNaN(s.Margin) || s.Margin < 0 {
		errs = append(errs, "margin must be non-negative")
	}
	if s.TargetMZ < 0 || math.IsNaN(s.TargetMZ) {
		errs = append(errs, "target m/z must be non-negative")
	}
	if s.TargetMZ > 0 && s.Charge <= 0 {
		errs = append(errs, "charge must be positive")
	}

	for i, m := range s.Peaks {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid mass", i))
		} else if m <= 0 {
			errs = append(errs, fmt.Sprintf("peak %d mass must be positive", i))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "Spectrum",
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}

// ArePeaksSorted checks if peaks are sorted in ascending order.
func (s *Spectrum) ArePeaksSorted() bool {
	return sort.Float64sAreSorted(s.Peaks)
}

// SortPeaks sorts peaks in ascending order.
func (s *Spectrum) SortPeaks() {
	sort.Float64s(s.Peaks)
}

// Windows derives one tolerance window per peak.
func (s *Spectrum) Windows() []MassRange {
	return Windows(s.Peaks, s.Margin)
}

// Windows builds [m-margin, m+margin] for every mass.
func Windows(masses []float64, margin float64) []MassRange {
	out := make([]MassRange, len(masses))
	for i, m := range masses {
		out[i] = MassRange{Low: m - margin, High: m + margin}
	}
	return out
}

// TargetNeutralMass returns the precursor neutral mass under table t.
func (s *Spectrum) TargetNeutralMass(t *MassTable) float64 {
	return t.TargetNeutralMass(s.TargetMZ, s.Charge)
}
