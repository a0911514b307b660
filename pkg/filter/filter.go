// Package filter provides observed peak preprocessing before tolerance
// windows are built.
package filter

import (
	"fmt"

	"github.com/ChrisMcGann/PepScore/pkg/core"
)

// Config holds filtering configuration
type Config struct {
	MinMass float64 // Drop peaks below this mass (0 = no lower bound)
	MaxMass float64 // Drop peaks above this mass (0 = no upper bound)
}

// Apply applies all configured filters to a spectrum
func (c *Config) Apply(spec *core.Spectrum) error {
	if c.MaxMass != 0 && c.MaxMass < c.MinMass {
		return fmt.Errorf("max mass %.4f is below min mass %.4f", c.MaxMass, c.MinMass)
	}

	RemoveNonPositivePeaks(spec)

	if c.MinMass > 0 || c.MaxMass > 0 {
		c.filterByMass(spec)
	}

	// Ensure peaks are sorted after all filtering
	if !spec.ArePeaksSorted() {
		spec.SortPeaks()
	}
	removeDuplicates(spec)

	return nil
}

// filterByMass keeps peaks inside [MinMass, MaxMass]
func (c *Config) filterByMass(spec *core.Spectrum) {
	var filtered []float64
	for _, m := range spec.Peaks {
		if c.MinMass > 0 && m < c.MinMass {
			continue
		}
		if c.MaxMass > 0 && m > c.MaxMass {
			continue
		}
		filtered = append(filtered, m)
	}
	spec.Peaks = filtered
}

// removeDuplicates drops repeated masses from sorted peaks
func removeDuplicates(spec *core.Spectrum) {
	if len(spec.Peaks) < 2 {
		return
	}
	out := spec.Peaks[:1]
	for _, m := range spec.Peaks[1:] {
		if m != out[len(out)-1] {
			out = append(out, m)
		}
	}
	spec.Peaks = out
}

// RemoveNonPositivePeaks removes peaks with zero or negative mass
func RemoveNonPositivePeaks(spec *core.Spectrum) {
	var filtered []float64
	for _, m := range spec.Peaks {
		if m > 0 {
			filtered = append(filtered, m)
		}
	}
	spec.Peaks = filtered
}
