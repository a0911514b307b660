package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LoadTableCSV merges amino acid and modification entries from a CSV into cfg.
// The first line is a header; each following line is "kind,code,mass" where
// kind is "aa" or "mod". Existing entries with the same code are replaced.
func LoadTableCSV(r io.Reader, cfg *TableConfig) error {
	if cfg.AminoAcids == nil {
		cfg.AminoAcids = make(map[string]float64)
	}
	if cfg.Modifications == nil {
		cfg.Modifications = make(map[string]float64)
	}

	scanner := bufio.NewScanner(r)

	// Skip header line
	scanner.Scan()

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			return fmt.Errorf("line %d: invalid format, expected 3 comma-separated fields", lineNum)
		}

		kind := strings.ToLower(strings.TrimSpace(parts[0]))
		code := strings.TrimSpace(parts[1])
		massStr := strings.TrimSpace(parts[2])

		mass, err := strconv.ParseFloat(massStr, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid mass value '%s': %w", lineNum, massStr, err)
		}

		switch kind {
		case "aa":
			cfg.AminoAcids[code] = mass
		case "mod":
			cfg.Modifications[code] = mass
		default:
			return fmt.Errorf("line %d: unknown entry kind '%s', expected aa or mod", lineNum, kind)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading CSV: %w", err)
	}

	return nil
}
