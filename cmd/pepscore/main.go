// PepScore - peptide fragment scoring and sequence search
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/PepScore/cmd/pepscore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
