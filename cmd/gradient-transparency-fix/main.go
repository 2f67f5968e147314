// Command gradient-transparency-fix rewrites CSS gradients that fade through
// `transparent`, in files, on stdin, or as a language server.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// --check has already reported the files
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
