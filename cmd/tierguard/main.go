package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Both outcomes have already been reported on stdout.
		if !errors.Is(err, ErrVerificationFailed) && !errors.Is(err, ErrEnvironmentUnhealthy) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
