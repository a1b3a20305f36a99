// Command primecalc counts primes and sums sequences in parallel using
// interleaved range partitioning.
package main

import (
	"context"
	"os"

	"github.com/agbru/primecalc/internal/app"
	apperrors "github.com/agbru/primecalc/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
