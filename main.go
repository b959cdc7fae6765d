package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/akshat1136/sage/internal/build"
	"github.com/akshat1136/sage/internal/cmd"
	"github.com/akshat1136/sage/internal/matrix"
	"github.com/akshat1136/sage/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	rootCmd := cmd.NewRootCmd(build.Version, build.Date)
	_, err := rootCmd.ExecuteC()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	statePath, stateErr := update.DefaultStatePath()
	if stateErr != nil {
		fmt.Fprintf(os.Stderr, "warning: update check: %v\n", stateErr)
		return nil
	}

	result, checkErr := update.CheckForUpdate(ctx, statePath, build.Version, "akshat1136/sage")
	if checkErr != nil {
		// Update check is best-effort; don't fail the CLI for transient errors.
		return nil
	}
	if result == nil || !result.UpdateAvailable {
		return nil
	}

	fmt.Fprintf(os.Stderr, "\nA new sage-matrix release is available: %s (current %s)\n%s\n",
		result.LatestVersion, result.CurrentVersion, result.ReleaseURL)
	return nil
}

// exitCode maps resolver failures onto distinct exit codes so matrix drivers
// can tell a bad request from a failed build.
func exitCode(err error) int {
	switch {
	case errors.Is(err, matrix.ErrMalformedName):
		return 2
	case errors.Is(err, matrix.ErrUnknownEnvironment):
		return 3
	case errors.Is(err, matrix.ErrMissingRequiredVariable):
		return 4
	}
	return 1
}
