package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spiffcs/pulse/cmd"
	"github.com/spiffcs/pulse/internal/constants"
)

// Set via -ldflags "-X main.version=... -X main.commit=... -X main.date=..."
var (
	version string
	commit  string
	date    string
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.New().Execute(); err != nil {
		if errors.Is(err, cmd.ErrAllClear) {
			os.Exit(constants.ExitAllClear)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(constants.ExitError)
	}
}
