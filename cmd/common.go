package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"renimg/pkg/config"
)

func validateAndResolvePath(targetDir string) (string, error) {
	// Validate directory exists.
	info, err := os.Stat(targetDir)
	if err != nil {
		return "", fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", targetDir)
	}

	// Convert to absolute path.
	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path: %w", err)
	}

	return absPath, nil
}

// loadSettings merges the config file with the flags set on cmd. A flag
// given on the command line always wins.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("preview") || cfg.Preview == "" {
		cfg.Preview = previewMode
	}
	if flags.Changed("viewer") {
		cfg.Viewer = viewer
	}
	if flags.Changed("strict-names") {
		cfg.StrictNames = strictNames
	}
	if flags.Changed("strict-decode") {
		cfg.StrictDecode = strictDecode
	}

	return cfg, nil
}

func newLogger(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix: "renimg",
		Level:  level,
	})
}

func printSummary(w io.Writer, lines ...string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Summary ===")
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
