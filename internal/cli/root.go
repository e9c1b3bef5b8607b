// Package cli provides the command-line interface for palettecam.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/palettecam/internal/version"
)

// Environment variables that provide flag defaults.
const (
	envAlgorithm = "PALETTECAM_ALGORITHM"
	envSwatches  = "PALETTECAM_SWATCHES"
)

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "palettecam",
		Short: "Extract live colour palettes from camera frames",
		Long: `palettecam extracts a small, visually representative colour palette from
images and video frames, the way a camera preview does: median-cut
quantization or grid sampling, multi-criteria scoring, dominant colour
clustering and frame-to-frame smoothing. Session palettes can be recorded to
SQLite and inspected later.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// newLogger builds the command logger from the global verbosity flags.
func newLogger(cmd *cobra.Command) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	level := hclog.Warn
	switch {
	case quiet:
		level = hclog.Off
	case verbose:
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "palettecam",
		Output: cmd.ErrOrStderr(),
		Level:  level,
	})
}

// envString returns the value of key, or fallback when unset.
func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt returns the integer value of key, or fallback when unset or invalid.
func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
