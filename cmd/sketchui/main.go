// Sketchui renders UI descriptions in the terminal and edits them live.
//
// A description is the JSON a describer service produces from a sketch or
// wireframe image: a named screen made of sections of typed elements. The
// editor draws it as a themed mock-up, lets the operator select elements
// with the keyboard or mouse and change their fields, and streams every
// change to a browser preview.
//
// Usage:
//
//	sketchui [command] [flags]
//
// Running without a command opens the editor, like 'sketchui edit'.
// See 'sketchui --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/sketchui/internal/config"
	"github.com/muurk/sketchui/internal/logging"
	"github.com/muurk/sketchui/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	logLevel   string
	logFile    string
)

// registry is the loaded configuration, set before any command runs.
var registry = config.NewRegistry()

var rootCmd = &cobra.Command{
	Use:   "sketchui [file]",
	Short: "Sketch-to-UI Renderer and Live Editor",
	Long: `Render UI descriptions produced from sketches and edit them live.

A describer service turns a sketch or wireframe image into a JSON
description. sketchui draws that description as a themed mock-up in the
terminal, lets you select and edit elements, and streams every change to
a browser preview.

If no command is specified, the editor opens on the given file, or on an
empty screen.`,
	Version:           version.Version,
	Args:              cobra.MaximumNArgs(1),
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: per-user config directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	addEditFlags(rootCmd)

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the config file and starts logging. Flags win over the file.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		registry, err = config.LoadFrom(configPath)
	} else {
		registry, err = config.LoadRegistry()
	}
	if err != nil {
		return err
	}
	return initLogging(registry.Preferences.LogLevel, registry.Preferences.LogFile)
}

func initLogging(level, file string) error {
	if logLevel != "" {
		level = logLevel
	}
	if logFile != "" {
		file = logFile
	}
	if err := logging.Initialize(logging.Options{Level: level, File: file}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sketchui %s\n", version.Full())
	},
}
