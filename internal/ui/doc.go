// Package ui renders the one-shot terminal output of the sketchui commands.
//
// Interactive editing lives in the tui package. The components here render
// once and print: a command header, a step list for multi-step operations, a
// success, failure or warning box, and plain tables for listings.
//
// # Usage Pattern
//
// Multi-step commands use a Runner:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Describe Image",
//	    Command:   "sketchui upload login.png",
//	    Params:    []ui.Detail{{Key: "Describer", Value: url}},
//	    StepNames: []string{"Read image", "Describe", "Stamp ids"},
//	})
//
//	err := runner.Run(func(onStep ui.StepCallback) ([]ui.Detail, error) {
//	    onStep(1, "", ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, "", ui.StepComplete, "12 KB")
//	    return nil, nil
//	})
//
// Simple commands print through a Printer.
//
// # Logging Integration
//
// Logging is controlled by SKETCHUI_LOG_LEVEL or --log-level. When unset,
// zap is silent so the styled output is the only thing on the terminal.
package ui
