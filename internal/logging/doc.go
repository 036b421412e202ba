// Package logging provides structured logging for sketchui.
//
// This package wraps a global zap logger with convenience functions for the
// events the editor cares about: ingestion, edits, selection, theme switches
// and preview clients.
//
// # Silent By Default
//
// Logging is off unless a level is given, either through Options or the
// SKETCHUI_LOG_LEVEL environment variable. The interactive canvas draws on
// stdout, so logs go to stderr or, preferably, to a file:
//
//	if err := logging.Initialize(logging.Options{Level: "debug", File: "/tmp/sketchui.log"}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Structured Logging
//
//	logging.Info("Describer discovered",
//	    zap.String("host", svc.Host),
//	    zap.Int("port", svc.Port),
//	)
//
// All functions are safe for concurrent use.
package logging
