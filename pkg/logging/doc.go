// Package logging provides structured logging utilities shared by all
// cellgate components.
//
// It wraps the standard library slog package with project defaults: JSON
// output to stderr, a LOG_LEVEL environment override, module/version
// context on every record, and source location tracking when the level is
// debug.
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("cellgated", version)
//	    slog.Info("notebook loaded", "path", path, "cells", n)
//	}
//
// Setting an explicit level, e.g. from a --log-level flag:
//
//	logging.SetDefaultStructuredLoggerWithLevel("cellgate", version, "debug")
//
// If LOG_LEVEL is not set and no explicit level is given, the level
// defaults to INFO. Supported levels (case-insensitive): debug, info,
// warn/warning, error.
package logging
