// Package logging constructs slog loggers for the daemon and CLI.
//
// Two output formats are supported: a compact console format for
// interactive use and JSON for log files and machine consumption.
// Helpers mirror the slog attr constructors so call sites stay short.
package logging
