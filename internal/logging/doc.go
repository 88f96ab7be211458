// Package logging builds the slog loggers used across Freedify.
//
// Two output formats are supported: a compact console format for interactive
// use (timestamp, level, component prefix, key=value pairs) and standard JSON
// for log shippers. Attribute helpers mirror the slog constructors so call
// sites stay terse, and context plumbing carries request correlation IDs into
// every handler log line.
package logging
