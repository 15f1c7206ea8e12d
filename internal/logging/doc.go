// Package logging assembles structured slog loggers used across voltctl.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides a no-op logger for tests and wiring code that cannot
// fail. Command output goes to stdout; log records default to stderr and an
// optional file so they never interleave with readings scripts parse.
package logging
