// Package logger configures the process-wide slog logger: JSON output at the
// configured level, with every message and string attribute passed through
// the redact package before it is written.
package logger
