// Package testutils holds helpers shared by tests across packages: a
// recording slog handler for asserting on log output and small fixtures for
// audio files.
package testutils
