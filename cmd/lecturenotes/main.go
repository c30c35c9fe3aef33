// Command lecturenotes transcribes local lecture recordings and writes the
// transcript, notes, quiz and flashcards to an output directory.
//
// Usage:
//
//	lecturenotes [flags] <audio files...>
//
// Several files are treated as consecutive parts of one lecture. Every flag
// maps to the same configuration key the server reads, so config files and
// LECTURENOTES_* variables apply here too.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
