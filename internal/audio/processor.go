package audio

import (
	"fmt"
	"log/slog"
	"os"
)

// Processor prepares a saved recording for transcription.
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{logger: logger.With("component", "audio_processor")}
}

// Process returns the path to transcribe. It is currently the input path
// unchanged; the file must exist.
func (p *Processor) Process(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: is a directory", ErrFileNotFound)
	}
	p.logger.Debug("audio processed", "size", info.Size())
	return path, nil
}
