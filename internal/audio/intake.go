package audio

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// DefaultMaxFileSizeMB is the upload limit of the remote transcription APIs.
const DefaultMaxFileSizeMB = 25

var supportedFormats = []string{".mp3", ".wav", ".m4a", ".mp4", ".mpeg", ".mpga", ".webm"}

// SupportedFormats returns the accepted file extensions.
func SupportedFormats() []string {
	return slices.Clone(supportedFormats)
}

// IsSupported reports whether name has an accepted extension. The check is
// case-insensitive.
func IsSupported(name string) bool {
	return slices.Contains(supportedFormats, strings.ToLower(filepath.Ext(name)))
}

// IntakeConfig configures an Intake.
type IntakeConfig struct {
	TempDir string
	// MaxFileSizeBytes of zero selects DefaultMaxFileSizeMB.
	MaxFileSizeBytes int64
}

// SavedFile describes an upload written to the temp directory.
type SavedFile struct {
	Path         string `json:"-"`
	OriginalName string `json:"name"`
	Size         int64  `json:"size"`
	// Digest is the hex BLAKE2b-256 of the file contents.
	Digest string `json:"digest"`
}

// Intake stores uploads in a temp directory.
type Intake struct {
	tempDir  string
	maxBytes int64
	logger   *slog.Logger
}

// NewIntake creates the temp directory if needed.
func NewIntake(cfg IntakeConfig, logger *slog.Logger) (*Intake, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}
	if cfg.TempDir == "" {
		return nil, fmt.Errorf("%w: temp dir cannot be empty", ErrInvalidConfig)
	}
	if cfg.MaxFileSizeBytes < 0 {
		return nil, fmt.Errorf("%w: negative size limit", ErrInvalidConfig)
	}
	if cfg.MaxFileSizeBytes == 0 {
		cfg.MaxFileSizeBytes = DefaultMaxFileSizeMB << 20
	}
	if err := os.MkdirAll(cfg.TempDir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: create temp dir: %w", ErrInvalidConfig, err)
	}

	return &Intake{
		tempDir:  cfg.TempDir,
		maxBytes: cfg.MaxFileSizeBytes,
		logger:   logger.With("component", "audio_intake"),
	}, nil
}

// MaxFileSize returns the size limit in bytes.
func (i *Intake) MaxFileSize() int64 {
	return i.maxBytes
}

// Save checks the extension, then the declared size, then streams r to disk.
// size may be -1 when unknown; the limit is enforced while copying either way.
func (i *Intake) Save(name string, size int64, r io.Reader) (*SavedFile, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if !IsSupported(base) {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat,
			filepath.Ext(base), strings.Join(supportedFormats, ", "))
	}
	if size > i.maxBytes {
		return nil, i.tooLarge(size)
	}

	path := filepath.Join(i.tempDir, uuid.NewString()+"_"+base)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	hash, err := blake2b.New256(nil)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("init digest: %w", err)
	}

	written, copyErr := io.Copy(io.MultiWriter(f, hash), io.LimitReader(r, i.maxBytes+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return nil, fmt.Errorf("write temp file: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(path)
		return nil, fmt.Errorf("close temp file: %w", closeErr)
	case written > i.maxBytes:
		_ = os.Remove(path)
		return nil, i.tooLarge(written)
	case written == 0:
		_ = os.Remove(path)
		return nil, ErrEmptyFile
	}

	saved := &SavedFile{
		Path:         path,
		OriginalName: base,
		Size:         written,
		Digest:       hex.EncodeToString(hash.Sum(nil)),
	}
	i.logger.Debug("audio saved", "name", base, "size", written, "digest", saved.Digest)
	return saved, nil
}

func (i *Intake) tooLarge(size int64) error {
	return fmt.Errorf("%w: %.2f MB exceeds the %.0f MB limit", ErrFileTooLarge,
		float64(size)/(1<<20), float64(i.maxBytes)/(1<<20))
}

// Validate checks that path is a regular file with a supported extension
// within the size limit.
func (i *Intake) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: not a regular file", ErrFileNotFound)
	}
	if !IsSupported(path) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if info.Size() > i.maxBytes {
		return i.tooLarge(info.Size())
	}
	return nil
}

// Cleanup removes a saved file. A file that is already gone is not an error.
func (i *Intake) Cleanup(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		i.logger.Warn("could not delete temp file", "error", err)
		return err
	}
	return nil
}

// CleanupAll removes every regular file in the temp directory and returns how
// many were deleted.
func (i *Intake) CleanupAll() (int, error) {
	entries, err := os.ReadDir(i.tempDir)
	if err != nil {
		return 0, fmt.Errorf("read temp dir: %w", err)
	}

	removed := 0
	var errs []error
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := i.Cleanup(filepath.Join(i.tempDir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
