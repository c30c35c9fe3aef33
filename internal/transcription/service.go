package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/lecturenotes/internal/provider"
	"github.com/phrazzld/lecturenotes/internal/redact"
)

// DefaultLanguage is the language hint used when none is configured.
const DefaultLanguage = "en"

// Service transcribes audio files through a single backend.
type Service struct {
	backend  provider.Transcriber
	provider provider.Backend
	language string
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLanguage sets the default language hint. An empty value keeps DefaultLanguage.
func WithLanguage(lang string) Option {
	return func(s *Service) {
		if lang != "" {
			s.language = lang
		}
	}
}

// WithProvider records which backend the service talks to, for error annotation.
func WithProvider(b provider.Backend) Option {
	return func(s *Service) {
		s.provider = b
	}
}

// NewService creates a Service.
func NewService(backend provider.Transcriber, logger *slog.Logger, opts ...Option) (*Service, error) {
	if backend == nil {
		return nil, ErrNilTranscriber
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	s := &Service{
		backend:  backend,
		language: DefaultLanguage,
		logger:   logger.With("component", "transcription_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Language returns the default language hint.
func (s *Service) Language() string {
	return s.language
}

// Transcribe returns the transcript of one audio file.
func (s *Service) Transcribe(ctx context.Context, req provider.TranscriptionRequest) (string, error) {
	req, err := s.prepare(req)
	if err != nil {
		return "", err
	}

	text, err := s.backend.Transcribe(ctx, req)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "audio transcribed", "characters", len(text), "language", req.Language)
	return text, nil
}

// TranscribeSegments returns time-aligned segments for one audio file.
func (s *Service) TranscribeSegments(ctx context.Context, req provider.TranscriptionRequest) ([]provider.Segment, error) {
	req, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	segments, err := s.backend.TranscribeSegments(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "audio transcribed with timestamps", "segments", len(segments))
	return segments, nil
}

// ChunkFailure describes one chunk that could not be transcribed.
type ChunkFailure struct {
	Index int    `json:"index"`
	Path  string `json:"-"`
	Err   error  `json:"-"`
}

func (f ChunkFailure) Error() string {
	return fmt.Sprintf("chunk %d: %v", f.Index, f.Err)
}

// ChunkedTranscript is the result of TranscribeChunks.
type ChunkedTranscript struct {
	// Text is the space-joined text of the successful chunks, in input order.
	Text string
	// Transcribed is the number of chunks that succeeded.
	Transcribed int
	Failures    []ChunkFailure

	provider provider.Backend
}

// Err returns a KindPartialFailure error naming the failed chunks, or nil
// when every chunk succeeded.
func (c *ChunkedTranscript) Err() error {
	if c == nil || len(c.Failures) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(c.Failures))
	for _, f := range c.Failures {
		msgs = append(msgs, redact.String(f.Error()))
	}
	return provider.NewError(provider.KindPartialFailure, c.provider, provider.StageTranscribe,
		fmt.Errorf("%d of %d chunks failed: %s", len(c.Failures), len(c.Failures)+c.Transcribed,
			strings.Join(msgs, "; ")))
}

// TranscribeChunks transcribes each path in order. A chunk that fails is
// logged and skipped; its failure is recorded on the result and never
// returned as the call's error. The call fails only when there is nothing to
// transcribe, every chunk failed, or ctx is done.
func (s *Service) TranscribeChunks(ctx context.Context, paths []string, language string) (*ChunkedTranscript, error) {
	if len(paths) == 0 {
		return nil, provider.NewError(provider.KindPrecondition, s.provider, provider.StageTranscribe, ErrNoChunks)
	}

	result := &ChunkedTranscript{provider: s.provider}
	texts := make([]string, 0, len(paths))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, provider.NewError(provider.KindTransport, s.provider, provider.StageTranscribe, err)
		}

		text, err := s.Transcribe(ctx, provider.TranscriptionRequest{AudioPath: path, Language: language})
		if err != nil {
			s.logger.WarnContext(ctx, "skipping chunk that failed to transcribe",
				"chunk_index", i,
				"chunk_count", len(paths),
				"error", redact.Error(err))
			result.Failures = append(result.Failures, ChunkFailure{Index: i, Path: path, Err: err})
			continue
		}

		texts = append(texts, text)
		result.Transcribed++
	}

	if result.Transcribed == 0 {
		return result, provider.NewError(provider.KindPartialFailure, s.provider, provider.StageTranscribe,
			fmt.Errorf("%w: %w", ErrAllChunksFailed, result.Failures[0].Err))
	}

	result.Text = strings.Join(texts, " ")
	return result, nil
}

// prepare applies defaults and checks that the file can be opened, so a bad
// path never reaches the network.
func (s *Service) prepare(req provider.TranscriptionRequest) (provider.TranscriptionRequest, error) {
	info, err := os.Stat(req.AudioPath)
	if err != nil || info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is a directory", req.AudioPath)
		}
		return req, provider.NewError(provider.KindPrecondition, s.provider, provider.StageTranscribe,
			fmt.Errorf("%w: %w", ErrFileNotFound, err))
	}

	f, err := os.Open(req.AudioPath)
	if err != nil {
		return req, provider.NewError(provider.KindPrecondition, s.provider, provider.StageTranscribe,
			fmt.Errorf("%w: %w", ErrFileNotFound, err))
	}
	_ = f.Close()

	if req.Language == "" {
		req.Language = s.language
	}
	return req, nil
}
