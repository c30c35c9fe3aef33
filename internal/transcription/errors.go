package transcription

import "errors"

var (
	// ErrFileNotFound is returned when the audio path does not name a readable file.
	ErrFileNotFound = errors.New("audio file not found")

	// ErrNoChunks is returned by TranscribeChunks when no paths are given.
	ErrNoChunks = errors.New("no audio chunks to transcribe")

	// ErrAllChunksFailed is returned by TranscribeChunks when every chunk failed.
	ErrAllChunksFailed = errors.New("every audio chunk failed to transcribe")

	// ErrNilTranscriber is returned when the service is built without a backend.
	ErrNilTranscriber = errors.New("transcriber cannot be nil")

	// ErrNilLogger is returned when the service is built without a logger.
	ErrNilLogger = errors.New("logger cannot be nil")
)
