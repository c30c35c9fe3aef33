// Package transcription wraps a provider.Transcriber with the checks and
// defaults every caller needs: the audio file must exist before a request is
// sent, a default language hint is applied, and multi-part recordings can be
// transcribed chunk by chunk with failed chunks reported rather than fatal.
package transcription
