// Package openai implements the generation and transcription capabilities for
// backends that speak the OpenAI HTTP API. It serves both OpenAI itself and Groq,
// whose API is OpenAI-compatible under a different base URL.
//
// The SDK's automatic retries are disabled: each Generate or Transcribe call
// results in exactly one HTTP request.
package openai
