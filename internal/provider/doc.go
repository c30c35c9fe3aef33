// Package provider describes the remote AI backends the application can talk to
// and the capability interfaces every backend adapter implements.
//
// The registry is static and read-only. It is built at process start from a closed
// set of backends (openai, groq, gemini), each with its generation and
// transcription model catalogs. Adapters live under internal/platform and are
// constructed through internal/platform/backend, which switches exhaustively over
// Backend.
//
// All adapter failures are reported as *Error values carrying one of a small set
// of kinds, so callers can distinguish local precondition failures from transport
// problems and from rejections by the remote service.
package provider
