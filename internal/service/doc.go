// Package service contains the application use cases. LectureService turns a
// lecture request into a stored job, saves its audio, resolves the backends
// it asks for and hands the work to the background task runner. It also
// offers one-shot artifact generation from an existing transcript.
//
// Services receive their dependencies through constructor injection and
// translate lower-level errors into the sentinel values declared in
// errors.go, which the API layer maps to HTTP status codes.
package service
