// Package pipeline runs a lecture job end to end: save the upload, pass it
// through the audio processor, transcribe it, then generate the requested
// artifacts from the transcript.
//
// Every stage failure is caught at the stage boundary and recorded on the
// Result. Work that already completed is kept. A failed transcription skips
// the artifact stages; a failed artifact never affects its siblings.
package pipeline
