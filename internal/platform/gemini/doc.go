// Package gemini implements the generation and transcription capabilities on
// top of Google's Gemini API.
//
// Chat messages are translated to Gemini contents: system messages become the
// system instruction, user messages keep the user role and assistant messages
// take the model role. Transcription sends the audio file inline with an
// instruction to transcribe it, so any Gemini model that accepts audio input can
// be used for both capabilities.
//
// The adapter talks to the API through the narrow contentGenerator interface,
// which *genai.Models satisfies. Tests supply a fake in its place.
package gemini
