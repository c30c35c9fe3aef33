// Package config loads lecturenotes settings from defaults, an optional YAML
// file, a .env file, environment variables and command-line flags, then
// validates the result.
//
// Environment variables use the LECTURENOTES_ prefix with dots replaced by
// underscores, for example LECTURENOTES_GENERATION_PROVIDER. The unprefixed
// names OPENAI_API_KEY, GROQ_API_KEY, GEMINI_API_KEY, DEFAULT_PROVIDER and
// DEFAULT_TRANSCRIPTION_PROVIDER are honoured as fallbacks.
package config
