package provider

import (
	"slices"
	"strings"
)

// Descriptor is the static description of a backend.
type Descriptor struct {
	Key                 Backend  `json:"key"`
	Name                string   `json:"name"`
	RequiresCredential  bool     `json:"requires_credential"`
	Free                bool     `json:"free"`
	GenerationModels    []string `json:"generation_models"`
	TranscriptionModels []string `json:"transcription_models"`
}

// Models returns the catalog for a capability.
func (d Descriptor) Models(c Capability) []string {
	switch c {
	case CapabilityGeneration:
		return d.GenerationModels
	case CapabilityTranscription:
		return d.TranscriptionModels
	default:
		return nil
	}
}

// Supports reports whether the backend offers the capability.
func (d Descriptor) Supports(c Capability) bool {
	return len(d.Models(c)) > 0
}

// HasModel reports whether model is in the catalog for the capability.
func (d Descriptor) HasModel(c Capability, model string) bool {
	return slices.Contains(d.Models(c), model)
}

// DefaultModel returns the first catalog entry for the capability, or "" when
// the capability is not supported.
func (d Descriptor) DefaultModel(c Capability) string {
	models := d.Models(c)
	if len(models) == 0 {
		return ""
	}
	return models[0]
}

// registry is populated once and never mutated. The first model of each list
// is the default.
var registry = map[Backend]Descriptor{
	BackendOpenAI: {
		Key:                 BackendOpenAI,
		Name:                "OpenAI",
		RequiresCredential:  true,
		Free:                false,
		GenerationModels:    []string{"gpt-3.5-turbo", "gpt-4", "gpt-4-turbo"},
		TranscriptionModels: []string{"whisper-1"},
	},
	BackendGroq: {
		Key:                 BackendGroq,
		Name:                "Groq",
		RequiresCredential:  true,
		Free:                true,
		GenerationModels:    []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant", "gemma2-9b-it"},
		TranscriptionModels: []string{"whisper-large-v3"},
	},
	BackendGemini: {
		Key:                 BackendGemini,
		Name:                "Google Gemini",
		RequiresCredential:  true,
		Free:                true,
		GenerationModels:    []string{"gemini-2.0-flash", "gemini-1.5-pro", "gemini-1.5-flash"},
		TranscriptionModels: []string{"gemini-2.0-flash", "gemini-1.5-pro", "gemini-1.5-flash"},
	},
}

// Lookup returns the descriptor for key. Keys are matched case-insensitively
// after trimming spaces. An unknown key returns the zero Descriptor and false.
func Lookup(key string) (Descriptor, bool) {
	d, ok := registry[Backend(strings.ToLower(strings.TrimSpace(key)))]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// ParseBackend resolves key to a Backend, failing with ErrUnknownProvider.
func ParseBackend(key string) (Backend, error) {
	d, ok := Lookup(key)
	if !ok {
		return "", NewError(KindPrecondition, Backend(key), StageLookup, ErrUnknownProvider)
	}
	return d.Key, nil
}

// Keys returns the supported backend keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, string(k))
	}
	slices.Sort(keys)
	return keys
}

// All returns every descriptor ordered by key.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, k := range Keys() {
		out = append(out, registry[Backend(k)].clone())
	}
	return out
}

// clone keeps callers from mutating the shared catalog slices.
func (d Descriptor) clone() Descriptor {
	d.GenerationModels = slices.Clone(d.GenerationModels)
	d.TranscriptionModels = slices.Clone(d.TranscriptionModels)
	return d
}
