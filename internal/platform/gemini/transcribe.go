package gemini

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/lecturenotes/internal/provider"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

const (
	transcribeInstruction = "Transcribe this audio recording verbatim. " +
		"Return only the transcript text, without commentary or formatting."

	segmentsInstruction = "Transcribe this audio recording verbatim. " +
		"Return a JSON array of segments in spoken order. Each segment is an object with " +
		`"start" and "end" (seconds from the beginning, as numbers) and "text".`
)

// audioMIMETypes lists the inline audio types Gemini accepts for the
// extensions intake allows.
var audioMIMETypes = map[string]string{
	".mp3":  "audio/mp3",
	".mpga": "audio/mpeg",
	".mpeg": "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".aac":  "audio/aac",
}

// Transcribe sends the audio inline and asks for a plain transcript.
func (c *Client) Transcribe(ctx context.Context, req provider.TranscriptionRequest) (text string, err error) {
	contents, model, err := c.audioContents(req, transcribeInstruction)
	if err != nil {
		return "", err
	}

	ctx, span := provider.StartSpan(ctx, provider.BackendGemini, provider.StageTranscribe, model)
	defer func() { provider.EndSpan(span, err) }()

	c.logger.DebugContext(ctx, "sending audio transcription", "model", model, "language", req.Language)

	return c.call(ctx, provider.StageTranscribe, model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
}

// TranscribeSegments asks for a JSON array of timed segments. Gemini does not
// return native timestamps; the times are the model's own estimate.
func (c *Client) TranscribeSegments(ctx context.Context, req provider.TranscriptionRequest) (segments []provider.Segment, err error) {
	contents, model, err := c.audioContents(req, segmentsInstruction)
	if err != nil {
		return nil, err
	}

	ctx, span := provider.StartSpan(ctx, provider.BackendGemini, provider.StageTranscribe, model)
	defer func() { provider.EndSpan(span, err) }()

	c.logger.DebugContext(ctx, "sending timestamped audio transcription", "model", model, "language", req.Language)

	raw, err := c.call(ctx, provider.StageTranscribe, model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	segments, err = parseSegments(raw)
	if err != nil {
		return nil, provider.NewError(provider.KindBackendRejected, provider.BackendGemini, provider.StageTranscribe, err)
	}
	return segments, nil
}

// audioContents reads the file before any network call and builds the
// single user turn carrying the audio and the instruction.
func (c *Client) audioContents(req provider.TranscriptionRequest, instruction string) ([]*genai.Content, string, error) {
	mimeType, ok := audioMIMETypes[strings.ToLower(filepath.Ext(req.AudioPath))]
	if !ok {
		return nil, "", provider.NewError(provider.KindPrecondition, provider.BackendGemini, provider.StageTranscribe,
			fmt.Errorf("%w: %s", ErrUnsupportedAudio, filepath.Ext(req.AudioPath)))
	}

	data, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, "", provider.NewError(provider.KindPrecondition, provider.BackendGemini, provider.StageTranscribe,
			fmt.Errorf("read audio: %w", err))
	}

	if req.Language != "" {
		instruction += fmt.Sprintf(" The recording is in the language with ISO-639-1 code %q.", req.Language)
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(instruction),
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, model, nil
}

// parseSegments accepts either a bare array or an object with a segments field.
func parseSegments(raw string) ([]provider.Segment, error) {
	result := gjson.Parse(raw)
	if !result.IsArray() {
		result = result.Get("segments")
	}
	if !result.IsArray() {
		return nil, ErrMalformedSegments
	}

	arr := result.Array()
	segments := make([]provider.Segment, 0, len(arr))
	var prevEnd float64
	for _, s := range arr {
		seg := provider.Segment{Text: s.Get("text").String()}
		seg.Start, seg.End = estimateTimes(s, prevEnd, seg.Text)
		segments = append(segments, seg)
		prevEnd = seg.End
	}
	return segments, nil
}

// secondsPerWord approximates lecture speech at 150 words per minute.
const secondsPerWord = 0.4

// estimateTimes fills in times the model left out. A missing start follows
// the previous segment; a missing or non-increasing end is derived from the
// word count.
func estimateTimes(s gjson.Result, prevEnd float64, text string) (float64, float64) {
	start := prevEnd
	if v := s.Get("start"); v.Exists() {
		start = v.Float()
	}

	if v := s.Get("end"); v.Exists() && v.Float() > start {
		return start, v.Float()
	}
	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	return start, start + float64(words)*secondsPerWord
}
