package openai

import (
	"context"
	"fmt"
	"io"
	"os"

	oai "github.com/openai/openai-go"
	"github.com/phrazzld/lecturenotes/internal/provider"
	"github.com/tidwall/gjson"
)

// Transcribe uploads the audio file and returns the plain transcript.
func (c *Client) Transcribe(ctx context.Context, req provider.TranscriptionRequest) (text string, err error) {
	f, params, err := c.transcriptionParams(req)
	if err != nil {
		return "", err
	}
	defer f.Close()
	params.ResponseFormat = oai.F(oai.AudioResponseFormatJSON)

	model := params.Model.Value
	ctx, span := provider.StartSpan(ctx, c.backend, provider.StageTranscribe, string(model))
	defer func() { provider.EndSpan(span, err) }()

	c.logger.DebugContext(ctx, "sending transcription", "model", model, "language", req.Language)

	resp, err := c.sdk.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", c.classify(provider.StageTranscribe, err)
	}
	return resp.Text, nil
}

// TranscribeSegments requests verbose output with segment timestamps.
func (c *Client) TranscribeSegments(ctx context.Context, req provider.TranscriptionRequest) (segments []provider.Segment, err error) {
	f, params, err := c.transcriptionParams(req)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	params.ResponseFormat = oai.F(oai.AudioResponseFormatVerboseJSON)
	params.TimestampGranularities = oai.F([]oai.AudioTranscriptionNewParamsTimestampGranularity{
		oai.AudioTranscriptionNewParamsTimestampGranularitySegment,
	})

	model := params.Model.Value
	ctx, span := provider.StartSpan(ctx, c.backend, provider.StageTranscribe, string(model))
	defer func() { provider.EndSpan(span, err) }()

	c.logger.DebugContext(ctx, "sending timestamped transcription", "model", model, "language", req.Language)

	resp, err := c.sdk.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, c.classify(provider.StageTranscribe, err)
	}

	segments, err = parseSegments(resp.JSON.RawJSON())
	if err != nil {
		return nil, provider.NewError(provider.KindBackendRejected, c.backend, provider.StageTranscribe, err)
	}
	return segments, nil
}

// transcriptionParams opens the audio file before anything touches the network.
func (c *Client) transcriptionParams(req provider.TranscriptionRequest) (*os.File, oai.AudioTranscriptionNewParams, error) {
	f, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, oai.AudioTranscriptionNewParams{},
			provider.NewError(provider.KindPrecondition, c.backend, provider.StageTranscribe,
				fmt.Errorf("open audio: %w", err))
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	params := oai.AudioTranscriptionNewParams{
		File:  oai.F[io.Reader](f),
		Model: oai.F(oai.AudioModel(model)),
	}
	if req.Language != "" {
		params.Language = oai.F(req.Language)
	}
	return f, params, nil
}

// parseSegments reads the segments array of a verbose_json body. Fields other
// than start, end and text are ignored.
func parseSegments(raw string) ([]provider.Segment, error) {
	result := gjson.Get(raw, "segments")
	if !result.IsArray() {
		return nil, ErrMalformedSegments
	}

	arr := result.Array()
	segments := make([]provider.Segment, 0, len(arr))
	for _, s := range arr {
		segments = append(segments, provider.Segment{
			Start: s.Get("start").Float(),
			End:   s.Get("end").Float(),
			Text:  s.Get("text").String(),
		})
	}
	return segments, nil
}
