package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/lecturenotes/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// countingServer records the number of requests and delegates to handler.
func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestClient(t *testing.T, backend provider.Backend, baseURL, model string) *Client {
	t.Helper()
	c, err := New(Config{Backend: backend, APIKey: "test-key", Model: model, BaseURL: baseURL}, testLogger())
	require.NoError(t, err)
	return c
}

func chatResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8},
	})
	return string(body)
}

func writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("ID3fake-audio"), 0o600))
	return path
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Backend: provider.BackendOpenAI, APIKey: "k", Model: "m"}, nil)
	assert.ErrorIs(t, err, ErrNilLogger)

	_, err = New(Config{Backend: provider.BackendGemini, APIKey: "k", Model: "m"}, testLogger())
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
	assert.True(t, provider.IsKind(err, provider.KindPrecondition))

	_, err = New(Config{Backend: provider.BackendGroq, APIKey: "  ", Model: "m"}, testLogger())
	assert.ErrorIs(t, err, provider.ErrMissingCredential)

	_, err = New(Config{Backend: provider.BackendGroq, APIKey: "k"}, testLogger())
	assert.ErrorIs(t, err, provider.ErrUnsupportedModel)
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    provider.Role   `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
	}
	var authHeader, path string
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		authHeader = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatResponse("Q1: ..."))
	})

	c := newTestClient(t, provider.BackendGroq, srv.URL, "llama-3.3-70b-versatile")
	text, err := c.Generate(context.Background(), provider.GenerationRequest{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: "make a quiz"},
			{Role: provider.RoleUser, Content: "transcript"},
			{Role: provider.RoleAssistant, Content: "earlier answer"},
		},
		MaxTokens:   4000,
		Temperature: 0.7,
	})

	require.NoError(t, err)
	assert.Equal(t, "Q1: ...", text)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "Bearer test-key", authHeader)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	assert.Equal(t, 4000, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, provider.RoleSystem, got.Messages[0].Role)
	assert.Contains(t, string(got.Messages[1].Content), "transcript")
	assert.Equal(t, provider.RoleAssistant, got.Messages[2].Role)
}

func TestGenerate_PreconditionsMakeNoCall(t *testing.T) {
	t.Parallel()

	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, chatResponse("unused"))
	})
	c := newTestClient(t, provider.BackendOpenAI, srv.URL, "gpt-4")

	tests := []struct {
		name    string
		req     provider.GenerationRequest
		wantErr error
	}{
		{"empty messages", provider.GenerationRequest{Temperature: 0.7}, provider.ErrEmptyMessages},
		{"bad temperature", provider.GenerationRequest{
			Messages:    []provider.Message{{Role: provider.RoleUser, Content: "x"}},
			Temperature: 3,
		}, provider.ErrInvalidTemperature},
		{"bad role", provider.GenerationRequest{
			Messages: []provider.Message{{Role: "function", Content: "x"}},
		}, provider.ErrInvalidRole},
	}

	for _, tc := range tests {
		_, err := c.Generate(context.Background(), tc.req)
		require.Error(t, err, tc.name)
		assert.ErrorIs(t, err, tc.wantErr, tc.name)
		assert.True(t, provider.IsKind(err, provider.KindPrecondition), tc.name)
	}
	assert.Equal(t, int32(0), hits.Load())
}

func TestGenerate_BackendErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		status        int
		body          string
		wantRetryable bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`, false},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit"}}`, true},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			c := newTestClient(t, provider.BackendOpenAI, srv.URL, "gpt-4")

			_, err := c.Generate(context.Background(), provider.GenerationRequest{
				Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
			})

			require.Error(t, err)
			var pe *provider.Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, provider.KindBackendRejected, pe.Kind)
			assert.Equal(t, provider.BackendOpenAI, pe.Provider)
			assert.Equal(t, provider.StageGenerate, pe.Stage)
			assert.Equal(t, tc.status, pe.StatusCode)
			assert.Equal(t, tc.wantRetryable, pe.Retryable())
			assert.Equal(t, int32(1), hits.Load(), "no retries")
		})
	}
}

func TestGenerate_EmptyCompletion(t *testing.T) {
	t.Parallel()

	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatResponse(""))
	})
	c := newTestClient(t, provider.BackendOpenAI, srv.URL, "gpt-4")

	_, err := c.Generate(context.Background(), provider.GenerationRequest{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
	})
	assert.ErrorIs(t, err, provider.ErrEmptyResponse)
	assert.True(t, provider.IsKind(err, provider.KindBackendRejected))
}

func TestGenerate_Transport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, provider.BackendGroq, url, "gemma2-9b-it")
	_, err := c.Generate(context.Background(), provider.GenerationRequest{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
	})

	var pe *provider.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, provider.KindTransport, pe.Kind)
	assert.True(t, pe.Retryable())
}

// readMultipart returns the form values and the uploaded file name of a
// transcription request.
func readMultipart(t *testing.T, r *http.Request) (map[string][]string, string) {
	t.Helper()
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !assert.NoError(t, err) {
		return nil, ""
	}

	mr := multipart.NewReader(r.Body, params["boundary"])
	values := map[string][]string{}
	var fileName string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if !assert.NoError(t, err) {
			break
		}
		data, _ := io.ReadAll(part)
		if part.FormName() == "file" {
			fileName = part.FileName()
			continue
		}
		values[part.FormName()] = append(values[part.FormName()], string(data))
	}
	return values, fileName
}

func TestTranscribe_Success(t *testing.T) {
	t.Parallel()

	var form map[string][]string
	var fileName, path string
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		form, fileName = readMultipart(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"The mitochondria is the powerhouse of the cell."}`)
	})
	c := newTestClient(t, provider.BackendGroq, srv.URL, "whisper-large-v3")

	text, err := c.Transcribe(context.Background(), provider.TranscriptionRequest{
		AudioPath: writeAudio(t, "lecture.mp3"),
		Language:  "en",
	})

	require.NoError(t, err)
	assert.Equal(t, "The mitochondria is the powerhouse of the cell.", text)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "/audio/transcriptions", path)
	assert.Equal(t, "lecture.mp3", fileName)
	assert.Equal(t, []string{"whisper-large-v3"}, form["model"])
	assert.Equal(t, []string{"en"}, form["language"])
	assert.Equal(t, []string{"json"}, form["response_format"])
}

func TestTranscribe_ModelOverride(t *testing.T) {
	t.Parallel()

	var form map[string][]string
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		form, _ = readMultipart(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"ok"}`)
	})
	c := newTestClient(t, provider.BackendOpenAI, srv.URL, "whisper-1")

	_, err := c.Transcribe(context.Background(), provider.TranscriptionRequest{
		AudioPath: writeAudio(t, "a.wav"),
		Model:     "whisper-2",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"whisper-2"}, form["model"])
	assert.NotContains(t, form, "language")
}

func TestTranscribe_MissingFileMakesNoCall(t *testing.T) {
	t.Parallel()

	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"text":"unused"}`)
	})
	c := newTestClient(t, provider.BackendOpenAI, srv.URL, "whisper-1")

	_, err := c.Transcribe(context.Background(), provider.TranscriptionRequest{
		AudioPath: filepath.Join(t.TempDir(), "missing.mp3"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, provider.IsKind(err, provider.KindPrecondition))
	assert.Equal(t, int32(0), hits.Load())
}

func TestTranscribeSegments(t *testing.T) {
	t.Parallel()

	var form map[string][]string
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		form, _ = readMultipart(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"task": "transcribe",
			"language": "english",
			"duration": 4.2,
			"text": "Hello class. Today we cover cells.",
			"segments": [
				{"id": 0, "start": 0.0, "end": 1.5, "text": " Hello class.", "avg_logprob": -0.2},
				{"id": 1, "start": 1.5, "end": 4.2, "text": " Today we cover cells."}
			]
		}`)
	})
	c := newTestClient(t, provider.BackendGroq, srv.URL, "whisper-large-v3")

	segments, err := c.TranscribeSegments(context.Background(), provider.TranscriptionRequest{
		AudioPath: writeAudio(t, "lecture.m4a"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"verbose_json"}, form["response_format"])
	assert.Contains(t, granularities(form), "segment")
	require.Len(t, segments, 2)
	assert.Equal(t, provider.Segment{Start: 0, End: 1.5, Text: " Hello class."}, segments[0])
	assert.InDelta(t, 4.2, segments[1].End, 1e-9)
}

// granularities collects the timestamp granularity values regardless of how the
// array is encoded in the form.
func granularities(form map[string][]string) []string {
	var out []string
	for k, v := range form {
		if strings.HasPrefix(k, "timestamp_granularities") {
			out = append(out, v...)
		}
	}
	return out
}

func TestParseSegments_Malformed(t *testing.T) {
	t.Parallel()

	_, err := parseSegments(`{"text":"no segments here"}`)
	assert.ErrorIs(t, err, ErrMalformedSegments)

	segments, err := parseSegments(`{"segments":[]}`)
	require.NoError(t, err)
	assert.Empty(t, segments)
}
