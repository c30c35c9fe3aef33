package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/lecturenotes/internal/provider"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models the adapter uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Config configures a Client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client is a provider.Generator and provider.Transcriber backed by Gemini.
type Client struct {
	model  string
	models contentGenerator
	logger *slog.Logger
}

var (
	_ provider.Generator   = (*Client)(nil)
	_ provider.Transcriber = (*Client)(nil)
)

// New creates a Gemini client. Creating the SDK client does not contact the API.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, provider.NewError(provider.KindPrecondition, provider.BackendGemini,
			provider.StageConfigure, provider.ErrMissingCredential)
	}
	if cfg.Model == "" {
		return nil, provider.NewError(provider.KindPrecondition, provider.BackendGemini,
			provider.StageConfigure, provider.ErrUnsupportedModel)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, provider.NewError(provider.KindPrecondition, provider.BackendGemini,
			provider.StageConfigure, fmt.Errorf("create genai client: %w", err))
	}

	return newClient(client.Models, cfg.Model, logger), nil
}

func newClient(models contentGenerator, model string, logger *slog.Logger) *Client {
	return &Client{
		model:  model,
		models: models,
		logger: logger.With("component", "gemini_client", "provider", string(provider.BackendGemini)),
	}
}

// Model returns the model the client was constructed with.
func (c *Client) Model() string {
	return c.model
}

// call issues exactly one GenerateContent request and extracts its text.
func (c *Client) call(
	ctx context.Context,
	stage provider.Stage,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (string, error) {
	resp, err := c.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", classify(stage, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", provider.NewError(provider.KindBackendRejected, provider.BackendGemini, stage, err)
	}
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: %s", ErrContentBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", provider.ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", provider.ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", provider.ErrEmptyResponse
	}
	return b.String(), nil
}

// classify maps SDK errors to provider error kinds. An APIError means the
// backend answered; anything else is treated as a transport failure.
func classify(stage provider.Stage, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &provider.Error{
			Kind:       provider.KindBackendRejected,
			Provider:   provider.BackendGemini,
			Stage:      stage,
			StatusCode: apiErr.Code,
			Err:        err,
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &provider.Error{
			Kind:       provider.KindBackendRejected,
			Provider:   provider.BackendGemini,
			Stage:      stage,
			StatusCode: apiErrPtr.Code,
			Err:        err,
		}
	}
	return provider.NewError(provider.KindTransport, provider.BackendGemini, stage, err)
}
