package openai

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/phrazzld/lecturenotes/internal/provider"
)

// GroqBaseURL is the OpenAI-compatible endpoint of Groq.
const GroqBaseURL = "https://api.groq.com/openai/v1/"

// Config configures a Client.
type Config struct {
	Backend provider.Backend
	APIKey  string
	Model   string
	// BaseURL overrides the backend default endpoint.
	BaseURL string
	Timeout time.Duration
	// HTTPClient replaces the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is a provider.Generator and provider.Transcriber backed by the
// OpenAI SDK.
type Client struct {
	backend provider.Backend
	model   string
	sdk     *oai.Client
	logger  *slog.Logger
}

var (
	_ provider.Generator   = (*Client)(nil)
	_ provider.Transcriber = (*Client)(nil)
)

// New builds a Client. It performs no network calls.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	if cfg.Backend != provider.BackendOpenAI && cfg.Backend != provider.BackendGroq {
		return nil, provider.NewError(provider.KindPrecondition, cfg.Backend, provider.StageConfigure,
			fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Backend))
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, provider.NewError(provider.KindPrecondition, cfg.Backend, provider.StageConfigure,
			provider.ErrMissingCredential)
	}
	if cfg.Model == "" {
		return nil, provider.NewError(provider.KindPrecondition, cfg.Backend, provider.StageConfigure,
			provider.ErrUnsupportedModel)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" && cfg.Backend == provider.BackendGroq {
		baseURL = GroqBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		backend: cfg.Backend,
		model:   cfg.Model,
		sdk:     oai.NewClient(opts...),
		logger:  logger.With("component", "openai_client", "provider", string(cfg.Backend)),
	}, nil
}

// Backend returns the backend this client talks to.
func (c *Client) Backend() provider.Backend {
	return c.backend
}

// Model returns the model the client was constructed with.
func (c *Client) Model() string {
	return c.model
}

// classify maps an SDK error to a provider error kind.
func (c *Client) classify(stage provider.Stage, err error) error {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		return &provider.Error{
			Kind:       provider.KindBackendRejected,
			Provider:   c.backend,
			Stage:      stage,
			StatusCode: apiErr.StatusCode,
			Err:        err,
		}
	}
	return provider.NewError(provider.KindTransport, c.backend, stage, err)
}
