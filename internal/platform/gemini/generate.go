package gemini

import (
	"context"
	"strings"

	"github.com/phrazzld/lecturenotes/internal/provider"
	"google.golang.org/genai"
)

// Generate translates the chat request into Gemini contents and issues one
// GenerateContent call.
func (c *Client) Generate(ctx context.Context, req provider.GenerationRequest) (text string, err error) {
	if err := req.Validate(); err != nil {
		return "", provider.NewError(provider.KindPrecondition, provider.BackendGemini, provider.StageGenerate, err)
	}

	ctx, span := provider.StartSpan(ctx, provider.BackendGemini, provider.StageGenerate, c.model)
	defer func() { provider.EndSpan(span, err) }()

	contents, system := toContents(req.Messages)
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, "")
	}

	c.logger.DebugContext(ctx, "sending generate content",
		"model", c.model,
		"content_count", len(contents),
		"max_tokens", req.MaxTokens)

	return c.call(ctx, provider.StageGenerate, c.model, contents, config)
}

// toContents splits system messages out into a single instruction. When the
// request holds only system messages, the instruction is sent as the user turn
// since Gemini requires at least one content.
func toContents(msgs []provider.Message) ([]*genai.Content, string) {
	var system []string
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case provider.RoleSystem:
			system = append(system, m.Content)
		case provider.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	instruction := strings.Join(system, "\n\n")
	if len(contents) == 0 {
		return []*genai.Content{genai.NewContentFromText(instruction, genai.RoleUser)}, ""
	}
	return contents, instruction
}
