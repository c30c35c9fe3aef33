package openai

import (
	"context"

	oai "github.com/openai/openai-go"
	"github.com/phrazzld/lecturenotes/internal/provider"
)

// Generate sends one chat completion request and returns the first choice.
func (c *Client) Generate(ctx context.Context, req provider.GenerationRequest) (text string, err error) {
	if err := req.Validate(); err != nil {
		return "", provider.NewError(provider.KindPrecondition, c.backend, provider.StageGenerate, err)
	}

	ctx, span := provider.StartSpan(ctx, c.backend, provider.StageGenerate, c.model)
	defer func() { provider.EndSpan(span, err) }()

	params := oai.ChatCompletionNewParams{
		Messages:    oai.F(toChatMessages(req.Messages)),
		Model:       oai.F(oai.ChatModel(c.model)),
		Temperature: oai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = oai.Int(int64(req.MaxTokens))
	}

	c.logger.DebugContext(ctx, "sending chat completion",
		"model", c.model,
		"message_count", len(req.Messages),
		"max_tokens", req.MaxTokens)

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", c.classify(provider.StageGenerate, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", provider.NewError(provider.KindBackendRejected, c.backend, provider.StageGenerate,
			provider.ErrEmptyResponse)
	}

	c.logger.DebugContext(ctx, "chat completion received",
		"model", c.model,
		"finish_reason", string(resp.Choices[0].FinishReason),
		"completion_tokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}

func toChatMessages(msgs []provider.Message) []oai.ChatCompletionMessageParamUnion {
	out := make([]oai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case provider.RoleSystem:
			out = append(out, oai.SystemMessage(m.Content))
		case provider.RoleAssistant:
			out = append(out, oai.AssistantMessage(m.Content))
		default:
			out = append(out, oai.UserMessage(m.Content))
		}
	}
	return out
}
