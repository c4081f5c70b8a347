package openai

import (
	"context"
	"fmt"
	"net/http"

	"chatgpt-assistant/internal/llm"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when neither the config file nor the flags name one
const DefaultModel = openai.GPT3Dot5Turbo

type Client struct {
	client *openai.Client
	model  string
}

// Options tune the underlying go-openai client. Zero values keep the defaults.
type Options struct {
	// BaseURL points at an OpenAI-compatible endpoint, e.g. "https://api.openai.com/v1"
	BaseURL string
	// OrgID is sent as the OpenAI-Organization header
	OrgID string
	// HTTPClient replaces the default http.Client
	HTTPClient *http.Client
}

// NewClient creates a chat-completion client with the given API key and model.
// An empty model selects DefaultModel.
func NewClient(apiKey, model string, opts Options) *Client {
	config := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	if opts.OrgID != "" {
		config.OrgID = opts.OrgID
	}
	if opts.HTTPClient != nil {
		config.HTTPClient = opts.HTTPClient
	}
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: c.convertMessages(req.Messages),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", llm.ErrCompletion, err)
	}

	return c.convertResponse(resp)
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) convertMessages(msgs []llm.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(msgs))
	for i, msg := range msgs {
		result[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}
	return result
}

// Only choices[0] is used; the rest are ignored.
func (c *Client) convertResponse(resp openai.ChatCompletionResponse) (*llm.ChatResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response has no choices", llm.ErrCompletion)
	}
	choice := resp.Choices[0]

	role, err := llm.ParseRole(choice.Message.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", llm.ErrCompletion, err)
	}

	return &llm.ChatResponse{
		Message: llm.Message{
			Role:    role,
			Content: choice.Message.Content,
		},
		StopReason: llm.StopReason(choice.FinishReason),
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
