package llm

import (
	"context"
	"errors"
)

// ErrCompletion wraps every failure of a completion request. Transport errors,
// non-2xx statuses and malformed bodies are not distinguished further.
var ErrCompletion = errors.New("completion failed")

type Client interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	Model() string
}

type ChatRequest struct {
	Messages []Message
}

type ChatResponse struct {
	Message    Message
	StopReason StopReason
	Usage      Usage
}
