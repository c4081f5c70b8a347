package handlers

import (
	"context"

	"chatgpt-assistant/internal/hook"
	"chatgpt-assistant/internal/llm"
	"chatgpt-assistant/internal/logger"
)

// RequestLogger writes each outgoing transcript and reply to the debug log
type RequestLogger struct {
	log *logger.Logger
}

func NewRequestLogger(log *logger.Logger) *RequestLogger {
	return &RequestLogger{log: log}
}

func (h *RequestLogger) Name() string {
	return "request_logger"
}

func (h *RequestLogger) Points() []hook.HookPoint {
	return []hook.HookPoint{hook.BeforeRequest, hook.AfterReply}
}

// Priority is low so the log reflects requests that were actually allowed
func (h *RequestLogger) Priority() int {
	return -100
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (h *RequestLogger) Handle(ctx context.Context, data *hook.HookData) (*hook.Feedback, error) {
	switch data.Point {
	case hook.BeforeRequest:
		msgs, _ := data.Get(hook.KeyMessages).([]llm.Message)
		h.log.Debug("Turn %d: sending %d message(s) to %s",
			data.GetInt(hook.KeyTurn), len(msgs), data.GetString(hook.KeyModel))

		wire := make([]wireMessage, len(msgs))
		for i, m := range msgs {
			wire[i] = wireMessage{Role: m.Role.String(), Content: m.Content}
		}
		h.log.Payload("Request messages", wire)
	case hook.AfterReply:
		h.log.Debug("Turn %d: reply received (%d tokens)",
			data.GetInt(hook.KeyTurn), data.GetInt(hook.KeyTotalTokens))
	}
	return hook.AllowFeedback(), nil
}
