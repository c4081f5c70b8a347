package handlers

import (
	"context"
	"time"

	"chatgpt-assistant/internal/hook"
	"chatgpt-assistant/internal/logger"
)

// UsageReporter totals token usage over a session and logs a summary at the end
type UsageReporter struct {
	log       *logger.Logger
	started   time.Time
	turns     int
	prompt    int
	completed int
	total     int
}

func NewUsageReporter(log *logger.Logger) *UsageReporter {
	return &UsageReporter{log: log}
}

func (h *UsageReporter) Name() string {
	return "usage_reporter"
}

func (h *UsageReporter) Points() []hook.HookPoint {
	return []hook.HookPoint{hook.OnSessionStart, hook.AfterReply, hook.OnSessionEnd}
}

func (h *UsageReporter) Priority() int {
	return 0
}

func (h *UsageReporter) Handle(ctx context.Context, data *hook.HookData) (*hook.Feedback, error) {
	switch data.Point {
	case hook.OnSessionStart:
		h.started = data.Timestamp
	case hook.AfterReply:
		h.turns++
		h.prompt += data.GetInt(hook.KeyPromptTokens)
		h.completed += data.GetInt(hook.KeyCompletionTokens)
		h.total += data.GetInt(hook.KeyTotalTokens)
	case hook.OnSessionEnd:
		h.log.Debug("Prompt tokens: %d | Completion tokens: %d", h.prompt, h.completed)
		h.log.SessionEnd(data.Timestamp.Sub(h.started), h.turns, h.total)
	}
	return hook.AllowFeedback(), nil
}

// Totals returns the number of replies and total tokens seen so far
func (h *UsageReporter) Totals() (turns, totalTokens int) {
	return h.turns, h.total
}
