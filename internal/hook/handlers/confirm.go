package handlers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"chatgpt-assistant/internal/hook"
	"chatgpt-assistant/internal/llm"
)

// SendConfirmHandler asks the user before each completion request is sent
type SendConfirmHandler struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewSendConfirmHandlerWithIO creates a handler with custom IO (for testing)
func NewSendConfirmHandlerWithIO(reader io.Reader, writer io.Writer) *SendConfirmHandler {
	return &SendConfirmHandler{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

func (h *SendConfirmHandler) Name() string {
	return "send_confirm"
}

func (h *SendConfirmHandler) Points() []hook.HookPoint {
	return []hook.HookPoint{hook.BeforeRequest}
}

func (h *SendConfirmHandler) Priority() int {
	return 100 // High priority - runs first
}

func (h *SendConfirmHandler) Handle(ctx context.Context, data *hook.HookData) (*hook.Feedback, error) {
	msgs, _ := data.Get(hook.KeyMessages).([]llm.Message)
	model := data.GetString(hook.KeyModel)

	fmt.Fprintf(h.writer, "Send %d message(s) to %s? [y/N]: ", len(msgs), model)

	line, err := h.reader.ReadString('\n')
	if err != nil && line == "" {
		return hook.DenyFeedback("No input received"), nil
	}

	switch strings.TrimSpace(strings.ToLower(line)) {
	case "y", "yes":
		return hook.AllowFeedback(), nil
	default:
		return hook.DenyFeedback("request not sent"), nil
	}
}
