package handlers

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"chatgpt-assistant/internal/editor"
	"chatgpt-assistant/internal/hook"
	"chatgpt-assistant/internal/llm"
	"chatgpt-assistant/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logger.NewLogger(&buf, logger.LevelDebug)
	l.SetColorMode(false)
	l.SetShowTime(false)
	return l, &buf
}

func requestData() *hook.HookData {
	return hook.NewHookData(hook.BeforeRequest).
		Set(hook.KeyTurn, 1).
		Set(hook.KeyModel, "gpt-3.5-turbo").
		Set(hook.KeyMessages, []llm.Message{
			{Role: llm.RoleSystem, Content: "A"},
			{Role: llm.RoleUser, Content: "hello"},
		})
}

func TestSendConfirmHandler(t *testing.T) {
	tests := []struct {
		input string
		allow bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		h := NewSendConfirmHandlerWithIO(strings.NewReader(tt.input), &out)

		fb, err := h.Handle(context.Background(), requestData())
		require.NoError(t, err)
		assert.Equal(t, tt.allow, fb.Allow, "input %q", tt.input)
		assert.Equal(t, "Send 2 message(s) to gpt-3.5-turbo? [y/N]: ", out.String())
	}
}

func TestSendConfirmHandler_SharesKeyStream(t *testing.T) {
	keys := editor.NewKeyReader(strings.NewReader("hi\ry\nz"))
	for _, want := range []editor.KeyKind{editor.KeyRune, editor.KeyRune, editor.KeyEnter} {
		k, err := keys.ReadKey()
		require.NoError(t, err)
		require.Equal(t, want, k.Kind)
	}

	var out bytes.Buffer
	h := NewSendConfirmHandlerWithIO(keys.Input(), &out)
	fb, err := h.Handle(context.Background(), requestData())
	require.NoError(t, err)
	assert.True(t, fb.Allow, "the answer typed after Enter reaches the prompt")

	k, err := keys.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, editor.Key{Kind: editor.KeyRune, Rune: 'z'}, k, "bytes after the answer stay with the editor")
}

func TestRequestLogger(t *testing.T) {
	log, buf := debugLogger()
	h := NewRequestLogger(log)

	fb, err := h.Handle(context.Background(), requestData())
	require.NoError(t, err)
	assert.True(t, fb.Allow)

	out := buf.String()
	assert.Contains(t, out, "Turn 1: sending 2 message(s) to gpt-3.5-turbo")
	assert.Contains(t, out, `{"role":"system","content":"A"}`)
	assert.Less(t, strings.Index(out, `"A"`), strings.Index(out, `"hello"`))

	reply := hook.NewHookData(hook.AfterReply).Set(hook.KeyTurn, 1).Set(hook.KeyTotalTokens, 12)
	_, err = h.Handle(context.Background(), reply)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Turn 1: reply received (12 tokens)")
}

func TestUsageReporter(t *testing.T) {
	log, buf := debugLogger()
	h := NewUsageReporter(log)
	ctx := context.Background()

	start := hook.NewHookData(hook.OnSessionStart)
	start.Timestamp = time.Unix(100, 0)
	_, err := h.Handle(ctx, start)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		reply := hook.NewHookData(hook.AfterReply).
			Set(hook.KeyPromptTokens, 10).
			Set(hook.KeyCompletionTokens, 5).
			Set(hook.KeyTotalTokens, 15)
		_, err := h.Handle(ctx, reply)
		require.NoError(t, err)
	}

	turns, total := h.Totals()
	assert.Equal(t, 2, turns)
	assert.Equal(t, 30, total)

	end := hook.NewHookData(hook.OnSessionEnd)
	end.Timestamp = time.Unix(103, 0)
	_, err = h.Handle(ctx, end)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Prompt tokens: 20 | Completion tokens: 10")
	assert.Contains(t, buf.String(), "Session ended after 3s | Turns: 2 | Tokens: 30")
}
