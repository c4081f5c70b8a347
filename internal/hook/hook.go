package hook

import (
	"context"
	"time"
)

// HookPoint defines when a hook is triggered
type HookPoint string

const (
	// Conversation lifecycle hooks
	OnSessionStart HookPoint = "on_session_start"
	OnSessionEnd   HookPoint = "on_session_end"

	// Completion request hooks
	BeforeRequest HookPoint = "before_request"
	AfterReply    HookPoint = "after_reply"
)

// Keys used in HookData.Data
const (
	KeyMessages         = "messages"
	KeyReply            = "reply"
	KeyTurn             = "turn"
	KeyProfile          = "profile"
	KeyModel            = "model"
	KeyPromptTokens     = "prompt_tokens"
	KeyCompletionTokens = "completion_tokens"
	KeyTotalTokens      = "total_tokens"
)

// HookData carries context-specific information for hooks
type HookData struct {
	Point     HookPoint
	Timestamp time.Time
	Data      map[string]any
}

// NewHookData creates a new HookData instance
func NewHookData(point HookPoint) *HookData {
	return &HookData{
		Point:     point,
		Timestamp: time.Now(),
		Data:      make(map[string]any),
	}
}

// Set sets a data field
func (d *HookData) Set(key string, value any) *HookData {
	d.Data[key] = value
	return d
}

// Get retrieves a data field
func (d *HookData) Get(key string) any {
	return d.Data[key]
}

// GetString retrieves a string data field
func (d *HookData) GetString(key string) string {
	if v, ok := d.Data[key].(string); ok {
		return v
	}
	return ""
}

// GetInt retrieves an int data field
func (d *HookData) GetInt(key string) int {
	if v, ok := d.Data[key].(int); ok {
		return v
	}
	return 0
}

// Feedback is returned by handlers to control execution flow
type Feedback struct {
	Allow   bool   // Whether to allow the operation to continue
	Message string // Optional message to display
}

// AllowFeedback creates an allow feedback
func AllowFeedback() *Feedback {
	return &Feedback{Allow: true}
}

// DenyFeedback creates a deny feedback with message
func DenyFeedback(message string) *Feedback {
	return &Feedback{Allow: false, Message: message}
}

// Handler is the interface for hook handlers
type Handler interface {
	// Name returns the handler name
	Name() string

	// Points returns which hook points this handler listens to
	Points() []HookPoint

	// Handle processes the hook event and returns feedback
	Handle(ctx context.Context, data *HookData) (*Feedback, error)

	// Priority returns the handler priority (higher = earlier execution)
	Priority() int
}
