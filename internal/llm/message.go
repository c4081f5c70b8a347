package llm

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRole is returned when a role string is not one of the known roles
var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole validates s against the closed set of roles
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSystem, RoleUser, RoleAssistant:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func (r Role) String() string {
	return string(r)
}

// Toggle flips between user and system. Any other role becomes user.
func (r Role) Toggle() Role {
	if r == RoleUser {
		return RoleSystem
	}
	return RoleUser
}

// UnmarshalYAML rejects unknown roles in profile files
func (r *Role) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*r = parsed
	return nil
}

type Message struct {
	Role    Role   `yaml:"role"`
	Content string `yaml:"content"`
}

type StopReason string

const (
	StopReasonStop   StopReason = "stop"
	StopReasonLength StopReason = "length"
)

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
