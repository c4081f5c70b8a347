package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"chatgpt-assistant/internal/cli"
	"chatgpt-assistant/internal/editor"
	"chatgpt-assistant/internal/hook"
	"chatgpt-assistant/internal/llm"
	"chatgpt-assistant/internal/logger"
)

const (
	// QuitCommand ends a simple-variant session before any request is sent
	QuitCommand = "quit"
	// SimplePrompt is shown before each line in the simple variant
	SimplePrompt = ">> "
)

// Composer produces one role-tagged message per call. ok is false when the
// user aborted composition.
type Composer interface {
	Compose(ctx context.Context) (msg llm.Message, ok bool, err error)
}

// LineReader reads one plain line of input
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

type Options struct {
	Profile string
	Oneshot bool
	Hooks   *hook.Manager
	Logger  *logger.Logger
}

// Session owns the transcript for one run and drives the turn-taking loop
type Session struct {
	client     llm.Client
	printer    *cli.Printer
	transcript *llm.Transcript
	hooks      *hook.Manager
	log        *logger.Logger
	profile    string
	oneshot    bool
	turns      int
}

func NewSession(client llm.Client, printer *cli.Printer, seed []llm.Message, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Session{
		client:     client,
		printer:    printer,
		transcript: llm.NewTranscript(seed...),
		hooks:      opts.Hooks,
		log:        log,
		profile:    opts.Profile,
		oneshot:    opts.Oneshot,
	}
}

// Seed returns the profile messages followed by one system message per
// invocation-supplied string
func Seed(profile []llm.Message, systemMessages []string) []llm.Message {
	seed := make([]llm.Message, 0, len(profile)+len(systemMessages))
	seed = append(seed, profile...)
	for _, s := range systemMessages {
		seed = append(seed, llm.Message{Role: llm.RoleSystem, Content: s})
	}
	return seed
}

// Transcript returns a copy of the conversation so far
func (s *Session) Transcript() []llm.Message {
	return s.transcript.Messages()
}

// Turns returns the number of requests attempted
func (s *Session) Turns() int {
	return s.turns
}

// RunInteractive is the role-toggling loop: system messages are stacked
// until a user message triggers a request.
func (s *Session) RunInteractive(ctx context.Context, composer Composer) error {
	s.begin(ctx)
	defer s.finish(ctx)

	for {
		for {
			msg, ok, err := composer.Compose(ctx)
			if err != nil {
				return fmt.Errorf("failed to compose message: %w", err)
			}
			if !ok {
				s.log.Debug("Composition aborted, ending session")
				return nil
			}

			s.transcript.Append(msg)
			if msg.Role != llm.RoleSystem {
				break
			}
		}

		done, err := s.exchange(ctx)
		if err != nil || done {
			return err
		}
	}
}

// RunSimple reads plain lines; each one becomes a user message. The line
// "quit" ends the session.
func (s *Session) RunSimple(ctx context.Context, reader LineReader) error {
	s.begin(ctx)
	defer s.finish(ctx)

	for {
		line, err := reader.ReadLine(SimplePrompt)
		if errors.Is(err, io.EOF) || errors.Is(err, editor.ErrAborted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == QuitCommand {
			return nil
		}

		s.transcript.Append(llm.Message{Role: llm.RoleUser, Content: line})

		done, err := s.exchange(ctx)
		if err != nil || done {
			return err
		}
	}
}

// exchange sends the transcript and appends the reply. done reports that
// the session must end.
func (s *Session) exchange(ctx context.Context) (done bool, err error) {
	s.turns++
	messages := s.transcript.Messages()

	before := hook.NewHookData(hook.BeforeRequest).
		Set(hook.KeyTurn, s.turns).
		Set(hook.KeyModel, s.client.Model()).
		Set(hook.KeyMessages, messages)
	feedback, err := s.hooks.Trigger(ctx, before)
	if err != nil {
		return true, err
	}
	if !feedback.Allow {
		if feedback.Message != "" {
			s.printer.Notice("%s", feedback.Message)
		}
		return s.oneshot, nil
	}

	resp, err := s.client.Chat(ctx, &llm.ChatRequest{Messages: messages})
	if err != nil {
		s.printer.Error("request failed: %v", err)
		return true, fmt.Errorf("turn %d: %w", s.turns, err)
	}

	s.printer.Reply(resp.Message.Content)
	s.transcript.Append(resp.Message)

	after := hook.NewHookData(hook.AfterReply).
		Set(hook.KeyTurn, s.turns).
		Set(hook.KeyReply, resp.Message.Content).
		Set(hook.KeyPromptTokens, resp.Usage.PromptTokens).
		Set(hook.KeyCompletionTokens, resp.Usage.CompletionTokens).
		Set(hook.KeyTotalTokens, resp.Usage.TotalTokens)
	if _, err := s.hooks.Trigger(ctx, after); err != nil {
		s.log.Error("After-reply hook failed: %v", err)
	}

	return s.oneshot, nil
}

func (s *Session) begin(ctx context.Context) {
	s.log.Debug("Session started (profile: %s, model: %s, seed messages: %d)",
		s.profile, s.client.Model(), s.transcript.Len())

	data := hook.NewHookData(hook.OnSessionStart).
		Set(hook.KeyProfile, s.profile).
		Set(hook.KeyModel, s.client.Model())
	if _, err := s.hooks.Trigger(ctx, data); err != nil {
		s.log.Error("Session-start hook failed: %v", err)
	}
}

func (s *Session) finish(ctx context.Context) {
	data := hook.NewHookData(hook.OnSessionEnd).
		Set(hook.KeyProfile, s.profile).
		Set(hook.KeyTurn, s.turns)
	if _, err := s.hooks.Trigger(ctx, data); err != nil {
		s.log.Error("Session-end hook failed: %v", err)
	}
}
