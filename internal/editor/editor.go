package editor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"chatgpt-assistant/internal/cli"
	"chatgpt-assistant/internal/llm"
)

// clearLine moves to column 0 and erases the current line
const clearLine = "\r\033[2K"

// Outcome is the result of applying one key to a State
type Outcome int

const (
	Continue Outcome = iota
	Submit
	Abort
)

// State is the message being composed: a rune buffer plus the role flag.
type State struct {
	buf  []rune
	role llm.Role
}

// NewState starts an empty user message
func NewState() *State {
	return &State{role: llm.RoleUser}
}

// Apply feeds one key into the state
func (s *State) Apply(k Key) Outcome {
	switch k.Kind {
	case KeyRune:
		s.buf = append(s.buf, k.Rune)
	case KeyBackspace:
		if len(s.buf) > 0 {
			s.buf = s.buf[:len(s.buf)-1]
		}
	case KeyTab:
		s.role = s.role.Toggle()
	case KeyEnter:
		return Submit
	case KeyInterrupt:
		return Abort
	}
	return Continue
}

func (s *State) Role() llm.Role {
	return s.role
}

func (s *State) Buffer() string {
	return string(s.buf)
}

// Message finalizes the state. Content is the buffer exactly as typed.
func (s *State) Message() llm.Message {
	return llm.Message{Role: s.role, Content: s.Buffer()}
}

// Editor composes one message per call from raw keystrokes
type Editor struct {
	keys    *KeyReader
	writer  io.Writer
	term    Terminal
	palette *cli.Palette
}

// New creates an editor. keys must be shared by every Compose call of a session.
func New(keys *KeyReader, w io.Writer, t Terminal, palette *cli.Palette) *Editor {
	if palette == nil {
		palette = cli.NewPalette(w, false)
	}
	return &Editor{
		keys:    keys,
		writer:  w,
		term:    t,
		palette: palette,
	}
}

// Compose reads keys until enter or interrupt. ok is false when the user
// aborted or the key stream ended. The terminal is restored on every return
// path, panics included. ctx is checked between keys; a blocked read is not
// interrupted.
func (e *Editor) Compose(ctx context.Context) (msg llm.Message, ok bool, err error) {
	restore, err := e.term.MakeRaw()
	if err != nil {
		return llm.Message{}, false, err
	}
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			err = fmt.Errorf("failed to restore terminal: %w", rerr)
		}
	}()

	state := NewState()
	e.render(state)

	for {
		if err := ctx.Err(); err != nil {
			e.endLine()
			return llm.Message{}, false, err
		}

		key, err := e.keys.ReadKey()
		if errors.Is(err, io.EOF) {
			e.endLine()
			return llm.Message{}, false, nil
		}
		if err != nil {
			e.endLine()
			return llm.Message{}, false, fmt.Errorf("failed to read key: %w", err)
		}

		switch state.Apply(key) {
		case Submit:
			e.endLine()
			return state.Message(), true, nil
		case Abort:
			e.endLine()
			return llm.Message{}, false, nil
		}

		e.render(state)
	}
}

// render redraws "[role] buffer" over the current line
func (e *Editor) render(s *State) {
	fmt.Fprintf(e.writer, "%s%s %s", clearLine, e.palette.RoleTag(s.role), s.Buffer())
}

// raw mode disables output post-processing, so emit CR explicitly
func (e *Editor) endLine() {
	fmt.Fprint(e.writer, "\r\n")
}
