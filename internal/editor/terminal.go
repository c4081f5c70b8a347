package editor

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Terminal switches the input device into raw mode. The returned restore
// function puts it back into cooked mode.
type Terminal interface {
	MakeRaw() (restore func() error, err error)
}

// TTY is a Terminal backed by a real terminal file descriptor
type TTY struct {
	fd int
}

func NewTTY(f *os.File) *TTY {
	return &TTY{fd: int(f.Fd())}
}

func (t *TTY) MakeRaw() (func() error, error) {
	old, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return func() error {
		return term.Restore(t.fd, old)
	}, nil
}
