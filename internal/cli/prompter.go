package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// TerminalPrompter asks for credential values on first run
type TerminalPrompter struct {
	in     io.Reader
	reader *bufio.Reader
	writer io.Writer
}

// NewTerminalPrompterWithIO creates a prompter with custom IO (for testing)
func NewTerminalPrompterWithIO(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:     in,
		reader: bufio.NewReader(in),
		writer: out,
	}
}

// Secret reads without echo when the input is a terminal
func (p *TerminalPrompter) Secret(label string) (string, error) {
	fmt.Fprint(p.writer, label)

	if f, ok := p.in.(fder); ok && IsTerminal(p.in) {
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.writer)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}

	return p.readLine()
}

// Line reads a single line of echoed input
func (p *TerminalPrompter) Line(label string) (string, error) {
	fmt.Fprint(p.writer, label)
	return p.readLine()
}

func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
