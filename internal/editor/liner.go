package editor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// ErrAborted is returned by LineInput when the user presses Ctrl-C
var ErrAborted = errors.New("input aborted")

// LineInput reads whole lines with history and line editing
type LineInput struct {
	state *liner.State
}

func NewLineInput() *LineInput {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &LineInput{state: state}
}

// ReadLine prompts for one line. io.EOF is returned on Ctrl-D.
func (l *LineInput) ReadLine(prompt string) (string, error) {
	line, err := l.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrAborted
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(line) != "" {
		l.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal
func (l *LineInput) Close() error {
	return l.state.Close()
}

// PlainLineReader reads lines from a non-terminal input such as a pipe
type PlainLineReader struct {
	reader *bufio.Reader
	writer io.Writer
}

func NewPlainLineReader(r io.Reader, w io.Writer) *PlainLineReader {
	return &PlainLineReader{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// ReadLine writes the prompt and returns the next line without its line ending
func (p *PlainLineReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.writer, prompt)

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
