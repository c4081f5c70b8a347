package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Banner lines shown before the first prompt
const (
	BannerStart      = "Starting conversation with ChatGPT."
	BannerQuitHint   = "Please type 'quit' to end the conversation."
	BannerToggleHint = "Press Tab to toggle user/system, Enter to send, Ctrl-C to quit."
	BannerOneshot    = "ONESHOT MODE"
)

// ReplyRenderer turns a reply into terminal text
type ReplyRenderer interface {
	Render(in string) (string, error)
}

// Printer writes conversation output: banners, replies and notices
type Printer struct {
	writer   io.Writer
	palette  *Palette
	markdown ReplyRenderer
}

func NewPrinter(w io.Writer, palette *Palette) *Printer {
	if w == nil {
		w = os.Stdout
	}
	if palette == nil {
		palette = NewPalette(w, false)
	}
	return &Printer{
		writer:  w,
		palette: palette,
	}
}

// SetMarkdown renders replies through r instead of printing them verbatim
func (p *Printer) SetMarkdown(r ReplyRenderer) {
	p.markdown = r
}

func (p *Printer) Palette() *Palette {
	return p.palette
}

func (p *Printer) Writer() io.Writer {
	return p.writer
}

// Banner prints the start-of-session lines
func (p *Printer) Banner(hint string, oneshot bool) {
	fmt.Fprintln(p.writer, BannerStart)
	if hint != "" {
		fmt.Fprintln(p.writer, hint)
	}
	if oneshot {
		fmt.Fprintln(p.writer, p.palette.Red(BannerOneshot))
	}
}

// Reply prints an assistant reply trimmed of surrounding whitespace
func (p *Printer) Reply(content string) {
	content = strings.TrimSpace(content)

	if p.markdown != nil {
		if rendered, err := p.markdown.Render(content); err == nil {
			fmt.Fprintln(p.writer, strings.TrimRight(rendered, "\n"))
			return
		}
	}

	fmt.Fprintln(p.writer, p.palette.Blue(content))
}

// Notice prints a plain informational line
func (p *Printer) Notice(format string, args ...any) {
	fmt.Fprintln(p.writer, fmt.Sprintf(format, args...))
}

// Error prints a visible error line
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.writer, p.palette.Red(fmt.Sprintf(format, args...)))
}

// NewMarkdownRenderer builds a glamour renderer sized for the terminal
func NewMarkdownRenderer(color bool, width int) (*glamour.TermRenderer, error) {
	style := "notty"
	if color {
		style = "dark"
	}
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
}
