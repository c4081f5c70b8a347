package cli

import (
	"io"

	"chatgpt-assistant/internal/llm"

	"github.com/muesli/termenv"
)

// Palette is the formatting capability handed to every renderer.
// A palette built without color returns its input unchanged.
type Palette struct {
	out *termenv.Output
}

// NewPalette creates a palette writing ANSI sequences only when color is true
func NewPalette(w io.Writer, color bool) *Palette {
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI
	}
	return &Palette{out: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

func (p *Palette) Blue(s string) string {
	return p.out.String(s).Foreground(termenv.ANSIBlue).String()
}

func (p *Palette) Red(s string) string {
	return p.out.String(s).Foreground(termenv.ANSIRed).String()
}

func (p *Palette) Yellow(s string) string {
	return p.out.String(s).Foreground(termenv.ANSIYellow).String()
}

func (p *Palette) Faint(s string) string {
	return p.out.String(s).Faint().String()
}

// RoleTag renders "[role]" for the line editor prompt
func (p *Palette) RoleTag(r llm.Role) string {
	tag := "[" + r.String() + "]"
	if r == llm.RoleSystem {
		return p.Yellow(tag)
	}
	return p.Blue(tag)
}

// Colored reports whether the palette emits escape sequences
func (p *Palette) Colored() bool {
	return p.out.Profile != termenv.Ascii
}
