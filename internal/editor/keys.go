package editor

import (
	"bufio"
	"io"
	"unicode"
	"unicode/utf8"
)

// KeyKind classifies a decoded keystroke
type KeyKind int

const (
	KeyOther KeyKind = iota
	KeyRune
	KeyBackspace
	KeyTab
	KeyEnter
	KeyInterrupt
)

func (k KeyKind) String() string {
	switch k {
	case KeyRune:
		return "rune"
	case KeyBackspace:
		return "backspace"
	case KeyTab:
		return "tab"
	case KeyEnter:
		return "enter"
	case KeyInterrupt:
		return "interrupt"
	default:
		return "other"
	}
}

// Key is one keystroke. Rune is set only for KeyRune.
type Key struct {
	Kind KeyKind
	Rune rune
}

const (
	ctrlC     = 0x03
	ctrlH     = 0x08
	escape    = 0x1b
	del       = 0x7f
	carriage  = '\r'
	lineFeed  = '\n'
	horizTab  = '\t'
	csiIntro  = '['
	ss3Intro  = 'O'
	csiFinalL = 0x40
	csiFinalH = 0x7e
)

// KeyReader decodes a raw byte stream into keys. The stream is consumed
// lazily and cannot be restarted, so one reader must live for the whole session.
type KeyReader struct {
	r *bufio.Reader
}

func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// Input exposes the buffered stream behind the keys. Line-oriented prompts
// that read the same terminal between compositions must read through it so
// typed-ahead bytes are not split between two buffers.
func (k *KeyReader) Input() io.Reader {
	return k.r
}

// ReadKey blocks until the next key is available
func (k *KeyReader) ReadKey() (Key, error) {
	ch, size, err := k.r.ReadRune()
	if err != nil {
		return Key{}, err
	}

	switch ch {
	case ctrlC:
		return Key{Kind: KeyInterrupt}, nil
	case carriage:
		k.skipByte(lineFeed)
		return Key{Kind: KeyEnter}, nil
	case lineFeed:
		return Key{Kind: KeyEnter}, nil
	case del, ctrlH:
		return Key{Kind: KeyBackspace}, nil
	case horizTab:
		return Key{Kind: KeyTab}, nil
	case escape:
		k.skipEscapeSequence()
		return Key{Kind: KeyOther}, nil
	}

	if ch == utf8.RuneError && size == 1 {
		return Key{Kind: KeyOther}, nil
	}
	if unicode.IsPrint(ch) {
		return Key{Kind: KeyRune, Rune: ch}, nil
	}
	return Key{Kind: KeyOther}, nil
}

// skipByte consumes b if it is already buffered
func (k *KeyReader) skipByte(b byte) {
	if k.r.Buffered() == 0 {
		return
	}
	if next, err := k.r.Peek(1); err == nil && next[0] == b {
		_, _ = k.r.ReadByte()
	}
}

// skipEscapeSequence drops the rest of a CSI or SS3 sequence (arrow keys,
// function keys). Terminals write a sequence in one go, so only bytes that
// are already buffered are considered.
func (k *KeyReader) skipEscapeSequence() {
	if k.r.Buffered() == 0 {
		return
	}
	next, err := k.r.Peek(1)
	if err != nil {
		return
	}

	switch next[0] {
	case ss3Intro:
		_, _ = k.r.ReadByte()
		if k.r.Buffered() > 0 {
			_, _ = k.r.ReadByte()
		}
	case csiIntro:
		_, _ = k.r.ReadByte()
		for k.r.Buffered() > 0 {
			c, err := k.r.ReadByte()
			if err != nil || (c >= csiFinalL && c <= csiFinalH) {
				return
			}
		}
	}
}
