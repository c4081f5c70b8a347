package llm

// Transcript is the ordered, append-only message history sent upstream.
// It has a single owner and is not safe for concurrent use.
type Transcript struct {
	messages []Message
}

// NewTranscript seeds a transcript. The seed slice is copied.
func NewTranscript(seed ...Message) *Transcript {
	t := &Transcript{messages: make([]Message, 0, len(seed)+8)}
	t.messages = append(t.messages, seed...)
	return t
}

func (t *Transcript) Append(msgs ...Message) {
	t.messages = append(t.messages, msgs...)
}

// Messages returns a copy of the history in order
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	return len(t.messages)
}
