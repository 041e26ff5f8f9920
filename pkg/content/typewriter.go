package content

import (
	"strings"
	"time"
)

const (
	TypingStartDelay = 500 * time.Millisecond
	TypingCharDelay  = 40 * time.Millisecond
)

// Typewriter reveals text one character at a time.
type Typewriter struct {
	runes   []rune
	reduced bool
}

// NewTypewriter prepares text for typing, collapsing runs of whitespace.
// With reducedMotion the full text is shown immediately.
func NewTypewriter(text string, reducedMotion bool) *Typewriter {
	return &Typewriter{
		runes:   []rune(strings.Join(strings.Fields(text), " ")),
		reduced: reducedMotion,
	}
}

// Text returns the full text.
func (t *Typewriter) Text() string {
	return string(t.runes)
}

// Visible returns the text typed so far, elapsed after the page opened.
func (t *Typewriter) Visible(elapsed time.Duration) string {
	return string(t.runes[:t.count(elapsed)])
}

// Done reports whether the whole text is visible.
func (t *Typewriter) Done(elapsed time.Duration) bool {
	return t.count(elapsed) == len(t.runes)
}

func (t *Typewriter) count(elapsed time.Duration) int {
	if t.reduced {
		return len(t.runes)
	}
	if elapsed < TypingStartDelay {
		return 0
	}
	n := int((elapsed - TypingStartDelay) / TypingCharDelay)
	return min(n, len(t.runes))
}
