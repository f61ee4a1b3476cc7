package session

import (
	"strings"

	"github.com/rivo/uniseg"
)

// InputBuffer holds a line being typed before it is submitted to a session.
type InputBuffer struct {
	Value string
}

// Append adds runes to the buffer.
func (b *InputBuffer) Append(runes []rune) {
	if len(runes) > 0 {
		b.Value += string(runes)
	}
}

// Backspace removes the last user-perceived character, which may span
// several runes.
func (b *InputBuffer) Backspace() {
	if b.Value == "" {
		return
	}
	last := 0
	g := uniseg.NewGraphemes(b.Value)
	for g.Next() {
		last, _ = g.Positions()
	}
	b.Value = b.Value[:last]
}

// Clear resets the buffer.
func (b *InputBuffer) Clear() {
	b.Value = ""
}

// Submit returns the trimmed line and clears the buffer.
func (b *InputBuffer) Submit() string {
	line := strings.TrimSpace(b.Value)
	b.Clear()
	return line
}
