package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Chars is a session that captures one character per request.
type Chars struct {
	*Session[rune]
}

// NewChars returns a character-mode session reading from r. After each
// character the line terminator is discarded; see WithTerminatorSkip.
func NewChars(r io.Reader, opts ...Option) *Chars {
	o := newOptions(opts)
	src := &charReader{br: bufio.NewReader(r), skip: o.skip}
	return &Chars{Session: newSession[rune](src, o)}
}

// NewCharsFrom returns a character-mode session over a custom source such as
// RawKeys or a Feed.
func NewCharsFrom(src Capturer[rune], opts ...Option) *Chars {
	return &Chars{Session: newSession(src, newOptions(opts))}
}

// Code returns the code point of the last captured character.
func (s *Chars) Code() (int, bool) {
	return s.Int()
}

// InCharRange reports whether the last character lies in [lo, hi] by code
// point. Reversed bounds are swapped.
func (s *Chars) InCharRange(lo, hi rune) bool {
	return s.InRange(int(lo), int(hi))
}

type charReader struct {
	br   *bufio.Reader
	skip int
}

func (c *charReader) Capture() (rune, error) {
	r, size, err := c.br.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("read char: %w", err)
	}
	if err := c.discardTerminator(r); err != nil {
		return 0, err
	}
	if r == utf8.RuneError && size == 1 {
		return 0, fmt.Errorf("%w: invalid UTF-8 byte", ErrMalformedInput)
	}
	return r, nil
}

func (c *charReader) discardTerminator(got rune) error {
	if c.skip >= 0 {
		if _, err := c.br.Discard(c.skip); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("discard terminator: %w", err)
		}
		return nil
	}
	// an empty line captures its own terminator
	terms := []byte{'\r', '\n'}
	switch got {
	case '\n':
		return nil
	case '\r':
		terms = terms[1:]
	}
	for _, b := range terms {
		next, err := c.br.Peek(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("discard terminator: %w", err)
		}
		if next[0] == b {
			_, _ = c.br.Discard(1)
		}
	}
	return nil
}
