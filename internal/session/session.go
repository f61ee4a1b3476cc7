package session

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unit is the granularity of one capture.
type Unit interface {
	rune | string
}

// Capturer reads the next unit of input, blocking until one is available.
type Capturer[T Unit] interface {
	Capture() (T, error)
}

// Session holds the state of one interactive input loop. Use NewTokens or
// NewChars for the standard capture modes, or New with a custom Capturer.
type Session[T Unit] struct {
	src    Capturer[T]
	w      io.Writer
	log    *slog.Logger
	prompt string

	captured   bool
	raw        T
	normalized T
	num        int
	numOK      bool

	exit     T
	exitSet  bool
	exitFold bool

	err error
}

// New returns a session reading from src.
func New[T Unit](src Capturer[T], opts ...Option) *Session[T] {
	return newSession(src, newOptions(opts))
}

func newSession[T Unit](src Capturer[T], o options) *Session[T] {
	return &Session[T]{
		src:    src,
		w:      o.w,
		log:    o.log,
		prompt: o.prompt,
	}
}

// Capture writes the default prompt, if any, and blocks for the next unit.
func (s *Session[T]) Capture() (T, error) {
	return s.capture(s.prompt)
}

// Prompt writes p without a trailing newline and blocks for the next unit.
func (s *Session[T]) Prompt(p string) (T, error) {
	return s.capture(p)
}

// DefaultPrompt returns the prompt Capture writes.
func (s *Session[T]) DefaultPrompt() string {
	return s.prompt
}

func (s *Session[T]) capture(prompt string) (T, error) {
	var zero T
	if prompt != "" {
		if _, err := io.WriteString(s.w, prompt); err != nil {
			return zero, fmt.Errorf("write prompt: %w", err)
		}
	}
	v, err := s.src.Capture()
	if err != nil {
		s.log.Debug("capture failed", slog.Any("error", err))
		return zero, err
	}
	s.store(v)
	return v, nil
}

func (s *Session[T]) store(v T) {
	s.captured = true
	s.raw = v
	s.normalized = fold(v)
	if n, ok := toInt(v); ok {
		s.num, s.numOK = n, true
	} else {
		// keep the previous value, but it no longer describes this capture
		s.numOK = false
	}
	s.log.Debug("captured input",
		slog.String("raw", display(v)),
		slog.Bool("numeric", s.numOK),
	)
}

// Last returns the raw value of the most recent capture.
func (s *Session[T]) Last() (T, bool) {
	return s.raw, s.captured
}

// Normalized returns the lower-cased form of the most recent capture.
func (s *Session[T]) Normalized() (T, bool) {
	return s.normalized, s.captured
}

// Int returns the integer reading of the most recent capture. It reports
// false when nothing was captured or the capture was not a number.
func (s *Session[T]) Int() (int, bool) {
	if !s.captured || !s.numOK {
		return 0, false
	}
	return s.num, true
}

// RegisterExit sets the value that signals the user wants to quit. A later
// call replaces the earlier registration. With ignoreCase the token is
// folded and compared against the folded capture.
func (s *Session[T]) RegisterExit(token T, ignoreCase bool) {
	if ignoreCase {
		token = fold(token)
	}
	s.exit = token
	s.exitSet = true
	s.exitFold = ignoreCase
}

// IsExit reports whether the most recent capture is the registered exit
// token. It is false when no token is registered.
func (s *Session[T]) IsExit() bool {
	if !s.exitSet || !s.captured {
		return false
	}
	if s.exitFold {
		return s.normalized == s.exit
	}
	return s.raw == s.exit
}

// IsExitNotify is IsExit, but also writes msg and a newline when the check
// succeeds. A failed write is kept for Err.
func (s *Session[T]) IsExitNotify(msg string) bool {
	if !s.IsExit() {
		return false
	}
	s.log.Debug("exit requested", slog.String("token", display(s.raw)))
	if _, err := fmt.Fprintln(s.w, msg); err != nil && s.err == nil {
		s.err = fmt.Errorf("write exit message: %w", err)
	}
	return true
}

// InRange reports whether the integer reading of the most recent capture
// lies in [lo, hi]. Reversed bounds are swapped. In token mode a capture that
// is not a number is never in range; in character mode the code point is
// used.
func (s *Session[T]) InRange(lo, hi int) bool {
	n, ok := s.Int()
	if !ok {
		return false
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo <= n && n <= hi
}

// IsYesOrNo reports whether the folded capture is exactly "y" or "n".
func (s *Session[T]) IsYesOrNo() bool {
	if !s.captured {
		return false
	}
	return equal(s.normalized, "y") || equal(s.normalized, "n")
}

// Yes reports whether the folded capture is "y". It is false for "n" and for
// anything else, so gate it with IsYesOrNo.
func (s *Session[T]) Yes() bool {
	return s.captured && equal(s.normalized, "y")
}

// NewLine writes one line break.
func (s *Session[T]) NewLine() error {
	return s.Blank(1)
}

// Blank writes n line breaks.
func (s *Session[T]) Blank(n int) error {
	if n <= 0 {
		return nil
	}
	if _, err := io.WriteString(s.w, strings.Repeat("\n", n)); err != nil {
		return fmt.Errorf("write blank lines: %w", err)
	}
	return nil
}

// Err returns the first write error from IsExitNotify, if any.
func (s *Session[T]) Err() error {
	return s.err
}

func fold[T Unit](v T) T {
	switch x := any(v).(type) {
	case string:
		return any(cases.Lower(language.Und).String(x)).(T)
	case rune:
		return any(unicode.ToLower(x)).(T)
	}
	return v
}

func toInt[T Unit](v T) (int, bool) {
	switch x := any(v).(type) {
	case string:
		n, err := strconv.Atoi(x)
		return n, err == nil
	case rune:
		return int(x), true
	}
	return 0, false
}

func equal[T Unit](v T, s string) bool {
	switch x := any(v).(type) {
	case string:
		return x == s
	case rune:
		return string(x) == s
	}
	return false
}

func display[T Unit](v T) string {
	switch x := any(v).(type) {
	case string:
		return x
	case rune:
		return strconv.QuoteRune(x)
	}
	return ""
}
