package app

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jeca/conui/internal/menu"
	"github.com/jeca/conui/internal/session"
)

// ErrExitToken is returned when the exit token cannot be used in the
// selected capture mode.
var ErrExitToken = errors.New("exit token must be a single character in character mode")

// ErrCharKey is returned for a menu key that cannot be typed as one
// character.
var ErrCharKey = errors.New("menu keys must be single characters in character mode")

// console is the part of an input session the menu loop drives. It hides the
// difference between token and character sessions.
type console interface {
	capture() error
	ask(prompt string) error
	defaultPrompt() string
	last() string
	isExit(msg string) bool
	pick(m *menu.Menu) (int, bool)
	isYesOrNo() bool
	yes() bool
	newLine() error
	err() error
}

type tokenConsole struct {
	s *session.Tokens
}

func (c tokenConsole) capture() error {
	_, err := c.s.Capture()
	return err
}

func (c tokenConsole) ask(p string) error {
	_, err := c.s.Prompt(p)
	return err
}

func (c tokenConsole) last() string {
	v, _ := c.s.Last()
	return v
}

func (c tokenConsole) defaultPrompt() string  { return c.s.DefaultPrompt() }
func (c tokenConsole) isExit(msg string) bool { return c.s.IsExitNotify(msg) }
func (c tokenConsole) isYesOrNo() bool        { return c.s.IsYesOrNo() }
func (c tokenConsole) yes() bool              { return c.s.Yes() }
func (c tokenConsole) newLine() error         { return c.s.NewLine() }
func (c tokenConsole) err() error             { return c.s.Err() }

// pick accepts the item's position or, failing that, its key.
func (c tokenConsole) pick(m *menu.Menu) (int, bool) {
	if c.s.ParseInt() && c.s.InRange(1, len(m.Items)) {
		n, _ := c.s.Int()
		return n - 1, true
	}
	if c.s.InChoices(m.Keys()...) {
		return m.Index(c.last()), true
	}
	return -1, false
}

type charConsole struct {
	s *session.Chars
}

func (c charConsole) capture() error {
	_, err := c.s.Capture()
	return err
}

func (c charConsole) ask(p string) error {
	_, err := c.s.Prompt(p)
	return err
}

func (c charConsole) last() string {
	r, ok := c.s.Last()
	if !ok {
		return ""
	}
	return string(r)
}

func (c charConsole) defaultPrompt() string  { return c.s.DefaultPrompt() }
func (c charConsole) isExit(msg string) bool { return c.s.IsExitNotify(msg) }
func (c charConsole) isYesOrNo() bool        { return c.s.IsYesOrNo() }
func (c charConsole) yes() bool              { return c.s.Yes() }
func (c charConsole) newLine() error         { return c.s.NewLine() }
func (c charConsole) err() error             { return c.s.Err() }

// pick accepts a digit for the first nine items or a single-character key.
func (c charConsole) pick(m *menu.Menu) (int, bool) {
	n := min(len(m.Items), 9)
	if c.s.InCharRange('1', rune('0'+n)) {
		code, _ := c.s.Code()
		return code - '1', true
	}
	if i := m.Index(c.last()); i >= 0 {
		return i, true
	}
	return -1, false
}

// registerCharExit registers the menu's exit token on a character session.
func registerCharExit(s *session.Chars, e menu.Exit) error {
	r, size := utf8.DecodeRuneInString(e.Token)
	if size == 0 || size != len(e.Token) || r == utf8.RuneError {
		return ErrExitToken
	}
	s.RegisterExit(r, e.IgnoreCase)
	return nil
}

// checkCharKeys rejects keys a character session can never capture.
func checkCharKeys(m *menu.Menu) error {
	for _, k := range m.Keys() {
		if utf8.RuneCountInString(k) != 1 {
			return fmt.Errorf("%w: %q", ErrCharKey, k)
		}
	}
	return nil
}
