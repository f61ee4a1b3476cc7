package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Tokens is a session that captures whitespace-delimited tokens.
type Tokens struct {
	*Session[string]
}

// NewTokens returns a token-mode session reading from r.
func NewTokens(r io.Reader, opts ...Option) *Tokens {
	o := newOptions(opts)
	var src Capturer[string]
	if o.shell {
		src = &shellReader{br: bufio.NewReader(r)}
	} else {
		src = newWordReader(r)
	}
	return &Tokens{Session: newSession(src, o)}
}

// NewTokensFrom returns a token-mode session over a custom source such as a
// Feed.
func NewTokensFrom(src Capturer[string], opts ...Option) *Tokens {
	return &Tokens{Session: newSession(src, newOptions(opts))}
}

// CaptureInt captures a token with the default prompt and parses it as an
// integer. A token that is not an integer yields false with a nil error; the
// token is still consumed and becomes the last capture.
func (s *Tokens) CaptureInt() (bool, error) {
	return s.captureInt(s.prompt)
}

// PromptInt is CaptureInt with an explicit prompt.
func (s *Tokens) PromptInt(p string) (bool, error) {
	return s.captureInt(p)
}

func (s *Tokens) captureInt(p string) (bool, error) {
	if _, err := s.capture(p); err != nil {
		return false, err
	}
	return s.ParseInt(), nil
}

// ParseInt parses the last captured token as an integer without reading
// more input.
func (s *Tokens) ParseInt() bool {
	if !s.captured {
		return false
	}
	n, err := strconv.Atoi(s.raw)
	if err != nil {
		s.numOK = false
		s.log.Debug("token is not an integer", slog.String("raw", s.raw))
		return false
	}
	s.num, s.numOK = n, true
	return true
}

// InChoices reports whether the last token equals one of choices exactly.
// Unlike the exit and yes/no checks it is case-sensitive.
func (s *Tokens) InChoices(choices ...string) bool {
	if !s.captured {
		return false
	}
	return slices.Contains(choices, s.raw)
}

// SplitTokens splits a line the way a token session would: on whitespace,
// or with shell quoting rules when shell is set.
func SplitTokens(line string, shell bool) ([]string, error) {
	if !shell {
		return strings.Fields(line), nil
	}
	toks, err := shlex.Split(escapeComments(line))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return toks, nil
}

// escapeComments backslash-escapes every unquoted '#' so shlex keeps it as
// part of a token instead of dropping the rest of the line as a comment.
// Backslashes escape the next rune outside quotes and inside double quotes,
// matching shlex.
func escapeComments(line string) string {
	if !strings.ContainsRune(line, '#') {
		return line
	}
	var b strings.Builder
	var quote rune
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '#':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

type wordReader struct {
	sc *bufio.Scanner
}

func newWordReader(r io.Reader) *wordReader {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &wordReader{sc: sc}
}

func (w *wordReader) Capture() (string, error) {
	if w.sc.Scan() {
		return w.sc.Text(), nil
	}
	if err := w.sc.Err(); err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return "", io.EOF
}

// shellReader reads a line at a time and hands out its shell-split tokens.
type shellReader struct {
	br      *bufio.Reader
	pending []string
}

func (r *shellReader) Capture() (string, error) {
	for len(r.pending) == 0 {
		line, err := r.br.ReadString('\n')
		if line != "" {
			toks, serr := SplitTokens(line, true)
			if serr != nil {
				return "", serr
			}
			r.pending = toks
		}
		if err != nil {
			if len(r.pending) > 0 {
				break
			}
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", fmt.Errorf("read line: %w", err)
		}
	}
	tok := r.pending[0]
	r.pending = r.pending[1:]
	return tok, nil
}
