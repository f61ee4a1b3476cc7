package session

import (
	"io"
	"log/slog"
)

// Option customizes a session.
type Option func(*options)

type options struct {
	w      io.Writer
	log    *slog.Logger
	prompt string

	// character mode: -1 discards a CRLF/LF terminator, n >= 0 skips n bytes.
	skip int
	// token mode
	shell bool
}

func newOptions(opts []Option) options {
	o := options{
		w:    io.Discard,
		log:  slog.New(slog.DiscardHandler),
		skip: -1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithWriter sets the sink for prompts, exit messages and blank lines.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.w = w
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithDefaultPrompt sets the prompt Capture writes before reading.
func WithDefaultPrompt(p string) Option {
	return func(o *options) {
		o.prompt = p
	}
}

// WithTerminatorSkip makes character mode skip exactly n bytes after each
// character, whatever they are. WithTerminatorSkip(2) reproduces consoles
// that assume CRLF line endings. A negative n restores the default, which
// discards an optional '\r' followed by an optional '\n'.
func WithTerminatorSkip(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = -1
		}
		o.skip = n
	}
}

// WithShellQuoting makes token mode split lines with shell rules, so a
// quoted phrase is captured as one token.
func WithShellQuoting() Option {
	return func(o *options) {
		o.shell = true
	}
}
