package session

import "errors"

// ErrNoInput is returned by a Feed with nothing queued.
var ErrNoInput = errors.New("no input queued")

// ErrMalformedInput is returned when a unit cannot be decoded: an invalid
// UTF-8 sequence in character mode or an unterminated quote with shell
// quoting enabled. The session keeps its previous capture.
var ErrMalformedInput = errors.New("malformed input")

// ErrNotTerminal is returned by NewRawKeys for a file that is not a terminal.
var ErrNotTerminal = errors.New("input is not a terminal")

// ErrInterrupted is returned by RawKeys when the user presses Ctrl+C.
var ErrInterrupted = errors.New("interrupted")
