package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	keyInterrupt = 0x03 // Ctrl+C
	keyEOT       = 0x04 // Ctrl+D
)

// RawKeys captures single keypresses from a terminal without waiting for
// Enter. The terminal is in raw mode only while a read is in progress.
type RawKeys struct {
	fd   int
	br   *bufio.Reader
	echo io.Writer
}

// NewRawKeys returns a key capturer for f. Pressed keys are echoed to echo
// when it is not nil, since raw mode turns off the terminal's own echo.
func NewRawKeys(f *os.File, echo io.Writer) (*RawKeys, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	return &RawKeys{fd: fd, br: bufio.NewReader(f), echo: echo}, nil
}

// Capture implements Capturer.
func (k *RawKeys) Capture() (rune, error) {
	st, err := term.MakeRaw(k.fd)
	if err != nil {
		return 0, fmt.Errorf("enter raw mode: %w", err)
	}
	r, size, err := k.br.ReadRune()
	if rerr := term.Restore(k.fd, st); rerr != nil && err == nil {
		err = fmt.Errorf("restore terminal: %w", rerr)
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("read key: %w", err)
	}

	switch {
	case r == keyInterrupt:
		return 0, ErrInterrupted
	case r == keyEOT:
		return 0, io.EOF
	case r == utf8.RuneError && size == 1:
		return 0, fmt.Errorf("%w: invalid UTF-8 byte", ErrMalformedInput)
	}

	if k.echo != nil {
		fmt.Fprintf(k.echo, "%c\n", r)
	}
	return r, nil
}
