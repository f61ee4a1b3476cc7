package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jeca/conui/internal/menu"
	"github.com/jeca/conui/internal/session"
	"github.com/jeca/conui/internal/ui"
)

type state int

const (
	stateChoice state = iota
	stateConfirm
)

// Runner drives an input session through a menu: it renders the menu,
// captures a choice, replies, asks for confirmation where the item wants it
// and stops when the exit token is entered.
type Runner struct {
	con  console
	menu *menu.Menu
	out  io.Writer
	log  *slog.Logger
	echo bool

	state   state
	pending int
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithEcho writes every captured value to the output after its prompt. Use
// it when the input does not appear on the output by itself.
func WithEcho() RunnerOption {
	return func(r *Runner) {
		r.echo = true
	}
}

// NewTokenRunner registers the menu's exit token on s and returns a runner
// for it. out should be the session's writer.
func NewTokenRunner(s *session.Tokens, m *menu.Menu, out io.Writer, opts ...RunnerOption) *Runner {
	s.RegisterExit(m.Exit.Token, m.Exit.IgnoreCase)
	return newRunner(tokenConsole{s: s}, m, out, opts)
}

// NewCharRunner is NewTokenRunner for character mode. The exit token and
// every item key must be a single character.
func NewCharRunner(s *session.Chars, m *menu.Menu, out io.Writer, opts ...RunnerOption) (*Runner, error) {
	if err := checkCharKeys(m); err != nil {
		return nil, err
	}
	if err := registerCharExit(s, m.Exit); err != nil {
		return nil, fmt.Errorf("%w: %q", err, m.Exit.Token)
	}
	return newRunner(charConsole{s: s}, m, out, opts), nil
}

func newRunner(con console, m *menu.Menu, out io.Writer, opts []RunnerOption) *Runner {
	r := &Runner{
		con:  con,
		menu: m,
		out:  out,
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start renders the menu for the first choice.
func (r *Runner) Start() error {
	return r.renderMenu()
}

// Prompt returns the prompt written before the next capture.
func (r *Runner) Prompt() string {
	if r.state == stateConfirm {
		return r.menu.Items[r.pending].Confirm
	}
	return r.con.defaultPrompt()
}

// Step captures one unit and acts on it. It reports done once the exit
// token was entered. Malformed input is rejected like any other invalid
// answer to the pending question; other capture errors, io.EOF included,
// are returned.
func (r *Runner) Step() (done bool, err error) {
	if r.state == stateConfirm {
		return false, r.confirm()
	}
	return r.choose()
}

// Run renders the menu and steps until the user exits, the input fails or
// ctx is done. Cancellation is only noticed between captures.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := r.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (r *Runner) choose() (bool, error) {
	if err := r.con.capture(); err != nil {
		return false, r.recover(err, r.menu.Invalid)
	}
	if err := r.echoLast(); err != nil {
		return false, err
	}

	if r.con.isExit(ui.ExitStyle.Render(r.menu.Exit.Message)) {
		r.log.Info("exit requested", slog.String("input", r.con.last()))
		return true, r.con.err()
	}

	i, ok := r.con.pick(r.menu)
	if !ok {
		r.log.Debug("invalid choice", slog.String("input", r.con.last()))
		return false, r.reject(r.menu.Invalid)
	}

	item := r.menu.Items[i]
	r.log.Debug("menu item selected", slog.Int("item", i+1), slog.String("label", item.Label))
	if err := r.println(ui.ReplyStyle.Render(item.Reply)); err != nil {
		return false, err
	}
	if item.Confirm != "" {
		r.state = stateConfirm
		r.pending = i
		return false, r.con.newLine()
	}
	return false, r.finish()
}

func (r *Runner) confirm() error {
	item := r.menu.Items[r.pending]
	r.state = stateChoice

	if err := r.con.ask(item.Confirm); err != nil {
		return r.recover(err, r.menu.YesNoInvalid)
	}
	if err := r.echoLast(); err != nil {
		return err
	}
	if !r.con.isYesOrNo() {
		return r.reject(r.menu.YesNoInvalid)
	}

	answer := r.menu.No
	if r.con.yes() {
		answer = r.menu.Yes
	}
	r.log.Debug("confirmation answered", slog.String("label", item.Label), slog.Bool("yes", r.con.yes()))
	if err := r.println(r.menu.AnswerPrefix + answer); err != nil {
		return err
	}
	return r.finish()
}

// recover answers malformed input with msg and returns any other error.
func (r *Runner) recover(err error, msg string) error {
	if errors.Is(err, session.ErrMalformedInput) {
		r.log.Warn("discarding malformed input", slog.Any("error", err))
		return r.reject(msg)
	}
	return err
}

func (r *Runner) reject(msg string) error {
	if err := r.println(ui.ErrorStyle.Render(msg)); err != nil {
		return err
	}
	return r.renderMenu()
}

func (r *Runner) finish() error {
	if err := r.println(r.menu.Done); err != nil {
		return err
	}
	if err := r.con.newLine(); err != nil {
		return err
	}
	return r.renderMenu()
}

func (r *Runner) renderMenu() error {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(r.menu.Title))
	b.WriteString("\n")

	columns := []ui.Column{
		{Header: "#", Width: 4},
		{Header: "Action", Width: 24},
	}
	rows := make([][]string, len(r.menu.Items))
	for i, it := range r.menu.Items {
		rows[i] = []string{r.menu.Label(i), it.Label}
	}
	b.WriteString(ui.RenderTable(columns, rows))

	if r.menu.Hint != "" {
		b.WriteString(ui.DimStyle.Render(r.menu.Hint))
		b.WriteString("\n")
	}
	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return fmt.Errorf("write menu: %w", err)
	}
	return nil
}

func (r *Runner) echoLast() error {
	if !r.echo {
		return nil
	}
	return r.println(r.con.last())
}

func (r *Runner) println(s string) error {
	if _, err := fmt.Fprintln(r.out, s); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
