package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dnephin/pflag"
	"github.com/google/uuid"
	"github.com/jeca/conui/internal/app"
	"github.com/jeca/conui/internal/config"
	"github.com/jeca/conui/internal/menu"
	"github.com/jeca/conui/internal/session"
	"github.com/jeca/conui/internal/ui"
)

// parseFlags applies command-line overrides to cfg and validates the result.
func parseFlags(args []string, cfg *config.Config) (help bool, err error) {
	fs := pflag.NewFlagSet("conui", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "capture mode: token, char or key")
	fs.StringVar(&cfg.Exit, "exit", cfg.Exit, "exit token")
	fs.BoolVar(&cfg.ExitCaseSensitive, "case-sensitive", cfg.ExitCaseSensitive, "match the exit token case-sensitively")
	fs.StringVar(&cfg.Prompt, "prompt", cfg.Prompt, "capture prompt")
	fs.StringVar(&cfg.MenuFile, "menu", cfg.MenuFile, "YAML menu file")
	fs.BoolVar(&cfg.ShellQuote, "shell-quote", cfg.ShellQuote, "split tokens with shell quoting")
	fs.IntVar(&cfg.CharSkip, "char-skip", cfg.CharSkip, "bytes skipped after each character, -1 for CR/LF")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "run the full-screen front-end")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable styling")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.BoolVarP(&help, "help", "h", false, "show this help message")

	if err := fs.Parse(args); err != nil {
		return false, err
	}
	if fs.NArg() > 0 {
		return false, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return help, cfg.Validate()
}

// loadMenu reads the configured menu and applies the exit and prompt
// overrides.
func loadMenu(cfg *config.Config) (*menu.Menu, error) {
	m := menu.Default()
	if cfg.MenuFile != "" {
		var err error
		if m, err = menu.Load(cfg.MenuFile); err != nil {
			return nil, err
		}
	}
	if cfg.Exit != "" {
		hint := m.Hint == m.ExitHint()
		m.Exit.Token = cfg.Exit
		if hint {
			m.Hint = m.ExitHint()
		}
	}
	if cfg.ExitCaseSensitive {
		m.Exit.IgnoreCase = false
	}
	if cfg.Prompt != "" {
		m.Prompt = cfg.Prompt
	}
	return m, m.Validate()
}

// newRunner builds the session for the configured mode. Key mode falls back
// to char mode when in is not a terminal.
func newRunner(cfg *config.Config, m *menu.Menu, in *os.File, out io.Writer, log *slog.Logger) (*app.Runner, error) {
	opts := []session.Option{
		session.WithWriter(out),
		session.WithLogger(log),
		session.WithDefaultPrompt(m.Prompt),
	}

	switch cfg.Mode {
	case config.ModeKey:
		keys, err := session.NewRawKeys(in, out)
		if err == nil {
			return app.NewCharRunner(session.NewCharsFrom(keys, opts...), m, out, app.WithLogger(log))
		}
		if !errors.Is(err, session.ErrNotTerminal) {
			return nil, err
		}
		log.Warn("stdin is not a terminal, using char mode")
		fallthrough
	case config.ModeChar:
		opts = append(opts, session.WithTerminatorSkip(cfg.CharSkip))
		return app.NewCharRunner(session.NewChars(in, opts...), m, out, app.WithLogger(log))
	default:
		if cfg.ShellQuote {
			opts = append(opts, session.WithShellQuoting())
		}
		return app.NewTokenRunner(session.NewTokens(in, opts...), m, out, app.WithLogger(log)), nil
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(slog.String("run_id", uuid.NewString()))
}

func printUsage() {
	heading := ui.TitleStyle.Render
	label := ui.PromptStyle.Render
	dim := ui.DimStyle.Render

	fmt.Println(heading("conui") + dim(" - console menu driven by validated input"))
	fmt.Println()
	fmt.Println(heading("Usage:"))
	fmt.Println("  conui [flags]")
	fmt.Println()
	fmt.Println("  Shows a numbered menu and reads choices from standard input until the")
	fmt.Println("  exit token is entered.")
	fmt.Println()
	fmt.Println(heading("Flags:"))
	fmt.Println("  " + label("--mode string") + "         " + dim("token, char or key (default token)"))
	fmt.Println("  " + label("--exit string") + "         " + dim("Exit token (default from the menu, x)"))
	fmt.Println("  " + label("--case-sensitive") + "      " + dim("Match the exit token case-sensitively"))
	fmt.Println("  " + label("--prompt string") + "       " + dim("Capture prompt (default \"Input: \")"))
	fmt.Println("  " + label("--menu file") + "           " + dim("YAML menu file"))
	fmt.Println("  " + label("--shell-quote") + "         " + dim("Allow quoted tokens in token mode"))
	fmt.Println("  " + label("--char-skip int") + "       " + dim("Bytes skipped after a character, -1 for CR/LF"))
	fmt.Println("  " + label("--tui") + "                 " + dim("Run the full-screen front-end"))
	fmt.Println("  " + label("--no-color") + "            " + dim("Disable styling"))
	fmt.Println("  " + label("--log-level string") + "    " + dim("debug, info, warn or error (default warn)"))
	fmt.Println("  " + label("-h, --help") + "            " + dim("Show this help message"))
	fmt.Println()
	fmt.Println(heading("Environment:"))
	fmt.Println("  " + label("CONUI_MODE") + "                  " + dim("Same as --mode"))
	fmt.Println("  " + label("CONUI_EXIT") + "                  " + dim("Same as --exit"))
	fmt.Println("  " + label("CONUI_EXIT_CASE_SENSITIVE") + "   " + dim("Same as --case-sensitive"))
	fmt.Println("  " + label("CONUI_PROMPT") + "                " + dim("Same as --prompt"))
	fmt.Println("  " + label("CONUI_MENU") + "                  " + dim("Same as --menu"))
	fmt.Println("  " + label("CONUI_SHELL_QUOTE") + "           " + dim("Same as --shell-quote"))
	fmt.Println("  " + label("CONUI_CHAR_SKIP") + "             " + dim("Same as --char-skip"))
	fmt.Println("  " + label("CONUI_TUI") + "                   " + dim("Same as --tui"))
	fmt.Println("  " + label("CONUI_NO_COLOR") + "              " + dim("Same as --no-color"))
	fmt.Println("  " + label("CONUI_LOG_LEVEL") + "             " + dim("Same as --log-level"))
	fmt.Println()
	fmt.Println(dim("  Variables may also be set in a .env file in the working directory."))
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return app.ExitWithError(2, err)
	}
	help, err := parseFlags(args, cfg)
	if err != nil {
		return app.ExitWithError(2, fmt.Errorf("%w\nRun 'conui --help' for usage information", err))
	}

	ui.Configure(os.Stdout, cfg.NoColor)
	if help {
		printUsage()
		return nil
	}

	log := newLogger(os.Stderr, cfg.Level())
	m, err := loadMenu(cfg)
	if err != nil {
		return app.ExitWithError(2, err)
	}

	if cfg.TUI {
		if cfg.Mode != config.ModeToken {
			log.Warn("the TUI reads tokens, ignoring mode", slog.String("mode", cfg.Mode))
		}
		model, err := app.NewTUI(m, cfg.ShellQuote, log)
		if err != nil {
			return err
		}
		final, err := tea.NewProgram(model).Run()
		if err != nil {
			return err
		}
		return app.TUIErr(final)
	}

	r, err := newRunner(cfg, m, os.Stdin, os.Stdout, log)
	if err != nil {
		return app.ExitWithError(2, err)
	}
	log.Debug("session started", slog.String("mode", cfg.Mode))

	err = r.Run(ctx)
	switch {
	case errors.Is(err, io.EOF):
		log.Debug("input closed")
		return nil
	case errors.Is(err, session.ErrInterrupted):
		fmt.Fprintln(os.Stdout)
		return app.Exit(130)
	}
	return err
}

func main() {
	code, msg := app.ExitCode(run(context.Background(), os.Args[1:]))
	if msg != "" {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error: "+msg))
	}
	os.Exit(code)
}
