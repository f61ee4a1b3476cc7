package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Capture modes.
const (
	ModeToken = "token"
	ModeChar  = "char"
	ModeKey   = "key"
)

// ErrInvalidMode is returned for an unknown capture mode.
var ErrInvalidMode = errors.New("invalid mode")

// Config holds conui settings. Environment variables provide defaults and
// command-line flags override them.
type Config struct {
	// Mode is token, char or key. ENV: CONUI_MODE
	Mode string `env:"CONUI_MODE,default=token"`
	// Exit overrides the menu's exit token. ENV: CONUI_EXIT
	Exit string `env:"CONUI_EXIT"`
	// ExitCaseSensitive registers the exit token case-sensitively. ENV: CONUI_EXIT_CASE_SENSITIVE
	ExitCaseSensitive bool `env:"CONUI_EXIT_CASE_SENSITIVE,default=false"`
	// Prompt overrides the menu's capture prompt. ENV: CONUI_PROMPT
	Prompt string `env:"CONUI_PROMPT"`
	// MenuFile is a YAML menu; empty uses the built-in menu. ENV: CONUI_MENU
	MenuFile string `env:"CONUI_MENU"`
	// ShellQuote enables shell-style quoting in token mode. ENV: CONUI_SHELL_QUOTE
	ShellQuote bool `env:"CONUI_SHELL_QUOTE,default=false"`
	// CharSkip is the character-mode terminator policy: -1 discards CR/LF,
	// n >= 0 skips n bytes. ENV: CONUI_CHAR_SKIP
	CharSkip int `env:"CONUI_CHAR_SKIP,default=-1"`
	// TUI runs the full-screen front-end. ENV: CONUI_TUI
	TUI bool `env:"CONUI_TUI,default=false"`
	// NoColor disables styling. ENV: CONUI_NO_COLOR
	NoColor bool `env:"CONUI_NO_COLOR,default=false"`
	// LogLevel is debug, info, warn or error. ENV: CONUI_LOG_LEVEL
	LogLevel string `env:"CONUI_LOG_LEVEL,default=warn"`
}

// Load reads the given .env files, when they exist, and decodes the
// environment into a Config. Variables already set in the environment win
// over .env entries.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes and checks the settings.
func (c *Config) Validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = ModeToken
	}
	switch c.Mode {
	case ModeToken, ModeChar, ModeKey:
	default:
		return fmt.Errorf("%w %q (want token, char or key)", ErrInvalidMode, c.Mode)
	}
	if c.CharSkip < -1 {
		c.CharSkip = -1
	}
	return nil
}

// Level maps LogLevel to a slog level. Unknown names mean warn.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}
