// Package menu describes the interactive menu the conui loop presents:
// its items, the exit token and the messages shown along the way. Menus are
// plain data and can be loaded from YAML.
package menu

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoItems is returned for a menu without items.
	ErrNoItems = errors.New("menu has no items")
	// ErrNoExit is returned when the exit token is empty.
	ErrNoExit = errors.New("menu exit token is empty")
	// ErrDuplicateKey is returned when two items share a key.
	ErrDuplicateKey = errors.New("duplicate menu key")
	// ErrKeyShadowsPosition is returned for a numeric key that names another
	// item's position.
	ErrKeyShadowsPosition = errors.New("menu key is another item's position")
)

// Menu is one screen of numbered choices.
type Menu struct {
	Title  string `yaml:"title"`
	Hint   string `yaml:"hint"`
	Prompt string `yaml:"prompt"`
	Items  []Item `yaml:"items"`
	Exit   Exit   `yaml:"exit"`

	Invalid      string `yaml:"invalid"`
	YesNoInvalid string `yaml:"yes_no_invalid"`
	AnswerPrefix string `yaml:"answer_prefix"`
	Yes          string `yaml:"yes"`
	No           string `yaml:"no"`
	Done         string `yaml:"done"`
}

// Item is a menu entry. It is chosen by its 1-based position or by Key.
// When Confirm is set, choosing the item asks a y/n question with Confirm as
// the prompt.
type Item struct {
	Key     string `yaml:"key"`
	Label   string `yaml:"label"`
	Reply   string `yaml:"reply"`
	Confirm string `yaml:"confirm"`
}

// Exit configures the quit token.
type Exit struct {
	Token      string `yaml:"token"`
	IgnoreCase bool   `yaml:"ignore_case"`
	Message    string `yaml:"message"`
}

// Default returns the built-in three item menu.
func Default() *Menu {
	return &Menu{
		Title:  "=== Menu ===",
		Hint:   "Type x to quit.",
		Prompt: "Input: ",
		Items: []Item{
			{Label: "Run", Reply: "1. Run selected."},
			{Label: "Settings", Reply: "2. Settings selected.", Confirm: "y/n: "},
			{Label: "Quit", Reply: "3. Quit selected."},
		},
		Exit: Exit{
			Token:      "x",
			IgnoreCase: true,
			Message:    "Exiting.",
		},
		Invalid:      "Choose one of 1, 2, 3.",
		YesNoInvalid: "Answer with y or n.",
		AnswerPrefix: "Your answer: ",
		Yes:          "Yes",
		No:           "no",
		Done:         "Good choice.",
	}
}

// Load reads a YAML menu file. Fields the file leaves out keep their
// defaults.
func Load(path string) (*Menu, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	m, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes YAML over the default menu and validates the result.
// Items in the document replace the default items. A missing hint or invalid
// message is built from the document's exit token and items.
func Parse(b []byte) (*Menu, error) {
	m := Default()
	m.Items = nil
	m.Hint = ""
	m.Invalid = ""
	if err := yaml.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Hint == "" {
		m.Hint = m.ExitHint()
	}
	if m.Invalid == "" {
		m.Invalid = m.ChoiceHint()
	}
	return m, nil
}

// ExitHint returns the hint naming the exit token.
func (m *Menu) ExitHint() string {
	return fmt.Sprintf("Type %s to quit.", m.Exit.Token)
}

// ChoiceHint returns the invalid-choice message listing every item's
// selector.
func (m *Menu) ChoiceHint() string {
	labels := make([]string, len(m.Items))
	for i := range m.Items {
		labels[i] = m.Label(i)
	}
	return "Choose one of " + strings.Join(labels, ", ") + "."
}

// Validate checks that the menu can drive a loop.
func (m *Menu) Validate() error {
	if len(m.Items) == 0 {
		return ErrNoItems
	}
	if m.Exit.Token == "" {
		return ErrNoExit
	}
	seen := make(map[string]bool, len(m.Items))
	for i, it := range m.Items {
		if it.Key == "" {
			continue
		}
		if seen[it.Key] {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, it.Key)
		}
		seen[it.Key] = true
		if n, err := strconv.Atoi(it.Key); err == nil && n >= 1 && n <= len(m.Items) && n != i+1 {
			return fmt.Errorf("%w: %q", ErrKeyShadowsPosition, it.Key)
		}
	}
	return nil
}

// Keys returns the explicit item keys in menu order.
func (m *Menu) Keys() []string {
	keys := make([]string, 0, len(m.Items))
	for _, it := range m.Items {
		if it.Key != "" {
			keys = append(keys, it.Key)
		}
	}
	return keys
}

// Index returns the position of the item with the given key, or -1.
func (m *Menu) Index(key string) int {
	if key == "" {
		return -1
	}
	for i, it := range m.Items {
		if it.Key == key {
			return i
		}
	}
	return -1
}

// Label returns the text shown in the selector column for item i: its key,
// or its 1-based position.
func (m *Menu) Label(i int) string {
	if k := m.Items[i].Key; k != "" {
		return k
	}
	return strconv.Itoa(i + 1)
}
