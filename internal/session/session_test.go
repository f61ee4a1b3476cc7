package session

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("sink closed") }

func feedTokens(v ...string) *Tokens {
	f := &Feed[string]{}
	f.Push(v...)
	return NewTokensFrom(f)
}

func TestTokensCaptureAcrossLines(t *testing.T) {
	s := NewTokens(strings.NewReader("Hello World\n  42\n"))

	v, err := s.Capture()
	require.NoError(t, err)
	assert.Equal(t, "Hello", v)
	norm, ok := s.Normalized()
	require.True(t, ok)
	assert.Equal(t, "hello", norm)

	v, err = s.Capture()
	require.NoError(t, err)
	assert.Equal(t, "World", v)

	ok, err = s.CaptureInt()
	require.NoError(t, err)
	require.True(t, ok)
	n, ok := s.Int()
	require.True(t, ok)
	assert.Equal(t, 42, n)

	_, err = s.Capture()
	assert.ErrorIs(t, err, io.EOF)
}

func TestPromptWritesWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	s := NewTokens(strings.NewReader("a b"), WithWriter(&out), WithDefaultPrompt("Input: "))

	_, err := s.Prompt("name: ")
	require.NoError(t, err)
	_, err = s.Capture()
	require.NoError(t, err)

	assert.Equal(t, "name: Input: ", out.String())
	assert.Equal(t, "Input: ", s.DefaultPrompt())
}

func TestPromptWriteFailure(t *testing.T) {
	s := NewTokens(strings.NewReader("a"), WithWriter(failingWriter{}))
	_, err := s.Prompt("name: ")
	require.Error(t, err)
	_, ok := s.Last()
	assert.False(t, ok, "a failed prompt must not capture")
}

func TestChecksBeforeCaptureFailClosed(t *testing.T) {
	s := feedTokens()
	s.RegisterExit("", false)

	_, ok := s.Last()
	assert.False(t, ok)
	_, ok = s.Int()
	assert.False(t, ok)
	assert.False(t, s.IsExit(), "zero exit token must not match an empty session")
	assert.False(t, s.ParseInt())
	assert.False(t, s.InRange(-1<<31, 1<<31))
	assert.False(t, s.InChoices(""))
	assert.False(t, s.IsYesOrNo())
	assert.False(t, s.Yes())

	c := NewCharsFrom(&Feed[rune]{})
	assert.False(t, c.InCharRange(0, 0x10FFFF))
	_, ok = c.Code()
	assert.False(t, ok)
}

func TestFailedCaptureKeepsPreviousState(t *testing.T) {
	s := feedTokens("keep")
	_, err := s.Capture()
	require.NoError(t, err)

	_, err = s.Capture()
	require.ErrorIs(t, err, ErrNoInput)

	v, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "keep", v)
}

func TestExitCaseInsensitiveMatchesAnyCase(t *testing.T) {
	for _, token := range []string{"x", "Quit", "EXIT"} {
		variants := []string{token, strings.ToUpper(token), strings.ToLower(token)}
		for _, v := range variants {
			s := feedTokens(v)
			s.RegisterExit(token, true)
			_, err := s.Capture()
			require.NoError(t, err)
			assert.True(t, s.IsExit(), "token %q, input %q", token, v)
		}
	}
}

func TestExitCaseSensitiveRejectsCaseVariant(t *testing.T) {
	tests := []struct {
		token string
		input string
		want  bool
	}{
		{"Quit", "Quit", true},
		{"Quit", "quit", false},
		{"Quit", "QUIT", false},
		{"x", "X", false},
		{"x", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.token+"/"+tt.input, func(t *testing.T) {
			s := feedTokens(tt.input)
			s.RegisterExit(tt.token, false)
			_, err := s.Capture()
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.IsExit())
		})
	}
}

func TestExitUnregisteredIsFalse(t *testing.T) {
	s := feedTokens("x")
	_, err := s.Capture()
	require.NoError(t, err)
	assert.False(t, s.IsExit())
}

func TestRegisterExitOverwrites(t *testing.T) {
	s := feedTokens("q", "Q")
	s.RegisterExit("x", true)
	s.RegisterExit("q", false)

	_, err := s.Capture()
	require.NoError(t, err)
	assert.True(t, s.IsExit())

	_, err = s.Capture()
	require.NoError(t, err)
	assert.False(t, s.IsExit(), "case-insensitive policy must not survive re-registration")
}

func TestIsExitNotifyWritesOnlyOnMatch(t *testing.T) {
	var out bytes.Buffer
	f := &Feed[string]{}
	f.Push("X", "y")
	s := NewTokensFrom(f, WithWriter(&out))
	s.RegisterExit("x", true)

	_, err := s.Capture()
	require.NoError(t, err)
	assert.True(t, s.IsExitNotify("bye"))
	assert.Equal(t, "bye\n", out.String())

	out.Reset()
	_, err = s.Capture()
	require.NoError(t, err)
	assert.False(t, s.IsExitNotify("bye"))
	assert.Empty(t, out.String())
	assert.NoError(t, s.Err())
}

func TestIsExitNotifyKeepsWriteError(t *testing.T) {
	f := &Feed[string]{}
	f.Push("x")
	s := NewTokensFrom(f, WithWriter(failingWriter{}))
	s.RegisterExit("x", false)
	_, err := s.Capture()
	require.NoError(t, err)

	assert.True(t, s.IsExitNotify("bye"))
	assert.Error(t, s.Err())
}

func TestInRangeBoundOrderDoesNotMatter(t *testing.T) {
	for v := -4; v <= 4; v++ {
		for lo := -3; lo <= 3; lo++ {
			for hi := -3; hi <= 3; hi++ {
				s := feedTokens(strconv.Itoa(v))
				_, err := s.Capture()
				require.NoError(t, err)
				require.True(t, s.ParseInt())

				want := min(lo, hi) <= v && v <= max(lo, hi)
				assert.Equal(t, want, s.InRange(lo, hi), "v=%d lo=%d hi=%d", v, lo, hi)
				assert.Equal(t, s.InRange(lo, hi), s.InRange(hi, lo), "v=%d lo=%d hi=%d", v, lo, hi)
			}
		}
	}
}

func TestInRangeScenarios(t *testing.T) {
	s := feedTokens("5", "2", "two")

	_, err := s.Capture()
	require.NoError(t, err)
	assert.False(t, s.InRange(1, 3))

	_, err = s.Capture()
	require.NoError(t, err)
	assert.True(t, s.InRange(3, 1))

	_, err = s.Capture()
	require.NoError(t, err)
	assert.False(t, s.InRange(-100, 100), "a word is never in a numeric range")
}

func TestCaptureIntValidLiterals(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{"-7", -7},
		{"0", 0},
		{"+5", 5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s := feedTokens(tt.in)
			ok, err := s.CaptureInt()
			require.NoError(t, err)
			require.True(t, ok)
			n, ok := s.Int()
			require.True(t, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestCaptureIntMalformedMarksStale(t *testing.T) {
	s := feedTokens("7", "12a")

	ok, err := s.CaptureInt()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.CaptureInt()
	require.NoError(t, err, "malformed numbers are not errors")
	assert.False(t, ok)

	_, ok = s.Int()
	assert.False(t, ok, "stale integer must not be reported")
	assert.Equal(t, 7, s.num, "previous integer is left in place")
	raw, _ := s.Last()
	assert.Equal(t, "12a", raw)
	assert.False(t, s.InRange(0, 100))
}

func TestCaptureIntEndOfInput(t *testing.T) {
	s := NewTokens(strings.NewReader(""))
	ok, err := s.PromptInt("n: ")
	assert.False(t, ok)
	assert.ErrorIs(t, err, io.EOF)
}

func TestParseIntReusesLastToken(t *testing.T) {
	s := feedTokens("x", "3")
	s.RegisterExit("x", true)

	_, err := s.Capture()
	require.NoError(t, err)
	assert.True(t, s.IsExit())
	assert.False(t, s.ParseInt())

	_, err = s.Capture()
	require.NoError(t, err)
	assert.False(t, s.IsExit())
	require.True(t, s.ParseInt())
	assert.True(t, s.InRange(1, 3))
}

func TestInChoicesIsCaseSensitive(t *testing.T) {
	s := feedTokens("Run")
	_, err := s.Capture()
	require.NoError(t, err)

	assert.True(t, s.InChoices("stop", "Run"))
	assert.False(t, s.InChoices("run", "RUN"))
	assert.False(t, s.InChoices())
}

func TestYesOrNo(t *testing.T) {
	tests := []struct {
		in      string
		yesOrNo bool
		yes     bool
	}{
		{"y", true, true},
		{"Y", true, true},
		{"n", true, false},
		{"N", true, false},
		{"yes", false, false},
		{"no", false, false},
		{"yy", false, false},
		{"x", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s := feedTokens(tt.in)
			_, err := s.Capture()
			require.NoError(t, err)
			assert.Equal(t, tt.yesOrNo, s.IsYesOrNo())
			assert.Equal(t, tt.yes, s.Yes())
		})
	}
}

func TestBlankLines(t *testing.T) {
	var out bytes.Buffer
	s := NewTokens(strings.NewReader(""), WithWriter(&out))

	require.NoError(t, s.NewLine())
	require.NoError(t, s.Blank(3))
	require.NoError(t, s.Blank(0))
	require.NoError(t, s.Blank(-2))
	assert.Equal(t, "\n\n\n\n", out.String())

	s = NewTokens(strings.NewReader(""), WithWriter(failingWriter{}))
	assert.Error(t, s.Blank(1))
}

func TestShellQuoting(t *testing.T) {
	s := NewTokens(strings.NewReader("say \"hello world\"\n\nnext"), WithShellQuoting())

	for _, want := range []string{"say", "hello world", "next"} {
		v, err := s.Capture()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	_, err := s.Capture()
	assert.ErrorIs(t, err, io.EOF)
}

func TestShellQuotingKeepsHashTokens(t *testing.T) {
	s := NewTokens(strings.NewReader("#1 2\nnext\n"), WithShellQuoting())

	for _, want := range []string{"#1", "2", "next"} {
		v, err := s.Capture()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestShellQuotingUnterminated(t *testing.T) {
	s := NewTokens(strings.NewReader("\"oops\nok\n"), WithShellQuoting())

	_, err := s.Capture()
	require.ErrorIs(t, err, ErrMalformedInput)

	v, err := s.Capture()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestSplitTokens(t *testing.T) {
	toks, err := SplitTokens("  a  'b c' ", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "'b", "c'"}, toks)

	toks, err = SplitTokens("  a  'b c' ", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b c"}, toks)
}

func TestSplitTokensKeepsHash(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"#1 2", []string{"#1", "2"}},
		{"a #b c", []string{"a", "#b", "c"}},
		{"a#b", []string{"a#b"}},
		{`'#x' "#y"`, []string{"#x", "#y"}},
		{`"say \"#hi\"" #`, []string{`say "#hi"`, "#"}},
		{`a\#b`, []string{"a#b"}},
		{`'it\' #z`, []string{`it\`, "#z"}},
	}
	for _, tt := range tests {
		toks, err := SplitTokens(tt.line, true)
		if err != nil {
			t.Fatalf("SplitTokens(%q): unexpected error %v", tt.line, err)
		}
		assert.Equal(t, tt.want, toks, "line %q", tt.line)
	}
}

func TestFeedOrder(t *testing.T) {
	f := &Feed[rune]{}
	f.Push('a', 'b')
	assert.Equal(t, 2, f.Len())

	r, err := f.Capture()
	require.NoError(t, err)
	assert.Equal(t, 'a', r)
	r, err = f.Capture()
	require.NoError(t, err)
	assert.Equal(t, 'b', r)
	_, err = f.Capture()
	assert.ErrorIs(t, err, ErrNoInput)
}
