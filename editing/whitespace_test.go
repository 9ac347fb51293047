package editing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRebalancedWhitespace(t *testing.T) {
	for _, tc := range []struct {
		in         string
		start, end bool
		out        string
	}{
		{"a b", false, false, "a b"},
		{"a  b", false, false, "a \u00a0b"},
		{"a   b", false, false, "a \u00a0 b"},
		{" a", true, false, "\u00a0a"},
		{"a ", false, true, "a\u00a0"},
		{"a ", false, false, "a "},
		{"  ", true, true, "\u00a0\u00a0"},
		{"a\u00a0\u00a0b", false, false, "a \u00a0b"},
	} {
		assert.Equal(t, tc.out, stringWithRebalancedWhitespace(tc.in, tc.start, tc.end), "input %q", tc.in)
	}
}

func TestRebalancedWhitespaceProperties(t *testing.T) {
	alphabet := rapid.SampledFrom([]rune{'a', 'b', ' ', '\u00a0', '\t'})
	rapid.Check(t, func(t *rapid.T) {
		s := string(rapid.SliceOf(alphabet).Draw(t, "runes"))
		start := rapid.Bool().Draw(t, "start")
		end := rapid.Bool().Draw(t, "end")
		once := stringWithRebalancedWhitespace(s, start, end)
		if n, m := len([]rune(s)), len([]rune(once)); n != m {
			t.Fatalf("length changed from %d to %d", n, m)
		}
		if twice := stringWithRebalancedWhitespace(once, start, end); twice != once {
			t.Fatalf("not idempotent: %q -> %q", once, twice)
		}
		if strings.Contains(once, "  ") {
			t.Fatalf("collapsible run left in %q", once)
		}
		in, out := []rune(s), []rune(once)
		for i := range in {
			if !isWhitespace(in[i]) && in[i] != out[i] {
				t.Fatalf("text changed at %d: %q", i, once)
			}
		}
	})
}
