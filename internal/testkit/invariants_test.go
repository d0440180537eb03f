package testkit_test

import (
	"testing"

	"psfmt/internal/config"
	"psfmt/internal/format"
	"psfmt/internal/lexer"
	"psfmt/internal/testkit"
)

func TestHasUnterminated(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{`f("0")`, false},
		{`00000("0`, true},
		{"<# open", true},
		{"@'\nraw", true},
		{"a | b", false},
	}
	for _, tc := range cases {
		if got := testkit.HasUnterminated(lexer.Tokenize(tc.src)); got != tc.want {
			t.Fatalf("HasUnterminated(%q) = %v, want %v", tc.src, got, tc.want)
		}
	}
}

// Implicitly closed brackets are stable as long as no token swallows the
// synthesized closer.
func TestImplicitCloserIsStable(t *testing.T) {
	for _, src := range []string{"f(1", "@{ a = 1", "if ($a) { b"} {
		if ok, msg := format.CheckRoundTrip(src, config.Options{}); !ok {
			t.Fatalf("%q: %s\noutput: %q", src, msg, format.Format(src, config.Options{}))
		}
	}
}
