package format_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"psfmt/internal/config"
	"psfmt/internal/format"
)

var optionSets = map[string]config.Options{
	"default": {},
	"allman-upper-sorted": {
		BraceStyle:        config.Ptr("allman"),
		KeywordCase:       config.Ptr("upper"),
		SortHashtableKeys: config.Ptr(true),
		TrailingSeparator: config.Ptr("all"),
	},
	"narrow-tabs-rewrites": {
		IndentStyle:       config.Ptr("tabs"),
		KeywordCase:       config.Ptr("pascal"),
		LineWidth:         config.Ptr(40),
		PreferSingleQuote: config.Ptr(true),
		RewriteAliases:    config.Ptr(true),
		TrailingSeparator: config.Ptr("none"),
	},
}

func loadCorpus(t *testing.T) map[string]string {
	t.Helper()
	dir := filepath.Join("..", "..", "testdata", "format")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read corpus: %v", err)
	}
	out := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".ps1" {
			continue
		}
		// #nosec G304 -- path comes from repository testdata
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		out[e.Name()] = string(data)
	}
	if len(out) == 0 {
		t.Fatal("empty corpus")
	}
	return out
}

func TestCorpusRoundTrip(t *testing.T) {
	corpus := loadCorpus(t)
	for optName, opts := range optionSets {
		for name, src := range corpus {
			t.Run(optName+"/"+name, func(t *testing.T) {
				ok, msg := format.CheckRoundTrip(src, opts)
				if !ok {
					t.Fatalf("%s\noutput:\n%s", msg, format.Format(src, opts))
				}
				if msg != "fmt-check: OK" {
					t.Fatalf("unexpected message %q", msg)
				}
			})
		}
	}
}

func TestCorpusOutputShape(t *testing.T) {
	for name, src := range loadCorpus(t) {
		out := format.Format(src, config.Options{})
		if strings.HasSuffix(out, "\n") {
			t.Fatalf("%s: output ends with a newline", name)
		}
		for i, line := range strings.Split(out, "\n") {
			if strings.TrimRight(line, " \t") != line {
				t.Fatalf("%s:%d: trailing whitespace in %q", name, i+1, line)
			}
		}
	}
}

func TestMessyInputIsNormalized(t *testing.T) {
	src := "function  Test-It ( $a,$b ){\nif($a){ return $b }\n  $x=@{b=2;a=1}\n    $y = $x.Keys|Sort-Object\n}"
	want := "function Test-It ($a, $b) {\n" +
		"  if ($a) { return $b }\n" +
		"  $x = @{ b = 2; a = 1 }\n" +
		"  $y = $x.Keys | Sort-Object\n" +
		"}"
	expectFormat(t, src, config.Options{}, want)
}

func TestCheckRoundTripMessages(t *testing.T) {
	ok, msg := format.CheckRoundTrip("a | b", config.Options{})
	if !ok || msg != "fmt-check: OK" {
		t.Fatalf("got %v %q", ok, msg)
	}
	ok, _ = format.CheckRoundTrip("", config.Options{})
	if !ok {
		t.Fatal("empty input must round-trip")
	}
}
