// Package config resolves sparse user formatting options into a complete,
// clamped settings record, and loads options from .psfmt.toml / .psfmt.yaml
// files.
package config

// IndentStyle selects the indent unit.
type IndentStyle uint8

const (
	IndentSpaces IndentStyle = iota
	IndentTabs
)

// TrailingSeparator controls the separator after the last hashtable entry.
type TrailingSeparator uint8

const (
	SeparatorMultiline TrailingSeparator = iota // only when the table is broken
	SeparatorNone
	SeparatorAll
)

// BraceStyle controls where opening braces of statement bodies go.
type BraceStyle uint8

const (
	BraceOTBS BraceStyle = iota // "1tbs"
	BraceAllman
)

// KeywordCase is the case transform applied to keyword leaves.
type KeywordCase uint8

const (
	KeywordPreserve KeywordCase = iota
	KeywordLower
	KeywordUpper
	KeywordPascal
)

var (
	indentStyleNames = map[string]IndentStyle{"spaces": IndentSpaces, "tabs": IndentTabs}
	separatorNames   = map[string]TrailingSeparator{
		"none": SeparatorNone, "multiline": SeparatorMultiline, "all": SeparatorAll,
	}
	braceNames       = map[string]BraceStyle{"1tbs": BraceOTBS, "allman": BraceAllman}
	keywordCaseNames = map[string]KeywordCase{
		"preserve": KeywordPreserve, "lower": KeywordLower, "upper": KeywordUpper, "pascal": KeywordPascal,
	}
)

func (s IndentStyle) String() string       { return nameOf(indentStyleNames, s) }
func (s TrailingSeparator) String() string { return nameOf(separatorNames, s) }
func (s BraceStyle) String() string        { return nameOf(braceNames, s) }
func (c KeywordCase) String() string       { return nameOf(keywordCaseNames, c) }

func nameOf[T comparable](m map[string]T, v T) string {
	for k, x := range m {
		if x == v {
			return k
		}
	}
	return "?"
}

// Options is the sparse user configuration. A nil field means "not set".
// Enum fields are strings so unknown values survive loading and fall back
// to defaults in Resolve.
type Options struct {
	IndentStyle                *string  `toml:"indentStyle" yaml:"indentStyle"`
	IndentSize                 *int     `toml:"indentSize" yaml:"indentSize"`
	TabWidth                   *int     `toml:"tabWidth" yaml:"tabWidth"`
	TrailingSeparator          *string  `toml:"trailingSeparator" yaml:"trailingSeparator"`
	SortHashtableKeys          *bool    `toml:"sortHashtableKeys" yaml:"sortHashtableKeys"`
	BlankLinesBetweenFunctions *int     `toml:"blankLinesBetweenFunctions" yaml:"blankLinesBetweenFunctions"`
	BlankLineAfterParam        *bool    `toml:"blankLineAfterParam" yaml:"blankLineAfterParam"`
	BraceStyle                 *string  `toml:"braceStyle" yaml:"braceStyle"`
	LineWidth                  *int     `toml:"lineWidth" yaml:"lineWidth"`
	PrintWidth                 *int     `toml:"printWidth" yaml:"printWidth"`
	PreferSingleQuote          *bool    `toml:"preferSingleQuote" yaml:"preferSingleQuote"`
	KeywordCase                *string  `toml:"keywordCase" yaml:"keywordCase"`
	RewriteAliases             *bool    `toml:"rewriteAliases" yaml:"rewriteAliases"`
	RewriteWriteHost           *bool    `toml:"rewriteWriteHost" yaml:"rewriteWriteHost"`
	Exclude                    []string `toml:"exclude" yaml:"exclude"`
}

// Resolved is the fully populated settings record consumed by the printer.
type Resolved struct {
	IndentStyle                IndentStyle
	IndentSize                 int
	TrailingSeparator          TrailingSeparator
	SortHashtableKeys          bool
	BlankLinesBetweenFunctions int
	BlankLineAfterParam        bool
	BraceStyle                 BraceStyle
	LineWidth                  int
	PreferSingleQuote          bool
	KeywordCase                KeywordCase
	RewriteAliases             bool
	RewriteWriteHost           bool
}

const (
	DefaultIndentSize      = 2
	DefaultLineWidth       = 120
	MinLineWidth           = 40
	MaxLineWidth           = 200
	DefaultBlankLinesFuncs = 1
	MaxBlankLinesFuncs     = 3
)

// Default returns the settings for an empty Options.
func Default() Resolved { return Resolve(Options{}) }

// Resolve fills every field of the settings record. Out-of-range numbers are
// clamped and unknown enum names fall back to defaults; nothing is rejected.
func Resolve(o Options) Resolved {
	r := Resolved{
		IndentStyle:                lookup(indentStyleNames, o.IndentStyle, IndentSpaces),
		TrailingSeparator:          lookup(separatorNames, o.TrailingSeparator, SeparatorMultiline),
		SortHashtableKeys:          boolOr(o.SortHashtableKeys, false),
		BlankLineAfterParam:        boolOr(o.BlankLineAfterParam, true),
		BraceStyle:                 lookup(braceNames, o.BraceStyle, BraceOTBS),
		PreferSingleQuote:          boolOr(o.PreferSingleQuote, false),
		KeywordCase:                lookup(keywordCaseNames, o.KeywordCase, KeywordPreserve),
		RewriteAliases:             boolOr(o.RewriteAliases, false),
		RewriteWriteHost:           boolOr(o.RewriteWriteHost, false),
		BlankLinesBetweenFunctions: clamp(intOr(o.BlankLinesBetweenFunctions, DefaultBlankLinesFuncs), 0, MaxBlankLinesFuncs),
	}

	// indentSize перекрывает tabWidth; верхней границы нет
	size := DefaultIndentSize
	switch {
	case o.IndentSize != nil:
		size = *o.IndentSize
	case o.TabWidth != nil:
		size = *o.TabWidth
	}
	if size < 1 {
		size = DefaultIndentSize
	}
	r.IndentSize = size

	width := clamp(intOr(o.LineWidth, DefaultLineWidth), MinLineWidth, MaxLineWidth)
	if o.PrintWidth != nil && *o.PrintWidth < width {
		width = max(*o.PrintWidth, MinLineWidth)
	}
	r.LineWidth = width
	return r
}

// Merge overlays the set fields of top onto base. Exclude patterns accumulate.
func Merge(base, top Options) Options {
	out := base
	setPtr(&out.IndentStyle, top.IndentStyle)
	setPtr(&out.IndentSize, top.IndentSize)
	setPtr(&out.TabWidth, top.TabWidth)
	setPtr(&out.TrailingSeparator, top.TrailingSeparator)
	setPtr(&out.SortHashtableKeys, top.SortHashtableKeys)
	setPtr(&out.BlankLinesBetweenFunctions, top.BlankLinesBetweenFunctions)
	setPtr(&out.BlankLineAfterParam, top.BlankLineAfterParam)
	setPtr(&out.BraceStyle, top.BraceStyle)
	setPtr(&out.LineWidth, top.LineWidth)
	setPtr(&out.PrintWidth, top.PrintWidth)
	setPtr(&out.PreferSingleQuote, top.PreferSingleQuote)
	setPtr(&out.KeywordCase, top.KeywordCase)
	setPtr(&out.RewriteAliases, top.RewriteAliases)
	setPtr(&out.RewriteWriteHost, top.RewriteWriteHost)
	if len(top.Exclude) > 0 {
		out.Exclude = append(append([]string(nil), base.Exclude...), top.Exclude...)
	}
	return out
}

func setPtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Ptr returns a pointer to v, for building Options literals.
func Ptr[T any](v T) *T { return &v }

func lookup[T any](m map[string]T, name *string, def T) T {
	if name == nil {
		return def
	}
	if v, ok := m[normalizeName(*name)]; ok {
		return v
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
