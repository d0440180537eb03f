package token

import (
	"psfmt/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Quote QuoteStyle
	// Unterminated marks a string, here-string, block comment, attribute or
	// braced variable that runs to the end of input without its closer.
	Unterminated bool
}

// Is reports whether the token has the given kind and exact text.
func (t Token) Is(k Kind, text string) bool {
	return t.Kind == k && t.Text == text
}

// IsOp reports whether the token is the operator spelled text.
func (t Token) IsOp(text string) bool { return t.Is(Operator, text) }

// IsPunct reports whether the token is the punctuation spelled text.
func (t Token) IsPunct(text string) bool { return t.Is(Punctuation, text) }

// IsComment reports whether the token is a line or block comment.
func (t Token) IsComment() bool {
	return t.Kind == LineComment || t.Kind == BlockComment
}

// IsOpener reports whether the token opens a balanced structure.
func (t Token) IsOpener() bool {
	switch t.Kind {
	case Punctuation:
		return t.Text == "(" || t.Text == "{" || t.Text == "["
	case Operator:
		return t.Text == "@{" || t.Text == "@(" || t.Text == "$("
	default:
		return false
	}
}

// IsCloser reports whether the token closes a balanced structure.
func (t Token) IsCloser() bool {
	return t.Kind == Punctuation && (t.Text == ")" || t.Text == "}" || t.Text == "]")
}

// Closer returns the closing spelling for an opener, or "" if t is not an opener.
func (t Token) Closer() string {
	if !t.IsOpener() {
		return ""
	}
	switch t.Text {
	case "(", "@(", "$(":
		return ")"
	case "{", "@{":
		return "}"
	default:
		return "]"
	}
}
