package parser

import (
	"strings"

	"psfmt/internal/ast"
	"psfmt/internal/source"
	"psfmt/internal/token"
)

// item is one element of a frame: a plain token or an already built structure.
type item struct {
	tok  token.Token
	node ast.Node
}

func (it item) span() source.Span {
	if it.node != nil {
		return it.node.Loc()
	}
	return it.tok.Span
}

func (it item) isTok(k token.Kind) bool { return it.node == nil && it.tok.Kind == k }
func (it item) isNewline() bool         { return it.isTok(token.Newline) }
func (it item) isComment() bool         { return it.node == nil && it.tok.IsComment() }
func (it item) isPunct(s string) bool   { return it.node == nil && it.tok.IsPunct(s) }
func (it item) isOp(s string) bool      { return it.node == nil && it.tok.IsOp(s) }

func (it item) isBlock() bool {
	_, ok := it.node.(*ast.ScriptBlock)
	return ok
}

// keyword returns the lowercased keyword text, or "" for anything else.
func (it item) keyword() string {
	if it.node != nil || it.tok.Kind != token.Keyword {
		return ""
	}
	return strings.ToLower(it.tok.Text)
}

// inlineAt reports whether items[i] shares its line with something before it.
// The first item of a bracketed frame shares the line of the opener.
func inlineAt(items []item, i int, hasOpener bool) bool {
	if i == 0 {
		return hasOpener
	}
	return !items[i-1].isNewline()
}

// sameLineContentFollows reports whether something other than a line break
// or statement separator follows items[i] on the same line.
func sameLineContentFollows(items []item, i int) bool {
	if i+1 >= len(items) {
		return false
	}
	next := items[i+1]
	return !next.isNewline() && !next.isPunct(";") && !next.isComment()
}

var clauseKeywords = map[string]struct{}{
	"else": {}, "elseif": {}, "catch": {}, "finally": {},
}

var controlKeywords = map[string]struct{}{
	"if": {}, "elseif": {}, "else": {}, "foreach": {}, "for": {}, "while": {},
	"switch": {}, "try": {}, "catch": {}, "finally": {}, "do": {}, "until": {},
	"trap": {}, "begin": {}, "process": {}, "end": {}, "dynamicparam": {},
	"class": {}, "enum": {}, "data": {}, "parallel": {}, "sequence": {},
	"inlinescript": {}, "configuration": {},
}

// IsControlKeyword reports whether kw (lowercase) introduces a statement whose
// body is a script block, such as "if" or "foreach".
func IsControlKeyword(kw string) bool {
	_, ok := controlKeywords[kw]
	return ok
}

func isFunctionKeyword(kw string) bool {
	return kw == "function" || kw == "filter" || kw == "workflow"
}

func (p *Parser) comment(tok token.Token, inline bool) *ast.Comment {
	c := &ast.Comment{Value: tok.Text, Inline: inline}
	if tok.Kind == token.BlockComment {
		c.Style = ast.CommentBlock
	}
	c.Span = tok.Span
	return c
}

// part converts an item into an expression part.
func (p *Parser) part(it item) ast.Node {
	if it.node != nil {
		return it.node
	}
	tok := it.tok
	switch tok.Kind {
	case token.HereString:
		q := "\""
		if tok.Quote == token.QuoteSingle {
			q = "'"
		}
		hs := &ast.HereString{Quote: q, Value: tok.Text}
		hs.Span = tok.Span
		return hs
	case token.LineComment, token.BlockComment:
		return p.comment(tok, true)
	}
	t := &ast.Text{Value: tok.Text, Role: roleOf(tok.Kind)}
	t.Span = tok.Span
	return t
}

func roleOf(k token.Kind) ast.Role {
	switch k {
	case token.Identifier:
		return ast.RoleWord
	case token.Keyword:
		return ast.RoleKeyword
	case token.Number:
		return ast.RoleNumber
	case token.Variable:
		return ast.RoleVariable
	case token.String:
		return ast.RoleString
	case token.Operator:
		return ast.RoleOperator
	case token.Punctuation:
		return ast.RolePunctuation
	case token.Attribute:
		return ast.RoleAttribute
	default:
		return ast.RoleUnknown
	}
}
