package parser

import (
	"strings"

	"psfmt/internal/ast"
	"psfmt/internal/source"
	"psfmt/internal/token"
)

// exprBuilder accumulates the parts of one expression.
type exprBuilder struct {
	parts    []ast.Node
	spaced   []bool
	trailing []*ast.Comment
}

func (b *exprBuilder) empty() bool { return len(b.parts) == 0 }

func (b *exprBuilder) add(n ast.Node) {
	if t, ok := n.(*ast.Text); ok && t.Role == ast.RoleKeyword && len(b.parts) > 0 {
		// член объекта ($x.Begin, [T]::Static) или аргумент команды
		if prev, ok := b.parts[len(b.parts)-1].(*ast.Text); ok && (prev.Value == "." || prev.Value == "::") {
			t.Role = ast.RoleWord
		} else if first, ok := b.parts[0].(*ast.Text); ok && first.Role == ast.RoleWord {
			t.Role = ast.RoleWord
		}
	}
	spaced := false
	if k := len(b.parts); k > 0 {
		spaced = b.parts[k-1].Loc().End != n.Loc().Start
	}
	b.parts = append(b.parts, n)
	b.spaced = append(b.spaced, spaced)
}

func (b *exprBuilder) last() ast.Node {
	if len(b.parts) == 0 {
		return nil
	}
	return b.parts[len(b.parts)-1]
}

func (b *exprBuilder) lastIsBlock() bool {
	_, ok := b.last().(*ast.ScriptBlock)
	return ok
}

// endsWithContinuation reports whether the expression ends with an operator
// that makes the next line part of the same expression.
func (b *exprBuilder) endsWithContinuation() bool {
	t, ok := b.last().(*ast.Text)
	if !ok {
		return false
	}
	switch t.Role {
	case ast.RolePunctuation:
		return t.Value == ","
	case ast.RoleOperator:
		return isContinuationOperator(t.Value)
	default:
		return false
	}
}

func isContinuationOperator(op string) bool {
	switch {
	case token.IsAssignOperator(op):
		return true
	case op == "&&" || op == "||" || op == "|":
		return true
	case len(op) > 1 && op[0] == '-' && token.IsWordOperator(op[1:]):
		return true
	}
	return false
}

// build finishes the expression. An empty expression gets a degenerate
// location at off.
func (b *exprBuilder) build(file source.FileID, off uint32) *ast.Expression {
	e := &ast.Expression{Parts: b.parts, Spaced: b.spaced, Trailing: b.trailing}
	sp := source.At(file, off)
	if len(b.parts) > 0 {
		sp = b.parts[0].Loc()
	} else if len(b.trailing) > 0 {
		sp = b.trailing[0].Loc()
	}
	for _, n := range b.parts {
		sp = sp.Cover(n.Loc())
	}
	for _, c := range b.trailing {
		sp = sp.Cover(c.Loc())
	}
	e.Span = sp
	return e
}

// plainKey returns the hashtable key text used for sorting: a lone string is
// unquoted, anything else is the concatenation of its leaf texts.
func plainKey(e *ast.Expression) string {
	if len(e.Parts) == 1 {
		if t, ok := e.Parts[0].(*ast.Text); ok && t.Role == ast.RoleString && len(t.Value) >= 2 {
			return t.Value[1 : len(t.Value)-1]
		}
	}
	var sb strings.Builder
	for _, n := range e.Parts {
		if t, ok := n.(*ast.Text); ok {
			sb.WriteString(t.Value)
		}
	}
	return sb.String()
}
