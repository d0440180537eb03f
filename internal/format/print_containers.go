package format

import (
	"slices"
	"strings"

	"psfmt/internal/ast"
	"psfmt/internal/config"
	"psfmt/internal/doc"
)

// hashtable: "@{}" when empty, otherwise a group with one entry per line
// when broken. Entries are separated by ';'; the last separator follows the
// trailing separator policy. Comments force the table to break.
func (p *printer) hashtable(ht *ast.Hashtable) doc.Doc {
	if len(ht.Entries) == 0 {
		if len(ht.Dangling) == 0 {
			return doc.Text("@{}")
		}
		cs := make([]doc.Doc, 0, len(ht.Dangling))
		for _, c := range ht.Dangling {
			cs = append(cs, p.comment(c))
		}
		return doc.Cat(doc.Text("@{"), doc.Indent{Contents: doc.Cat(doc.HardLine, doc.Join(doc.HardLine, cs))}, doc.HardLine, doc.Text("}"))
	}

	entries := ht.Entries
	if p.cfg.SortHashtableKeys {
		entries = slices.Clone(entries)
		slices.SortStableFunc(entries, func(a, b *ast.HashtableEntry) int {
			return strings.Compare(strings.ToLower(a.Key), strings.ToLower(b.Key))
		})
	}

	id := p.b.NewGroupID()
	hasComments := false
	var body []doc.Doc
	for k, en := range entries {
		if k > 0 {
			body = append(body, doc.LineOrSpace)
		}
		for _, c := range en.LeadingComments {
			body = append(body, p.comment(c), doc.HardLine)
			hasComments = true
		}
		body = append(body, p.entry(en))
		if k < len(entries)-1 {
			body = append(body, doc.Text(";"))
		} else {
			body = append(body, p.lastSeparator(id))
		}
		if len(en.TrailingComments) > 0 {
			hasComments = true
			body = append(body, p.trailing(en.TrailingComments)...)
		}
	}
	return &doc.Group{
		Contents: doc.Cat(doc.Text("@{"), doc.Indent{Contents: doc.Cat(doc.LineOrSpace, doc.Cat(body...))}, doc.LineOrSpace, doc.Text("}")),
		ID:       id,
		Break:    hasComments,
	}
}

func (p *printer) entry(en *ast.HashtableEntry) doc.Doc {
	key := p.expr(en.RawKey, exprCtx{})
	if !en.HasValue {
		return key
	}
	if en.Value.Empty() {
		return doc.Cat(key, doc.Text(" ="))
	}
	return doc.Cat(key, doc.Text(" = "), p.expr(en.Value, exprCtx{command: true}))
}

func (p *printer) lastSeparator(id doc.GroupID) doc.Doc {
	switch p.cfg.TrailingSeparator {
	case config.SeparatorAll:
		return doc.Text(";")
	case config.SeparatorMultiline:
		return doc.IfBreak{Broken: doc.Text(";"), Group: id}
	default:
		return nil
	}
}

// array: "@(...)" or "[...]". More than one element always breaks, one
// element per line; commas are kept where the source had them, never after
// the last element. An indexer glued to its operand stays inline.
func (p *printer) array(arr *ast.ArrayLiteral, glued bool) doc.Doc {
	open, closer := "@(", ")"
	ctx := exprCtx{command: true}
	if arr.Kind == ast.ArrayExplicit {
		open, closer = "[", "]"
		ctx = exprCtx{}
	}
	if len(arr.Elements) == 0 {
		return doc.Text(open + closer)
	}
	hasCommentElem := slices.ContainsFunc(arr.Elements, isCommentElement)

	if arr.Kind == ast.ArrayExplicit && glued && !hasCommentElem {
		parts := []doc.Doc{doc.Text(open)}
		for k, el := range arr.Elements {
			parts = append(parts, p.expr(el, ctx))
			if k < len(arr.Elements)-1 {
				if arr.Commas[k] {
					parts = append(parts, doc.Text(","))
				}
				parts = append(parts, doc.Text(" "))
			}
		}
		return doc.Cat(append(parts, doc.Text(closer))...)
	}

	if len(arr.Elements) == 1 && !hasCommentElem {
		el := p.expr(arr.Elements[0], ctx)
		if doc.ForcesBreak(el) {
			return doc.Cat(doc.Text(open), el, doc.Text(closer))
		}
		return p.b.Group(doc.Cat(
			doc.Text(open),
			doc.Indent{Contents: doc.Cat(doc.SoftLine, el)},
			doc.SoftLine,
			doc.Text(closer),
		))
	}

	var body []doc.Doc
	last := lastCodeElement(arr.Elements)
	for k, el := range arr.Elements {
		body = append(body, doc.HardLine)
		if isCommentElement(el) {
			body = append(body, p.commentElement(el))
			continue
		}
		body = append(body, p.element(el, ctx, k < last && arr.Commas[k]))
	}
	return doc.Cat(doc.Text(open), doc.Indent{Contents: doc.Cat(body...)}, doc.HardLine, doc.Text(closer))
}

// paren: one element written on one line is a soft group; a parenthesis
// written over several lines, holding comments, or holding several elements
// without commas is broken; a comma list may stay inline.
func (p *printer) paren(par *ast.Parenthesis) doc.Doc {
	if len(par.Elements) == 0 {
		return doc.Text("()")
	}
	ctx := exprCtx{command: true}
	hasCommentElem := slices.ContainsFunc(par.Elements, isCommentElement)
	if len(par.Elements) == 1 && !par.HasNewline && !hasCommentElem {
		el := p.expr(par.Elements[0], ctx)
		if doc.ForcesBreak(el) {
			return doc.Cat(doc.Text("("), el, doc.Text(")"))
		}
		return p.b.Group(doc.Cat(
			doc.Text("("),
			doc.Indent{Contents: doc.Cat(doc.SoftLine, el)},
			doc.SoftLine,
			doc.Text(")"),
		))
	}

	forced := par.HasNewline || hasCommentElem || !par.HasComma
	sep := doc.Doc(doc.LineOrSpace)
	if forced {
		sep = doc.HardLine
	}
	var body []doc.Doc
	last := lastCodeElement(par.Elements)
	for k, el := range par.Elements {
		if k > 0 {
			body = append(body, sep)
		}
		if isCommentElement(el) {
			body = append(body, p.commentElement(el))
			continue
		}
		body = append(body, p.element(el, ctx, k < last && par.Commas[k]))
	}
	inner := doc.Cat(doc.Text("("), doc.Indent{Contents: doc.Cat(doc.SoftLine, doc.Cat(body...))}, doc.SoftLine, doc.Text(")"))
	return &doc.Group{Contents: inner, Break: forced}
}

// param lays out a param(...) list: one parameter per line, attributes on
// the lines before it, a type attribute glued to the variable by a space.
func (p *printer) param(par *ast.Parenthesis) doc.Doc {
	if len(par.Elements) == 0 {
		return doc.Text("()")
	}
	var body []doc.Doc
	last := lastCodeElement(par.Elements)
	for k, el := range par.Elements {
		body = append(body, doc.HardLine)
		if isCommentElement(el) {
			body = append(body, p.commentElement(el))
			continue
		}
		body = append(body, p.parameter(el), commaIf(k < last && par.Commas[k]))
		body = append(body, p.trailing(el.Trailing)...)
	}
	return doc.Cat(doc.Text("("), doc.Indent{Contents: doc.Cat(body...)}, doc.HardLine, doc.Text(")"))
}

func (p *printer) parameter(el *ast.Expression) doc.Doc {
	n := 0
	for n < len(el.Parts) {
		t, ok := el.Parts[n].(*ast.Text)
		if !ok || t.Role != ast.RoleAttribute {
			break
		}
		n++
	}
	if n == 0 {
		return p.parts(el, exprCtx{})
	}
	var out []doc.Doc
	for k := 0; k < n-1; k++ {
		out = append(out, doc.Text(el.Parts[k].(*ast.Text).Value), doc.HardLine)
	}
	lastAttr := el.Parts[n-1].(*ast.Text).Value
	out = append(out, doc.Text(lastAttr))
	if n == len(el.Parts) {
		return doc.Cat(out...)
	}
	if strings.Contains(lastAttr, "(") {
		out = append(out, doc.HardLine)
	} else {
		out = append(out, doc.Text(" "))
	}
	rest := &ast.Expression{Parts: el.Parts[n:], Spaced: el.Spaced[n:]}
	out = append(out, p.parts(rest, exprCtx{}))
	return doc.Cat(out...)
}

func commaIf(ok bool) doc.Doc {
	if ok {
		return doc.Text(",")
	}
	return nil
}

func (p *printer) commentElement(el *ast.Expression) doc.Doc {
	return p.comment(el.Parts[0].(*ast.Comment))
}

// isCommentElement matches an element that is a lone own-line comment.
func isCommentElement(el *ast.Expression) bool {
	if len(el.Parts) != 1 {
		return false
	}
	_, ok := el.Parts[0].(*ast.Comment)
	return ok
}

// lastCodeElement returns the index of the last element that is not a
// comment, or -1.
func lastCodeElement(els []*ast.Expression) int {
	for k := len(els) - 1; k >= 0; k-- {
		if !isCommentElement(els[k]) {
			return k
		}
	}
	return -1
}
