package parser

import (
	"psfmt/internal/ast"
	"psfmt/internal/source"
	"psfmt/internal/token"
)

// hashtable splits "@{ ... }" content into entries at ';' and line breaks.
func (p *Parser) hashtable(items []item, sp source.Span) *ast.Hashtable {
	ht := &ast.Hashtable{}
	ht.Span = sp
	var pending []*ast.Comment // комментарии на отдельных строках до следующей записи

	lastEntry := func() *ast.HashtableEntry {
		if len(ht.Entries) == 0 {
			return nil
		}
		return ht.Entries[len(ht.Entries)-1]
	}

	for _, seg := range splitEntries(items) {
		core, lead, trail := trimComments(items, seg)
		if len(core) == 0 {
			for k, idx := range lead {
				tok := items[idx].tok
				if e := lastEntry(); k == 0 && e != nil && inlineAt(items, idx, true) {
					e.TrailingComments = append(e.TrailingComments, p.comment(tok, len(e.TrailingComments) == 0))
					e.Span = e.Span.Cover(tok.Span)
					continue
				}
				pending = append(pending, p.comment(tok, false))
			}
			continue
		}

		entry := &ast.HashtableEntry{LeadingComments: pending}
		pending = nil
		for _, idx := range lead {
			entry.LeadingComments = append(entry.LeadingComments, p.comment(items[idx].tok, false))
		}

		var key, value exprBuilder
		eq := -1
		for k, idx := range core {
			it := items[idx]
			if eq < 0 && it.isOp("=") {
				eq = k
				continue
			}
			if eq < 0 {
				key.add(p.part(it))
			} else {
				value.add(p.part(it))
			}
		}
		entry.RawKey = key.build(p.file, items[core[0]].span().Start)
		entry.HasValue = eq >= 0
		valueOff := entry.RawKey.Span.End
		if eq >= 0 {
			valueOff = items[core[eq]].tok.Span.End
		}
		entry.Value = value.build(p.file, valueOff)
		entry.Key = plainKey(entry.RawKey)

		for k, idx := range trail {
			entry.TrailingComments = append(entry.TrailingComments, p.comment(items[idx].tok, k == 0))
		}

		esp := entry.RawKey.Span.Cover(entry.Value.Span)
		for _, idx := range core {
			esp = esp.Cover(items[idx].span())
		}
		for _, c := range entry.LeadingComments {
			esp = esp.Cover(c.Span)
		}
		for _, c := range entry.TrailingComments {
			esp = esp.Cover(c.Span)
		}
		entry.Span = esp
		ht.Entries = append(ht.Entries, entry)
	}

	if e := lastEntry(); e != nil {
		for _, c := range pending {
			e.TrailingComments = append(e.TrailingComments, c)
			e.Span = e.Span.Cover(c.Span)
		}
	} else {
		ht.Dangling = pending
	}
	return ht
}

// splitEntries returns index lists of hashtable segments. A line break does
// not split when the segment so far ends with a continuation operator
// ("key =" followed by the value on the next line).
func splitEntries(items []item) [][]int {
	var out [][]int
	var cur []int
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	skipNewline := false
	for i, it := range items {
		switch {
		case it.isTok(token.LineContinuation):
			skipNewline = true
			continue
		case it.isNewline():
			if skipNewline || endsWithOperator(items, cur) {
				skipNewline = false
				continue
			}
			flush()
		case it.isPunct(";"):
			flush()
		default:
			cur = append(cur, i)
		}
		skipNewline = false
	}
	flush()
	return out
}

func endsWithOperator(items []item, idx []int) bool {
	for k := len(idx) - 1; k >= 0; k-- {
		it := items[idx[k]]
		if it.isComment() {
			continue
		}
		if it.node != nil {
			return false
		}
		return it.isPunct(",") || (it.tok.Kind == token.Operator && isContinuationOperator(it.tok.Text))
	}
	return false
}

// trimComments separates leading and trailing comments of a segment from its
// core. Comments between core items stay in the core as expression parts.
func trimComments(items []item, seg []int) (core, lead, trail []int) {
	lo, hi := 0, len(seg)
	for lo < hi && items[seg[lo]].isComment() {
		lo++
	}
	for hi > lo && items[seg[hi-1]].isComment() {
		hi--
	}
	return seg[lo:hi], seg[:lo], seg[hi:]
}

// elementList splits array or parenthesis content into elements.
type elementList struct {
	elems      []*exprBuilder
	commas     []bool
	hasComma   bool
	hasNewline bool
}

func (l *elementList) push(b *exprBuilder, comma bool) {
	l.elems = append(l.elems, b)
	l.commas = append(l.commas, comma)
}

// splitElements splits at top-level commas, and also at line breaks and ';'
// when splitLines is set (arrays). Own-line comments become elements of
// their own; same-line comments trail the element before them.
func (p *Parser) splitElements(items []item, splitLines bool) *elementList {
	l := &elementList{}
	cur := &exprBuilder{}
	flush := func(comma bool) {
		if cur.empty() && len(cur.trailing) == 0 && !comma {
			return
		}
		l.push(cur, comma)
		cur = &exprBuilder{}
	}
	skipNewline := false
	for i, it := range items {
		switch {
		case it.isTok(token.LineContinuation):
			skipNewline = true
			continue
		case it.isPunct(","):
			if cur.empty() {
				// унарная запятая: @(,1)
				cur.add(p.part(it))
				break
			}
			l.hasComma = true
			flush(true)
		case it.isNewline():
			if !skipNewline {
				l.hasNewline = true
				if splitLines && !cur.endsWithContinuation() {
					flush(false)
				}
			}
		case splitLines && it.isPunct(";"):
			flush(false)
		case it.isComment():
			switch {
			case leadsExpression(items, i) && !cur.empty():
				cur.add(p.part(it))
			case inlineAt(items, i, true) && !cur.empty():
				cur.trailing = append(cur.trailing, p.comment(it.tok, true))
			case inlineAt(items, i, true) && i > 0 && len(l.elems) > 0:
				prev := l.elems[len(l.elems)-1]
				prev.trailing = append(prev.trailing, p.comment(it.tok, true))
			default:
				flush(false)
				cur.add(p.comment(it.tok, inlineAt(items, i, true)))
				flush(false)
			}
		default:
			cur.add(p.part(it))
		}
		skipNewline = false
	}
	flush(false)
	return l
}

func (l *elementList) build(p *Parser, sp source.Span) []*ast.Expression {
	out := make([]*ast.Expression, len(l.elems))
	for i, b := range l.elems {
		out[i] = b.build(p.file, sp.Start)
	}
	return out
}

func (p *Parser) array(items []item, sp source.Span, kind ast.ArrayKind) *ast.ArrayLiteral {
	l := p.splitElements(items, true)
	arr := &ast.ArrayLiteral{Elements: l.build(p, sp), Commas: l.commas, Kind: kind}
	arr.Span = sp
	return arr
}

func (p *Parser) parenthesis(items []item, sp source.Span) *ast.Parenthesis {
	l := p.splitElements(items, false)
	par := &ast.Parenthesis{Elements: l.build(p, sp), Commas: l.commas, HasComma: l.hasComma, HasNewline: l.hasNewline}
	par.Span = sp
	return par
}
