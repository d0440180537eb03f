package parser

import (
	"psfmt/internal/ast"
	"psfmt/internal/source"
	"psfmt/internal/token"
)

// statements segments the items of one statement list (script, block or
// subexpression body).
func (p *Parser) statements(items []item, hasOpener bool) []ast.Node {
	var out []ast.Node
	newlines := 0
	var blank source.Span
	i := 0
	for i < len(items) {
		it := items[i]
		switch {
		case it.isNewline():
			if newlines == 0 {
				blank = it.tok.Span
			}
			blank = blank.Cover(it.tok.Span)
			newlines++
			i++
			continue
		case it.isPunct(";"), it.isTok(token.LineContinuation):
			i++
			continue
		}

		if len(out) > 0 && newlines >= 2 {
			bl := &ast.BlankLine{Count: newlines - 1}
			bl.Span = blank
			out = append(out, bl)
		}
		newlines = 0

		start := i
		var stmt ast.Node
		switch {
		case it.isComment() && !leadsExpression(items, i):
			stmt = p.comment(it.tok, inlineAt(items, i, hasOpener))
			i++
		case isFunctionKeyword(it.keyword()):
			stmt, i = p.function(items, i)
		default:
			stmt, i = p.pipeline(items, i)
		}
		out = append(out, stmt)
		if i <= start {
			i = start + 1 // гарантия продвижения
		}
	}
	return out
}

// function parses "function Name(...) { ... }". The header runs up to the
// first script block; line breaks are skipped and comments collected.
func (p *Parser) function(items []item, i int) (*ast.FunctionDeclaration, int) {
	fn := &ast.FunctionDeclaration{}
	var hdr exprBuilder
	sp := items[i].span()
loop:
	for i < len(items) {
		it := items[i]
		switch {
		case it.isBlock() && !hdr.empty():
			fn.Body = it.node.(*ast.ScriptBlock)
			sp = sp.Cover(fn.Body.Span)
			i++
			break loop
		case it.isPunct(";"):
			i++
			break loop
		case it.isNewline(), it.isTok(token.LineContinuation):
			i++
		case it.isComment():
			c := p.comment(it.tok, inlineAt(items, i, false))
			fn.HeaderComments = append(fn.HeaderComments, c)
			sp = sp.Cover(c.Span)
			i++
		default:
			hdr.add(p.part(it))
			i++
		}
	}
	fn.Header = hdr.build(p.file, sp.Start)
	fn.Span = sp.Cover(fn.Header.Span)
	return fn, i
}

// pipeline parses one statement starting at items[i].
func (p *Parser) pipeline(items []item, i int) (*ast.Pipeline, int) {
	pl := &ast.Pipeline{}
	first := items[i].keyword()
	startOff := items[i].span().Start
	var seg exprBuilder
	lastEnd := startOff

	finish := func() *ast.Pipeline {
		if !seg.empty() || len(seg.trailing) > 0 || len(pl.Segments) > 0 {
			pl.Segments = append(pl.Segments, seg.build(p.file, lastEnd))
		}
		sp := source.At(p.file, startOff)
		for _, s := range pl.Segments {
			sp = sp.Cover(s.Span)
		}
		if pl.TrailingComment != nil {
			sp = sp.Cover(pl.TrailingComment.Span)
		}
		pl.Span = sp
		return pl
	}

	for i < len(items) {
		it := items[i]
		switch {
		case it.isNewline():
			j, crossed, ok := p.continuation(items, i, pl, &seg, first)
			if !ok {
				return finish(), i
			}
			seg.trailing = append(seg.trailing, crossed...)
			i = j
		case it.isTok(token.LineContinuation):
			i++
			if i < len(items) && items[i].isNewline() {
				i++
			}
		case it.isPunct(";"):
			// "a; # c" - комментарий остаётся при инструкции
			if k := i + 1; k < len(items) && items[k].isComment() && !leadsExpression(items, k) {
				pl.TrailingComment = p.comment(items[k].tok, true)
				return finish(), k + 1
			}
			return finish(), i + 1
		case it.isOp("|"):
			pl.Segments = append(pl.Segments, seg.build(p.file, it.tok.Span.Start))
			seg = exprBuilder{}
			lastEnd = it.tok.Span.End
			i++
		case it.isComment():
			inline := inlineAt(items, i, true)
			if leadsExpression(items, i) {
				seg.add(p.comment(it.tok, true))
				i++
				continue
			}
			if seg.empty() && len(pl.Segments) > 0 {
				// "a | # c" - конвейер продолжится на следующей строке
				seg.trailing = append(seg.trailing, p.comment(it.tok, inline))
				i++
				continue
			}
			if !inline {
				return finish(), i
			}
			if j, ok := nextIsPipe(items, i+1); ok {
				seg.trailing = append(seg.trailing, p.comment(it.tok, true))
				seg.trailing = append(seg.trailing, p.crossedComments(items, i+1, j)...)
				i = j
				continue
			}
			pl.TrailingComment = p.comment(it.tok, true)
			return finish(), i + 1
		default:
			n := p.part(it)
			seg.add(n)
			lastEnd = n.Loc().End
			i++
		}
	}
	return finish(), i
}

// continuation decides whether the statement goes on after the line break at
// items[i]. It returns the index to resume from and the comments crossed.
func (p *Parser) continuation(items []item, i int, pl *ast.Pipeline, seg *exprBuilder, first string) (int, []*ast.Comment, bool) {
	j := i
	for j < len(items) && (items[j].isNewline() || items[j].isComment()) {
		j++
	}
	if j >= len(items) {
		return 0, nil, false
	}
	next := items[j]
	ok := false
	switch {
	case next.isOp("|"):
		ok = true
	case seg.empty() && len(pl.Segments) > 0:
		ok = true
	case seg.endsWithContinuation():
		ok = true
	case seg.lastIsBlock() && isClauseFor(next.keyword(), first):
		ok = true
	case next.isBlock() && IsControlKeyword(first) && !seg.lastIsBlock():
		ok = true
	}
	if !ok {
		return 0, nil, false
	}
	return j, p.crossedComments(items, i, j), true
}

// leadsExpression reports whether the comment at items[i] is a block comment
// followed by code on the same line, which keeps it inside the expression.
func leadsExpression(items []item, i int) bool {
	return items[i].tok.Kind == token.BlockComment && sameLineContentFollows(items, i)
}

func isClauseFor(kw, first string) bool {
	if _, ok := clauseKeywords[kw]; ok {
		return true
	}
	return (kw == "while" || kw == "until") && first == "do"
}

// nextIsPipe reports whether the next item after line breaks and comments,
// starting at items[i], is '|'. It returns that item's index.
func nextIsPipe(items []item, i int) (int, bool) {
	j := i
	for j < len(items) && (items[j].isNewline() || items[j].isComment()) {
		j++
	}
	if j < len(items) && items[j].isOp("|") {
		return j, true
	}
	return 0, false
}

func (p *Parser) crossedComments(items []item, from, to int) []*ast.Comment {
	var out []*ast.Comment
	for k := from; k < to; k++ {
		if items[k].isComment() {
			out = append(out, p.comment(items[k].tok, inlineAt(items, k, true)))
		}
	}
	return out
}
