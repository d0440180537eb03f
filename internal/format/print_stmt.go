package format

import (
	"strings"

	"psfmt/internal/ast"
	"psfmt/internal/config"
	"psfmt/internal/doc"
)

// statements prints a statement list. An inline comment standing first
// (right after an opening brace) is returned as lead for the caller to put
// on the opener's line. With flat set, statements without blank lines
// between them are separated by "; " while the enclosing group is flat.
func (p *printer) statements(body []ast.Node, flat bool) (lead *ast.Comment, out doc.Doc, n int) {
	var parts []doc.Doc
	var prev ast.Node
	blank := 0
	for _, node := range body {
		if bl, ok := node.(*ast.BlankLine); ok {
			blank = max(blank, bl.Count)
			continue
		}
		if c, ok := node.(*ast.Comment); ok && c.Inline {
			if prev != nil {
				parts = append(parts, doc.Text(" "), p.comment(c))
				blank = 0
				continue
			}
			if lead == nil && n == 0 {
				lead = c
				continue
			}
		}
		if prev != nil {
			gap := max(blank, p.blankPolicy(prev, node))
			if flat && gap == 0 {
				parts = append(parts, doc.IfBreak{Broken: doc.HardLine, Flat: doc.Text("; ")})
			} else {
				for i := 0; i < gap+1; i++ {
					parts = append(parts, doc.HardLine)
				}
			}
		}
		parts = append(parts, p.statement(node))
		prev = node
		blank = 0
		n++
	}
	return lead, doc.Cat(parts...), n
}

// blankPolicy is the minimum number of blank lines between prev and next.
func (p *printer) blankPolicy(prev, next ast.Node) int {
	if p.cfg.BlankLineAfterParam && isParamStatement(prev) {
		return 1
	}
	_, prevFn := prev.(*ast.FunctionDeclaration)
	_, nextFn := next.(*ast.FunctionDeclaration)
	if nextFn {
		// комментарий над функцией остаётся прижатым к ней
		if c, ok := prev.(*ast.Comment); ok && !c.Inline {
			return 0
		}
	}
	if prevFn || nextFn {
		return p.cfg.BlankLinesBetweenFunctions
	}
	return 0
}

// isParamStatement matches "param(...)", optionally preceded by attributes.
func isParamStatement(n ast.Node) bool {
	pl, ok := n.(*ast.Pipeline)
	if !ok || len(pl.Segments) != 1 {
		return false
	}
	parts := pl.Segments[0].Parts
	if len(parts) < 2 {
		return false
	}
	if _, ok := parts[len(parts)-1].(*ast.Parenthesis); !ok {
		return false
	}
	return isKeyword(parts[len(parts)-2], "param")
}

func (p *printer) statement(n ast.Node) doc.Doc {
	switch x := n.(type) {
	case *ast.Pipeline:
		return p.pipeline(x)
	case *ast.FunctionDeclaration:
		return p.function(x)
	case *ast.Comment:
		return p.comment(x)
	default:
		return nil
	}
}

func (p *printer) comment(c *ast.Comment) doc.Doc {
	if c.Style == ast.CommentLine {
		return doc.Cat(doc.Text(c.Value), doc.BreakParent{})
	}
	return doc.Text(c.Value)
}

// pipeline: first segment, then "| segment" on the same line or, when the
// group breaks, each on its own indented line.
func (p *printer) pipeline(pl *ast.Pipeline) doc.Doc {
	var d doc.Doc
	if len(pl.Segments) > 0 {
		d = p.segments(pl.Segments)
	}
	if c := pl.TrailingComment; c != nil {
		if c.Inline {
			return doc.Cat(d, doc.LineSuffix{Contents: doc.Text(" " + c.Value)})
		}
		return doc.Cat(d, doc.HardLine, p.comment(c))
	}
	return d
}

// segments joins pipeline stages. Short pipelines stay on one line, long
// ones put each "| stage" on its own indented line. A stage holding
// multi-line content (a script block body, a here-string) keeps the stages
// joined on its first line instead, unless an earlier stage carries
// own-line comments that must stay in front of the next '|'.
func (p *printer) segments(segs []*ast.Expression) doc.Doc {
	docs := make([]doc.Doc, len(segs))
	hard, commented := false, false
	for i, seg := range segs {
		docs[i] = p.expr(seg, exprCtx{command: true, segment: i})
		hard = hard || doc.ForcesBreak(docs[i])
		if i < len(segs)-1 && len(seg.Trailing) > 1 {
			commented = true
		}
	}
	if len(segs) == 1 {
		return docs[0]
	}
	hug := hard && !commented
	var rest []doc.Doc
	for i, seg := range segs[1:] {
		bar := "| "
		if len(seg.Parts) == 0 {
			bar = "|"
		}
		if hug {
			rest = append(rest, doc.Text(" "+bar), docs[i+1])
		} else {
			rest = append(rest, doc.LineOrSpace, doc.Text(bar), docs[i+1])
		}
	}
	if hug {
		return doc.Cat(docs[0], doc.Cat(rest...))
	}
	return p.b.Group(doc.Cat(docs[0], doc.Indent{Contents: doc.Cat(rest...)}))
}

// function: header, then the body on the same line (1tbs) or the next
// (allman). An own-line header comment also moves the brace down.
func (p *printer) function(fn *ast.FunctionDeclaration) doc.Doc {
	parts := []doc.Doc{p.expr(fn.Header, exprCtx{})}
	ownLine := false
	for i, c := range fn.HeaderComments {
		if i == 0 && c.Inline {
			parts = append(parts, doc.LineSuffix{Contents: doc.Text(" " + c.Value)})
			continue
		}
		ownLine = true
		parts = append(parts, doc.HardLine, p.comment(c))
	}
	if fn.Body == nil {
		return doc.Cat(parts...)
	}
	if ownLine || p.cfg.BraceStyle == config.BraceAllman {
		parts = append(parts, doc.HardLine)
	} else {
		parts = append(parts, doc.Text(" "))
	}
	parts = append(parts, p.block(fn.Body))
	return doc.Cat(parts...)
}

func (p *printer) block(sb *ast.ScriptBlock) doc.Doc {
	return p.statementBlock("{", "}", sb.Body, sb.Multiline, false)
}

func (p *printer) subExpression(se *ast.SubExpression) doc.Doc {
	return p.statementBlock("$(", ")", se.Body, se.Multiline, true)
}

// statementBlock lays out a braced statement list. Empty → "{}"; a block
// written on one line stays on one line while it fits; a block written over
// several lines is always broken. Subexpressions keep one line only for a
// single statement.
func (p *printer) statementBlock(open, close string, body []ast.Node, multiline, sub bool) doc.Doc {
	if len(body) == 0 {
		return doc.Text(open + close)
	}
	lead, stmts, n := p.statements(body, !multiline && !sub)
	broken := func(head doc.Doc) doc.Doc {
		if n == 0 {
			return doc.Cat(head, doc.HardLine, doc.Text(close))
		}
		return doc.Cat(head, doc.Indent{Contents: doc.Cat(doc.HardLine, stmts)}, doc.HardLine, doc.Text(close))
	}
	if lead != nil {
		if n == 0 && !multiline && lead.Style == ast.CommentBlock {
			if sub {
				return doc.Text(open + lead.Value + close)
			}
			return doc.Text(open + " " + lead.Value + " " + close)
		}
		return broken(doc.Cat(doc.Text(open+" "), p.comment(lead)))
	}
	if multiline || (sub && n > 1) {
		return broken(doc.Text(open))
	}
	if sub && doc.ForcesBreak(stmts) {
		return doc.Cat(doc.Text(open), stmts, doc.Text(close))
	}
	sep := doc.Doc(doc.LineOrSpace)
	if sub {
		sep = doc.SoftLine
	}
	return p.b.Group(doc.Cat(doc.Text(open), doc.Indent{Contents: doc.Cat(sep, stmts)}, sep, doc.Text(close)))
}

func isKeyword(n ast.Node, kw string) bool {
	t, ok := n.(*ast.Text)
	return ok && t.Role == ast.RoleKeyword && strings.EqualFold(t.Value, kw)
}
