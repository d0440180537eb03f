package format

import (
	"strings"

	"psfmt/internal/ast"
	"psfmt/internal/config"
	"psfmt/internal/doc"
	"psfmt/internal/parser"
	"psfmt/internal/token"
)

// exprCtx describes where an expression is printed.
type exprCtx struct {
	// command: the first part is in command position (aliases apply).
	command bool
	// segment is the index of the pipeline segment.
	segment int
}

// expr prints the parts of an expression with the spacing table between
// them, followed by its trailing comments.
func (p *printer) expr(e *ast.Expression, ctx exprCtx) doc.Doc {
	return p.element(e, ctx, false)
}

// element prints an expression with an optional comma placed before its
// trailing comments.
func (p *printer) element(e *ast.Expression, ctx exprCtx, comma bool) doc.Doc {
	if e == nil {
		return nil
	}
	out := []doc.Doc{p.parts(e, ctx)}
	if comma {
		out = append(out, doc.Text(","))
	}
	out = append(out, p.trailing(e.Trailing)...)
	return doc.Cat(out...)
}

func (p *printer) parts(e *ast.Expression, ctx exprCtx) doc.Doc {
	head := commandStart(e, ctx)
	out := make([]doc.Doc, 0, len(e.Parts)*2)
	for i := range e.Parts {
		if i > 0 {
			if sp := p.space(e, i, head); sp != nil {
				out = append(out, sp)
			}
		}
		out = append(out, p.part(e, i, ctx, head))
	}
	return doc.Cat(out...)
}

// trailing: the first comment stays at the end of the line, the rest go on
// their own lines.
func (p *printer) trailing(cs []*ast.Comment) []doc.Doc {
	var out []doc.Doc
	for k, c := range cs {
		if k == 0 {
			out = append(out, doc.LineSuffix{Contents: doc.Text(" " + c.Value)})
			continue
		}
		out = append(out, doc.HardLine, p.comment(c))
	}
	return out
}

// commandMode reports whether e is a command invocation. Arguments of a
// command keep their source adjacency exactly, since "a=b" or "x,y" are
// barewords there.
func commandMode(e *ast.Expression, ctx exprCtx) bool {
	if len(e.Parts) == 0 {
		return false
	}
	t, ok := e.Parts[0].(*ast.Text)
	if !ok {
		return false
	}
	switch t.Role {
	case ast.RoleWord:
		return true
	case ast.RoleOperator:
		switch t.Value {
		case "&", ".", "%", "?":
			return true
		}
	case ast.RoleKeyword:
		return ctx.segment > 0
	}
	return false
}

// commandStart returns the index of the part where a command invocation
// begins, or -1. Besides a whole command expression, a command may follow an
// assignment ("$x = gci") or a keyword taking a pipeline ("return gci",
// "foreach ($f in gci)"). Parts from that index on keep command spacing.
func commandStart(e *ast.Expression, ctx exprCtx) int {
	if commandMode(e, ctx) {
		return 0
	}
	for j := 1; j < len(e.Parts); j++ {
		if !isCommandHead(e.Parts[j]) {
			continue
		}
		if prev := e.Parts[j-1]; isAssign(prev) || isPipelineKeyword(prev) {
			return j
		}
	}
	return -1
}

func isCommandHead(n ast.Node) bool {
	t, ok := n.(*ast.Text)
	if !ok {
		return false
	}
	switch t.Role {
	case ast.RoleWord:
		return !strings.HasPrefix(t.Value, "-")
	case ast.RoleOperator:
		return t.Value == "&" || t.Value == "."
	}
	return false
}

func isPipelineKeyword(n ast.Node) bool {
	t, ok := n.(*ast.Text)
	if !ok || t.Role != ast.RoleKeyword {
		return false
	}
	switch strings.ToLower(t.Value) {
	case "return", "throw", "in":
		return true
	}
	return false
}

// isCommandName reports whether part i names the command of the invocation
// starting at head: the head itself, or the word after a leading '&' or '.'.
func isCommandName(e *ast.Expression, i, head int) bool {
	if head < 0 || i < head {
		return false
	}
	if i == head {
		return true
	}
	return i == head+1 && (isOperator(e.Parts[head], "&") || isOperator(e.Parts[head], "."))
}

func (p *printer) part(e *ast.Expression, i int, ctx exprCtx, head int) doc.Doc {
	switch x := e.Parts[i].(type) {
	case *ast.Text:
		return doc.Text(p.text(e, i, ctx, head))
	case *ast.Comment:
		return p.comment(x)
	case *ast.HereString:
		return doc.Text(x.Value)
	case *ast.ScriptBlock:
		return p.block(x)
	case *ast.SubExpression:
		return p.subExpression(x)
	case *ast.Hashtable:
		return p.hashtable(x)
	case *ast.ArrayLiteral:
		return p.array(x, i > 0 && !e.Spaced[i])
	case *ast.Parenthesis:
		if i > 0 && isKeyword(e.Parts[i-1], "param") {
			return p.param(x)
		}
		return p.paren(x)
	default:
		return nil
	}
}

// text applies the leaf transforms: keyword case, quote normalization and
// the alias tables at command position.
func (p *printer) text(e *ast.Expression, i int, ctx exprCtx, head int) string {
	t := e.Parts[i].(*ast.Text)
	v := t.Value
	afterPipe := i > 0 && isOperator(e.Parts[i-1], "|")
	atCommand := afterPipe || (ctx.command && (i == 0 || isCommandName(e, i, head)))
	switch t.Role {
	case ast.RoleKeyword:
		if (i == 0 && ctx.command && ctx.segment > 0) || afterPipe {
			// "| foreach { }" - это алиас, а не цикл
			if full, ok := p.rewriteCommand(v); ok {
				return full
			}
		}
		return p.keywordCase(v)
	case ast.RoleString:
		if p.cfg.PreferSingleQuote && canSingleQuote(e, i) {
			return "'" + v[1:len(v)-1] + "'"
		}
	case ast.RoleWord, ast.RoleOperator, ast.RoleUnknown:
		if atCommand {
			if full, ok := p.rewriteCommand(v); ok {
				return full
			}
		}
	}
	return v
}

// rewriteCommand applies the alias table and then the deprecated-command
// table, each when enabled.
func (p *printer) rewriteCommand(v string) (string, bool) {
	out, changed := v, false
	if p.cfg.RewriteAliases {
		if full, ok := aliasTable[strings.ToLower(out)]; ok {
			out, changed = full, true
		}
	}
	if p.cfg.RewriteWriteHost {
		if repl, ok := deprecatedCommands[strings.ToLower(out)]; ok {
			out, changed = repl, true
		}
	}
	return out, changed
}

func (p *printer) keywordCase(v string) string {
	switch p.cfg.KeywordCase {
	case config.KeywordLower:
		return strings.ToLower(v)
	case config.KeywordUpper:
		return strings.ToUpper(v)
	case config.KeywordPascal:
		lower := strings.ToLower(v)
		if s, ok := pascalKeywords[lower]; ok {
			return s
		}
		return p.title.String(lower)
	default:
		return v
	}
}

// space decides what goes between part i-1 and part i. Pairs inside a
// command invocation keep their source adjacency; expression pairs follow
// the spacing table.
func (p *printer) space(e *ast.Expression, i, head int) doc.Doc {
	prev, cur := e.Parts[i-1], e.Parts[i]
	allman := p.cfg.BraceStyle == config.BraceAllman

	// "} else", "} catch", "} while" после do
	if isBlock(prev) && isClause(e, cur) {
		if allman {
			return doc.HardLine
		}
		return doc.Text(" ")
	}
	if isBlock(cur) && controlHead(e, i) {
		if allman {
			return doc.HardLine
		}
		return doc.Text(" ")
	}
	if _, ok := cur.(*ast.Parenthesis); ok {
		if t, ok := prev.(*ast.Text); ok && t.Role == ast.RoleKeyword && parser.IsControlKeyword(strings.ToLower(t.Value)) {
			return doc.Text(" ")
		}
	}

	var sp doc.Doc
	if head >= 0 && i-1 >= head {
		sp = commandSpace(e, i, head)
	} else {
		sp = expressionSpace(e, i, head)
	}
	if sp == nil && e.Spaced[i] && gluesIntoOperator(prev, cur) {
		return doc.Text(" ")
	}
	return sp
}

var oneSpace = doc.Text(" ")

// commandSpace keeps the source adjacency, except that a separating comma
// or a closer is pulled to the left.
func commandSpace(e *ast.Expression, i, head int) doc.Doc {
	if !e.Spaced[i] {
		return nil
	}
	if isPunct(e.Parts[i], ",") && unaryComma(e, i, head) {
		return oneSpace
	}
	if closesList(e.Parts[i]) {
		return nil
	}
	return oneSpace
}

func expressionSpace(e *ast.Expression, i, head int) doc.Doc {
	prev, cur := e.Parts[i-1], e.Parts[i]
	switch {
	case isAssign(prev) || isAssign(cur):
		return oneSpace
	case isPunct(cur, ","):
		// "$a = ,1" - запятая унарная, пробел перед ней остаётся
		if unaryComma(e, i, head) && (e.Spaced[i] || isOperatorText(prev)) {
			return oneSpace
		}
		return nil
	case isPunct(prev, ","):
		if unaryComma(e, i-1, head) {
			return sourceSpace(e, i)
		}
		return oneSpace
	case closesList(cur):
		return nil
	case binaryOperator(e, i) || binaryOperator(e, i-1):
		return oneSpace
	case !e.Spaced[i]:
		return nil
	case memberCall(e, i):
		return nil
	}
	return oneSpace
}

func sourceSpace(e *ast.Expression, i int) doc.Doc {
	if e.Spaced[i] {
		return oneSpace
	}
	return nil
}

// binaryOps are the symbolic operators spaced on both sides in expressions.
// Dash word operators ("-eq", "-f") are spaced too.
var binaryOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true, "??": true}

// binaryOperator reports whether part j is an operator with an operand on
// its left. "-1", "$a * -1" and "[int]-1" are unary and keep their adjacency.
func binaryOperator(e *ast.Expression, j int) bool {
	t, ok := e.Parts[j].(*ast.Text)
	if !ok || t.Role != ast.RoleOperator || j == 0 {
		return false
	}
	wordOp := len(t.Value) > 1 && t.Value[0] == '-' && token.IsWordOperator(t.Value[1:])
	if !binaryOps[t.Value] && !wordOp {
		return false
	}
	return isOperand(e.Parts[j-1])
}

func isOperand(n ast.Node) bool {
	if _, ok := n.(*ast.Comment); ok {
		return false
	}
	t, ok := n.(*ast.Text)
	if !ok {
		return true
	}
	switch t.Role {
	case ast.RoleOperator, ast.RolePunctuation, ast.RoleKeyword, ast.RoleAttribute:
		return false
	}
	return true
}

// unaryComma reports whether the comma at i builds an array from what
// follows instead of separating two elements.
func unaryComma(e *ast.Expression, i, head int) bool {
	if i == 0 {
		return true
	}
	t, ok := e.Parts[i-1].(*ast.Text)
	if !ok {
		return false
	}
	switch t.Role {
	case ast.RoleOperator, ast.RolePunctuation, ast.RoleKeyword:
		return true
	case ast.RoleWord:
		return isCommandName(e, i-1, head) || strings.HasPrefix(t.Value, "-")
	}
	return false
}

// gluesIntoOperator: printing prev and cur without a space would spell a
// different operator.
func gluesIntoOperator(prev, cur ast.Node) bool {
	pt, ok1 := prev.(*ast.Text)
	ct, ok2 := cur.(*ast.Text)
	if !ok1 || !ok2 || !isOperatorText(pt) || !isOperatorText(ct) {
		return false
	}
	return token.IsCompoundOperator(pt.Value + ct.Value)
}

func closesList(n ast.Node) bool {
	t, ok := n.(*ast.Text)
	return ok && (isPunct(t, ",") || isPunct(t, ";") || isCloserText(t))
}

// controlHead reports whether the block at part i belongs to a control
// statement: the nearest keyword before it, without crossing another
// block, is a control keyword.
func controlHead(e *ast.Expression, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch x := e.Parts[j].(type) {
		case *ast.ScriptBlock:
			return false
		case *ast.Text:
			if x.Role == ast.RoleKeyword {
				return parser.IsControlKeyword(strings.ToLower(x.Value))
			}
		}
	}
	return false
}

func isClause(e *ast.Expression, n ast.Node) bool {
	t, ok := n.(*ast.Text)
	if !ok || t.Role != ast.RoleKeyword {
		return false
	}
	switch strings.ToLower(t.Value) {
	case "else", "elseif", "catch", "finally":
		return true
	case "while", "until":
		return isKeyword(e.Parts[0], "do")
	}
	return false
}

// memberCall matches ".Name (" and "::Name [" written with a space before
// the argument list.
func memberCall(e *ast.Expression, i int) bool {
	switch x := e.Parts[i].(type) {
	case *ast.Parenthesis:
	case *ast.ArrayLiteral:
		if x.Kind != ast.ArrayExplicit {
			return false
		}
	default:
		return false
	}
	if i < 2 {
		return false
	}
	name, ok := e.Parts[i-1].(*ast.Text)
	if !ok || name.Role != ast.RoleWord || e.Spaced[i-1] {
		return false
	}
	return isOperator(e.Parts[i-2], ".") || isOperator(e.Parts[i-2], "::")
}

func isBlock(n ast.Node) bool {
	_, ok := n.(*ast.ScriptBlock)
	return ok
}

func isOperator(n ast.Node, op string) bool {
	t, ok := n.(*ast.Text)
	return ok && t.Role == ast.RoleOperator && t.Value == op
}

func isPunct(n ast.Node, s string) bool {
	t, ok := n.(*ast.Text)
	return ok && t.Role == ast.RolePunctuation && t.Value == s
}

func isAssign(n ast.Node) bool {
	t, ok := n.(*ast.Text)
	return ok && t.Role == ast.RoleOperator && token.IsAssignOperator(t.Value)
}

// isOperatorText: operators and punctuation.
func isOperatorText(n ast.Node) bool {
	t, ok := n.(*ast.Text)
	return ok && (t.Role == ast.RoleOperator || t.Role == ast.RolePunctuation)
}

func isCloserText(t *ast.Text) bool {
	return t.Role == ast.RolePunctuation && (t.Value == ")" || t.Value == "]" || t.Value == "}")
}
