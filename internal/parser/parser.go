// Package parser builds the syntax tree from a token stream by balancing
// delimiters and segmenting statements. There is no grammar: anything the
// parser does not understand is kept as expression parts, so every input
// produces a well-formed tree.
package parser

import (
	"psfmt/internal/ast"
	"psfmt/internal/lexer"
	"psfmt/internal/source"
	"psfmt/internal/token"
)

// frame is an open bracketed structure waiting for its closer.
type frame struct {
	open  token.Token
	items []item
	root  bool
}

// Parser holds the state for a single token stream.
type Parser struct {
	tokens []token.Token
	file   source.FileID
}

// Parse converts tokens into a Script. It never fails.
func Parse(tokens []token.Token) *ast.Script {
	p := &Parser{tokens: tokens}
	if len(tokens) > 0 {
		p.file = tokens[0].Span.File
	}
	return p.parse()
}

// ParseSource tokenizes and parses src.
func ParseSource(src string) (*ast.Script, []token.Token) {
	toks := lexer.Tokenize(src)
	return Parse(toks), toks
}

// ParseFile tokenizes and parses a loaded file.
func ParseFile(file *source.File) (*ast.Script, []token.Token) {
	toks := lexer.TokenizeFile(file)
	p := &Parser{tokens: toks, file: file.ID}
	return p.parse(), toks
}

// parse collects balanced structures with an explicit stack, so nesting depth
// is bounded only by memory. A structure is converted into its node as soon
// as it closes; its parent then sees it as a single item.
func (p *Parser) parse() *ast.Script {
	stack := []*frame{{root: true}}
	for _, tok := range p.tokens {
		top := stack[len(stack)-1]
		switch {
		case tok.IsOpener():
			stack = append(stack, &frame{open: tok})
		case tok.IsCloser():
			k := matchingFrame(stack, tok.Text)
			if k < 0 {
				// лишняя закрывающая скобка остаётся обычным токеном
				top.items = append(top.items, item{tok: tok})
				continue
			}
			for len(stack)-1 > k {
				stack = p.closeTop(stack, nil)
			}
			closer := tok
			stack = p.closeTop(stack, &closer)
		default:
			top.items = append(top.items, item{tok: tok})
		}
	}
	for len(stack) > 1 {
		stack = p.closeTop(stack, nil)
	}
	root := stack[0]
	script := &ast.Script{Body: p.statements(root.items, false)}
	script.Span = p.coverNodes(source.At(p.file, 0), script.Body)
	if n := len(p.tokens); n > 0 {
		script.Span = script.Span.Cover(p.tokens[0].Span).Cover(p.tokens[n-1].Span)
	}
	return script
}

func matchingFrame(stack []*frame, closer string) int {
	for j := len(stack) - 1; j >= 1; j-- {
		if stack[j].open.Closer() == closer {
			return j
		}
	}
	return -1
}

// closeTop pops the top frame, converts it and appends the node to the new
// top. A nil closer means the structure was closed implicitly.
func (p *Parser) closeTop(stack []*frame, closer *token.Token) []*frame {
	f := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	sp := f.open.Span
	if closer != nil {
		sp = sp.Cover(closer.Span)
	} else if n := len(f.items); n > 0 {
		sp = sp.Cover(f.items[n-1].span())
	}
	parent := stack[len(stack)-1]
	parent.items = append(parent.items, item{node: p.convert(f, sp)})
	return stack
}

func (p *Parser) convert(f *frame, sp source.Span) ast.Node {
	switch f.open.Text {
	case "{":
		sb := &ast.ScriptBlock{Body: p.statements(f.items, true), Multiline: hasNewline(f.items)}
		sb.Span = sp
		return sb
	case "$(":
		se := &ast.SubExpression{Body: p.statements(f.items, true), Multiline: hasNewline(f.items)}
		se.Span = sp
		return se
	case "@{":
		return p.hashtable(f.items, sp)
	case "@(":
		return p.array(f.items, sp, ast.ArrayImplicit)
	case "[":
		return p.array(f.items, sp, ast.ArrayExplicit)
	default:
		return p.parenthesis(f.items, sp)
	}
}

func (p *Parser) coverNodes(sp source.Span, nodes []ast.Node) source.Span {
	for _, n := range nodes {
		sp = sp.Cover(n.Loc())
	}
	return sp
}

func hasNewline(items []item) bool {
	for _, it := range items {
		if it.isNewline() {
			return true
		}
	}
	return false
}
