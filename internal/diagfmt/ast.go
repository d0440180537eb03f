package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"psfmt/internal/ast"
	"psfmt/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty prints the tree with box-drawing guides, one node per line.
func FormatASTPretty(w io.Writer, script *ast.Script, fs *source.FileSet) error {
	if script == nil {
		return fmt.Errorf("no script")
	}
	var sb strings.Builder
	writeTree(&sb, script, fs, "", "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTree(sb *strings.Builder, n ast.Node, fs *source.FileSet, head, prefix string) {
	sb.WriteString(head)
	sb.WriteString(nodeLabel(n, fs))
	sb.WriteByte('\n')
	children := ast.Children(n)
	for i, c := range children {
		if i == len(children)-1 {
			writeTree(sb, c, fs, prefix+"└─ ", prefix+"   ")
		} else {
			writeTree(sb, c, fs, prefix+"├─ ", prefix+"│  ")
		}
	}
}

func nodeLabel(n ast.Node, fs *source.FileSet) string {
	typ, text, fields := describe(n)
	label := typ
	if text != "" {
		label += " " + fmt.Sprintf("%q", text)
	}
	for _, k := range sortedKeys(fields) {
		label += fmt.Sprintf(" %s=%v", k, fields[k])
	}
	return label + " (span: " + formatSpan(n.Loc(), fs) + ")"
}

// formatSpan renders a span as line:col-line:col when fs knows the file.
func formatSpan(sp source.Span, fs *source.FileSet) string {
	if fs == nil {
		return sp.String()
	}
	start, end := fs.Resolve(sp)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

// describe returns the node type name, its text (leaves only) and the
// scalar fields worth showing.
func describe(n ast.Node) (typ, text string, fields map[string]any) {
	switch n := n.(type) {
	case *ast.Script:
		return "Script", "", nil
	case *ast.ScriptBlock:
		return "ScriptBlock", "", flag("multiline", n.Multiline)
	case *ast.SubExpression:
		return "SubExpression", "", flag("multiline", n.Multiline)
	case *ast.FunctionDeclaration:
		return "FunctionDeclaration", "", flag("bodyless", n.Body == nil)
	case *ast.Pipeline:
		return "Pipeline", "", map[string]any{"segments": len(n.Segments)}
	case *ast.Expression:
		return "Expression", "", nil
	case *ast.Text:
		return "Text", n.Value, map[string]any{"role": n.Role.String()}
	case *ast.Comment:
		f := map[string]any{"style": n.Style.String()}
		if n.Inline {
			f["inline"] = true
		}
		return "Comment", n.Value, f
	case *ast.BlankLine:
		return "BlankLine", "", map[string]any{"count": n.Count}
	case *ast.Hashtable:
		return "Hashtable", "", map[string]any{"entries": len(n.Entries)}
	case *ast.HashtableEntry:
		return "HashtableEntry", n.Key, flag("valueless", !n.HasValue)
	case *ast.ArrayLiteral:
		return "ArrayLiteral", "", map[string]any{"kind": n.Kind.String()}
	case *ast.Parenthesis:
		f := flag("comma", n.HasComma)
		if n.HasNewline {
			f = mergeFields(f, flag("multiline", true))
		}
		return "Parenthesis", "", f
	case *ast.HereString:
		return "HereString", n.Value, map[string]any{"quote": n.Quote}
	default:
		return fmt.Sprintf("%T", n), "", nil
	}
}

func flag(name string, v bool) map[string]any {
	if !v {
		return nil
	}
	return map[string]any{name: true}
}

func mergeFields(a, b map[string]any) map[string]any {
	if a == nil {
		return b
	}
	for k, v := range b {
		a[k] = v
	}
	return a
}

// FormatASTJSON writes the tree as nested JSON objects.
func FormatASTJSON(w io.Writer, script *ast.Script) error {
	if script == nil {
		return fmt.Errorf("no script")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(nodeJSON(script))
}

func nodeJSON(n ast.Node) ASTNodeOutput {
	typ, text, fields := describe(n)
	out := ASTNodeOutput{Type: typ, Span: n.Loc(), Text: text, Fields: fields}
	for _, c := range ast.Children(n) {
		out.Children = append(out.Children, nodeJSON(c))
	}
	return out
}
