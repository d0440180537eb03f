// Package plugin is the registration surface a host formatter framework
// consumes: the language it handles, its options, a parser with location
// accessors, and the format entry point.
package plugin

import (
	"psfmt/internal/ast"
	"psfmt/internal/config"
	"psfmt/internal/format"
	"psfmt/internal/parser"
)

// Name is the parser and printer name the host refers to.
const Name = "powershell"

// Language describes one language the plugin formats.
type Language struct {
	Name       string   `json:"name"`
	Parsers    []string `json:"parsers"`
	Extensions []string `json:"extensions"`
	Aliases    []string `json:"aliases,omitempty"`
}

// Languages returns the languages handled by the plugin.
func Languages() []Language {
	return []Language{{
		Name:       "PowerShell",
		Parsers:    []string{Name},
		Extensions: []string{".ps1", ".psm1", ".psd1"},
		Aliases:    []string{"pwsh", "posh"},
	}}
}

// OptionSchema returns the user-facing options, in a stable order.
func OptionSchema() []config.Field {
	return config.Schema()
}

// Parse builds the tree for text. It never fails.
func Parse(text string) *ast.Script {
	script, _ := parser.ParseSource(text)
	return script
}

// LocStart returns the byte offset where node starts, 0 for a nil node.
func LocStart(node ast.Node) int {
	if isNil(node) {
		return 0
	}
	return int(node.Loc().Start)
}

// LocEnd returns the byte offset just past node, 0 for a nil node.
func LocEnd(node ast.Node) int {
	if isNil(node) {
		return 0
	}
	return int(node.Loc().End)
}

// isNil также ловит типизированный nil: Loc на нём разыменует указатель.
func isNil(node ast.Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *ast.Script:
		return n == nil
	case *ast.FunctionDeclaration:
		return n == nil
	case *ast.ScriptBlock:
		return n == nil
	case *ast.SubExpression:
		return n == nil
	case *ast.Pipeline:
		return n == nil
	case *ast.Expression:
		return n == nil
	case *ast.Text:
		return n == nil
	case *ast.Comment:
		return n == nil
	case *ast.BlankLine:
		return n == nil
	case *ast.Hashtable:
		return n == nil
	case *ast.HashtableEntry:
		return n == nil
	case *ast.ArrayLiteral:
		return n == nil
	case *ast.Parenthesis:
		return n == nil
	case *ast.HereString:
		return n == nil
	}
	return false
}

// HasPragma reports whether text opts in to formatting via a pragma
// comment. Formatting is never gated on one.
func HasPragma(string) bool { return false }

// Format formats text with the given options.
func Format(text string, opts config.Options) string {
	return format.Format(text, opts)
}

// FormatAST prints an already parsed tree.
func FormatAST(script *ast.Script, opts config.Options) string {
	cfg := config.Resolve(opts)
	return format.Render(format.Print(script, cfg), cfg)
}
