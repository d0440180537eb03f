// Package format prints the syntax tree as a layout document and renders it
// to text.
//
// Назначение: AST → doc.Doc по правилам стиля, затем рендеринг в строку.
// Не делает: разбор (см. internal/parser), файлового IO, проверки семантики.
// Зависимости: internal/ast, internal/config, internal/doc, internal/parser.
package format

import (
	"errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"psfmt/internal/ast"
	"psfmt/internal/config"
	"psfmt/internal/doc"
	"psfmt/internal/parser"
	"psfmt/internal/source"
)

type printer struct {
	b     doc.Builder
	cfg   config.Resolved
	title cases.Caser
}

func newPrinter(cfg config.Resolved) *printer {
	return &printer{cfg: cfg, title: cases.Title(language.Und)}
}

// Print converts a script into a layout document. Each call owns its group
// id counter, so concurrent calls share nothing.
func Print(script *ast.Script, cfg config.Resolved) doc.Doc {
	p := newPrinter(cfg)
	lead, body, n := p.statements(script.Body, false)
	switch {
	case lead == nil:
		return body
	case n == 0:
		return p.comment(lead)
	default:
		return doc.Cat(p.comment(lead), doc.HardLine, body)
	}
}

// Render lays out d with the width and indentation of cfg.
func Render(d doc.Doc, cfg config.Resolved) string {
	return doc.Render(d, doc.RenderOptions{
		Width:      cfg.LineWidth,
		UseTabs:    cfg.IndentStyle == config.IndentTabs,
		IndentSize: cfg.IndentSize,
	})
}

// Format formats src. The result has no trailing newline.
func Format(src string, opts config.Options) string {
	return FormatResolved(src, config.Resolve(opts))
}

// FormatResolved formats src with already resolved settings.
func FormatResolved(src string, cfg config.Resolved) string {
	script, _ := parser.ParseSource(src)
	return Render(Print(script, cfg), cfg)
}

// FormatFile formats a loaded file and restores its BOM and line endings.
// Non-empty output ends with exactly one newline.
func FormatFile(sf *source.File, opts config.Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	script, _ := parser.ParseFile(sf)
	return FormatParsed(script, sf.Flags, config.Resolve(opts)), nil
}

// FormatParsed prints an already parsed script and applies the byte layout
// recorded in flags. Non-empty output ends with exactly one newline.
func FormatParsed(script *ast.Script, flags source.FileFlags, cfg config.Resolved) []byte {
	out := Render(Print(script, cfg), cfg)
	if out != "" {
		out += "\n"
	}
	return source.RestoreLayout([]byte(out), flags)
}

// CheckRoundTrip formats src, re-parses the output and formats it again. It
// fails when the number of top-level statements changed or when the second
// pass is not identical to the first.
func CheckRoundTrip(src string, opts config.Options) (ok bool, msg string) {
	cfg := config.Resolve(opts)
	orig, _ := parser.ParseSource(src)
	once := Render(Print(orig, cfg), cfg)

	again, _ := parser.ParseSource(once)
	if countStatements(orig) != countStatements(again) {
		return false, "fmt-check: statement count changed after round-trip"
	}
	if twice := Render(Print(again, cfg), cfg); twice != once {
		return false, "fmt-check: output is not stable"
	}
	return true, "fmt-check: OK"
}

func countStatements(script *ast.Script) int {
	n := 0
	for _, st := range script.Body {
		if _, ok := st.(*ast.BlankLine); !ok {
			n++
		}
	}
	return n
}
