package parser_test

import (
	"strings"
	"testing"

	"psfmt/internal/ast"
	"psfmt/internal/parser"
	"psfmt/internal/testkit"
)

func parse(t *testing.T, src string) *ast.Script {
	t.Helper()
	script, _ := parser.ParseSource(src)
	if err := testkit.CheckLocations(script, []byte(src)); err != nil {
		t.Fatalf("location invariants for %q: %v", src, err)
	}
	return script
}

func mustPipeline(t *testing.T, n ast.Node) *ast.Pipeline {
	t.Helper()
	pl, ok := n.(*ast.Pipeline)
	if !ok {
		t.Fatalf("expected *ast.Pipeline, got %T", n)
	}
	return pl
}

func texts(e *ast.Expression) []string {
	var out []string
	for _, p := range e.Parts {
		if t, ok := p.(*ast.Text); ok {
			out = append(out, t.Value)
		} else {
			out = append(out, "<"+typeName(p)+">")
		}
	}
	return out
}

func typeName(n ast.Node) string {
	switch n.(type) {
	case *ast.ScriptBlock:
		return "ScriptBlock"
	case *ast.Hashtable:
		return "Hashtable"
	case *ast.ArrayLiteral:
		return "Array"
	case *ast.Parenthesis:
		return "Paren"
	case *ast.SubExpression:
		return "SubExpr"
	case *ast.HereString:
		return "HereString"
	case *ast.Comment:
		return "Comment"
	}
	return "?"
}

func TestPipelineSegments(t *testing.T) {
	script := parse(t, "Get-Item a | Where-Object { $_ } | Out-Host")
	if len(script.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(script.Body))
	}
	pl := mustPipeline(t, script.Body[0])
	if len(pl.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(pl.Segments))
	}
	if got := strings.Join(texts(pl.Segments[1]), " "); got != "Where-Object <ScriptBlock>" {
		t.Fatalf("segment 1 = %q", got)
	}
}

func TestMultilinePipelineContinuation(t *testing.T) {
	cases := []string{
		"a |\n  b",
		"a\n| b",
		"a\n\n  # note\n| b",
		"a | # why\n b",
	}
	for _, src := range cases {
		script := parse(t, src)
		if len(script.Body) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", src, len(script.Body))
		}
		if got := len(mustPipeline(t, script.Body[0]).Segments); got != 2 {
			t.Fatalf("%q: expected 2 segments, got %d", src, got)
		}
	}
}

func TestStatementTermination(t *testing.T) {
	script := parse(t, "a; b\nc `\n  -d\n$x =\n  5")
	if len(script.Body) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(script.Body))
	}
	pl := mustPipeline(t, script.Body[2])
	if got := strings.Join(texts(pl.Segments[0]), " "); got != "c -d" {
		t.Fatalf("continued statement = %q", got)
	}
}

func TestTrailingAndStandaloneComments(t *testing.T) {
	script := parse(t, "a # trailing\n# own line\nb")
	if len(script.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(script.Body))
	}
	pl := mustPipeline(t, script.Body[0])
	if pl.TrailingComment == nil || !pl.TrailingComment.Inline || pl.TrailingComment.Value != "# trailing" {
		t.Fatalf("trailing comment = %+v", pl.TrailingComment)
	}
	c, ok := script.Body[1].(*ast.Comment)
	if !ok || c.Inline {
		t.Fatalf("expected own-line comment, got %#v", script.Body[1])
	}
}

func TestCommentAfterSemicolonTrailsStatement(t *testing.T) {
	script := parse(t, "a; # c\nb")
	if len(script.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(script.Body))
	}
	pl := mustPipeline(t, script.Body[0])
	if pl.TrailingComment == nil || pl.TrailingComment.Value != "# c" {
		t.Fatalf("trailing comment = %+v", pl.TrailingComment)
	}

	// блочный комментарий перед кодом начинает следующую инструкцию
	script = parse(t, "a; <# c #> b")
	if len(script.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(script.Body))
	}
	if got := strings.Join(texts(mustPipeline(t, script.Body[1]).Segments[0]), " "); got != "<Comment> b" {
		t.Fatalf("second statement = %q", got)
	}
}

func TestInlineBlockCommentStaysInExpression(t *testing.T) {
	script := parse(t, "a <# x #> b")
	pl := mustPipeline(t, script.Body[0])
	if pl.TrailingComment != nil {
		t.Fatal("block comment followed by code must not be a trailing comment")
	}
	if got := strings.Join(texts(pl.Segments[0]), " "); got != "a <Comment> b" {
		t.Fatalf("parts = %q", got)
	}
}

func TestBlankLines(t *testing.T) {
	script := parse(t, "\n\na\n\n\nb\n\n")
	if len(script.Body) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(script.Body))
	}
	bl, ok := script.Body[1].(*ast.BlankLine)
	if !ok || bl.Count != 2 {
		t.Fatalf("expected BlankLine{2}, got %#v", script.Body[1])
	}
}

func TestFunctionDeclaration(t *testing.T) {
	script := parse(t, "function Get-Foo($a) # hdr\n{\n  $a\n}\nfilter F { $_ }")
	if len(script.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(script.Body))
	}
	fn, ok := script.Body[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected function, got %T", script.Body[0])
	}
	if got := strings.Join(texts(fn.Header), " "); got != "function Get-Foo <Paren>" {
		t.Fatalf("header = %q", got)
	}
	if len(fn.HeaderComments) != 1 || fn.Body == nil || !fn.Body.Multiline {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	if _, ok := script.Body[1].(*ast.FunctionDeclaration); !ok {
		t.Fatalf("filter must parse as a function, got %T", script.Body[1])
	}
}

func TestTruncatedFunction(t *testing.T) {
	script := parse(t, "function Foo")
	fn := script.Body[0].(*ast.FunctionDeclaration)
	if fn.Body != nil {
		t.Fatal("expected nil body for truncated function")
	}
}

func TestClauseContinuation(t *testing.T) {
	srcs := []string{
		"if ($a) {\n  1\n}\nelse {\n  2\n}",
		"try { a }\ncatch { b }\nfinally { c }",
		"do { $i++ }\nwhile ($i -lt 3)",
		"if ($a)\n{\n  1\n}",
		"foreach ($x in $y)\n{ $x }",
	}
	for _, src := range srcs {
		script := parse(t, src)
		if len(script.Body) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", src, len(script.Body))
		}
	}
	// while без do - отдельная инструкция
	script := parse(t, "{ a }\nwhile ($x) { }")
	if len(script.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(script.Body))
	}
}

func TestHashtableEntries(t *testing.T) {
	src := "@{\n  # lead\n  b = 1 # trail\n  'a-key' = 2; c\n  # after\n}"
	script := parse(t, src)
	pl := mustPipeline(t, script.Body[0])
	ht, ok := pl.Segments[0].Parts[0].(*ast.Hashtable)
	if !ok {
		t.Fatalf("expected hashtable, got %T", pl.Segments[0].Parts[0])
	}
	if len(ht.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ht.Entries))
	}
	b := ht.Entries[0]
	if b.Key != "b" || len(b.LeadingComments) != 1 || len(b.TrailingComments) != 1 || !b.TrailingComments[0].Inline {
		t.Fatalf("entry b = %+v", b)
	}
	if ht.Entries[1].Key != "a-key" || !ht.Entries[1].HasValue {
		t.Fatalf("entry 'a-key' = %+v", ht.Entries[1])
	}
	c := ht.Entries[2]
	if c.HasValue || !c.Value.Empty() {
		t.Fatalf("entry without '=' must have an empty value: %+v", c)
	}
	if len(c.TrailingComments) != 1 || c.TrailingComments[0].Inline {
		t.Fatalf("comment after last entry must attach as own-line trailing: %+v", c.TrailingComments)
	}
}

func TestHashtableTrailingCommentDemotion(t *testing.T) {
	script := parse(t, "@{ a = 1 <# x #> <# y #> }")
	ht := mustPipeline(t, script.Body[0]).Segments[0].Parts[0].(*ast.Hashtable)
	tc := ht.Entries[0].TrailingComments
	if len(tc) != 2 || !tc[0].Inline || tc[1].Inline {
		t.Fatalf("trailing comments = %+v", tc)
	}
}

func TestEmptyHashtableKeepsComments(t *testing.T) {
	script := parse(t, "@{\n  # nothing\n}")
	ht := mustPipeline(t, script.Body[0]).Segments[0].Parts[0].(*ast.Hashtable)
	if len(ht.Entries) != 0 || len(ht.Dangling) != 1 {
		t.Fatalf("hashtable = %+v", ht)
	}
}

func TestArraysAndParentheses(t *testing.T) {
	script := parse(t, "@(1, 2\n 3)\n(1, 2)\n(a -and\n b)\n$x[0]")
	arr := mustPipeline(t, script.Body[0]).Segments[0].Parts[0].(*ast.ArrayLiteral)
	if len(arr.Elements) != 3 || arr.Kind != ast.ArrayImplicit {
		t.Fatalf("array = %+v", arr)
	}
	if !arr.Commas[0] || arr.Commas[1] || arr.Commas[2] {
		t.Fatalf("commas = %v", arr.Commas)
	}
	par := mustPipeline(t, script.Body[1]).Segments[0].Parts[0].(*ast.Parenthesis)
	if len(par.Elements) != 2 || !par.HasComma || par.HasNewline {
		t.Fatalf("paren = %+v", par)
	}
	par = mustPipeline(t, script.Body[2]).Segments[0].Parts[0].(*ast.Parenthesis)
	if len(par.Elements) != 1 || par.HasComma || !par.HasNewline {
		t.Fatalf("multi-line paren = %+v", par)
	}
	idx := mustPipeline(t, script.Body[3]).Segments[0]
	if arr, ok := idx.Parts[1].(*ast.ArrayLiteral); !ok || arr.Kind != ast.ArrayExplicit || idx.Spaced[1] {
		t.Fatalf("indexer = %#v", idx.Parts[1])
	}
}

func TestUnaryComma(t *testing.T) {
	script := parse(t, "@(,1)")
	arr := mustPipeline(t, script.Body[0]).Segments[0].Parts[0].(*ast.ArrayLiteral)
	if len(arr.Elements) != 1 || arr.Commas[0] {
		t.Fatalf("unary comma array = %+v", arr)
	}
}

func TestRecoveryFromUnbalancedInput(t *testing.T) {
	srcs := []string{
		"{ a (",
		"a ) b",
		"@{ a = @( 1, }",
		"$( ] )",
		"}}}",
		"function",
		"|",
		"a |",
		"@(\n# c\n",
		"`",
	}
	for _, src := range srcs {
		script := parse(t, src)
		if len(script.Body) == 0 && strings.TrimSpace(src) != "" {
			t.Fatalf("%q: expected statements", src)
		}
	}
}

func TestImplicitCloseExtendsToLastToken(t *testing.T) {
	src := "{ a b"
	script := parse(t, src)
	sb := mustPipeline(t, script.Body[0]).Segments[0].Parts[0].(*ast.ScriptBlock)
	if sb.Span.End != uint32(len(src)) {
		t.Fatalf("block span = %v, want end %d", sb.Span, len(src))
	}
}

func TestStrayCloserIsPunctuation(t *testing.T) {
	script := parse(t, ")")
	txt := mustPipeline(t, script.Body[0]).Segments[0].Parts[0].(*ast.Text)
	if txt.Role != ast.RolePunctuation || txt.Value != ")" {
		t.Fatalf("stray closer = %+v", txt)
	}
}

func TestKeywordRoles(t *testing.T) {
	script := parse(t, "$x.Begin\nWrite-Output in\nforeach ($a in $b) {}")
	member := mustPipeline(t, script.Body[0]).Segments[0].Parts[2].(*ast.Text)
	if member.Role != ast.RoleWord {
		t.Fatalf("member keyword role = %v", member.Role)
	}
	arg := mustPipeline(t, script.Body[1]).Segments[0].Parts[1].(*ast.Text)
	if arg.Role != ast.RoleWord {
		t.Fatalf("argument keyword role = %v", arg.Role)
	}
	par := mustPipeline(t, script.Body[2]).Segments[0].Parts[1].(*ast.Parenthesis)
	in := par.Elements[0].Parts[1].(*ast.Text)
	if in.Role != ast.RoleKeyword {
		t.Fatalf("'in' role = %v", in.Role)
	}
}

func TestDeepNestingDoesNotRecurse(t *testing.T) {
	src := strings.Repeat("(", 20000) + strings.Repeat(")", 20000)
	script, _ := parser.ParseSource(src)
	if len(script.Body) != 1 {
		t.Fatalf("expected a single statement, got %d", len(script.Body))
	}
}

func TestSpacedFlags(t *testing.T) {
	script := parse(t, "[int]$x = $a.b")
	seg := mustPipeline(t, script.Body[0]).Segments[0]
	want := []bool{false, false, true, true, false, false}
	if len(seg.Spaced) != len(want) {
		t.Fatalf("spaced = %v", seg.Spaced)
	}
	for i := range want {
		if seg.Spaced[i] != want[i] {
			t.Fatalf("spaced = %v, want %v", seg.Spaced, want)
		}
	}
}
