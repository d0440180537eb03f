package doc

import "testing"

func render(t *testing.T, d Doc, width int) string {
	t.Helper()
	return Render(d, RenderOptions{Width: width, IndentSize: 2})
}

func expectRender(t *testing.T, d Doc, width int, want string) {
	t.Helper()
	if got := render(t, d, width); got != want {
		t.Fatalf("render(width=%d):\n got: %q\nwant: %q", width, got, want)
	}
}

func list(items ...string) Doc {
	parts := make([]Doc, 0, len(items))
	for _, it := range items {
		parts = append(parts, Text(it))
	}
	return &Group{Contents: Cat(
		Text("("),
		Indent{Contents: Cat(SoftLine, Join(Cat(Text(","), LineOrSpace), parts))},
		SoftLine,
		Text(")"),
	)}
}

func TestGroupFlatAndBroken(t *testing.T) {
	d := list("alpha", "beta", "gamma")
	expectRender(t, d, 80, "(alpha, beta, gamma)")
	expectRender(t, d, 10, "(\n  alpha,\n  beta,\n  gamma\n)")
}

func TestFitsCountsRestOfLine(t *testing.T) {
	// группа помещается сама, но не вместе с хвостом строки
	d := Cat(list("a", "b"), Text(" + something long"))
	expectRender(t, d, 20, "(\n  a,\n  b\n) + something long")
	expectRender(t, d, 40, "(a, b) + something long")
}

func TestHardLinePropagates(t *testing.T) {
	d := &Group{Contents: Cat(Text("a"), LineOrSpace, Text("b"), HardLine, Text("c"))}
	expectRender(t, d, 80, "a\nb\nc")

	outer := &Group{Contents: Cat(Text("x"), LineOrSpace, &Group{Contents: Cat(Text("y"), BreakParent{})})}
	expectRender(t, outer, 80, "x\ny")
}

func TestForcedBreak(t *testing.T) {
	d := &Group{Contents: Cat(Text("a"), LineOrSpace, Text("b")), Break: true}
	expectRender(t, d, 80, "a\nb")
}

func TestIfBreakFollowsReferencedGroup(t *testing.T) {
	var b Builder
	inner, id := b.GroupWithID(Cat(Text("{"), Indent{Contents: Cat(LineOrSpace, Text("entry"))}, LineOrSpace, Text("}")))
	// ifBreak вне группы смотрит на её режим
	d := Cat(inner, IfBreak{Broken: Text(" # broken"), Flat: Text(" # flat"), Group: id})
	expectRender(t, d, 80, "{ entry } # flat")
	expectRender(t, d, 6, "{\n  entry\n} # broken")
}

func TestIfBreakWithoutGroupUsesEnclosingMode(t *testing.T) {
	d := &Group{Contents: Cat(Text("a"), IfBreak{Broken: Text(";"), Flat: Text("")}, LineOrSpace, Text("b"))}
	expectRender(t, d, 80, "a b")
	expectRender(t, d, 2, "a;\nb")
}

func TestLineSuffix(t *testing.T) {
	d := Cat(
		&Group{Contents: Cat(Text("a"), LineOrSpace, Text("b"), LineSuffix{Contents: Text(" # note")})},
		HardLine,
		Text("c"),
	)
	expectRender(t, d, 80, "a b # note\nc")

	// суффикс в конце документа тоже выводится
	expectRender(t, Cat(Text("x"), LineSuffix{Contents: Text(" # end")}), 80, "x # end")
}

func TestLineSuffixDoesNotBreakGroup(t *testing.T) {
	d := &Group{Contents: Cat(
		Text("a"), LineOrSpace, Text("b"),
		LineSuffix{Contents: Cat(Text(" # one"), HardLine, Text("# two"))},
	)}
	expectRender(t, d, 80, "a b # one\n# two")
}

func TestTrailingWhitespaceTrimmed(t *testing.T) {
	d := Cat(Text("a "), HardLine, Indent{Contents: Cat(HardLine, Text("b  "))})
	expectRender(t, d, 80, "a\n\n  b")
}

func TestMultilineTextIsRaw(t *testing.T) {
	raw := Text("@\"\n  keep   \n\"@")
	d := &Group{Contents: Cat(Text("$x ="), LineOrSpace, raw, Text(" "), LineOrSpace, Text("y"))}
	// текст с переводом строки ломает группу, но сам не трогается
	expectRender(t, d, 80, "$x =\n@\"\n  keep   \n\"@\ny")
}

func TestIndentUnits(t *testing.T) {
	d := Cat(Text("{"), Indent{Contents: Cat(HardLine, Text("a"), Indent{Contents: Cat(HardLine, Text("b"))})}, HardLine, Text("}"))
	if got := Render(d, RenderOptions{Width: 80, UseTabs: true, IndentSize: 4}); got != "{\n\ta\n\t\tb\n}" {
		t.Fatalf("tabs: %q", got)
	}
	if got := Render(d, RenderOptions{Width: 80, IndentSize: 4}); got != "{\n    a\n        b\n}" {
		t.Fatalf("spaces: %q", got)
	}
}

func TestWideRunesMeasured(t *testing.T) {
	// каждый иероглиф занимает две колонки
	d := list("日本語", "日本語")
	expectRender(t, d, 16, "(日本語, 日本語)")
	expectRender(t, d, 15, "(\n  日本語,\n  日本語\n)")
}

func TestBuilderIDsMonotonic(t *testing.T) {
	var b Builder
	first := b.NewGroupID()
	_, second := b.GroupWithID(Text("x"))
	if first != 1 || second != 2 {
		t.Fatalf("ids = %d, %d", first, second)
	}
	var other Builder
	if other.NewGroupID() != 1 {
		t.Fatal("builders must count independently")
	}
}

func TestCatDropsNil(t *testing.T) {
	expectRender(t, Cat(nil, Text("a"), nil, Text("b")), 80, "ab")
}
