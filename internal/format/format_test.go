package format_test

import (
	"regexp"
	"strings"
	"testing"

	"psfmt/internal/config"
	"psfmt/internal/format"
	"psfmt/internal/source"
)

func expectFormat(t *testing.T, src string, opts config.Options, want string) {
	t.Helper()
	if got := format.Format(src, opts); got != want {
		t.Fatalf("Format(%q)\n got: %q\nwant: %q", src, got, want)
	}
}

func TestParamBlockOneParameterPerLine(t *testing.T) {
	expectFormat(t, "param([string]$Name, [int]$Age)", config.Options{},
		"param(\n  [string] $Name,\n  [int] $Age\n)")
}

func TestParamAttributesOnOwnLines(t *testing.T) {
	expectFormat(t, "param([Parameter(Mandatory)][string]$Path)", config.Options{},
		"param(\n  [Parameter(Mandatory)]\n  [string] $Path\n)")
}

func TestSortHashtableKeys(t *testing.T) {
	opts := config.Options{SortHashtableKeys: config.Ptr(true)}
	expectFormat(t, "@{ b = 1; a = 2 }", opts, "@{ a = 2; b = 1 }")
	// без сортировки порядок сохраняется
	expectFormat(t, "@{ b = 1; a = 2 }", config.Options{}, "@{ b = 1; a = 2 }")
	// сравнение без учёта регистра, стабильное
	expectFormat(t, "@{ B = 1; a = 2; b = 3 }", opts, "@{ a = 2; B = 1; b = 3 }")
}

func TestRewriteAliases(t *testing.T) {
	opts := config.Options{RewriteAliases: config.Ptr(true)}
	if got := format.Format("gi", opts); !strings.Contains(got, "Get-Item") {
		t.Fatalf("alias not expanded: %q", got)
	}
	expectFormat(t, "ls | % { $_ } | ? { $_ }", opts,
		"Get-ChildItem | ForEach-Object { $_ } | Where-Object { $_ }")
	expectFormat(t, "$list | foreach { $_ }", opts, "$list | ForEach-Object { $_ }")
	// команда справа от присваивания, после '&' и после return
	expectFormat(t, "$files = gci", opts, "$files = Get-ChildItem")
	expectFormat(t, "$files = gci -Recurse | ? { $_ }", opts,
		"$files = Get-ChildItem -Recurse | Where-Object { $_ }")
	expectFormat(t, "& gci", opts, "& Get-ChildItem")
	expectFormat(t, "$x = & gi .", opts, "$x = & Get-Item .")
	expectFormat(t, "return ls", opts, "return Get-ChildItem")
	expectFormat(t, "foreach ($f in ls) { $f }", opts, "foreach ($f in Get-ChildItem) { $f }")
	// имя функции и члены объекта не трогаем
	expectFormat(t, "function ls { 1 }", opts, "function ls { 1 }")
	expectFormat(t, "$x = $o.gci", opts, "$x = $o.gci")
	// аргументы и ключи таблиц не трогаем
	expectFormat(t, "Write-Output ls", opts, "Write-Output ls")
	expectFormat(t, "@{ ls = 1 }", opts, "@{ ls = 1 }")
	// выключено по умолчанию
	expectFormat(t, "gi", config.Options{}, "gi")
}

func TestRewriteWriteHost(t *testing.T) {
	opts := config.Options{RewriteWriteHost: config.Ptr(true)}
	expectFormat(t, `Write-Host "hi"`, opts, `Write-Output "hi"`)
	expectFormat(t, `write-host "hi"`, opts, `Write-Output "hi"`)
	expectFormat(t, `Write-Host "hi"`, config.Options{}, `Write-Host "hi"`)
}

func TestArrayNeverGetsTrailingComma(t *testing.T) {
	trailing := regexp.MustCompile(`,\s*\)`)
	for _, sep := range []string{"none", "multiline", "all"} {
		opts := config.Options{TrailingSeparator: config.Ptr(sep)}
		got := format.Format("@(1, 2, 3)", opts)
		if trailing.MatchString(got) {
			t.Fatalf("separator %s: trailing comma in %q", sep, got)
		}
		if got != "@(\n  1,\n  2,\n  3\n)" {
			t.Fatalf("separator %s: got %q", sep, got)
		}
	}
}

func TestBlankLinesBetweenFunctions(t *testing.T) {
	src := "function A {}\nfunction B {}"
	expectFormat(t, src, config.Options{BlankLinesBetweenFunctions: config.Ptr(2)},
		"function A {}\n\n\nfunction B {}")
	expectFormat(t, src, config.Options{}, "function A {}\n\nfunction B {}")
	expectFormat(t, src, config.Options{BlankLinesBetweenFunctions: config.Ptr(0)},
		"function A {}\nfunction B {}")
	// комментарий над функцией не отрывается от неё
	expectFormat(t, "$x = 1\n# doc\nfunction A {}", config.Options{},
		"$x = 1\n# doc\nfunction A {}")
}

func TestBlankLineAfterParam(t *testing.T) {
	expectFormat(t, "param($a)\n$a", config.Options{}, "param(\n  $a\n)\n\n$a")
	expectFormat(t, "param($a)\n$a", config.Options{BlankLineAfterParam: config.Ptr(false)},
		"param(\n  $a\n)\n$a")
}

func TestKeywordCase(t *testing.T) {
	cases := []struct {
		mode string
		src  string
		want string
	}{
		{"lower", "IF ($a) { 1 } ELSE { 2 }", "if ($a) { 1 } else { 2 }"},
		{"upper", "if ($a) { 1 }", "IF ($a) { 1 }"},
		{"pascal", "if ($a) { 1 } elseif ($b) { 2 }", "If ($a) { 1 } ElseIf ($b) { 2 }"},
		{"preserve", "iF ($a) { 1 }", "iF ($a) { 1 }"},
	}
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			expectFormat(t, tc.src, config.Options{KeywordCase: config.Ptr(tc.mode)}, tc.want)
		})
	}
}

func TestPreferSingleQuote(t *testing.T) {
	opts := config.Options{PreferSingleQuote: config.Ptr(true)}
	cases := []struct {
		src  string
		want string
	}{
		{`$a = "plain"`, `$a = 'plain'`},
		{`$a = "$name"`, `$a = "$name"`},
		{"$a = \"tab`t\"", "$a = \"tab`t\""},
		{`$a = "it's"`, `$a = "it's"`},
		{`$a = "a|b"`, `$a = "a|b"`},
		{`$a -match "abc"`, `$a -match "abc"`},
		{`Write-Output "hi"`, `Write-Output "hi"`},
	}
	for _, tc := range cases {
		expectFormat(t, tc.src, opts, tc.want)
	}
	expectFormat(t, `$a = "plain"`, config.Options{}, `$a = "plain"`)
}

func TestBraceStyle(t *testing.T) {
	allman := config.Options{BraceStyle: config.Ptr("allman")}
	expectFormat(t, "if ($a) { 1 } else { 2 }", allman, "if ($a)\n{ 1 }\nelse\n{ 2 }")
	expectFormat(t, "function F { 1 }", allman, "function F\n{ 1 }")
	expectFormat(t, "if ($a)\n{\n1\n}\nelse\n{\n2\n}", config.Options{},
		"if ($a) {\n  1\n} else {\n  2\n}")
}

func TestExpressionSpacing(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"$x=1", "$x = 1"},
		{"$x+=1", "$x += 1"},
		{"[int]$x = 5", "[int]$x = 5"},
		{"$list.Add($item)", "$list.Add($item)"},
		{"$a[0].Name", "$a[0].Name"},
		{"[Math]::Round(1.5)", "[Math]::Round(1.5)"},
		{"foreach ($f in $files) { $f }", "foreach ($f in $files) { $f }"},
		{"try { a } catch { b } finally { c }", "try { a } catch { b } finally { c }"},
		{"do { a } while ($x)", "do { a } while ($x)"},
		// в режиме команды смежность из исходника сохраняется
		{"Write-Output a=b x,y", "Write-Output a=b x,y"},
		{"$files = dir *.ps1", "$files = dir *.ps1"},
		{"return gci *.ps1", "return gci *.ps1"},
		// бинарные операторы в выражениях
		{"$x = $a+$b", "$x = $a + $b"},
		{"$x=$a*2", "$x = $a * 2"},
		{"$n = $i%2", "$n = $i % 2"},
		{"$s = $a??'d'", "$s = $a ?? 'd'"},
		{`$m = "{0}"-f $v`, `$m = "{0}" -f $v`},
		// унарные операторы остаются слитными
		{"$x = -1", "$x = -1"},
		{"$x = $a*-1", "$x = $a * -1"},
		{"[int]-1", "[int]-1"},
		{"$a[0..2]", "$a[0..2]"},
		{"$i++", "$i++"},
	}
	for _, tc := range cases {
		expectFormat(t, tc.src, config.Options{}, tc.want)
		expectStable(t, tc.src, config.Options{})
	}
}

func expectStable(t *testing.T, src string, opts config.Options) {
	t.Helper()
	once := format.Format(src, opts)
	if twice := format.Format(once, opts); twice != once {
		t.Fatalf("Format is not idempotent for %q\n once: %q\ntwice: %q", src, once, twice)
	}
}

func TestUnaryComma(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"$a = ,1", "$a = ,1"},
		{"$a=,$b", "$a = ,$b"},
		{"0=,", "0 = ,"},
		{"return ,$list", "return ,$list"},
		{"$a + ,1", "$a + ,1"},
		{"Write-Output ,1", "Write-Output ,1"},
		{"Write-Output -InputObject ,$x", "Write-Output -InputObject ,$x"},
		{"Write-Output a , b", "Write-Output a, b"},
		{"$x = 1 , 2", "$x = 1, 2"},
		{"@(,1)", "@(,1)"},
	}
	for _, tc := range cases {
		expectFormat(t, tc.src, config.Options{}, tc.want)
		expectStable(t, tc.src, config.Options{})
	}
}

func TestPipelineLayout(t *testing.T) {
	expectFormat(t, "Get-Process|Sort-Object CPU", config.Options{}, "Get-Process | Sort-Object CPU")

	long := "Get-ChildItem -Path foo -Recurse | Where-Object Length | Sort-Object Length"
	expectFormat(t, long, config.Options{LineWidth: config.Ptr(40)},
		"Get-ChildItem -Path foo -Recurse\n  | Where-Object Length\n  | Sort-Object Length")
	expectFormat(t, long, config.Options{}, long)

	// многострочный блок не разрывает конвейер
	expectFormat(t, "Get-Item x | ForEach-Object {\n$_\n}", config.Options{},
		"Get-Item x | ForEach-Object {\n  $_\n}")
}

func TestHashtableSeparators(t *testing.T) {
	src := "$h = @{\n  a = 1 # one\n  b = 2\n}"
	cases := []struct {
		sep  string
		want string
	}{
		{"multiline", "$h = @{\n  a = 1; # one\n  b = 2;\n}"},
		{"all", "$h = @{\n  a = 1; # one\n  b = 2;\n}"},
		{"none", "$h = @{\n  a = 1; # one\n  b = 2\n}"},
	}
	for _, tc := range cases {
		t.Run(tc.sep, func(t *testing.T) {
			expectFormat(t, src, config.Options{TrailingSeparator: config.Ptr(tc.sep)}, tc.want)
		})
	}
	expectFormat(t, "@{ a = 1 }", config.Options{TrailingSeparator: config.Ptr("all")}, "@{ a = 1; }")
	expectFormat(t, "@{ a = 1 }", config.Options{}, "@{ a = 1 }")
	expectFormat(t, "@{}", config.Options{}, "@{}")
}

func TestCommentsAndBlankLines(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"a; # c", "a # c"},
		{"$x = 1 # note", "$x = 1 # note"},
		{"# head\na", "# head\na"},
		{"a\n\nb", "a\n\nb"},
		{"a; b", "a\nb"},
		{"{ a; b }", "{ a; b }"},
		{"<# block #> a", "<# block #> a"},
	}
	for _, tc := range cases {
		expectFormat(t, tc.src, config.Options{}, tc.want)
	}
}

func TestIndentStyle(t *testing.T) {
	src := "if ($a) {\n1\n}"
	expectFormat(t, src, config.Options{IndentStyle: config.Ptr("tabs")}, "if ($a) {\n\t1\n}")
	expectFormat(t, src, config.Options{IndentSize: config.Ptr(4)}, "if ($a) {\n    1\n}")
}

func TestHereStringKeptVerbatim(t *testing.T) {
	src := "$s = @\"\n  keep   this\n\"@"
	expectFormat(t, src, config.Options{}, src)
}

func TestFormatFileRestoresLayout(t *testing.T) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.Add("x.ps1", []byte("$x=1\r\n$y=2\r\n"), source.FileHadBOM))
	out, err := format.FormatFile(sf, config.Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "\xEF\xBB\xBF$x = 1\r\n$y = 2\r\n"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}

	empty := source.NewVirtualFile("empty.ps1", nil)
	out, err = format.FormatFile(empty, config.Options{})
	if err != nil || len(out) != 0 {
		t.Fatalf("empty file: %q, %v", out, err)
	}

	if _, err := format.FormatFile(nil, config.Options{}); err == nil {
		t.Fatal("expected error for nil file")
	}
}
