package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
)

var scriptExts = map[string]bool{".ps1": true, ".psm1": true, ".psd1": true}

// inlineSeeds cover constructs that testdata may not contain.
var inlineSeeds = []string{
	"",
	"param([string]$Name, [int]$Age)",
	"@{ b = 1; a = 2 }",
	"gci | ? { $_.Length -gt 1KB } | % Name",
	"Write-Host \"hi\"",
	"@(1, 2, 3)",
	"function A {}\nfunction B {}",
	"$s = @\"\nline $x\n\"@\n$t = @'\nraw\n'@",
	"try { 1 } catch [System.Exception] { 2 } finally { 3 }",
	"$x = $env:Path -split ';' # trailing\n<# block #>\n",
	"[int]::MaxValue.ToString()\n$a[0..2]\n& $cmd @args 2>&1 > $null",
	"\ufeffif ($a) {\r\n  'crlf'\r\n}\r\n",
	"$a = ,1\n$b=,$c\n@(,1)\nreturn ,$x",
	"$x = $a+$b*-1\n$y = $files ?? (dir *.ps1)",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все скрипты
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if !scriptExts[filepath.Ext(path)] {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
