package driver

import (
	"psfmt/internal/ast"
	"psfmt/internal/parser"
	"psfmt/internal/source"
	"psfmt/internal/token"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Script  *ast.Script
	Tokens  []token.Token
}

// Parse loads path and builds its AST. Parsing never fails; only I/O errors
// are returned.
func Parse(path string) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	script, toks := parser.ParseFile(file)
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Script:  script,
		Tokens:  toks,
	}, nil
}
