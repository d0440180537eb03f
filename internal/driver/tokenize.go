package driver

import (
	"psfmt/internal/lexer"
	"psfmt/internal/source"
	"psfmt/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
}

// Tokenize loads path and lexes it in full.
func Tokenize(path string) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lexer.TokenizeFile(file),
	}, nil
}
