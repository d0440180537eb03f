package lexer

import (
	"psfmt/internal/source"
	"psfmt/internal/token"
)

// Lexer turns a source file into tokens. It never fails: anything it does not
// recognize becomes an Unknown token, so every call to Next makes progress.
type Lexer struct {
	file   *source.File
	cursor Cursor
	look   *token.Token // 1 элементный буфер для токена
	prev   token.Token  // последний выданный токен
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		prev:   token.Token{Kind: token.EOF},
	}
}

// Tokenize lexes src in full. The result never contains an EOF token.
func Tokenize(src string) []token.Token {
	return TokenizeFile(source.NewVirtualFile("<input>", []byte(src)))
}

// TokenizeFile lexes an already loaded file.
func TokenizeFile(file *source.File) []token.Token {
	lx := New(file)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipSpaces()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	tok := lx.scan()
	lx.prev = tok
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) scan() token.Token {
	ch := lx.cursor.Peek()
	b0, b1, _ := lx.cursor.Peek2()

	switch {
	case ch == '\n':
		return lx.scanNewline()
	case b0 == '\r' && b1 == '\n':
		return lx.scanNewline()
	case b0 == '<' && b1 == '#':
		return lx.scanBlockComment()
	case ch == '#':
		if lx.gluedToWord() {
			return lx.scanUnknown()
		}
		return lx.scanLineComment()
	case b0 == '@' && (b1 == '"' || b1 == '\''):
		return lx.scanHereString()
	case ch == '"' || ch == '\'':
		return lx.scanString()
	case ch == '$':
		return lx.scanVariable()
	case ch == '[' && lx.isAttributeStart():
		return lx.scanAttribute()
	case ch == '`':
		return lx.scanBacktick()
	case isRedirectStart(b0, b1):
		return lx.scanRedirection()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && isDec(b1) && !lx.prevGlued():
		return lx.scanNumber()
	case ch == '-' && lx.isDashWordStart():
		return lx.scanDashWord()
	}

	if r, _ := lx.peekRune(); isIdentStartRune(r) {
		return lx.scanIdentOrKeyword()
	}
	if tok, ok := lx.scanOperatorOrPunct(); ok {
		return tok
	}
	return lx.scanUnknown()
}

// prevGlued reports whether the previous token ends exactly here.
func (lx *Lexer) prevGlued() bool {
	return lx.prev.Kind != token.EOF && lx.prev.Span.End == lx.cursor.Off
}

// gluedToWord reports whether the current position directly continues a word,
// in which case '#' is an ordinary character (e.g. "a#b").
func (lx *Lexer) gluedToWord() bool {
	if !lx.prevGlued() {
		return false
	}
	switch lx.prev.Kind {
	case token.Identifier, token.Number, token.Unknown:
		return true
	default:
		return false
	}
}

func (lx *Lexer) scanUnknown() token.Token {
	start := lx.cursor.Mark()
	lx.bumpRune()
	if lx.cursor.Off == uint32(start) {
		lx.cursor.Bump()
	}
	return lx.emit(token.Unknown, start)
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
