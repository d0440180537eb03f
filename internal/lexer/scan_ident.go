package lexer

import (
	"psfmt/internal/token"
)

// scanIdentOrKeyword: буква/'_' в начале, далее буквы, цифры, '_' и '-'.
// Ключевые слова распознаются без учёта регистра.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.bumpRune()
	lx.skipRunes(isIdentContinueRune)
	tok := lx.emit(token.Identifier, start)
	if token.IsKeyword(tok.Text) {
		tok.Kind = token.Keyword
	}
	return tok
}

// isDashWordStart: '-' сразу за которым буква ("-eq", "-Path").
func (lx *Lexer) isDashWordStart() bool {
	r, sz := lx.runeAt(lx.cursor.Off + 1)
	return sz > 0 && (r == '_' || isLetterRune(r))
}

// scanDashWord: "-" + слово. Операторы из фиксированного набора становятся
// Operator, остальное - имя параметра (Identifier), вместе с ':' вида "-Path:".
func (lx *Lexer) scanDashWord() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '-'
	lx.skipRunes(isIdentContinueRune)
	tok := lx.emit(token.Identifier, start)
	if token.IsWordOperator(tok.Text[1:]) {
		tok.Kind = token.Operator
		return tok
	}
	if lx.cursor.Peek() == ':' && lx.cursor.PeekAt(1) != ':' {
		lx.cursor.Bump()
		tok = lx.emit(token.Identifier, start)
	}
	return tok
}

// scanVariable: $name, $scope:name, ${...}, $$, $^, $?, $_ и "$(".
func (lx *Lexer) scanVariable() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '$'
	switch lx.cursor.Peek() {
	case '(':
		lx.cursor.Bump()
		return lx.emit(token.Operator, start)
	case '{':
		closed := false
		for !closed && !lx.cursor.EOF() {
			closed = lx.cursor.Bump() == '}'
		}
		tok := lx.emit(token.Variable, start)
		tok.Unterminated = !closed
		return tok
	case '$', '^', '?':
		lx.cursor.Bump()
		return lx.emit(token.Variable, start)
	}
	r, _ := lx.peekRune()
	if !isVarNameRune(r) {
		return lx.emit(token.Unknown, start)
	}
	lx.skipRunes(isVarNameRune)
	// квалификатор области: $env:Path, $script:count
	if lx.cursor.Peek() == ':' {
		if next, sz := lx.runeAt(lx.cursor.Off + 1); sz > 0 && isIdentStartRune(next) {
			lx.cursor.Bump()
			lx.skipRunes(isVarNameRune)
		}
	}
	return lx.emit(token.Variable, start)
}

func (lx *Lexer) skipRunes(pred func(rune) bool) {
	for !lx.cursor.EOF() {
		r, _ := lx.peekRune()
		if !pred(r) {
			return
		}
		lx.bumpRune()
	}
}
