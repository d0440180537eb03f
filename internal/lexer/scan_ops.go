package lexer

import (
	"psfmt/internal/token"
)

// Многосимвольные операторы в порядке убывания длины (жадный матч).
var multiOps = []string{
	"??=",
	"@{", "@(", "::", "..", "||", "&&", "==", ">>", "<<", "++", "--", "??",
	"+=", "-=", "*=", "/=", "%=",
}

const singleOps = "=+-*/%|&.:!?<>@"

// scanOperatorOrPunct возвращает ok=false для символов, которые не являются
// ни операторами, ни пунктуацией.
func (lx *Lexer) scanOperatorOrPunct() (token.Token, bool) {
	start := lx.cursor.Mark()
	switch lx.cursor.Peek() {
	case '(', ')', '{', '}', '[', ']', ',', ';':
		lx.cursor.Bump()
		return lx.emit(token.Punctuation, start), true
	}
	if lx.cursor.Peek() == '>' && lx.cursor.PeekAt(1) == '&' && isDec(lx.cursor.PeekAt(2)) {
		lx.cursor.Advance(3)
		return lx.emit(token.Operator, start), true
	}
	for _, op := range multiOps {
		if lx.tryPrefix(op) {
			return lx.emit(token.Operator, start), true
		}
	}
	b := lx.cursor.Peek()
	for i := 0; i < len(singleOps); i++ {
		if singleOps[i] == b {
			lx.cursor.Bump()
			return lx.emit(token.Operator, start), true
		}
	}
	return token.Token{}, false
}

// isRedirectStart: "N>" (N - одна цифра 1..6) и "*>".
func isRedirectStart(b0, b1 byte) bool {
	if b1 != '>' {
		return false
	}
	return (b0 >= '1' && b0 <= '6') || b0 == '*'
}

// scanRedirection: 2>, 2>>, 2>&1, *>, *>>, *>&1.
func (lx *Lexer) scanRedirection() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Advance(2)
	switch {
	case lx.cursor.Eat('>'):
	case lx.cursor.Peek() == '&' && isDec(lx.cursor.PeekAt(1)):
		lx.cursor.Advance(2)
	}
	return lx.emit(token.Operator, start)
}
