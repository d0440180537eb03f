package lexer

import (
	"strings"

	"psfmt/internal/token"
)

var sizeSuffixes = []string{"kb", "mb", "gb", "tb", "pb"}

// scanNumber: 123, 1.5, .5, 1e-3, 0x1F, 0b1010, с суффиксами типа
// (L, U, UL, D, F) и размера (KB..PB). "1..10" - диапазон, точки в число не входят.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	b0, b1, _ := lx.cursor.Peek2()
	switch {
	case b0 == '0' && (b1 == 'x' || b1 == 'X') && isHex(lx.cursor.PeekAt(2)):
		lx.cursor.Advance(2)
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	case b0 == '0' && (b1 == 'b' || b1 == 'B') && isBin(lx.cursor.PeekAt(2)):
		lx.cursor.Advance(2)
		for isBin(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	default:
		lx.scanDecimal()
	}

	lx.scanNumberSuffix()
	return lx.emit(token.Number, start)
}

func isBin(b byte) bool { return b == '0' || b == '1' }

func (lx *Lexer) scanDecimal() {
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	// дробная часть, но не оператор диапазона
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		n := lx.cursor.PeekAt(1)
		switch {
		case isDec(n):
			lx.cursor.Bump()
		case (n == '+' || n == '-') && isDec(lx.cursor.PeekAt(2)):
			lx.cursor.Advance(2)
		default:
			return
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
}

// scanNumberSuffix съедает суффикс типа и/или размера, если за ним не
// продолжается слово ("1kb" - да, "1kbx" - нет).
func (lx *Lexer) scanNumberSuffix() {
	m := lx.cursor.Mark()
	switch lx.cursor.Peek() {
	case 'u', 'U':
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == 'l' || b == 'L' {
			lx.cursor.Bump()
		}
	case 'l', 'L', 'd', 'D', 'f', 'F':
		lx.cursor.Bump()
	}
	if lx.wordContinues() {
		lx.cursor.Reset(m)
	}

	m = lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok {
		return
	}
	pair := strings.ToLower(string([]byte{b0, b1}))
	for _, s := range sizeSuffixes {
		if pair == s {
			lx.cursor.Advance(2)
			if lx.wordContinues() {
				lx.cursor.Reset(m)
			}
			return
		}
	}
}

func (lx *Lexer) wordContinues() bool {
	if lx.cursor.EOF() {
		return false
	}
	r, _ := lx.peekRune()
	return r != '-' && isIdentContinueRune(r)
}
