package lexer

import (
	"psfmt/internal/token"
)

func quoteStyleOf(q byte) token.QuoteStyle {
	if q == '\'' {
		return token.QuoteSingle
	}
	return token.QuoteDouble
}

// scanString: '...' или "...". Backtick экранирует следующий символ (включая
// закрывающую кавычку), удвоенная кавычка - это кавычка внутри строки.
// Строка может занимать несколько строк; без закрывающей кавычки - до EOF.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	q := lx.cursor.Bump()
	closed := false
	for !closed && !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '`' {
			if !lx.cursor.EOF() {
				lx.bumpRune()
			}
			continue
		}
		if b == q {
			if lx.cursor.Peek() == q {
				lx.cursor.Bump()
				continue
			}
			closed = true
		}
	}
	tok := lx.emit(token.String, start)
	tok.Quote = quoteStyleOf(q)
	tok.Unterminated = !closed
	return tok
}

// scanHereString: @"..."@ / @'...'@. Закрывающая пара quote+'@' засчитывается
// только сразу после открывающей или в начале физической строки
// ("\n", "\r\n" или одиночный "\r"). Иначе - до конца ввода.
func (lx *Lexer) scanHereString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '@'
	q := lx.cursor.Bump()
	bodyStart := lx.cursor.Off
	content := lx.file.Content
	closed := false
	for !closed && !lx.cursor.EOF() {
		off := lx.cursor.Off
		b0, b1, ok := lx.cursor.Peek2()
		if ok && b0 == q && b1 == '@' {
			if off == bodyStart || content[off-1] == '\n' || content[off-1] == '\r' {
				lx.cursor.Advance(2)
				closed = true
				continue
			}
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.HereString, start)
	tok.Quote = quoteStyleOf(q)
	tok.Unterminated = !closed
	return tok
}

// isAttributeStart: '[' затем (после пробелов/табов) буква или '_'.
func (lx *Lexer) isAttributeStart() bool {
	off := lx.cursor.Off + 1
	for {
		r, sz := lx.runeAt(off)
		if sz == 0 {
			return false
		}
		if r == ' ' || r == '\t' {
			off++
			continue
		}
		return isIdentStartRune(r)
	}
}

// scanAttribute сканирует [Type] / [Attr(...)] с учётом вложенных скобок.
// Внутри кавычек скобки не считаются, backtick пропускает следующий символ.
func (lx *Lexer) scanAttribute() token.Token {
	start := lx.cursor.Mark()
	depth := 0
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '[':
			depth++
			lx.cursor.Bump()
		case ']':
			depth--
			lx.cursor.Bump()
			if depth == 0 {
				return lx.emit(token.Attribute, start)
			}
		case '\'', '"':
			lx.skipQuoted(b)
		default:
			lx.bumpRune()
		}
	}
	tok := lx.emit(token.Attribute, start)
	tok.Unterminated = true
	return tok
}

func (lx *Lexer) skipQuoted(q byte) {
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '`' {
			if !lx.cursor.EOF() {
				lx.bumpRune()
			}
			continue
		}
		if b == q {
			return
		}
	}
}
