package lexer

import (
	"strings"

	"psfmt/internal/token"
)

// skipSpaces пропускает пробельные символы, кроме переводов строк.
// Одиночный '\r' тоже пропускается, "\r\n" - нет.
func (lx *Lexer) skipSpaces() {
	for !lx.cursor.EOF() {
		b0, b1, _ := lx.cursor.Peek2()
		if b0 == '\r' && b1 == '\n' {
			return
		}
		r, _ := lx.peekRune()
		if !isSkippableSpace(r) {
			return
		}
		lx.bumpRune()
	}
}

func (lx *Lexer) scanNewline() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Eat('\r')
	lx.cursor.Eat('\n')
	return lx.emit(token.Newline, start)
}

// "# ..." до конца строки; хвостовые пробелы не входят ни в Text, ни в Span.
func (lx *Lexer) scanLineComment() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		if b0, b1, _ := lx.cursor.Peek2(); b0 == '\r' && b1 == '\n' {
			break
		}
		lx.cursor.Bump()
	}
	end := lx.cursor.Off
	raw := string(lx.file.Content[uint32(start):end])
	text := strings.TrimRightFunc(raw, isSkippableSpace)
	sp := lx.cursor.SpanFrom(start)
	sp.End = sp.Start + uint32(len(text)) // #nosec G115 -- text is a prefix of raw
	return token.Token{Kind: token.LineComment, Span: sp, Text: text}
}

// "<# ... #>" - до первого "#>" или до конца ввода.
func (lx *Lexer) scanBlockComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Advance(2)
	closed := false
	for !closed && !lx.cursor.EOF() {
		if lx.tryPrefix("#>") {
			closed = true
			continue
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.BlockComment, start)
	tok.Unterminated = !closed
	return tok
}

// scanBacktick: "`" перед переводом строки - продолжение строки,
// иначе escape вместе со следующей руной.
func (lx *Lexer) scanBacktick() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	b0, b1, _ := lx.cursor.Peek2()
	if lx.cursor.Peek() == '\n' || (b0 == '\r' && b1 == '\n') {
		return lx.emit(token.LineContinuation, start)
	}
	if !lx.cursor.EOF() {
		lx.bumpRune()
	}
	return lx.emit(token.Unknown, start)
}
