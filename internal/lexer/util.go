package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ===== Работа с рунами поверх Cursor =====

// peekRune декодирует руну в текущей позиции
func (lx *Lexer) peekRune() (r rune, size int) {
	return lx.runeAt(lx.cursor.Off)
}

func (lx *Lexer) runeAt(off uint32) (r rune, size int) {
	content := lx.file.Content
	if int(off) >= len(content) {
		return utf8.RuneError, 0
	}
	b := content[off]
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRune(content[off:])
}

// bumpRune перемещает курсор на размер текущей руны (минимум один байт)
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Advance(usz)
}

// ===== Классификаторы =====

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isLetterRune(r rune) bool { return unicode.IsLetter(r) }

func isIdentContinueRune(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Variable names never contain a dash: "$a-1" is a subtraction.
func isVarNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isSkippableSpace covers every whitespace rune except line feeds, plus the
// zero-width space and the byte order mark.
func isSkippableSpace(r rune) bool {
	switch r {
	case '\n':
		return false
	case '\u200b', '\ufeff':
		return true
	}
	return unicode.IsSpace(r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

func isLetterByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// ===== Матчеры последовательностей операторов (жадность) =====

// tryPrefix съедает s, если текущая позиция начинается с него.
func (lx *Lexer) tryPrefix(s string) bool {
	n := uint32(len(s)) // #nosec G115 -- operator spellings are a few bytes
	if lx.cursor.Off+n > lx.cursor.limit {
		return false
	}
	if string(lx.file.Content[lx.cursor.Off:lx.cursor.Off+n]) != s {
		return false
	}
	lx.cursor.Advance(n)
	return true
}
