package source

import (
	"bytes"
	"path/filepath"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

func removeBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, bom) {
		return content[len(bom):], true
	}
	return content, false
}

// RestoreLayout re-applies the byte-level layout recorded in flags to formatted
// output produced with plain \n line breaks.
func RestoreLayout(out []byte, flags FileFlags) []byte {
	if flags&FileCRLF != 0 {
		out = toCRLF(out)
	}
	if flags&FileHadBOM != 0 {
		out = append(append([]byte(nil), bom...), out...)
	}
	return out
}

// toCRLF converts lone \n into \r\n, leaving existing \r\n pairs alone.
func toCRLF(content []byte) []byte {
	out := make([]byte, 0, len(content)+bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' && (i == 0 || content[i-1] != '\r') {
			out = append(out, '\r')
		}
		out = append(out, b)
	}
	return out
}

// hasMostlyCRLF reports whether more than half of the line breaks are \r\n.
func hasMostlyCRLF(content []byte) bool {
	lf := bytes.Count(content, []byte{'\n'})
	if lf == 0 {
		return false
	}
	crlf := bytes.Count(content, []byte("\r\n"))
	return crlf*2 > lf
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// Если LineIdx пустой, то весь файл - одна строка
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// бинпоиск: находим наибольший lineIdx[i] < off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi + 1 // количество переводов строки до off

	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
