// Package fuzztests houses Go fuzz harnesses that exercise the formatting
// pipeline (source -> lexer -> parser -> printer). Its goal is to smoke test
// robustness and guard against panics, hangs and unstable output on
// arbitrary inputs.
//
// Назначение: прогонять произвольные байты через лексер, парсер и
// форматтер, проверяя тотальность и идемпотентность.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/format, internal/testkit.

package fuzztests
