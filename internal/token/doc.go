// Package token defines lexical token kinds for PowerShell sources.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span, except for line
//     comments whose trailing whitespace is trimmed (Span.End is shortened to match).
//   - Whitespace other than line breaks never produces a token.
//   - Keywords and dash word operators are classified case-insensitively; Text keeps
//     the original spelling.
//   - All lookup tables in this package are read-only after package init.
package token
