package token

import "strings"

var keywords = map[string]struct{}{
	"begin": {}, "break": {}, "catch": {}, "class": {}, "configuration": {},
	"continue": {}, "data": {}, "define": {}, "do": {}, "dynamicparam": {},
	"else": {}, "elseif": {}, "end": {}, "enum": {}, "exit": {}, "filter": {},
	"finally": {}, "for": {}, "foreach": {}, "from": {}, "function": {},
	"hidden": {}, "if": {}, "in": {}, "inlinescript": {}, "parallel": {},
	"param": {}, "process": {}, "return": {}, "sequence": {}, "static": {},
	"switch": {}, "throw": {}, "trap": {}, "try": {}, "until": {}, "using": {},
	"var": {}, "while": {}, "workflow": {},
}

// Dash word operators without the leading dash. Comparison operators also
// exist with the c (case-sensitive) and i (case-insensitive) prefixes.
var wordOperators = func() map[string]struct{} {
	comparison := []string{
		"eq", "ne", "gt", "ge", "lt", "le",
		"like", "notlike", "match", "notmatch",
		"contains", "notcontains", "in", "notin",
		"replace", "split",
	}
	other := []string{
		"join", "and", "or", "xor", "not",
		"band", "bor", "bxor", "bnot", "shl", "shr",
		"is", "isnot", "as", "f",
	}
	m := make(map[string]struct{}, len(comparison)*3+len(other))
	for _, op := range comparison {
		m[op] = struct{}{}
		m["c"+op] = struct{}{}
		m["i"+op] = struct{}{}
	}
	for _, op := range other {
		m[op] = struct{}{}
	}
	return m
}()

// Regex-taking operators; string literals on their right side are left as written.
var regexOperators = map[string]struct{}{
	"match": {}, "notmatch": {}, "replace": {}, "split": {},
	"cmatch": {}, "cnotmatch": {}, "creplace": {}, "csplit": {},
	"imatch": {}, "inotmatch": {}, "ireplace": {}, "isplit": {},
}

var assignOperators = map[string]struct{}{
	"=": {}, "+=": {}, "-=": {}, "*=": {}, "/=": {}, "%=": {}, "??=": {},
}

// Spellings that must never be split by a space when two adjacent tokens
// happen to concatenate into them.
var compoundOperators = map[string]struct{}{
	"+=": {}, "-=": {}, "*=": {}, "/=": {}, "%=": {}, "??=": {}, "??": {},
	"==": {}, "++": {}, "--": {}, "&&": {}, "||": {}, ">>": {}, "<<": {},
	"::": {}, "..": {}, "2>": {}, "2>&1": {}, ">&1": {},
}

// IsKeyword reports whether word is a reserved word, ignoring case.
func IsKeyword(word string) bool {
	_, ok := keywords[strings.ToLower(word)]
	return ok
}

// IsWordOperator reports whether name (without the dash) is a dash word operator.
func IsWordOperator(name string) bool {
	_, ok := wordOperators[strings.ToLower(name)]
	return ok
}

// IsRegexOperator reports whether op (with the dash) takes a regular expression.
func IsRegexOperator(op string) bool {
	if !strings.HasPrefix(op, "-") {
		return false
	}
	_, ok := regexOperators[strings.ToLower(op[1:])]
	return ok
}

// IsAssignOperator reports whether op is "=" or a compound assignment.
func IsAssignOperator(op string) bool {
	_, ok := assignOperators[op]
	return ok
}

// IsCompoundOperator reports whether s spells a multi-character operator.
func IsCompoundOperator(s string) bool {
	_, ok := compoundOperators[s]
	return ok
}
