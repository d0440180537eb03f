package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Unknown is an unrecognized rune or a backtick escape outside strings.
	Unknown Kind = iota
	// EOF marks the end of the source input. Tokenize never emits it.
	EOF
	// Newline is a single "\n" or "\r\n".
	Newline
	// LineComment is "# ..." up to the end of the line.
	LineComment
	// BlockComment is "<# ... #>".
	BlockComment
	// Attribute is a bracketed type or attribute, e.g. "[string]" or "[Parameter(Mandatory)]".
	Attribute
	// HereString is "@' ... '@" or "@\" ... \"@".
	HereString
	// String is a single- or double-quoted literal.
	String
	// Variable is "$name", "${name}", "$env:Path" or one of the specials.
	Variable
	// Number is a numeric literal including suffixes.
	Number
	// Identifier is a bare word: command names, arguments, member names, -Parameters.
	Identifier
	// Keyword is a reserved word such as "function" or "foreach".
	Keyword
	// Operator covers symbolic operators, dash word operators and sigil openers.
	Operator
	// Punctuation is one of ( ) { } [ ] , ;
	Punctuation
	// LineContinuation is a backtick placed directly before a line break.
	LineContinuation
)

var kindNames = [...]string{
	Unknown:          "Unknown",
	EOF:              "EOF",
	Newline:          "Newline",
	LineComment:      "LineComment",
	BlockComment:     "BlockComment",
	Attribute:        "Attribute",
	HereString:       "HereString",
	String:           "String",
	Variable:         "Variable",
	Number:           "Number",
	Identifier:       "Identifier",
	Keyword:          "Keyword",
	Operator:         "Operator",
	Punctuation:      "Punctuation",
	LineContinuation: "LineContinuation",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// QuoteStyle records the delimiter of String and HereString tokens.
type QuoteStyle uint8

const (
	QuoteNone QuoteStyle = iota
	QuoteSingle
	QuoteDouble
)

func (q QuoteStyle) String() string {
	switch q {
	case QuoteSingle:
		return "single"
	case QuoteDouble:
		return "double"
	default:
		return "none"
	}
}
