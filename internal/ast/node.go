// Package ast defines the syntax tree produced by the structural parser.
//
// The tree is shallow: statements are pipelines of expressions, and
// expressions are flat part lists in which only bracketed constructs nest.
//
//	Node (interface)
//	├── Script, ScriptBlock, SubExpression - statement lists
//	├── FunctionDeclaration, Pipeline, Comment, BlankLine - statements
//	├── Expression - ordered parts of one pipeline segment
//	└── Text, HereString, Hashtable, ArrayLiteral, Parenthesis - parts
//
// Every node carries one location: the union of its children, or a degenerate
// span when it has none. Nodes are never modified after the parser returns.
package ast

import "psfmt/internal/source"

// Node is implemented by every tree node.
type Node interface {
	Loc() source.Span
	node() // marker method to prevent external implementations
}

// Base carries the location shared by all nodes.
type Base struct {
	Span source.Span
}

func (b *Base) Loc() source.Span { return b.Span }
func (b *Base) node()            {}

// Script is the top level of a file.
type Script struct {
	Base
	Body []Node
}

// FunctionDeclaration is "function Name(...) { ... }" (also filter/workflow).
// Body is nil when the source ended before the opening brace.
type FunctionDeclaration struct {
	Base
	Header         *Expression
	HeaderComments []*Comment
	Body           *ScriptBlock
}

// ScriptBlock is a brace-delimited statement list.
type ScriptBlock struct {
	Base
	Body []Node
	// Multiline is set when the braces contained a line break in the source.
	Multiline bool
}

// SubExpression is "$( ... )".
type SubExpression struct {
	Base
	Body      []Node
	Multiline bool
}

// Pipeline is one statement: segments separated by '|'.
type Pipeline struct {
	Base
	Segments        []*Expression
	TrailingComment *Comment
}

// Expression is an ordered sequence of parts.
type Expression struct {
	Base
	Parts []Node
	// Spaced[i] reports whether whitespace separated Parts[i-1] and Parts[i]
	// in the source. Spaced[0] is always false.
	Spaced []bool
	// Trailing holds comments met while joining continuation lines.
	Trailing []*Comment
}

// Empty reports whether the expression has no parts.
func (e *Expression) Empty() bool { return e == nil || len(e.Parts) == 0 }

// Text is a leaf token.
type Text struct {
	Base
	Value string
	Role  Role
}

// Comment is a line or block comment.
type Comment struct {
	Base
	Value  string
	Style  CommentStyle
	Inline bool
}

// BlankLine is a run of empty lines between statements.
type BlankLine struct {
	Base
	Count int
}

// Hashtable is "@{ ... }".
type Hashtable struct {
	Base
	Entries []*HashtableEntry
	// Dangling holds comments of a table without entries.
	Dangling []*Comment
}

// HashtableEntry is "key = value". Key is the unquoted key text used for sorting.
type HashtableEntry struct {
	Base
	Key              string
	RawKey           *Expression
	Value            *Expression
	HasValue         bool
	LeadingComments  []*Comment
	TrailingComments []*Comment
}

// ArrayLiteral is "@( ... )" (implicit) or "[ ... ]" (explicit).
type ArrayLiteral struct {
	Base
	Elements []*Expression
	// Commas[i] reports that a comma followed Elements[i] in the source.
	Commas []bool
	Kind   ArrayKind
}

// Parenthesis is "( ... )".
type Parenthesis struct {
	Base
	Elements []*Expression
	// Commas[i] reports that a comma followed Elements[i] in the source.
	Commas     []bool
	HasComma   bool
	HasNewline bool
}

// HereString is a raw multi-line literal; Value includes the delimiters.
type HereString struct {
	Base
	Quote string
	Value string
}
