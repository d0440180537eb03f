package ast

// Role classifies Text leaves.
type Role uint8

const (
	RoleWord Role = iota
	RoleKeyword
	RoleNumber
	RoleVariable
	RoleString
	RoleOperator
	RolePunctuation
	RoleUnknown
	RoleAttribute
)

var roleNames = [...]string{
	RoleWord:        "word",
	RoleKeyword:     "keyword",
	RoleNumber:      "number",
	RoleVariable:    "variable",
	RoleString:      "string",
	RoleOperator:    "operator",
	RolePunctuation: "punctuation",
	RoleUnknown:     "unknown",
	RoleAttribute:   "attribute",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "role?"
}

// CommentStyle distinguishes "# ..." from "<# ... #>".
type CommentStyle uint8

const (
	CommentLine CommentStyle = iota
	CommentBlock
)

func (s CommentStyle) String() string {
	if s == CommentBlock {
		return "block"
	}
	return "line"
}

// ArrayKind distinguishes "@( ... )" from "[ ... ]".
type ArrayKind uint8

const (
	ArrayImplicit ArrayKind = iota
	ArrayExplicit
)

func (k ArrayKind) String() string {
	if k == ArrayExplicit {
		return "explicit"
	}
	return "implicit"
}
