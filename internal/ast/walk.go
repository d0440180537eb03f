package ast

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var out []Node
	addExpr := func(e *Expression) {
		if e != nil {
			out = append(out, e)
		}
	}
	addComments := func(cs []*Comment) {
		for _, c := range cs {
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *Script:
		out = append(out, n.Body...)
	case *ScriptBlock:
		out = append(out, n.Body...)
	case *SubExpression:
		out = append(out, n.Body...)
	case *FunctionDeclaration:
		addExpr(n.Header)
		addComments(n.HeaderComments)
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *Pipeline:
		for _, s := range n.Segments {
			addExpr(s)
		}
		if n.TrailingComment != nil {
			out = append(out, n.TrailingComment)
		}
	case *Expression:
		out = append(out, n.Parts...)
		addComments(n.Trailing)
	case *Hashtable:
		for _, e := range n.Entries {
			out = append(out, e)
		}
		addComments(n.Dangling)
	case *HashtableEntry:
		addComments(n.LeadingComments)
		addExpr(n.RawKey)
		addExpr(n.Value)
		addComments(n.TrailingComments)
	case *ArrayLiteral:
		for _, e := range n.Elements {
			addExpr(e)
		}
	case *Parenthesis:
		for _, e := range n.Elements {
			addExpr(e)
		}
	}
	return out
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func Count(n Node) int {
	total := 0
	Walk(n, func(Node) bool {
		total++
		return true
	})
	return total
}
