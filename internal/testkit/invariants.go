package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"psfmt/internal/ast"
	"psfmt/internal/source"
	"psfmt/internal/token"
)

// CheckLocations verifies location invariants on a parsed script:
// 1) every span satisfies 0 <= Start <= End <= len(src)
// 2) every child span is contained in its parent's span
func CheckLocations(script *ast.Script, src []byte) error {
	if script == nil {
		return fmt.Errorf("nil script")
	}
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	return checkNode(script, limit)
}

func checkNode(n ast.Node, limit uint32) error {
	sp := n.Loc()
	if sp.End < sp.Start {
		return fmt.Errorf("%T has inverted span %v", n, sp)
	}
	if sp.End > limit {
		return fmt.Errorf("%T span %v ends beyond content (%d)", n, sp, limit)
	}
	for _, c := range ast.Children(n) {
		if !sp.Contains(c.Loc()) {
			return fmt.Errorf("%T span %v is outside parent %T span %v", c, c.Loc(), n, sp)
		}
		if err := checkNode(c, limit); err != nil {
			return err
		}
	}
	return nil
}

// CheckTokenCoverage verifies that tokens are ordered, non-overlapping,
// non-empty and inside the source bounds.
func CheckTokenCoverage(toks []token.Token, src []byte) error {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prev source.Span
	for i, tok := range toks {
		sp := tok.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("token %d (%s) is empty: %v", i, tok.Kind, sp)
		}
		if sp.End > limit {
			return fmt.Errorf("token %d (%s) ends beyond content: %v", i, tok.Kind, sp)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("token %d (%s) overlaps previous: %v < %v", i, tok.Kind, sp, prev)
		}
		prev = sp
	}
	return nil
}

// HasUnterminated reports whether a literal or comment runs to the end of
// input without its closer. Closers synthesized for such input are absorbed
// by that token when the output is parsed again, so idempotence does not
// hold for it.
func HasUnterminated(toks []token.Token) bool {
	for _, tok := range toks {
		if tok.Unterminated {
			return true
		}
	}
	return false
}

// StatementCount returns the number of top-level nodes that are not blank lines.
func StatementCount(script *ast.Script) int {
	n := 0
	for _, st := range script.Body {
		if _, ok := st.(*ast.BlankLine); !ok {
			n++
		}
	}
	return n
}
