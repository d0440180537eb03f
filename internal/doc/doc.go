// Package doc is a small Wadler-style layout engine: a document of texts,
// groups, line breaks and indentation is rendered against a target width.
// It knows nothing about PowerShell.
package doc

import "strings"

// Doc is a layout document.
type Doc interface{ doc() }

// Text is literal output. Text containing '\n' is emitted raw and forces
// every enclosing group to break.
type Text string

// Concat renders its parts in order.
type Concat []Doc

// GroupID identifies a group for IfBreak. Zero means "no id".
type GroupID uint32

// Group is rendered flat when it fits on the current line, broken otherwise.
type Group struct {
	Contents Doc
	ID       GroupID
	Break    bool // render broken unconditionally
}

// Line is a possible line break. A plain Line is a space when flat, Soft is
// nothing when flat, Hard is always a newline.
type Line struct {
	Soft bool
	Hard bool
}

// Indent adds one indent unit to lines inside Contents.
type Indent struct{ Contents Doc }

// IfBreak picks Broken or Flat by the mode of Group, or of the enclosing
// group when Group is zero.
type IfBreak struct {
	Broken Doc
	Flat   Doc
	Group  GroupID
}

// LineSuffix is deferred to the end of the current line.
type LineSuffix struct{ Contents Doc }

// BreakParent forces enclosing groups to break.
type BreakParent struct{}

func (Text) doc()        {}
func (Concat) doc()      {}
func (*Group) doc()      {}
func (Line) doc()        {}
func (Indent) doc()      {}
func (IfBreak) doc()     {}
func (LineSuffix) doc()  {}
func (BreakParent) doc() {}

var (
	LineOrSpace = Line{}
	SoftLine    = Line{Soft: true}
	HardLine    = Line{Hard: true}
)

// Cat concatenates parts, dropping nils.
func Cat(parts ...Doc) Doc {
	out := make(Concat, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Join puts sep between docs.
func Join(sep Doc, docs []Doc) Doc {
	out := make(Concat, 0, len(docs)*2)
	for i, d := range docs {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, d)
	}
	return out
}

// Builder hands out group ids. One builder is used per print call, so ids
// are unique within a document.
type Builder struct {
	next GroupID
}

// NewGroupID returns the next id, starting at 1.
func (b *Builder) NewGroupID() GroupID {
	b.next++
	return b.next
}

// Group wraps contents in a group without an id.
func (b *Builder) Group(contents Doc) *Group {
	return &Group{Contents: contents}
}

// GroupWithID wraps contents in a group with a fresh id.
func (b *Builder) GroupWithID(contents Doc) (*Group, GroupID) {
	id := b.NewGroupID()
	return &Group{Contents: contents, ID: id}, id
}

// ForcesBreak reports whether d contains a hard break outside line
// suffixes: a hard line, BreakParent, a forced group or multi-line text.
func ForcesBreak(d Doc) bool {
	switch x := d.(type) {
	case Text:
		return strings.Contains(string(x), "\n")
	case Concat:
		for _, p := range x {
			if ForcesBreak(p) {
				return true
			}
		}
	case *Group:
		return x.Break || ForcesBreak(x.Contents)
	case Indent:
		return ForcesBreak(x.Contents)
	case IfBreak:
		return ForcesBreak(x.Flat)
	case Line:
		return x.Hard
	case BreakParent:
		return true
	}
	return false
}
