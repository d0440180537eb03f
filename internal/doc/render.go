package doc

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// RenderOptions controls the output shape.
type RenderOptions struct {
	Width      int
	UseTabs    bool
	IndentSize int // spaces per level, also the display width of a tab
}

type mode uint8

const (
	modeBreak mode = iota
	modeFlat
)

type cmd struct {
	ind  int
	mode mode
	doc  Doc
}

type renderer struct {
	opts   RenderOptions
	broken map[*Group]bool
	modes  map[GroupID]mode
	out    []byte
	col    int
	// floor защищает многострочный сырой текст от обрезки хвостовых пробелов
	floor int
}

// Render lays out d. Groups that contain a hard break are broken; other
// groups are flat when their content and the rest of the line fit in Width.
// Line suffixes are flushed before the next newline or at the end, and
// trailing whitespace is trimmed at every newline.
func Render(d Doc, opts RenderOptions) string {
	if opts.IndentSize < 1 {
		opts.IndentSize = 2
	}
	r := &renderer{
		opts:   opts,
		broken: make(map[*Group]bool),
		modes:  make(map[GroupID]mode),
	}
	r.propagate(d)
	r.run(d)
	return string(r.trimTail(r.out))
}

// propagate marks groups broken by hard content and reports whether d
// holds a hard break. Line suffixes do not break their anchor.
func (r *renderer) propagate(d Doc) bool {
	switch x := d.(type) {
	case Text:
		return strings.Contains(string(x), "\n")
	case Concat:
		hard := false
		for _, p := range x {
			if r.propagate(p) {
				hard = true
			}
		}
		return hard
	case *Group:
		hard := r.propagate(x.Contents)
		if hard || x.Break {
			r.broken[x] = true
		}
		return hard
	case Indent:
		return r.propagate(x.Contents)
	case IfBreak:
		r.propagate(x.Broken)
		return r.propagate(x.Flat)
	case LineSuffix:
		r.propagate(x.Contents)
		return false
	case Line:
		return x.Hard
	case BreakParent:
		return true
	}
	return false
}

func (r *renderer) run(d Doc) {
	stack := []cmd{{ind: 0, mode: modeBreak, doc: d}}
	var suffixes []cmd
	for len(stack) > 0 || len(suffixes) > 0 {
		if len(stack) == 0 {
			stack = pushReversed(stack, suffixes)
			suffixes = nil
			continue
		}
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch x := c.doc.(type) {
		case nil:
		case Text:
			r.write(string(x))
		case Concat:
			for i := len(x) - 1; i >= 0; i-- {
				stack = append(stack, cmd{c.ind, c.mode, x[i]})
			}
		case Indent:
			stack = append(stack, cmd{c.ind + 1, c.mode, x.Contents})
		case *Group:
			m := modeFlat
			switch {
			case r.broken[x]:
				m = modeBreak
			case c.mode == modeFlat:
			case !r.fits(cmd{c.ind, modeFlat, x.Contents}, stack, r.opts.Width-r.col):
				m = modeBreak
			}
			if x.ID != 0 {
				r.modes[x.ID] = m
			}
			stack = append(stack, cmd{c.ind, m, x.Contents})
		case IfBreak:
			m := c.mode
			if x.Group != 0 {
				if gm, ok := r.modes[x.Group]; ok {
					m = gm
				}
			}
			if m == modeBreak {
				stack = append(stack, cmd{c.ind, c.mode, x.Broken})
			} else {
				stack = append(stack, cmd{c.ind, c.mode, x.Flat})
			}
		case LineSuffix:
			suffixes = append(suffixes, cmd{c.ind, c.mode, x.Contents})
		case BreakParent:
		case Line:
			if c.mode == modeFlat && !x.Hard {
				if !x.Soft {
					r.write(" ")
				}
				continue
			}
			if len(suffixes) > 0 {
				stack = append(stack, c)
				stack = pushReversed(stack, suffixes)
				suffixes = nil
				continue
			}
			r.newline(c.ind)
		}
	}
}

func pushReversed(stack, cmds []cmd) []cmd {
	for i := len(cmds) - 1; i >= 0; i-- {
		stack = append(stack, cmds[i])
	}
	return stack
}

func (r *renderer) write(s string) {
	if s == "" {
		return
	}
	r.out = append(r.out, s...)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		r.col = runewidth.StringWidth(s[i+1:])
		r.floor = len(r.out)
		return
	}
	r.col += runewidth.StringWidth(s)
}

func (r *renderer) newline(ind int) {
	r.out = append(r.trimTail(r.out), '\n')
	if r.opts.UseTabs {
		r.out = append(r.out, strings.Repeat("\t", ind)...)
	} else {
		r.out = append(r.out, strings.Repeat(" ", ind*r.opts.IndentSize)...)
	}
	r.col = ind * r.opts.IndentSize
}

// trimTail drops trailing spaces and tabs, but never below floor.
func (r *renderer) trimTail(b []byte) []byte {
	n := len(b)
	for n > r.floor && (b[n-1] == ' ' || b[n-1] == '\t') {
		n--
	}
	return b[:n]
}

// fits reports whether next rendered flat, followed by the rest of the
// stack up to the first line break in break mode, fits in width.
func (r *renderer) fits(next cmd, rest []cmd, width int) bool {
	work := []cmd{next}
	restIdx := len(rest)
	for width >= 0 {
		if len(work) == 0 {
			if restIdx == 0 {
				return true
			}
			restIdx--
			work = append(work, rest[restIdx])
			continue
		}
		c := work[len(work)-1]
		work = work[:len(work)-1]

		switch x := c.doc.(type) {
		case Text:
			s := string(x)
			if i := strings.IndexByte(s, '\n'); i >= 0 {
				return width-runewidth.StringWidth(s[:i]) >= 0
			}
			width -= runewidth.StringWidth(s)
		case Concat:
			for i := len(x) - 1; i >= 0; i-- {
				work = append(work, cmd{c.ind, c.mode, x[i]})
			}
		case Indent:
			work = append(work, cmd{c.ind + 1, c.mode, x.Contents})
		case *Group:
			m := c.mode
			if r.broken[x] {
				m = modeBreak
			}
			work = append(work, cmd{c.ind, m, x.Contents})
		case IfBreak:
			m := c.mode
			if x.Group != 0 {
				if gm, ok := r.modes[x.Group]; ok {
					m = gm
				}
			}
			if m == modeBreak {
				work = append(work, cmd{c.ind, c.mode, x.Broken})
			} else {
				work = append(work, cmd{c.ind, c.mode, x.Flat})
			}
		case Line:
			if c.mode == modeBreak || x.Hard {
				return true
			}
			if !x.Soft {
				width--
			}
		}
	}
	return false
}
