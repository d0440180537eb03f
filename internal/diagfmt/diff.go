package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

var (
	diffAdd  = color.New(color.FgGreen)
	diffDel  = color.New(color.FgRed)
	diffHunk = color.New(color.FgCyan)
	diffHead = color.New(color.Bold)
)

// UnifiedDiff returns the unified diff between the original and formatted
// contents of path, or "" when they are equal.
func UnifiedDiff(path string, original, formatted []byte) string {
	a, b := string(original), string(formatted)
	if a == b {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(path), a, b)
	return fmt.Sprint(gotextdiff.ToUnified(path, path+" (formatted)", a, edits))
}

// WriteDiff writes the diff for path, colored line by line when useColor is set.
func WriteDiff(w io.Writer, path string, original, formatted []byte, useColor bool) error {
	diff := UnifiedDiff(path, original, formatted)
	if diff == "" {
		return nil
	}
	if !useColor {
		_, err := io.WriteString(w, diff)
		return err
	}
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		var err error
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			_, err = diffHead.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			_, err = diffHunk.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			_, err = diffAdd.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			_, err = diffDel.Fprint(w, line)
		default:
			_, err = io.WriteString(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
