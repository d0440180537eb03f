package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff  Level = iota // no tracing
	LevelRun               // command and stage boundaries
	LevelFile              // one span per file
	LevelPass              // passes inside a file
)

var levelNames = [...]string{
	LevelOff:  "off",
	LevelRun:  "run",
	LevelFile: "file",
	LevelPass: "pass",
}

// String returns the string representation of Level.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|run|file|pass)", s)
}

// ShouldEmit reports whether events of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelRun:
		return scope <= ScopeStage
	case LevelFile:
		return scope <= ScopeFile
	case LevelPass:
		return true
	default:
		return false
	}
}
