package config

import (
	"strconv"
	"strings"
)

// FieldType is the value type of an option.
type FieldType string

const (
	TypeInt    FieldType = "int"
	TypeBool   FieldType = "boolean"
	TypeChoice FieldType = "choice"
)

// Field describes one user-facing option. The CLI registers a flag per
// field and the host surface exposes the same table.
type Field struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Default     string    `json:"default"`
	Choices     []string  `json:"choices,omitempty"`
	Description string    `json:"description"`
	// Set parses a flag value into the matching Options field.
	Set func(o *Options, value string) error `json:"-"`
}

// Schema returns the option table in a stable order.
func Schema() []Field {
	return []Field{
		{
			Name: "indentStyle", Type: TypeChoice, Default: "spaces", Choices: []string{"spaces", "tabs"},
			Description: "Indent with spaces or tabs.",
			Set:         setString(func(o *Options) **string { return &o.IndentStyle }),
		},
		{
			Name: "indentSize", Type: TypeInt, Default: "2",
			Description: "Spaces per indent level; overrides tabWidth.",
			Set:         setInt(func(o *Options) **int { return &o.IndentSize }),
		},
		{
			Name: "tabWidth", Type: TypeInt, Default: "2",
			Description: "Generic indent width used when indentSize is not set.",
			Set:         setInt(func(o *Options) **int { return &o.TabWidth }),
		},
		{
			Name: "trailingSeparator", Type: TypeChoice, Default: "multiline", Choices: []string{"none", "multiline", "all"},
			Description: "Semicolon after the last hashtable entry.",
			Set:         setString(func(o *Options) **string { return &o.TrailingSeparator }),
		},
		{
			Name: "sortHashtableKeys", Type: TypeBool, Default: "false",
			Description: "Sort hashtable entries by key, case-insensitively.",
			Set:         setBool(func(o *Options) **bool { return &o.SortHashtableKeys }),
		},
		{
			Name: "blankLinesBetweenFunctions", Type: TypeInt, Default: "1",
			Description: "Blank lines around function declarations (0-3).",
			Set:         setInt(func(o *Options) **int { return &o.BlankLinesBetweenFunctions }),
		},
		{
			Name: "blankLineAfterParam", Type: TypeBool, Default: "true",
			Description: "Blank line after a param(...) block.",
			Set:         setBool(func(o *Options) **bool { return &o.BlankLineAfterParam }),
		},
		{
			Name: "braceStyle", Type: TypeChoice, Default: "1tbs", Choices: []string{"1tbs", "allman"},
			Description: "Opening brace on the same line (1tbs) or on its own line (allman).",
			Set:         setString(func(o *Options) **string { return &o.BraceStyle }),
		},
		{
			Name: "lineWidth", Type: TypeInt, Default: "120",
			Description: "Target line width (40-200).",
			Set:         setInt(func(o *Options) **int { return &o.LineWidth }),
		},
		{
			Name: "printWidth", Type: TypeInt, Default: "",
			Description: "Generic print width; wins when smaller than lineWidth.",
			Set:         setInt(func(o *Options) **int { return &o.PrintWidth }),
		},
		{
			Name: "preferSingleQuote", Type: TypeBool, Default: "false",
			Description: "Use single quotes for strings without expansions.",
			Set:         setBool(func(o *Options) **bool { return &o.PreferSingleQuote }),
		},
		{
			Name: "keywordCase", Type: TypeChoice, Default: "preserve", Choices: []string{"preserve", "lower", "upper", "pascal"},
			Description: "Case of language keywords.",
			Set:         setString(func(o *Options) **string { return &o.KeywordCase }),
		},
		{
			Name: "rewriteAliases", Type: TypeBool, Default: "false",
			Description: "Expand built-in aliases such as gci to full cmdlet names.",
			Set:         setBool(func(o *Options) **bool { return &o.RewriteAliases }),
		},
		{
			Name: "rewriteWriteHost", Type: TypeBool, Default: "false",
			Description: "Replace Write-Host with Write-Output.",
			Set:         setBool(func(o *Options) **bool { return &o.RewriteWriteHost }),
		},
	}
}

// FlagName converts an option name to its kebab-case flag spelling.
func FlagName(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func setString(field func(*Options) **string) func(*Options, string) error {
	return func(o *Options, v string) error {
		s := v
		*field(o) = &s
		return nil
	}
}

func setInt(field func(*Options) **int) func(*Options, string) error {
	return func(o *Options, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(o) = &n
		return nil
	}
}

func setBool(field func(*Options) **bool) func(*Options, string) error {
	return func(o *Options, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(o) = &b
		return nil
	}
}
