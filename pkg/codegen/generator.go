// Package codegen emits Go source from a compiled schema tree: a struct
// per record declaration backed by pkg/specific (enum and fixed
// declarations become plain named Go int and byte-array types), plus a
// <Type>ResolverNew entry point, via text/template — the source-emitting
// counterpart to pkg/specific's in-process runtime layer. Every type
// pkg/specific can describe in memory, this package can also render as
// standalone Go source a caller compiles into their own binary instead
// of constructing a *specific.Layout by hand at startup.
package codegen

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options configures code generation.
type Options struct {
	// Package names the generated file's package clause. Generate itself
	// takes the package name as its own argument; svalc passes this field
	// and, when it is empty, the schema file's base name.
	Package string

	// OutputPath is the base output directory the CLI writes into.
	OutputPath string

	// FilenamePrefix prefixes every generated filename.
	FilenamePrefix string

	// TypePrefix prefixes every generated Go type name.
	TypePrefix string
}

// DefaultOptions returns the default generation options.
func DefaultOptions() Options {
	return Options{OutputPath: "."}
}

var titleCaser = cases.Title(language.English)

// ToPascalCase converts a schema identifier to a Go exported identifier.
func ToPascalCase(s string) string {
	parts := splitName(s)
	for i, p := range parts {
		parts[i] = titleCaser.String(strings.ToLower(p))
	}
	return strings.Join(parts, "")
}

// ToCamelCase converts s to camelCase, for unexported identifiers.
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return ""
	}
	return strings.ToLower(pascal[:1]) + pascal[1:]
}

// ToSnakeCase converts s to snake_case.
func ToSnakeCase(s string) string {
	parts := splitName(s)
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, "_")
}

// ToUpperSnakeCase converts s to UPPER_SNAKE_CASE, for enum constants.
func ToUpperSnakeCase(s string) string {
	parts := splitName(s)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p)
	}
	return strings.Join(parts, "_")
}

func splitName(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	var current strings.Builder
	for i, r := range s {
		if r == '_' || r == '-' {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			continue
		}
		if i > 0 && isUpper(r) && !isUpper(rune(s[i-1])) {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// Indent indents each non-empty line of s by the given number of tabs.
func Indent(s string, tabs int) string {
	indent := strings.Repeat("\t", tabs)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// GeneratorError reports a code generation failure tied to a named
// declaration.
type GeneratorError struct {
	TypeName string
	Message  string
}

func (e *GeneratorError) Error() string {
	if e.TypeName == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.TypeName, e.Message)
}
