package schemalang

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blockberries/sval/pkg/value/schema"
)

// ParseAndBuildFile reads path, parses it as .sval source, and builds the
// resulting schema tree, returning the named-type table and the root
// schema for each top-level declaration in the file, in declaration
// order. This is the single entry point the CLI (cmd/svalc) and the
// pkg/sval facade use to turn a .sval file on disk into schema.Schema
// nodes the rest of the engine consumes.
func ParseAndBuildFile(path string) (*schema.NamedTypeTable, []*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("schemalang: reading %s: %w", path, err)
	}
	return ParseAndBuild(path, string(data))
}

// ParseAndBuild parses src (named filename for error messages) and
// builds its schema tree in one step.
func ParseAndBuild(filename, src string) (*schema.NamedTypeTable, []*schema.Schema, error) {
	f, errs := ParseFile(filename, src)
	if len(errs) > 0 {
		return nil, nil, joinParseErrors(errs)
	}
	return Build(f)
}

func joinParseErrors(errs []error) error {
	var sb strings.Builder
	for i, e := range errs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return fmt.Errorf("%s", sb.String())
}

// IsSchemaFile reports whether path has the .sval extension this
// grammar's files use.
func IsSchemaFile(path string) bool {
	return filepath.Ext(path) == ".sval"
}
