// Package extract reflects Go struct, enum (typed-constant), and
// interface declarations into this module's own schema model
// (pkg/value/schema), so a schema can be derived from an existing Go
// codebase instead of hand-written as .sval source. Records here have
// no field numbers (fields are matched by name) and there is no
// discriminated-oneof concept to assign IDs to (a union's branches
// are distinguished structurally).
package extract

import (
	"fmt"
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// PackageLoader loads Go packages for analysis.
type PackageLoader struct {
	config *packages.Config
}

// NewPackageLoader creates a new package loader.
func NewPackageLoader() *PackageLoader {
	return &PackageLoader{
		config: &packages.Config{
			Mode: packages.NeedName |
				packages.NeedTypes |
				packages.NeedTypesInfo |
				packages.NeedSyntax |
				packages.NeedImports |
				packages.NeedDeps,
		},
	}
}

// Load loads packages matching the given patterns.
func (l *PackageLoader) Load(patterns []string) ([]*packages.Package, error) {
	pkgs, err := packages.Load(l.config, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, err := range pkg.Errors {
			errs = append(errs, err)
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs[0])
	}

	return pkgs, nil
}

// TypeInfo contains information about an extracted struct type.
type TypeInfo struct {
	Name       string
	Package    string
	PkgPath    string
	Doc        string
	Fields     []*FieldInfo
	GoType     types.Type
	Implements []string
	IsExported bool
}

// FieldInfo contains information about a struct field.
type FieldInfo struct {
	Name      string
	GoType    types.Type
	TypeName  string
	Tag       *StructTag
	Doc       string
	Optional  bool // field is a Go pointer; maps to union{null, T}
	Repeated  bool // field is a Go slice/array; maps to array<T>
	IsPointer bool
}

// InterfaceInfo contains information about an interface with concrete
// implementations, which becomes a union of the implementations'
// record schemas.
type InterfaceInfo struct {
	Name            string
	Package         string
	PkgPath         string
	Doc             string
	Methods         []string
	Implementations []*TypeInfo
}

// EnumInfo contains information about a Go integer type with a block
// of named constants, which becomes an enum schema.
type EnumInfo struct {
	Name    string
	Package string
	PkgPath string
	Doc     string
	Values  []*EnumValueInfo
	GoType  types.Type
}

// EnumValueInfo contains information about one enum constant.
type EnumValueInfo struct {
	Name   string
	Number int64
	Doc    string
}

// StructTag represents a parsed `sval:"..."` struct tag: a field name
// override, or "-" to skip the field entirely.
type StructTag struct {
	Name string
	Skip bool
}

func extractDoc(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return cg.Text()
}
