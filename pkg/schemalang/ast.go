// Package schemalang implements the text-format schema language: a
// small grammar (.sval files) whose parsed output is the already-built
// schema tree the core value engine (pkg/value/schema) consumes. The
// core itself never touches source text; this package is the concrete
// syntax that produces it.
package schemalang

import "fmt"

// Position is a source location.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Node is implemented by every AST node.
type Node interface {
	Pos() Position
}

// File is a parsed .sval source file: an ordered list of named type
// declarations (record/enum/fixed).
type File struct {
	Position Position
	Decls    []Decl
}

func (f *File) Pos() Position { return f.Position }

// Decl is implemented by RecordDecl, EnumDecl, and FixedDecl.
type Decl interface {
	Node
	DeclName() string
}

// RecordDecl is `record Name { field... }`.
type RecordDecl struct {
	Position Position
	Name     string
	Fields   []*FieldDecl
}

func (d *RecordDecl) Pos() Position    { return d.Position }
func (d *RecordDecl) DeclName() string { return d.Name }

// FieldDecl is one `name: typeref;` entry inside a record.
type FieldDecl struct {
	Position Position
	Name     string
	Type     TypeRef
}

func (f *FieldDecl) Pos() Position { return f.Position }

// EnumDecl is `enum Name { SYM, SYM, ... }`.
type EnumDecl struct {
	Position Position
	Name     string
	Symbols  []string
}

func (d *EnumDecl) Pos() Position    { return d.Position }
func (d *EnumDecl) DeclName() string { return d.Name }

// FixedDecl is `fixed Name(size)`.
type FixedDecl struct {
	Position Position
	Name     string
	Size     int
}

func (d *FixedDecl) Pos() Position    { return d.Position }
func (d *FixedDecl) DeclName() string { return d.Name }

// TypeRef is implemented by every production of the `typeref` grammar
// rule.
type TypeRef interface {
	Node
	typeRef()
}

// PrimitiveRef is one of the six primitive kinds, or bytes/string.
type PrimitiveRef struct {
	Position Position
	Name     string // "null", "boolean", "int32", "int64", "float", "double", "bytes", "string"
}

func (r *PrimitiveRef) Pos() Position { return r.Position }
func (*PrimitiveRef) typeRef()        {}

// ArrayRef is `array<typeref>`.
type ArrayRef struct {
	Position Position
	Item     TypeRef
}

func (r *ArrayRef) Pos() Position { return r.Position }
func (*ArrayRef) typeRef()        {}

// MapRef is `map<typeref>`.
type MapRef struct {
	Position Position
	Value    TypeRef
}

func (r *MapRef) Pos() Position { return r.Position }
func (*MapRef) typeRef()        {}

// UnionRef is `union { typeref, typeref, ... }`.
type UnionRef struct {
	Position Position
	Branches []TypeRef
}

func (r *UnionRef) Pos() Position { return r.Position }
func (*UnionRef) typeRef()        {}

// LinkRef is a bare identifier referencing a named type declared
// elsewhere in the file (or, for recursive types, itself).
type LinkRef struct {
	Position Position
	Name     string
}

func (r *LinkRef) Pos() Position { return r.Position }
func (*LinkRef) typeRef()        {}
