package schema

import "sync/atomic"

// Field is one named slot in a record, in declaration order.
type Field struct {
	Name       string
	Schema     *Schema
	HasDefault bool
	// Default carries a pre-encoded default value for fields present on
	// a reader schema but absent from a writer schema. Materializing a
	// typed value from it is delegated to a separate subsystem; the
	// resolver compiler only needs to know whether one is present.
	Default any
}

// Schema is an immutable node in the schema tree. It represents every
// kind in the closed set behind a single struct with a Kind
// discriminant.
//
// Schema handles are reference-counted: retaining a schema (e.g.
// inside a resolver or a value-interface implementation) increments
// refCount; Release decrements it. Under a garbage collector the
// counter is not load bearing for memory safety; it gives callers that
// ask "am I the last owner" (e.g. a cache evicting on release)
// something to assert against, and increments and decrements are
// atomic so schemas can be shared across independent graphs on
// different threads.
type Schema struct {
	kind Kind

	refCount int32

	// named kinds (record, enum, fixed)
	name string

	// fixed
	fixedSize int

	// enum
	symbols     []string
	symbolIndex map[string]int

	// array / map element (elem); union branches (branches)
	elem     *Schema
	branches []*Schema

	// record
	fields     []Field
	fieldIndex map[string]int

	// link
	linkName string
	target   *Schema
}

// Primitive returns the shared schema node for a primitive kind or for
// the unparameterized leaf kinds Bytes/String. Passing a compound kind
// (fixed, enum, array, map, record, union, link) panics, since callers
// control this statically.
func Primitive(k Kind) *Schema {
	s, ok := primitiveSingletons[k]
	if !ok {
		panic("schema: Primitive called with non-primitive kind " + k.String())
	}
	return s
}

var primitiveSingletons = map[Kind]*Schema{
	Null:    {kind: Null},
	Boolean: {kind: Boolean},
	Int32:   {kind: Int32},
	Int64:   {kind: Int64},
	Float:   {kind: Float},
	Double:  {kind: Double},
	Bytes:   {kind: Bytes},
	String:  {kind: String},
}

// NewFixed creates a fixed(size) schema with the given name.
func NewFixed(name string, size int) *Schema {
	return &Schema{kind: Fixed, name: name, fixedSize: size}
}

// NewEnum creates an enum schema. symbols must be unique; duplicates are
// caught by Build, not here, so schemas can be built incrementally
// before validation.
func NewEnum(name string, symbols []string) *Schema {
	idx := make(map[string]int, len(symbols))
	for i, s := range symbols {
		idx[s] = i
	}
	return &Schema{kind: Enum, name: name, symbols: append([]string(nil), symbols...), symbolIndex: idx}
}

// NewArray creates an array(item) schema.
func NewArray(item *Schema) *Schema {
	return &Schema{kind: Array, elem: item}
}

// NewMap creates a map(value) schema; keys are always strings.
func NewMap(value *Schema) *Schema {
	return &Schema{kind: Map, elem: value}
}

// NewRecord creates a record schema with the given name and fields, in
// declaration order.
func NewRecord(name string, fields []Field) *Schema {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Name] = i
	}
	return &Schema{kind: Record, name: name, fields: append([]Field(nil), fields...), fieldIndex: idx}
}

// NewUnion creates a union schema from its branch schemas, in order.
func NewUnion(branches ...*Schema) *Schema {
	return &Schema{kind: Union, branches: append([]*Schema(nil), branches...)}
}

// NewLink creates an unresolved late-bound reference to a named schema.
// Build must be called (with a NamedTypeTable containing name) before
// LinkTarget becomes usable.
func NewLink(name string) *Schema {
	return &Schema{kind: Link, linkName: name}
}

// Kind returns the schema's kind.
func (s *Schema) Kind() Kind { return s.kind }

// Name returns the declared name for named kinds (record, enum, fixed)
// or the referenced name for a link. Empty for structural kinds.
func (s *Schema) Name() string {
	if s.kind == Link {
		return s.linkName
	}
	return s.name
}

// FixedSize returns the byte size of a fixed(n) schema.
func (s *Schema) FixedSize() int { return s.fixedSize }

// EnumSymbolCount returns the number of declared enum symbols.
func (s *Schema) EnumSymbolCount() int { return len(s.symbols) }

// EnumSymbolName returns the i-th enum symbol, in declaration order.
func (s *Schema) EnumSymbolName(i int) string { return s.symbols[i] }

// EnumIndexOf returns the index of a symbol by name.
func (s *Schema) EnumIndexOf(name string) (int, bool) {
	i, ok := s.symbolIndex[name]
	return i, ok
}

// Elem returns the item/value schema of an array or map.
func (s *Schema) Elem() *Schema { return s.elem }

// FieldCount returns the number of fields in a record.
func (s *Schema) FieldCount() int { return len(s.fields) }

// FieldAt returns the i-th field, in declaration order.
func (s *Schema) FieldAt(i int) Field { return s.fields[i] }

// FieldByName returns the field with the given name and its index.
func (s *Schema) FieldByName(name string) (Field, int, bool) {
	i, ok := s.fieldIndex[name]
	if !ok {
		return Field{}, 0, false
	}
	return s.fields[i], i, true
}

// BranchCount returns the number of union branches.
func (s *Schema) BranchCount() int { return len(s.branches) }

// Branch returns the i-th union branch.
func (s *Schema) Branch(i int) *Schema { return s.branches[i] }

// LinkTarget returns the resolved target of a link schema. It is nil
// until Build has successfully resolved the link against a
// NamedTypeTable.
func (s *Schema) LinkTarget() *Schema { return s.target }

// Resolve returns s, or s's resolved target if s is a link. It never
// returns a link schema, making it the convenient way for callers that
// don't care about the link/non-link distinction to get at the
// effective kind.
func (s *Schema) Resolve() *Schema {
	if s.kind == Link {
		return s.target
	}
	return s
}

// Retain increments the schema's reference count and returns s, so
// retaining reads naturally at the call site: `f.schema = target.Retain()`.
func (s *Schema) Retain() *Schema {
	atomic.AddInt32(&s.refCount, 1)
	return s
}

// Release decrements the schema's reference count. It returns the
// count after decrementing; a caller that sees 0 is the last known
// retainer, though Go's garbage collector (not this counter) is what
// actually reclaims the schema's memory.
func (s *Schema) Release() int32 {
	return atomic.AddInt32(&s.refCount, -1)
}

// RefCount returns the current reference count, for tests and
// diagnostics.
func (s *Schema) RefCount() int32 {
	return atomic.LoadInt32(&s.refCount)
}
