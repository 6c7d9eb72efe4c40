// Package specific implements the specific-type generator at runtime:
// given a schema, Compile produces a closed tree of Layout descriptors
// (concrete field layouts per record, a packed element layout for
// arrays, an insertion-ordered element layout for maps, a discriminant
// plus per-branch storage for unions, a contiguous byte block for
// fixed types, a small integer for enums) together with the per-layout
// resolver binding (NewResolver).
//
// pkg/codegen emits these same layouts as literal Go source (structs,
// not descriptor trees); this package is what that generated code calls
// into, and is also directly usable without codegen by constructing a
// *Layout by hand from a schema, which is what this package's own tests
// exercise.
package specific

import (
	"strings"

	"github.com/blockberries/sval/pkg/resolve"
	"github.com/blockberries/sval/pkg/value/schema"
)

// FieldLayout is one record field's compiled layout, in declaration
// order.
type FieldLayout struct {
	Name   string
	Layout *Layout
}

// BranchLayout is one union branch's compiled layout. IsRecord marks
// branches stored by reference (record branches are held by reference
// so recursive record cycles can be represented; every other branch
// kind is stored by
// value).
type BranchLayout struct {
	Layout   *Layout
	IsRecord bool
}

// Layout is the specific-type generator's compiled descriptor for one
// schema position. Within one Compile call, structurally identical
// array/map/union schemas compile to the same *Layout
// (pointer-identical), and each fixed/enum/record schema node compiles
// to one *Layout keyed by its pointer; this as a side effect shares
// pkg/resolve.Build's memoization cache across them (Layout is used
// directly as a resolve.Target, and resolve's memo key is keyed by
// Target identity).
type Layout struct {
	sch *schema.Schema

	// name is the stable, schema-derived name: the
	// declared name for record/enum/fixed, "array_<item>"/"map_<value>"
	// for structural container kinds, and the underscore-joined branch
	// names/kinds for a union.
	name string

	fields   []FieldLayout // record
	elem     *Layout       // array / map
	branches []BranchLayout
}

// Kind returns the schema kind this layout represents.
func (l *Layout) Kind() schema.Kind { return l.sch.Kind() }

// Name returns the layout's stable, schema-derived name.
func (l *Layout) Name() string { return l.name }

// Schema returns the schema this layout was compiled from.
func (l *Layout) Schema() *schema.Schema { return l.sch }

// Elem returns the element layout of an array or map layout.
func (l *Layout) Elem() *Layout { return l.elem }

// Fields returns a record layout's fields, in declaration order.
func (l *Layout) Fields() []FieldLayout { return l.fields }

// Branches returns a union layout's branches, in declaration order.
func (l *Layout) Branches() []BranchLayout { return l.branches }

// ReaderSchema implements resolve.Target: a Layout is usable directly as
// the decode destination descriptor the resolver compiler resolves a
// writer schema against.
func (l *Layout) ReaderSchema() *schema.Schema { return l.sch }

// BranchTarget implements resolve.UnionTarget so a resolver built for a
// single reader-union branch can be reused inside a writer-union
// dispatcher.
func (l *Layout) BranchTarget(i int) resolve.Target { return l.branches[i].Layout }

var (
	_ resolve.Target      = (*Layout)(nil)
	_ resolve.UnionTarget = (*Layout)(nil)
)

// NewResolver constructs a resolver tree specialized to this layout by
// delegating to the resolver compiler with l as the target descriptor.
func (l *Layout) NewResolver(w *schema.Schema, opts resolve.Options) (resolve.Consumer, error) {
	return resolve.Build(w, l, opts)
}

// DefaultMaxDepth bounds the compiler's recursive descent. Every nesting
// level counts, record fields included; a cycle stops at the first
// re-entry of an already started named layout.
const DefaultMaxDepth = 64

var primitiveLayouts = map[schema.Kind]*Layout{
	schema.Null:    {sch: schema.Primitive(schema.Null), name: "null"},
	schema.Boolean: {sch: schema.Primitive(schema.Boolean), name: "boolean"},
	schema.Int32:   {sch: schema.Primitive(schema.Int32), name: "int32"},
	schema.Int64:   {sch: schema.Primitive(schema.Int64), name: "int64"},
	schema.Float:   {sch: schema.Primitive(schema.Float), name: "float"},
	schema.Double:  {sch: schema.Primitive(schema.Double), name: "double"},
}

// Compile builds a Layout tree for schema s, deduplicating structurally
// identical array/map/union layouts and breaking record cycles via a
// "started" set keyed by schema pointer identity: a recursive descent
// through a named record registers its shell first, then fills in the
// definition, and never re-enters.
func Compile(s *schema.Schema) (*Layout, error) {
	b := &builder{named: map[*schema.Schema]*Layout{}, structural: map[string]*Layout{}}
	return b.compile(s, 0)
}

type builder struct {
	named      map[*schema.Schema]*Layout
	structural map[string]*Layout
}

func (b *builder) compile(s *schema.Schema, depth int) (*Layout, error) {
	s = s.Resolve()
	if depth > DefaultMaxDepth {
		return nil, ErrRecursionLimit
	}

	if s.Kind().IsPrimitive() {
		return primitiveLayouts[s.Kind()], nil
	}

	switch s.Kind() {
	case schema.Bytes:
		return &Layout{sch: s, name: "bytes"}, nil
	case schema.String:
		return &Layout{sch: s, name: "string"}, nil
	case schema.Fixed, schema.Enum, schema.Record:
		return b.compileNamed(s, depth)
	case schema.Array:
		elem, err := b.compile(s.Elem(), depth+1)
		if err != nil {
			return nil, err
		}
		key := "array_" + elem.name
		if l, ok := b.structural[key]; ok {
			return l, nil
		}
		l := &Layout{sch: s, name: key, elem: elem}
		b.structural[key] = l
		return l, nil
	case schema.Map:
		elem, err := b.compile(s.Elem(), depth+1)
		if err != nil {
			return nil, err
		}
		key := "map_" + elem.name
		if l, ok := b.structural[key]; ok {
			return l, nil
		}
		l := &Layout{sch: s, name: key, elem: elem}
		b.structural[key] = l
		return l, nil
	case schema.Union:
		return b.compileUnion(s, depth)
	default:
		return nil, ErrRecursionLimit
	}
}

// compileNamed handles fixed/enum/record: the three kinds a Link may
// target, and so the only kinds through which a cycle can close. The
// layout is memoized by schema pointer identity before recursing into a
// record's fields, so a field referencing the record itself (through a
// union branch that links back) observes the same *Layout instead of
// recursing forever.
func (b *builder) compileNamed(s *schema.Schema, depth int) (*Layout, error) {
	if l, ok := b.named[s]; ok {
		return l, nil
	}
	l := &Layout{sch: s, name: s.Name()}
	b.named[s] = l // reserve before recursing: closes cycles through recursive records

	if s.Kind() == schema.Record {
		l.fields = make([]FieldLayout, s.FieldCount())
		for i := 0; i < s.FieldCount(); i++ {
			f := s.FieldAt(i)
			fl, err := b.compile(f.Schema, depth+1)
			if err != nil {
				delete(b.named, s)
				return nil, err
			}
			l.fields[i] = FieldLayout{Name: f.Name, Layout: fl}
		}
	}
	return l, nil
}

func (b *builder) compileUnion(s *schema.Schema, depth int) (*Layout, error) {
	branches := make([]BranchLayout, s.BranchCount())
	parts := make([]string, s.BranchCount())
	for i := 0; i < s.BranchCount(); i++ {
		bl, err := b.compile(s.Branch(i), depth+1)
		if err != nil {
			return nil, err
		}
		branches[i] = BranchLayout{Layout: bl, IsRecord: bl.Kind() == schema.Record}
		parts[i] = bl.name
	}
	key := "union_" + strings.Join(parts, "_")
	if l, ok := b.structural[key]; ok {
		return l, nil
	}
	l := &Layout{sch: s, name: key, branches: branches}
	b.structural[key] = l
	return l, nil
}
