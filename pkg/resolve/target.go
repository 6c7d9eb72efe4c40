package resolve

import "github.com/blockberries/sval/pkg/value/schema"

// Target is a compile-time description of where decoded data should
// end up: a reader schema, a specific-type descriptor, or a
// raw-primitive sentinel. Every Target reduces to a reader schema for
// the purposes of primitive pairing and field/symbol matching; at
// decode time the actual destination is always a value.Value (backed by
// either pkg/value/generic or a pkg/specific layout), passed in
// separately, so the same compiled consumer tree works for both.
type Target interface {
	// ReaderSchema returns the schema this target resolves against. It
	// may be a Link (SchemaTarget.BranchTarget returns branches as
	// declared); Build resolves it before matching.
	ReaderSchema() *schema.Schema
}

// UnionTarget is implemented by targets whose ReaderSchema is a union,
// to let a caller get a per-branch sub-target without assuming
// SchemaTarget's default branch-by-position construction. pkg/specific
// implements this (exported so a generated layout living in a different
// package can satisfy it) to customize union-branch matching for
// generated layouts; SchemaTarget's implementation below is the default.
type UnionTarget interface {
	Target
	BranchTarget(i int) Target
}

// SchemaTarget is the default Target: decode against a plain reader
// schema, depositing into a value.Value (typically pkg/value/generic,
// but any Iface-conforming value works identically).
type SchemaTarget struct {
	Reader *schema.Schema
}

func (t SchemaTarget) ReaderSchema() *schema.Schema { return t.Reader }

func (t SchemaTarget) BranchTarget(i int) Target {
	return SchemaTarget{Reader: t.Reader.Resolve().Branch(i)}
}

var _ UnionTarget = SchemaTarget{}
