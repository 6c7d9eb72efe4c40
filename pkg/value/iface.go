// Package value implements the polymorphic value-access protocol: a
// vtable-like capability record (Iface) and a
// two-pointer value handle (Value{Impl, State}) that together let a
// single binary reader/writer drive heterogeneous in-memory
// representations — the generic tagged-node tree (pkg/value/generic) or
// a generated specific layout (pkg/specific) — through the same calls.
package value

import "github.com/blockberries/sval/pkg/value/schema"

// Iface is the capability vtable for one schema kind. Every field is a
// function slot; a nil slot means the operation is unsupported for this
// kind and dispatch returns ErrWrongType, leaving the value
// unchanged. State is implementation-defined: it
// may be an owned allocation, a borrow into a caller's layout, or an
// enum tag, and every slot receives it as an opaque `any`.
type Iface struct {
	// Kind returns the schema kind this vtable implements.
	Kind func() schema.Kind

	// Schema returns the value's schema.
	Schema func(state any) *schema.Schema

	// Primitive get/set pairs. Only the pair matching the kind's native
	// representation is populated; e.g. a bool value only has
	// GetBool/SetBool.
	GetBool    func(state any) (bool, error)
	SetBool    func(state any, v bool) error
	GetInt32   func(state any) (int32, error)
	SetInt32   func(state any, v int32) error
	GetInt64   func(state any) (int64, error)
	SetInt64   func(state any, v int64) error
	GetFloat32 func(state any) (float32, error)
	SetFloat32 func(state any, v float32) error
	GetFloat64 func(state any) (float64, error)
	SetFloat64 func(state any, v float64) error

	// bytes/string: Grab lends the value's own buffer (optionally with a
	// release callback for when the borrower is done); Give adopts the
	// caller's buffer, taking the release function to call on overwrite
	// or teardown.
	Grab func(state any) (data []byte, release func(), err error)
	Give func(state any, data []byte, release func([]byte)) error

	// fixed(n)
	GetFixed func(state any) ([]byte, error)
	SetFixed func(state any, b []byte) error

	// enum: index into the schema's symbol table
	GetEnum func(state any) (int, error)
	SetEnum func(state any, index int) error

	// array / map / record: element/field access
	Size       func(state any) (int, error)
	GetByIndex func(state any, i int) (Value, error)
	GetByName  func(state any, name string) (Value, error)

	// array only
	Append func(state any) (Value, error)

	// map only: insert-or-get by key, reporting whether it was newly created
	Add func(state any, key string) (v Value, isNew bool, err error)

	// array/map only: empties the container, retaining backing storage
	Reset func(state any) error

	// union
	Discriminant  func(state any) (int, error)
	CurrentBranch func(state any) (Value, error)
	SetBranch     func(state any, i int) (Value, error)
}
