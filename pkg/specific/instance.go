package specific

import (
	"github.com/blockberries/sval/pkg/container"
	"github.com/blockberries/sval/pkg/value"
	"github.com/blockberries/sval/pkg/value/schema"
)

// Instance is the per-value storage a compiled Layout describes. Unlike
// pkg/value/generic.Node (one uniform tagged node shared across every
// schema), an Instance's union branch storage is split by kind: a
// record-kind branch is allocated separately and held by
// reference (branchRef), so recursive record cycles can be represented;
// every other branch kind is embedded inline by value (branchVal).
type Instance struct {
	layout *Layout

	b   bool
	i32 int32
	i64 int64
	f32 float32
	f64 float64

	// bytes / string / fixed
	buf container.ByteBuffer

	// enum: index into layout.sch.Resolve()'s symbol table
	enumIdx int

	// array
	items container.PackedArray[Instance]

	// map
	entries container.OrderedMap[Instance]

	// record
	fields []Instance

	// union
	discriminant int
	branchVal    Instance
	branchRef    *Instance
}

// New builds a fully initialized specific value for layout l, ready for
// every operation l's kind supports.
func New(l *Layout) value.Value {
	n := &Instance{}
	n.Init(l)
	return value.New(ifaceFor(l.Kind()), n)
}

func newChild(l *Layout) *Instance {
	n := &Instance{}
	n.Init(l)
	return n
}

func wrap(l *Layout, n *Instance) value.Value {
	return value.New(ifaceFor(l.Kind()), n)
}

// Init resets n to a freshly constructed value for layout l, recursing
// into record fields and the union's initial (zeroth) branch so every
// reachable sub-instance is immediately usable, mirroring
// pkg/value/generic.Node.init.
func (n *Instance) Init(l *Layout) {
	*n = Instance{layout: l}
	switch l.Kind() {
	case schema.Record:
		n.fields = make([]Instance, len(l.fields))
		for i, f := range l.fields {
			n.fields[i].Init(f.Layout)
		}
	case schema.Union:
		n.setBranch(0)
	}
}

// currentBranchPtr returns the active branch's storage, whichever of
// branchVal/branchRef is live for the current discriminant.
func (n *Instance) currentBranchPtr() *Instance {
	if n.layout.branches[n.discriminant].IsRecord {
		return n.branchRef
	}
	return &n.branchVal
}

// setBranch switches the union's active branch to branches[i], releasing
// whatever the previous branch held and allocating the new branch's
// storage.
func (n *Instance) setBranch(i int) *Instance {
	if n.layout != nil && len(n.layout.branches) > 0 {
		if prev := n.currentBranchPtr(); prev != nil {
			prev.Done()
		}
	}
	bl := n.layout.branches[i]
	n.discriminant = i
	if bl.IsRecord {
		n.branchRef = newChild(bl.Layout)
		n.branchVal = Instance{}
		return n.branchRef
	}
	n.branchRef = nil
	n.branchVal = Instance{}
	n.branchVal.Init(bl.Layout)
	return &n.branchVal
}

// MapKeyAt returns the insertion-ordered key at position i for a map
// instance, letting pkg/resolve.Encode emit map keys without depending
// on this package directly.
func (n *Instance) MapKeyAt(i int) string {
	k, _ := n.entries.GetByIndex(i)
	return k
}

// Done releases the storage this instance owns, recursing into compound
// kinds.
func (n *Instance) Done() {
	if n.layout == nil {
		return
	}
	switch n.layout.Kind() {
	case schema.Bytes, schema.String, schema.Fixed:
		n.buf.Done()
	case schema.Array:
		for i := 0; i < n.items.Len(); i++ {
			n.items.Get(i).Done()
		}
		n.items.Done()
	case schema.Map:
		for i := 0; i < n.entries.Len(); i++ {
			_, v := n.entries.GetByIndex(i)
			v.Done()
		}
		n.entries.Done()
	case schema.Record:
		for i := range n.fields {
			n.fields[i].Done()
		}
	case schema.Union:
		if p := n.currentBranchPtr(); p != nil {
			p.Done()
		}
	}
}

// Clear returns a compound value to empty, retaining backing storage
// for reuse. For a union, Clear rebuilds branch 0 fresh, same as Init.
func (n *Instance) Clear() {
	switch n.layout.Kind() {
	case schema.Boolean, schema.Int32, schema.Int64, schema.Float, schema.Double, schema.Null:
		*n = Instance{layout: n.layout}
	case schema.Bytes, schema.String, schema.Fixed:
		n.buf.Clear()
	case schema.Enum:
		n.enumIdx = 0
	case schema.Array:
		for i := 0; i < n.items.Len(); i++ {
			n.items.Get(i).Done()
		}
		n.items.Clear()
	case schema.Map:
		for i := 0; i < n.entries.Len(); i++ {
			_, v := n.entries.GetByIndex(i)
			v.Done()
		}
		n.entries.Clear()
	case schema.Record:
		for i := range n.fields {
			n.fields[i].Clear()
		}
	case schema.Union:
		if p := n.currentBranchPtr(); p != nil {
			p.Done()
		}
		n.setBranch(0)
	}
}

// Equal reports whether n and other hold structurally equal values. The
// two instances must share the same layout.
func (n *Instance) Equal(other *Instance) bool {
	if n.layout != other.layout {
		return false
	}
	switch n.layout.Kind() {
	case schema.Null:
		return true
	case schema.Boolean:
		return n.b == other.b
	case schema.Int32:
		return n.i32 == other.i32
	case schema.Int64:
		return n.i64 == other.i64
	case schema.Float:
		return n.f32 == other.f32
	case schema.Double:
		return n.f64 == other.f64
	case schema.Bytes, schema.String, schema.Fixed:
		return n.buf.Equal(&other.buf)
	case schema.Enum:
		return n.enumIdx == other.enumIdx
	case schema.Array:
		if n.items.Len() != other.items.Len() {
			return false
		}
		for i := 0; i < n.items.Len(); i++ {
			if !n.items.Get(i).Equal(other.items.Get(i)) {
				return false
			}
		}
		return true
	case schema.Map:
		if n.entries.Len() != other.entries.Len() {
			return false
		}
		for i := 0; i < n.entries.Len(); i++ {
			k, v := n.entries.GetByIndex(i)
			ov := other.entries.Get(k)
			if ov == nil || !v.Equal(ov) {
				return false
			}
		}
		return true
	case schema.Record:
		for i := range n.fields {
			if !n.fields[i].Equal(&other.fields[i]) {
				return false
			}
		}
		return true
	case schema.Union:
		if n.discriminant != other.discriminant {
			return false
		}
		return n.currentBranchPtr().Equal(other.currentBranchPtr())
	default:
		return false
	}
}
