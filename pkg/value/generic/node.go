// Package generic implements the default value representation:
// a tree of tagged heap nodes supporting every pkg/value.Iface operation
// for every kind. It is the reference implementation the resolver
// compiler (pkg/resolve) and the code generator (pkg/specific) are
// tested against, and the fallback used whenever no compiled specific
// layout exists for a schema.
package generic

import (
	"github.com/blockberries/sval/pkg/container"
	"github.com/blockberries/sval/pkg/value"
	"github.com/blockberries/sval/pkg/value/schema"
)

// Node is the tagged heap node backing every generic value.Value. Only
// the fields relevant to the node's resolved kind are meaningful; the
// rest sit at their zero value. A Node owns its own storage (buffer,
// items, fields, branch) and releases it in done.
type Node struct {
	sch *schema.Schema

	b   bool
	i32 int32
	i64 int64
	f32 float32
	f64 float64

	// bytes / string / fixed
	buf container.ByteBuffer

	// enum: index into sch.Resolve()'s symbol table
	enumIdx int

	// array
	items container.PackedArray[Node]

	// map
	entries container.OrderedMap[Node]

	// record
	fields []Node

	// union
	discriminant int
	branch       *Node
}

// New builds a fully initialized generic value for schema s, ready for
// every operation s's resolved kind supports.
func New(s *schema.Schema) value.Value {
	n := &Node{}
	n.init(s)
	return value.New(ifaceFor(s.Resolve().Kind()), n)
}

// newChild allocates and initializes a Node for use as a union branch.
func newChild(s *schema.Schema) *Node {
	n := &Node{}
	n.init(s)
	return n
}

func wrap(s *schema.Schema, n *Node) value.Value {
	return value.New(ifaceFor(s.Resolve().Kind()), n)
}

// init resets n to a freshly constructed value for schema s, recursing
// into record fields and the union's initial (zeroth) branch so every
// reachable sub-node is immediately usable. Arrays and maps start empty;
// Append/Add construct their elements on demand against the element
// schema.
func (n *Node) init(s *schema.Schema) {
	*n = Node{sch: s}
	switch s.Resolve().Kind() {
	case schema.Record:
		rs := s.Resolve()
		n.fields = make([]Node, rs.FieldCount())
		for i := 0; i < rs.FieldCount(); i++ {
			n.fields[i].init(rs.FieldAt(i).Schema)
		}
	case schema.Union:
		n.setBranch(0)
	}
}

// setBranch switches the union's active branch to branches[i],
// releasing whatever the previous branch held.
func (n *Node) setBranch(i int) *Node {
	if n.branch != nil {
		n.branch.done()
	}
	u := n.sch.Resolve()
	n.branch = newChild(u.Branch(i))
	n.discriminant = i
	return n.branch
}

// MapKeyAt returns the insertion-ordered key at position i for a map
// node, letting pkg/resolve.Encode emit map keys without depending on
// this package directly.
func (n *Node) MapKeyAt(i int) string {
	k, _ := n.entries.GetByIndex(i)
	return k
}

// done releases the storage this node owns, recursing into compound
// kinds. Called when a node is discarded (replaced, union branch
// switched away from, or the owning container cleared).
func (n *Node) done() {
	switch n.sch.Resolve().Kind() {
	case schema.Bytes, schema.String, schema.Fixed:
		n.buf.Done()
	case schema.Array:
		for i := 0; i < n.items.Len(); i++ {
			n.items.Get(i).done()
		}
		n.items.Done()
	case schema.Map:
		for i := 0; i < n.entries.Len(); i++ {
			_, v := n.entries.GetByIndex(i)
			v.done()
		}
		n.entries.Done()
	case schema.Record:
		for i := range n.fields {
			n.fields[i].done()
		}
	case schema.Union:
		if n.branch != nil {
			n.branch.done()
		}
	}
}
