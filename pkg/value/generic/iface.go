package generic

import (
	"github.com/blockberries/sval/pkg/value"
	"github.com/blockberries/sval/pkg/value/schema"
)

// ifaceFor returns the shared vtable for a resolved (non-link) kind.
// There is exactly one Iface per kind; per-value state lives entirely
// in the *Node passed as State.
func ifaceFor(k schema.Kind) *value.Iface {
	return ifaceTable[k]
}

var ifaceTable map[schema.Kind]*value.Iface

func init() {
	ifaceTable = map[schema.Kind]*value.Iface{
		schema.Null:    kindIface(schema.Null),
		schema.Boolean: boolIface,
		schema.Int32:   int32Iface,
		schema.Int64:   int64Iface,
		schema.Float:   floatIface,
		schema.Double:  doubleIface,
		schema.Bytes:   bytesIface,
		schema.String:  stringIface,
		schema.Fixed:   fixedIface,
		schema.Enum:    enumIface,
		schema.Array:   arrayIface,
		schema.Map:     mapIface,
		schema.Record:  recordIface,
		schema.Union:   unionIface,
	}
}

func nodeSchema(state any) *schema.Schema { return state.(*Node).sch }

func kindIface(k schema.Kind) *value.Iface {
	return &value.Iface{
		Kind:   func() schema.Kind { return k },
		Schema: nodeSchema,
	}
}

var boolIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Boolean },
	Schema: nodeSchema,
	GetBool: func(state any) (bool, error) {
		return state.(*Node).b, nil
	},
	SetBool: func(state any, v bool) error {
		state.(*Node).b = v
		return nil
	},
}

var int32Iface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Int32 },
	Schema: nodeSchema,
	GetInt32: func(state any) (int32, error) {
		return state.(*Node).i32, nil
	},
	SetInt32: func(state any, v int32) error {
		state.(*Node).i32 = v
		return nil
	},
}

var int64Iface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Int64 },
	Schema: nodeSchema,
	GetInt64: func(state any) (int64, error) {
		return state.(*Node).i64, nil
	},
	SetInt64: func(state any, v int64) error {
		state.(*Node).i64 = v
		return nil
	},
}

var floatIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Float },
	Schema: nodeSchema,
	GetFloat32: func(state any) (float32, error) {
		return state.(*Node).f32, nil
	},
	SetFloat32: func(state any, v float32) error {
		state.(*Node).f32 = v
		return nil
	},
}

var doubleIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Double },
	Schema: nodeSchema,
	GetFloat64: func(state any) (float64, error) {
		return state.(*Node).f64, nil
	},
	SetFloat64: func(state any, v float64) error {
		state.(*Node).f64 = v
		return nil
	},
}

var bytesIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Bytes },
	Schema: nodeSchema,
	Grab: func(state any) ([]byte, func(), error) {
		return state.(*Node).buf.Bytes(), nil, nil
	},
	Give: func(state any, data []byte, release func([]byte)) error {
		state.(*Node).buf.Give(data, release)
		return nil
	},
}

var stringIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.String },
	Schema: nodeSchema,
	Grab: func(state any) ([]byte, func(), error) {
		return state.(*Node).buf.Bytes(), nil, nil
	},
	Give: func(state any, data []byte, release func([]byte)) error {
		state.(*Node).buf.Give(data, release)
		return nil
	},
}

var fixedIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Fixed },
	Schema: nodeSchema,
	GetFixed: func(state any) ([]byte, error) {
		return state.(*Node).buf.Bytes(), nil
	},
	SetFixed: func(state any, b []byte) error {
		n := state.(*Node)
		if len(b) != n.sch.Resolve().FixedSize() {
			return &value.OpError{Op: "set_fixed", Kind: "fixed", Cause: ErrSizeMismatch}
		}
		n.buf.Set(b)
		return nil
	},
}

var enumIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Enum },
	Schema: nodeSchema,
	GetEnum: func(state any) (int, error) {
		return state.(*Node).enumIdx, nil
	},
	SetEnum: func(state any, index int) error {
		n := state.(*Node)
		if index < 0 || index >= n.sch.Resolve().EnumSymbolCount() {
			return &value.OpError{Op: "set_enum", Kind: "enum", Cause: value.ErrOutOfRange}
		}
		n.enumIdx = index
		return nil
	},
}

var arrayIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Array },
	Schema: nodeSchema,
	Size: func(state any) (int, error) {
		return state.(*Node).items.Len(), nil
	},
	GetByIndex: func(state any, i int) (value.Value, error) {
		n := state.(*Node)
		if i < 0 || i >= n.items.Len() {
			return value.Value{}, &value.OpError{Op: "get_by_index", Kind: "array", Cause: value.ErrOutOfRange}
		}
		elemSchema := n.sch.Resolve().Elem()
		return wrap(elemSchema, n.items.Get(i)), nil
	},
	Append: func(state any) (value.Value, error) {
		n := state.(*Node)
		elemSchema := n.sch.Resolve().Elem()
		slot := n.items.Append()
		slot.init(elemSchema)
		return wrap(elemSchema, slot), nil
	},
	Reset: func(state any) error {
		n := state.(*Node)
		for i := 0; i < n.items.Len(); i++ {
			n.items.Get(i).done()
		}
		n.items.Clear()
		return nil
	},
}

var mapIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Map },
	Schema: nodeSchema,
	Size: func(state any) (int, error) {
		return state.(*Node).entries.Len(), nil
	},
	GetByIndex: func(state any, i int) (value.Value, error) {
		n := state.(*Node)
		if i < 0 || i >= n.entries.Len() {
			return value.Value{}, &value.OpError{Op: "get_by_index", Kind: "map", Cause: value.ErrOutOfRange}
		}
		_, v := n.entries.GetByIndex(i)
		return wrap(n.sch.Resolve().Elem(), v), nil
	},
	GetByName: func(state any, name string) (value.Value, error) {
		n := state.(*Node)
		v := n.entries.Get(name)
		if v == nil {
			return value.Value{}, &value.OpError{Op: "get_by_name", Kind: "map", Cause: value.ErrOutOfRange}
		}
		return wrap(n.sch.Resolve().Elem(), v), nil
	},
	Add: func(state any, key string) (value.Value, bool, error) {
		n := state.(*Node)
		valueSchema := n.sch.Resolve().Elem()
		v, isNew := n.entries.GetOrCreate(key)
		if isNew {
			v.init(valueSchema)
		}
		return wrap(valueSchema, v), isNew, nil
	},
	Reset: func(state any) error {
		n := state.(*Node)
		for i := 0; i < n.entries.Len(); i++ {
			_, v := n.entries.GetByIndex(i)
			v.done()
		}
		n.entries.Clear()
		return nil
	},
}

var recordIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Record },
	Schema: nodeSchema,
	Size: func(state any) (int, error) {
		return len(state.(*Node).fields), nil
	},
	GetByIndex: func(state any, i int) (value.Value, error) {
		n := state.(*Node)
		if i < 0 || i >= len(n.fields) {
			return value.Value{}, &value.OpError{Op: "get_by_index", Kind: "record", Cause: value.ErrOutOfRange}
		}
		fieldSchema := n.sch.Resolve().FieldAt(i).Schema
		return wrap(fieldSchema, &n.fields[i]), nil
	},
	GetByName: func(state any, name string) (value.Value, error) {
		n := state.(*Node)
		f, i, ok := n.sch.Resolve().FieldByName(name)
		if !ok {
			return value.Value{}, &value.OpError{Op: "get_by_name", Kind: "record", Cause: value.ErrOutOfRange}
		}
		return wrap(f.Schema, &n.fields[i]), nil
	},
}

var unionIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Union },
	Schema: nodeSchema,
	Discriminant: func(state any) (int, error) {
		return state.(*Node).discriminant, nil
	},
	CurrentBranch: func(state any) (value.Value, error) {
		n := state.(*Node)
		branchSchema := n.sch.Resolve().Branch(n.discriminant)
		return wrap(branchSchema, n.branch), nil
	},
	SetBranch: func(state any, i int) (value.Value, error) {
		n := state.(*Node)
		u := n.sch.Resolve()
		if i < 0 || i >= u.BranchCount() {
			return value.Value{}, &value.OpError{Op: "set_branch", Kind: "union", Cause: value.ErrOutOfRange}
		}
		branch := n.setBranch(i)
		return wrap(u.Branch(i), branch), nil
	},
}
