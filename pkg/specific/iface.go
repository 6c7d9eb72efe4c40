package specific

import (
	"github.com/blockberries/sval/pkg/value"
	"github.com/blockberries/sval/pkg/value/schema"
)

// ifaceFor returns the shared vtable for a resolved (non-link) kind.
// There is exactly one Iface per kind; per-value state lives in the
// *Instance passed as State plus the *Layout it carries, matching
// pkg/value/generic's "one Iface per kind" pattern.
func ifaceFor(k schema.Kind) *value.Iface {
	return ifaceTable[k]
}

var ifaceTable = map[schema.Kind]*value.Iface{
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

func instanceSchema(state any) *schema.Schema { return state.(*Instance).layout.sch }

func kindIface(k schema.Kind) *value.Iface {
	return &value.Iface{
		Kind:   func() schema.Kind { return k },
		Schema: instanceSchema,
	}
}

var boolIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Boolean },
	Schema: instanceSchema,
	GetBool: func(state any) (bool, error) {
		return state.(*Instance).b, nil
	},
	SetBool: func(state any, v bool) error {
		state.(*Instance).b = v
		return nil
	},
}

var int32Iface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Int32 },
	Schema: instanceSchema,
	GetInt32: func(state any) (int32, error) {
		return state.(*Instance).i32, nil
	},
	SetInt32: func(state any, v int32) error {
		state.(*Instance).i32 = v
		return nil
	},
}

var int64Iface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Int64 },
	Schema: instanceSchema,
	GetInt64: func(state any) (int64, error) {
		return state.(*Instance).i64, nil
	},
	SetInt64: func(state any, v int64) error {
		state.(*Instance).i64 = v
		return nil
	},
}

var floatIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Float },
	Schema: instanceSchema,
	GetFloat32: func(state any) (float32, error) {
		return state.(*Instance).f32, nil
	},
	SetFloat32: func(state any, v float32) error {
		state.(*Instance).f32 = v
		return nil
	},
}

var doubleIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Double },
	Schema: instanceSchema,
	GetFloat64: func(state any) (float64, error) {
		return state.(*Instance).f64, nil
	},
	SetFloat64: func(state any, v float64) error {
		state.(*Instance).f64 = v
		return nil
	},
}

var bytesIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Bytes },
	Schema: instanceSchema,
	Grab: func(state any) ([]byte, func(), error) {
		return state.(*Instance).buf.Bytes(), nil, nil
	},
	Give: func(state any, data []byte, release func([]byte)) error {
		state.(*Instance).buf.Give(data, release)
		return nil
	},
}

var stringIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.String },
	Schema: instanceSchema,
	Grab: func(state any) ([]byte, func(), error) {
		return state.(*Instance).buf.Bytes(), nil, nil
	},
	Give: func(state any, data []byte, release func([]byte)) error {
		state.(*Instance).buf.Give(data, release)
		return nil
	},
}

var fixedIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Fixed },
	Schema: instanceSchema,
	GetFixed: func(state any) ([]byte, error) {
		return state.(*Instance).buf.Bytes(), nil
	},
	SetFixed: func(state any, b []byte) error {
		n := state.(*Instance)
		if len(b) != n.layout.sch.Resolve().FixedSize() {
			return &value.OpError{Op: "set_fixed", Kind: "fixed", Cause: ErrSizeMismatch}
		}
		n.buf.Set(b)
		return nil
	},
}

var enumIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Enum },
	Schema: instanceSchema,
	GetEnum: func(state any) (int, error) {
		return state.(*Instance).enumIdx, nil
	},
	SetEnum: func(state any, index int) error {
		n := state.(*Instance)
		if index < 0 || index >= n.layout.sch.Resolve().EnumSymbolCount() {
			return &value.OpError{Op: "set_enum", Kind: "enum", Cause: value.ErrOutOfRange}
		}
		n.enumIdx = index
		return nil
	},
}

var arrayIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Array },
	Schema: instanceSchema,
	Size: func(state any) (int, error) {
		return state.(*Instance).items.Len(), nil
	},
	GetByIndex: func(state any, i int) (value.Value, error) {
		n := state.(*Instance)
		if i < 0 || i >= n.items.Len() {
			return value.Value{}, &value.OpError{Op: "get_by_index", Kind: "array", Cause: value.ErrOutOfRange}
		}
		return wrap(n.layout.elem, n.items.Get(i)), nil
	},
	Append: func(state any) (value.Value, error) {
		n := state.(*Instance)
		slot := n.items.Append()
		slot.Init(n.layout.elem)
		return wrap(n.layout.elem, slot), nil
	},
	Reset: func(state any) error {
		n := state.(*Instance)
		for i := 0; i < n.items.Len(); i++ {
			n.items.Get(i).Done()
		}
		n.items.Clear()
		return nil
	},
}

var mapIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Map },
	Schema: instanceSchema,
	Size: func(state any) (int, error) {
		return state.(*Instance).entries.Len(), nil
	},
	GetByIndex: func(state any, i int) (value.Value, error) {
		n := state.(*Instance)
		if i < 0 || i >= n.entries.Len() {
			return value.Value{}, &value.OpError{Op: "get_by_index", Kind: "map", Cause: value.ErrOutOfRange}
		}
		_, v := n.entries.GetByIndex(i)
		return wrap(n.layout.elem, v), nil
	},
	GetByName: func(state any, name string) (value.Value, error) {
		n := state.(*Instance)
		v := n.entries.Get(name)
		if v == nil {
			return value.Value{}, &value.OpError{Op: "get_by_name", Kind: "map", Cause: value.ErrOutOfRange}
		}
		return wrap(n.layout.elem, v), nil
	},
	Add: func(state any, key string) (value.Value, bool, error) {
		n := state.(*Instance)
		v, isNew := n.entries.GetOrCreate(key)
		if isNew {
			v.Init(n.layout.elem)
		}
		return wrap(n.layout.elem, v), isNew, nil
	},
	Reset: func(state any) error {
		n := state.(*Instance)
		for i := 0; i < n.entries.Len(); i++ {
			_, v := n.entries.GetByIndex(i)
			v.Done()
		}
		n.entries.Clear()
		return nil
	},
}

var recordIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Record },
	Schema: instanceSchema,
	Size: func(state any) (int, error) {
		return len(state.(*Instance).fields), nil
	},
	GetByIndex: func(state any, i int) (value.Value, error) {
		n := state.(*Instance)
		if i < 0 || i >= len(n.fields) {
			return value.Value{}, &value.OpError{Op: "get_by_index", Kind: "record", Cause: value.ErrOutOfRange}
		}
		return wrap(n.layout.fields[i].Layout, &n.fields[i]), nil
	},
	GetByName: func(state any, name string) (value.Value, error) {
		n := state.(*Instance)
		_, i, ok := n.layout.sch.Resolve().FieldByName(name)
		if !ok {
			return value.Value{}, &value.OpError{Op: "get_by_name", Kind: "record", Cause: value.ErrOutOfRange}
		}
		return wrap(n.layout.fields[i].Layout, &n.fields[i]), nil
	},
}

var unionIface = &value.Iface{
	Kind:   func() schema.Kind { return schema.Union },
	Schema: instanceSchema,
	Discriminant: func(state any) (int, error) {
		return state.(*Instance).discriminant, nil
	},
	CurrentBranch: func(state any) (value.Value, error) {
		n := state.(*Instance)
		bl := n.layout.branches[n.discriminant]
		return wrap(bl.Layout, n.currentBranchPtr()), nil
	},
	SetBranch: func(state any, i int) (value.Value, error) {
		n := state.(*Instance)
		if i < 0 || i >= len(n.layout.branches) {
			return value.Value{}, &value.OpError{Op: "set_branch", Kind: "union", Cause: value.ErrOutOfRange}
		}
		branch := n.setBranch(i)
		return wrap(n.layout.branches[i].Layout, branch), nil
	},
}
