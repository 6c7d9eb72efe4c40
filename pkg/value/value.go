package value

import "github.com/blockberries/sval/pkg/value/schema"

// Value is a two-pointer handle: Impl points to a capability vtable,
// State is implementation-defined. Value handles
// are non-owning by default — lifetime is the intersection of Impl's
// lifetime and State's backing storage. Value must be passable by
// value; it carries no behavior of its own beyond dispatch through Impl.
//
// A single Value is not re-entrant against itself; nested sub-handles
// (e.g. a record field's Value) are permitted and share the parent's
// backing storage.
type Value struct {
	Impl  *Iface
	State any
}

// New builds a Value handle from a vtable and its state.
func New(impl *Iface, state any) Value {
	return Value{Impl: impl, State: state}
}

// Kind returns the value's schema kind.
func (v Value) Kind() schema.Kind { return v.Impl.Kind() }

// Schema returns the value's schema.
func (v Value) Schema() *schema.Schema { return v.Impl.Schema(v.State) }

func (v Value) GetBool() (bool, error) {
	if v.Impl.GetBool == nil {
		return false, wrongType("get_bool", v.Kind().String())
	}
	return v.Impl.GetBool(v.State)
}

func (v Value) SetBool(b bool) error {
	if v.Impl.SetBool == nil {
		return wrongType("set_bool", v.Kind().String())
	}
	return v.Impl.SetBool(v.State, b)
}

func (v Value) GetInt32() (int32, error) {
	if v.Impl.GetInt32 == nil {
		return 0, wrongType("get_int32", v.Kind().String())
	}
	return v.Impl.GetInt32(v.State)
}

func (v Value) SetInt32(n int32) error {
	if v.Impl.SetInt32 == nil {
		return wrongType("set_int32", v.Kind().String())
	}
	return v.Impl.SetInt32(v.State, n)
}

func (v Value) GetInt64() (int64, error) {
	if v.Impl.GetInt64 == nil {
		return 0, wrongType("get_int64", v.Kind().String())
	}
	return v.Impl.GetInt64(v.State)
}

func (v Value) SetInt64(n int64) error {
	if v.Impl.SetInt64 == nil {
		return wrongType("set_int64", v.Kind().String())
	}
	return v.Impl.SetInt64(v.State, n)
}

func (v Value) GetFloat32() (float32, error) {
	if v.Impl.GetFloat32 == nil {
		return 0, wrongType("get_float32", v.Kind().String())
	}
	return v.Impl.GetFloat32(v.State)
}

func (v Value) SetFloat32(f float32) error {
	if v.Impl.SetFloat32 == nil {
		return wrongType("set_float32", v.Kind().String())
	}
	return v.Impl.SetFloat32(v.State, f)
}

func (v Value) GetFloat64() (float64, error) {
	if v.Impl.GetFloat64 == nil {
		return 0, wrongType("get_float64", v.Kind().String())
	}
	return v.Impl.GetFloat64(v.State)
}

func (v Value) SetFloat64(f float64) error {
	if v.Impl.SetFloat64 == nil {
		return wrongType("set_float64", v.Kind().String())
	}
	return v.Impl.SetFloat64(v.State, f)
}

// Grab lends a borrow of the value's own bytes/string storage. The
// optional release callback, if non-nil, must be called when the
// borrower is finished.
func (v Value) Grab() (data []byte, release func(), err error) {
	if v.Impl.Grab == nil {
		return nil, nil, wrongType("grab", v.Kind().String())
	}
	return v.Impl.Grab(v.State)
}

// Give transfers ownership of data into the value, calling release when
// the value later discards or overwrites it.
func (v Value) Give(data []byte, release func([]byte)) error {
	if v.Impl.Give == nil {
		return wrongType("give", v.Kind().String())
	}
	return v.Impl.Give(v.State, data, release)
}

func (v Value) GetFixed() ([]byte, error) {
	if v.Impl.GetFixed == nil {
		return nil, wrongType("get_fixed", v.Kind().String())
	}
	return v.Impl.GetFixed(v.State)
}

func (v Value) SetFixed(b []byte) error {
	if v.Impl.SetFixed == nil {
		return wrongType("set_fixed", v.Kind().String())
	}
	return v.Impl.SetFixed(v.State, b)
}

func (v Value) GetEnum() (int, error) {
	if v.Impl.GetEnum == nil {
		return 0, wrongType("get_enum", v.Kind().String())
	}
	return v.Impl.GetEnum(v.State)
}

func (v Value) SetEnum(index int) error {
	if v.Impl.SetEnum == nil {
		return wrongType("set_enum", v.Kind().String())
	}
	return v.Impl.SetEnum(v.State, index)
}

// Size returns the element/field count of an array, map, or record.
func (v Value) Size() (int, error) {
	if v.Impl.Size == nil {
		return 0, wrongType("size", v.Kind().String())
	}
	return v.Impl.Size(v.State)
}

// GetByIndex returns the i-th element (array), i-th insertion-ordered
// entry (map), or i-th field (record).
func (v Value) GetByIndex(i int) (Value, error) {
	if v.Impl.GetByIndex == nil {
		return Value{}, wrongType("get_by_index", v.Kind().String())
	}
	return v.Impl.GetByIndex(v.State, i)
}

// GetByName returns a map entry or record field by name.
func (v Value) GetByName(name string) (Value, error) {
	if v.Impl.GetByName == nil {
		return Value{}, wrongType("get_by_name", v.Kind().String())
	}
	return v.Impl.GetByName(v.State, name)
}

// Append grows an array by one element and returns a handle to it.
func (v Value) Append() (Value, error) {
	if v.Impl.Append == nil {
		return Value{}, wrongType("append", v.Kind().String())
	}
	return v.Impl.Append(v.State)
}

// Add inserts-or-gets a map entry by key.
func (v Value) Add(key string) (Value, bool, error) {
	if v.Impl.Add == nil {
		return Value{}, false, wrongType("add", v.Kind().String())
	}
	return v.Impl.Add(v.State, key)
}

// Reset empties an array or map, retaining backing storage.
func (v Value) Reset() error {
	if v.Impl.Reset == nil {
		return wrongType("reset", v.Kind().String())
	}
	return v.Impl.Reset(v.State)
}

// Discriminant returns a union's active branch index.
func (v Value) Discriminant() (int, error) {
	if v.Impl.Discriminant == nil {
		return 0, wrongType("discriminant", v.Kind().String())
	}
	return v.Impl.Discriminant(v.State)
}

// CurrentBranch returns a handle to the union's active branch storage.
func (v Value) CurrentBranch() (Value, error) {
	if v.Impl.CurrentBranch == nil {
		return Value{}, wrongType("current_branch", v.Kind().String())
	}
	return v.Impl.CurrentBranch(v.State)
}

// SetBranch switches a union's active branch, releasing the prior
// branch's storage and allocating the new one, so discriminant and
// storage always agree.
func (v Value) SetBranch(i int) (Value, error) {
	if v.Impl.SetBranch == nil {
		return Value{}, wrongType("set_branch", v.Kind().String())
	}
	return v.Impl.SetBranch(v.State, i)
}
