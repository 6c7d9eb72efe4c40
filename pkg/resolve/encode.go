package resolve

import (
	"github.com/blockberries/sval/internal/wire"
	"github.com/blockberries/sval/pkg/value"
	"github.com/blockberries/sval/pkg/value/schema"
)

// Encode walks v's own schema (source layout -> value-interface
// getters -> binary codec -> stream) and writes it
// through w. Unlike Build/Consumer.Decode, encoding never resolves one
// schema against another — every value already carries the schema it
// was constructed against, so Encode simply dispatches on v.Kind() and
// recurses through the same compound operations the resolver compiler
// consumes on the decode side (Size/GetByIndex/GetByName/Discriminant/
// CurrentBranch), keeping both directions driven by the same polymorphic
// value interface.
func Encode(w *wire.Writer, v value.Value) error {
	switch v.Kind() {
	case schema.Null:
		return nil
	case schema.Boolean:
		b, err := v.GetBool()
		if err != nil {
			return err
		}
		w.WriteBool(b)
		return nil
	case schema.Int32:
		n, err := v.GetInt32()
		if err != nil {
			return err
		}
		w.WriteInt32(n)
		return nil
	case schema.Int64:
		n, err := v.GetInt64()
		if err != nil {
			return err
		}
		w.WriteInt64(n)
		return nil
	case schema.Float:
		f, err := v.GetFloat32()
		if err != nil {
			return err
		}
		w.WriteFloat32(f)
		return nil
	case schema.Double:
		f, err := v.GetFloat64()
		if err != nil {
			return err
		}
		w.WriteFloat64(f)
		return nil
	case schema.Bytes:
		b, release, err := v.Grab()
		if err != nil {
			return err
		}
		w.WriteBytes(b)
		if release != nil {
			release()
		}
		return nil
	case schema.String:
		b, release, err := v.Grab()
		if err != nil {
			return err
		}
		w.WriteString(string(b))
		if release != nil {
			release()
		}
		return nil
	case schema.Fixed:
		b, err := v.GetFixed()
		if err != nil {
			return err
		}
		w.WriteFixed(b)
		return nil
	case schema.Enum:
		idx, err := v.GetEnum()
		if err != nil {
			return err
		}
		w.WriteEnum(idx)
		return nil
	case schema.Array:
		n, err := v.Size()
		if err != nil {
			return err
		}
		if n > 0 {
			w.WriteBlockCount(n)
			for i := 0; i < n; i++ {
				item, err := v.GetByIndex(i)
				if err != nil {
					return err
				}
				if err := Encode(w, item); err != nil {
					return err
				}
			}
		}
		w.WriteBlockEnd()
		return nil
	case schema.Map:
		n, err := v.Size()
		if err != nil {
			return err
		}
		if n > 0 {
			w.WriteBlockCount(n)
			for i := 0; i < n; i++ {
				entry, err := v.GetByIndex(i)
				if err != nil {
					return err
				}
				key, err := mapKeyAt(v, i)
				if err != nil {
					return err
				}
				w.WriteString(key)
				if err := Encode(w, entry); err != nil {
					return err
				}
			}
		}
		w.WriteBlockEnd()
		return nil
	case schema.Record:
		n, err := v.Size()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			f, err := v.GetByIndex(i)
			if err != nil {
				return err
			}
			if err := Encode(w, f); err != nil {
				return err
			}
		}
		return nil
	case schema.Union:
		idx, err := v.Discriminant()
		if err != nil {
			return err
		}
		w.WriteUnionIndex(idx)
		branch, err := v.CurrentBranch()
		if err != nil {
			return err
		}
		return Encode(w, branch)
	default:
		return &BuildError{Cause: ErrIncompatible}
	}
}

// mapKeyCarrier is implemented by value states that can report their own
// insertion-ordered key at position i, letting Encode emit map keys
// without pkg/resolve depending on pkg/value/generic or pkg/specific.
type mapKeyCarrier interface {
	MapKeyAt(i int) string
}

func mapKeyAt(v value.Value, i int) (string, error) {
	if mc, ok := v.State.(mapKeyCarrier); ok {
		return mc.MapKeyAt(i), nil
	}
	return "", &BuildError{Cause: ErrIncompatible}
}
