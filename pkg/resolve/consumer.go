package resolve

import (
	"github.com/blockberries/sval/internal/wire"
	"github.com/blockberries/sval/pkg/value"
	"github.com/blockberries/sval/pkg/value/generic"
	"github.com/blockberries/sval/pkg/value/schema"
)

// Consumer is one compiled decode-plan node, corresponding to a single
// position in the writer schema. A compiled
// Consumer tree is reusable: Decode is called once per occurrence of
// its writer-schema position, writing into whichever dst value.Value
// the caller supplies for that occurrence.
type Consumer interface {
	Decode(r *wire.Reader, dst value.Value) error
}

func ioErr(r *wire.Reader) error {
	return &DecodeError{Offset: r.Pos(), Cause: r.Err()}
}

type nullConsumer struct{}

func (nullConsumer) Decode(r *wire.Reader, dst value.Value) error { return nil }

type boolConsumer struct{}

func (boolConsumer) Decode(r *wire.Reader, dst value.Value) error {
	v := r.ReadBool()
	if r.Err() != nil {
		return ioErr(r)
	}
	return dst.SetBool(v)
}

// int32Consumer decodes a writer int32 into whichever reader kind it
// was paired with (int32, int64, float, or double).
type int32Consumer struct {
	readerKind readerNumericKind
}

func (c int32Consumer) Decode(r *wire.Reader, dst value.Value) error {
	v := r.ReadInt32()
	if r.Err() != nil {
		return ioErr(r)
	}
	switch c.readerKind {
	case readerInt64:
		return dst.SetInt64(int64(v))
	case readerFloat:
		return dst.SetFloat32(float32(v))
	case readerDouble:
		return dst.SetFloat64(float64(v))
	default:
		return dst.SetInt32(v)
	}
}

type int64Consumer struct {
	readerKind readerNumericKind
}

func (c int64Consumer) Decode(r *wire.Reader, dst value.Value) error {
	v := r.ReadInt64()
	if r.Err() != nil {
		return ioErr(r)
	}
	switch c.readerKind {
	case readerFloat:
		return dst.SetFloat32(float32(v))
	case readerDouble:
		return dst.SetFloat64(float64(v))
	default:
		return dst.SetInt64(v)
	}
}

type floatConsumer struct {
	readerKind readerNumericKind
}

func (c floatConsumer) Decode(r *wire.Reader, dst value.Value) error {
	v := r.ReadFloat32()
	if r.Err() != nil {
		return ioErr(r)
	}
	if c.readerKind == readerDouble {
		return dst.SetFloat64(float64(v))
	}
	return dst.SetFloat32(v)
}

type doubleConsumer struct{}

func (doubleConsumer) Decode(r *wire.Reader, dst value.Value) error {
	v := r.ReadFloat64()
	if r.Err() != nil {
		return ioErr(r)
	}
	return dst.SetFloat64(v)
}

// readerNumericKind distinguishes which numeric setter a primitive
// consumer should call once it has decoded the writer's native value.
type readerNumericKind int

const (
	readerSameWidth readerNumericKind = iota
	readerInt64
	readerFloat
	readerDouble
)

// bytesConsumer reads a writer bytes value and gives it to dst, which
// may itself be of bytes or string kind (both support Give).
type bytesConsumer struct{}

func (bytesConsumer) Decode(r *wire.Reader, dst value.Value) error {
	v := r.ReadBytes()
	if r.Err() != nil {
		return ioErr(r)
	}
	return dst.Give(v, nil)
}

// stringConsumer reads a writer string value (UTF-8 validated by the
// wire reader) and gives it to dst.
type stringConsumer struct{}

func (stringConsumer) Decode(r *wire.Reader, dst value.Value) error {
	s := r.ReadString()
	if r.Err() != nil {
		return ioErr(r)
	}
	return dst.Give([]byte(s), nil)
}

type fixedConsumer struct {
	size int
}

func (c fixedConsumer) Decode(r *wire.Reader, dst value.Value) error {
	b := r.ReadFixed(c.size)
	if r.Err() != nil {
		return ioErr(r)
	}
	return dst.SetFixed(b)
}

// enumConsumer maps a writer enum index to a reader enum index via a
// precomputed mapping table built at compile time (by symbol name).
// Every entry is a valid reader index: a writer symbol with no reader
// counterpart fails the build (or maps to 0 under LenientEnums), so the
// range check in Decode only guards against an out-of-range wire index.
type enumConsumer struct {
	mapping []int
}

func (c enumConsumer) Decode(r *wire.Reader, dst value.Value) error {
	wi := r.ReadEnum()
	if r.Err() != nil {
		return ioErr(r)
	}
	if wi < 0 || wi >= len(c.mapping) || c.mapping[wi] < 0 {
		return &DecodeError{Offset: r.Pos(), Cause: ErrIncompatibleBranch}
	}
	return dst.SetEnum(c.mapping[wi])
}

// arrayConsumer decodes a block-framed array, appending one element to
// dst per item and recursing via elem.
type arrayConsumer struct {
	elem Consumer
}

func (c arrayConsumer) Decode(r *wire.Reader, dst value.Value) error {
	for {
		n := r.ReadBlockCount()
		if r.Err() != nil {
			return ioErr(r)
		}
		if n == 0 {
			return nil
		}
		for i := int64(0); i < n; i++ {
			item, err := dst.Append()
			if err != nil {
				return err
			}
			if err := c.elem.Decode(r, item); err != nil {
				return err
			}
		}
	}
}

// mapConsumer decodes a block-framed string-keyed map, inserting one
// entry per item and recursing via value.
type mapConsumer struct {
	value Consumer
}

func (c mapConsumer) Decode(r *wire.Reader, dst value.Value) error {
	for {
		n := r.ReadBlockCount()
		if r.Err() != nil {
			return ioErr(r)
		}
		if n == 0 {
			return nil
		}
		for i := int64(0); i < n; i++ {
			key := r.ReadString()
			if r.Err() != nil {
				return ioErr(r)
			}
			entry, _, err := dst.Add(key)
			if err != nil {
				return err
			}
			if err := c.value.Decode(r, entry); err != nil {
				return err
			}
		}
	}
}

// fieldBinding is one writer-record-field's decode plan.
type fieldBinding struct {
	consumer Consumer
	// readerName is the reader field to deposit into; empty when this
	// binding is a skip (writer-only field).
	readerName string
	skip       bool
}

// recordConsumer decodes writer fields in declaration order, routing
// each into its matched reader
// field or discarding it via a skip consumer.
type recordConsumer struct {
	bindings []fieldBinding
}

func (c recordConsumer) Decode(r *wire.Reader, dst value.Value) error {
	for _, b := range c.bindings {
		if b.skip {
			if err := b.consumer.Decode(r, value.Value{}); err != nil {
				return err
			}
			continue
		}
		fieldDst, err := dst.GetByName(b.readerName)
		if err != nil {
			return err
		}
		if err := b.consumer.Decode(r, fieldDst); err != nil {
			return err
		}
	}
	return nil
}

// skipConsumer decodes a writer-only field's shape into a fresh scratch
// value built from fieldSchema and discards the result: the wire
// position must still advance by exactly the writer shape's size or
// every subsequent sibling field misaligns. A new scratch value is
// built per call, rather than reused,
// because a reused array/map scratch would need its own nested state
// cleared before every call; allocating fresh is simpler and this path
// is already off the fast (matched-field) decode path.
type skipConsumer struct {
	inner       Consumer
	fieldSchema *schema.Schema
}

func (c *skipConsumer) Decode(r *wire.Reader, _ value.Value) error {
	return c.inner.Decode(r, generic.New(c.fieldSchema))
}

// unionConsumer decodes a writer-union discriminant and dispatches to
// the matching child. children is indexed by writer
// branch position; a nil entry means that branch failed to resolve at
// build time.
type unionConsumer struct {
	children []Consumer
}

func (c unionConsumer) Decode(r *wire.Reader, dst value.Value) error {
	wi := r.ReadUnionIndex()
	if r.Err() != nil {
		return ioErr(r)
	}
	if wi < 0 || wi >= len(c.children) || c.children[wi] == nil {
		return &DecodeError{Offset: r.Pos(), Cause: ErrIncompatibleBranch}
	}
	return c.children[wi].Decode(r, dst)
}

// branchSelector wraps a consumer compiled against one reader-union
// branch: at decode time it first switches dst onto that branch before
// delegating.
type branchSelector struct {
	branchIndex int
	inner       Consumer
}

func (c branchSelector) Decode(r *wire.Reader, dst value.Value) error {
	branchDst, err := dst.SetBranch(c.branchIndex)
	if err != nil {
		return err
	}
	return c.inner.Decode(r, branchDst)
}
