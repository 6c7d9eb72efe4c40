package resolve

import (
	"github.com/blockberries/sval/pkg/value/schema"
)

// cacheKey is the memoization key: a (target
// identity, writer schema) pair. Target identity is the reader schema
// pointer for SchemaTarget; pkg/specific targets key off their own
// descriptor pointer via the same Target value used as a map key, which
// requires Target implementations to be comparable (pointers or small
// value types, as SchemaTarget is).
type cacheKey struct {
	w *schema.Schema
	t Target
}

// buildCtx carries the memoization cache and options through one Build
// call's recursive descent; the cache doubles as the seen-set that
// breaks cycles across a single compilation pass.
type buildCtx struct {
	opts  Options
	cache map[cacheKey]Consumer
	depth int
}

// Build compiles a consumer tree that decodes data written under w into
// dst's schema t. The returned Consumer is reusable
// across any number of Decode calls with fresh destinations.
func Build(w *schema.Schema, t Target, opts Options) (Consumer, error) {
	ctx := &buildCtx{opts: opts, cache: make(map[cacheKey]Consumer)}
	return ctx.build(w, t, "")
}

func (ctx *buildCtx) build(w *schema.Schema, t Target, path string) (Consumer, error) {
	w = w.Resolve()

	ctx.depth++
	defer func() { ctx.depth-- }()
	if ctx.depth > ctx.opts.maxDepth() {
		return nil, &BuildError{Path: path, Cause: ErrRecursionLimit}
	}

	key := cacheKey{w: w, t: t}
	if c, ok := ctx.cache[key]; ok {
		return c, nil
	}

	if w.Kind() == schema.Union {
		return ctx.buildUnionConsumer(w, t, path, key)
	}

	// Step 4: if the target itself is a reader union and w is not,
	// resolve against the first reader-union branch that accepts w,
	// wrapping the result with a branch selector.
	if ut, ok := t.(UnionTarget); ok && ut.ReaderSchema().Resolve().Kind() == schema.Union {
		return ctx.buildBranchSelector(w, ut, path, key)
	}

	reader := t.ReaderSchema()
	if reader == nil {
		return nil, &BuildError{Path: path, Cause: ErrIncompatible}
	}
	reader = reader.Resolve()

	switch w.Kind() {
	case schema.Null:
		if reader.Kind() != schema.Null {
			return nil, &BuildError{Path: path, Cause: ErrIncompatible}
		}
		return ctx.store(key, nullConsumer{}), nil
	case schema.Boolean:
		if reader.Kind() != schema.Boolean {
			return nil, &BuildError{Path: path, Cause: ErrIncompatible}
		}
		return ctx.store(key, boolConsumer{}), nil
	case schema.Int32:
		rk, err := numericReaderKind(reader.Kind(), schema.Int32)
		if err != nil {
			return nil, &BuildError{Path: path, Cause: err}
		}
		return ctx.store(key, int32Consumer{readerKind: rk}), nil
	case schema.Int64:
		rk, err := numericReaderKind(reader.Kind(), schema.Int64)
		if err != nil {
			return nil, &BuildError{Path: path, Cause: err}
		}
		return ctx.store(key, int64Consumer{readerKind: rk}), nil
	case schema.Float:
		rk, err := numericReaderKind(reader.Kind(), schema.Float)
		if err != nil {
			return nil, &BuildError{Path: path, Cause: err}
		}
		return ctx.store(key, floatConsumer{readerKind: rk}), nil
	case schema.Double:
		if reader.Kind() != schema.Double {
			return nil, &BuildError{Path: path, Cause: ErrIncompatible}
		}
		return ctx.store(key, doubleConsumer{}), nil
	case schema.Bytes:
		if reader.Kind() != schema.Bytes && reader.Kind() != schema.String {
			return nil, &BuildError{Path: path, Cause: ErrIncompatible}
		}
		return ctx.store(key, bytesConsumer{}), nil
	case schema.String:
		if reader.Kind() != schema.String && reader.Kind() != schema.Bytes {
			return nil, &BuildError{Path: path, Cause: ErrIncompatible}
		}
		return ctx.store(key, stringConsumer{}), nil
	case schema.Fixed:
		if reader.Kind() != schema.Fixed || reader.FixedSize() != w.FixedSize() {
			return nil, &BuildError{Path: path, Cause: ErrIncompatible}
		}
		return ctx.store(key, fixedConsumer{size: w.FixedSize()}), nil
	case schema.Enum:
		if reader.Kind() != schema.Enum {
			return nil, &BuildError{Path: path, Cause: ErrIncompatible}
		}
		ec, err := ctx.buildEnumConsumer(w, reader)
		if err != nil {
			return nil, &BuildError{Path: path, Cause: err}
		}
		return ctx.store(key, ec), nil
	case schema.Array:
		if reader.Kind() != schema.Array {
			return nil, &BuildError{Path: path, Cause: ErrIncompatible}
		}
		ctx.cache[key] = nil // reserve the slot for recursive (self-referential element) schemas
		elem, err := ctx.build(w.Elem(), SchemaTarget{Reader: reader.Elem()}, path+"[]")
		if err != nil {
			delete(ctx.cache, key)
			return nil, err
		}
		return ctx.store(key, arrayConsumer{elem: elem}), nil
	case schema.Map:
		if reader.Kind() != schema.Map {
			return nil, &BuildError{Path: path, Cause: ErrIncompatible}
		}
		ctx.cache[key] = nil
		val, err := ctx.build(w.Elem(), SchemaTarget{Reader: reader.Elem()}, path+"{}")
		if err != nil {
			delete(ctx.cache, key)
			return nil, err
		}
		return ctx.store(key, mapConsumer{value: val}), nil
	case schema.Record:
		if reader.Kind() != schema.Record {
			return nil, &BuildError{Path: path, Cause: ErrIncompatible}
		}
		return ctx.buildRecordConsumer(w, reader, t, path, key)
	default:
		return nil, &BuildError{Path: path, Cause: ErrIncompatible}
	}
}

// store records c in the memoization cache and returns it, so build
// methods can write `return ctx.store(key, c), nil`.
func (ctx *buildCtx) store(key cacheKey, c Consumer) Consumer {
	ctx.cache[key] = c
	return c
}

// numericReaderKind validates a writer numeric kind against the
// primitive pairing table and returns which setter the
// consumer should call.
func numericReaderKind(readerKind, writerKind schema.Kind) (readerNumericKind, error) {
	switch writerKind {
	case schema.Int32:
		switch readerKind {
		case schema.Int32:
			return readerSameWidth, nil
		case schema.Int64:
			return readerInt64, nil
		case schema.Float:
			return readerFloat, nil
		case schema.Double:
			return readerDouble, nil
		}
	case schema.Int64:
		switch readerKind {
		case schema.Int64:
			return readerSameWidth, nil
		case schema.Float:
			return readerFloat, nil
		case schema.Double:
			return readerDouble, nil
		}
	case schema.Float:
		switch readerKind {
		case schema.Float:
			return readerSameWidth, nil
		case schema.Double:
			return readerDouble, nil
		}
	}
	return 0, ErrIncompatible
}

// buildEnumConsumer maps each writer symbol to its reader index by name.
// A writer symbol absent from the reader is Incompatible under strict
// matching; with LenientEnums it falls back to the reader's first
// declared symbol instead.
func (ctx *buildCtx) buildEnumConsumer(w, reader *schema.Schema) (enumConsumer, error) {
	mapping := make([]int, w.EnumSymbolCount())
	for i := 0; i < w.EnumSymbolCount(); i++ {
		name := w.EnumSymbolName(i)
		if ri, ok := reader.EnumIndexOf(name); ok {
			mapping[i] = ri
		} else if ctx.opts.LenientEnums && reader.EnumSymbolCount() > 0 {
			mapping[i] = 0
		} else {
			return enumConsumer{}, ErrIncompatible
		}
	}
	return enumConsumer{mapping: mapping}, nil
}

func (ctx *buildCtx) buildRecordConsumer(w, reader *schema.Schema, t Target, path string, key cacheKey) (Consumer, error) {
	rc := &recordConsumer{}
	ctx.cache[key] = rc // memoize before recursing: closes cycles through recursive records

	for i := 0; i < w.FieldCount(); i++ {
		wf := w.FieldAt(i)
		if rf, _, ok := reader.FieldByName(wf.Name); ok {
			inner, err := ctx.build(wf.Schema, SchemaTarget{Reader: rf.Schema}, path+"."+wf.Name)
			if err != nil {
				delete(ctx.cache, key)
				return nil, err
			}
			rc.bindings = append(rc.bindings, fieldBinding{consumer: inner, readerName: wf.Name})
			continue
		}
		inner, err := ctx.build(wf.Schema, SchemaTarget{Reader: wf.Schema}, path+"."+wf.Name)
		if err != nil {
			delete(ctx.cache, key)
			return nil, err
		}
		rc.bindings = append(rc.bindings, fieldBinding{
			consumer: &skipConsumer{inner: inner, fieldSchema: wf.Schema},
			skip:     true,
		})
	}

	for i := 0; i < reader.FieldCount(); i++ {
		rf := reader.FieldAt(i)
		if _, _, ok := w.FieldByName(rf.Name); !ok && !rf.HasDefault {
			delete(ctx.cache, key)
			return nil, &BuildError{Path: path + "." + rf.Name, Cause: ErrMissingDefault}
		}
	}

	_ = t // t's ReaderSchema() == reader already consulted by the caller
	return rc, nil
}

func (ctx *buildCtx) buildUnionConsumer(w *schema.Schema, t Target, path string, key cacheKey) (Consumer, error) {
	uc := &unionConsumer{children: make([]Consumer, w.BranchCount())}
	ctx.cache[key] = uc // memoize before recursing: closes cycles through union branches

	anySucceeded := false
	for i := 0; i < w.BranchCount(); i++ {
		child, err := ctx.build(w.Branch(i), t, path+"<>")
		if err != nil {
			continue // a failing branch leaves children[i] nil, not a build failure
		}
		uc.children[i] = child
		anySucceeded = true
	}
	if !anySucceeded {
		delete(ctx.cache, key)
		return nil, &BuildError{Path: path, Cause: ErrIncompatible}
	}
	return uc, nil
}

func (ctx *buildCtx) buildBranchSelector(w *schema.Schema, ut UnionTarget, path string, key cacheKey) (Consumer, error) {
	reader := ut.ReaderSchema().Resolve()
	for i := 0; i < reader.BranchCount(); i++ {
		inner, err := ctx.build(w, ut.BranchTarget(i), path)
		if err != nil {
			continue
		}
		bs := branchSelector{branchIndex: i, inner: inner}
		return ctx.store(key, bs), nil
	}
	return nil, &BuildError{Path: path, Cause: ErrIncompatible}
}
