// Package sval is the public facade over the value engine: the small
// set of entry points a library consumer needs without reaching into
// pkg/schemalang, pkg/value/schema, pkg/resolve, pkg/specific, and
// pkg/value/generic directly.
package sval

import (
	"github.com/blockberries/sval/internal/wire"
	"github.com/blockberries/sval/pkg/resolve"
	"github.com/blockberries/sval/pkg/schemalang"
	"github.com/blockberries/sval/pkg/specific"
	"github.com/blockberries/sval/pkg/value"
	"github.com/blockberries/sval/pkg/value/generic"
	"github.com/blockberries/sval/pkg/value/schema"
)

// ParseSchema parses .sval source text into a
// named-type table and the schema roots declared in the file, in
// declaration order. filename is used only for error position context.
func ParseSchema(filename, source string) (*schema.NamedTypeTable, []*schema.Schema, error) {
	return schemalang.ParseAndBuild(filename, source)
}

// Compile generates a specific.Layout for s: a fixed-offset memory
// layout a caller can repeatedly allocate values against (pkg/specific.New)
// instead of paying pkg/value/generic's per-field indirection on every
// access. Compile is a one-time cost per schema; the returned Layout is
// safe to share and reuse across many values.
func Compile(s *schema.Schema) (*specific.Layout, error) {
	return specific.Compile(s)
}

// NewGenericValue returns a fresh, fully initialized value.Value backed
// by pkg/value/generic for schema s, ready for every operation s's
// resolved kind supports.
func NewGenericValue(s *schema.Schema) value.Value {
	return generic.New(s)
}

// Encode serializes v's current contents to sval's binary wire format.
func Encode(v value.Value) ([]byte, error) {
	w := wire.NewWriter()
	if err := resolve.Encode(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode decodes data, written against writerSchema, into a freshly
// constructed generic value for readerSchema, resolving any difference
// between the two per the schema resolution rules. Callers
// decoding the same (writerSchema, readerSchema) pair repeatedly should
// build and cache a resolve.Consumer directly with resolve.Build instead
// of calling Decode in a loop, the same way pkg/specific's compiled
// layouts avoid rebuilding a consumer tree per value.
func Decode(data []byte, writerSchema, readerSchema *schema.Schema) (value.Value, error) {
	consumer, err := resolve.Build(writerSchema, resolve.SchemaTarget{Reader: readerSchema}, resolve.Options{})
	if err != nil {
		return value.Value{}, err
	}
	dst := generic.New(readerSchema)
	if err := consumer.Decode(wire.NewReader(data), dst); err != nil {
		return value.Value{}, err
	}
	return dst, nil
}

// DecodeInto decodes data into dst using a caller-supplied target,
// letting a pkg/specific-compiled Layout (which also satisfies
// resolve.Target) serve as the destination instead of a generic value —
// the fast path Decode's convenience signature can't express since it
// always allocates a generic destination.
func DecodeInto(data []byte, writerSchema *schema.Schema, target resolve.Target, dst value.Value) error {
	consumer, err := resolve.Build(writerSchema, target, resolve.Options{})
	if err != nil {
		return err
	}
	return consumer.Decode(wire.NewReader(data), dst)
}
