package schemalang

import (
	"fmt"

	"github.com/blockberries/sval/pkg/value/schema"
)

var primitiveKinds = map[string]schema.Kind{
	"null":    schema.Null,
	"boolean": schema.Boolean,
	"int32":   schema.Int32,
	"int64":   schema.Int64,
	"float":   schema.Float,
	"double":  schema.Double,
	"bytes":   schema.Bytes,
	"string":  schema.String,
}

// Build converts a parsed File into schema.Schema nodes registered in a
// fresh NamedTypeTable, resolves every link, and returns the table along
// with the root schema for each top-level declaration, in declaration
// order. It is the bridge between the text grammar's AST and the
// core value engine's already-built schema tree. It runs in two
// passes: first register every named declaration's shell so
// forward/self references resolve, then fill in each declaration's
// body.
func Build(f *File) (*schema.NamedTypeTable, []*schema.Schema, error) {
	table := schema.NewNamedTypeTable()
	b := &builder{table: table, decls: make(map[string]Decl, len(f.Decls))}

	for _, d := range f.Decls {
		if _, dup := b.decls[d.DeclName()]; dup {
			return nil, nil, LexError(d.Pos(), "duplicate declaration %q", d.DeclName())
		}
		b.decls[d.DeclName()] = d
	}

	// Pass 1: register a shell schema.Schema for every named declaration,
	// so that a LinkRef encountered while filling in another declaration
	// (including itself, for recursive types) has something in the table
	// to resolve against.
	for _, d := range f.Decls {
		shell, err := b.shellFor(d)
		if err != nil {
			return nil, nil, err
		}
		if err := table.Define(shell); err != nil {
			return nil, nil, err
		}
	}

	// Pass 2: fill in record field types and fixed/enum bodies now that
	// every name is resolvable.
	roots := make([]*schema.Schema, 0, len(f.Decls))
	for _, d := range f.Decls {
		s, _ := table.Lookup(d.DeclName())
		if err := b.fill(d, s); err != nil {
			return nil, nil, err
		}
		roots = append(roots, s)
	}

	for _, root := range roots {
		if err := schema.Build(root, table); err != nil {
			return nil, nil, err
		}
	}
	return table, roots, nil
}

type builder struct {
	table *schema.NamedTypeTable
	decls map[string]Decl
}

// shellFor creates the declaration's schema node with its name (and, for
// fixed, its size — fixed has no nested typerefs to defer) filled in,
// but a record's fields still empty and an enum's symbols still empty;
// fill completes those in pass 2.
func (b *builder) shellFor(d Decl) (*schema.Schema, error) {
	switch decl := d.(type) {
	case *RecordDecl:
		return schema.NewRecord(decl.Name, nil), nil
	case *EnumDecl:
		return schema.NewEnum(decl.Name, nil), nil
	case *FixedDecl:
		if decl.Size <= 0 {
			return nil, LexError(decl.Position, "fixed %q: size must be positive", decl.Name)
		}
		return schema.NewFixed(decl.Name, decl.Size), nil
	default:
		return nil, fmt.Errorf("schemalang: unknown declaration type %T", d)
	}
}

func (b *builder) fill(d Decl, s *schema.Schema) error {
	switch decl := d.(type) {
	case *RecordDecl:
		fields := make([]schema.Field, 0, len(decl.Fields))
		for _, fd := range decl.Fields {
			ft, err := b.typeRef(fd.Type)
			if err != nil {
				return err
			}
			fields = append(fields, schema.Field{Name: fd.Name, Schema: ft})
		}
		*s = *schema.NewRecord(decl.Name, fields)
		return nil
	case *EnumDecl:
		*s = *schema.NewEnum(decl.Name, decl.Symbols)
		return nil
	case *FixedDecl:
		return nil // already complete from shellFor
	default:
		return fmt.Errorf("schemalang: unknown declaration type %T", d)
	}
}

func (b *builder) typeRef(t TypeRef) (*schema.Schema, error) {
	switch ref := t.(type) {
	case *PrimitiveRef:
		k, ok := primitiveKinds[ref.Name]
		if !ok {
			return nil, LexError(ref.Position, "unknown primitive type %q", ref.Name)
		}
		return schema.Primitive(k), nil
	case *ArrayRef:
		item, err := b.typeRef(ref.Item)
		if err != nil {
			return nil, err
		}
		return schema.NewArray(item), nil
	case *MapRef:
		val, err := b.typeRef(ref.Value)
		if err != nil {
			return nil, err
		}
		return schema.NewMap(val), nil
	case *UnionRef:
		branches := make([]*schema.Schema, 0, len(ref.Branches))
		for _, br := range ref.Branches {
			bs, err := b.typeRef(br)
			if err != nil {
				return nil, err
			}
			branches = append(branches, bs)
		}
		return schema.NewUnion(branches...), nil
	case *LinkRef:
		if _, ok := b.decls[ref.Name]; !ok {
			return nil, LexError(ref.Position, "reference to undeclared type %q", ref.Name)
		}
		return schema.NewLink(ref.Name), nil
	default:
		return nil, fmt.Errorf("schemalang: unknown type reference %T", t)
	}
}
