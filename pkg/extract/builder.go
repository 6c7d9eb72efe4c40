package extract

import (
	"fmt"
	"go/types"
	"sort"
	"strings"

	"github.com/blockberries/sval/pkg/value/schema"
)

// SchemaBuilder converts collected Go type information into this
// module's schema model: one schema.Schema per collected record/enum,
// registered in a schema.NamedTypeTable so field references resolve as
// links, plus one
// schema.NewUnion per detected interface, which has no named-type
// slot to live in (union is a structural kind, not one of the three
// named kinds per schema.Kind.IsNamed) and so is only ever referenced
// inline from whichever field has that interface type.
type SchemaBuilder struct {
	types      map[string]*TypeInfo
	interfaces map[string]*InterfaceInfo
	enums      map[string]*EnumInfo

	table *schema.NamedTypeTable
	// recordByName, enumByName and unionByIface map a bare (unqualified)
	// Go type name to its schema, for
	// resolving field references across the collected set.
	recordByName map[string]*schema.Schema
	enumByName   map[string]*schema.Schema
	unionByIface map[string]*schema.Schema

	warnings []string
}

// NewSchemaBuilder creates a new schema builder.
func NewSchemaBuilder(types map[string]*TypeInfo, interfaces map[string]*InterfaceInfo, enums map[string]*EnumInfo) *SchemaBuilder {
	return &SchemaBuilder{
		types:        types,
		interfaces:   interfaces,
		enums:        enums,
		table:        schema.NewNamedTypeTable(),
		recordByName: make(map[string]*schema.Schema),
		enumByName:   make(map[string]*schema.Schema),
		unionByIface: make(map[string]*schema.Schema),
	}
}

// Warnings returns any warnings generated during schema building.
func (b *SchemaBuilder) Warnings() []string { return b.warnings }

func (b *SchemaBuilder) addWarning(msg string) {
	b.warnings = append(b.warnings, msg)
}

// ExtractedSchema is the result of Build: the named-type table every
// record/enum was registered in, and the records in declaration order
// (the roots a .sval printer or resolve.Build call needs).
type ExtractedSchema struct {
	Table   *schema.NamedTypeTable
	Records []*schema.Schema
	Enums   []*schema.Schema
	// Unions maps an interface's bare name to the union schema built
	// from its implementations, for callers that want to print or
	// resolve against that interface's wire shape directly.
	Unions map[string]*schema.Schema
}

// Build constructs schema.Schema nodes from the collected types. The
// packageName is carried only as a doc-comment hint for printers; this
// schema model has no package concept of its own (there is no
// namespace above a named type).
func (b *SchemaBuilder) Build(packageName string) (*ExtractedSchema, error) {
	var enumNames []string
	for name := range b.enums {
		enumNames = append(enumNames, name)
	}
	sort.Strings(enumNames)

	var enumSchemas []*schema.Schema
	for _, qname := range enumNames {
		e := b.enums[qname]
		values := make([]*EnumValueInfo, len(e.Values))
		copy(values, e.Values)
		sort.Slice(values, func(i, j int) bool { return values[i].Number < values[j].Number })

		symbols := make([]string, len(values))
		for i, v := range values {
			symbols[i] = v.Name
		}
		if len(symbols) == 0 {
			// An enum type with no discovered constants can't satisfy
			// the at-least-one-symbol invariant; skip it with a
			// warning rather than emit an unbuildable schema.
			b.addWarning(fmt.Sprintf("enum %q has no constant values, skipping", e.Name))
			continue
		}
		s := schema.NewEnum(e.Name, symbols)
		if err := b.table.Define(s); err != nil {
			return nil, err
		}
		b.enumByName[e.Name] = s
		enumSchemas = append(enumSchemas, s)
	}

	var typeNames []string
	for name := range b.types {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	// Pass 1: register a shell record for every collected struct, so that
	// a field referencing a record later in sort order (or the record
	// itself) resolves to a link instead of degrading to an opaque type.
	var recordSchemas []*schema.Schema
	for _, qname := range typeNames {
		typ := b.types[qname]
		s := schema.NewRecord(typ.Name, nil)
		if err := b.table.Define(s); err != nil {
			return nil, err
		}
		b.recordByName[typ.Name] = s
		recordSchemas = append(recordSchemas, s)
	}

	// Interface unions next: goTypeToSchema consults unionByIface while
	// filling record fields, and the union's branches are links that only
	// need the shells above to exist.
	var ifaceNames []string
	for name := range b.interfaces {
		ifaceNames = append(ifaceNames, name)
	}
	sort.Strings(ifaceNames)

	for _, qname := range ifaceNames {
		iface := b.interfaces[qname]
		if len(iface.Implementations) == 0 {
			continue
		}
		impls := make([]*TypeInfo, len(iface.Implementations))
		copy(impls, iface.Implementations)
		sort.Slice(impls, func(i, j int) bool { return impls[i].Name < impls[j].Name })

		var branches []*schema.Schema
		for _, impl := range impls {
			if _, ok := b.recordByName[impl.Name]; !ok {
				continue
			}
			branches = append(branches, schema.NewLink(impl.Name))
		}
		if len(branches) == 0 {
			continue
		}
		b.unionByIface[iface.Name] = schema.NewUnion(branches...)
	}

	// Pass 2: fill in each record's fields now that every name resolves.
	for i, qname := range typeNames {
		typ := b.types[qname]
		fields := make([]schema.Field, 0, len(typ.Fields))
		seen := make(map[string]bool, len(typ.Fields))
		for _, f := range typ.Fields {
			name := f.Name
			if f.Tag != nil && f.Tag.Name != "" {
				name = f.Tag.Name
			}
			name = toSnakeCase(name)
			if seen[name] {
				b.addWarning(fmt.Sprintf("type %q: duplicate field name %q after conversion, keeping first", typ.Name, name))
				continue
			}
			seen[name] = true

			// goTypeToSchema already wraps a Go pointer field in
			// union{null, T} (the *types.Pointer case), so no extra
			// wrapping is needed here even though FieldInfo.Optional also
			// records pointer-ness for callers that want it directly.
			fieldSchema := b.goTypeToSchema(f.GoType)
			fields = append(fields, schema.Field{Name: name, Schema: fieldSchema})
		}

		*recordSchemas[i] = *schema.NewRecord(typ.Name, fields)
	}

	for _, s := range recordSchemas {
		if err := schema.Build(s, b.table); err != nil {
			return nil, fmt.Errorf("building %q: %w", s.Name(), err)
		}
	}
	for name, u := range b.unionByIface {
		if err := schema.Build(u, b.table); err != nil {
			return nil, fmt.Errorf("building interface %q: %w", name, err)
		}
	}

	_ = packageName
	return &ExtractedSchema{
		Table:   b.table,
		Records: recordSchemas,
		Enums:   enumSchemas,
		Unions:  b.unionByIface,
	}, nil
}

// goTypeToSchema maps a reflected Go type to a schema.Schema. Named
// record/enum references become schema.NewLink nodes, resolved once
// every declaration has been registered (schema.Build, called at the
// end of Build), which is what lets two records refer to each other
// (or a record refer to itself) regardless of collection order.
func (b *SchemaBuilder) goTypeToSchema(t types.Type) *schema.Schema {
	if ptr, ok := t.(*types.Pointer); ok {
		elem := b.goTypeToSchema(ptr.Elem())
		return schema.NewUnion(schema.Primitive(schema.Null), elem)
	}

	if named, ok := t.(*types.Named); ok {
		name := named.Obj().Name()
		if _, isRecord := b.recordByName[name]; isRecord {
			return schema.NewLink(name)
		}
		if _, isEnum := b.enumByName[name]; isEnum {
			return schema.NewLink(name)
		}
		if u, isIface := b.unionByIface[name]; isIface {
			return u
		}
		return b.goTypeToSchema(named.Underlying())
	}

	if basic, ok := t.(*types.Basic); ok {
		return b.basicTypeToSchema(basic)
	}

	if slice, ok := t.(*types.Slice); ok {
		if basic, ok := slice.Elem().(*types.Basic); ok && basic.Kind() == types.Byte {
			return schema.Primitive(schema.Bytes)
		}
		return schema.NewArray(b.goTypeToSchema(slice.Elem()))
	}

	if arr, ok := t.(*types.Array); ok {
		if basic, ok := arr.Elem().(*types.Basic); ok && basic.Kind() == types.Byte {
			return schema.Primitive(schema.Bytes)
		}
		return schema.NewArray(b.goTypeToSchema(arr.Elem()))
	}

	if mp, ok := t.(*types.Map); ok {
		if key, ok := mp.Key().(*types.Basic); !ok || key.Kind() != types.String {
			b.addWarning("map key type is not a Go string; schema maps are always string-keyed, coercing")
		}
		return schema.NewMap(b.goTypeToSchema(mp.Elem()))
	}

	if _, ok := t.(*types.Interface); ok {
		// An interface type with no known implementations can't become a
		// union with at least one branch; fall back to an opaque byte
		// payload rather than fail the whole extraction.
		b.addWarning(fmt.Sprintf("interface type %q has no detected implementations, mapping to bytes", t.String()))
		return schema.Primitive(schema.Bytes)
	}

	return schema.Primitive(schema.Bytes)
}

func (b *SchemaBuilder) basicTypeToSchema(t *types.Basic) *schema.Schema {
	switch t.Kind() {
	case types.Bool:
		return schema.Primitive(schema.Boolean)
	case types.Int8, types.Int16, types.Int32:
		return schema.Primitive(schema.Int32)
	case types.Int:
		b.addWarning("type 'int' is platform-dependent (32 or 64 bits); mapped to int64 for safety")
		return schema.Primitive(schema.Int64)
	case types.Int64:
		return schema.Primitive(schema.Int64)
	case types.Uint8, types.Uint16:
		return schema.Primitive(schema.Int32)
	case types.Uint, types.Uint32:
		b.addWarning("type 'uint'/'uint32' has no signed equivalent of matching width; widened to int64 to avoid truncation")
		return schema.Primitive(schema.Int64)
	case types.Uint64:
		b.addWarning("type 'uint64' may not fit in this format's signed int64 primitive for values above math.MaxInt64")
		return schema.Primitive(schema.Int64)
	case types.Float32:
		return schema.Primitive(schema.Float)
	case types.Float64:
		return schema.Primitive(schema.Double)
	case types.String:
		return schema.Primitive(schema.String)
	default:
		return schema.Primitive(schema.Bytes)
	}
}

// toSnakeCase converts CamelCase to snake_case.
// It properly handles runs of uppercase letters (e.g., "HTTPServer" -> "http_server").
func toSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				prev := runes[i-1]
				isLowerPrev := prev >= 'a' && prev <= 'z'
				isUpperNext := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
				if isLowerPrev || isUpperNext {
					result.WriteByte('_')
				}
			}
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
