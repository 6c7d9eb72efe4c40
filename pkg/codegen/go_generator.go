package codegen

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/blockberries/sval/pkg/value/schema"
)

// Generate renders Go source for every record/enum/fixed declaration in
// roots into w. source is the original .sval text, embedded verbatim so
// the generated file rebuilds its own schema.Schema tree at init time
// via pkg/schemalang instead of re-deriving a separate schema-
// construction expression emitter. sourceFilename names it only for
// error messages raised at that init-time parse.
//
// Most of the per-declaration Go source is assembled directly in Go
// (genRecord/genEnum/genFixed below) rather than inside the template:
// a field's accessor methods vary enough by kind (scalar get/set,
// bytes Grab/Give, enum index, or a raw value.Value passthrough for
// array/map/record/union) that building each as its own string is
// simpler to get right than deeply nested template conditionals.
func Generate(w io.Writer, pkgName, sourceFilename, source string, roots []*schema.Schema, opts Options) error {
	if pkgName == "" {
		pkgName = "generated"
	}

	var body strings.Builder
	for _, root := range roots {
		var err error
		var decl string
		switch root.Kind() {
		case schema.Record:
			decl, err = genRecord(root, opts)
		case schema.Enum:
			decl, err = genEnum(root, opts)
		case schema.Fixed:
			decl, err = genFixed(root, opts)
		default:
			err = &GeneratorError{TypeName: root.Name(), Message: "unsupported top-level declaration kind " + root.Kind().String()}
		}
		if err != nil {
			return err
		}
		body.WriteString(decl)
		body.WriteString("\n")
	}

	tmpl, err := template.New("go").Funcs(template.FuncMap{"quote": strconv.Quote}).Parse(goHeaderTemplate)
	if err != nil {
		return fmt.Errorf("codegen: parsing header template: %w", err)
	}
	if err := tmpl.Execute(w, struct {
		Package        string
		SourceFilename string
		Source         string
	}{pkgName, sourceFilename, source}); err != nil {
		return err
	}
	_, err = io.WriteString(w, body.String())
	return err
}

const goHeaderTemplate = `// Code generated by svalc generate. DO NOT EDIT.

package {{.Package}}

import (
	"sync"

	"github.com/blockberries/sval/pkg/resolve"
	"github.com/blockberries/sval/pkg/schemalang"
	"github.com/blockberries/sval/pkg/specific"
	"github.com/blockberries/sval/pkg/value"
	"github.com/blockberries/sval/pkg/value/schema"
)

// Reference the imports unconditionally; a schema with only enum or
// fixed declarations otherwise generates no code that uses them.
var (
	_ resolve.Options
	_ value.Value
	_ = specific.Compile
	_ = schema.Primitive
)

const sourceFilename = {{quote .SourceFilename}}
const schemaSource = {{quote .Source}}

var (
	rootsOnce   sync.Once
	rootsByName map[string]*schema.Schema
	rootsErr    error
)

func roots() (map[string]*schema.Schema, error) {
	rootsOnce.Do(func() {
		_, rs, err := schemalang.ParseAndBuild(sourceFilename, schemaSource)
		if err != nil {
			rootsErr = err
			return
		}
		rootsByName = make(map[string]*schema.Schema, len(rs))
		for _, r := range rs {
			rootsByName[r.Name()] = r
		}
	})
	return rootsByName, rootsErr
}

func mustRoot(name string) *schema.Schema {
	rs, err := roots()
	if err != nil {
		panic(err)
	}
	s, ok := rs[name]
	if !ok {
		panic("codegen: no such declaration: " + name)
	}
	return s
}
`

func goTypeName(opts Options, schemaName string) string {
	return opts.TypePrefix + ToPascalCase(schemaName)
}

func genRecord(s *schema.Schema, opts Options) (string, error) {
	name := goTypeName(opts, s.Name())
	var b strings.Builder

	fmt.Fprintf(&b, "var (\n\t%sLayoutOnce sync.Once\n\t%sLayoutVal  *specific.Layout\n)\n\n", name, name)
	fmt.Fprintf(&b, "// %sLayout returns the compiled layout for %q, compiling it on first use.\n", name, s.Name())
	fmt.Fprintf(&b, "func %sLayout() *specific.Layout {\n", name)
	fmt.Fprintf(&b, "\t%sLayoutOnce.Do(func() {\n", name)
	fmt.Fprintf(&b, "\t\tl, err := specific.Compile(mustRoot(%s))\n", strconv.Quote(s.Name()))
	b.WriteString("\t\tif err != nil {\n\t\t\tpanic(err)\n\t\t}\n")
	fmt.Fprintf(&b, "\t\t%sLayoutVal = l\n\t})\n", name)
	fmt.Fprintf(&b, "\treturn %sLayoutVal\n}\n\n", name)

	fmt.Fprintf(&b, "// %s is a generated specific type backed by pkg/specific.\n", name)
	fmt.Fprintf(&b, "type %s struct {\n\tvalue.Value\n}\n\n", name)

	fmt.Fprintf(&b, "// New%s allocates a fresh, zero-valued %s.\n", name, name)
	fmt.Fprintf(&b, "func New%s() %s {\n\treturn %s{Value: specific.New(%sLayout())}\n}\n\n", name, name, name, name)

	fmt.Fprintf(&b, "// Done tears down nested allocations.\n")
	fmt.Fprintf(&b, "func (v %s) Done() { v.State.(*specific.Instance).Done() }\n\n", name)
	fmt.Fprintf(&b, "// Clear empties the value, retaining backing storage for reuse.\n")
	fmt.Fprintf(&b, "func (v %s) Clear() { v.State.(*specific.Instance).Clear() }\n\n", name)
	fmt.Fprintf(&b, "// Equal reports structural equality with other.\n")
	fmt.Fprintf(&b, "func (v %s) Equal(other %s) bool {\n\treturn v.State.(*specific.Instance).Equal(other.State.(*specific.Instance))\n}\n\n", name, name)

	fmt.Fprintf(&b, "// %sResolverNew compiles a resolver decoding writer-schema data directly into a %s's layout.\n", name, name)
	fmt.Fprintf(&b, "func %sResolverNew(writer *schema.Schema, opts resolve.Options) (resolve.Consumer, error) {\n\treturn %sLayout().NewResolver(writer, opts)\n}\n\n", name, name)

	for i := 0; i < s.FieldCount(); i++ {
		f := s.FieldAt(i)
		fieldSrc, err := genFieldAccessors(name, f)
		if err != nil {
			return "", err
		}
		b.WriteString(fieldSrc)
	}

	return b.String(), nil
}

func genFieldAccessors(recvType string, f schema.Field) (string, error) {
	goName := ToPascalCase(f.Name)
	var b strings.Builder

	scalar := func(goType, getOp, setOp string) {
		zero := "0"
		if goType == "bool" {
			zero = "false"
		}
		fmt.Fprintf(&b, "func (v %s) %s() (%s, error) {\n\tf, err := v.GetByName(%s)\n\tif err != nil {\n\t\treturn %s, err\n\t}\n\treturn f.%s()\n}\n\n",
			recvType, goName, goType, strconv.Quote(f.Name), zero, getOp)
		fmt.Fprintf(&b, "func (v %s) Set%s(val %s) error {\n\tf, err := v.GetByName(%s)\n\tif err != nil {\n\t\treturn err\n\t}\n\treturn f.%s(val)\n}\n\n",
			recvType, goName, goType, strconv.Quote(f.Name), setOp)
	}

	switch f.Schema.Resolve().Kind() {
	case schema.Boolean:
		scalar("bool", "GetBool", "SetBool")
	case schema.Int32:
		scalar("int32", "GetInt32", "SetInt32")
	case schema.Int64:
		scalar("int64", "GetInt64", "SetInt64")
	case schema.Float:
		scalar("float32", "GetFloat32", "SetFloat32")
	case schema.Double:
		scalar("float64", "GetFloat64", "SetFloat64")
	case schema.Bytes, schema.String:
		fmt.Fprintf(&b, "func (v %s) %s() ([]byte, error) {\n\tf, err := v.GetByName(%s)\n\tif err != nil {\n\t\treturn nil, err\n\t}\n\tdata, _, err := f.Grab()\n\treturn data, err\n}\n\n",
			recvType, goName, strconv.Quote(f.Name))
		fmt.Fprintf(&b, "func (v %s) Set%s(data []byte) error {\n\tf, err := v.GetByName(%s)\n\tif err != nil {\n\t\treturn err\n\t}\n\treturn f.Give(data, nil)\n}\n\n",
			recvType, goName, strconv.Quote(f.Name))
	case schema.Fixed:
		fmt.Fprintf(&b, "func (v %s) %s() ([]byte, error) {\n\tf, err := v.GetByName(%s)\n\tif err != nil {\n\t\treturn nil, err\n\t}\n\treturn f.GetFixed()\n}\n\n",
			recvType, goName, strconv.Quote(f.Name))
		fmt.Fprintf(&b, "func (v %s) Set%s(data []byte) error {\n\tf, err := v.GetByName(%s)\n\tif err != nil {\n\t\treturn err\n\t}\n\treturn f.SetFixed(data)\n}\n\n",
			recvType, goName, strconv.Quote(f.Name))
	case schema.Enum:
		fmt.Fprintf(&b, "func (v %s) %s() (int, error) {\n\tf, err := v.GetByName(%s)\n\tif err != nil {\n\t\treturn 0, err\n\t}\n\treturn f.GetEnum()\n}\n\n",
			recvType, goName, strconv.Quote(f.Name))
		fmt.Fprintf(&b, "func (v %s) Set%s(index int) error {\n\tf, err := v.GetByName(%s)\n\tif err != nil {\n\t\treturn err\n\t}\n\treturn f.SetEnum(index)\n}\n\n",
			recvType, goName, strconv.Quote(f.Name))
	default:
		// array, map, record, union, null: exposed as a raw value.Value
		// passthrough, since their shape isn't one scalar Go type.
		fmt.Fprintf(&b, "// %sValue returns the raw value.Value handle for the %q field (kind %s).\n", goName, f.Name, f.Schema.Resolve().Kind())
		fmt.Fprintf(&b, "func (v %s) %sValue() (value.Value, error) {\n\treturn v.GetByName(%s)\n}\n\n",
			recvType, goName, strconv.Quote(f.Name))
	}
	return b.String(), nil
}

func genEnum(s *schema.Schema, opts Options) (string, error) {
	name := goTypeName(opts, s.Name())
	var b strings.Builder
	fmt.Fprintf(&b, "// %s is the generated Go type for the %q enum.\n", name, s.Name())
	fmt.Fprintf(&b, "type %s int\n\n", name)
	b.WriteString("const (\n")
	prefix := ToUpperSnakeCase(s.Name())
	for i := 0; i < s.EnumSymbolCount(); i++ {
		fmt.Fprintf(&b, "\t%s_%s %s = %d\n", prefix, ToUpperSnakeCase(s.EnumSymbolName(i)), name, i)
	}
	b.WriteString(")\n")
	return b.String(), nil
}

func genFixed(s *schema.Schema, opts Options) (string, error) {
	name := goTypeName(opts, s.Name())
	var b strings.Builder
	fmt.Fprintf(&b, "// %s is the generated Go type for the %q fixed(%d) type.\n", name, s.Name(), s.FixedSize())
	fmt.Fprintf(&b, "type %s [%d]byte\n", name, s.FixedSize())
	return b.String(), nil
}
