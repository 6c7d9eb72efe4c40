// Package integration verifies that the two ways of constructing a
// schema in this module — directly via pkg/value/schema's builder
// functions, and by parsing the .sval text grammar (pkg/schemalang) —
// produce byte-identical wire encodings for the same logical data, and
// that data written through the generic value representation decodes
// through both it and the specific (code-generated-layout) one, each
// re-encoding to the original bytes. The two independent paths to a schema and the two independent
// value representations are the places where silent disagreement could
// hide, so both are pinned here.
package integration

import (
	"bytes"
	"encoding/hex"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/blockberries/sval/internal/wire"
	"github.com/blockberries/sval/pkg/resolve"
	"github.com/blockberries/sval/pkg/schemalang"
	"github.com/blockberries/sval/pkg/specific"
	"github.com/blockberries/sval/pkg/value"
	"github.com/blockberries/sval/pkg/value/generic"
	"github.com/blockberries/sval/pkg/value/schema"
)

const goldenDir = "../golden"

// scalarTypesSchema declares one field per primitive kind.
func scalarTypesSchema() *schema.Schema {
	return schema.NewRecord("ScalarTypes", []schema.Field{
		{Name: "bool_val", Schema: schema.Primitive(schema.Boolean)},
		{Name: "int32_val", Schema: schema.Primitive(schema.Int32)},
		{Name: "int64_val", Schema: schema.Primitive(schema.Int64)},
		{Name: "float32_val", Schema: schema.Primitive(schema.Float)},
		{Name: "float64_val", Schema: schema.Primitive(schema.Double)},
		{Name: "string_val", Schema: schema.Primitive(schema.String)},
		{Name: "bytes_val", Schema: schema.Primitive(schema.Bytes)},
	})
}

// scalarTypesSource is the same schema expressed in .sval text, to be
// parsed by schemalang and checked for agreement with the hand-built
// version above.
const scalarTypesSource = `
record ScalarTypes {
  bool_val: boolean;
  int32_val: int32;
  int64_val: int64;
  float32_val: float;
  float64_val: double;
  string_val: string;
  bytes_val: bytes;
}
`

func setScalarTypes(v value.Value, b bool, i32 int32, i64 int64, f32 float32, f64 float64, s string, by []byte) {
	f, _ := v.GetByName("bool_val")
	_ = f.SetBool(b)
	f, _ = v.GetByName("int32_val")
	_ = f.SetInt32(i32)
	f, _ = v.GetByName("int64_val")
	_ = f.SetInt64(i64)
	f, _ = v.GetByName("float32_val")
	_ = f.SetFloat32(f32)
	f, _ = v.GetByName("float64_val")
	_ = f.SetFloat64(f64)
	f, _ = v.GetByName("string_val")
	_ = f.Give([]byte(s), nil)
	f, _ = v.GetByName("bytes_val")
	_ = f.Give(by, nil)
}

func encode(t testing.TB, v value.Value) []byte {
	w := wire.NewWriter()
	if err := resolve.Encode(w, v); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return w.Bytes()
}

// TestAPIBuiltAndParsedSchemaAgree checks that a record built directly
// with pkg/value/schema and the same record parsed from .sval text
// encode identical data to identical bytes.
func TestAPIBuiltAndParsedSchemaAgree(t *testing.T) {
	apiSchema := scalarTypesSchema()
	apiVal := generic.New(apiSchema)
	setScalarTypes(apiVal, true, -42, -9223372036854775807, 3.14159, 2.718281828459045, "hello, sval!", []byte{0xde, 0xad, 0xbe, 0xef})
	apiBytes := encode(t, apiVal)

	_, roots, err := schemalang.ParseAndBuild("scalar_types.sval", scalarTypesSource)
	if err != nil {
		t.Fatalf("ParseAndBuild: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("expected 1 parsed root, got %d", len(roots))
	}
	parsedSchema := roots[0]
	parsedVal := generic.New(parsedSchema)
	setScalarTypes(parsedVal, true, -42, -9223372036854775807, 3.14159, 2.718281828459045, "hello, sval!", []byte{0xde, 0xad, 0xbe, 0xef})
	parsedBytes := encode(t, parsedVal)

	if !bytes.Equal(apiBytes, parsedBytes) {
		t.Fatalf("API-built and parsed schema disagree:\n  api:    %s\n  parsed: %s",
			hex.EncodeToString(apiBytes), hex.EncodeToString(parsedBytes))
	}
}

// TestGenericAndSpecificDecodeAgree checks that data written via the
// generic value representation decodes identically through both the
// generic and specific representations: re-encoding the specific
// result gives the same bytes as re-encoding the generic one, which
// equal the original encoding.
func TestGenericAndSpecificDecodeAgree(t *testing.T) {
	s := scalarTypesSchema()
	layout, err := specific.Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	gv := generic.New(s)
	setScalarTypes(gv, true, -42, 123456789, 1.5, 2.5, "generic path", []byte{1, 2, 3})
	data := encode(t, gv)

	genericConsumer, err := resolve.Build(s, resolve.SchemaTarget{Reader: s}, resolve.Options{})
	if err != nil {
		t.Fatalf("Build (generic target): %v", err)
	}
	specificConsumer, err := resolve.Build(s, layout, resolve.Options{})
	if err != nil {
		t.Fatalf("Build (specific target): %v", err)
	}

	gDst := generic.New(s)
	if err := genericConsumer.Decode(wire.NewReader(data), gDst); err != nil {
		t.Fatalf("decode into generic: %v", err)
	}
	sDst := specific.New(layout)
	if err := specificConsumer.Decode(wire.NewReader(data), sDst); err != nil {
		t.Fatalf("decode into specific: %v", err)
	}

	gBack := encode(t, gDst)
	sBack := encode(t, sDst)
	if !bytes.Equal(gBack, sBack) {
		t.Fatalf("re-encoding generic vs specific decode results disagree:\n  generic:  %s\n  specific: %s",
			hex.EncodeToString(gBack), hex.EncodeToString(sBack))
	}
	if !bytes.Equal(data, gBack) {
		t.Fatalf("round trip through generic changed the encoding:\n  want: %s\n  got:  %s",
			hex.EncodeToString(data), hex.EncodeToString(gBack))
	}
}

// repeatedTypesSchema covers array fields over scalar element kinds.
func repeatedTypesSchema() *schema.Schema {
	return schema.NewRecord("RepeatedTypes", []schema.Field{
		{Name: "int32_list", Schema: schema.NewArray(schema.Primitive(schema.Int32))},
		{Name: "string_list", Schema: schema.NewArray(schema.Primitive(schema.String))},
	})
}

func TestRepeatedTypesEncodeDecode(t *testing.T) {
	s := repeatedTypesSchema()
	v := generic.New(s)

	ints, _ := v.GetByName("int32_list")
	for _, n := range []int32{1, -2, 3, -4, 5} {
		el, _ := ints.Append()
		_ = el.SetInt32(n)
	}
	strs, _ := v.GetByName("string_list")
	for _, str := range []string{"alpha", "beta", "gamma"} {
		el, _ := strs.Append()
		_ = el.Give([]byte(str), nil)
	}

	data := encode(t, v)
	t.Logf("RepeatedTypes encoded size: %d bytes", len(data))

	consumer, err := resolve.Build(s, resolve.SchemaTarget{Reader: s}, resolve.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dst := generic.New(s)
	if err := consumer.Decode(wire.NewReader(data), dst); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	dInts, _ := dst.GetByName("int32_list")
	n, _ := dInts.Size()
	if n != 5 {
		t.Fatalf("int32_list length mismatch: got %d, want 5", n)
	}
	for i, want := range []int32{1, -2, 3, -4, 5} {
		el, _ := dInts.GetByIndex(i)
		got, _ := el.GetInt32()
		if got != want {
			t.Errorf("int32_list[%d] mismatch: got %d, want %d", i, got, want)
		}
	}
}

// complexTypesSchema declares an enum, an optional nested record, a
// required nested record, a list of nested records, and a string-keyed
// map.
func complexTypesSchema() (*schema.Schema, *schema.Schema) {
	nested := schema.NewRecord("NestedMessage", []schema.Field{
		{Name: "name", Schema: schema.Primitive(schema.String)},
		{Name: "value", Schema: schema.Primitive(schema.Int32)},
	})
	status := schema.NewEnum("Status", []string{"UNKNOWN", "ACTIVE", "INACTIVE"})
	complex := schema.NewRecord("ComplexTypes", []schema.Field{
		{Name: "status", Schema: status},
		{Name: "optional_nested", Schema: schema.NewUnion(schema.Primitive(schema.Null), nested)},
		{Name: "required_nested", Schema: nested},
		{Name: "nested_list", Schema: schema.NewArray(nested)},
		{Name: "string_int_map", Schema: schema.NewMap(schema.Primitive(schema.Int32))},
	})
	return complex, nested
}

func setNested(v value.Value, name string, val int32) {
	f, _ := v.GetByName("name")
	_ = f.Give([]byte(name), nil)
	f, _ = v.GetByName("value")
	_ = f.SetInt32(val)
}

func TestComplexTypesEncodeDecode(t *testing.T) {
	s, _ := complexTypesSchema()
	v := generic.New(s)

	st, _ := v.GetByName("status")
	_ = st.SetEnum(1) // ACTIVE

	opt, _ := v.GetByName("optional_nested")
	branch, _ := opt.SetBranch(1)
	setNested(branch, "optional", 456)

	req, _ := v.GetByName("required_nested")
	setNested(req, "required", 789)

	list, _ := v.GetByName("nested_list")
	for _, pair := range []struct {
		name string
		val  int32
	}{{"first", 1}, {"second", 2}} {
		el, _ := list.Append()
		setNested(el, pair.name, pair.val)
	}

	m, _ := v.GetByName("string_int_map")
	for k, n := range map[string]int32{"one": 1, "two": 2, "three": 3} {
		el, _, _ := m.Add(k)
		_ = el.SetInt32(n)
	}

	data := encode(t, v)
	t.Logf("ComplexTypes encoded size: %d bytes", len(data))

	consumer, err := resolve.Build(s, resolve.SchemaTarget{Reader: s}, resolve.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dst := generic.New(s)
	if err := consumer.Decode(wire.NewReader(data), dst); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	dStatus, _ := dst.GetByName("status")
	idx, _ := dStatus.GetEnum()
	if idx != 1 {
		t.Errorf("status mismatch: got %d, want 1", idx)
	}

	dOpt, _ := dst.GetByName("optional_nested")
	disc, _ := dOpt.Discriminant()
	if disc != 1 {
		t.Fatal("optional_nested: expected the non-null branch active")
	}
	branch, _ = dOpt.CurrentBranch()
	name, _ := branch.GetByName("name")
	data2, release, err := name.Grab()
	if err != nil {
		t.Fatalf("Grab: %v", err)
	}
	if string(data2) != "optional" {
		t.Errorf("optional_nested.name mismatch: got %q", string(data2))
	}
	if release != nil {
		release()
	}

	dMap, _ := dst.GetByName("string_int_map")
	n, _ := dMap.Size()
	if n != 3 {
		t.Errorf("string_int_map size mismatch: got %d, want 3", n)
	}
}

func TestEdgeCasesEncodeDecode(t *testing.T) {
	s := schema.NewRecord("EdgeCases", []schema.Field{
		{Name: "zero_int", Schema: schema.Primitive(schema.Int32)},
		{Name: "negative_one", Schema: schema.Primitive(schema.Int32)},
		{Name: "max_int32", Schema: schema.Primitive(schema.Int32)},
		{Name: "min_int32", Schema: schema.Primitive(schema.Int32)},
		{Name: "max_int64", Schema: schema.Primitive(schema.Int64)},
		{Name: "min_int64", Schema: schema.Primitive(schema.Int64)},
		{Name: "empty_string", Schema: schema.Primitive(schema.String)},
		{Name: "unicode_string", Schema: schema.Primitive(schema.String)},
		{Name: "empty_bytes", Schema: schema.Primitive(schema.Bytes)},
	})
	v := generic.New(s)

	set := func(name string, n int32) {
		f, _ := v.GetByName(name)
		_ = f.SetInt32(n)
	}
	set("zero_int", 0)
	set("negative_one", -1)
	set("max_int32", math.MaxInt32)
	set("min_int32", math.MinInt32)

	f, _ := v.GetByName("max_int64")
	_ = f.SetInt64(math.MaxInt64)
	f, _ = v.GetByName("min_int64")
	_ = f.SetInt64(math.MinInt64)
	f, _ = v.GetByName("empty_string")
	_ = f.Give([]byte(""), nil)
	f, _ = v.GetByName("unicode_string")
	_ = f.Give([]byte("Hello, 世界! \U0001F389"), nil)
	f, _ = v.GetByName("empty_bytes")
	_ = f.Give([]byte{}, nil)

	data := encode(t, v)
	t.Logf("EdgeCases encoded size: %d bytes", len(data))

	consumer, err := resolve.Build(s, resolve.SchemaTarget{Reader: s}, resolve.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dst := generic.New(s)
	if err := consumer.Decode(wire.NewReader(data), dst); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	checkInt32 := func(name string, want int32) {
		f, _ := dst.GetByName(name)
		got, _ := f.GetInt32()
		if got != want {
			t.Errorf("%s mismatch: got %d, want %d", name, got, want)
		}
	}
	checkInt32("zero_int", 0)
	checkInt32("negative_one", -1)
	checkInt32("max_int32", math.MaxInt32)
	checkInt32("min_int32", math.MinInt32)

	f, _ = dst.GetByName("max_int64")
	got64, _ := f.GetInt64()
	if got64 != math.MaxInt64 {
		t.Errorf("max_int64 mismatch: got %d, want %d", got64, int64(math.MaxInt64))
	}
	f, _ = dst.GetByName("unicode_string")
	udata, release, err := f.Grab()
	if err != nil {
		t.Fatalf("Grab: %v", err)
	}
	if string(udata) != "Hello, 世界! \U0001F389" {
		t.Errorf("unicode_string mismatch: got %q", string(udata))
	}
	if release != nil {
		release()
	}
}

// TestGenerateGoldenFiles writes the current wire encoding of each
// fixture to disk, for later comparison with TestVerifyGoldenFiles.
// Run with GENERATE_GOLDEN=1 to (re)populate ../golden after a
// deliberate wire-format change.
func TestGenerateGoldenFiles(t *testing.T) {
	if os.Getenv("GENERATE_GOLDEN") != "1" {
		t.Skip("Set GENERATE_GOLDEN=1 to regenerate golden files")
	}
	if err := os.MkdirAll(goldenDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for name, data := range goldenFixtures(t) {
		path := filepath.Join(goldenDir, name+".bin")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("WriteFile %s: %v", path, err)
		}
		hexPath := filepath.Join(goldenDir, name+".hex")
		if err := os.WriteFile(hexPath, []byte(hex.EncodeToString(data)), 0o644); err != nil {
			t.Fatalf("WriteFile %s: %v", hexPath, err)
		}
		t.Logf("generated %s (%d bytes)", path, len(data))
	}
}

// TestVerifyGoldenFiles checks the current wire encoding against
// whatever was last committed to ../golden, catching accidental wire
// format drift. It skips cleanly when no golden files exist yet.
func TestVerifyGoldenFiles(t *testing.T) {
	for name, data := range goldenFixtures(t) {
		path := filepath.Join(goldenDir, name+".bin")
		golden, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			t.Skipf("golden file not found: %s (run with GENERATE_GOLDEN=1 to create)", path)
			continue
		}
		if err != nil {
			t.Fatalf("ReadFile %s: %v", path, err)
		}
		if !bytes.Equal(data, golden) {
			t.Errorf("%s: encoding mismatch\n  got:  %s\n  want: %s",
				name, hex.EncodeToString(data), hex.EncodeToString(golden))
		}
	}
}

func goldenFixtures(t *testing.T) map[string][]byte {
	scalar := generic.New(scalarTypesSchema())
	setScalarTypes(scalar, true, -42, -9223372036854775807, 3.14159, 2.718281828459045, "hello, sval!", []byte{0xde, 0xad, 0xbe, 0xef})

	repeated := generic.New(repeatedTypesSchema())
	ints, _ := repeated.GetByName("int32_list")
	for _, n := range []int32{1, -2, 3, -4, 5} {
		el, _ := ints.Append()
		_ = el.SetInt32(n)
	}

	return map[string][]byte{
		"scalar_types":   encode(t, scalar),
		"repeated_types": encode(t, repeated),
	}
}
