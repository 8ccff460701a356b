package cparse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bindinfo/pkg/cdecl"
	"github.com/Sumatoshi-tech/bindinfo/pkg/cparse"
)

const header = `# 1 "binding.h"
typedef unsigned int Handle;
typedef int (*Callback)(int);
enum Color { RED, GREEN = 5, BLUE = -3 };
int get_value(Handle h, const char* name, float* destination);
void f(void);
void g();
typedef enum { X, Y } Anon;
void (*get_handler(int id))(float);
typedef struct Opaque Opaque;
struct Hidden { int x; };
`

func parse(t *testing.T, src string) *cdecl.TranslationUnit {
	t.Helper()

	unit, err := cparse.New().Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	return unit
}

type item struct {
	kind string
	name string
	desc string
}

func summarize(unit *cdecl.TranslationUnit) []item {
	out := make([]item, 0, len(unit.Items))

	for _, ext := range unit.Items {
		switch node := ext.(type) {
		case *cdecl.Decl:
			out = append(out, item{kind: "decl", name: node.Name, desc: cdecl.Describe(node.Type)})
		case *cdecl.Typedef:
			out = append(out, item{kind: "typedef", name: node.Name, desc: cdecl.Describe(node.Type)})
		}
	}

	return out
}

func TestParse_LowersDeclarations(t *testing.T) {
	t.Parallel()

	unit := parse(t, header)

	assert.Equal(t, []item{
		{kind: "typedef", name: "Handle", desc: "unsigned int"},
		{kind: "typedef", name: "Callback", desc: "int(int)*"},
		{kind: "decl", desc: "enum Color"},
		{kind: "decl", name: "get_value", desc: "int(Handle, char*, float*)"},
		{kind: "decl", name: "f", desc: "void(void)"},
		{kind: "decl", name: "g", desc: "void()"},
		{kind: "decl", desc: "enum Anon"},
		{kind: "typedef", name: "Anon", desc: "enum Anon"},
		{kind: "decl", name: "get_handler", desc: "void(float)*(int)"},
		{kind: "typedef", name: "Opaque", desc: "struct Opaque"},
	}, summarize(unit))
}

func TestParse_FunctionParameters(t *testing.T) {
	t.Parallel()

	unit := parse(t, "int get_value(Handle h, float* destination);\nvoid g();\n")
	require.Len(t, unit.Items, 2)

	decl, ok := unit.Items[0].(*cdecl.Decl)
	require.True(t, ok)

	fn, ok := decl.Type.(*cdecl.FuncDecl)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "h", fn.Params[0].Name)
	assert.Equal(t, "destination", fn.Params[1].Name)

	noList, ok := unit.Items[1].(*cdecl.Decl).Type.(*cdecl.FuncDecl)
	require.True(t, ok)
	assert.Nil(t, noList.Params)
}

func TestParse_EnumeratorValues(t *testing.T) {
	t.Parallel()

	unit := parse(t, "enum Color { RED, GREEN = 5, BLUE = -3, MASK = 1 << 2, HEX = (0x10) };\n")
	require.Len(t, unit.Items, 1)

	enum, ok := unit.Items[0].(*cdecl.Decl).Type.(*cdecl.Enum)
	require.True(t, ok)
	assert.Equal(t, "Color", enum.Name)

	values := make(map[string]string, len(enum.Enumerators))
	for _, e := range enum.Enumerators {
		values[e.Name] = cdecl.DescribeExpr(e.Value)
	}

	assert.Equal(t, "<implicit>", values["RED"])
	assert.Equal(t, "5", values["GREEN"])
	assert.Equal(t, "-3", values["BLUE"])
	assert.Equal(t, `<binary_expression "1 << 2">`, values["MASK"])
	assert.Equal(t, "0x10", values["HEX"])

	neg, ok := enum.Enumerators[2].Value.(*cdecl.UnaryOp)
	require.True(t, ok)
	assert.Equal(t, "-", neg.Op)
	assert.Equal(t, &cdecl.Constant{Value: "3"}, neg.Operand)
}

func TestParse_UnsupportedShapesAreKept(t *testing.T) {
	t.Parallel()

	unit := parse(t, "typedef int Vec[4];\nint printf(const char* fmt, ...);\n")
	require.Len(t, unit.Items, 2)

	vec, ok := unit.Items[0].(*cdecl.Typedef)
	require.True(t, ok)
	assert.Equal(t, "Vec", vec.Name)

	arr, ok := vec.Type.(*cdecl.Unsupported)
	require.True(t, ok)
	assert.Equal(t, "array_declarator", arr.Kind)

	fn, ok := unit.Items[1].(*cdecl.Decl).Type.(*cdecl.FuncDecl)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	assert.IsType(t, &cdecl.Unsupported{}, fn.Params[1].Type)
}

func TestParse_RejectsSyntaxErrors(t *testing.T) {
	t.Parallel()

	_, err := cparse.New().Parse(context.Background(), []byte("typedef int @@ Broken;\n"))
	require.ErrorIs(t, err, cparse.ErrUnparsable)
	assert.Contains(t, err.Error(), "line 1")
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	unit := parse(t, "")
	assert.Empty(t, unit.Items)
}
