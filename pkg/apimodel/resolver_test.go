package apimodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bindinfo/pkg/apimodel"
	"github.com/Sumatoshi-tech/bindinfo/pkg/cdecl"
)

func named(names ...string) *cdecl.TypeDecl { return &cdecl.TypeDecl{Names: names} }

func ptr(t cdecl.Type) *cdecl.PtrDecl { return &cdecl.PtrDecl{Type: t} }

func TestResolve_NamedTypes(t *testing.T) {
	t.Parallel()

	resolver := apimodel.NewResolver(apimodel.DefaultOutputMarker)

	info, err := resolver.Resolve(named("unsigned", "int"))
	require.NoError(t, err)
	assert.Equal(t, apimodel.NamedType("unsigned int"), info.Base)
	assert.Equal(t, 0, info.Indirection)

	info, err = resolver.Resolve(ptr(ptr(named("char"))))
	require.NoError(t, err)
	assert.Equal(t, apimodel.NamedType("char"), info.Base)
	assert.Equal(t, 2, info.Indirection)
	assert.Equal(t, "char**", info.String())
}

func TestResolve_CallbackTypedef(t *testing.T) {
	t.Parallel()

	// typedef int (*Callback)(int);
	unit := &cdecl.TranslationUnit{Items: []cdecl.External{
		&cdecl.Typedef{Name: "Callback", Type: ptr(&cdecl.FuncDecl{
			Return: named("int"),
			Params: []cdecl.Param{{Type: named("int")}},
		})},
	}}

	typedefs, err := apimodel.NewResolver(apimodel.DefaultOutputMarker).ExtractTypedefs(unit)
	require.NoError(t, err)

	info, ok := typedefs.Get("Callback")
	require.True(t, ok)
	assert.Equal(t, 1, info.Indirection)
	assert.True(t, info.IsFunctionPointer())

	fn, ok := info.Base.(*apimodel.FunctionInfo)
	require.True(t, ok)
	assert.Empty(t, fn.Name)
	assert.True(t, fn.ReturnType.Equal(apimodel.TypeInfo{Base: apimodel.NamedType("int")}))

	args := fn.Args()
	require.Len(t, args, 1)
	assert.True(t, args[0].Type.Equal(apimodel.TypeInfo{Base: apimodel.NamedType("int")}))
	assert.Equal(t, "int (*)(int)", info.String())
}

func TestResolveFunction_NoParameterList(t *testing.T) {
	t.Parallel()

	resolver := apimodel.NewResolver(apimodel.DefaultOutputMarker)

	fn, err := resolver.ResolveFunction(&cdecl.FuncDecl{Return: named("void")}, "f")
	require.NoError(t, err)
	assert.Empty(t, fn.Args())

	fn, err = resolver.ResolveFunction(&cdecl.FuncDecl{
		Return: named("void"),
		Params: []cdecl.Param{{Type: named("void")}},
	}, "g")
	require.NoError(t, err)
	assert.Empty(t, fn.Args(), "a lone void parameter means no parameters")
}

func TestResolve_FunctionReturningFunctionPointer(t *testing.T) {
	t.Parallel()

	// void (*get_handler(int id))(float);
	inner := &cdecl.FuncDecl{Return: named("void"), Params: []cdecl.Param{{Type: named("float")}}}
	outer := &cdecl.FuncDecl{Return: ptr(inner), Params: []cdecl.Param{{Name: "id", Type: named("int")}}}

	fn, err := apimodel.NewResolver(apimodel.DefaultOutputMarker).ResolveFunction(outer, "get_handler")
	require.NoError(t, err)

	assert.Equal(t, 1, fn.ReturnType.Indirection)

	handler, ok := fn.ReturnType.Base.(*apimodel.FunctionInfo)
	require.True(t, ok)
	assert.Equal(t, apimodel.NamedType("void"), handler.ReturnType.Base)
}

func TestResolve_UnsupportedShapes(t *testing.T) {
	t.Parallel()

	resolver := apimodel.NewResolver(apimodel.DefaultOutputMarker)

	cases := map[string]cdecl.Type{
		"array":       &cdecl.Unsupported{Kind: "array_declarator", Text: "x[4]"},
		"enum_body":   &cdecl.Enum{Name: "Inline"},
		"nil":         nil,
		"empty_names": named(),
		"ptr_to_bad":  ptr(&cdecl.Unsupported{Kind: "struct_specifier"}),
		"bad_param": &cdecl.FuncDecl{Return: named("int"), Params: []cdecl.Param{
			{Name: "rest", Type: &cdecl.Unsupported{Kind: "variadic_parameter", Text: "..."}},
		}},
	}

	for name, node := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := resolver.Resolve(node)
			require.ErrorIs(t, err, cdecl.ErrUnsupportedConstruct)
		})
	}
}

func TestFunctionInfo_PartitionsByOutputMarker(t *testing.T) {
	t.Parallel()

	// void f(int a, float* destination_out);
	unit := &cdecl.TranslationUnit{Items: []cdecl.External{
		&cdecl.Decl{Name: "f", Type: &cdecl.FuncDecl{
			Return: named("void"),
			Params: []cdecl.Param{
				{Name: "a", Type: named("int")},
				{Name: "destination_out", Type: ptr(named("float"))},
			},
		}},
	}}

	functions, err := apimodel.NewResolver(apimodel.DefaultOutputMarker).ExtractFunctions(unit)
	require.NoError(t, err)

	fn, ok := functions.Get("f")
	require.True(t, ok)

	assert.Equal(t, []string{"a"}, paramNames(fn.InputArgs()))
	assert.Equal(t, []string{"destination_out"}, paramNames(fn.OutputArgs()))
	assert.Equal(t, []string{"a", "destination_out"}, paramNames(fn.Args()))
	assert.Equal(t, "void f(int a, float* destination_out)", fn.String())
}

func TestFunctionInfo_PartitionIsDisjointCoverInOrder(t *testing.T) {
	t.Parallel()

	args := []apimodel.ParameterInfo{
		{Name: "handle", Type: apimodel.TypeInfo{Base: apimodel.NamedType("int")}},
		{Name: "destination1", Type: apimodel.TypeInfo{Base: apimodel.NamedType("int"), Indirection: 1}},
		{Name: "index", Type: apimodel.TypeInfo{Base: apimodel.NamedType("int")}},
		{Name: "destination2", Type: apimodel.TypeInfo{Base: apimodel.NamedType("float"), Indirection: 1}},
	}

	fn := apimodel.NewFunctionInfo(apimodel.TypeInfo{Base: apimodel.NamedType("int")}, "g", args, apimodel.DefaultOutputMarker)

	assert.Equal(t, []string{"handle", "index"}, paramNames(fn.InputArgs()))
	assert.Equal(t, []string{"destination1", "destination2"}, paramNames(fn.OutputArgs()))
	assert.Len(t, fn.Args(), len(fn.InputArgs())+len(fn.OutputArgs()))

	args[0].Name = "mutated"
	assert.Equal(t, "handle", fn.Args()[0].Name, "the argument tuple is copied at construction")

	returned := fn.Args()
	returned[1].Name = "mutated"
	assert.Equal(t, "destination1", fn.Args()[1].Name)
}

func TestTypeInfo_Equal(t *testing.T) {
	t.Parallel()

	intType := apimodel.TypeInfo{Base: apimodel.NamedType("int")}
	fnA := apimodel.NewFunctionInfo(intType, "", []apimodel.ParameterInfo{{Type: intType}}, "")
	fnB := apimodel.NewFunctionInfo(intType, "", []apimodel.ParameterInfo{{Type: intType}}, "")
	fnC := apimodel.NewFunctionInfo(intType, "", nil, "")

	assert.True(t, apimodel.TypeInfo{Base: fnA, Indirection: 1}.Equal(apimodel.TypeInfo{Base: fnB, Indirection: 1}))
	assert.False(t, apimodel.TypeInfo{Base: fnA, Indirection: 1}.Equal(apimodel.TypeInfo{Base: fnC, Indirection: 1}))
	assert.False(t, intType.Equal(apimodel.TypeInfo{Base: apimodel.NamedType("int"), Indirection: 1}))
	assert.False(t, intType.Equal(apimodel.TypeInfo{Base: fnA}))
}

func paramNames(params []apimodel.ParameterInfo) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}

	return names
}
