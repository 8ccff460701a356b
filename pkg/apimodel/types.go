// Package apimodel builds a language-agnostic model of a C API surface
// (functions, typedefs, enumerations, constants) from a cdecl translation
// unit and reconciles it with the metadata document.
package apimodel

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// DefaultOutputMarker is the parameter-name substring that marks an out-parameter.
const DefaultOutputMarker = "destination"

// Base is the non-pointer end of a type chain: a NamedType or a *FunctionInfo.
type Base interface {
	isBase()
	fmt.Stringer
}

// NamedType is a primitive or typedef name, with multi-token names space-joined.
type NamedType string

func (NamedType) isBase() {}

// String returns the type name.
func (n NamedType) String() string { return string(n) }

// TypeInfo is "Indirection pointers to Base".
type TypeInfo struct {
	Base        Base `json:"base"        yaml:"base"`
	Indirection int  `json:"indirection" yaml:"indirection"`
}

// Equal reports structural equality.
func (ti TypeInfo) Equal(other TypeInfo) bool {
	if ti.Indirection != other.Indirection {
		return false
	}

	return baseEqual(ti.Base, other.Base)
}

// IsFunctionPointer reports whether the base is a function signature.
func (ti TypeInfo) IsFunctionPointer() bool {
	_, ok := ti.Base.(*FunctionInfo)

	return ok
}

// String renders the type in a C-like form, e.g. "char*" or "int (*)(int)".
func (ti TypeInfo) String() string {
	stars := strings.Repeat("*", ti.Indirection)

	fn, ok := ti.Base.(*FunctionInfo)
	if !ok {
		if ti.Base == nil {
			return "<nil>" + stars
		}

		return ti.Base.String() + stars
	}

	return fmt.Sprintf("%s (%s)(%s)", fn.ReturnType, stars, fn.paramList())
}

func baseEqual(a, b Base) bool {
	switch av := a.(type) {
	case NamedType:
		bv, ok := b.(NamedType)

		return ok && av == bv
	case *FunctionInfo:
		bv, ok := b.(*FunctionInfo)

		return ok && av.Equal(bv)
	default:
		return a == nil && b == nil
	}
}

// ParameterInfo is one function parameter.
type ParameterInfo struct {
	Name string   `json:"name" yaml:"name"`
	Type TypeInfo `json:"type" yaml:"type"`
}

// FunctionInfo describes a function signature. The parameter tuple is fixed at
// construction; InputArgs and OutputArgs partition it by the output marker.
type FunctionInfo struct {
	ReturnType TypeInfo
	Name       string

	args       []ParameterInfo
	inputArgs  []ParameterInfo
	outputArgs []ParameterInfo
}

// NewFunctionInfo builds a FunctionInfo. Parameters whose name contains
// outputMarker are output parameters; all others are inputs.
func NewFunctionInfo(returnType TypeInfo, name string, args []ParameterInfo, outputMarker string) *FunctionInfo {
	fn := &FunctionInfo{
		ReturnType: returnType,
		Name:       name,
		args:       slices.Clone(args),
	}

	for _, arg := range fn.args {
		if outputMarker != "" && strings.Contains(arg.Name, outputMarker) {
			fn.outputArgs = append(fn.outputArgs, arg)
		} else {
			fn.inputArgs = append(fn.inputArgs, arg)
		}
	}

	return fn
}

func (*FunctionInfo) isBase() {}

// Args returns all parameters in declaration order.
func (fn *FunctionInfo) Args() []ParameterInfo { return slices.Clone(fn.args) }

// InputArgs returns the parameters that are not output parameters.
func (fn *FunctionInfo) InputArgs() []ParameterInfo { return slices.Clone(fn.inputArgs) }

// OutputArgs returns the output parameters.
func (fn *FunctionInfo) OutputArgs() []ParameterInfo { return slices.Clone(fn.outputArgs) }

// Equal reports structural equality of return type, name and parameters.
func (fn *FunctionInfo) Equal(other *FunctionInfo) bool {
	if fn == nil || other == nil {
		return fn == other
	}

	if fn.Name != other.Name || !fn.ReturnType.Equal(other.ReturnType) || len(fn.args) != len(other.args) {
		return false
	}

	for i := range fn.args {
		if fn.args[i].Name != other.args[i].Name || !fn.args[i].Type.Equal(other.args[i].Type) {
			return false
		}
	}

	return true
}

// String renders the signature, e.g. "int f(int a, float* destination)".
func (fn *FunctionInfo) String() string {
	return fmt.Sprintf("%s %s(%s)", fn.ReturnType, fn.Name, fn.paramList())
}

func (fn *FunctionInfo) paramList() string {
	parts := make([]string, 0, len(fn.args))

	for _, arg := range fn.args {
		if arg.Name == "" {
			parts = append(parts, arg.Type.String())

			continue
		}

		parts = append(parts, arg.Type.String()+" "+arg.Name)
	}

	return strings.Join(parts, ", ")
}

type functionView struct {
	Name       string          `json:"name"        yaml:"name"`
	ReturnType TypeInfo        `json:"return_type" yaml:"return_type"`
	Args       []ParameterInfo `json:"args"        yaml:"args"`
	InputArgs  []ParameterInfo `json:"input_args"  yaml:"input_args"`
	OutputArgs []ParameterInfo `json:"output_args" yaml:"output_args"`
}

func (fn *FunctionInfo) view() functionView {
	return functionView{
		Name:       fn.Name,
		ReturnType: fn.ReturnType,
		Args:       nonNil(fn.args),
		InputArgs:  nonNil(fn.inputArgs),
		OutputArgs: nonNil(fn.outputArgs),
	}
}

// MarshalJSON exposes the parameter partitions alongside the tuple.
func (fn *FunctionInfo) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(fn.view())
	if err != nil {
		return nil, fmt.Errorf("marshal function %q: %w", fn.Name, err)
	}

	return data, nil
}

// MarshalYAML exposes the parameter partitions alongside the tuple.
func (fn *FunctionInfo) MarshalYAML() (any, error) {
	return fn.view(), nil
}

func nonNil(args []ParameterInfo) []ParameterInfo {
	if args == nil {
		return []ParameterInfo{}
	}

	return args
}
