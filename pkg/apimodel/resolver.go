package apimodel

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/bindinfo/pkg/cdecl"
)

// Resolver turns cdecl type chains into TypeInfo values.
type Resolver struct {
	outputMarker string
}

// NewResolver creates a Resolver that partitions function parameters by outputMarker.
func NewResolver(outputMarker string) *Resolver {
	return &Resolver{outputMarker: outputMarker}
}

// Resolve walks pointer wrappers down to a named type or a function type.
func (r *Resolver) Resolve(t cdecl.Type) (TypeInfo, error) {
	indirection := 0
	current := t

	for {
		ptr, ok := current.(*cdecl.PtrDecl)
		if !ok {
			break
		}

		indirection++
		current = ptr.Type
	}

	switch node := current.(type) {
	case *cdecl.TypeDecl:
		if len(node.Names) == 0 {
			return TypeInfo{}, fmt.Errorf("%w: named type without names", cdecl.ErrUnsupportedConstruct)
		}

		return TypeInfo{Base: NamedType(strings.Join(node.Names, " ")), Indirection: indirection}, nil
	case *cdecl.FuncDecl:
		fn, err := r.ResolveFunction(node, "")
		if err != nil {
			return TypeInfo{}, err
		}

		return TypeInfo{Base: fn, Indirection: indirection}, nil
	case *cdecl.Enum, *cdecl.Unsupported:
		return TypeInfo{}, fmt.Errorf("%w: cannot resolve type %s", cdecl.ErrUnsupportedConstruct, cdecl.Describe(node))
	default:
		return TypeInfo{}, fmt.Errorf("%w: unexpected type node %T", cdecl.ErrUnsupportedConstruct, current)
	}
}

// ResolveFunction resolves a function type's return type and parameters.
// A missing parameter list and a lone unnamed void parameter both yield no parameters.
func (r *Resolver) ResolveFunction(fn *cdecl.FuncDecl, name string) (*FunctionInfo, error) {
	returnType, err := r.Resolve(fn.Return)
	if err != nil {
		return nil, fmt.Errorf("return type of %s: %w", displayName(name), err)
	}

	params := fn.Params
	if isVoidParamList(params) {
		params = nil
	}

	args := make([]ParameterInfo, 0, len(params))

	for i, p := range params {
		paramType, resolveErr := r.Resolve(p.Type)
		if resolveErr != nil {
			return nil, fmt.Errorf("parameter %d (%q) of %s: %w", i, p.Name, displayName(name), resolveErr)
		}

		args = append(args, ParameterInfo{Type: paramType, Name: p.Name})
	}

	return NewFunctionInfo(returnType, name, args, r.outputMarker), nil
}

func isVoidParamList(params []cdecl.Param) bool {
	if len(params) != 1 || params[0].Name != "" {
		return false
	}

	named, ok := params[0].Type.(*cdecl.TypeDecl)

	return ok && len(named.Names) == 1 && named.Names[0] == "void"
}

func displayName(name string) string {
	if name == "" {
		return "function type"
	}

	return name
}
