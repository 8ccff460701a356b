package apimodel

import (
	"fmt"

	"github.com/Sumatoshi-tech/bindinfo/pkg/cdecl"
)

// Only top-level items are scanned. Nested type declarations are not part of
// the public header surface and stay invisible to the model.

// ExtractTypedefs resolves every top-level typedef, keyed by name in declaration order.
func (r *Resolver) ExtractTypedefs(unit *cdecl.TranslationUnit) (*Ordered[TypeInfo], error) {
	typedefs := NewOrdered[TypeInfo]()

	for _, item := range unit.Items {
		td, ok := item.(*cdecl.Typedef)
		if !ok {
			continue
		}

		info, err := r.Resolve(td.Type)
		if err != nil {
			return nil, fmt.Errorf("typedef %s: %w", td.Name, err)
		}

		typedefs.Set(td.Name, info)
	}

	return typedefs, nil
}

// ExtractFunctions resolves every top-level function declaration, keyed by name.
func (r *Resolver) ExtractFunctions(unit *cdecl.TranslationUnit) (*Ordered[*FunctionInfo], error) {
	functions := NewOrdered[*FunctionInfo]()

	for _, item := range unit.Items {
		decl, ok := item.(*cdecl.Decl)
		if !ok {
			continue
		}

		fnType, ok := decl.Type.(*cdecl.FuncDecl)
		if !ok {
			continue
		}

		fn, err := r.ResolveFunction(fnType, decl.Name)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", decl.Name, err)
		}

		functions.Set(decl.Name, fn)
	}

	return functions, nil
}

// ExtractEnums evaluates every top-level enumeration, keyed by enumeration name.
func ExtractEnums(unit *cdecl.TranslationUnit) (*Ordered[*Ordered[int64]], error) {
	groups := NewOrdered[*Ordered[int64]]()

	for _, item := range unit.Items {
		decl, ok := item.(*cdecl.Decl)
		if !ok {
			continue
		}

		enum, ok := decl.Type.(*cdecl.Enum)
		if !ok {
			continue
		}

		values, err := EvaluateEnumerators(enum.Enumerators)
		if err != nil {
			return nil, fmt.Errorf("enum %s: %w", enum.Name, err)
		}

		group := NewOrdered[int64]()
		for _, v := range values {
			group.Set(v.Name, v.Value)
		}

		groups.Set(enum.Name, group)
	}

	return groups, nil
}
