package cdecl

import (
	"fmt"
	"strings"
)

// Describe renders a type node as a compact, C-like string for error messages.
func Describe(t Type) string {
	switch node := t.(type) {
	case nil:
		return "<nil>"
	case *PtrDecl:
		return Describe(node.Type) + "*"
	case *TypeDecl:
		return strings.Join(node.Names, " ")
	case *FuncDecl:
		params := make([]string, 0, len(node.Params))
		for _, p := range node.Params {
			params = append(params, Describe(p.Type))
		}

		return fmt.Sprintf("%s(%s)", Describe(node.Return), strings.Join(params, ", "))
	case *Enum:
		return "enum " + node.Name
	case *Unsupported:
		return fmt.Sprintf("<%s %q>", node.Kind, node.Text)
	default:
		return fmt.Sprintf("<%T>", t)
	}
}

// DescribeExpr renders an enumerator value expression for error messages.
func DescribeExpr(e Expr) string {
	switch node := e.(type) {
	case nil:
		return "<implicit>"
	case *Constant:
		return node.Value
	case *UnaryOp:
		return node.Op + DescribeExpr(node.Operand)
	case *OtherExpr:
		return fmt.Sprintf("<%s %q>", node.Kind, node.Text)
	default:
		return fmt.Sprintf("<%T>", e)
	}
}
