package cparse

import (
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/bindinfo/pkg/cdecl"
)

// Tree-sitter C node kinds the lowering recognizes.
const (
	kindDeclaration      = "declaration"
	kindTypeDefinition   = "type_definition"
	kindEnumSpecifier    = "enum_specifier"
	kindLinkageSpec      = "linkage_specification"
	kindDeclarationList  = "declaration_list"
	kindEnumerator       = "enumerator"
	kindParameterDecl    = "parameter_declaration"
	kindVariadicParam    = "variadic_parameter"
	kindComment          = "comment"
	kindNumberLiteral    = "number_literal"
	kindUnaryExpression  = "unary_expression"
	kindParenExpression  = "parenthesized_expression"
	kindPrimitiveType    = "primitive_type"
	kindTypeIdentifier   = "type_identifier"
	kindSizedType        = "sized_type_specifier"
	kindStructSpecifier  = "struct_specifier"
	kindUnionSpecifier   = "union_specifier"
	kindIdentifier       = "identifier"
	kindFieldIdentifier  = "field_identifier"
	kindPointerDecl      = "pointer_declarator"
	kindAbstractPointer  = "abstract_pointer_declarator"
	kindFunctionDecl     = "function_declarator"
	kindAbstractFunction = "abstract_function_declarator"
	kindParenDecl        = "parenthesized_declarator"
	kindAbstractParen    = "abstract_parenthesized_declarator"
	kindArrayDecl        = "array_declarator"
	kindAbstractArray    = "abstract_array_declarator"
	kindInitDecl         = "init_declarator"
	kindAttributedDecl   = "attributed_declarator"
)

// Field names used by the C grammar.
const (
	fieldType       = "type"
	fieldDeclarator = "declarator"
	fieldParameters = "parameters"
	fieldName       = "name"
	fieldBody       = "body"
	fieldValue      = "value"
	fieldOperator   = "operator"
	fieldArgument   = "argument"
)

var declaratorKinds = map[string]bool{
	kindIdentifier:      true,
	kindTypeIdentifier:  true,
	kindFieldIdentifier: true,
	kindPrimitiveType:   true,
	kindPointerDecl:     true,
	kindFunctionDecl:    true,
	kindArrayDecl:       true,
	kindParenDecl:       true,
	kindInitDecl:        true,
	kindAttributedDecl:  true,
}

type lowerer struct {
	src []byte
}

// specifier is a lowered type specifier. Enum is set when the specifier
// carries an enumeration body, which is hoisted to its own top-level item.
type specifier struct {
	base cdecl.Type
	enum *cdecl.Enum
}

func (l *lowerer) text(n sitter.Node) string {
	return n.Content(l.src)
}

func (l *lowerer) unsupported(n sitter.Node) *cdecl.Unsupported {
	return &cdecl.Unsupported{Kind: n.Type(), Text: l.text(n)}
}

func (l *lowerer) topLevel(container sitter.Node) ([]cdecl.External, error) {
	items := make([]cdecl.External, 0, container.NamedChildCount())

	for idx := range container.NamedChildCount() {
		lowered, err := l.item(container.NamedChild(idx))
		if err != nil {
			return nil, err
		}

		items = append(items, lowered...)
	}

	return items, nil
}

func (l *lowerer) item(n sitter.Node) ([]cdecl.External, error) {
	switch n.Type() {
	case kindDeclaration:
		return l.declaration(n, false)
	case kindTypeDefinition:
		return l.declaration(n, true)
	case kindEnumSpecifier:
		spec := l.specifier(n)
		if spec.enum == nil {
			return nil, nil
		}

		return []cdecl.External{&cdecl.Decl{Type: spec.enum}}, nil
	case kindLinkageSpec:
		body := n.ChildByFieldName(fieldBody)
		if body.IsNull() {
			return nil, nil
		}

		if body.Type() == kindDeclarationList {
			return l.topLevel(body)
		}

		return l.item(body)
	default:
		// Function definitions, preprocessor leftovers and statements are not
		// part of the declaration surface.
		return nil, nil
	}
}

// declaration lowers a declaration or typedef. Every declarator yields one
// item; an enumeration body in the specifier yields an extra enum item ahead
// of them.
func (l *lowerer) declaration(n sitter.Node, typedef bool) ([]cdecl.External, error) {
	typeNode := n.ChildByFieldName(fieldType)
	if typeNode.IsNull() {
		return nil, fmt.Errorf("%w: declaration without type specifier %q", cdecl.ErrUnsupportedConstruct, l.text(n))
	}

	declarators := l.declarators(n, typeNode)
	spec := l.specifier(typeNode)

	items := make([]cdecl.External, 0, len(declarators)+1)

	if spec.enum != nil {
		if spec.enum.Name == "" && typedef && len(declarators) > 0 {
			spec.enum.Name = l.declaratorName(declarators[0])
			spec.base = &cdecl.TypeDecl{Names: []string{"enum", spec.enum.Name}}
		}

		items = append(items, &cdecl.Decl{Type: spec.enum})
	}

	for _, d := range declarators {
		name, typ := l.declarator(d, spec.base)

		if typedef {
			items = append(items, &cdecl.Typedef{Name: name, Type: typ})
		} else {
			items = append(items, &cdecl.Decl{Name: name, Type: typ})
		}
	}

	return items, nil
}

// declarators returns the declarator children following the type specifier.
func (l *lowerer) declarators(n, typeNode sitter.Node) []sitter.Node {
	out := make([]sitter.Node, 0, 1)

	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)

		if child.StartByte() < typeNode.EndByte() {
			continue
		}

		if declaratorKinds[child.Type()] {
			out = append(out, child)
		}
	}

	return out
}

func (l *lowerer) specifier(n sitter.Node) specifier {
	switch n.Type() {
	case kindPrimitiveType, kindTypeIdentifier:
		return specifier{base: &cdecl.TypeDecl{Names: []string{l.text(n)}}}
	case kindSizedType:
		return specifier{base: &cdecl.TypeDecl{Names: strings.Fields(l.text(n))}}
	case kindEnumSpecifier:
		return l.enumSpecifier(n)
	case kindStructSpecifier, kindUnionSpecifier:
		name := n.ChildByFieldName(fieldName)
		if name.IsNull() {
			return specifier{base: l.unsupported(n)}
		}

		keyword := strings.TrimSuffix(n.Type(), "_specifier")

		return specifier{base: &cdecl.TypeDecl{Names: []string{keyword, l.text(name)}}}
	default:
		return specifier{base: l.unsupported(n)}
	}
}

func (l *lowerer) enumSpecifier(n sitter.Node) specifier {
	var name string
	if nameNode := n.ChildByFieldName(fieldName); !nameNode.IsNull() {
		name = l.text(nameNode)
	}

	var base cdecl.Type = &cdecl.TypeDecl{Names: []string{"enum", name}}
	if name == "" {
		base = l.unsupported(n)
	}

	body := n.ChildByFieldName(fieldBody)
	if body.IsNull() {
		return specifier{base: base}
	}

	enumerators := make([]cdecl.Enumerator, 0, body.NamedChildCount())

	for idx := range body.NamedChildCount() {
		child := body.NamedChild(idx)
		if child.Type() != kindEnumerator {
			continue
		}

		enumerator := cdecl.Enumerator{Name: l.text(child.ChildByFieldName(fieldName))}

		if value := child.ChildByFieldName(fieldValue); !value.IsNull() {
			enumerator.Value = l.expr(value)
		}

		enumerators = append(enumerators, enumerator)
	}

	return specifier{base: base, enum: &cdecl.Enum{Name: name, Enumerators: enumerators}}
}

// declarator applies n to base from the outside in, so the innermost
// identifier ends up holding the fully wrapped type.
func (l *lowerer) declarator(n sitter.Node, base cdecl.Type) (string, cdecl.Type) {
	switch n.Type() {
	case kindIdentifier, kindTypeIdentifier, kindFieldIdentifier, kindPrimitiveType:
		return l.text(n), base

	case kindPointerDecl, kindAbstractPointer:
		return l.inner(n.ChildByFieldName(fieldDeclarator), &cdecl.PtrDecl{Type: base})

	case kindFunctionDecl, kindAbstractFunction:
		fn := &cdecl.FuncDecl{Return: base, Params: l.parameters(n.ChildByFieldName(fieldParameters))}

		return l.inner(n.ChildByFieldName(fieldDeclarator), fn)

	case kindArrayDecl, kindAbstractArray:
		return l.inner(n.ChildByFieldName(fieldDeclarator), l.unsupported(n))

	case kindInitDecl:
		return l.inner(n.ChildByFieldName(fieldDeclarator), base)

	case kindParenDecl, kindAbstractParen, kindAttributedDecl:
		return l.inner(firstDeclarator(n), base)

	default:
		return "", l.unsupported(n)
	}
}

func (l *lowerer) inner(n sitter.Node, wrapped cdecl.Type) (string, cdecl.Type) {
	if n.IsNull() {
		return "", wrapped
	}

	return l.declarator(n, wrapped)
}

func firstDeclarator(n sitter.Node) sitter.Node {
	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)
		if declaratorKinds[child.Type()] || strings.HasPrefix(child.Type(), "abstract_") {
			return child
		}
	}

	return sitter.Node{}
}

func (l *lowerer) declaratorName(n sitter.Node) string {
	name, _ := l.declarator(n, nil)

	return name
}

// parameters lowers a parameter list. An empty list yields nil, the same as
// an unprototyped declaration.
func (l *lowerer) parameters(list sitter.Node) []cdecl.Param {
	if list.IsNull() {
		return nil
	}

	var params []cdecl.Param

	for idx := range list.NamedChildCount() {
		child := list.NamedChild(idx)

		switch child.Type() {
		case kindComment:
			continue
		case kindParameterDecl:
			params = append(params, l.parameter(child))
		case kindVariadicParam:
			params = append(params, cdecl.Param{Name: "...", Type: l.unsupported(child)})
		default:
			params = append(params, cdecl.Param{Type: l.unsupported(child)})
		}
	}

	return params
}

func (l *lowerer) parameter(n sitter.Node) cdecl.Param {
	typeNode := n.ChildByFieldName(fieldType)
	if typeNode.IsNull() {
		return cdecl.Param{Type: l.unsupported(n)}
	}

	spec := l.specifier(typeNode)

	decl := n.ChildByFieldName(fieldDeclarator)
	if decl.IsNull() {
		return cdecl.Param{Type: spec.base}
	}

	name, typ := l.declarator(decl, spec.base)

	return cdecl.Param{Name: name, Type: typ}
}

// expr lowers an enumerator value. Signed literals are split into a unary
// operator over the unsigned literal.
func (l *lowerer) expr(n sitter.Node) cdecl.Expr {
	switch n.Type() {
	case kindNumberLiteral:
		return signedConstant(strings.TrimSpace(l.text(n)))
	case kindUnaryExpression:
		op := n.ChildByFieldName(fieldOperator)
		arg := n.ChildByFieldName(fieldArgument)

		if op.IsNull() || arg.IsNull() {
			return &cdecl.OtherExpr{Kind: n.Type(), Text: l.text(n)}
		}

		return &cdecl.UnaryOp{Op: l.text(op), Operand: l.expr(arg)}
	case kindParenExpression:
		if n.NamedChildCount() == 1 {
			return l.expr(n.NamedChild(0))
		}

		return &cdecl.OtherExpr{Kind: n.Type(), Text: l.text(n)}
	default:
		return &cdecl.OtherExpr{Kind: n.Type(), Text: l.text(n)}
	}
}

func signedConstant(text string) cdecl.Expr {
	if len(text) > 1 && (text[0] == '-' || text[0] == '+') {
		return &cdecl.UnaryOp{Op: text[:1], Operand: &cdecl.Constant{Value: strings.TrimSpace(text[1:])}}
	}

	return &cdecl.Constant{Value: text}
}
