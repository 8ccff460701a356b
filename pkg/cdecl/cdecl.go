// Package cdecl defines the closed node grammar for top-level C declarations.
//
// Every grammar category (top-level item, type node, value expression) is a
// sealed interface: only types in this package implement it, so consumers
// switch over a fixed set of cases and route anything else to
// ErrUnsupportedConstruct.
package cdecl

import "errors"

// ErrUnsupportedConstruct reports a node shape outside the supported subset of C.
var ErrUnsupportedConstruct = errors.New("unsupported construct")

// TranslationUnit is the ordered list of top-level items of one header.
type TranslationUnit struct {
	Items []External
}

// External is a top-level item of a translation unit.
type External interface {
	external()
}

// Type is a node in a declaration's type chain.
type Type interface {
	typeNode()
}

// Expr is an enumerator value expression.
type Expr interface {
	expr()
}

// Decl is a plain declaration: a variable, a function prototype, or a
// nameless enumeration declaration.
type Decl struct {
	Type Type
	Name string
}

// Typedef is a typedef declaration.
type Typedef struct {
	Type Type
	Name string
}

// PtrDecl wraps a type in one level of pointer indirection.
type PtrDecl struct {
	Type Type
}

// TypeDecl is a named type reference. Names holds the type-name tokens in
// source order, e.g. ["unsigned", "int"].
type TypeDecl struct {
	Names []string
}

// FuncDecl is a function type.
// Params is nil when the declarator carries no parameter list at all.
type FuncDecl struct {
	Return Type
	Params []Param
}

// Param is one function parameter. Name is empty for abstract declarators.
type Param struct {
	Type Type
	Name string
}

// Enum is an enumeration with a body.
type Enum struct {
	Name        string
	Enumerators []Enumerator
}

// Enumerator is one enumeration constant. Value is nil when no explicit value is given.
type Enumerator struct {
	Value Expr
	Name  string
}

// Unsupported stands for a type shape the grammar does not model
// (struct bodies, arrays, variadic markers).
type Unsupported struct {
	Kind string
	Text string
}

// Constant is an integer literal as written in source.
type Constant struct {
	Value string
}

// UnaryOp is a prefix operator applied to an expression.
type UnaryOp struct {
	Operand Expr
	Op      string
}

// OtherExpr is any value expression outside the modeled subset.
type OtherExpr struct {
	Kind string
	Text string
}

func (*Decl) external()    {}
func (*Typedef) external() {}

func (*PtrDecl) typeNode()     {}
func (*TypeDecl) typeNode()    {}
func (*FuncDecl) typeNode()    {}
func (*Enum) typeNode()        {}
func (*Unsupported) typeNode() {}

func (*Constant) expr()  {}
func (*UnaryOp) expr()   {}
func (*OtherExpr) expr() {}
