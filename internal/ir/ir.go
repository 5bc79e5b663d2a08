package ir

// Package ir defines the typed intermediate representation produced by the
// declaration parser and consumed by the block synthesizer. This package is
// internal and not part of the public API.

import "fmt"

// TypeKind identifies a Type variant.
type TypeKind int

const (
	KindSimple TypeKind = iota
	KindPromise
	KindArray
	KindObject
	KindFunction
	KindLiteral
	KindStrEnum
)

func (k TypeKind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindPromise:
		return "promise"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindLiteral:
		return "literal"
	case KindStrEnum:
		return "str_enum"
	}
	return fmt.Sprintf("TypeKind(%d)", int(k))
}

// Type is the closed set of declaration type shapes. Only this package can
// implement it; consumers dispatch through Visit.
type Type interface {
	Kind() TypeKind
	isType()
}

// Simple names for the built-in keyword types. Any other Simple name is an
// opaque reference passed through unchanged.
const (
	Number  = "number"
	String  = "string"
	Boolean = "boolean"
	Void    = "void"
	Any     = "any"
)

// Simple is a keyword type or an opaque named type reference.
type Simple struct {
	Name string
}

func (*Simple) Kind() TypeKind { return KindSimple }
func (*Simple) isType()        {}

// IsVoid reports whether the type is the void keyword.
func (s *Simple) IsVoid() bool { return s.Name == Void }

// Promise wraps exactly one type.
type Promise struct {
	Elem Type
}

func (*Promise) Kind() TypeKind { return KindPromise }
func (*Promise) isType()        {}

// Array is a homogeneous list type.
type Array struct {
	Elem Type
}

func (*Array) Kind() TypeKind { return KindArray }
func (*Array) isType()        {}

// Object is an inline object shape. Property order is declaration order.
type Object struct {
	Props []Property
}

func (*Object) Kind() TypeKind { return KindObject }
func (*Object) isType()        {}

// Property is a named member of an Object.
type Property struct {
	Name string
	Type Type
	Doc  string
}

// Function is a call signature.
type Function struct {
	Params []Param
	Return Type
}

func (*Function) Kind() TypeKind { return KindFunction }
func (*Function) isType()        {}

// Param is a named, typed function parameter. Order is call order.
type Param struct {
	Name     string
	Type     Type
	Optional bool
}

// LiteralKind is the value kind of a literal type.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBoolean
)

// Literal is a fixed value type such as "on", 42 or true. Value holds the
// source text without quotes.
type Literal struct {
	LitKind LiteralKind
	Value   string
}

func (*Literal) Kind() TypeKind { return KindLiteral }
func (*Literal) isType()        {}

// StrEnum is a union of string literal types. Values is non-empty.
type StrEnum struct {
	Values []string
}

func (*StrEnum) Kind() TypeKind { return KindStrEnum }
func (*StrEnum) isType()        {}

// Visitor handles every Type variant. Adding a variant adds a method here,
// which breaks every consumer until it handles the new shape.
type Visitor[R any] interface {
	Simple(*Simple) R
	Promise(*Promise) R
	Array(*Array) R
	Object(*Object) R
	Function(*Function) R
	Literal(*Literal) R
	StrEnum(*StrEnum) R
}

// Visit dispatches t to the matching Visitor method.
func Visit[R any](t Type, v Visitor[R]) R {
	switch t := t.(type) {
	case *Simple:
		return v.Simple(t)
	case *Promise:
		return v.Promise(t)
	case *Array:
		return v.Array(t)
	case *Object:
		return v.Object(t)
	case *Function:
		return v.Function(t)
	case *Literal:
		return v.Literal(t)
	case *StrEnum:
		return v.StrEnum(t)
	}
	panic(fmt.Sprintf("ir: unhandled type %T", t))
}

// Pos is a 1-based source position.
type Pos struct {
	Line, Col int
	Offset    int
}

// Member is a top-level declared member.
type Member interface {
	MemberName() string
	Position() Pos
	isMember()
}

// Func is a declared function.
type Func struct {
	Name string
	Sig  *Function
	Doc  string
	Pos  Pos
}

func (f *Func) MemberName() string { return f.Name }
func (f *Func) Position() Pos      { return f.Pos }
func (*Func) isMember()            {}

// Var is a declared variable, or a namespace member. Functions declared in
// a namespace are Vars of Function type.
type Var struct {
	Name string
	Type Type
	Doc  string
	Pos  Pos
}

func (v *Var) MemberName() string { return v.Name }
func (v *Var) Position() Pos      { return v.Pos }
func (*Var) isMember()            {}

// Module is a namespace block.
type Module struct {
	Name    string
	Members []*Var
	Pos     Pos
}

func (m *Module) MemberName() string { return m.Name }
func (m *Module) Position() Pos      { return m.Pos }
func (*Module) isMember()            {}
