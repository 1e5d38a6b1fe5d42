// Package schema implements the configuration type-safety gate every
// declarative configuration model passes through before it can be used.
//
// A model declares its fields against an explicit type descriptor (Spec)
// built at definition time. Construction of a record validates every field
// annotation against a deliberately restricted grammar, applies defaults,
// checks value shapes, and exposes the model's field documentation map.
package schema

import "strings"

// Kind identifies the shape of a type descriptor.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindBytes
	KindComplex
	KindNone
	KindAny
	KindUnion
	KindList
	KindSet
	KindDict
	KindTuple
	KindModel
	KindGeneric
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindInt:     "int",
	KindFloat:   "float",
	KindString:  "string",
	KindBool:    "bool",
	KindBytes:   "bytes",
	KindComplex: "complex",
	KindNone:    "none",
	KindAny:     "any",
	KindUnion:   "union",
	KindList:    "list",
	KindSet:     "set",
	KindDict:    "dict",
	KindTuple:   "tuple",
	KindModel:   "model",
	KindGeneric: "generic",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Spec describes a field type annotation. Specs are immutable values built
// through the package constructors; a bare container (no type parameters)
// is a valid Spec so that arity violations remain expressible.
type Spec struct {
	kind   Kind
	params []Spec
	model  *Model
	name   string
}

// Kind returns the container kind (or atomic kind) of the descriptor.
func (s Spec) Kind() Kind { return s.kind }

// Params returns the type parameters of the descriptor, nil for bare or
// atomic shapes.
func (s Spec) Params() []Spec { return s.params }

// ModelRef returns the nested model for KindModel descriptors.
func (s Spec) ModelRef() *Model { return s.model }

// Classify normalizes a descriptor into its container kind and parameter
// list. A bare non-parameterized container yields its kind and no params.
func Classify(s Spec) (Kind, []Spec) {
	return s.kind, s.params
}

// atomic reports whether the shape carries no type parameters at all:
// scalars and the null shape.
func (s Spec) atomic() bool {
	switch s.kind {
	case KindInt, KindFloat, KindString, KindBool, KindBytes, KindComplex, KindNone:
		return true
	}
	return false
}

// parameterized reports whether the shape is a container: something a
// nested-generic check must reject as a type parameter.
func (s Spec) parameterized() bool {
	switch s.kind {
	case KindUnion, KindList, KindSet, KindDict, KindTuple, KindGeneric:
		return true
	}
	return false
}

// optional reports whether the shape is a two-arm union with a none arm.
func (s Spec) optional() bool {
	if s.kind != KindUnion || len(s.params) != 2 {
		return false
	}
	return s.params[0].kind == KindNone || s.params[1].kind == KindNone
}

// optionalArm returns the non-none arm of an optional union.
func (s Spec) optionalArm() Spec {
	if s.params[1].kind == KindNone {
		return s.params[0]
	}
	return s.params[1]
}

// String renders the annotation for error messages and documentation.
func (s Spec) String() string {
	switch s.kind {
	case KindModel:
		if s.model != nil {
			return s.model.Name()
		}
		return "model"
	case KindUnion:
		if s.optional() {
			return "optional[" + s.optionalArm().String() + "]"
		}
		return "union[" + joinParams(s.params) + "]"
	case KindList, KindSet, KindDict, KindTuple:
		if len(s.params) == 0 {
			return s.kind.String()
		}
		return s.kind.String() + "[" + joinParams(s.params) + "]"
	case KindGeneric:
		if len(s.params) == 0 {
			return s.name
		}
		return s.name + "[" + joinParams(s.params) + "]"
	default:
		return s.kind.String()
	}
}

func joinParams(params []Spec) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// IntType returns the integer scalar descriptor.
func IntType() Spec { return Spec{kind: KindInt} }

// FloatType returns the floating point scalar descriptor.
func FloatType() Spec { return Spec{kind: KindFloat} }

// StringType returns the string scalar descriptor.
func StringType() Spec { return Spec{kind: KindString} }

// BoolType returns the boolean scalar descriptor.
func BoolType() Spec { return Spec{kind: KindBool} }

// BytesType returns the byte sequence scalar descriptor.
func BytesType() Spec { return Spec{kind: KindBytes} }

// ComplexType returns the complex number scalar descriptor.
func ComplexType() Spec { return Spec{kind: KindComplex} }

// NoneType returns the null descriptor.
func NoneType() Spec { return Spec{kind: KindNone} }

// AnyType returns the unconstrained descriptor. Its use is fatal unless the
// owning model lowers its strictness flag.
func AnyType() Spec { return Spec{kind: KindAny} }

// Optional wraps a descriptor in a two-arm union with a none arm, exactly
// like the optional sugar of the annotation grammar.
func Optional(inner Spec) Spec {
	return Spec{kind: KindUnion, params: []Spec{inner, NoneType()}}
}

// UnionOf builds an arbitrary union descriptor. Anything but the optional
// form is rejected by the grammar validator.
func UnionOf(arms ...Spec) Spec {
	return Spec{kind: KindUnion, params: arms}
}

// ListOf builds a list descriptor; call with no parameter for a bare list.
func ListOf(params ...Spec) Spec {
	return Spec{kind: KindList, params: params}
}

// SetOf builds a set descriptor; call with no parameter for a bare set.
func SetOf(params ...Spec) Spec {
	return Spec{kind: KindSet, params: params}
}

// DictOf builds a dict descriptor; the grammar requires exactly a key and a
// value parameter.
func DictOf(params ...Spec) Spec {
	return Spec{kind: KindDict, params: params}
}

// TupleOf builds a tuple descriptor. Tuples are never accepted by the
// grammar, with or without policy overrides.
func TupleOf(params ...Spec) Spec {
	return Spec{kind: KindTuple, params: params}
}

// ModelOf builds a nested model descriptor.
func ModelOf(m *Model) Spec {
	return Spec{kind: KindModel, model: m}
}

// GenericOf builds a named foreign container descriptor, for descriptor
// tables generated from external schema definitions. The grammar rejects
// every such shape as an unsupported generic.
func GenericOf(name string, params ...Spec) Spec {
	return Spec{kind: KindGeneric, name: name, params: params}
}
