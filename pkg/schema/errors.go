package schema

import "fmt"

// ViolationKind classifies annotation grammar violations.
type ViolationKind int

const (
	ViolationTupleUsage ViolationKind = iota
	ViolationUnion
	ViolationArity
	ViolationNestedGeneric
	ViolationAnyUsage
	ViolationUnsupportedGeneric
	ViolationUnhashableSetElement
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationTupleUsage:
		return "tuple_usage"
	case ViolationUnion:
		return "union"
	case ViolationArity:
		return "arity"
	case ViolationNestedGeneric:
		return "nested_generic"
	case ViolationAnyUsage:
		return "any_usage"
	case ViolationUnsupportedGeneric:
		return "unsupported_generic"
	case ViolationUnhashableSetElement:
		return "unhashable_set_element"
	}
	return "unknown"
}

// GrammarViolation reports a field annotation the restricted grammar does
// not accept. It carries the declaring model, the field, and a rendering of
// the offending annotation.
type GrammarViolation struct {
	Model      string
	Field      string
	Annotation string
	Kind       ViolationKind
}

func (e *GrammarViolation) Error() string {
	switch e.Kind {
	case ViolationTupleUsage:
		return fmt.Sprintf(
			"config %q field %q: tuple annotations are not allowed (got %s)",
			e.Model, e.Field, e.Annotation)
	case ViolationUnion:
		return fmt.Sprintf(
			"config %q field %q: union annotations other than a single optional are not allowed (got %s)",
			e.Model, e.Field, e.Annotation)
	case ViolationArity:
		return fmt.Sprintf(
			"config %q field %q: wrong number of type parameters (got %s)",
			e.Model, e.Field, e.Annotation)
	case ViolationNestedGeneric:
		return fmt.Sprintf(
			"config %q field %q: nested generic annotations are not allowed, declare a nested config model instead (got %s)",
			e.Model, e.Field, e.Annotation)
	case ViolationAnyUsage:
		return fmt.Sprintf(
			"config %q field %q: any annotations are not allowed",
			e.Model, e.Field)
	case ViolationUnsupportedGeneric:
		return fmt.Sprintf(
			"config %q field %q: only list, set and dict container annotations are allowed (got %s)",
			e.Model, e.Field, e.Annotation)
	case ViolationUnhashableSetElement:
		return fmt.Sprintf(
			"config %q field %q: config models are not hashable and cannot be set elements (got %s)",
			e.Model, e.Field, e.Annotation)
	}
	return fmt.Sprintf("config %q field %q: invalid annotation %s", e.Model, e.Field, e.Annotation)
}

// UnknownFieldError reports a construction or mutation value keyed by a name
// the model does not declare.
type UnknownFieldError struct {
	Model string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("config %q does not declare a field %q", e.Model, e.Field)
}

// ValueError reports a value that does not conform to its field's declared
// shape.
type ValueError struct {
	Model  string
	Field  string
	Value  any
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf(
		"config %q field %q: value %v %s",
		e.Model, e.Field, e.Value, e.Reason)
}

// PostCheckError wraps a failure from a model's post-construction hook.
type PostCheckError struct {
	Model string
	Err   error
}

func (e *PostCheckError) Error() string {
	return fmt.Sprintf("config %q failed post-construction checks: %v", e.Model, e.Err)
}

func (e *PostCheckError) Unwrap() error {
	return e.Err
}
