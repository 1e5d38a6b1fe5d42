package schema

import (
	"github.com/mochibot/mochibot/pkg/logger"
)

// checker walks field annotations against the restricted grammar. The
// grammar, per field:
//
//   - atomic shapes and nested config models pass as-is
//   - one level of optional wrapping; every other union form is rejected
//   - list[T] / set[T] with exactly one non-container parameter
//   - dict[K, V] with exactly two parameters; V may be atomic, a model, or
//     one further list/set level, never another dict
//   - tuples never pass, any-usage is policy gated per model
type checker struct {
	model *Model
}

// Validate runs the grammar gate over every declared field in declaration
// order and returns the first violation. The outcome depends only on the
// definition-time schema, so it is idempotent across records.
func (m *Model) Validate() error {
	c := checker{model: m}
	for _, f := range m.fields {
		if err := c.field(f); err != nil {
			return err
		}
	}
	return nil
}

func (c checker) violation(kind ViolationKind, field string, ann Spec) error {
	return &GrammarViolation{
		Model:      c.model.name,
		Field:      field,
		Annotation: ann.String(),
		Kind:       kind,
	}
}

func (c checker) field(f *Field) error {
	ann, err := c.unwrapOptional(f.Type, f.Name)
	if err != nil {
		return err
	}
	switch ann.Kind() {
	case KindTuple:
		return c.violation(ViolationTupleUsage, f.Name, f.Type)
	case KindAny:
		return c.checkAny(f.Name)
	case KindModel:
		return nil
	case KindList, KindSet:
		return c.container(ann, f.Name)
	case KindDict:
		return c.mapping(ann, f.Name)
	default:
		if ann.atomic() {
			return nil
		}
		return c.violation(ViolationUnsupportedGeneric, f.Name, f.Type)
	}
}

// unwrapOptional accepts a two-arm union with a none arm and returns the
// other arm. Any other union form, including an optional wrapping another
// union, is a violation.
func (c checker) unwrapOptional(ann Spec, field string) (Spec, error) {
	if ann.Kind() != KindUnion {
		return ann, nil
	}
	if !ann.optional() {
		return Spec{}, c.violation(ViolationUnion, field, ann)
	}
	inner := ann.optionalArm()
	if inner.Kind() == KindUnion {
		return Spec{}, c.violation(ViolationUnion, field, ann)
	}
	return inner, nil
}

// container checks a list or set shape: exactly one parameter, which must
// not itself be a container. Set elements must additionally be hashable,
// which excludes nested models.
func (c checker) container(ann Spec, field string) error {
	params := ann.Params()
	if len(params) != 1 {
		return c.violation(ViolationArity, field, ann)
	}
	elem := params[0]
	if elem.Kind() == KindAny {
		return c.checkAny(field)
	}
	if elem.Kind() == KindModel {
		if ann.Kind() == KindSet {
			return c.violation(ViolationUnhashableSetElement, field, ann)
		}
		return nil
	}
	if elem.parameterized() {
		return c.violation(ViolationNestedGeneric, field, ann)
	}
	return nil
}

// mapping checks a dict shape: exactly two parameters. The key shape is
// deliberately unconstrained; the value may be atomic, a model, any
// (policy gated), or one further list/set level.
func (c checker) mapping(ann Spec, field string) error {
	params := ann.Params()
	if len(params) != 2 {
		return c.violation(ViolationArity, field, ann)
	}
	val := params[1]
	if val.Kind() == KindAny {
		return c.checkAny(field)
	}
	if !val.parameterized() {
		return nil
	}
	inner, err := c.unwrapOptional(val, field)
	if err != nil {
		return err
	}
	switch inner.Kind() {
	case KindList, KindSet:
		return c.container(inner, field)
	case KindAny:
		return c.checkAny(field)
	default:
		return c.violation(ViolationNestedGeneric, field, ann)
	}
}

// checkAny applies the per-model any policy: fatal under the default strict
// flag, a logged warning when lowered, silence when both flags are set.
func (c checker) checkAny(field string) error {
	if !c.model.allowAny {
		return c.violation(ViolationAnyUsage, field, AnyType())
	}
	if !c.model.silenceAny {
		logger.Warn("any annotation in use, prefer a concrete type",
			"config", c.model.name, "field", field)
	}
	return nil
}
