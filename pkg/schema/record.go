package schema

import (
	"fmt"
	"reflect"
)

// Values carries the by-name field values handed to construction.
type Values map[string]any

// Record is one validated, populated configuration instance. Construction
// only succeeds after every declared annotation passed the grammar gate and
// every value conforms to its declared shape; business rules run in the
// model's post-construction hook.
type Record struct {
	model  *Model
	values map[string]any
}

// Build constructs a record. Sequence: grammar-validate every declared
// field, reject unknown keys, apply defaults, accept values (nested models
// are constructed recursively by the same coordinator), run the model's
// post-construction hook, and ensure the doc map is computed. The first
// failure aborts construction; no partial record is produced.
func (m *Model) Build(values Values) (*Record, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	for name := range values {
		if _, ok := m.index[name]; !ok {
			return nil, &UnknownFieldError{Model: m.name, Field: name}
		}
	}
	rec := &Record{
		model:  m,
		values: make(map[string]any, len(m.fields)),
	}
	for _, f := range m.fields {
		raw, provided := values[f.Name]
		if !provided {
			raw = f.defaultValue()
		}
		accepted, err := m.acceptValue(f.Name, f.Type, raw)
		if err != nil {
			return nil, err
		}
		rec.values[f.Name] = accepted
	}
	if m.postCheck != nil {
		if err := m.postCheck(rec); err != nil {
			return nil, &PostCheckError{Model: m.name, Err: err}
		}
	}
	m.Docs()
	return rec, nil
}

// MustBuild is Build for definition-time defaults that are known valid.
func (m *Model) MustBuild(values Values) *Record {
	rec, err := m.Build(values)
	if err != nil {
		panic(err)
	}
	return rec
}

func (f *Field) defaultValue() any {
	if f.DefaultFunc != nil {
		return f.DefaultFunc()
	}
	if f.Default != nil {
		return f.Default
	}
	return zeroValue(f.Type)
}

// zeroValue yields the implicit default for a shape when a field declares
// none. Nested models surface as nil here and are default-constructed
// during acceptance.
func zeroValue(s Spec) any {
	switch s.Kind() {
	case KindInt:
		return 0
	case KindFloat:
		return 0.0
	case KindString:
		return ""
	case KindBool:
		return false
	case KindBytes:
		return []byte(nil)
	case KindComplex:
		return complex128(0)
	default:
		return nil
	}
}

// Model returns the shared class-scoped schema of the record.
func (r *Record) Model() *Model { return r.model }

// Docs exposes the model's cached field documentation map.
func (r *Record) Docs() DocMap { return r.model.Docs() }

// Set reassigns a field, re-applying the same annotation and value
// acceptance checks as construction.
func (r *Record) Set(name string, value any) error {
	f, ok := r.model.FieldByName(name)
	if !ok {
		return &UnknownFieldError{Model: r.model.name, Field: name}
	}
	c := checker{model: r.model}
	if err := c.field(f); err != nil {
		return err
	}
	accepted, err := r.model.acceptValue(name, f.Type, value)
	if err != nil {
		return err
	}
	r.values[name] = accepted
	return nil
}

// Get returns a field value; ok is false for undeclared names.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// GetString returns a string field, or "" when absent or mistyped.
func (r *Record) GetString(name string) string {
	if v, ok := r.values[name].(string); ok {
		return v
	}
	return ""
}

// GetInt returns an integer field, tolerating the integer widths value
// acceptance admits.
func (r *Record) GetInt(name string) int {
	switch v := r.values[name].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

// GetFloat64 returns a float field, tolerating integer values the same way
// acceptance does.
func (r *Record) GetFloat64(name string) float64 {
	switch v := r.values[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	default:
		rv := reflect.ValueOf(r.values[name])
		if rv.IsValid() && rv.CanInt() {
			return float64(rv.Int())
		}
		if rv.IsValid() && rv.CanUint() {
			return float64(rv.Uint())
		}
	}
	return 0
}

// GetBool returns a boolean field.
func (r *Record) GetBool(name string) bool {
	if v, ok := r.values[name].(bool); ok {
		return v
	}
	return false
}

// GetRecord returns a nested model field.
func (r *Record) GetRecord(name string) *Record {
	if v, ok := r.values[name].(*Record); ok {
		return v
	}
	return nil
}

// GetSlice returns a list field in its normalized []any form.
func (r *Record) GetSlice(name string) []any {
	if v, ok := r.values[name].([]any); ok {
		return v
	}
	return nil
}

// GetStringSlice converts a list field whose elements are strings.
func (r *Record) GetStringSlice(name string) []string {
	elems := r.GetSlice(name)
	if elems == nil {
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetSet returns a set field in its normalized map form.
func (r *Record) GetSet(name string) map[any]struct{} {
	if v, ok := r.values[name].(map[any]struct{}); ok {
		return v
	}
	return nil
}

// GetStringMap returns a string-keyed dict field.
func (r *Record) GetStringMap(name string) map[string]any {
	if v, ok := r.values[name].(map[string]any); ok {
		return v
	}
	return nil
}

// ToMap renders the record as plain nested maps, the form loaders and
// schema renderers consume. Sets surface as element slices.
func (r *Record) ToMap() map[string]any {
	out := make(map[string]any, len(r.values))
	for name, v := range r.values {
		out[name] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch val := v.(type) {
	case *Record:
		if val == nil {
			return nil
		}
		return val.ToMap()
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = plainValue(e)
		}
		return out
	case map[any]struct{}:
		out := make([]any, 0, len(val))
		for e := range val {
			out = append(out, e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = plainValue(e)
		}
		return out
	case map[any]any:
		out := make(map[any]any, len(val))
		for k, e := range val {
			out[k] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

// acceptValue checks a value against a declared shape and returns its
// normalized form. Nested model values may arrive as records or as nested
// value maps; the latter run through the coordinator recursively.
func (m *Model) acceptValue(field string, s Spec, v any) (any, error) {
	switch s.Kind() {
	case KindAny:
		return v, nil
	case KindNone:
		if v == nil {
			return nil, nil
		}
		return nil, m.valueError(field, v, "must be null")
	case KindInt:
		return m.acceptInt(field, v)
	case KindFloat:
		return m.acceptFloat(field, v)
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, m.valueError(field, v, "is not a string")
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, m.valueError(field, v, "is not a boolean")
	case KindBytes:
		switch val := v.(type) {
		case []byte:
			return val, nil
		case string:
			return []byte(val), nil
		case nil:
			return []byte(nil), nil
		}
		return nil, m.valueError(field, v, "is not a byte sequence")
	case KindComplex:
		switch val := v.(type) {
		case complex128:
			return val, nil
		case complex64:
			return complex128(val), nil
		}
		return nil, m.valueError(field, v, "is not a complex number")
	case KindUnion:
		// The grammar gate guarantees the optional form here.
		if v == nil {
			return nil, nil
		}
		return m.acceptValue(field, s.optionalArm(), v)
	case KindList:
		return m.acceptList(field, s, v)
	case KindSet:
		return m.acceptSet(field, s, v)
	case KindDict:
		return m.acceptDict(field, s, v)
	case KindModel:
		return m.acceptModel(field, s, v)
	}
	return nil, m.valueError(field, v, fmt.Sprintf("cannot be checked against %s", s))
}

func (m *Model) valueError(field string, v any, reason string) error {
	return &ValueError{Model: m.name, Field: field, Value: v, Reason: reason}
}

func (m *Model) acceptInt(field string, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() == reflect.Bool {
		return nil, m.valueError(field, v, "is not an integer")
	}
	if rv.CanInt() || rv.CanUint() {
		return v, nil
	}
	return nil, m.valueError(field, v, "is not an integer")
}

func (m *Model) acceptFloat(field string, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() == reflect.Bool {
		return nil, m.valueError(field, v, "is not a number")
	}
	if rv.CanFloat() {
		return v, nil
	}
	// TOML and friends hand integers for whole numbers.
	if rv.CanInt() {
		return float64(rv.Int()), nil
	}
	if rv.CanUint() {
		return float64(rv.Uint()), nil
	}
	return nil, m.valueError(field, v, "is not a number")
}

func (m *Model) acceptList(field string, s Spec, v any) (any, error) {
	if v == nil {
		return []any(nil), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, m.valueError(field, v, "is not a list")
	}
	elemSpec := s.Params()[0]
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem, err := m.acceptValue(field, elemSpec, rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out = append(out, elem)
	}
	return out, nil
}

func (m *Model) acceptSet(field string, s Spec, v any) (any, error) {
	if v == nil {
		return map[any]struct{}(nil), nil
	}
	elemSpec := s.Params()[0]
	out := make(map[any]struct{})
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		for _, key := range rv.MapKeys() {
			elem, err := m.acceptValue(field, elemSpec, key.Interface())
			if err != nil {
				return nil, err
			}
			elem = hashableForm(elem)
			if err := m.requireHashable(field, elem); err != nil {
				return nil, err
			}
			out[elem] = struct{}{}
		}
	case reflect.Slice, reflect.Array:
		// Serialized forms carry sets as arrays.
		for i := 0; i < rv.Len(); i++ {
			elem, err := m.acceptValue(field, elemSpec, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			elem = hashableForm(elem)
			if err := m.requireHashable(field, elem); err != nil {
				return nil, err
			}
			out[elem] = struct{}{}
		}
	default:
		return nil, m.valueError(field, v, "is not a set")
	}
	return out, nil
}

func (m *Model) acceptDict(field string, s Spec, v any) (any, error) {
	keySpec, valSpec := s.Params()[0], s.Params()[1]
	stringKeyed := keySpec.Kind() == KindString
	if v == nil {
		if stringKeyed {
			return map[string]any(nil), nil
		}
		return map[any]any(nil), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, m.valueError(field, v, "is not a dict")
	}
	if stringKeyed {
		out := make(map[string]any, rv.Len())
		for _, key := range rv.MapKeys() {
			k, err := m.acceptValue(field, keySpec, key.Interface())
			if err != nil {
				return nil, err
			}
			val, err := m.acceptValue(field, valSpec, rv.MapIndex(key).Interface())
			if err != nil {
				return nil, err
			}
			out[k.(string)] = val
		}
		return out, nil
	}
	out := make(map[any]any, rv.Len())
	for _, key := range rv.MapKeys() {
		k, err := m.acceptValue(field, keySpec, key.Interface())
		if err != nil {
			return nil, err
		}
		k = hashableForm(k)
		if err := m.requireHashable(field, k); err != nil {
			return nil, err
		}
		val, err := m.acceptValue(field, valSpec, rv.MapIndex(key).Interface())
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
	return out, nil
}

// hashableForm converts accepted values that cannot be Go map keys into an
// equivalent comparable form. Byte sequences become their string form, so a
// bytes-typed set element or dict key stays usable for membership.
func hashableForm(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func (m *Model) requireHashable(field string, v any) error {
	if v == nil {
		return nil
	}
	if !reflect.TypeOf(v).Comparable() {
		return m.valueError(field, v, "is not hashable")
	}
	return nil
}

func (m *Model) acceptModel(field string, s Spec, v any) (any, error) {
	nested := s.ModelRef()
	switch val := v.(type) {
	case nil:
		return nested.Build(nil)
	case *Record:
		if val.model != nested {
			return nil, m.valueError(field, v,
				fmt.Sprintf("is a %q record, expected %q", val.model.name, nested.name))
		}
		return val, nil
	case Values:
		return nested.Build(val)
	case map[string]any:
		return nested.Build(Values(val))
	default:
		return nil, m.valueError(field, v,
			fmt.Sprintf("cannot populate nested config %q", nested.name))
	}
}
