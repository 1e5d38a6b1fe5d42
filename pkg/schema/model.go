package schema

import (
	"fmt"
	"sync"
)

// Field declares a single configuration field: its name, type descriptor,
// default, and companion documentation. The descriptor table is the single
// source of truth for validation, defaults and docs.
type Field struct {
	Name        string
	Type        Spec
	Default     any
	DefaultFunc func() any
	Doc         string
}

// Model is the class-scoped schema every configuration record of one kind
// shares: an ordered field table plus per-model policy flags. Models are
// built once at definition time and never mutated afterwards.
type Model struct {
	name       string
	fields     []*Field
	index      map[string]int
	allowAny   bool
	silenceAny bool
	postCheck  func(*Record) error

	docsOnce sync.Once
	docs     DocMap
}

// Option configures a model at definition time.
type Option func(*Model)

// WithAllowAny lowers the strictness flag: any-typed fields log a warning
// instead of failing construction.
func WithAllowAny() Option {
	return func(m *Model) { m.allowAny = true }
}

// WithSilenceAny additionally suppresses the warning emitted for any-typed
// fields when the strictness flag is lowered.
func WithSilenceAny() Option {
	return func(m *Model) { m.silenceAny = true }
}

// WithPostCheck installs the model's post-construction hook for business
// rule validation. It runs after the grammar gate and value acceptance.
func WithPostCheck(fn func(*Record) error) Option {
	return func(m *Model) { m.postCheck = fn }
}

// NewModel creates an empty model. Fields are added with Register in
// declaration order.
func NewModel(name string, opts ...Option) *Model {
	if name == "" {
		panic("schema: model name must not be empty")
	}
	m := &Model{
		name:  name,
		index: make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register appends a field declaration. Duplicate or empty names are
// definition-time programming errors and panic.
func (m *Model) Register(f *Field) *Model {
	if f == nil || f.Name == "" {
		panic(fmt.Sprintf("schema: config %q registered a field without a name", m.name))
	}
	if _, exists := m.index[f.Name]; exists {
		panic(fmt.Sprintf("schema: config %q registered field %q twice", m.name, f.Name))
	}
	m.index[f.Name] = len(m.fields)
	m.fields = append(m.fields, f)
	return m
}

// Name returns the model name used in error messages and documentation.
func (m *Model) Name() string { return m.name }

// Fields returns the declared fields in declaration order.
func (m *Model) Fields() []*Field { return m.fields }

// FieldByName looks up a declared field.
func (m *Model) FieldByName(name string) (*Field, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.fields[i], true
}

// AllowsAny reports whether the strictness flag is lowered for this model.
func (m *Model) AllowsAny() bool { return m.allowAny }

// SilencesAny reports whether the any-usage warning is suppressed.
func (m *Model) SilencesAny() bool { return m.silenceAny }
