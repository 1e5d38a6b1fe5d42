package schema

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochibot/mochibot/pkg/logger"
)

func legalTestModel() *Model {
	m := NewModel("LegalConfig")
	m.Register(&Field{Name: "a", Type: DictOf(StringType(), ListOf(IntType()))})
	m.Register(&Field{Name: "b", Type: ListOf(IntType())})
	m.Register(&Field{Name: "c", Type: SetOf(StringType())})
	m.Register(&Field{Name: "d", Type: Optional(StringType())})
	m.Register(&Field{Name: "e", Type: ModelOf(nestedTestModel())})
	return m
}

func TestBuild_Defaults(t *testing.T) {
	t.Run("Should construct with declared defaults", func(t *testing.T) {
		rec, err := legalTestModel().Build(nil)
		require.NoError(t, err)

		a, ok := rec.Get("a")
		require.True(t, ok)
		assert.Nil(t, a)
		assert.Nil(t, rec.GetSlice("b"))
		assert.Nil(t, rec.GetSet("c"))

		d, ok := rec.Get("d")
		require.True(t, ok)
		assert.Nil(t, d)

		nested := rec.GetRecord("e")
		require.NotNil(t, nested, "nested model defaults to its own default-constructed record")
		x, ok := nested.Get("x")
		require.True(t, ok)
		assert.Nil(t, x)
		assert.Equal(t, []any{123}, nested.GetSlice("y"))
	})

	t.Run("Should prefer a default factory over a default value", func(t *testing.T) {
		m := NewModel("Factory")
		m.Register(&Field{
			Name:        "items",
			Type:        ListOf(StringType()),
			Default:     []any{"unused"},
			DefaultFunc: func() any { return []any{"made"} },
		})
		rec, err := m.Build(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"made"}, rec.GetStringSlice("items"))
	})
}

func TestBuild_Values(t *testing.T) {
	t.Run("Should accept conforming values", func(t *testing.T) {
		rec, err := legalTestModel().Build(Values{
			"a": map[string]any{"scores": []any{1, 2, 3}},
			"b": []any{4, 5},
			"c": []any{"x", "y", "x"},
			"d": "present",
		})
		require.NoError(t, err)

		dict := rec.GetStringMap("a")
		require.Contains(t, dict, "scores")
		assert.Equal(t, []any{1, 2, 3}, dict["scores"])
		assert.Equal(t, []any{4, 5}, rec.GetSlice("b"))
		assert.Len(t, rec.GetSet("c"), 2)
		assert.Equal(t, "present", rec.GetString("d"))
	})

	t.Run("Should construct nested models from value maps", func(t *testing.T) {
		rec, err := legalTestModel().Build(Values{
			"e": map[string]any{"x": 7},
		})
		require.NoError(t, err)
		nested := rec.GetRecord("e")
		require.NotNil(t, nested)
		assert.Equal(t, 7, nested.GetInt("x"))
		assert.Equal(t, []any{123}, nested.GetSlice("y"))
	})

	t.Run("Should reject unknown fields", func(t *testing.T) {
		_, err := legalTestModel().Build(Values{"nope": 1})
		var unknown *UnknownFieldError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "nope", unknown.Field)
	})

	t.Run("Should reject values that do not conform to the declared shape", func(t *testing.T) {
		_, err := legalTestModel().Build(Values{"b": "not-a-list"})
		var valueErr *ValueError
		require.ErrorAs(t, err, &valueErr)
		assert.Equal(t, "b", valueErr.Field)
	})

	t.Run("Should reject list elements of the wrong shape", func(t *testing.T) {
		_, err := legalTestModel().Build(Values{"b": []any{1, "two"}})
		var valueErr *ValueError
		require.ErrorAs(t, err, &valueErr)
	})

	t.Run("Should reject a record of a different model as a nested value", func(t *testing.T) {
		other, err := NewModel("Other").Build(nil)
		require.NoError(t, err)
		_, err = legalTestModel().Build(Values{"e": other})
		var valueErr *ValueError
		require.ErrorAs(t, err, &valueErr)
	})
}

func TestBuild_GrammarGate(t *testing.T) {
	t.Run("Should abort construction on an any field under the strict flag", func(t *testing.T) {
		m := NewModel("StrictAny")
		m.Register(&Field{Name: "f", Type: AnyType()})
		_, err := m.Build(nil)
		v := requireViolation(t, err, ViolationAnyUsage)
		assert.Equal(t, "f", v.Field)
	})

	t.Run("Should abort construction on a nested generic", func(t *testing.T) {
		m := NewModel("NestedGeneric")
		m.Register(&Field{Name: "g", Type: ListOf(ListOf(IntType()))})
		_, err := m.Build(nil)
		v := requireViolation(t, err, ViolationNestedGeneric)
		assert.Equal(t, "g", v.Field)
	})

	t.Run("Should construct an any field when the strict flag is lowered", func(t *testing.T) {
		var buf bytes.Buffer
		logger.Init(&logger.Config{Level: logger.WarnLevel, Output: &buf})
		defer logger.Init(logger.TestConfig())

		m := NewModel("RelaxedAny", WithAllowAny())
		m.Register(&Field{Name: "f", Type: AnyType()})
		rec, err := m.Build(Values{"f": map[string]any{"free": "form"}})
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Contains(t, buf.String(), "f")
	})
}

func TestBuild_PostCheck(t *testing.T) {
	t.Run("Should run the post-construction hook after acceptance", func(t *testing.T) {
		hookErr := errors.New("name must not be empty")
		m := NewModel("Hooked", WithPostCheck(func(r *Record) error {
			if r.GetString("name") == "" {
				return hookErr
			}
			return nil
		}))
		m.Register(&Field{Name: "name", Type: StringType()})

		_, err := m.Build(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, hookErr)
		var postErr *PostCheckError
		assert.ErrorAs(t, err, &postErr)

		rec, err := m.Build(Values{"name": "ok"})
		require.NoError(t, err)
		assert.Equal(t, "ok", rec.GetString("name"))
	})
}

func TestRecord_Set(t *testing.T) {
	t.Run("Should re-apply acceptance checks on reassignment", func(t *testing.T) {
		rec, err := legalTestModel().Build(nil)
		require.NoError(t, err)

		require.NoError(t, rec.Set("d", "updated"))
		assert.Equal(t, "updated", rec.GetString("d"))

		err = rec.Set("d", 5)
		var valueErr *ValueError
		require.ErrorAs(t, err, &valueErr)
		assert.Equal(t, "updated", rec.GetString("d"), "failed writes must not change state")
	})

	t.Run("Should allow clearing an optional field", func(t *testing.T) {
		rec, err := legalTestModel().Build(Values{"d": "present"})
		require.NoError(t, err)
		require.NoError(t, rec.Set("d", nil))
		d, ok := rec.Get("d")
		require.True(t, ok)
		assert.Nil(t, d)
	})

	t.Run("Should reject unknown fields on reassignment", func(t *testing.T) {
		rec, err := legalTestModel().Build(nil)
		require.NoError(t, err)
		err = rec.Set("nope", 1)
		var unknown *UnknownFieldError
		require.ErrorAs(t, err, &unknown)
	})
}

func TestBuild_Idempotence(t *testing.T) {
	t.Run("Should produce identical outcomes across records of one model", func(t *testing.T) {
		m := legalTestModel()
		first, err := m.Build(nil)
		require.NoError(t, err)
		second, err := m.Build(nil)
		require.NoError(t, err)

		assert.Equal(t, first.Docs(), second.Docs())
		assert.Same(t, first.Model(), second.Model())
	})
}

func TestRecord_ToMap(t *testing.T) {
	t.Run("Should flatten nested records and sets", func(t *testing.T) {
		rec, err := legalTestModel().Build(Values{
			"c": []any{"only"},
			"e": map[string]any{"x": 1},
		})
		require.NoError(t, err)

		out := rec.ToMap()
		nested, ok := out["e"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 1, nested["x"])
		set, ok := out["c"].([]any)
		require.True(t, ok)
		assert.Equal(t, []any{"only"}, set)
	})

	t.Run("Should flatten records inside non-string-keyed dicts", func(t *testing.T) {
		m := NewModel("Routing")
		m.Register(&Field{
			Name: "handlers",
			Type: DictOf(IntType(), ModelOf(nestedTestModel())),
		})
		rec, err := m.Build(Values{
			"handlers": map[int]any{7: map[string]any{"x": 1}},
		})
		require.NoError(t, err)

		out := rec.ToMap()
		handlers, ok := out["handlers"].(map[any]any)
		require.True(t, ok)
		entry, ok := handlers[7].(map[string]any)
		require.True(t, ok, "nested record must flatten to a plain map, got %T", handlers[7])
		assert.Equal(t, 1, entry["x"])
		assert.Equal(t, []any{123}, entry["y"])
	})
}

func TestBuild_BytesSets(t *testing.T) {
	t.Run("Should store byte set elements in hashable form", func(t *testing.T) {
		m := singleFieldModel(t, SetOf(BytesType()))
		rec, err := m.Build(Values{
			"value": [][]byte{[]byte("a"), []byte("b"), []byte("a")},
		})
		require.NoError(t, err)

		set := rec.GetSet("value")
		require.Len(t, set, 2)
		_, ok := set["a"]
		assert.True(t, ok)
		_, ok = set["b"]
		assert.True(t, ok)
	})

	t.Run("Should accept byte dict keys the same way", func(t *testing.T) {
		m := singleFieldModel(t, DictOf(BytesType(), IntType()))
		rec, err := m.Build(Values{
			"value": map[string]any{"k": 1},
		})
		require.NoError(t, err)

		dict, ok := rec.values["value"].(map[any]any)
		require.True(t, ok)
		assert.Equal(t, 1, dict["k"])
	})
}
