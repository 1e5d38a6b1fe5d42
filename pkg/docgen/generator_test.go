package docgen

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochibot/mochibot/pkg/logger"
	"github.com/mochibot/mochibot/pkg/schema"
	"github.com/mochibot/mochibot/pkg/schema/srcdoc"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return logger.ContextWithLogger(t.Context(), logger.NewLogger(logger.TestConfig()))
}

func serverModel() *schema.Model {
	m := schema.NewModel("ServerLimits")
	m.Register(&schema.Field{
		Name:    "host",
		Type:    schema.StringType(),
		Default: "localhost",
		Doc:     "Host to bind.",
	})
	m.Register(&schema.Field{
		Name:    "port",
		Type:    schema.IntType(),
		Default: 8080,
		Doc:     "Port to bind.",
	})
	m.Register(&schema.Field{
		Name: "limits",
		Type: schema.DictOf(schema.StringType(), schema.FloatType()),
		Doc:  "Per-route rate limits.",
	})
	m.Register(&schema.Field{
		Name: "debug_token",
		Type: schema.Optional(schema.StringType()),
		Doc:  "Token enabling debug endpoints, unset in production.",
	})
	return m
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("Should write one schema file per model and a reference", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "docs")
		gen := NewGenerator([]*schema.Model{serverModel()})
		require.NoError(t, gen.Generate(testContext(t), outDir))

		data, err := os.ReadFile(filepath.Join(outDir, "server_limits.json"))
		require.NoError(t, err)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, "ServerLimits", raw["title"])
		assert.Equal(t, "object", raw["type"])

		props, ok := raw["properties"].(map[string]any)
		require.True(t, ok)
		host, ok := props["host"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "string", host["type"])
		assert.Equal(t, "localhost", host["default"])
		assert.Equal(t, "Host to bind.", host["description"])

		_, err = os.Stat(filepath.Join(outDir, MarkdownFileName))
		assert.NoError(t, err)
	})

	t.Run("Should refuse a model that fails its own grammar", func(t *testing.T) {
		bad := schema.NewModel("Broken")
		bad.Register(&schema.Field{Name: "pair", Type: schema.TupleOf(schema.IntType(), schema.IntType())})
		gen := NewGenerator([]*schema.Model{bad})

		err := gen.Generate(testContext(t), t.TempDir())
		var violation *schema.GrammarViolation
		require.ErrorAs(t, err, &violation)
	})
}

func TestSpecSchema(t *testing.T) {
	t.Run("Should render an optional field as anyOf with null", func(t *testing.T) {
		data, err := json.Marshal(specSchema(schema.Optional(schema.IntType())))
		require.NoError(t, err)
		assert.JSONEq(t, `{"anyOf":[{"type":"integer"},{"type":"null"}]}`, string(data))
	})

	t.Run("Should render sets as unique arrays", func(t *testing.T) {
		data, err := json.Marshal(specSchema(schema.SetOf(schema.StringType())))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"array","items":{"type":"string"},"uniqueItems":true}`, string(data))
	})

	t.Run("Should inline nested model schemas", func(t *testing.T) {
		parent := schema.NewModel("Parent")
		parent.Register(&schema.Field{Name: "server", Type: schema.ModelOf(serverModel())})

		data, err := json.Marshal(modelSchema(parent))
		require.NoError(t, err)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		props := raw["properties"].(map[string]any)
		server := props["server"].(map[string]any)
		assert.Equal(t, "object", server["type"])
		assert.Contains(t, server["properties"], "port")
	})
}

func TestGenerator_Markdown(t *testing.T) {
	t.Run("Should render a field table per model", func(t *testing.T) {
		out := string(NewGenerator([]*schema.Model{serverModel()}).Markdown())
		assert.Contains(t, out, "## ServerLimits")
		assert.Contains(t, out, "| `port` | `int` | `8080` | Port to bind. |")
		assert.Contains(t, out, "| `limits` | `dict[string, float]` |  | Per-route rate limits. |")
	})
}

func TestCheckSourceDocs(t *testing.T) {
	writeSource := func(t *testing.T, src string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "types.go")
		require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
		return path
	}

	t.Run("Should pass when source comments match the descriptor", func(t *testing.T) {
		path := writeSource(t, `package web

type ServerLimits struct {
	// Host to bind.
	Host string `+"`koanf:\"host\"`"+`

	// Port to bind.
	Port int `+"`koanf:\"port\"`"+`

	// Per-route rate limits.
	Limits map[string]float64 `+"`koanf:\"limits\"`"+`

	// Token enabling debug endpoints, unset in production.
	DebugToken *string `+"`koanf:\"debug_token\"`"+`
}
`)
		err := CheckSourceDocs(srcdoc.NewExtractor(), path,
			map[string]*schema.Model{"ServerLimits": serverModel()})
		assert.NoError(t, err)
	})

	t.Run("Should report diverged and missing comments", func(t *testing.T) {
		path := writeSource(t, `package web

type ServerLimits struct {
	// Hostname to listen on.
	Host string `+"`koanf:\"host\"`"+`

	Port int `+"`koanf:\"port\"`"+`

	// Per-route rate limits.
	Limits map[string]float64 `+"`koanf:\"limits\"`"+`

	// Token enabling debug endpoints, unset in production.
	DebugToken *string `+"`koanf:\"debug_token\"`"+`
}
`)
		err := CheckSourceDocs(srcdoc.NewExtractor(), path,
			map[string]*schema.Model{"ServerLimits": serverModel()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ServerLimits.host: doc comment diverged")
		assert.Contains(t, err.Error(), "ServerLimits.port: missing doc comment")
	})

	t.Run("Should surface source lookup failures", func(t *testing.T) {
		path := writeSource(t, "package web\n")
		err := CheckSourceDocs(srcdoc.NewExtractor(), path,
			map[string]*schema.Model{"ServerLimits": serverModel()})
		var lookupErr *srcdoc.SourceLookupError
		require.ErrorAs(t, err, &lookupErr)
	})
}
