package docgen

import (
	"fmt"
	"strings"

	"github.com/mochibot/mochibot/pkg/schema"
)

// Markdown renders the configuration reference for every model as one
// document, in model order.
func (g *Generator) Markdown() []byte {
	var b strings.Builder
	b.WriteString("# Configuration Reference\n")
	for _, m := range g.models {
		writeModelSection(&b, m)
	}
	return []byte(b.String())
}

func writeModelSection(b *strings.Builder, m *schema.Model) {
	fmt.Fprintf(b, "\n## %s\n\n", m.Name())
	b.WriteString("| Field | Type | Default | Description |\n")
	b.WriteString("|---|---|---|---|\n")
	docs := m.Docs()
	for _, f := range m.Fields() {
		fmt.Fprintf(b, "| `%s` | `%s` | %s | %s |\n",
			f.Name, f.Type.String(), defaultCell(f), tableCell(docs[f.Name]))
	}
}

func defaultCell(f *schema.Field) string {
	value := f.Default
	if value == nil && f.DefaultFunc != nil {
		value = f.DefaultFunc()
	}
	if value == nil {
		return ""
	}
	return tableCell(fmt.Sprintf("`%v`", value))
}

// tableCell flattens multi-line text into a single table cell.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "\n\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
