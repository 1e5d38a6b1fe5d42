package schema

import "strings"

// DocMap maps field names to their documentation strings. It is computed
// once per model, cached at model scope, and never mutated afterwards.
type DocMap map[string]string

// Docs returns the model's field documentation map, computing it on first
// use. The computation is deterministic, so concurrent first use is safe.
func (m *Model) Docs() DocMap {
	m.docsOnce.Do(func() {
		docs := make(DocMap, len(m.fields))
		for _, f := range m.fields {
			if doc := NormalizeDoc(f.Doc); doc != "" {
				docs[f.Name] = doc
			}
		}
		m.docs = docs
	})
	return m.docs
}

// NormalizeDoc cleans a raw documentation string: every line is trimmed and
// leading and trailing blank lines are dropped.
func NormalizeDoc(raw string) string {
	if raw == "" {
		return ""
	}
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	start := 0
	for start < len(lines) && lines[start] == "" {
		start++
	}
	end := len(lines)
	for end > start && lines[end-1] == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
