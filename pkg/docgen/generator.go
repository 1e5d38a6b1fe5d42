// Package docgen renders configuration references from descriptor models:
// JSON Schema files for editor tooling and a Markdown reference for humans.
package docgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mochibot/mochibot/pkg/logger"
	"github.com/mochibot/mochibot/pkg/schema"
)

// MarkdownFileName is the rendered Markdown reference file.
const MarkdownFileName = "settings.md"

type Generator struct {
	models []*schema.Model
}

// NewGenerator builds a generator over the given models. The models are
// rendered in the given order; nested models referenced by fields are
// inlined into their parents' schemas.
func NewGenerator(models []*schema.Model) *Generator {
	return &Generator{models: models}
}

// Generate writes one JSON Schema file per model plus the Markdown
// reference into outDir.
func (g *Generator) Generate(ctx context.Context, outDir string) error {
	log := logger.FromContext(ctx)
	log.Info("Generating configuration reference", "models", len(g.models))
	for _, m := range g.models {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("refusing to document invalid model: %w", err)
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for _, m := range g.models {
		group.Go(func() error {
			schemaJSON, err := buildJSONSchema(m)
			if err != nil {
				return fmt.Errorf("failed to build schema for %s: %w", m.Name(), err)
			}
			filePath := filepath.Join(outDir, schemaFileName(m))
			if err := os.WriteFile(filePath, schemaJSON, 0o600); err != nil {
				return fmt.Errorf("failed to write schema to %s: %w", filePath, err)
			}
			log.Info("Generated schema", "file", filePath)
			return nil
		})
	}
	group.Go(func() error {
		filePath := filepath.Join(outDir, MarkdownFileName)
		if err := os.WriteFile(filePath, g.Markdown(), 0o600); err != nil {
			return fmt.Errorf("failed to write reference to %s: %w", filePath, err)
		}
		log.Info("Generated reference", "file", filePath)
		return nil
	})
	return group.Wait()
}

func schemaFileName(m *schema.Model) string {
	return snakeCase(m.Name()) + ".json"
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
