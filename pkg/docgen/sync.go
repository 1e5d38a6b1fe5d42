package docgen

import (
	"errors"
	"fmt"

	"github.com/mochibot/mochibot/pkg/schema"
	"github.com/mochibot/mochibot/pkg/schema/srcdoc"
)

// CheckSourceDocs verifies that the doc comments of the typed view structs
// in the Go source file at path match the documentation carried by their
// descriptor models. bindings maps struct type names to descriptors.
//
// Every descriptor doc must appear verbatim on the corresponding struct
// field; struct docs with no descriptor counterpart are reported too, so
// the two cannot drift apart silently.
func CheckSourceDocs(ex *srcdoc.Extractor, path string, bindings map[string]*schema.Model) error {
	var errs []error
	for typeName, m := range bindings {
		sourceDocs, err := ex.ExtractFile(path, typeName)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		modelDocs := m.Docs()
		for field, want := range modelDocs {
			got, ok := sourceDocs[field]
			if !ok {
				errs = append(errs, fmt.Errorf(
					"%s.%s: missing doc comment on the typed view", typeName, field))
				continue
			}
			if got != want {
				errs = append(errs, fmt.Errorf(
					"%s.%s: doc comment diverged from descriptor:\n  descriptor: %q\n  source:     %q",
					typeName, field, want, got))
			}
		}
		for field := range sourceDocs {
			if _, ok := modelDocs[field]; !ok {
				errs = append(errs, fmt.Errorf(
					"%s.%s: documented in source but absent from descriptor %s",
					typeName, field, m.Name()))
			}
		}
	}
	return errors.Join(errs...)
}
