// Package srcdoc recovers field documentation from the textual declaration
// of a configuration struct. Descriptor tables carry their docs inline; this
// extractor exists for the typed view structs that mirror them, so their doc
// comments can be extracted and kept in sync with the descriptors.
//
// Configuration structs are pure data: besides the designated
// post-construction hook no method may be declared on them.
package srcdoc

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mochibot/mochibot/pkg/schema"
)

// HookName is the one method a configuration struct may declare: its
// post-construction hook for business rule checks.
const HookName = "Validate"

const parsedFileCacheSize = 64

// FailureKind classifies source lookup failures.
type FailureKind int

const (
	// ClassNotFound means the type's own declaration could not be located
	// in the scanned source unit.
	ClassNotFound FailureKind = iota
	// DisallowedMethod means the type declares a method other than the
	// designated post-construction hook.
	DisallowedMethod
)

// SourceLookupError reports a failed documentation extraction.
type SourceLookupError struct {
	Type   string
	Kind   FailureKind
	Detail string
}

func (e *SourceLookupError) Error() string {
	switch e.Kind {
	case ClassNotFound:
		return fmt.Sprintf("config type %q not found in source: %s", e.Type, e.Detail)
	case DisallowedMethod:
		return fmt.Sprintf(
			"config type %q declares method %q: only the %s hook is allowed on configuration types",
			e.Type, e.Detail, HookName)
	}
	return fmt.Sprintf("source lookup failed for config type %q", e.Type)
}

// Extractor parses Go source units and extracts per-field documentation.
// Parsed files are cached; extraction is deterministic and safe for
// concurrent use.
type Extractor struct {
	cache *lru.Cache[string, *ast.File]
}

func NewExtractor() *Extractor {
	cache, err := lru.New[string, *ast.File](parsedFileCacheSize)
	if err != nil {
		panic(fmt.Sprintf("srcdoc: building parse cache: %v", err))
	}
	return &Extractor{cache: cache}
}

// ExtractFile extracts the doc map of typeName from the Go source file at
// path.
func (e *Extractor) ExtractFile(path, typeName string) (schema.DocMap, error) {
	file, ok := e.cache.Get(path)
	if !ok {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading source of %q: %w", typeName, err)
		}
		file, err = parseSource(path, src)
		if err != nil {
			return nil, err
		}
		e.cache.Add(path, file)
	}
	return extract(file, typeName)
}

// ExtractSource extracts the doc map of typeName from in-memory source.
func (e *Extractor) ExtractSource(filename string, src []byte, typeName string) (schema.DocMap, error) {
	file, err := parseSource(filename, src)
	if err != nil {
		return nil, err
	}
	return extract(file, typeName)
}

func parseSource(filename string, src []byte) (*ast.File, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return file, nil
}

func extract(file *ast.File, typeName string) (schema.DocMap, error) {
	structType := findStruct(file, typeName)
	if structType == nil {
		return nil, &SourceLookupError{
			Type:   typeName,
			Kind:   ClassNotFound,
			Detail: "no struct declaration with that name",
		}
	}
	if method := disallowedMethod(file, typeName); method != "" {
		return nil, &SourceLookupError{
			Type:   typeName,
			Kind:   DisallowedMethod,
			Detail: method,
		}
	}
	docs := make(schema.DocMap)
	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			continue
		}
		doc := schema.NormalizeDoc(field.Doc.Text())
		if doc == "" {
			continue
		}
		docs[fieldKey(field)] = doc
	}
	return docs, nil
}

func findStruct(file *ast.File, typeName string) *ast.StructType {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.Name.Name != typeName {
				continue
			}
			if structType, ok := typeSpec.Type.(*ast.StructType); ok {
				return structType
			}
		}
	}
	return nil
}

// disallowedMethod returns the name of the first method declared on the
// type that is not the designated hook.
func disallowedMethod(file *ast.File, typeName string) string {
	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok || funcDecl.Recv == nil || len(funcDecl.Recv.List) != 1 {
			continue
		}
		if receiverType(funcDecl.Recv.List[0].Type) != typeName {
			continue
		}
		if funcDecl.Name.Name != HookName {
			return funcDecl.Name.Name
		}
	}
	return ""
}

func receiverType(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

// fieldKey prefers the koanf tag name, matching the keys descriptor tables
// use, and falls back to the Go field name.
func fieldKey(field *ast.Field) string {
	if field.Tag != nil {
		tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
		if name := tag.Get("koanf"); name != "" && name != "-" {
			if i := strings.Index(name, ","); i >= 0 {
				name = name[:i]
			}
			return name
		}
	}
	return field.Names[0].Name
}
