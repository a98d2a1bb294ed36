package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/venulist/schemagen/internal/generator"
	"github.com/venulist/schemagen/internal/schema"
)

// dirLoader resolves parent schemas by name from a schema directory.
// Parsed definitions are cached so multi-level chains reparse nothing.
type dirLoader struct {
	dir   string
	cache map[string]*schema.SchemaDefinition
}

func newDirLoader(dir string) *dirLoader {
	return &dirLoader{dir: dir, cache: make(map[string]*schema.SchemaDefinition)}
}

func (l *dirLoader) Load(name string) (*schema.SchemaDefinition, error) {
	if def, ok := l.cache[name]; ok {
		return def, nil
	}

	// Conventional filename first, then a directory scan for schemas
	// whose file name does not match their declared name.
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(l.dir, generator.SnakeCase(name)+ext)
		if def := l.tryParse(path); def != nil && def.Name == name {
			l.cache[name] = def
			return def, nil
		}
	}

	files, err := listSchemaFiles(l.dir)
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		if def := l.tryParse(path); def != nil && def.Name == name {
			l.cache[name] = def
			return def, nil
		}
	}
	return nil, fmt.Errorf("parent schema %q not found in %s", name, l.dir)
}

func (l *dirLoader) tryParse(path string) *schema.SchemaDefinition {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	def, err := schema.Parse(src)
	if err != nil {
		return nil
	}
	return def
}
