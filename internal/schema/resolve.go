package schema

import "fmt"

// Loader fetches a named parent schema during inheritance resolution.
type Loader interface {
	Load(name string) (*SchemaDefinition, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(name string) (*SchemaDefinition, error)

func (f LoaderFunc) Load(name string) (*SchemaDefinition, error) { return f(name) }

// Resolve flattens a schema's inheritance chain into its resolved field
// list: parent fields first, then child fields, with name collisions
// resolved in favor of the child's definition while keeping the first
// occurrence's position. The ordering is stable across regenerations.
func Resolve(def *SchemaDefinition, loader Loader) ([]FieldDefinition, error) {
	fields, err := chainFields(def, loader, map[string]bool{}, nil)
	if err != nil {
		return nil, err
	}
	return dedupe(fields), nil
}

// ResolveParent returns the flattened field list of a schema's parent,
// or nil when the schema has no parent.
func ResolveParent(def *SchemaDefinition, loader Loader) ([]FieldDefinition, error) {
	if def.Extends == "" {
		return nil, nil
	}
	parent, err := loadParent(def, loader)
	if err != nil {
		return nil, err
	}
	fields, err := chainFields(parent, loader, map[string]bool{def.Name: true}, []string{def.Name})
	if err != nil {
		return nil, err
	}
	return dedupe(fields), nil
}

func chainFields(def *SchemaDefinition, loader Loader, visited map[string]bool, chain []string) ([]FieldDefinition, error) {
	if visited[def.Name] {
		return nil, &CycleError{Chain: append(chain, def.Name)}
	}
	visited[def.Name] = true
	chain = append(chain, def.Name)

	if def.Extends == "" {
		return def.Fields, nil
	}

	parent, err := loadParent(def, loader)
	if err != nil {
		return nil, err
	}
	parentFields, err := chainFields(parent, loader, visited, chain)
	if err != nil {
		return nil, err
	}

	fields := make([]FieldDefinition, 0, len(parentFields)+len(def.Fields))
	fields = append(fields, parentFields...)
	fields = append(fields, def.Fields...)
	return fields, nil
}

func loadParent(def *SchemaDefinition, loader Loader) (*SchemaDefinition, error) {
	if loader == nil {
		return nil, fmt.Errorf("schema %q extends %q but no loader was provided", def.Name, def.Extends)
	}
	parent, err := loader.Load(def.Extends)
	if err != nil {
		return nil, fmt.Errorf("schema %q: loading parent %q: %w", def.Name, def.Extends, err)
	}
	return parent, nil
}

// dedupe keeps the last definition of each name at the position of its
// first occurrence.
func dedupe(fields []FieldDefinition) []FieldDefinition {
	last := make(map[string]FieldDefinition, len(fields))
	for _, f := range fields {
		last[f.Name] = f
	}

	out := make([]FieldDefinition, 0, len(last))
	seen := make(map[string]bool, len(last))
	for _, f := range fields {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		out = append(out, last[f.Name])
	}
	return out
}
