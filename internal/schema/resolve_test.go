package schema

import (
	"errors"
	"testing"
)

// mapLoader serves schemas from a map, standing in for the CLI's
// directory-backed loader.
type mapLoader map[string]*SchemaDefinition

func (m mapLoader) Load(name string) (*SchemaDefinition, error) {
	def, ok := m[name]
	if !ok {
		return nil, errors.New("not found: " + name)
	}
	return def, nil
}

func textField(name string) FieldDefinition {
	return FieldDefinition{Name: name, Type: LogicalType{Kind: KindString}}
}

func fieldNames(t *testing.T, fields []FieldDefinition) []string {
	t.Helper()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func assertNames(t *testing.T, got []FieldDefinition, want []string) {
	t.Helper()
	names := fieldNames(t, got)
	if len(names) != len(want) {
		t.Fatalf("Expected fields %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Expected fields %v, got %v", want, names)
		}
	}
}

func TestResolveWithoutParent(t *testing.T) {
	def := &SchemaDefinition{
		Name:   "Listing",
		Fields: []FieldDefinition{textField("id"), textField("entity_name")},
	}

	fields, err := Resolve(def, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	assertNames(t, fields, []string{"id", "entity_name"})
}

func TestResolveSingleLevel(t *testing.T) {
	parent := &SchemaDefinition{
		Name:   "Listing",
		Fields: []FieldDefinition{textField("id"), textField("entity_name")},
	}
	child := &SchemaDefinition{
		Name:    "Venue",
		Extends: "Listing",
		Fields: []FieldDefinition{
			{Name: "capacity", Type: LogicalType{Kind: KindInteger}, Nullable: true},
		},
	}

	fields, err := Resolve(child, mapLoader{"Listing": parent})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// Parent fields first, then child fields.
	assertNames(t, fields, []string{"id", "entity_name", "capacity"})
}

func TestResolveChildOverridesParent(t *testing.T) {
	parent := &SchemaDefinition{
		Name: "Listing",
		Fields: []FieldDefinition{
			textField("id"),
			textField("entity_name"),
			textField("website"),
		},
	}
	child := &SchemaDefinition{
		Name:    "Venue",
		Extends: "Listing",
		Fields: []FieldDefinition{
			{Name: "entity_name", Type: LogicalType{Kind: KindString}, Description: "venue override"},
			textField("capacity"),
		},
	}

	fields, err := Resolve(child, mapLoader{"Listing": parent})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// Each name appears once; the override stays at the parent's
	// position; the child's definition wins.
	assertNames(t, fields, []string{"id", "entity_name", "website", "capacity"})
	if fields[1].Description != "venue override" {
		t.Errorf("Expected child definition to win, got %+v", fields[1])
	}
}

func TestResolveMultiLevel(t *testing.T) {
	base := &SchemaDefinition{Name: "BaseEntity", Fields: []FieldDefinition{textField("id")}}
	listing := &SchemaDefinition{Name: "Listing", Extends: "BaseEntity",
		Fields: []FieldDefinition{textField("entity_name")}}
	venue := &SchemaDefinition{Name: "Venue", Extends: "Listing",
		Fields: []FieldDefinition{textField("capacity")}}

	loader := mapLoader{"BaseEntity": base, "Listing": listing}
	fields, err := Resolve(venue, loader)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	assertNames(t, fields, []string{"id", "entity_name", "capacity"})
}

func TestResolveCycle(t *testing.T) {
	a := &SchemaDefinition{Name: "A", Extends: "B"}
	b := &SchemaDefinition{Name: "B", Extends: "A"}

	_, err := Resolve(a, mapLoader{"A": a, "B": b})
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected CycleError, got %v", err)
	}
	if len(ce.Chain) < 3 {
		t.Errorf("Chain should include the closing schema, got %v", ce.Chain)
	}
}

func TestResolveSelfCycle(t *testing.T) {
	a := &SchemaDefinition{Name: "A", Extends: "A"}

	_, err := Resolve(a, mapLoader{"A": a})
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected CycleError, got %v", err)
	}
}

func TestResolveMissingLoader(t *testing.T) {
	def := &SchemaDefinition{Name: "Venue", Extends: "Listing"}
	if _, err := Resolve(def, nil); err == nil {
		t.Error("Expected error when a parent is named but no loader is provided")
	}
}

func TestResolveParent(t *testing.T) {
	parent := &SchemaDefinition{
		Name:   "Listing",
		Fields: []FieldDefinition{textField("id"), textField("entity_name")},
	}
	child := &SchemaDefinition{
		Name:    "Venue",
		Extends: "Listing",
		Fields:  []FieldDefinition{textField("capacity")},
	}

	fields, err := ResolveParent(child, mapLoader{"Listing": parent})
	if err != nil {
		t.Fatalf("ResolveParent failed: %v", err)
	}
	assertNames(t, fields, []string{"id", "entity_name"})

	fields, err = ResolveParent(parent, nil)
	if err != nil {
		t.Fatalf("ResolveParent failed: %v", err)
	}
	if fields != nil {
		t.Errorf("Expected nil for a schema without a parent, got %v", fieldNames(t, fields))
	}
}
