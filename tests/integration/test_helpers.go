//go:build integration
// +build integration

package integration

import (
	"errors"
	"testing"

	"github.com/venulist/schemagen"
	"github.com/venulist/schemagen/internal/dbcheck"
	"github.com/venulist/schemagen/internal/schema"
)

const listingYAML = `
schema:
  name: Listing
  description: A place listing.
fields:
  - name: id
    type: string
    description: Stable identifier.
    primary_key: true
    internal: true
  - name: entity_name
    type: string
    description: Canonical display name.
    required: true
    index: true
  - name: website
    type: string
    description: Official website.
    nullable: true
  - name: open_hours
    type: json
    description: Opening hours blob.
    nullable: true
  - name: created_at
    type: datetime
    description: Row creation time.
    default: current-timestamp
`

const venueYAML = `
schema:
  name: Venue
  description: A venue that hosts events.
  extends: Listing
fields:
  - name: capacity
    type: integer
    description: Maximum seated capacity.
    nullable: true
`

// listingLoader serves the parent schema for inheritance tests.
func listingLoader() schemagen.Loader {
	return schemagen.LoaderFunc(func(name string) (*schema.SchemaDefinition, error) {
		if name == "Listing" {
			return schema.Parse([]byte(listingYAML))
		}
		return nil, errors.New("not found: " + name)
	})
}

// generateDDL compiles a schema source to the storage target.
func generateDDL(t *testing.T, src string, loader schemagen.Loader, dialect schemagen.Dialect) string {
	t.Helper()

	f, err := schemagen.GenerateTarget([]byte(src), loader, schemagen.TargetStorage, &schemagen.Options{
		Dialect: dialect,
	})
	if err != nil {
		t.Fatalf("Failed to generate storage schema: %v", err)
	}
	return f.Content
}

// verifyColumns checks that the expected columns exist in introspection
// order.
func verifyColumns(t *testing.T, columns []dbcheck.Column, expected []string) {
	t.Helper()

	if len(columns) != len(expected) {
		t.Errorf("Expected %d columns, got %d: %+v", len(expected), len(columns), columns)
		return
	}
	for i, name := range expected {
		if columns[i].Name != name {
			t.Errorf("Expected column %s at position %d, got %s", name, i, columns[i].Name)
		}
	}
}

// findColumn is a helper function to find a column by name.
func findColumn(columns []dbcheck.Column, name string) *dbcheck.Column {
	for i := range columns {
		if columns[i].Name == name {
			return &columns[i]
		}
	}
	return nil
}

// verifyNotNull checks a column's nullability constraint.
func verifyNotNull(t *testing.T, columns []dbcheck.Column, name string, notNull bool) {
	t.Helper()

	col := findColumn(columns, name)
	if col == nil {
		t.Errorf("Column %s not found", name)
		return
	}
	if col.NotNull != notNull {
		t.Errorf("Expected column %s NOT NULL = %v, got %v", name, notNull, col.NotNull)
	}
}
