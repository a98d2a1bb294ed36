package schema

import (
	"errors"
	"strings"
	"testing"
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
    default: generate-unique-id
  - name: entity_name
    type: string
    description: Canonical display name.
    required: true
    index: true
    search_category: identity
    search_keywords: [name, title]
  - name: website
    type: string
    description: Official website.
    nullable: true
    targets:
      extraction:
        validators: [url_with_scheme]
  - name: categories
    type: list[string]
    description: Assigned categories.
    nullable: true
  - name: open_hours
    type: json
    description: Opening hours blob.
    nullable: true
  - name: created_at
    type: datetime
    description: Row creation time.
    default: current-timestamp
extraction_fields:
  - name: confidence
    type: float
    description: Extractor self-reported confidence.
    nullable: true
`

func TestParseListing(t *testing.T) {
	def, err := Parse([]byte(listingYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if def.Name != "Listing" {
		t.Errorf("Name = %q, want Listing", def.Name)
	}
	if def.Extends != "" {
		t.Errorf("Extends = %q, want empty", def.Extends)
	}
	if len(def.Fields) != 6 {
		t.Fatalf("Expected 6 fields, got %d", len(def.Fields))
	}
	if len(def.ExtractionFields) != 1 {
		t.Fatalf("Expected 1 extraction field, got %d", len(def.ExtractionFields))
	}

	// Field order is declaration order.
	wantOrder := []string{"id", "entity_name", "website", "categories", "open_hours", "created_at"}
	for i, name := range wantOrder {
		if def.Fields[i].Name != name {
			t.Errorf("Fields[%d].Name = %q, want %q", i, def.Fields[i].Name, name)
		}
	}

	name := def.Fields[1]
	if !name.Required || name.Nullable || !name.Index {
		t.Errorf("entity_name flags wrong: %+v", name)
	}
	if name.SearchCategory != "identity" || len(name.SearchKeywords) != 2 {
		t.Errorf("entity_name search metadata not passed through: %+v", name)
	}

	website := def.Fields[2]
	o, ok := website.Override(TargetExtraction)
	if !ok || len(o.Validators) != 1 || o.Validators[0] != "url_with_scheme" {
		t.Errorf("website extraction override wrong: %+v", o)
	}

	if def.Fields[3].Type.String() != "list[string]" {
		t.Errorf("categories type = %q", def.Fields[3].Type.String())
	}
}

func TestParseRecordsParentWithoutResolving(t *testing.T) {
	src := `
schema:
  name: Venue
  description: A venue.
  extends: Listing
fields:
  - name: capacity
    type: integer
    description: Maximum seated capacity.
    nullable: true
`
	def, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if def.Extends != "Listing" {
		t.Errorf("Extends = %q, want Listing", def.Extends)
	}
	// Only the child's own fields; no ancestor loading at parse time.
	if len(def.Fields) != 1 || def.Fields[0].Name != "capacity" {
		t.Errorf("own fields = %+v", def.Fields)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{
			name:    "empty document",
			src:     "",
			wantMsg: "empty schema description",
		},
		{
			name: "missing schema name",
			src: `
schema:
  description: No name.
fields: []
`,
			wantMsg: "schema name is required",
		},
		{
			name: "missing description",
			src: `
schema:
  name: Listing
fields: []
`,
			wantMsg: "schema description is required",
		},
		{
			name: "missing field name",
			src: `
schema:
  name: Listing
  description: A listing.
fields:
  - type: string
`,
			wantMsg: "field name is required",
		},
		{
			name: "missing field type",
			src: `
schema:
  name: Listing
  description: A listing.
fields:
  - name: entity_name
`,
			wantMsg: "field type is required",
		},
		{
			name: "type outside catalog",
			src: `
schema:
  name: Listing
  description: A listing.
fields:
  - name: price
    type: decimal
`,
			wantMsg: "not in the type catalog",
		},
		{
			name: "required and nullable contradiction",
			src: `
schema:
  name: Listing
  description: A listing.
fields:
  - name: entity_name
    type: string
    required: true
    nullable: true
`,
			wantMsg: "required fields cannot be nullable",
		},
		{
			name: "duplicate field name",
			src: `
schema:
  name: Listing
  description: A listing.
fields:
  - name: entity_name
    type: string
  - name: entity_name
    type: string
`,
			wantMsg: "duplicate field name",
		},
		{
			name: "unknown top-level key",
			src: `
schema:
  name: Listing
  description: A listing.
fields: []
outputs: []
`,
			wantMsg: "outputs",
		},
		{
			name: "unknown field key",
			src: `
schema:
  name: Listing
  description: A listing.
fields:
  - name: entity_name
    type: string
    indexed: true
`,
			wantMsg: "indexed",
		},
		{
			name: "unknown override key",
			src: `
schema:
  name: Listing
  description: A listing.
fields:
  - name: entity_name
    type: string
    targets:
      storage:
        column: display_name
`,
			wantMsg: "column",
		},
		{
			name: "unknown override target",
			src: `
schema:
  name: Listing
  description: A listing.
fields:
  - name: entity_name
    type: string
    targets:
      graphql:
        rename: entityName
`,
			wantMsg: `unknown override target "graphql"`,
		},
		{
			name: "required override outside extraction",
			src: `
schema:
  name: Listing
  description: A listing.
fields:
  - name: entity_name
    type: string
    targets:
      storage:
        required: true
`,
			wantMsg: "only valid for the extraction target",
		},
		{
			name: "malformed foreign key",
			src: `
schema:
  name: Listing
  description: A listing.
fields:
  - name: category_id
    type: integer
    foreign_key: categories
`,
			wantMsg: "table.column",
		},
		{
			name: "extraction field type outside catalog",
			src: `
schema:
  name: Listing
  description: A listing.
fields: []
extraction_fields:
  - name: confidence
    type: probability
`,
			wantMsg: "not in the type catalog",
		},
		{
			name: "extraction field duplicates base field",
			src: `
schema:
  name: Listing
  description: A listing.
fields:
  - name: entity_name
    type: string
extraction_fields:
  - name: entity_name
    type: string
`,
			wantMsg: "duplicates a base field name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Expected ParseError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
