package fieldmeta

import "testing"

var listingFields = []Field{
	{Name: "id", Type: "string", Internal: true},
	{Name: "entity_name", Type: "string", Required: true,
		SearchCategory: "identity", SearchKeywords: []string{"name", "title"}},
	{Name: "website", Type: "string", Nullable: true},
	{Name: "capacity", Type: "integer", Nullable: true, SearchKeywords: []string{"seats"}},
}

func TestByName(t *testing.T) {
	f, ok := ByName(listingFields, "website")
	if !ok || f.Name != "website" || !f.Nullable {
		t.Errorf("ByName(website) = %+v, %v", f, ok)
	}

	if _, ok := ByName(listingFields, "missing"); ok {
		t.Error("ByName should miss on unknown names")
	}
}

func TestWithSearch(t *testing.T) {
	got := WithSearch(listingFields)
	if len(got) != 2 {
		t.Fatalf("Expected 2 search fields, got %d", len(got))
	}
	if got[0].Name != "entity_name" || got[1].Name != "capacity" {
		t.Errorf("WithSearch order wrong: %+v", got)
	}
}

func TestExtractable(t *testing.T) {
	got := Extractable(listingFields)
	if len(got) != 3 {
		t.Fatalf("Expected 3 extractable fields, got %d", len(got))
	}
	for _, f := range got {
		if f.Internal {
			t.Errorf("Internal field %q should be excluded", f.Name)
		}
	}
}
