package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/venulist/schemagen"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input   string
		want    schemagen.Dialect
		wantErr bool
	}{
		{input: "postgres", want: schemagen.DialectPostgres},
		{input: "sqlite", want: schemagen.DialectSQLite},
		{input: "mysql", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseDialect(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDialect(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDialect(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDialect(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseTargets(t *testing.T) {
	targets, err := parseTargets(nil)
	if err != nil || targets != nil {
		t.Errorf("parseTargets(nil) = %v, %v; want nil, nil", targets, err)
	}

	targets, err = parseTargets([]string{"record", " storage"})
	if err != nil {
		t.Fatalf("parseTargets failed: %v", err)
	}
	if len(targets) != 2 || targets[0] != schemagen.TargetRecord || targets[1] != schemagen.TargetStorage {
		t.Errorf("parseTargets = %v", targets)
	}

	if _, err := parseTargets([]string{"graphql"}); err == nil {
		t.Error("parseTargets should reject unknown targets")
	}
}

func TestListSchemaFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"venue.yaml", "listing.yaml", "notes.txt", "base.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := listSchemaFiles(dir)
	if err != nil {
		t.Fatalf("listSchemaFiles failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 schema files, got %v", files)
	}
	// Sorted for stable processing order.
	for i, want := range []string{"base.yml", "listing.yaml", "venue.yaml"} {
		if filepath.Base(files[i]) != want {
			t.Errorf("files[%d] = %s, want %s", i, files[i], want)
		}
	}
}

const loaderListingYAML = `
schema:
  name: Listing
  description: A place listing.
fields:
  - name: id
    type: string
    primary_key: true
`

func TestDirLoaderConventionalName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "listing.yaml"), []byte(loaderListingYAML), 0644); err != nil {
		t.Fatal(err)
	}

	loader := newDirLoader(dir)
	def, err := loader.Load("Listing")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if def.Name != "Listing" {
		t.Errorf("Name = %q, want Listing", def.Name)
	}

	// Second load serves from cache even if the file disappears.
	if err := os.Remove(filepath.Join(dir, "listing.yaml")); err != nil {
		t.Fatal(err)
	}
	if _, err := loader.Load("Listing"); err != nil {
		t.Errorf("Cached load failed: %v", err)
	}
}

func TestDirLoaderScansMismatchedFilenames(t *testing.T) {
	dir := t.TempDir()
	// The declared name does not match the file name, so the
	// conventional lookup misses and the scan finds it.
	if err := os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(loaderListingYAML), 0644); err != nil {
		t.Fatal(err)
	}

	loader := newDirLoader(dir)
	def, err := loader.Load("Listing")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if def.Name != "Listing" {
		t.Errorf("Name = %q, want Listing", def.Name)
	}
}

func TestDirLoaderMissing(t *testing.T) {
	loader := newDirLoader(t.TempDir())
	if _, err := loader.Load("Listing"); err == nil {
		t.Error("Expected error for a missing parent schema")
	}
}
