package schema

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Wire form of a schema description. Decoded with KnownFields so an
// unknown key anywhere in the document is a ParseError rather than
// silently ignored.
type document struct {
	Schema           headerBlock            `yaml:"schema"`
	Fields           []fieldBlock           `yaml:"fields"`
	ExtractionFields []extractionFieldBlock `yaml:"extraction_fields"`
}

type headerBlock struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Extends     string `yaml:"extends"`
}

type fieldBlock struct {
	Name           string                   `yaml:"name"`
	Type           string                   `yaml:"type"`
	Description    string                   `yaml:"description"`
	Nullable       bool                     `yaml:"nullable"`
	Required       bool                     `yaml:"required"`
	Index          bool                     `yaml:"index"`
	Unique         bool                     `yaml:"unique"`
	PrimaryKey     bool                     `yaml:"primary_key"`
	Internal       bool                     `yaml:"internal"`
	ForeignKey     string                   `yaml:"foreign_key"`
	Default        string                   `yaml:"default"`
	SearchCategory string                   `yaml:"search_category"`
	SearchKeywords []string                 `yaml:"search_keywords"`
	Targets        map[string]overrideBlock `yaml:"targets"`
}

type extractionFieldBlock struct {
	Name        string                   `yaml:"name"`
	Type        string                   `yaml:"type"`
	Description string                   `yaml:"description"`
	Nullable    bool                     `yaml:"nullable"`
	Required    bool                     `yaml:"required"`
	Targets     map[string]overrideBlock `yaml:"targets"`
}

type overrideBlock struct {
	Rename     string   `yaml:"rename"`
	Type       string   `yaml:"type"`
	Validators []string `yaml:"validators"`
	Skip       bool     `yaml:"skip"`
	Default    string   `yaml:"default"`
	Required   *bool    `yaml:"required"`
}

var knownTargets = map[string]Target{
	string(TargetRecord):     TargetRecord,
	string(TargetStorage):    TargetStorage,
	string(TargetInterface):  TargetInterface,
	string(TargetExtraction): TargetExtraction,
}

// Parse reads one schema description and produces its intermediate
// representation. Inheritance is not resolved here; the named parent is
// only recorded, so inspecting a schema's own fields never requires
// loading its ancestors.
func Parse(src []byte) (*SchemaDefinition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, &ParseError{Msg: "empty schema description"}
		}
		return nil, &ParseError{Msg: err.Error()}
	}

	if doc.Schema.Name == "" {
		return nil, &ParseError{Msg: "schema name is required"}
	}
	if doc.Schema.Description == "" {
		return nil, &ParseError{Schema: doc.Schema.Name, Msg: "schema description is required"}
	}

	def := &SchemaDefinition{
		Name:        doc.Schema.Name,
		Description: doc.Schema.Description,
		Extends:     doc.Schema.Extends,
	}

	seen := make(map[string]bool)
	for _, fb := range doc.Fields {
		f, err := parseField(def.Name, fb)
		if err != nil {
			return nil, err
		}
		if seen[f.Name] {
			return nil, &ParseError{Schema: def.Name, Field: f.Name, Msg: "duplicate field name"}
		}
		seen[f.Name] = true
		def.Fields = append(def.Fields, *f)
	}

	for _, eb := range doc.ExtractionFields {
		e, err := parseExtractionField(def.Name, eb)
		if err != nil {
			return nil, err
		}
		if seen[e.Name] {
			return nil, &ParseError{Schema: def.Name, Field: e.Name,
				Msg: "extraction field duplicates a base field name"}
		}
		seen[e.Name] = true
		def.ExtractionFields = append(def.ExtractionFields, *e)
	}

	return def, nil
}

func parseField(schemaName string, fb fieldBlock) (*FieldDefinition, error) {
	if fb.Name == "" {
		return nil, &ParseError{Schema: schemaName, Msg: "field name is required"}
	}
	if fb.Type == "" {
		return nil, &ParseError{Schema: schemaName, Field: fb.Name, Msg: "field type is required"}
	}
	lt, ok := ParseLogicalType(fb.Type)
	if !ok {
		return nil, &ParseError{Schema: schemaName, Field: fb.Name,
			Msg: fmt.Sprintf("type %q is not in the type catalog", fb.Type)}
	}
	if fb.Required && fb.Nullable {
		return nil, &ParseError{Schema: schemaName, Field: fb.Name,
			Msg: "required fields cannot be nullable"}
	}
	if fb.ForeignKey != "" {
		parts := strings.SplitN(fb.ForeignKey, ".", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, &ParseError{Schema: schemaName, Field: fb.Name,
				Msg: fmt.Sprintf("foreign key %q must be of the form table.column", fb.ForeignKey)}
		}
	}

	overrides, err := parseOverrides(schemaName, fb.Name, fb.Targets)
	if err != nil {
		return nil, err
	}

	return &FieldDefinition{
		Name:           fb.Name,
		Type:           lt,
		Description:    fb.Description,
		Nullable:       fb.Nullable,
		Required:       fb.Required,
		Index:          fb.Index,
		Unique:         fb.Unique,
		PrimaryKey:     fb.PrimaryKey,
		Internal:       fb.Internal,
		ForeignKey:     fb.ForeignKey,
		Default:        fb.Default,
		SearchCategory: fb.SearchCategory,
		SearchKeywords: fb.SearchKeywords,
		Overrides:      overrides,
	}, nil
}

func parseExtractionField(schemaName string, eb extractionFieldBlock) (*ExtractionField, error) {
	if eb.Name == "" {
		return nil, &ParseError{Schema: schemaName, Msg: "extraction field name is required"}
	}
	if eb.Type == "" {
		return nil, &ParseError{Schema: schemaName, Field: eb.Name, Msg: "extraction field type is required"}
	}
	lt, ok := ParseLogicalType(eb.Type)
	if !ok {
		return nil, &ParseError{Schema: schemaName, Field: eb.Name,
			Msg: fmt.Sprintf("type %q is not in the type catalog", eb.Type)}
	}
	if eb.Required && eb.Nullable {
		return nil, &ParseError{Schema: schemaName, Field: eb.Name,
			Msg: "required fields cannot be nullable"}
	}

	overrides, err := parseOverrides(schemaName, eb.Name, eb.Targets)
	if err != nil {
		return nil, err
	}

	return &ExtractionField{
		Name:        eb.Name,
		Type:        lt,
		Description: eb.Description,
		Nullable:    eb.Nullable,
		Required:    eb.Required,
		Overrides:   overrides,
	}, nil
}

func parseOverrides(schemaName, fieldName string, blocks map[string]overrideBlock) (map[Target]Override, error) {
	if len(blocks) == 0 {
		return nil, nil
	}

	overrides := make(map[Target]Override, len(blocks))
	for key, ob := range blocks {
		target, ok := knownTargets[key]
		if !ok {
			return nil, &ParseError{Schema: schemaName, Field: fieldName,
				Msg: fmt.Sprintf("unknown override target %q", key)}
		}
		if ob.Required != nil && target != TargetExtraction {
			return nil, &ParseError{Schema: schemaName, Field: fieldName,
				Msg: fmt.Sprintf("override key %q is only valid for the extraction target", "required")}
		}

		o := Override{
			Rename:     ob.Rename,
			Type:       ob.Type,
			Validators: ob.Validators,
			Skip:       ob.Skip,
			Default:    ob.Default,
		}
		if ob.Required != nil {
			o.Required = *ob.Required
		}
		overrides[target] = o
	}
	return overrides, nil
}
