package generator

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/venulist/schemagen/internal/schema"
)

// ExtractionGenerator emits the lenient model used to receive data of
// unknown completeness. Every field is optional regardless of the base
// schema's required flag, unless an extraction override says otherwise:
// a partially-informed producer cannot be trusted to supply even
// nominally required fields.
type ExtractionGenerator struct {
	w   io.Writer
	cfg Config
}

// NewExtractionGenerator creates an extraction-model generator writing
// to w.
func NewExtractionGenerator(w io.Writer, cfg Config) *ExtractionGenerator {
	return &ExtractionGenerator{w: w, cfg: cfg}
}

type extractionMember struct {
	field      schema.FieldDefinition
	name       string
	typ        string
	optional   bool
	validators []string
}

// Generate writes the extraction-model artifact for def.
func (g *ExtractionGenerator) Generate(def *schema.SchemaDefinition, loader schema.Loader) error {
	resolved, err := schema.Resolve(def, loader)
	if err != nil {
		return err
	}

	var members []extractionMember
	for i := range resolved {
		f := resolved[i]
		// Primary keys and internal fields are never externally
		// supplied, so they stay out of the extraction model.
		if f.PrimaryKey || f.Internal || f.Skipped(schema.TargetExtraction) {
			continue
		}
		m, err := g.member(def.Name, f)
		if err != nil {
			return err
		}
		members = append(members, *m)
	}

	// Extraction-only fields come after all base-schema-derived ones.
	for _, e := range def.ExtractionFields {
		f := e.Definition()
		if f.Skipped(schema.TargetExtraction) {
			continue
		}
		m, err := g.member(def.Name, f)
		if err != nil {
			return err
		}
		members = append(members, *m)
	}

	writeHeader(g.w, "//", g.cfg)
	fmt.Fprintln(g.w)
	fmt.Fprintf(g.w, "package %s\n\n", g.cfg.extractionPackage())
	g.writeImports(members)

	if def.Extends != "" {
		fmt.Fprintf(g.w, "// %s inherits from %s; see %s_extraction.go for its generated artifact.\n",
			def.Name, def.Extends, SnakeCase(def.Extends))
	}

	g.writeStruct(def, members)
	g.writeValidate(def, members)
	g.writeValidators(members)
	return nil
}

func (g *ExtractionGenerator) member(schemaName string, f schema.FieldDefinition) (*extractionMember, error) {
	o, _ := f.Override(schema.TargetExtraction)

	for _, v := range o.Validators {
		if _, ok := validatorRegistry[v]; !ok {
			return nil, &schema.ValidatorError{Schema: schemaName, Field: f.Name, Validator: v}
		}
	}
	if len(o.Validators) > 0 && f.Type.Kind != schema.KindString {
		return nil, &schema.ParseError{Schema: schemaName, Field: f.Name,
			Msg: "validators require a text field"}
	}

	optional := !o.Required
	typ, err := schema.MapTypeNullable(schemaName, &f, schema.TargetExtraction, g.cfg.Dialect, optional)
	if err != nil {
		return nil, err
	}

	name := o.Rename
	if name == "" {
		name = goIdent(f.Name)
	}

	return &extractionMember{
		field:      f,
		name:       name,
		typ:        typ,
		optional:   optional,
		validators: o.Validators,
	}, nil
}

func (g *ExtractionGenerator) writeImports(members []extractionMember) {
	imports := map[string]bool{}
	for _, m := range members {
		if strings.Contains(m.typ, "time.Time") {
			imports["time"] = true
		}
		if strings.Contains(m.typ, "json.RawMessage") {
			imports["encoding/json"] = true
		}
		for _, v := range m.validators {
			for _, imp := range validatorRegistry[v].imports {
				imports[imp] = true
			}
		}
	}
	if len(imports) == 0 {
		return
	}

	sorted := make([]string, 0, len(imports))
	for imp := range imports {
		sorted = append(sorted, imp)
	}
	sort.Strings(sorted)

	fmt.Fprintln(g.w, "import (")
	for _, imp := range sorted {
		fmt.Fprintf(g.w, "\t%q\n", imp)
	}
	fmt.Fprintln(g.w, ")")
	fmt.Fprintln(g.w)
}

func (g *ExtractionGenerator) writeStruct(def *schema.SchemaDefinition, members []extractionMember) {
	fmt.Fprintf(g.w, "// %sExtraction captures what was actually observed for %s;\n", def.Name, def.Name)
	fmt.Fprintln(g.w, "// absent fields mean the producer did not find a value.")
	fmt.Fprintf(g.w, "type %sExtraction struct {\n", def.Name)
	for _, m := range members {
		if doc := memberDoc(&m); doc != "" {
			fmt.Fprintf(g.w, "\t// %s\n", doc)
		}
		fmt.Fprintf(g.w, "\t%s %s\n", m.name, m.typ)
	}
	fmt.Fprintln(g.w, "}")
	fmt.Fprintln(g.w)
}

// memberDoc annotates the field description with the standard null
// semantics clause, and marks fields the canonical record requires.
func memberDoc(m *extractionMember) string {
	parts := []string{}
	if m.field.Description != "" {
		parts = append(parts, strings.TrimRight(m.field.Description, " "))
	}
	if m.optional {
		if m.field.Type.Kind == schema.KindBoolean {
			parts = append(parts, "Null means unknown, distinct from false.")
		} else {
			parts = append(parts, "Null if not found.")
		}
	}
	if m.field.Required {
		parts = append(parts, "(required)")
	}
	return strings.Join(parts, " ")
}

func (g *ExtractionGenerator) writeValidate(def *schema.SchemaDefinition, members []extractionMember) {
	fmt.Fprintln(g.w, "// Validate applies the declared field validators to the values")
	fmt.Fprintln(g.w, "// that are present.")
	fmt.Fprintf(g.w, "func (m *%sExtraction) Validate() error {\n", def.Name)
	for _, m := range members {
		if len(m.validators) == 0 {
			continue
		}
		if m.optional {
			fmt.Fprintf(g.w, "\tif m.%s != nil {\n", m.name)
			for _, v := range m.validators {
				fmt.Fprintf(g.w, "\t\tif err := %s(%q, *m.%s); err != nil {\n", validatorRegistry[v].funcName, m.field.Name, m.name)
				fmt.Fprintln(g.w, "\t\t\treturn err")
				fmt.Fprintln(g.w, "\t\t}")
			}
			fmt.Fprintln(g.w, "\t}")
		} else {
			for _, v := range m.validators {
				fmt.Fprintf(g.w, "\tif err := %s(%q, m.%s); err != nil {\n", validatorRegistry[v].funcName, m.field.Name, m.name)
				fmt.Fprintln(g.w, "\t\treturn err")
				fmt.Fprintln(g.w, "\t}")
			}
		}
	}
	fmt.Fprintln(g.w, "\treturn nil")
	fmt.Fprintln(g.w, "}")
}

// writeValidators emits one validation routine per declared validator,
// each at most once, in first-use order.
func (g *ExtractionGenerator) writeValidators(members []extractionMember) {
	emitted := map[string]bool{}
	for _, m := range members {
		for _, v := range m.validators {
			if emitted[v] {
				continue
			}
			emitted[v] = true
			fmt.Fprintln(g.w)
			fmt.Fprint(g.w, validatorRegistry[v].source)
		}
	}
}

type validatorDef struct {
	funcName string
	imports  []string
	source   string
}

var validatorRegistry = map[string]validatorDef{
	"non_empty": {
		funcName: "validateNonEmpty",
		imports:  []string{"fmt", "strings"},
		source: `// validateNonEmpty rejects empty or whitespace-only text.
func validateNonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s: must not be empty", field)
	}
	return nil
}
`,
	},
	"phone_e164": {
		funcName: "validatePhoneE164",
		imports:  []string{"fmt", "regexp"},
		source: `var phoneE164Pattern = regexp.MustCompile(` + "`" + `^\+[1-9][0-9]{6,14}$` + "`" + `)

// validatePhoneE164 accepts an international phone number with no
// separator characters.
func validatePhoneE164(field, v string) error {
	if !phoneE164Pattern.MatchString(v) {
		return fmt.Errorf("%s: must be an E.164 phone number", field)
	}
	return nil
}
`,
	},
	"url_with_scheme": {
		funcName: "validateURLWithScheme",
		imports:  []string{"fmt", "net/url"},
		source: `// validateURLWithScheme accepts only URLs carrying an explicit scheme.
func validateURLWithScheme(field, v string) error {
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s: must be a URL with an explicit scheme", field)
	}
	return nil
}
`,
	},
	"postal_code": {
		funcName: "validatePostalCode",
		imports:  []string{"fmt", "strings"},
		source: `// validatePostalCode requires canonical casing and internal spacing.
func validatePostalCode(field, v string) error {
	canonical := strings.ToUpper(strings.Join(strings.Fields(v), " "))
	if v == "" || v != canonical {
		return fmt.Errorf("%s: must use canonical casing and spacing", field)
	}
	return nil
}
`,
	},
}

// ValidatorNames lists the recognized validator names.
func ValidatorNames() []string {
	names := make([]string, 0, len(validatorRegistry))
	for name := range validatorRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
