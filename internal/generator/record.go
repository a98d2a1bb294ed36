package generator

import (
	"fmt"
	"io"
	"strings"

	"github.com/venulist/schemagen/internal/schema"
)

// RecordGenerator emits the in-process record type for a schema: one
// struct declaration per resolved field plus field-descriptor tables
// and their helper functions.
type RecordGenerator struct {
	w   io.Writer
	cfg Config
}

// NewRecordGenerator creates a record generator writing to w.
func NewRecordGenerator(w io.Writer, cfg Config) *RecordGenerator {
	return &RecordGenerator{w: w, cfg: cfg}
}

// Generate writes the record artifact for def.
func (g *RecordGenerator) Generate(def *schema.SchemaDefinition, loader schema.Loader) error {
	resolved, err := schema.Resolve(def, loader)
	if err != nil {
		return err
	}

	parentNames := make(map[string]bool)
	if def.Extends != "" {
		parentFields, err := schema.ResolveParent(def, loader)
		if err != nil {
			return err
		}
		for _, f := range parentFields {
			parentNames[f.Name] = true
		}
	}

	var fields []schema.FieldDefinition
	for _, f := range resolved {
		if f.Skipped(schema.TargetRecord) {
			continue
		}
		fields = append(fields, f)
	}

	types := make([]string, len(fields))
	for i := range fields {
		expr, err := schema.MapType(def.Name, &fields[i], schema.TargetRecord, g.cfg.Dialect)
		if err != nil {
			return err
		}
		types[i] = expr
	}

	writeHeader(g.w, "//", g.cfg)
	fmt.Fprintln(g.w)
	fmt.Fprintf(g.w, "package %s\n\n", g.cfg.recordPackage())
	g.writeImports(types)

	if def.Extends != "" {
		fmt.Fprintf(g.w, "// %s inherits from %s; see %s_record.go for its generated artifact.\n",
			def.Name, def.Extends, SnakeCase(def.Extends))
	}

	g.writeStruct(def, fields, types)
	g.writeDescriptors(def, fields, parentNames)
	g.writeHelpers(def)
	return nil
}

func (g *RecordGenerator) writeImports(types []string) {
	needTime := false
	needJSON := false
	for _, t := range types {
		if strings.Contains(t, "time.Time") {
			needTime = true
		}
		if strings.Contains(t, "json.RawMessage") {
			needJSON = true
		}
	}

	fmt.Fprintln(g.w, "import (")
	if needJSON {
		fmt.Fprintln(g.w, "\t\"encoding/json\"")
	}
	if needTime {
		fmt.Fprintln(g.w, "\t\"time\"")
	}
	if needJSON || needTime {
		fmt.Fprintln(g.w)
	}
	fmt.Fprintf(g.w, "\t%q\n", MetaImportPath)
	fmt.Fprintln(g.w, ")")
	fmt.Fprintln(g.w)
}

func (g *RecordGenerator) writeStruct(def *schema.SchemaDefinition, fields []schema.FieldDefinition, types []string) {
	fmt.Fprintf(g.w, "// %s is the canonical record for the %s schema: %s\n", def.Name, def.Name, def.Description)
	fmt.Fprintf(g.w, "type %s struct {\n", def.Name)
	for i, f := range fields {
		if f.Description != "" {
			fmt.Fprintf(g.w, "\t// %s\n", f.Description)
		}
		fmt.Fprintf(g.w, "\t%s %s\n", g.memberName(&f), types[i])
	}
	fmt.Fprintln(g.w, "}")
	fmt.Fprintln(g.w)
}

func (g *RecordGenerator) memberName(f *schema.FieldDefinition) string {
	if o, ok := f.Override(schema.TargetRecord); ok && o.Rename != "" {
		return o.Rename
	}
	return goIdent(f.Name)
}

func (g *RecordGenerator) writeDescriptors(def *schema.SchemaDefinition, fields []schema.FieldDefinition, parentNames map[string]bool) {
	if len(parentNames) == 0 {
		fmt.Fprintf(g.w, "// %sFields describes %s's resolved fields.\n", def.Name, def.Name)
		g.writeDescriptorTable(fmt.Sprintf("%sFields", def.Name), fields)
		return
	}

	var parent, own []schema.FieldDefinition
	for _, f := range fields {
		if parentNames[f.Name] {
			parent = append(parent, f)
		} else {
			own = append(own, f)
		}
	}

	fmt.Fprintf(g.w, "// %sParentFields describes the fields %s inherits from %s.\n", def.Name, def.Name, def.Extends)
	g.writeDescriptorTable(fmt.Sprintf("%sParentFields", def.Name), parent)
	fmt.Fprintf(g.w, "// %sOwnFields describes the fields %s declares itself.\n", def.Name, def.Name)
	g.writeDescriptorTable(fmt.Sprintf("%sOwnFields", def.Name), own)
	fmt.Fprintf(g.w, "// %sFields is the full resolved field list.\n", def.Name)
	fmt.Fprintf(g.w, "var %sFields = append(append([]fieldmeta.Field{}, %sParentFields...), %sOwnFields...)\n",
		def.Name, def.Name, def.Name)
	fmt.Fprintln(g.w)
}

func (g *RecordGenerator) writeDescriptorTable(name string, fields []schema.FieldDefinition) {
	fmt.Fprintf(g.w, "var %s = []fieldmeta.Field{\n", name)
	for _, f := range fields {
		var parts []string
		parts = append(parts, fmt.Sprintf("Name: %q", f.Name))
		parts = append(parts, fmt.Sprintf("Type: %q", f.Type.String()))
		if f.Description != "" {
			parts = append(parts, fmt.Sprintf("Description: %q", f.Description))
		}
		if f.Nullable {
			parts = append(parts, "Nullable: true")
		}
		if f.Required {
			parts = append(parts, "Required: true")
		}
		if f.Internal {
			parts = append(parts, "Internal: true")
		}
		if f.SearchCategory != "" {
			parts = append(parts, fmt.Sprintf("SearchCategory: %q", f.SearchCategory))
		}
		if len(f.SearchKeywords) > 0 {
			quoted := make([]string, len(f.SearchKeywords))
			for i, k := range f.SearchKeywords {
				quoted[i] = fmt.Sprintf("%q", k)
			}
			parts = append(parts, fmt.Sprintf("SearchKeywords: []string{%s}", strings.Join(quoted, ", ")))
		}
		fmt.Fprintf(g.w, "\t{%s},\n", strings.Join(parts, ", "))
	}
	fmt.Fprintln(g.w, "}")
	fmt.Fprintln(g.w)
}

func (g *RecordGenerator) writeHelpers(def *schema.SchemaDefinition) {
	n := def.Name
	fmt.Fprintf(g.w, "// %sFieldByName finds a resolved field by name.\n", n)
	fmt.Fprintf(g.w, "func %sFieldByName(name string) (fieldmeta.Field, bool) {\n", n)
	fmt.Fprintf(g.w, "\treturn fieldmeta.ByName(%sFields, name)\n", n)
	fmt.Fprintln(g.w, "}")
	fmt.Fprintln(g.w)

	fmt.Fprintf(g.w, "// %sSearchFields lists the fields carrying search metadata.\n", n)
	fmt.Fprintf(g.w, "func %sSearchFields() []fieldmeta.Field {\n", n)
	fmt.Fprintf(g.w, "\treturn fieldmeta.WithSearch(%sFields)\n", n)
	fmt.Fprintln(g.w, "}")
	fmt.Fprintln(g.w)

	fmt.Fprintf(g.w, "// %sExtractableFields lists the fields usable for external extraction.\n", n)
	fmt.Fprintf(g.w, "func %sExtractableFields() []fieldmeta.Field {\n", n)
	fmt.Fprintf(g.w, "\treturn fieldmeta.Extractable(%sFields)\n", n)
	fmt.Fprintln(g.w, "}")
	fmt.Fprintln(g.w)

	fmt.Fprintf(g.w, "// %sAllFields lists every resolved field, internal ones included.\n", n)
	fmt.Fprintf(g.w, "func %sAllFields() []fieldmeta.Field {\n", n)
	fmt.Fprintf(g.w, "\treturn %sFields\n", n)
	fmt.Fprintln(g.w, "}")
}
