package generator

import (
	"fmt"
	"io"

	"github.com/venulist/schemagen/internal/schema"
)

// InterfaceGenerator emits the client-facing typed interface for a
// schema, optionally with a parallel runtime-validation schema of the
// identical shape. This is the one generator that does not flatten
// inheritance: the target type system expresses it, so a child
// interface extends the parent and lists only its own fields.
type InterfaceGenerator struct {
	w   io.Writer
	cfg Config
}

// NewInterfaceGenerator creates an interface generator writing to w.
func NewInterfaceGenerator(w io.Writer, cfg Config) *InterfaceGenerator {
	return &InterfaceGenerator{w: w, cfg: cfg}
}

// Generate writes the interface artifact for def.
func (g *InterfaceGenerator) Generate(def *schema.SchemaDefinition, loader schema.Loader) error {
	var fields []schema.FieldDefinition
	for _, f := range def.Fields {
		if f.Skipped(schema.TargetInterface) {
			continue
		}
		fields = append(fields, f)
	}

	types := make([]string, len(fields))
	zods := make([]string, len(fields))
	for i := range fields {
		expr, err := schema.MapType(def.Name, &fields[i], schema.TargetInterface, g.cfg.Dialect)
		if err != nil {
			return err
		}
		types[i] = expr

		if g.cfg.WithValidation {
			zod, err := schema.ZodExpr(def.Name, &fields[i], fields[i].Nullable)
			if err != nil {
				return err
			}
			zods[i] = zod
		}
	}

	writeHeader(g.w, "//", g.cfg)
	fmt.Fprintln(g.w)
	g.writeImports(def)
	g.writeInterface(def, fields, types)
	if g.cfg.WithValidation {
		g.writeValidationSchema(def, fields, zods)
	}
	return nil
}

func (g *InterfaceGenerator) writeImports(def *schema.SchemaDefinition) {
	wrote := false
	if g.cfg.WithValidation {
		fmt.Fprintln(g.w, `import { z } from "zod";`)
		wrote = true
	}
	if def.Extends != "" {
		if g.cfg.WithValidation {
			fmt.Fprintf(g.w, "import { %s, %s } from \"./%s\";\n",
				def.Extends, schemaConst(def.Extends), SnakeCase(def.Extends))
		} else {
			fmt.Fprintf(g.w, "import { %s } from \"./%s\";\n", def.Extends, SnakeCase(def.Extends))
		}
		wrote = true
	}
	if wrote {
		fmt.Fprintln(g.w)
	}
}

func (g *InterfaceGenerator) writeInterface(def *schema.SchemaDefinition, fields []schema.FieldDefinition, types []string) {
	fmt.Fprintf(g.w, "// %s: %s\n", def.Name, def.Description)
	if def.Extends != "" {
		fmt.Fprintf(g.w, "export interface %s extends %s {\n", def.Name, def.Extends)
	} else {
		fmt.Fprintf(g.w, "export interface %s {\n", def.Name)
	}
	for i, f := range fields {
		if f.Description != "" {
			fmt.Fprintf(g.w, "  // %s\n", f.Description)
		}
		fmt.Fprintf(g.w, "  %s: %s;\n", f.TargetName(schema.TargetInterface), types[i])
	}
	fmt.Fprintln(g.w, "}")
}

func (g *InterfaceGenerator) writeValidationSchema(def *schema.SchemaDefinition, fields []schema.FieldDefinition, zods []string) {
	fmt.Fprintln(g.w)
	fmt.Fprintf(g.w, "// %s validates the same shape at runtime.\n", schemaConst(def.Name))
	if def.Extends != "" {
		fmt.Fprintf(g.w, "export const %s = %s.extend({\n", schemaConst(def.Name), schemaConst(def.Extends))
	} else {
		fmt.Fprintf(g.w, "export const %s = z.object({\n", schemaConst(def.Name))
	}
	for i, f := range fields {
		fmt.Fprintf(g.w, "  %s: %s,\n", f.TargetName(schema.TargetInterface), zods[i])
	}
	fmt.Fprintln(g.w, "});")
}

// schemaConst names the generated zod constant for a schema.
func schemaConst(name string) string {
	if name == "" {
		return ""
	}
	r := []rune(name)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return string(r) + "Schema"
}
