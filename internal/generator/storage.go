package generator

import (
	"fmt"
	"io"
	"strings"

	"github.com/venulist/schemagen/internal/schema"
)

// StorageGenerator emits a storage-engine schema declaration for a
// schema, parameterized by dialect. The dialects differ in how json is
// represented (native JSONB vs opaque text) and in key-generation
// defaults; list fields require an explicit storage type override in
// every dialect.
type StorageGenerator struct {
	w   io.Writer
	cfg Config
}

// NewStorageGenerator creates a storage schema generator writing to w.
func NewStorageGenerator(w io.Writer, cfg Config) *StorageGenerator {
	return &StorageGenerator{w: w, cfg: cfg}
}

// Generate writes the CREATE TABLE declaration for def, followed by
// index directives for indexed non-unique, non-key fields.
func (g *StorageGenerator) Generate(def *schema.SchemaDefinition, loader schema.Loader) error {
	resolved, err := schema.Resolve(def, loader)
	if err != nil {
		return err
	}

	table := SnakeCase(def.Name)

	var lines []string
	var indexes []string
	for i := range resolved {
		f := &resolved[i]
		if f.Skipped(schema.TargetStorage) {
			continue
		}

		line, err := g.columnLine(def.Name, f)
		if err != nil {
			return err
		}
		lines = append(lines, line)

		if f.Index && !f.Unique && !f.PrimaryKey {
			col := SnakeCase(f.TargetName(schema.TargetStorage))
			indexes = append(indexes,
				fmt.Sprintf("CREATE INDEX idx_%s_%s ON %s (%s);", table, col, table, col))
		}
	}

	writeHeader(g.w, "--", g.cfg)
	fmt.Fprintln(g.w)
	fmt.Fprintf(g.w, "-- %s: %s\n", def.Name, def.Description)
	fmt.Fprintf(g.w, "CREATE TABLE %s (\n", table)
	fmt.Fprintf(g.w, "%s\n", strings.Join(indent(lines), ",\n"))
	fmt.Fprintln(g.w, ");")

	// Index directives never precede field declarations.
	if len(indexes) > 0 {
		fmt.Fprintln(g.w)
		for _, idx := range indexes {
			fmt.Fprintln(g.w, idx)
		}
	}
	return nil
}

func (g *StorageGenerator) columnLine(schemaName string, f *schema.FieldDefinition) (string, error) {
	col := SnakeCase(f.TargetName(schema.TargetStorage))

	if f.PrimaryKey {
		return g.primaryKeyLine(schemaName, col, f)
	}

	expr, err := schema.MapType(schemaName, f, schema.TargetStorage, g.cfg.Dialect)
	if err != nil {
		return "", err
	}

	parts := []string{col, expr}
	if f.Unique {
		parts = append(parts, "UNIQUE")
	}
	if d := g.defaultClause(f); d != "" {
		parts = append(parts, "DEFAULT "+d)
	}
	if f.ForeignKey != "" {
		// The parser guarantees the table.column form.
		ref := strings.SplitN(f.ForeignKey, ".", 2)
		parts = append(parts, fmt.Sprintf("REFERENCES %s (%s)", ref[0], ref[1]))
	}
	return strings.Join(parts, " "), nil
}

// primaryKeyLine emits the identity marker plus a value-generation
// default. NOT NULL is implied by the key marker, so the bare type
// expression is used.
func (g *StorageGenerator) primaryKeyLine(schemaName, col string, f *schema.FieldDefinition) (string, error) {
	expr, err := schema.MapTypeNullable(schemaName, f, schema.TargetStorage, g.cfg.Dialect, true)
	if err != nil {
		return "", err
	}

	if f.Type.Kind == schema.KindInteger {
		if g.cfg.Dialect == schema.DialectSQLite {
			// INTEGER PRIMARY KEY aliases the rowid, which
			// auto-generates.
			return fmt.Sprintf("%s %s PRIMARY KEY", col, expr), nil
		}
		return fmt.Sprintf("%s %s PRIMARY KEY GENERATED BY DEFAULT AS IDENTITY", col, expr), nil
	}

	gen := g.renderToken(schema.DefaultGenerateID)
	return fmt.Sprintf("%s %s PRIMARY KEY DEFAULT %s", col, expr, gen), nil
}

func (g *StorageGenerator) defaultClause(f *schema.FieldDefinition) string {
	raw := f.Default
	if o, ok := f.Override(schema.TargetStorage); ok && o.Default != "" {
		// Target-specific defaults are taken verbatim.
		return o.Default
	}
	if raw == "" {
		return ""
	}

	switch raw {
	case schema.DefaultGenerateID, schema.DefaultCurrentTimestamp:
		return g.renderToken(raw)
	}

	switch f.Type.Kind {
	case schema.KindString, schema.KindDatetime, schema.KindJSON:
		return "'" + strings.ReplaceAll(raw, "'", "''") + "'"
	case schema.KindBoolean:
		if g.cfg.Dialect == schema.DialectSQLite {
			if raw == "true" {
				return "1"
			}
			return "0"
		}
		return strings.ToUpper(raw)
	}
	return raw
}

func (g *StorageGenerator) renderToken(token string) string {
	sqlite := g.cfg.Dialect == schema.DialectSQLite
	switch token {
	case schema.DefaultGenerateID:
		if sqlite {
			return "(lower(hex(randomblob(16))))"
		}
		return "gen_random_uuid()"
	case schema.DefaultCurrentTimestamp:
		if sqlite {
			return "CURRENT_TIMESTAMP"
		}
		return "now()"
	}
	return token
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "    " + l
	}
	return out
}
