package schema

import (
	"fmt"
	"strings"
)

// LogicalType is a member of the Type Catalog: one of the scalar kinds,
// or a list parameterized by an inner scalar kind.
type LogicalType struct {
	Kind string
	Elem string
}

const (
	KindString   = "string"
	KindInteger  = "integer"
	KindFloat    = "float"
	KindBoolean  = "boolean"
	KindDatetime = "datetime"
	KindJSON     = "json"
	KindList     = "list"
)

var scalarKinds = map[string]bool{
	KindString:   true,
	KindInteger:  true,
	KindFloat:    true,
	KindBoolean:  true,
	KindDatetime: true,
	KindJSON:     true,
}

// ParseLogicalType parses a type token such as "string" or
// "list[integer]". The second return value reports catalog membership.
func ParseLogicalType(s string) (LogicalType, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "list[") && strings.HasSuffix(s, "]") {
		elem := strings.TrimSpace(s[len("list[") : len(s)-1])
		if !scalarKinds[elem] || elem == KindJSON {
			// Lists carry scalar elements only; list[json] is not a
			// catalog member.
			return LogicalType{}, false
		}
		return LogicalType{Kind: KindList, Elem: elem}, true
	}
	if scalarKinds[s] {
		return LogicalType{Kind: s}, true
	}
	return LogicalType{}, false
}

func (t LogicalType) IsList() bool { return t.Kind == KindList }

func (t LogicalType) String() string {
	if t.IsList() {
		return fmt.Sprintf("list[%s]", t.Elem)
	}
	return t.Kind
}

// Canonical non-nullable scalar expressions per target.
var (
	goScalars = map[string]string{
		KindString:   "string",
		KindInteger:  "int64",
		KindFloat:    "float64",
		KindBoolean:  "bool",
		KindDatetime: "time.Time",
		KindJSON:     "json.RawMessage",
	}
	postgresScalars = map[string]string{
		KindString:   "TEXT",
		KindInteger:  "BIGINT",
		KindFloat:    "DOUBLE PRECISION",
		KindBoolean:  "BOOLEAN",
		KindDatetime: "TIMESTAMPTZ",
		KindJSON:     "JSONB",
	}
	sqliteScalars = map[string]string{
		KindString:   "TEXT",
		KindInteger:  "INTEGER",
		KindFloat:    "REAL",
		KindBoolean:  "INTEGER",
		KindDatetime: "TEXT",
		KindJSON:     "TEXT",
	}
	tsScalars = map[string]string{
		KindString:   "string",
		KindInteger:  "number",
		KindFloat:    "number",
		KindBoolean:  "boolean",
		KindDatetime: "string",
		KindJSON:     "Record<string, unknown>",
	}
	zodScalars = map[string]string{
		KindString:   "z.string()",
		KindInteger:  "z.number().int()",
		KindFloat:    "z.number()",
		KindBoolean:  "z.boolean()",
		KindDatetime: "z.string()",
		KindJSON:     "z.record(z.unknown())",
	}
)

// MapType maps a field's logical type to a target type expression,
// applying the target's nullability wrapping. An explicit per-target
// type override is returned verbatim with no wrapping. The dialect is
// consulted for the storage target only.
func MapType(schemaName string, f *FieldDefinition, target Target, dialect Dialect) (string, error) {
	return mapType(schemaName, f, target, dialect, f.Nullable)
}

// MapTypeNullable is MapType with the field's nullability replaced by
// an effective value. The extraction-model generator uses it to force
// fields optional regardless of the base schema.
func MapTypeNullable(schemaName string, f *FieldDefinition, target Target, dialect Dialect, nullable bool) (string, error) {
	return mapType(schemaName, f, target, dialect, nullable)
}

func mapType(schemaName string, f *FieldDefinition, target Target, dialect Dialect, nullable bool) (string, error) {
	if o, ok := f.Overrides[target]; ok && o.Type != "" {
		return o.Type, nil
	}

	expr, err := canonical(schemaName, f, target, dialect)
	if err != nil {
		return "", err
	}

	switch target {
	case TargetRecord, TargetExtraction:
		if nullable {
			return "*" + expr, nil
		}
		return expr, nil
	case TargetStorage:
		if !nullable {
			return expr + " NOT NULL", nil
		}
		return expr, nil
	case TargetInterface:
		if nullable {
			return expr + " | null", nil
		}
		return expr, nil
	}
	return "", &UnsupportedTypeError{Schema: schemaName, Field: f.Name, Type: f.Type.String(), Target: target}
}

func canonical(schemaName string, f *FieldDefinition, target Target, dialect Dialect) (string, error) {
	unsupported := func() error {
		return &UnsupportedTypeError{Schema: schemaName, Field: f.Name, Type: f.Type.String(), Target: target}
	}

	if f.Type.IsList() {
		switch target {
		case TargetRecord, TargetExtraction:
			elem, ok := goScalars[f.Type.Elem]
			if !ok {
				return "", unsupported()
			}
			return "[]" + elem, nil
		case TargetInterface:
			elem, ok := tsScalars[f.Type.Elem]
			if !ok {
				return "", unsupported()
			}
			return elem + "[]", nil
		case TargetStorage:
			// Array and relation semantics are dialect-specific and
			// must be stated via a storage type override, not inferred.
			return "", unsupported()
		}
		return "", unsupported()
	}

	var table map[string]string
	switch target {
	case TargetRecord, TargetExtraction:
		table = goScalars
	case TargetInterface:
		table = tsScalars
	case TargetStorage:
		if dialect == DialectSQLite {
			table = sqliteScalars
		} else {
			table = postgresScalars
		}
	default:
		return "", unsupported()
	}

	expr, ok := table[f.Type.Kind]
	if !ok {
		return "", unsupported()
	}
	return expr, nil
}

// ZodExpr maps a field's logical type to a zod validation expression
// mirroring the interface target's shape, including nullability.
func ZodExpr(schemaName string, f *FieldDefinition, nullable bool) (string, error) {
	if o, ok := f.Overrides[TargetInterface]; ok && o.Type != "" {
		// An explicit interface type has no derivable zod form; fall
		// back to an unknown so the shapes still agree on presence.
		expr := "z.unknown()"
		if nullable {
			expr += ".nullable()"
		}
		return expr, nil
	}

	var expr string
	if f.Type.IsList() {
		elem, ok := zodScalars[f.Type.Elem]
		if !ok {
			return "", &UnsupportedTypeError{Schema: schemaName, Field: f.Name, Type: f.Type.String(), Target: TargetInterface}
		}
		expr = fmt.Sprintf("z.array(%s)", elem)
	} else {
		var ok bool
		expr, ok = zodScalars[f.Type.Kind]
		if !ok {
			return "", &UnsupportedTypeError{Schema: schemaName, Field: f.Name, Type: f.Type.String(), Target: TargetInterface}
		}
	}
	if nullable {
		expr += ".nullable()"
	}
	return expr, nil
}
