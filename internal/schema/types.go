package schema

// Target identifies one of the generated representations.
type Target string

const (
	TargetRecord     Target = "record"
	TargetStorage    Target = "storage"
	TargetInterface  Target = "interface"
	TargetExtraction Target = "extraction"
)

// Targets lists every generation target in a fixed order.
var Targets = []Target{TargetRecord, TargetStorage, TargetInterface, TargetExtraction}

// Dialect selects a storage-engine schema language.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Generation tokens accepted in a field's default.
const (
	DefaultGenerateID       = "generate-unique-id"
	DefaultCurrentTimestamp = "current-timestamp"
)

// SchemaDefinition is the parsed form of one schema description.
// It is immutable after parsing; Extends is recorded but not resolved
// until a generator asks for the full field list.
type SchemaDefinition struct {
	Name        string
	Description string
	Extends     string
	Fields      []FieldDefinition

	// ExtractionFields exist only in the extraction model, appended
	// after all base-schema-derived fields.
	ExtractionFields []ExtractionField
}

// FieldDefinition describes one field of a schema.
type FieldDefinition struct {
	Name        string
	Type        LogicalType
	Description string
	Nullable    bool
	Required    bool
	Index       bool
	Unique      bool
	PrimaryKey  bool
	Internal    bool

	// ForeignKey references "table.column" in the storage schema.
	ForeignKey string

	// Default is a literal value or one of the generation tokens.
	Default string

	// Search metadata is passed through to record field descriptors
	// unchanged; the compiler never interprets it.
	SearchCategory string
	SearchKeywords []string

	// Overrides holds per-target override blocks keyed by target.
	Overrides map[Target]Override
}

// ExtractionField is a field that exists only in the extraction model,
// such as a derived signal that is never persisted as a column.
type ExtractionField struct {
	Name        string
	Type        LogicalType
	Description string
	Nullable    bool
	Required    bool
	Overrides   map[Target]Override
}

// Override adjusts how one target renders a field. Zero-value fields
// mean "no override". An explicit Type is used verbatim, bypassing the
// catalog and its nullability wrapping.
type Override struct {
	Rename     string
	Type       string
	Validators []string
	Skip       bool
	Default    string

	// Required applies to the extraction target only: it exempts the
	// field from the default-optional rule.
	Required bool
}

// Override returns the override block for a target, if any.
func (f *FieldDefinition) Override(t Target) (Override, bool) {
	o, ok := f.Overrides[t]
	return o, ok
}

// TargetName returns the field's name as seen by a target, honoring a
// rename override.
func (f *FieldDefinition) TargetName(t Target) string {
	if o, ok := f.Overrides[t]; ok && o.Rename != "" {
		return o.Rename
	}
	return f.Name
}

// Skipped reports whether the field is excluded from a target.
func (f *FieldDefinition) Skipped(t Target) bool {
	o, ok := f.Overrides[t]
	return ok && o.Skip
}

// Definition converts an extraction-only field to an equivalent
// FieldDefinition so generators can treat both uniformly.
func (e *ExtractionField) Definition() FieldDefinition {
	return FieldDefinition{
		Name:        e.Name,
		Type:        e.Type,
		Description: e.Description,
		Nullable:    e.Nullable,
		Required:    e.Required,
		Overrides:   e.Overrides,
	}
}
