// Package fieldmeta holds the field-descriptor type that generated
// record code references, plus the lookups its helper functions wrap.
package fieldmeta

// Field describes one resolved schema field at runtime.
type Field struct {
	Name           string
	Type           string
	Description    string
	Nullable       bool
	Required       bool
	Internal       bool
	SearchCategory string
	SearchKeywords []string
}

// ByName finds a field by name.
func ByName(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// WithSearch returns the fields carrying search metadata.
func WithSearch(fields []Field) []Field {
	var out []Field
	for _, f := range fields {
		if f.SearchCategory != "" || len(f.SearchKeywords) > 0 {
			out = append(out, f)
		}
	}
	return out
}

// Extractable returns the fields usable for external extraction,
// excluding fields marked internal.
func Extractable(fields []Field) []Field {
	var out []Field
	for _, f := range fields {
		if !f.Internal {
			out = append(out, f)
		}
	}
	return out
}
