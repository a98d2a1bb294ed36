// Package generator emits the four target representations of a resolved
// schema: an in-process record type, a storage-engine schema, a typed
// client interface, and a lenient extraction model.
package generator

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/venulist/schemagen/internal/schema"
)

// MetaImportPath is the runtime package generated record code imports
// for its field descriptors.
const MetaImportPath = "github.com/venulist/schemagen/fieldmeta"

// TimestampPattern matches the single header line excluded from drift
// comparison and from the determinism property.
var TimestampPattern = regexp.MustCompile(`Generated at: `)

// Config carries the settings shared by all generators.
type Config struct {
	// Source names the schema file in the generated header.
	Source string

	// Now is the generation timestamp; the zero value means time.Now.
	Now time.Time

	// Dialect selects the storage-engine schema language.
	Dialect schema.Dialect

	// Package names for the Go-source targets.
	RecordPackage     string
	ExtractionPackage string

	// WithValidation makes the interface generator also emit the
	// parallel runtime-validation schema.
	WithValidation bool
}

func (c Config) recordPackage() string {
	if c.RecordPackage == "" {
		return "records"
	}
	return c.RecordPackage
}

func (c Config) extractionPackage() string {
	if c.ExtractionPackage == "" {
		return "extraction"
	}
	return c.ExtractionPackage
}

func (c Config) timestamp() time.Time {
	if c.Now.IsZero() {
		return time.Now().UTC()
	}
	return c.Now
}

func (c Config) source() string {
	if c.Source == "" {
		return "schema"
	}
	return c.Source
}

// writeHeader emits the shared artifact header using the target's
// comment leader.
func writeHeader(w io.Writer, leader string, cfg Config) {
	fmt.Fprintf(w, "%s Code generated by schemagen from %s. DO NOT EDIT.\n", leader, cfg.source())
	fmt.Fprintf(w, "%s Generated at: %s\n", leader, cfg.timestamp().Format(time.RFC3339))
}

// SnakeCase converts CamelCase or mixedCase to snake_case. Names that
// are already snake_case pass through unchanged.
func SnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// goIdent converts a snake_case field name to an exported Go
// identifier.
func goIdent(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
