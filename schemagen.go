// Package schemagen compiles one declarative, language-neutral schema
// description into parallel typed representations for different runtime
// consumers: an in-process record type, a storage-engine schema, a
// client-facing typed interface, and a lenient extraction model for
// partially-known data.
//
// # Quick Start
//
// The simplest way to use this package is Generate:
//
//	files, err := schemagen.Generate(source, loader, nil, &schemagen.Options{
//		Source:  "listing.yaml",
//		Dialect: schemagen.DialectPostgres,
//	})
//
// Each returned GeneratedFile carries the artifact text and a suggested
// filename; writing files to disk is the caller's concern. The compiler
// performs no I/O and keeps no state between invocations, so callers
// may compile many schema files in parallel.
//
// # Inheritance
//
// A schema naming a parent via extends is resolved through the Loader,
// which fetches parent definitions by name. Parsing alone never loads
// ancestors; only generation does.
package schemagen

import (
	"bytes"
	"fmt"
	"time"

	"github.com/venulist/schemagen/internal/drift"
	"github.com/venulist/schemagen/internal/generator"
	"github.com/venulist/schemagen/internal/schema"
)

// Target identifies one of the generated representations.
type Target = schema.Target

const (
	TargetRecord     = schema.TargetRecord
	TargetStorage    = schema.TargetStorage
	TargetInterface  = schema.TargetInterface
	TargetExtraction = schema.TargetExtraction
)

// Targets lists every generation target in a fixed order.
var Targets = schema.Targets

// Dialect selects a storage-engine schema language.
type Dialect = schema.Dialect

const (
	DialectPostgres = schema.DialectPostgres
	DialectSQLite   = schema.DialectSQLite
)

// Loader fetches a named parent schema during inheritance resolution.
type Loader = schema.Loader

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc = schema.LoaderFunc

// Options configures generation.
//
// All fields are optional. If not specified:
//   - Source: the header names the source as "schema"
//   - Dialect: defaults to postgres
//   - Now: defaults to the current time; inject a fixed value for
//     reproducible output
//   - RecordPackage / ExtractionPackage: default to "records" and
//     "extraction"
type Options struct {
	// Source names the schema file in the generated header.
	Source string

	// Dialect selects the storage-engine schema language.
	Dialect Dialect

	// Now is the generation timestamp embedded in the header.
	Now time.Time

	// RecordPackage and ExtractionPackage name the packages of the
	// Go-source targets.
	RecordPackage     string
	ExtractionPackage string

	// WithValidation makes the interface target also emit the parallel
	// runtime-validation schema.
	WithValidation bool
}

func (o *Options) config() generator.Config {
	if o == nil {
		return generator.Config{Dialect: schema.DialectPostgres}
	}
	dialect := o.Dialect
	if dialect == "" {
		dialect = schema.DialectPostgres
	}
	return generator.Config{
		Source:            o.Source,
		Now:               o.Now,
		Dialect:           dialect,
		RecordPackage:     o.RecordPackage,
		ExtractionPackage: o.ExtractionPackage,
		WithValidation:    o.WithValidation,
	}
}

// GeneratedFile is one generated artifact. The list of these returned
// by Generate is the complete record of what a compiler invocation
// produced; there is no module-level accumulator.
type GeneratedFile struct {
	Schema   string
	Target   Target
	Filename string
	Content  string
}

// Generate parses one schema description and produces the requested
// targets (all four when targets is nil), in a fixed order.
func Generate(src []byte, loader Loader, targets []Target, opts *Options) ([]GeneratedFile, error) {
	if len(targets) == 0 {
		targets = Targets
	}

	files := make([]GeneratedFile, 0, len(targets))
	for _, t := range targets {
		f, err := GenerateTarget(src, loader, t, opts)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// GenerateTarget parses one schema description and produces a single
// target representation.
func GenerateTarget(src []byte, loader Loader, target Target, opts *Options) (GeneratedFile, error) {
	def, err := schema.Parse(src)
	if err != nil {
		return GeneratedFile{}, err
	}

	cfg := opts.config()
	var buf bytes.Buffer
	switch target {
	case TargetRecord:
		err = generator.NewRecordGenerator(&buf, cfg).Generate(def, loader)
	case TargetStorage:
		err = generator.NewStorageGenerator(&buf, cfg).Generate(def, loader)
	case TargetInterface:
		err = generator.NewInterfaceGenerator(&buf, cfg).Generate(def, loader)
	case TargetExtraction:
		err = generator.NewExtractionGenerator(&buf, cfg).Generate(def, loader)
	default:
		return GeneratedFile{}, fmt.Errorf("unknown target %q", target)
	}
	if err != nil {
		return GeneratedFile{}, err
	}

	return GeneratedFile{
		Schema:   def.Name,
		Target:   target,
		Filename: Filename(def.Name, target),
		Content:  buf.String(),
	}, nil
}

// Filename is the conventional output filename for a schema and target.
func Filename(schemaName string, target Target) string {
	base := generator.SnakeCase(schemaName)
	switch target {
	case TargetStorage:
		return base + ".sql"
	case TargetInterface:
		return base + ".ts"
	case TargetExtraction:
		return base + "_extraction.go"
	default:
		return base + "_record.go"
	}
}

// CheckDrift re-generates the record artifact for a schema source and
// reports whether it differs from the committed artifact, ignoring the
// embedded timestamp line.
func CheckDrift(name string, src, committed []byte, loader Loader, opts *Options) (bool, error) {
	r, err := drift.Check(name, src, committed, loader, opts.config())
	if err != nil {
		return false, err
	}
	return r.Drifted, nil
}
