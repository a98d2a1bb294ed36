package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/venulist/schemagen"
	"github.com/venulist/schemagen/internal/drift"
	"github.com/venulist/schemagen/internal/generator"
	"github.com/venulist/schemagen/internal/schema"
)

var (
	validateSchemaDir  string
	validateRecordsDir string
	validatePackage    string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check committed record artifacts for drift",
	Long: `Validate re-generates the record artifact for every schema file and
compares it against the committed artifact, ignoring the embedded
generation timestamp. Nothing is written; the exit status is non-zero
if any file drifted.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaDir, "schema-dir", "s", "schemas", "Directory containing schema description files")
	validateCmd.Flags().StringVar(&validateRecordsDir, "records-dir", "gen/records", "Directory containing committed record artifacts")
	validateCmd.Flags().StringVar(&validatePackage, "record-package", "records", "Package name for generated record code")
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := listSchemaFiles(validateSchemaDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no schema files found in %s", validateSchemaDir)
	}

	loader := newDirLoader(validateSchemaDir)
	var summary drift.Summary
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		// The artifact filename derives from the declared schema name,
		// not the file name.
		def, err := schema.Parse(src)
		if err != nil {
			return err
		}

		artifact := filepath.Join(validateRecordsDir, schemagen.Filename(def.Name, schemagen.TargetRecord))
		committed, err := os.ReadFile(artifact)
		if err != nil {
			// A missing artifact is drift: the schema was never
			// generated, or the artifact was removed by hand.
			log.Warn().Str("schema", def.Name).Str("artifact", artifact).Msg("committed artifact missing")
			summary.Add(drift.Result{Name: def.Name, Drifted: true})
			continue
		}

		cfg := generator.Config{
			Source:        filepath.Base(path),
			RecordPackage: validatePackage,
		}
		result, err := drift.Check(def.Name, src, committed, loader, cfg)
		if err != nil {
			return err
		}
		summary.Add(result)

		if result.Drifted {
			log.Error().Str("schema", result.Name).Msg("artifact drifted from schema")
		} else {
			log.Debug().Str("schema", result.Name).Msg("artifact up to date")
		}
	}

	if summary.Drifted() {
		drifted := 0
		for _, r := range summary.Results {
			if r.Drifted {
				drifted++
			}
		}
		return fmt.Errorf("drift detected in %d of %d schema file(s); re-run generation", drifted, len(summary.Results))
	}

	log.Info().Int("schemas", len(summary.Results)).Msg("all artifacts up to date")
	return nil
}
