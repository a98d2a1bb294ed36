package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/venulist/schemagen"
)

var (
	schemaDir         string
	outRecords        string
	outStorage        string
	outInterface      string
	outExtraction     string
	dialectFlag       string
	targetsFlag       []string
	force             bool
	withValidation    bool
	recordPackage     string
	extractionPackage string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate all target artifacts from a directory of schema files",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&schemaDir, "schema-dir", "s", "schemas", "Directory containing schema description files")
	generateCmd.Flags().StringVar(&outRecords, "out-records", "gen/records", "Output directory for record artifacts")
	generateCmd.Flags().StringVar(&outStorage, "out-storage", "gen/storage", "Output directory for storage schema artifacts")
	generateCmd.Flags().StringVar(&outInterface, "out-interface", "gen/interface", "Output directory for interface artifacts")
	generateCmd.Flags().StringVar(&outExtraction, "out-extraction", "gen/extraction", "Output directory for extraction model artifacts")
	generateCmd.Flags().StringVarP(&dialectFlag, "dialect", "d", "postgres", "Storage dialect: postgres or sqlite")
	generateCmd.Flags().StringSliceVarP(&targetsFlag, "targets", "t", nil, "Targets to generate (default: all)")
	generateCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing artifacts without prompting")
	generateCmd.Flags().BoolVar(&withValidation, "with-validation", false, "Also emit the runtime-validation schema for the interface target")
	generateCmd.Flags().StringVar(&recordPackage, "record-package", "records", "Package name for generated record code")
	generateCmd.Flags().StringVar(&extractionPackage, "extraction-package", "extraction", "Package name for generated extraction code")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dialect, err := parseDialect(dialectFlag)
	if err != nil {
		return err
	}
	targets, err := parseTargets(targetsFlag)
	if err != nil {
		return err
	}

	files, err := listSchemaFiles(schemaDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no schema files found in %s", schemaDir)
	}

	outDirs := map[schemagen.Target]string{
		schemagen.TargetRecord:     outRecords,
		schemagen.TargetStorage:    outStorage,
		schemagen.TargetInterface:  outInterface,
		schemagen.TargetExtraction: outExtraction,
	}

	loader := newDirLoader(schemaDir)
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		opts := &schemagen.Options{
			Source:            filepath.Base(path),
			Dialect:           dialect,
			RecordPackage:     recordPackage,
			ExtractionPackage: extractionPackage,
			WithValidation:    withValidation,
		}
		generated, err := schemagen.Generate(src, loader, targets, opts)
		if err != nil {
			return fmt.Errorf("failed to generate from %s: %w", path, err)
		}

		for _, gf := range generated {
			dir := outDirs[gf.Target]
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory %s: %w", dir, err)
			}

			dest := filepath.Join(dir, gf.Filename)
			if _, err := os.Stat(dest); err == nil && !force {
				if !confirmOverwrite(dest) {
					log.Warn().Str("file", dest).Msg("skipped existing artifact")
					continue
				}
			}
			if err := os.WriteFile(dest, []byte(gf.Content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", dest, err)
			}
			log.Info().
				Str("schema", gf.Schema).
				Str("target", string(gf.Target)).
				Str("file", dest).
				Msg("wrote artifact")
		}
	}
	return nil
}

func parseDialect(s string) (schemagen.Dialect, error) {
	switch s {
	case "postgres":
		return schemagen.DialectPostgres, nil
	case "sqlite":
		return schemagen.DialectSQLite, nil
	default:
		return "", fmt.Errorf("invalid dialect: %s (must be 'postgres' or 'sqlite')", s)
	}
}

func parseTargets(names []string) ([]schemagen.Target, error) {
	if len(names) == 0 {
		return nil, nil
	}
	known := map[string]schemagen.Target{}
	for _, t := range schemagen.Targets {
		known[string(t)] = t
	}

	var targets []schemagen.Target
	for _, n := range names {
		t, ok := known[strings.TrimSpace(n)]
		if !ok {
			return nil, fmt.Errorf("unknown target %q", n)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func confirmOverwrite(path string) bool {
	fmt.Fprintf(os.Stderr, "overwrite %s? [y/N]: ", path)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
