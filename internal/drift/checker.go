// Package drift detects undeclared manual edits to committed record
// artifacts by regenerating them and comparing the text, timestamp line
// excluded.
package drift

import (
	"bytes"

	"github.com/venulist/schemagen/internal/generator"
	"github.com/venulist/schemagen/internal/schema"
)

// Result is the outcome of checking one schema file. Drift is reported,
// not thrown, so every file can be checked in one pass.
type Result struct {
	Name    string
	Drifted bool
}

// Summary aggregates per-file results.
type Summary struct {
	Results []Result
}

// Add appends a result.
func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
}

// Drifted reports whether any checked file drifted.
func (s *Summary) Drifted() bool {
	for _, r := range s.Results {
		if r.Drifted {
			return true
		}
	}
	return false
}

// Check re-parses a schema source, re-runs the record generator, and
// compares the result against the committed artifact. The checker does
// not attempt to explain a mismatch; the operator re-runs generation.
func Check(name string, source, committed []byte, loader schema.Loader, cfg generator.Config) (Result, error) {
	def, err := schema.Parse(source)
	if err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := generator.NewRecordGenerator(&buf, cfg).Generate(def, loader); err != nil {
		return Result{}, err
	}

	drifted := !bytes.Equal(Strip(buf.Bytes()), Strip(committed))
	return Result{Name: name, Drifted: drifted}, nil
}

// Strip removes every line matching the generated-at timestamp pattern,
// on either side of the comparison.
func Strip(b []byte) []byte {
	lines := bytes.Split(b, []byte("\n"))
	kept := lines[:0]
	for _, line := range lines {
		if generator.TimestampPattern.Match(line) {
			continue
		}
		kept = append(kept, line)
	}
	return bytes.Join(kept, []byte("\n"))
}
