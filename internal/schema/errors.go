package schema

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed or incomplete schema description. It
// aborts generation for that schema only.
type ParseError struct {
	Schema string
	Field  string
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema %q, field %q: %s", e.Schema, e.Field, e.Msg)
	}
	if e.Schema != "" {
		return fmt.Sprintf("schema %q: %s", e.Schema, e.Msg)
	}
	return e.Msg
}

// UnsupportedTypeError reports a logical type, or an override type, that
// the Type Catalog cannot map for a target.
type UnsupportedTypeError struct {
	Schema string
	Field  string
	Type   string
	Target Target
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("schema %q, field %q: type %q is not supported for target %q",
		e.Schema, e.Field, e.Type, e.Target)
}

// ValidatorError reports an unrecognized validator name on a field.
// Fatal for the extraction-model generator only.
type ValidatorError struct {
	Schema    string
	Field     string
	Validator string
}

func (e *ValidatorError) Error() string {
	return fmt.Sprintf("schema %q, field %q: unknown validator %q", e.Schema, e.Field, e.Validator)
}

// CycleError reports a cyclic extends chain. The chain includes the
// schema that closed the cycle.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic extends chain: %s", strings.Join(e.Chain, " -> "))
}
