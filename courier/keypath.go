package courier

import (
	"errors"
	"strings"
)

// KeyPath extracts the dotted field path from a payload parse failure.
//
// For a missing required field the path descends to and includes the
// absent field's own name ("profile.age"). For type-mismatch, null-value
// and corrupted-value failures the path is the location the parser
// reported, with no synthetic trailing segment, since those errors are
// about a value found at that path rather than a named missing key. Any
// error that is not a *ParseError yields the literal "root".
func KeyPath(err error) string {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return "root"
	}

	if pe.Kind == ParseMissingField && pe.Field != "" {
		if len(pe.Path) == 0 {
			return pe.Field
		}
		return strings.Join(pe.Path, ".") + "." + pe.Field
	}

	return strings.Join(pe.Path, ".")
}
