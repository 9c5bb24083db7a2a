package courier

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Codec serializes request bodies and parses response bodies. Decode
// failures should surface as *ParseError so the executor can report a
// structured field path; any other error maps to the "root" path.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// ParseErrorKind classifies the shape of a payload parse failure.
type ParseErrorKind int

const (
	// ParseMissingField: a required field is absent from the payload.
	ParseMissingField ParseErrorKind = iota
	// ParseTypeMismatch: a value exists but has the wrong type.
	ParseTypeMismatch
	// ParseNullValue: a required field is present but null.
	ParseNullValue
	// ParseCorrupted: the payload is not parseable at all.
	ParseCorrupted
)

// String returns the kind name.
func (k ParseErrorKind) String() string {
	switch k {
	case ParseMissingField:
		return "missing_field"
	case ParseTypeMismatch:
		return "type_mismatch"
	case ParseNullValue:
		return "null_value"
	default:
		return "corrupted"
	}
}

// ParseError is a classified payload parse failure.
//
// Path is the nesting path to the error location. For ParseMissingField it
// is the path of the enclosing container and Field names the absent key;
// for every other kind Path already ends at the offending value and Field
// is empty.
type ParseError struct {
	Kind  ParseErrorKind
	Path  []string
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	loc := strings.Join(e.Path, ".")
	if e.Field != "" {
		if loc != "" {
			loc += "."
		}
		loc += e.Field
	}
	if loc == "" {
		loc = "<payload>"
	}
	return fmt.Sprintf("courier: %s at %s: %v", e.Kind, loc, e.Err)
}

// Unwrap returns the underlying parser error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// JSONCodec is the default Codec. It marshals with goccy/go-json and, after
// a successful unmarshal of a struct target, enforces `validate:"required"`
// tags so that absent and null required fields surface as classified parse
// errors instead of silent zero values.
type JSONCodec struct {
	validate *validator.Validate
}

// NewJSONCodec returns a JSONCodec with json-tag-aware field naming, so
// reported field paths use wire names ("age"), not Go names ("Age").
func NewJSONCodec() *JSONCodec {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &JSONCodec{validate: v}
}

// Encode implements Codec.
func (c *JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode implements Codec. The returned error is a *ParseError whenever the
// failure shape is classifiable.
func (c *JSONCodec) Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return classifyUnmarshalError(err)
	}
	return c.checkRequired(data, v)
}

// classifyUnmarshalError converts goccy/go-json errors into *ParseError.
// Unknown shapes pass through untouched and end up mapped to "root".
func classifyUnmarshalError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ParseError{
			Kind: ParseTypeMismatch,
			Path: fieldPathSegments(typeErr.Field),
			Err:  err,
		}
	}

	var synErr *json.SyntaxError
	if errors.As(err, &synErr) {
		return &ParseError{Kind: ParseCorrupted, Err: err}
	}

	return err
}

// checkRequired runs required-field validation on struct targets. The raw
// payload is consulted to distinguish a key that is absent entirely from
// one present as JSON null.
func (c *JSONCodec) checkRequired(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := c.validate.Struct(rv.Interface())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	// The validator's "required" conflates a zero value with an absent key,
	// so each violation is checked against the raw payload: a key that was
	// sent with a real (non-null) value is a valid zero, not an error.
	for _, fe := range verrs {
		if fe.Tag() != "required" {
			continue
		}

		path := namespacePath(fe.Namespace())
		if len(path) == 0 {
			continue
		}

		value := gjson.GetBytes(data, strings.Join(path, "."))
		switch {
		case !value.Exists():
			return &ParseError{
				Kind:  ParseMissingField,
				Path:  path[:len(path)-1],
				Field: path[len(path)-1],
				Err:   err,
			}
		case value.Type == gjson.Null:
			return &ParseError{Kind: ParseNullValue, Path: path, Err: err}
		}
	}

	return nil
}

// namespacePath converts a validator namespace ("User.profile.age") into
// the wire-name path, dropping the leading type segment.
func namespacePath(ns string) []string {
	parts := strings.Split(ns, ".")
	if len(parts) <= 1 {
		return nil
	}
	return parts[1:]
}

// fieldPathSegments splits a decoder-reported dotted field path.
func fieldPathSegments(field string) []string {
	if field == "" {
		return nil
	}
	return strings.Split(field, ".")
}
