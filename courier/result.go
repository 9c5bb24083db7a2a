package courier

import (
	"context"
	"errors"
	"reflect"
	"unicode/utf8"
)

// Result is the typed success outcome of one executed call.
type Result[T any] struct {
	// Value is the decoded payload.
	Value T

	// StatusCode and Headers are the response status metadata.
	StatusCode int
	Headers    map[string]string

	// CanonicalString is the deterministic normal form of the request.
	CanonicalString string

	// Signature is the content signature of the request, usable as a
	// cache, dedup or debug key.
	Signature string
}

// Do executes a call and decodes the response payload into T.
//
// Three payload modes are supported by the type parameter alone:
//
//	[]byte  raw pass-through
//	string  UTF-8 text pass-through
//	other   structured decode via the client's codec
//
// A decode failure is returned as a KindDecoding *Error carrying the
// target type name and the dotted field path where parsing failed.
func Do[T any](ctx context.Context, c *Client, req *Request) (*Result[T], error) {
	raw, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	res := &Result[T]{
		StatusCode:      raw.StatusCode,
		Headers:         raw.Headers,
		CanonicalString: raw.CanonicalString,
		Signature:       raw.Signature,
	}

	if decErr := decodePayload(c.codec, raw.Body, &res.Value); decErr != nil {
		return nil, &Error{
			Kind:            KindDecoding,
			StatusCode:      raw.StatusCode,
			TypeName:        typeName[T](),
			FieldPath:       KeyPath(decErr),
			CanonicalString: raw.CanonicalString,
			Signature:       raw.Signature,
			Err:             decErr,
		}
	}

	return res, nil
}

// decodePayload routes the body into the target by mode. An empty body
// with a structured target decodes to the zero value rather than an error,
// matching servers that answer 204-style with no content.
func decodePayload(codec Codec, body []byte, v any) error {
	switch target := v.(type) {
	case *[]byte:
		*target = append([]byte(nil), body...)
		return nil
	case *string:
		if !utf8.Valid(body) {
			return &ParseError{Kind: ParseCorrupted, Err: errInvalidUTF8}
		}
		*target = string(body)
		return nil
	default:
		if len(body) == 0 {
			return nil
		}
		return codec.Decode(body, v)
	}
}

var errInvalidUTF8 = errors.New("courier: response body is not valid UTF-8")

// typeName names the decode target for decode-failure reporting.
func typeName[T any]() string {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
