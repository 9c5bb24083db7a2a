package courier

import "context"

// Get performs a GET request and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Result[T], error) {
	return Do[T](ctx, c, newRequest(MethodGet, path, nil, opts))
}

// Post performs a POST request with the given body and decodes the
// response into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Result[T], error) {
	return Do[T](ctx, c, newRequest(MethodPost, path, body, opts))
}

// Put performs a PUT request with the given body and decodes the response
// into T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Result[T], error) {
	return Do[T](ctx, c, newRequest(MethodPut, path, body, opts))
}

// Patch performs a PATCH request with the given body and decodes the
// response into T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Result[T], error) {
	return Do[T](ctx, c, newRequest(MethodPatch, path, body, opts))
}

// Delete performs a DELETE request and decodes the response into T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Result[T], error) {
	return Do[T](ctx, c, newRequest(MethodDelete, path, nil, opts))
}
