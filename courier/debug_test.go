package courier

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurlCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  *TransportRequest
		want string
	}{
		{
			name: "given plain get, then no method flag",
			req:  &TransportRequest{Method: MethodGet, URL: "https://h/x"},
			want: "curl 'https://h/x'",
		},
		{
			name: "given post with body, then method and data flags",
			req: &TransportRequest{
				Method: MethodPost,
				URL:    "https://h/x",
				Body:   []byte(`{"n":1}`),
			},
			want: `curl -X POST 'https://h/x' -d '{"n":1}'`,
		},
		{
			name: "given headers, then sorted header flags",
			req: &TransportRequest{
				Method:  MethodGet,
				URL:     "https://h/x",
				Headers: map[string]string{"B": "2", "A": "1"},
			},
			want: "curl 'https://h/x' -H 'A: 1' -H 'B: 2'",
		},
		{
			name: "given single quote in body, then escaped",
			req: &TransportRequest{
				Method: MethodPost,
				URL:    "https://h/x",
				Body:   []byte("it's"),
			},
			want: `curl -X POST 'https://h/x' -d 'it'\''s'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, curlCommand(tt.req))
		})
	}
}

func TestClientDo_DebugLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	mock := NewMockTransport().
		Stub(MethodGet, "/x", `{"secret":"value"}`, 200, nil, 0)
	client := New("https://api.example.com",
		WithTransport(mock),
		WithLogger(logger),
		WithDebug(true),
	)

	raw, err := client.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "courier request")
	assert.Contains(t, out, "courier response")
	assert.Contains(t, out, raw.Signature)
	assert.Contains(t, out, "https://api.example.com/x")
	// Bodies are logged by size only, never by content.
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "body_bytes")
}

func TestClientDo_GenerateCurl(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	mock := NewMockTransport().
		Stub(MethodPost, "/x", `{}`, 201, nil, 0)
	client := New("https://api.example.com",
		WithTransport(mock),
		WithLogger(logger),
		WithGenerateCurl(true),
	)

	_, err := client.Do(context.Background(), &Request{
		Method: MethodPost,
		Path:   "/x",
		Body:   `{"n":1}`,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "curl -X POST")
	assert.Contains(t, out, "https://api.example.com/x")
}

func TestClientDo_NoDebugOutputByDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	mock := NewMockTransport().
		Stub(MethodGet, "/x", `{}`, 200, nil, 0)
	client := New("https://api.example.com",
		WithTransport(mock),
		WithLogger(logger),
	)

	_, err := client.Do(context.Background(), &Request{Method: MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
