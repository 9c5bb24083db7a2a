package courier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_TypedDecode(t *testing.T) {
	t.Parallel()

	t.Run("given struct target and valid payload, then decoded value", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport().
			Stub(MethodGet, "/users/1", `{"name":"Ada","age":36}`, 200, map[string]string{"Content-Type": "application/json"}, 0)
		client := New("https://api.example.com", WithTransport(mock))

		res, err := Get[user](context.Background(), client, "/users/1")
		require.NoError(t, err)
		assert.Equal(t, user{Name: "Ada", Age: 36}, res.Value)
		assert.Equal(t, 200, res.StatusCode)
		assert.Equal(t, "application/json", res.Headers["Content-Type"])
		assert.NotEmpty(t, res.Signature)
	})

	t.Run("given byte slice target, then raw body passes through", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport().
			Stub(MethodGet, "/raw", "\x00\x01\x02", 200, nil, 0)
		client := New("https://api.example.com", WithTransport(mock))

		res, err := Get[[]byte](context.Background(), client, "/raw")
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 1, 2}, res.Value)
	})

	t.Run("given string target and utf8 body, then text passes through", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport().
			Stub(MethodGet, "/text", "plain text, not json", 200, nil, 0)
		client := New("https://api.example.com", WithTransport(mock))

		res, err := Get[string](context.Background(), client, "/text")
		require.NoError(t, err)
		assert.Equal(t, "plain text, not json", res.Value)
	})

	t.Run("given string target and invalid utf8, then decoding failure", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport().
			Stub(MethodGet, "/bin", "\xff\xfe", 200, nil, 0)
		client := New("https://api.example.com", WithTransport(mock))

		_, err := Get[string](context.Background(), client, "/bin")
		require.Error(t, err)
		assert.True(t, IsDecoding(err))
	})

	t.Run("given empty body and struct target, then zero value", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport().
			Stub(MethodDelete, "/users/1", "", 204, nil, 0)
		client := New("https://api.example.com", WithTransport(mock))

		res, err := Delete[user](context.Background(), client, "/users/1")
		require.NoError(t, err)
		assert.Equal(t, user{}, res.Value)
		assert.Equal(t, 204, res.StatusCode)
	})
}

func TestDo_DecodeFailureDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		payload   string
		wantField string
	}{
		{
			name:      "given missing required field, then path names the absent key",
			payload:   `{"name":"Josh"}`,
			wantField: "age",
		},
		{
			name:      "given type mismatch, then path names the offending value",
			payload:   `{"name":"Josh","age":"old"}`,
			wantField: "age",
		},
		{
			name:      "given null required value, then path names the null key",
			payload:   `{"name":null,"age":3}`,
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := NewMockTransport().
				Stub(MethodGet, "/users/1", tt.payload, 200, nil, 0)
			client := New("https://api.example.com", WithTransport(mock))

			_, err := Get[user](context.Background(), client, "/users/1")
			require.Error(t, err)
			assert.True(t, IsDecoding(err))

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "user", cerr.TypeName)
			assert.Equal(t, tt.wantField, cerr.FieldPath)
			assert.Equal(t, 200, cerr.StatusCode)
			assert.NotEmpty(t, cerr.CanonicalString)
			assert.NotEmpty(t, cerr.Signature)
		})
	}
}

func TestDo_DecodeFailureOnUnclassifiedError(t *testing.T) {
	t.Parallel()

	// Decoding a JSON object into a bare int still surfaces as a decoding
	// failure with the target type name attached.
	mock := NewMockTransport().
		Stub(MethodGet, "/n", `{"not":"a number"}`, 200, nil, 0)
	client := New("https://api.example.com", WithTransport(mock))

	_, err := Get[int](context.Background(), client, "/n")
	require.Error(t, err)
	assert.True(t, IsDecoding(err))

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "int", cerr.TypeName)
}

func TestVerbHelpers(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().
		Stub(MethodGet, "/r", `{}`, 200, nil, 0).
		Stub(MethodPost, "/r", `{}`, 201, nil, 0).
		Stub(MethodPut, "/r", `{}`, 200, nil, 0).
		Stub(MethodPatch, "/r", `{}`, 200, nil, 0).
		Stub(MethodDelete, "/r", ``, 204, nil, 0)
	client := New("https://api.example.com", WithTransport(mock))
	ctx := context.Background()

	_, err := Get[map[string]string](ctx, client, "/r")
	require.NoError(t, err)
	_, err = Post[map[string]string](ctx, client, "/r", map[string]int{"n": 1})
	require.NoError(t, err)
	_, err = Put[map[string]string](ctx, client, "/r", map[string]int{"n": 2})
	require.NoError(t, err)
	_, err = Patch[map[string]string](ctx, client, "/r", map[string]int{"n": 3})
	require.NoError(t, err)
	_, err = Delete[map[string]string](ctx, client, "/r")
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 5)
	assert.Equal(t, MethodGet, calls[0].Method)
	assert.Equal(t, MethodPost, calls[1].Method)
	assert.True(t, calls[1].HadBody)
	assert.Equal(t, MethodDelete, calls[4].Method)
	assert.False(t, calls[4].HadBody)
}
