package courier

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransport_StubMatching(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().
		Stub(MethodGet, "/users", `[]`, 200, nil, 0).
		Stub(MethodPost, "/users", `{"id":1}`, 201, nil, 0)

	ctx := context.Background()

	resp, err := mock.Send(ctx, &TransportRequest{Method: MethodGet, URL: "https://h/users"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = mock.Send(ctx, &TransportRequest{Method: MethodPost, URL: "https://h/users"})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, `{"id":1}`, string(resp.Body))

	// Same path, unstubbed method.
	_, err = mock.Send(ctx, &TransportRequest{Method: MethodDelete, URL: "https://h/users"})
	assert.ErrorIs(t, err, ErrNoStub)
}

func TestMockTransport_QueryAndFragmentIgnoredInMatching(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().
		Stub(MethodGet, "/search", `[]`, 200, nil, 0)

	resp, err := mock.Send(context.Background(), &TransportRequest{
		Method: MethodGet,
		URL:    "https://h/search?q=go&page=2#results",
	})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/search", calls[0].Path)
	assert.Equal(t, map[string]string{"q": "go", "page": "2"}, calls[0].Query)
	assert.Equal(t, "results", calls[0].Fragment)
}

func TestMockTransport_Restub(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().
		Stub(MethodGet, "/x", `old`, 200, nil, 0).
		Stub(MethodGet, "/x", `new`, 200, nil, 0)

	resp, err := mock.Send(context.Background(), &TransportRequest{Method: MethodGet, URL: "https://h/x"})
	require.NoError(t, err)
	assert.Equal(t, "new", string(resp.Body))
}

func TestMockTransport_RecordsEvenWithoutStub(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()

	_, err := mock.Send(context.Background(), &TransportRequest{
		Method:      MethodPut,
		URL:         "https://h/things/9",
		Body:        []byte("payload"),
		CachePolicy: CachePrefer,
	})
	assert.ErrorIs(t, err, ErrNoStub)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, MethodPut, calls[0].Method)
	assert.Equal(t, "/things/9", calls[0].Path)
	assert.Equal(t, CachePrefer, calls[0].CachePolicy)
	assert.True(t, calls[0].HadBody)
}

func TestMockTransport_Reset(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().
		Stub(MethodGet, "/x", `{}`, 200, nil, 0)

	_, err := mock.Send(context.Background(), &TransportRequest{Method: MethodGet, URL: "https://h/x"})
	require.NoError(t, err)
	require.Len(t, mock.Calls(), 1)

	mock.Reset()

	assert.Empty(t, mock.Calls())
	_, err = mock.Send(context.Background(), &TransportRequest{Method: MethodGet, URL: "https://h/x"})
	assert.ErrorIs(t, err, ErrNoStub)
}

func TestMockTransport_ResponseIsolation(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport().
		Stub(MethodGet, "/x", `abc`, 200, map[string]string{"K": "v"}, 0)

	first, err := mock.Send(context.Background(), &TransportRequest{Method: MethodGet, URL: "https://h/x"})
	require.NoError(t, err)
	first.Body[0] = 'Z'
	first.Headers["K"] = "mutated"

	second, err := mock.Send(context.Background(), &TransportRequest{Method: MethodGet, URL: "https://h/x"})
	require.NoError(t, err)
	assert.Equal(t, "abc", string(second.Body))
	assert.Equal(t, "v", second.Headers["K"])
}

func TestMockTransport_ConcurrentUse(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	for i := 0; i < 10; i++ {
		mock.Stub(MethodGet, "/p"+strconv.Itoa(i), `{}`, 200, nil, 0)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		for j := 0; j < 20; j++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := mock.Send(context.Background(), &TransportRequest{
					Method: MethodGet,
					URL:    "https://h/p" + strconv.Itoa(i),
				})
				assert.NoError(t, err)
			}(i)
		}
	}
	wg.Wait()

	assert.Len(t, mock.Calls(), 200)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 20, mock.CallCount(MethodGet, "/p"+strconv.Itoa(i)))
	}
}
