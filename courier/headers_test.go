package courier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		defaults  map[string]string
		overrides map[string]string
		want      map[string]string
	}{
		{
			name:      "given nil inputs, then empty result",
			defaults:  nil,
			overrides: nil,
			want:      map[string]string{},
		},
		{
			name:      "given disjoint keys, then union",
			defaults:  map[string]string{"Accept": "application/json"},
			overrides: map[string]string{"Authorization": "Bearer t"},
			want:      map[string]string{"Accept": "application/json", "Authorization": "Bearer t"},
		},
		{
			name:      "given same-case collision, then override value wins",
			defaults:  map[string]string{"Accept": "a"},
			overrides: map[string]string{"Accept": "b"},
			want:      map[string]string{"Accept": "b"},
		},
		{
			name:      "given case-variant collision, then override casing wins too",
			defaults:  map[string]string{"Accept": "a"},
			overrides: map[string]string{"accept": "b"},
			want:      map[string]string{"accept": "b"},
		},
		{
			name:      "given upper-case override of lower-case default, then single entry",
			defaults:  map[string]string{"x-trace-id": "1"},
			overrides: map[string]string{"X-Trace-Id": "2"},
			want:      map[string]string{"X-Trace-Id": "2"},
		},
		{
			name:      "given untouched defaults next to a collision, then they survive as-is",
			defaults:  map[string]string{"Accept": "a", "User-Agent": "courier"},
			overrides: map[string]string{"ACCEPT": "b"},
			want:      map[string]string{"ACCEPT": "b", "User-Agent": "courier"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MergeHeaders(tt.defaults, tt.overrides))
		})
	}
}

func TestMergeHeaders_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	defaults := map[string]string{"Accept": "a"}
	overrides := map[string]string{"accept": "b"}

	MergeHeaders(defaults, overrides)

	assert.Equal(t, map[string]string{"Accept": "a"}, defaults)
	assert.Equal(t, map[string]string{"accept": "b"}, overrides)
}
