package courier

import (
	"golang.org/x/sync/singleflight"
)

// coalescer deduplicates identical in-flight calls. The key is the request
// signature, so "identical" means identical canonical form including the
// body hash; callers that differ in any signed component never share a
// flight. Callers of a shared flight all receive the same response value,
// which is safe because TransportResponse is treated as read-only after the
// transport returns it.
type coalescer struct {
	group singleflight.Group
}

func newCoalescer() *coalescer {
	return &coalescer{}
}

// do executes fn once per key among concurrent callers.
func (c *coalescer) do(key string, fn func() (*TransportResponse, error)) (*TransportResponse, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		return fn()
	})
	if v == nil {
		return nil, err
	}
	return v.(*TransportResponse), err
}
