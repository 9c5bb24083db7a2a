package courier

import "strings"

// MergeHeaders merges per-call headers over client defaults.
//
// Key identity is case-insensitive, and on a collision the override wins in
// both value and casing: defaults {"Accept": "a"} merged with overrides
// {"accept": "b"} yields exactly {"accept": "b"}. This is deliberate policy,
// not a side effect of map semantics, and is pinned by tests.
func MergeHeaders(defaults, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		for existing := range merged {
			if existing != k && strings.EqualFold(existing, k) {
				delete(merged, existing)
			}
		}
		merged[k] = v
	}
	return merged
}
