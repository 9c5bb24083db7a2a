package courier

import (
	"errors"
	"strconv"
	"strings"
)

// ErrEmptyHost is returned by ComposeURL when the parsed base host has no
// host component. The executor maps it to a KindInvalidURL failure.
var ErrEmptyHost = errors.New("courier: base host has no host component")

// ComposeURL combines the immutable base-host configuration with per-call
// path, query and fragment into a single normalized URL string.
//
// The base path and the call path are segment-joined: each is stripped of
// surrounding slashes and whitespace, empty segments are dropped, and the
// result is re-joined with single slashes. Query pairs are appended in map
// iteration order; ordering in the URL string is not significant because
// canonicalization sorts independently (see Canonicalize).
func ComposeURL(h ParsedHost, path string, query map[string]string, fragment string) (string, error) {
	if h.Host == "" {
		return "", ErrEmptyHost
	}

	var b strings.Builder
	b.WriteString(h.Scheme)
	b.WriteString("://")
	b.WriteString(h.Host)
	if h.HasPort {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(h.Port))
	}
	b.WriteString(JoinPath(h.BasePath, path))

	if len(query) > 0 {
		b.WriteByte('?')
		first := true
		for k, v := range query {
			if !first {
				b.WriteByte('&')
			}
			first = false
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}

	if fragment != "" {
		b.WriteByte('#')
		b.WriteString(fragment)
	}

	return b.String(), nil
}

// JoinPath joins the base path with a per-call path into a single
// "/"-prefixed path. Empty segments are dropped, so repeated or surrounding
// slashes in either input collapse away. Both inputs empty yields "".
func JoinPath(base, path string) string {
	segs := append(pathSegments(base), pathSegments(path)...)
	if len(segs) == 0 {
		return ""
	}
	joined := "/" + strings.Join(segs, "/")
	// Segments can still smuggle in a slash via whitespace trimming edge
	// cases; collapse once more as a safety net.
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}
	return joined
}
