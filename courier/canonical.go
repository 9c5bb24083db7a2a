package courier

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Canonicalize renders the deterministic textual normal form of a
// descriptor:
//
//	<METHOD>|<scheme>://<host>[:<port>]<path>[?<sortedQuery>][#<fragment>][|headers:<sortedHeaders>]
//
// Query pairs are sorted by key bytes and joined as "k=v" with "&". Headers
// are lower-cased by key, sorted, and rendered as "k:v" joined with "&"
// behind the literal "|headers:" segment. Empty query and empty headers
// omit their segments entirely.
//
// The output is a pure function of the descriptor's key-value sets: two
// descriptors built from maps with identical contents but different
// insertion order canonicalize identically.
func Canonicalize(d *Descriptor) string {
	if d == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(string(d.Method))
	b.WriteByte('|')
	d.writeBaseURL(&b)

	if len(d.Query) > 0 {
		keys := sortedKeys(d.Query)
		b.WriteByte('?')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(d.Query[k])
		}
	}

	if d.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(d.Fragment)
	}

	if len(d.Headers) > 0 {
		lowered := make(map[string]string, len(d.Headers))
		for k, v := range d.Headers {
			lowered[strings.ToLower(k)] = v
		}
		keys := sortedKeys(lowered)
		b.WriteString("|headers:")
		for i, k := range keys {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(k)
			b.WriteByte(':')
			b.WriteString(lowered[k])
		}
	}

	return b.String()
}

// CanonicalizeSigned is the signing and deduplication form: Canonicalize
// plus a "|body:<sha256-of-body>" segment when a body is present. Hashing
// the body instead of embedding it bounds the pre-image length and keeps
// payload contents out of cache keys and debug output.
func CanonicalizeSigned(d *Descriptor) string {
	s := Canonicalize(d)
	if d == nil || len(d.Body) == 0 {
		return s
	}
	sum := sha256.Sum256(d.Body)
	return s + "|body:" + hex.EncodeToString(sum[:])
}

// Sign returns the lower-case hex SHA-256 digest of the canonical string.
//
// Sign("") returns "" exactly, not the digest of the empty string: an empty
// canonical string means no request was ever built (invalid host, encode
// failure) and must not fabricate a plausible-looking signature. The digest
// algorithm is fixed; changing it invalidates every stored signature.
func Sign(canonical string) string {
	if canonical == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
