package courier

import (
	"regexp"
	"strconv"
	"strings"
)

// schemePattern matches an explicit URI scheme prefix, e.g. "https://" or
// "custom+v1://". Scheme casing is preserved as given.
var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// ParsedHost is the immutable base-host configuration derived from the raw
// host string passed to New. It is computed once at client construction and
// read-only afterwards, so concurrent calls never need to synchronize on it.
type ParsedHost struct {
	// Scheme is the URI scheme, "https" when the raw string carried none.
	Scheme string

	// Host is the host portion, bracket-inclusive for IPv6 literals.
	// When the port suffix of the raw string does not parse as a number,
	// Host retains the whole original token, colon and suffix included.
	Host string

	// Port is the parsed port. Only meaningful when HasPort is true.
	Port int

	// HasPort reports whether an explicit, numeric port was present.
	HasPort bool

	// BasePath is either empty or starts with exactly one "/" and never
	// ends with one, e.g. "/api/v1".
	BasePath string
}

// ParseHost parses a free-form base-host string into its parts.
//
// It never fails: malformed input degrades to the closest well-formed
// interpretation rather than an error. The rules, in order:
//
//  1. An explicit "<scheme>://" prefix is stripped and kept; otherwise the
//     scheme defaults to "https".
//  2. The remainder is split at the first "/" into host-and-port and path.
//  3. The port is extracted IPv6-aware: a bracketed literal keeps its
//     brackets, and only a numeric suffix after ":" becomes the port.
//  4. The path is collapsed and trimmed into a canonical base path.
//
// A port suffix that is not a valid number is deliberately NOT stripped:
// the host keeps the original token verbatim ("host:notaport") so malformed
// input round-trips unchanged. Downstream callers rely on that.
func ParseHost(raw string) ParsedHost {
	parsed := ParsedHost{Scheme: "https"}

	rest := raw
	if m := schemePattern.FindString(raw); m != "" {
		parsed.Scheme = strings.TrimSuffix(m, "://")
		rest = raw[len(m):]
	}

	rest = strings.TrimSpace(rest)

	hostport := rest
	path := ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		hostport = rest[:i]
		path = rest[i:]
	}

	parsed.Host, parsed.Port, parsed.HasPort = splitHostPort(hostport)
	parsed.BasePath = normalizeBasePath(path)
	return parsed
}

// splitHostPort separates a host-and-port token. The returned host is the
// full original token whenever the port side fails to parse.
func splitHostPort(token string) (host string, port int, ok bool) {
	if strings.HasPrefix(token, "[") {
		end := strings.IndexByte(token, ']')
		if end < 0 {
			return token, 0, false
		}
		rest := token[end+1:]
		if rest == "" {
			return token[:end+1], 0, false
		}
		if strings.HasPrefix(rest, ":") {
			if p, err := strconv.Atoi(rest[1:]); err == nil && p >= 0 {
				return token[:end+1], p, true
			}
		}
		// Trailing junk after the bracket, keep the token whole.
		return token, 0, false
	}

	i := strings.IndexByte(token, ':')
	if i < 0 {
		return token, 0, false
	}
	if p, err := strconv.Atoi(token[i+1:]); err == nil && p >= 0 {
		return token[:i], p, true
	}
	return token, 0, false
}

// normalizeBasePath collapses runs of "/" and strips the surrounding ones.
// The result is "" or "/"-prefixed with no trailing "/".
func normalizeBasePath(p string) string {
	segs := pathSegments(p)
	if len(segs) == 0 {
		return ""
	}
	return "/" + strings.Join(segs, "/")
}

// pathSegments splits p on "/" and drops empty segments, which both
// collapses repeated slashes and trims the leading and trailing ones.
func pathSegments(p string) []string {
	parts := strings.Split(strings.TrimSpace(p), "/")
	segs := parts[:0]
	for _, s := range parts {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
