package courier

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// defaultLogger is the package-level zerolog logger used when no logger is
// injected via WithLogger.
var defaultLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// logRequest dumps the outgoing request when debug mode is on. Bodies are
// logged by size only; payloads may carry secrets.
func logRequest(logger zerolog.Logger, req *TransportRequest, signature string) {
	logger.Debug().
		Str("method", string(req.Method)).
		Str("url", req.URL).
		Str("signature", signature).
		Int("body_bytes", len(req.Body)).
		Str("cache_policy", req.CachePolicy.String()).
		Msg("courier request")
}

// logResponse dumps the transport outcome when debug mode is on.
func logResponse(logger zerolog.Logger, resp *TransportResponse, err error, duration time.Duration) {
	evt := logger.Debug().Dur("duration", duration)
	if err != nil {
		evt.Err(err).Msg("courier response error")
		return
	}
	if resp == nil {
		evt.Msg("courier response missing")
		return
	}
	evt.Int("status", resp.StatusCode).
		Int("body_bytes", len(resp.Body)).
		Msg("courier response")
}

// curlCommand renders a cURL equivalent of the outgoing request, headers
// sorted for stable output. Intended for debug logs and bug reports.
func curlCommand(req *TransportRequest) string {
	parts := []string{"curl"}

	if req.Method != MethodGet {
		parts = append(parts, "-X", string(req.Method))
	}
	parts = append(parts, fmt.Sprintf("'%s'", req.URL))

	keys := make([]string, 0, len(req.Headers))
	for k := range req.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, "-H", fmt.Sprintf("'%s: %s'", k, req.Headers[k]))
	}

	if len(req.Body) > 0 {
		body := strings.ReplaceAll(string(req.Body), "'", `'\''`)
		parts = append(parts, "-d", fmt.Sprintf("'%s'", body))
	}

	return strings.Join(parts, " ")
}
