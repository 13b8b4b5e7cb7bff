package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/marketplace/internal"
)

const (
	maxLoggedBody = 4096
	redacted      = "[FILTERED]"
)

// secretMarkers are matched as substrings of lower-cased header and JSON keys.
var secretMarkers = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"api_key",
	"session",
	"credential",
	"cookie",
	"phone",
}

// quietPrefixes are logged without bodies; probes and docs would only add noise.
var quietPrefixes = []string{
	"/api/v1/health",
	"/api/v1/ping",
	"/swagger",
	"/openapi.yml",
}

// LoggingMiddleware writes one access line per request once the handler has
// returned. Level follows the status class.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			quiet := isQuiet(r.URL.Path)

			var reqBody []byte
			if !quiet {
				reqBody = peekBody(r)
			}

			rec := &recordingWriter{ResponseWriter: w, capture: !quiet}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []any{
				"request_id", internal.TraceIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", rec.size,
				"remote_addr", r.RemoteAddr,
			}
			if !quiet {
				attrs = append(attrs,
					"query", r.URL.RawQuery,
					"user_agent", r.UserAgent(),
					"headers", redactHeaders(r.Header),
					"request_body", redactBody(reqBody),
					"response_body", redactBody(rec.body.Bytes()),
				)
			}

			logger.Log(r.Context(), levelFor(status), "http request", attrs...)
		})
	}
}

type recordingWriter struct {
	http.ResponseWriter
	status  int
	size    int
	capture bool
	body    bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	if rw.capture && rw.body.Len() < maxLoggedBody {
		rw.body.Write(b[:min(len(b), maxLoggedBody-rw.body.Len())])
	}
	rw.size += len(b)
	return rw.ResponseWriter.Write(b)
}

// peekBody reads small bodies and puts them back for the handler.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.ContentLength <= 0 || r.ContentLength > maxLoggedBody {
		return nil
	}
	b, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(b))
	if err != nil {
		return nil
	}
	return b
}

func isQuiet(path string) bool {
	for _, p := range quietPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func isSecret(key string) bool {
	lower := strings.ToLower(key)
	for _, m := range secretMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if isSecret(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody masks secret JSON keys at any depth. Non-JSON bodies that
// mention a secret marker are dropped whole.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		if isSecret(string(body)) {
			return redacted
		}
		return string(body)
	}

	out, err := json.Marshal(redactValue(doc))
	if err != nil {
		return "[UNLOGGABLE]"
	}
	return string(out)
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			if isSecret(k) {
				t[k] = redacted
				continue
			}
			t[k] = redactValue(inner)
		}
		return t
	case []any:
		for i := range t {
			t[i] = redactValue(t[i])
		}
		return t
	default:
		return v
	}
}
