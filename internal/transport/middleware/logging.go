package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/shopfloor-tasks/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

// maxLoggedBody caps how much of a request or response body ends up in the log.
const maxLoggedBody = 4 << 10

const redacted = "[FILTERED]"

// sensitiveKeys are matched as substrings of lower-cased JSON keys and header names.
var sensitiveKeys = []string{
	"password",
	"pass",
	"token",
	"authorization",
	"secret",
	"credential",
	"cookie",
}

// quietPaths are probe endpoints polled often enough to drown the log.
var quietPaths = map[string]bool{
	"/health":       true,
	"/health/ready": true,
}

// LoggingMiddleware logs each request and its response with credentials masked. Entries go
// through the request-scoped logger when RequestID has stored one, so they carry the trace id.
func LoggingMiddleware(lg *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			reqLogger := requestLogger(lg, r)
			start := time.Now()

			reqLogger.Info("incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"role_header", r.Header.Get(RoleHeader),
				"headers", maskHeaders(r.Header),
				"body", maskBody(peekBody(r)))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			captured := &bytes.Buffer{}
			ww.Tee(&limitedWriter{buf: captured, max: maxLoggedBody})

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			reqLogger.Log(r.Context(), levelForStatus(status), "response",
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.BytesWritten(),
				"body", maskBody(captured.Bytes()))
		})
	}
}

func requestLogger(fallback *slog.Logger, r *http.Request) *slog.Logger {
	if middleware.GetReqID(r.Context()) != "" {
		return logger.From(r.Context())
	}
	return fallback
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// peekBody reads up to maxLoggedBody bytes and puts the full body back for the handler.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	head, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	if err != nil {
		return nil
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	return head
}

type limitedWriter struct {
	buf *bytes.Buffer
	max int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	if room := l.max - l.buf.Len(); room > 0 {
		if len(p) > room {
			l.buf.Write(p[:room])
		} else {
			l.buf.Write(p)
		}
	}
	return len(p), nil
}

func isSensitive(name string) bool {
	name = strings.ToLower(name)
	for _, key := range sensitiveKeys {
		if strings.Contains(name, key) {
			return true
		}
	}
	return false
}

func maskHeaders(headers http.Header) map[string]string {
	masked := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			masked[name] = redacted
			continue
		}
		masked[name] = strings.Join(values, ", ")
	}
	return masked
}

// maskBody masks sensitive JSON fields. Bodies that are not JSON are dropped if they mention
// a sensitive key.
func maskBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		if isSensitive(string(body)) {
			return redacted
		}
		return string(body)
	}

	out, err := json.Marshal(maskValue(data))
	if err != nil {
		return redacted
	}
	return string(out)
}

func maskValue(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		masked := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				masked[key] = redacted
			} else {
				masked[key] = maskValue(value)
			}
		}
		return masked
	case []interface{}:
		masked := make([]interface{}, len(v))
		for i, item := range v {
			masked[i] = maskValue(item)
		}
		return masked
	default:
		return v
	}
}
