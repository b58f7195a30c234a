package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/aligner/logger"
)

// probePaths are polled by orchestrators and not logged.
var probePaths = map[string]bool{
	"/health":  true,
	"/alive":   true,
	"/ready":   true,
	"/metrics": true,
}

// RequestLogger logs every request with its method, path, status, duration
// and body sizes.
// Probe endpoints are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if probePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := recordResponse(w)
			next.ServeHTTP(rec, r)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, rec.status,
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			if r.ContentLength > 0 {
				fields["request_bytes"] = r.ContentLength
			}
			if rec.written > 0 {
				fields["response_bytes"] = rec.written
			}
			logByStatus(log.WithContext(r.Context()), fields, rec.status)
		})
	}
}

// logByStatus logs at error for 5xx, warn for 4xx and info otherwise.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Info("request completed", fields)
	}
}
