package middleware

import "net/http"

// responseRecorder remembers the status and body size a handler sends so
// RequestLogger can report them.
type responseRecorder struct {
	http.ResponseWriter
	status  int
	written int64
	sent    bool
}

func recordResponse(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader keeps the first status; later calls are still forwarded so
// net/http can warn about them.
func (rec *responseRecorder) WriteHeader(code int) {
	if !rec.sent {
		rec.status = code
		rec.sent = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	rec.sent = true
	n, err := rec.ResponseWriter.Write(b)
	rec.written += int64(n)
	return n, err
}

func (rec *responseRecorder) Flush() {
	_ = http.NewResponseController(rec.ResponseWriter).Flush()
}

func (rec *responseRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}
