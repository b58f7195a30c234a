package middleware

import (
	"errors"
	"net/http"

	apperrors "github.com/kbukum/aligner/errors"
	"github.com/kbukum/aligner/util"
)

const defaultMaxBodySize = 100 << 20

// BodySizeLimit restricts request bodies to maxSize (e.g. "100MB"). Requests
// that declare a larger Content-Length are rejected with 413 before any of
// the body is read; others fail on read past the limit.
func BodySizeLimit(maxSize string) Middleware {
	limit := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, apperrors.PayloadTooLarge(limit))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// IsBodyTooLarge reports whether err came from reading past the limit set by
// BodySizeLimit, and returns that limit.
func IsBodyTooLarge(err error) (int64, bool) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return mbe.Limit, true
	}
	return 0, false
}
