package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/aligner/auth"
	"github.com/kbukum/aligner/auth/authctx"
	apperrors "github.com/kbukum/aligner/errors"
)

// Auth validates "Authorization: Bearer <token>" with validator and stores
// the claims in the request context via authctx. Failures abort with 401 in
// the standard error envelope.
func Auth(validator auth.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWith(c, apperrors.Unauthorized("missing bearer token"))
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortWith(c, apperrors.Unauthorized("malformed authorization header"))
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			abortWith(c, apperrors.InvalidToken().WithCause(err))
			return
		}
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), claims))
		c.Next()
	}
}

func abortWith(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}
