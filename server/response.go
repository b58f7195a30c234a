package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/aligner/errors"
	"github.com/kbukum/aligner/server/middleware"
)

// RespondWithError writes err in the standard error envelope. AppErrors keep
// their status; an oversized body becomes 413; anything else is a 500.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	if limit, ok := middleware.IsBodyTooLarge(err); ok {
		c.JSON(http.StatusRequestEntityTooLarge, apperrors.PayloadTooLarge(limit).ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}

// RespondOK sends a 200 with data as the body.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
