package service

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/aligner/errors"
	"github.com/kbukum/aligner/server"
	"github.com/kbukum/aligner/server/endpoint"
	"github.com/kbukum/aligner/server/middleware"
)

// Handler exposes a Service over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler for svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts POST /align on r. mws run before the handler, for
// example middleware.Auth.
func (h *Handler) RegisterRoutes(r gin.IRouter, mws ...gin.HandlerFunc) {
	g := r.Group("", mws...)
	g.POST("/align", h.Align)
}

// Align handles POST /align.
func (h *Handler) Align(c *gin.Context) {
	var req AlignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, bindError(err))
		return
	}

	resp, err := h.svc.Align(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, resp)
}

// HealthExtras reports the provider and whether it can accept calls.
func (h *Handler) HealthExtras() []endpoint.HealthExtra {
	return []endpoint.HealthExtra{
		func(context.Context) (string, any) { return "provider", h.svc.ProviderName() },
		func(ctx context.Context) (string, any) { return "provider_configured", h.svc.ProviderConfigured(ctx) },
	}
}

// StatsFunc returns the service counters for /metrics.
func (h *Handler) StatsFunc() endpoint.StatsFunc {
	return func() any { return h.svc.Stats() }
}

func bindError(err error) error {
	if _, ok := middleware.IsBodyTooLarge(err); ok {
		return err
	}
	if errors.Is(err, io.EOF) {
		return apperrors.InvalidInput("body", "request body is empty")
	}
	return apperrors.InvalidInput("body", "request body is not a valid align request").WithCause(err)
}
