package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/aligner/component"
)

// Overall statuses reported by /health.
const (
	StatusOK        = "ok"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Health reports overall status derived from component health, plus any
// extra fields. An unhealthy component turns the response into a 503.
func Health(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		status := StatusOK
		var components []component.Health
		if cfg.Checker != nil {
			components = cfg.Checker(ctx)
			status = overall(components)
		}

		body := gin.H{
			"status":     status,
			"service":    cfg.ServiceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		}
		for _, extra := range cfg.Extras {
			k, v := extra(ctx)
			body[k] = v
		}

		code := http.StatusOK
		if status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, body)
	}
}

func overall(components []component.Health) string {
	status := StatusOK
	for _, ch := range components {
		switch ch.Status {
		case component.StatusUnhealthy:
			return StatusUnhealthy
		case component.StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
