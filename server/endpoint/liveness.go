package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Liveness answers /alive without consulting any component. started_at is
// the process start time.
func Liveness(serviceName string) gin.HandlerFunc {
	body := gin.H{
		"status":     "alive",
		"service":    serviceName,
		"started_at": startTime.UTC().Format(time.RFC3339),
	}
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, body)
	}
}
