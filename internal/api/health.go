package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/valuepulse/internal/domain/models"
)

const pingTimeout = 2 * time.Second

// PingFunc checks a dependency, typically (*sql.DB).PingContext.
type PingFunc func(ctx context.Context) error

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /readyz: Readiness probe. Fails only when the history database is
//     configured and unreachable. A provider cooldown is reported but the
//     service stays ready, since cached sections can still be served.
type HealthHandler struct {
	dbPing   PingFunc
	cooldown func() *models.RateLimit
}

// NewHealthHandler constructs a HealthHandler. Both arguments may be nil;
// dbPing is only set when history is enabled.
func NewHealthHandler(dbPing PingFunc, cooldown func() *models.RateLimit) *HealthHandler {
	return &HealthHandler{dbPing: dbPing, cooldown: cooldown}
}

// Register mounts the health and readiness endpoints into the provided Gin router.
func (h *HealthHandler) Register(r *gin.Engine) {
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// @Summary      Readiness probe
	// @Description  Reports history database and quote provider state
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		body := gin.H{"status": "ready", "history": "disabled", "provider": "ok"}
		if h.cooldown != nil && h.cooldown() != nil {
			body["provider"] = "cooldown"
		}
		if h.dbPing != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := h.dbPing(ctx); err != nil {
				body["status"] = "degraded"
				body["history"] = "unreachable"
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
			body["history"] = "ok"
		}
		c.JSON(http.StatusOK, body)
	})
}
