package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	upstream Pinger
	broker   Pinger
	started  time.Time
}

func NewHandler(upstream, broker Pinger) *Handler {
	return &Handler{upstream: upstream, broker: broker, started: time.Now()}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/health/ready", h.Ready)
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

// Ready checks dependencies. The upstream association API gates readiness;
// the event broker is optional and only reported.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	status := http.StatusOK

	if err := h.upstream.Ping(ctx); err != nil {
		checks["upstream"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["upstream"] = "ok"
	}

	if h.broker != nil {
		if err := h.broker.Ping(ctx); err != nil {
			checks["broker"] = err.Error()
		} else {
			checks["broker"] = "ok"
		}
	} else {
		checks["broker"] = "disabled"
	}

	c.JSON(status, gin.H{"status": checks})
}
