// Package router assembles the HTTP surface: public pages and the wizard,
// then the two authenticated consoles.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lankaspa/portal/internal/config"
	authHandler "github.com/lankaspa/portal/internal/handler/auth"
	"github.com/lankaspa/portal/internal/handler/health"
	"github.com/lankaspa/portal/internal/handler/lsa"
	"github.com/lankaspa/portal/internal/handler/pages"
	"github.com/lankaspa/portal/internal/handler/registration"
	"github.com/lankaspa/portal/internal/handler/spaadmin"
	"github.com/lankaspa/portal/internal/middleware"
	"github.com/lankaspa/portal/internal/ws"
	"github.com/lankaspa/portal/pkg/auth"
)

// Handlers carries everything the router mounts.
type Handlers struct {
	Auth         *authHandler.Handler
	Pages        *pages.Handler
	Registration *registration.Handler
	LSA          *lsa.Handler
	SpaAdmin     *spaadmin.Handler
	Health       *health.Handler
	Hub          *ws.Hub
}

func New(cfg *config.Config, handlers Handlers, authMW *middleware.AuthMiddleware, limiter *middleware.RateLimiter, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	if limiter != nil {
		r.Use(limiter.RateLimit())
	}

	handlers.Health.RegisterRoutes(r)
	if cfg.Monitoring.PrometheusEnabled {
		r.GET(cfg.Monitoring.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api/v1")
	{
		handlers.Auth.RegisterRoutes(api)
		handlers.Pages.RegisterRoutes(api)
		handlers.Registration.RegisterRoutes(api)

		lsaGroup := api.Group("", authMW.RequireRole(auth.RoleLSAAdmin))
		handlers.LSA.RegisterRoutes(lsaGroup)

		spaGroup := api.Group("", authMW.RequireRole(auth.RoleSpaAdmin))
		handlers.SpaAdmin.RegisterRoutes(spaGroup)

		api.GET("/ws", authMW.RequireRole(auth.RoleLSAAdmin, auth.RoleSpaAdmin), func(c *gin.Context) {
			handlers.Hub.Handle(c.Writer, c.Request)
		})
	}

	return r
}
