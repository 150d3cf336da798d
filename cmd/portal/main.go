package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lankaspa/portal/internal/apiclient"
	"github.com/lankaspa/portal/internal/attachment"
	"github.com/lankaspa/portal/internal/config"
	"github.com/lankaspa/portal/internal/demo"
	"github.com/lankaspa/portal/internal/email"
	authHandler "github.com/lankaspa/portal/internal/handler/auth"
	"github.com/lankaspa/portal/internal/handler/health"
	lsaHandler "github.com/lankaspa/portal/internal/handler/lsa"
	pagesHandler "github.com/lankaspa/portal/internal/handler/pages"
	registrationHandler "github.com/lankaspa/portal/internal/handler/registration"
	spaadminHandler "github.com/lankaspa/portal/internal/handler/spaadmin"
	"github.com/lankaspa/portal/internal/middleware"
	"github.com/lankaspa/portal/internal/router"
	directoryService "github.com/lankaspa/portal/internal/service/directory"
	exportService "github.com/lankaspa/portal/internal/service/export"
	notificationService "github.com/lankaspa/portal/internal/service/notification"
	paymentService "github.com/lankaspa/portal/internal/service/payment"
	registrationService "github.com/lankaspa/portal/internal/service/registration"
	"github.com/lankaspa/portal/internal/validate"
	"github.com/lankaspa/portal/internal/wizard"
	"github.com/lankaspa/portal/internal/ws"
	"github.com/lankaspa/portal/pkg/auth"
	"github.com/lankaspa/portal/pkg/logger"
	"github.com/lankaspa/portal/pkg/messaging"
	redisBroker "github.com/lankaspa/portal/pkg/messaging/redis"
	"github.com/lankaspa/portal/pkg/metrics"
	"github.com/lankaspa/portal/pkg/security"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	m := metrics.NewMetrics("lankaspa", "portal")

	// Event broker. The portal runs without Redis; consoles then rely on
	// polling alone.
	var bus *messaging.EventBus
	var brokerPing health.Pinger
	if cfg.Redis.URL != "" {
		broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, &appLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		bus = messaging.NewEventBus(broker, cfg.Redis.Channel)
		if p, ok := broker.(health.Pinger); ok {
			brokerPing = p
		}
	} else {
		appLogger.Warn().Msg("no redis url configured, running without push refresh")
	}

	// Upstream association API client, the portal's only store.
	api := apiclient.New(apiclient.Config{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.Timeout,
	}, appLogger, m)

	// Wizard core
	store := wizard.NewStore(cfg.Wizard.SessionTTL, cfg.Wizard.CleanupInterval)
	sequencer := wizard.NewSequencer(validate.TotalSteps, validate.Step)
	acceptor := attachment.NewAcceptor(attachment.Limits{
		MaxImageBytes:    cfg.Uploads.MaxImageBytes,
		MaxDocumentBytes: cfg.Uploads.MaxDocumentBytes,
	})

	// Services
	registrationSvc := registrationService.NewService(store, sequencer, acceptor, api, bus, m, appLogger)

	directoryCfg := directoryService.Config{PollInterval: cfg.Polling.DirectoryInterval}
	if cfg.Demo.Enabled {
		appLogger.Warn().Msg("demo mode enabled, console views fall back to seeded records")
		directoryCfg.DemoSpas = demo.Spas()
		directoryCfg.DemoTherapists = demo.Therapists()
	}
	directorySvc := directoryService.NewService(api, directoryCfg, bus, m, appLogger)
	notificationSvc := notificationService.NewService(api, cfg.Polling.NotificationInterval, bus, m, appLogger)
	paymentSvc := paymentService.NewService(api, appLogger)
	exportSvc := exportService.NewService()
	mailer := email.NewGomailService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		OfficeTo: cfg.SMTP.OfficeTo,
	}, appLogger)

	// Auth
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	authMW := middleware.NewAuthMiddleware(jwtSvc)

	// Websocket hub for console refresh nudges
	hub := ws.NewHub(m, appLogger)

	// Handlers
	handlers := router.Handlers{
		Auth:  authHandler.NewHandler(jwtSvc, hasher, cfg.Users),
		Pages: pagesHandler.NewHandler(directorySvc, api, mailer, appLogger),
		Registration: registrationHandler.NewHandler(
			registrationSvc, directorySvc, cameraFactory(), cfg.Wizard.FrameTimeout, appLogger),
		LSA:      lsaHandler.NewHandler(directorySvc, notificationSvc, paymentSvc, exportSvc, appLogger),
		SpaAdmin: spaadminHandler.NewHandler(directorySvc, notificationSvc, paymentSvc, appLogger),
		Health:   health.NewHandler(api, brokerPing),
		Hub:      hub,
	}

	// Rate limiter; owned here so its sweep stops with the server.
	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	r := router.New(cfg, handlers, authMW, limiter, appLogger)

	// Start background refreshers and the event fan-out.
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	if err := directorySvc.Start(runCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to start directory service")
	}
	notificationSvc.Start(runCtx)
	go func() {
		if err := hub.Run(runCtx, bus); err != nil {
			appLogger.Error().Err(err).Msg("event fan-out stopped")
		}
	}()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info().Int("port", cfg.Server.Port).Msg("portal listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info().Msg("shutting down server...")

	cancelRun()
	directorySvc.Stop()
	notificationSvc.Stop()
	hub.Close()
	if limiter != nil {
		limiter.Stop()
	}
	if bus != nil {
		if err := bus.Close(); err != nil {
			appLogger.Warn().Err(err).Msg("failed to close event bus")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server exited properly")
}

// cameraFactory returns the registration-desk capture device, if one is
// attached. Cloud deployments have none; applicants use the file picker.
func cameraFactory() registrationHandler.DeviceFactory {
	if os.Getenv("PORTAL_CAPTURE_DEVICE") == "" {
		return nil
	}
	source := os.Getenv("PORTAL_CAPTURE_DEVICE")
	return func() attachment.Device {
		return attachment.NewFileDevice(source)
	}
}
