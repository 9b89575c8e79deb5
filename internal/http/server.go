package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/policydesk/polgw/internal/broadcast"
	"github.com/policydesk/polgw/internal/config"
	"github.com/policydesk/polgw/internal/http/middleware"
	"github.com/policydesk/polgw/internal/importer"
	"github.com/policydesk/polgw/internal/metrics"
	"github.com/policydesk/polgw/internal/normalize"
	"github.com/policydesk/polgw/internal/reminder"
	"github.com/policydesk/polgw/internal/repository"
	"github.com/policydesk/polgw/internal/whatsapp"
)

type Server struct{ e *echo.Echo }

// NewServer wires repositories and services onto the echo router. The
// redis client may be nil; rate limiting is then skipped.
func NewServer(cfg config.Config, sqlDB *sqlx.DB, rds *redis.Client) *Server {
	// repos
	customersRepo := repository.NewCustomersRepository(sqlDB)
	policiesRepo := repository.NewPoliciesRepository(sqlDB)
	remindersRepo := repository.NewRemindersRepository(sqlDB)
	campaignsRepo := repository.NewCampaignsRepository(sqlDB)
	statsRepo := repository.NewStatsRepository(sqlDB)

	// services
	norm := normalize.New(cfg.Importer.DefaultCountryCode)
	sender := whatsapp.NewClient(cfg.WhatsApp)
	imp := importer.New(customersRepo, policiesRepo, norm)
	sweeper := reminder.NewSweeper(policiesRepo, remindersRepo, sender, cfg.Reminder.Offsets, cfg.Reminder.Template)
	caster := broadcast.NewEngine(customersRepo, campaignsRepo, sender, cfg.WhatsApp.AdminPhone)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	authMW := middleware.AdminKeyMiddleware(cfg.HTTP.AdminAPIKey)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	api := e.Group("/api", authMW, rlMW)
	api.GET("/stats", statsHandler(statsRepo, remindersRepo))
	api.GET("/policies", listPoliciesHandler(policiesRepo))
	api.POST("/upload", uploadHandler(imp))
	api.POST("/customers", addCustomerHandler(imp, norm))
	api.POST("/broadcast", broadcastHandler(caster))
	api.POST("/send-manual", sendManualHandler(sender))
	api.POST("/trigger-reminders", triggerRemindersHandler(sweeper))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
