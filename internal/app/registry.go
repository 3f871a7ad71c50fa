package app

import (
	"context"
	"net/http"

	"go-vacation/internal/bootstrap"
	"go-vacation/internal/config"
	"go-vacation/internal/department"
	"go-vacation/internal/messaging/kafka"
	"go-vacation/internal/middleware"
	"go-vacation/internal/position"
	"go-vacation/internal/roster"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BuildApp connects the infrastructure, registers every module on router and
// returns the hook that releases the connections.
func BuildApp(router *gin.Engine, cfg config.Config) (bootstrap.ShutdownFunc, error) {
	in, err := connect(cfg, true)
	if err != nil {
		return nil, err
	}

	registerModules(router, in, cfg)
	return in.Close, nil
}

// services groups the feature services shared by the API and the seeder.
type services struct {
	departments department.Service
	positions   position.Service
	roster      roster.Service
}

func newServices(in *infra, cfg config.Config) services {
	outboxRepo := kafka.NewOutboxRepository(in.sqlDB)

	return services{
		departments: department.NewService(in.sqlDB, department.NewRepository(in.gormDB), in.rdb),
		positions:   position.NewService(in.sqlDB, position.NewRepository(in.gormDB), in.rdb),
		roster: roster.NewServiceWithOutbox(
			in.sqlDB,
			roster.NewRepository(in.gormDB),
			outboxRepo,
			in.rdb,
			cfg.RosterCacheTTL,
		),
	}
}

func registerModules(router *gin.Engine, in *infra, cfg config.Config) {
	svc := newServices(in, cfg)

	// --- Handlers ---
	departmentHandler := department.NewHandler(svc.departments)
	positionHandler := position.NewHandler(svc.positions)
	rosterHandler := roster.NewHandler(svc.roster)

	if cfg.Tracing.Enabled {
		router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	router.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))

	router.GET("/healthz", func(c *gin.Context) {
		if err := in.sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequestID(),
		middleware.Tenant(),
		middleware.ContextLogger(zap.L()),
		middleware.RateLimitByTenant(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		middleware.Idempotency(in.rdb, zap.L()),
	)
	{
		department.RegisterRoutes(api, departmentHandler)
		position.RegisterRoutes(api, positionHandler)
		roster.RegisterRoutes(api, rosterHandler)
	}
}

// closeQuietly is used where the caller has nothing left to report to.
func closeQuietly(in *infra) {
	if err := in.Close(context.Background()); err != nil {
		zap.L().Warn("closing connections failed", zap.Error(err))
	}
}
