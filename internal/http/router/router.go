package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/pos-checkout/internal/http/handler"
	"github.com/nikolayk812/pos-checkout/internal/http/httpkit"
	"github.com/nikolayk812/pos-checkout/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker is satisfied by *pgxpool.Pool; nil means the backend is in-process.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type App struct {
	Logger   *logger.Logger
	Handler  *handler.Handler
	Gatherer prometheus.Gatherer
	Health   HealthChecker
}

func New(app *App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	if app.Logger != nil {
		engine.Use(httpkit.RequestLogger(app.Logger))
	}

	engine.GET("/healthz", func(c *gin.Context) {
		if app.Health != nil {
			if err := app.Health.Ping(c.Request.Context()); err != nil {
				if app.Logger != nil {
					app.Logger.DatabaseError("ping", err)
				}
				httpkit.Error(c, http.StatusServiceUnavailable, "database unavailable", nil)
				return
			}
		}
		httpkit.OK(c, gin.H{"status": "ok"})
	})

	gatherer := app.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	app.Handler.RegisterRoutes(engine.Group("/api/v1"))

	return engine
}
