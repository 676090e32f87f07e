package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/pos-checkout/internal/allocation"
	"github.com/nikolayk812/pos-checkout/internal/cancellation"
	"github.com/nikolayk812/pos-checkout/internal/checkout"
	"github.com/nikolayk812/pos-checkout/internal/config"
	"github.com/nikolayk812/pos-checkout/internal/http/handler"
	"github.com/nikolayk812/pos-checkout/internal/http/router"
	"github.com/nikolayk812/pos-checkout/internal/logger"
	"github.com/nikolayk812/pos-checkout/internal/memstore"
	"github.com/nikolayk812/pos-checkout/internal/migrations"
	"github.com/nikolayk812/pos-checkout/internal/port"
	"github.com/nikolayk812/pos-checkout/internal/repository"
	"github.com/nikolayk812/pos-checkout/internal/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/text/currency"
)

type backend struct {
	stock  port.StockRepository
	sales  port.SaleRepository
	health router.HealthChecker
	close  func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "store", cfg.Store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cur, err := currency.ParseISO(cfg.Currency)
	if err != nil {
		log.Error("invalid currency", "currency", cfg.Currency, "error", err)
		panic("invalid currency: " + err.Error())
	}

	be, err := openBackend(ctx, cfg, log, cur)
	if err != nil {
		log.Error("failed to open backend", "error", err)
		panic("failed to open backend: " + err.Error())
	}
	defer be.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	coCfg := checkout.Config{
		AdjustTimeout:          cfg.GetAdjustTimeout(),
		RecordTimeout:          cfg.GetRecordTimeout(),
		MaxParallel:            cfg.GetMaxParallelAdjustments(),
		CompensationMaxElapsed: cfg.GetCompensationMaxElapsed(),
	}

	planner := allocation.NewPlanner(be.stock, allocation.New(poolOrder(cfg)))
	checkoutCoordinator := checkout.New(be.stock, be.sales, log, coCfg, checkout.WithMetrics(checkout.NewMetrics(reg)))
	cancellationCoordinator := cancellation.New(be.sales, be.sales, be.sales, log)

	engine := router.New(&router.App{
		Logger:   log,
		Handler:  handler.New(planner, be.stock, checkoutCoordinator, cancellationCoordinator, validator.New(), cur),
		Gatherer: reg,
		Health:   be.health,
	})

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger, cur currency.Unit) (backend, error) {
	if cfg.Store == config.StoreMemory {
		store := memstore.New()
		seedDemo(store, cur)
		log.Warn("running on in-memory store with demo catalog; sales are lost on restart")

		return backend{stock: store, sales: store, close: func() {}}, nil
	}

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := repository.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		return backend{}, fmt.Errorf("connect: %w", err)
	}
	log.Info("database connection established")

	if err := migrations.Up(ctx, pool); err != nil {
		log.DatabaseError("migrations.Up", err)
		pool.Close()
		return backend{}, fmt.Errorf("migrations.Up: %w", err)
	}
	log.Info("database migrations complete")

	return backend{
		stock:  repository.NewStock(pool),
		sales:  repository.NewSale(pool),
		health: pool,
		close:  pool.Close,
	}, nil
}

func poolOrder(cfg config.AllocationConfig) allocation.PoolOrder {
	if cfg.GetPoolOrder() == "largest" {
		return allocation.LargestFirst
	}
	return allocation.CatalogOrder
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", lastErr)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
