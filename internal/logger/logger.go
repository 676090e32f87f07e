// Package logger provides the structured logger shared by the checkout engine.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	CashierIDKey contextKey = "cashier_id"
)

// Logger wraps slog.Logger with checkout-specific helpers.
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger, or a debug-level text logger in development.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithContext returns a logger carrying request and cashier ids found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	out := l
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		out = &Logger{Logger: out.With(slog.String("request_id", requestID))}
	}
	if cashierID, ok := ctx.Value(CashierIDKey).(uuid.UUID); ok && cashierID != uuid.Nil {
		out = &Logger{Logger: out.With(slog.String("cashier_id", cashierID.String()))}
	}

	return out
}

// StockAdjustment logs the outcome of one relative stock change.
func (l *Logger) StockAdjustment(productID, warehouseID uuid.UUID, change int, err error) {
	if err != nil {
		l.Error("stock_adjustment",
			slog.String("product_id", productID.String()),
			slog.String("warehouse_id", warehouseID.String()),
			slog.Int("quantity_change", change),
			slog.String("error", err.Error()),
		)
		return
	}

	l.Debug("stock_adjustment",
		slog.String("product_id", productID.String()),
		slog.String("warehouse_id", warehouseID.String()),
		slog.Int("quantity_change", change),
	)
}

func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	level := slog.LevelInfo
	if status >= 500 {
		level = slog.LevelError
	}
	l.Log(context.Background(), level, "http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}
