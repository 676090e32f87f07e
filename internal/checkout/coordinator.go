// Package checkout commits a cart as a sale: it deducts the planned stock from
// every warehouse concurrently, then records the sale in a single atomic call.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/cart"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/logger"
	"github.com/nikolayk812/pos-checkout/internal/payment"
	"github.com/nikolayk812/pos-checkout/internal/port"
)

type Config struct {
	AdjustTimeout time.Duration
	RecordTimeout time.Duration
	// MaxParallel caps concurrent stock adjustments; 0 means unlimited.
	MaxParallel            int
	CompensationMaxElapsed time.Duration
}

func DefaultConfig() Config {
	return Config{
		AdjustTimeout:          5 * time.Second,
		RecordTimeout:          10 * time.Second,
		CompensationMaxElapsed: 2 * time.Minute,
	}
}

// withDefaults fills unset durations from DefaultConfig.
func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.AdjustTimeout <= 0 {
		cfg.AdjustTimeout = def.AdjustTimeout
	}
	if cfg.RecordTimeout <= 0 {
		cfg.RecordTimeout = def.RecordTimeout
	}
	if cfg.CompensationMaxElapsed <= 0 {
		cfg.CompensationMaxElapsed = def.CompensationMaxElapsed
	}
	if cfg.MaxParallel < 0 {
		cfg.MaxParallel = 0
	}
	return cfg
}

type Receipt struct {
	SaleID    uuid.UUID
	Reference string
	Status    domain.SaleStatus
	Total     domain.Money
	Cost      *domain.Money
	Change    *domain.Money
	Message   string
}

type Coordinator struct {
	adjuster port.StockAdjuster
	recorder port.SaleRecorder
	log      *logger.Logger
	metrics  *Metrics
	cfg      Config

	now        func() time.Time
	newBackOff func() backoff.BackOff
}

type Option func(*Coordinator)

func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithBackOff overrides the retry policy used for compensating adjustments.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *Coordinator) { c.newBackOff = newBackOff }
}

func New(adjuster port.StockAdjuster, recorder port.SaleRecorder, log *logger.Logger, cfg Config, opts ...Option) *Coordinator {
	if log == nil {
		log = logger.Nop()
	}

	c := &Coordinator{
		adjuster: adjuster,
		recorder: recorder,
		log:      log,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
	}
	c.newBackOff = defaultBackOff(c.cfg)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Checkout commits ct as a sale. On success the returned cart is empty; on any
// error it is ct unchanged.
func (c *Coordinator) Checkout(ctx context.Context, ct domain.Cart, pay domain.Payment) (Receipt, domain.Cart, error) {
	started := c.now()
	log := c.log.WithContext(ctx)

	if err := cart.Validate(ct); err != nil {
		c.metrics.checkout(variantRegular, outcomeInvalid, c.since(started))
		return Receipt{}, ct, err
	}

	due := cart.GrandTotal(ct)
	resolution, err := payment.ResolveStatus(pay.Tendered, due, pay.RequestedStatus)
	if err != nil {
		c.metrics.checkout(variantRegular, outcomeInvalid, c.since(started))
		return Receipt{}, ct, err
	}

	fan := c.adjustAll(ctx, deductions(ct))
	if i, failed := fan.firstFailure(); failed {
		adj := fan.adjustments[i]
		comp := c.compensate(ctx, fan.applied(), fan.unconfirmed())

		log.Error("checkout aborted: stock adjustment failed",
			slog.String("product_id", adj.ProductID.String()),
			slog.String("warehouse_id", adj.WarehouseID.String()),
			slog.String("error", fan.failures().Error()),
			slog.String("compensation", comp.String()),
		)
		c.metrics.checkout(variantRegular, outcomeAdjustmentFailed, c.since(started))

		return Receipt{}, ct, &domain.StockAdjustmentFailure{
			ProductID:    adj.ProductID,
			WarehouseID:  adj.WarehouseID,
			Err:          fan.failures(),
			Compensation: comp,
		}
	}

	record := domain.SaleRecord{
		Date:          c.saleDate(pay),
		CashierID:     ct.CashierID,
		BranchID:      ct.BranchID,
		Customer:      pay.Customer,
		Total:         due,
		PaymentMethod: pay.Method,
		Status:        resolution.Status,
		Variant:       domain.RegularSale{Items: saleLines(ct)},
	}

	recorded, err := c.record(ctx, record)
	if err != nil {
		var comp domain.CompensationResult
		if isOutcomeUnknown(err) {
			// the sale may exist; reversing stock could double the drift
			comp = domain.CompensationResult{
				Unconfirmed: fan.applied(),
				Err:         fmt.Errorf("sale recording outcome unknown, stock left deducted: %w", err),
			}
		} else {
			comp = c.compensate(ctx, fan.applied(), nil)
		}

		log.Error("checkout failed after stock deduction",
			slog.String("error", err.Error()),
			slog.String("compensation", comp.String()),
		)
		c.metrics.checkout(variantRegular, outcomeRecordingFailed, c.since(started))

		return Receipt{}, ct, &domain.PostDeductionRecordingFailure{Err: err, Compensation: comp}
	}

	log.Info("checkout committed",
		slog.String("sale_id", recorded.ID.String()),
		slog.String("reference", recorded.Reference),
		slog.String("status", string(resolution.Status)),
		slog.String("total", due.String()),
		slog.Int("adjustments", len(fan.adjustments)),
	)
	c.metrics.checkout(variantRegular, string(resolution.Status), c.since(started))

	return Receipt{
		SaleID:    recorded.ID,
		Reference: recorded.Reference,
		Status:    resolution.Status,
		Total:     due,
		Change:    resolution.Change,
		Message:   recorded.Message,
	}, cart.Clear(ct), nil
}

// CheckoutExternal records a sale of ad-hoc items. No stock is involved.
func (c *Coordinator) CheckoutExternal(ctx context.Context, ec domain.ExternalCart, pay domain.Payment) (Receipt, domain.ExternalCart, error) {
	started := c.now()
	log := c.log.WithContext(ctx)

	if err := cart.ValidateExternal(ec); err != nil {
		c.metrics.checkout(variantExternal, outcomeInvalid, c.since(started))
		return Receipt{}, ec, err
	}

	total, cost := cart.ExternalTotals(ec)
	resolution, err := payment.ResolveStatus(pay.Tendered, total, pay.RequestedStatus)
	if err != nil {
		c.metrics.checkout(variantExternal, outcomeInvalid, c.since(started))
		return Receipt{}, ec, err
	}

	lines := make([]domain.AdHocLine, len(ec.Lines))
	copy(lines, ec.Lines)

	recorded, err := c.record(ctx, domain.SaleRecord{
		Date:          c.saleDate(pay),
		CashierID:     ec.CashierID,
		BranchID:      ec.BranchID,
		Customer:      pay.Customer,
		Total:         total,
		Cost:          &cost,
		PaymentMethod: pay.Method,
		Status:        resolution.Status,
		Variant:       domain.ExternalSale{Items: lines},
	})
	if err != nil {
		log.Error("external checkout failed", slog.String("error", err.Error()))
		c.metrics.checkout(variantExternal, outcomeRecordingFailed, c.since(started))
		return Receipt{}, ec, err
	}

	log.Info("external checkout committed",
		slog.String("sale_id", recorded.ID.String()),
		slog.String("reference", recorded.Reference),
		slog.String("status", string(resolution.Status)),
		slog.String("total", total.String()),
		slog.String("cost", cost.String()),
	)
	c.metrics.checkout(variantExternal, string(resolution.Status), c.since(started))

	ec.Lines = nil

	return Receipt{
		SaleID:    recorded.ID,
		Reference: recorded.Reference,
		Status:    resolution.Status,
		Total:     total,
		Cost:      &cost,
		Change:    resolution.Change,
		Message:   recorded.Message,
	}, ec, nil
}

func (c *Coordinator) record(ctx context.Context, record domain.SaleRecord) (domain.RecordedSale, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.RecordTimeout)
	defer cancel()

	recorded, err := c.recorder.RecordSale(callCtx, record)
	if err != nil {
		return domain.RecordedSale{}, fmt.Errorf("recorder.RecordSale: %w", err)
	}
	if recorded.Reference == "" {
		return domain.RecordedSale{}, errors.New("recorder.RecordSale: empty sale reference")
	}

	return recorded, nil
}

func (c *Coordinator) saleDate(pay domain.Payment) time.Time {
	if pay.Date.IsZero() {
		return c.now()
	}
	return pay.Date
}

func (c *Coordinator) since(t time.Time) float64 {
	return c.now().Sub(t).Seconds()
}

// deductions flattens every allocation of every line into one negative adjustment.
func deductions(ct domain.Cart) []domain.StockAdjustment {
	var out []domain.StockAdjustment
	for _, line := range ct.Lines {
		for _, alloc := range line.Allocations {
			warehouse := alloc.WarehouseName
			if warehouse == "" {
				warehouse = alloc.WarehouseID.String()
			}

			out = append(out, domain.StockAdjustment{
				ProductID:      line.ProductID,
				WarehouseID:    alloc.WarehouseID,
				QuantityChange: -alloc.Deducted,
				ActingUserID:   ct.CashierID,
				Reason:         fmt.Sprintf("sale: product %s from warehouse %s", line.ProductID, warehouse),
			})
		}
	}
	return out
}

func saleLines(ct domain.Cart) []domain.SaleLine {
	out := make([]domain.SaleLine, 0, len(ct.Lines))
	for _, line := range ct.Lines {
		out = append(out, domain.SaleLine{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			UnitSalePrice: line.UnitPrice,
			TotalPrice:    line.LineTotal(),
			Note:          line.Note,
			Allocations:   line.Allocations.Clone(),
		})
	}
	return out
}
