package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"
	"github.com/nikolayk812/pos-checkout/internal/domain"
)

// compensate reverses applied adjustments, newest first, retrying each one until
// the backend acknowledges it or the backoff gives up. It runs detached from the
// caller's cancellation: a client that goes away must not leave stock deducted.
func (c *Coordinator) compensate(ctx context.Context, applied, unconfirmed []domain.StockAdjustment) domain.CompensationResult {
	result := domain.CompensationResult{Unconfirmed: unconfirmed}
	if len(applied) == 0 {
		if len(unconfirmed) > 0 {
			result.Err = fmt.Errorf("%d adjustment(s) with unknown outcome need manual reconciliation", len(unconfirmed))
		}
		return result
	}

	ctx = context.WithoutCancel(ctx)
	log := c.log.WithContext(ctx)

	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		reversal := applied[i].Reverse("compensation: " + applied[i].Reason)

		err := backoff.Retry(func() error {
			err := c.adjustOnce(ctx, reversal)
			if isOutcomeUnknown(err) {
				// retrying could apply the reversal twice
				return backoff.Permanent(err)
			}
			return err
		}, c.newBackOff())
		if isOutcomeUnknown(err) {
			result.Unconfirmed = append(result.Unconfirmed, reversal)
			errs = append(errs, fmt.Errorf("reverse product %s, warehouse %s: outcome unknown: %w", reversal.ProductID, reversal.WarehouseID, err))
			c.metrics.compensation("unconfirmed")
			log.Error("compensation outcome unknown",
				slog.String("product_id", reversal.ProductID.String()),
				slog.String("warehouse_id", reversal.WarehouseID.String()),
				slog.Int("quantity_change", reversal.QuantityChange),
				slog.String("error", err.Error()),
			)
			continue
		}
		if err != nil {
			result.Failed = append(result.Failed, applied[i])
			errs = append(errs, fmt.Errorf("reverse product %s, warehouse %s: %w", reversal.ProductID, reversal.WarehouseID, err))
			c.metrics.compensation("failed")
			log.Error("compensation failed",
				slog.String("product_id", reversal.ProductID.String()),
				slog.String("warehouse_id", reversal.WarehouseID.String()),
				slog.Int("quantity_change", reversal.QuantityChange),
				slog.String("error", err.Error()),
			)
			continue
		}

		result.Reversed = append(result.Reversed, applied[i])
		c.metrics.compensation("reversed")
		log.Info("compensation applied",
			slog.String("product_id", reversal.ProductID.String()),
			slog.String("warehouse_id", reversal.WarehouseID.String()),
			slog.Int("quantity_change", reversal.QuantityChange),
		)
	}

	if len(unconfirmed) > 0 {
		errs = append(errs, fmt.Errorf("%d adjustment(s) with unknown outcome need manual reconciliation", len(unconfirmed)))
	}
	result.Err = errors.Join(errs...)

	return result
}

func defaultBackOff(cfg Config) func() backoff.BackOff {
	return func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.MaxElapsedTime = cfg.CompensationMaxElapsed
		return b
	}
}
