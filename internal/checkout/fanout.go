package checkout

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/nikolayk812/pos-checkout/internal/domain"
	"golang.org/x/sync/errgroup"
)

var errSkipped = errors.New("not issued: an earlier adjustment failed")

// fanOutResult records the outcome of every adjustment, index-aligned with the input.
type fanOutResult struct {
	adjustments []domain.StockAdjustment
	errs        []error
}

// applied returns the adjustments the backend acknowledged.
func (r fanOutResult) applied() []domain.StockAdjustment {
	var out []domain.StockAdjustment
	for i, err := range r.errs {
		if err == nil {
			out = append(out, r.adjustments[i])
		}
	}
	return out
}

// unconfirmed returns adjustments whose call timed out or was cancelled.
func (r fanOutResult) unconfirmed() []domain.StockAdjustment {
	var out []domain.StockAdjustment
	for i, err := range r.errs {
		if isOutcomeUnknown(err) {
			out = append(out, r.adjustments[i])
		}
	}
	return out
}

// firstFailure is the lowest-index failed adjustment that was actually issued.
func (r fanOutResult) firstFailure() (int, bool) {
	for i, err := range r.errs {
		if err != nil && !errors.Is(err, errSkipped) {
			return i, true
		}
	}
	return -1, false
}

// failures joins every issued failure, in issue order.
func (r fanOutResult) failures() error {
	var errs []error
	for _, err := range r.errs {
		if err != nil && !errors.Is(err, errSkipped) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// adjustAll issues every adjustment concurrently and waits for all of them.
// Calls are never cancelled because of a sibling failure, so no in-flight
// outcome is lost; adjustments still queued behind the parallelism limit are
// skipped once a failure is seen.
func (c *Coordinator) adjustAll(ctx context.Context, adjustments []domain.StockAdjustment) fanOutResult {
	res := fanOutResult{
		adjustments: adjustments,
		errs:        make([]error, len(adjustments)),
	}

	var (
		g      errgroup.Group
		failed atomic.Bool
	)
	if c.cfg.MaxParallel > 0 {
		g.SetLimit(c.cfg.MaxParallel)
	}

	for i, adj := range adjustments {
		g.Go(func() error {
			if failed.Load() {
				res.errs[i] = errSkipped
				c.metrics.adjustment("skipped")
				return nil
			}

			err := c.adjustOnce(ctx, adj)
			c.log.StockAdjustment(adj.ProductID, adj.WarehouseID, adj.QuantityChange, err)
			if err != nil {
				failed.Store(true)
				res.errs[i] = err
				c.metrics.adjustment("failed")
				return nil
			}

			c.metrics.adjustment("ok")
			return nil
		})
	}

	_ = g.Wait()

	return res
}

func (c *Coordinator) adjustOnce(ctx context.Context, adj domain.StockAdjustment) error {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.AdjustTimeout)
	defer cancel()

	return c.adjuster.AdjustStock(callCtx, adj)
}

func isOutcomeUnknown(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
