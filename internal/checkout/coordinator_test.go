package checkout_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/checkout"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/memstore"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestCheckout_singleLineFromOneWarehouse(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(10)
	ct := newCart(line(s, 7, 3))

	receipt, after, err := e.coord.Checkout(t.Context(), ct, cashPayment(50))
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.Reference)
	assert.Equal(t, domain.SaleStatusCompleted, receipt.Status)
	assert.True(t, decimal.NewFromInt(21).Equal(receipt.Total.Amount))
	require.NotNil(t, receipt.Change)
	assert.True(t, decimal.NewFromInt(29).Equal(receipt.Change.Amount))

	assert.True(t, after.IsEmpty())
	assert.Equal(t, ct.CashierID, after.CashierID)
	assert.Len(t, ct.Lines, 1, "input cart must not be mutated")

	assert.Equal(t, 7, e.store.Quantity(s.productID, s.warehouses[0]))

	sale, err := e.store.GetSale(t.Context(), receipt.SaleID)
	require.NoError(t, err)
	assert.Equal(t, receipt.Reference, sale.Reference)
	regular, ok := sale.Variant.(domain.RegularSale)
	require.True(t, ok)
	require.Len(t, regular.Items, 1)
	assert.Equal(t, ct.Lines[0].Allocations, regular.Items[0].Allocations)

	calls := e.adjuster.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, -3, calls[0].QuantityChange)
	assert.Equal(t, ct.CashierID, calls[0].ActingUserID)
	assert.Contains(t, calls[0].Reason, s.productID.String())

	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Checkouts.WithLabelValues("regular", "completed")))
}

func TestCheckout_referencesAreUnique(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(100)

	seen := make(map[string]struct{})
	for range 20 {
		receipt, _, err := e.coord.Checkout(t.Context(), newCart(line(s, 1, 1)), cashPayment(1))
		require.NoError(t, err)

		_, dup := seen[receipt.Reference]
		require.False(t, dup, "duplicate reference %s", receipt.Reference)
		seen[receipt.Reference] = struct{}{}
	}
}

func TestCheckout_underpaymentIsHeld(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(10)

	receipt, _, err := e.coord.Checkout(t.Context(), newCart(line(s, 400, 3)), cashPayment(1000))
	require.NoError(t, err)

	assert.Equal(t, domain.SaleStatusHeld, receipt.Status)
	assert.Nil(t, receipt.Change)

	records := e.recorder.Records()
	require.Len(t, records, 1)
	assert.Equal(t, domain.SaleStatusHeld, records[0].Status)
}

func TestCheckout_rejectedBeforeAnyBackendCall(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(10)

	mismatched := line(s, 1, 2)
	mismatched.Quantity = 3

	tests := []struct {
		name    string
		cart    domain.Cart
		payment domain.Payment
		check   func(t *testing.T, err error)
	}{
		{
			name:    "empty cart",
			cart:    newCart(),
			payment: cashPayment(1),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrEmptyCart)
			},
		},
		{
			name:    "plan does not match quantity",
			cart:    newCart(mismatched),
			payment: cashPayment(10),
			check: func(t *testing.T, err error) {
				var mismatch *domain.AllocationMismatchError
				assert.ErrorAs(t, err, &mismatch)
			},
		},
		{
			name: "payment in another currency",
			cart: newCart(line(s, 1, 1)),
			payment: domain.Payment{
				Tendered: domain.Money{Amount: decimal.NewFromInt(1), Currency: currency.EUR},
			},
			check: func(t *testing.T, err error) {
				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, after, err := e.coord.Checkout(t.Context(), tt.cart, tt.payment)
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, tt.cart, after)
		})
	}

	assert.Empty(t, e.adjuster.Calls())
	assert.Empty(t, e.recorder.Records())
}

func TestCheckout_adjustmentFailureNeverRecords(t *testing.T) {
	e := newEnv(t, testConfig())
	a := e.stock(5, 3)
	b := e.stock(4)

	failing := a.warehouses[1]
	e.adjuster.fail = func(adj domain.StockAdjustment, _ int) error {
		if adj.WarehouseID == failing && adj.QuantityChange < 0 {
			return errBackend
		}
		return nil
	}

	ct := newCart(line(a, 2, 5, 1), line(b, 1, 4))
	_, after, err := e.coord.Checkout(t.Context(), ct, cashPayment(100))

	var failure *domain.StockAdjustmentFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, a.productID, failure.ProductID)
	assert.Equal(t, failing, failure.WarehouseID)
	assert.ErrorIs(t, err, errBackend)
	assert.True(t, failure.Compensation.Complete(), failure.Compensation.String())

	// siblings racing the failure may be skipped; every issued success is reversed
	var succeeded int
	for _, call := range e.adjuster.Calls() {
		if call.QuantityChange < 0 && call.WarehouseID != failing {
			succeeded++
		}
	}
	assert.Len(t, failure.Compensation.Reversed, succeeded)

	assert.Empty(t, e.recorder.Records())
	assert.Equal(t, ct, after)

	assert.Equal(t, 5, e.store.Quantity(a.productID, a.warehouses[0]))
	assert.Equal(t, 3, e.store.Quantity(a.productID, a.warehouses[1]))
	assert.Equal(t, 4, e.store.Quantity(b.productID, b.warehouses[0]))

	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Checkouts.WithLabelValues("regular", "stock_adjustment_failed")))
	assert.Equal(t, float64(succeeded), testutil.ToFloat64(e.metrics.Compensations.WithLabelValues("reversed")))
}

func TestCheckout_oversellIsRefusedByStore(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(2)

	// a plan computed against stale pools
	stale := newCart(line(s, 1, 5))

	_, _, err := e.coord.Checkout(t.Context(), stale, cashPayment(100))

	var failure *domain.StockAdjustmentFailure
	require.ErrorAs(t, err, &failure)
	assert.Empty(t, e.recorder.Records())
	assert.Equal(t, 2, e.store.Quantity(s.productID, s.warehouses[0]))
}

func TestCheckout_sequentialLimitSkipsRemaining(t *testing.T) {
	cfg := testConfig()
	cfg.MaxParallel = 1
	e := newEnv(t, cfg)
	s := e.stock(1, 1, 1, 1)

	e.adjuster.fail = func(adj domain.StockAdjustment, _ int) error {
		if adj.WarehouseID == s.warehouses[0] {
			return errBackend
		}
		return nil
	}

	_, _, err := e.coord.Checkout(t.Context(), newCart(line(s, 1, 1, 1, 1, 1)), cashPayment(10))

	var failure *domain.StockAdjustmentFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, s.warehouses[0], failure.WarehouseID)
	assert.Len(t, e.adjuster.Calls(), 1)
	assert.Equal(t, 3.0, testutil.ToFloat64(e.metrics.Adjustments.WithLabelValues("skipped")))
}

func TestCheckout_adjustmentsRunConcurrently(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(1, 1, 1)
	ct := newCart(line(s, 1, 1, 1, 1))

	// every call waits until all three are in flight; a sequential fan-out would time out
	var arrived sync.WaitGroup
	arrived.Add(3)
	e.adjuster.fail = func(_ domain.StockAdjustment, call int) error {
		if call > 3 {
			return nil
		}
		arrived.Done()
		arrived.Wait()
		return nil
	}

	_, _, err := e.coord.Checkout(t.Context(), ct, cashPayment(10))
	require.NoError(t, err)
	assert.Len(t, e.adjuster.Calls(), 3)
}

func TestCheckout_recordingFailureIsCompensated(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(5, 3)
	e.recorder.err = errBackend

	ct := newCart(line(s, 2, 5, 1))
	_, after, err := e.coord.Checkout(t.Context(), ct, cashPayment(100))

	var failure *domain.PostDeductionRecordingFailure
	require.ErrorAs(t, err, &failure)
	assert.ErrorIs(t, err, errBackend)
	assert.True(t, failure.Compensation.Complete(), failure.Compensation.String())
	assert.Len(t, failure.Compensation.Reversed, 2)
	assert.Equal(t, ct, after)

	assert.Equal(t, 5, e.store.Quantity(s.productID, s.warehouses[0]))
	assert.Equal(t, 3, e.store.Quantity(s.productID, s.warehouses[1]))
	assert.Len(t, e.recorder.Records(), 1)
}

func TestCheckout_recordingTimeoutLeavesStockForReconciliation(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(5)
	e.recorder.err = context.DeadlineExceeded

	_, _, err := e.coord.Checkout(t.Context(), newCart(line(s, 2, 2)), cashPayment(100))

	var failure *domain.PostDeductionRecordingFailure
	require.ErrorAs(t, err, &failure)
	assert.False(t, failure.Compensation.Complete())
	assert.Len(t, failure.Compensation.Unconfirmed, 1)
	assert.Empty(t, failure.Compensation.Reversed)
	assert.Equal(t, 3, e.store.Quantity(s.productID, s.warehouses[0]))
}

func TestCheckout_compensationRetriesUntilAcknowledged(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(5)
	e.recorder.err = errBackend

	var reversals int
	var mu sync.Mutex
	e.adjuster.fail = func(adj domain.StockAdjustment, _ int) error {
		if adj.QuantityChange < 0 {
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		reversals++
		if reversals < 3 {
			return errBackend
		}
		return nil
	}

	_, _, err := e.coord.Checkout(t.Context(), newCart(line(s, 2, 2)), cashPayment(100))

	var failure *domain.PostDeductionRecordingFailure
	require.ErrorAs(t, err, &failure)
	assert.True(t, failure.Compensation.Complete())
	assert.Equal(t, 3, reversals)
	assert.Equal(t, 5, e.store.Quantity(s.productID, s.warehouses[0]))
}

func TestCheckout_compensationGivesUp(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(5)
	e.recorder.err = errBackend
	e.adjuster.fail = func(adj domain.StockAdjustment, _ int) error {
		if adj.QuantityChange > 0 {
			return errBackend
		}
		return nil
	}

	_, _, err := e.coord.Checkout(t.Context(), newCart(line(s, 2, 2)), cashPayment(100))

	var failure *domain.PostDeductionRecordingFailure
	require.ErrorAs(t, err, &failure)
	assert.False(t, failure.Compensation.Complete())
	require.Len(t, failure.Compensation.Failed, 1)
	assert.Equal(t, -2, failure.Compensation.Failed[0].QuantityChange)
	assert.Contains(t, err.Error(), "NOT reversed")
	assert.Equal(t, 3, e.store.Quantity(s.productID, s.warehouses[0]))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Compensations.WithLabelValues("failed")))
}

func TestCheckout_reversalTimeoutIsNotRetried(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(5)
	e.recorder.err = errBackend

	// the backend applies the reversal but the acknowledgement is lost
	e.adjuster.fail = func(adj domain.StockAdjustment, _ int) error {
		if adj.QuantityChange < 0 {
			return nil
		}
		if err := e.store.AdjustStock(context.Background(), adj); err != nil {
			return err
		}
		return context.DeadlineExceeded
	}

	_, _, err := e.coord.Checkout(t.Context(), newCart(line(s, 2, 2)), cashPayment(100))

	var failure *domain.PostDeductionRecordingFailure
	require.ErrorAs(t, err, &failure)
	assert.False(t, failure.Compensation.Complete())
	assert.Empty(t, failure.Compensation.Reversed)
	require.Len(t, failure.Compensation.Unconfirmed, 1)
	assert.Equal(t, 2, failure.Compensation.Unconfirmed[0].QuantityChange)

	assert.Len(t, e.adjuster.Calls(), 2, "one deduction, one reversal")
	assert.Equal(t, 5, e.store.Quantity(s.productID, s.warehouses[0]))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Compensations.WithLabelValues("unconfirmed")))
}

func TestCheckout_cancelledContextStillCompensates(t *testing.T) {
	e := newEnv(t, testConfig())
	s := e.stock(5)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	// the client goes away while the sale is being recorded
	e.recorder.err = errBackend
	e.recorder.hook = cancel

	_, _, err := e.coord.Checkout(ctx, newCart(line(s, 1, 1)), cashPayment(100))

	var failure *domain.PostDeductionRecordingFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 5, e.store.Quantity(s.productID, s.warehouses[0]))
}

func TestCheckoutExternal(t *testing.T) {
	e := newEnv(t, testConfig())

	ec := domain.ExternalCart{
		CashierID: uuid.New(),
		BranchID:  uuid.New(),
		Currency:  currency.USD,
		Lines: []domain.AdHocLine{
			{Description: "repair service", Quantity: 1, UnitSalePrice: usd(60), UnitPurchasePrice: usd(20)},
			{Description: "screen protector", Quantity: 2, UnitSalePrice: usd(10), UnitPurchasePrice: usd(3)},
		},
	}

	receipt, after, err := e.coord.CheckoutExternal(t.Context(), ec, cashPayment(100))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(receipt.Reference, "EXT-"), receipt.Reference)
	assert.True(t, decimal.NewFromInt(80).Equal(receipt.Total.Amount))
	require.NotNil(t, receipt.Cost)
	assert.True(t, decimal.NewFromInt(26).Equal(receipt.Cost.Amount))
	assert.True(t, after.IsEmpty())
	assert.Empty(t, e.adjuster.Calls())

	sale, err := e.store.GetSale(t.Context(), receipt.SaleID)
	require.NoError(t, err)
	external, ok := sale.Variant.(domain.ExternalSale)
	require.True(t, ok)
	assert.Len(t, external.Items, 2)
}

func TestCheckoutExternal_recordingFailure(t *testing.T) {
	e := newEnv(t, testConfig())
	e.recorder.err = errBackend

	ec := domain.ExternalCart{
		Currency: currency.USD,
		Lines:    []domain.AdHocLine{{Description: "x", Quantity: 1, UnitSalePrice: usd(1), UnitPurchasePrice: usd(1)}},
	}

	_, after, err := e.coord.CheckoutExternal(t.Context(), ec, cashPayment(1))
	require.ErrorIs(t, err, errBackend)
	assert.False(t, errors.As(err, new(*domain.PostDeductionRecordingFailure)))
	assert.Equal(t, ec, after)
}

func TestNew_zeroConfigUsesDefaults(t *testing.T) {
	e := newEnv(t, checkout.Config{})
	s := e.stock(4)

	_, _, err := e.coord.Checkout(t.Context(), newCart(line(s, 3, 4)), cashPayment(12))
	require.NoError(t, err)
	assert.Zero(t, e.store.Quantity(s.productID, s.warehouses[0]))
}

func TestCheckout_saleDateFromClock(t *testing.T) {
	store := memstore.New()
	recorder := &recorderSpy{next: store}
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	coord := checkout.New(store, recorder, nil, testConfig(), checkout.WithClock(func() time.Time { return fixed }))

	e := &env{store: store}
	s := e.stock(2)

	receipt, _, err := coord.Checkout(t.Context(), newCart(line(s, 1, 1)), cashPayment(1))
	require.NoError(t, err)
	assert.Equal(t, "TRX-20260314-000001", receipt.Reference)

	records := recorder.Records()
	require.Len(t, records, 1)
	assert.True(t, fixed.Equal(records[0].Date))
}

func TestDefaultConfig(t *testing.T) {
	cfg := checkout.DefaultConfig()
	assert.Positive(t, cfg.AdjustTimeout)
	assert.Positive(t, cfg.RecordTimeout)
	assert.Zero(t, cfg.MaxParallel)
}
