package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/checkout"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/memstore"
	"github.com/nikolayk812/pos-checkout/internal/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var errBackend = errors.New("backend unavailable")

func usd(amount int64) domain.Money {
	return domain.Money{Amount: decimal.NewFromInt(amount), Currency: currency.USD}
}

// adjusterSpy records every call and lets a test fail selected ones.
type adjusterSpy struct {
	next port.StockAdjuster

	mu    sync.Mutex
	calls []domain.StockAdjustment
	fail  func(adj domain.StockAdjustment, call int) error
}

func (a *adjusterSpy) AdjustStock(ctx context.Context, adj domain.StockAdjustment) error {
	a.mu.Lock()
	a.calls = append(a.calls, adj)
	n := len(a.calls)
	fail := a.fail
	a.mu.Unlock()

	if fail != nil {
		if err := fail(adj, n); err != nil {
			return err
		}
	}
	return a.next.AdjustStock(ctx, adj)
}

func (a *adjusterSpy) Calls() []domain.StockAdjustment {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.StockAdjustment(nil), a.calls...)
}

type recorderSpy struct {
	next port.SaleRecorder

	mu      sync.Mutex
	records []domain.SaleRecord
	err     error
	hook    func()
}

func (r *recorderSpy) RecordSale(ctx context.Context, record domain.SaleRecord) (domain.RecordedSale, error) {
	r.mu.Lock()
	r.records = append(r.records, record)
	err, hook := r.err, r.hook
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return domain.RecordedSale{}, err
	}
	return r.next.RecordSale(ctx, record)
}

func (r *recorderSpy) Records() []domain.SaleRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.SaleRecord(nil), r.records...)
}

type env struct {
	store    *memstore.Store
	adjuster *adjusterSpy
	recorder *recorderSpy
	metrics  *checkout.Metrics
	coord    *checkout.Coordinator
}

func newEnv(t *testing.T, cfg checkout.Config) *env {
	t.Helper()

	store := memstore.New()
	e := &env{
		store:    store,
		adjuster: &adjusterSpy{next: store},
		recorder: &recorderSpy{next: store},
		metrics:  checkout.NewMetrics(prometheus.NewRegistry()),
	}

	e.coord = checkout.New(e.adjuster, e.recorder, nil, cfg,
		checkout.WithMetrics(e.metrics),
		checkout.WithBackOff(func() backoff.BackOff {
			return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3)
		}),
	)

	return e
}

func testConfig() checkout.Config {
	return checkout.Config{
		AdjustTimeout:          2 * time.Second,
		RecordTimeout:          2 * time.Second,
		CompensationMaxElapsed: time.Second,
	}
}

type stocked struct {
	productID  uuid.UUID
	warehouses []uuid.UUID
}

// stock seeds one product with a pool per quantity, in the given order.
func (e *env) stock(quantities ...int) stocked {
	s := stocked{productID: uuid.New()}
	e.store.AddProduct(domain.Product{
		ID:        s.productID,
		Name:      gofakeit.ProductName(),
		Code:      gofakeit.UUID(),
		SalePrice: usd(10),
	})

	for _, q := range quantities {
		id := uuid.New()
		s.warehouses = append(s.warehouses, id)
		e.store.AddPool(domain.WarehousePool{
			ProductID:     s.productID,
			WarehouseID:   id,
			WarehouseName: gofakeit.City(),
			Quantity:      q,
		})
	}

	return s
}

func newCart(lines ...domain.CartLine) domain.Cart {
	return domain.Cart{
		CashierID: uuid.New(),
		BranchID:  uuid.New(),
		Currency:  currency.USD,
		Lines:     lines,
	}
}

// line takes deductions[i] units from s.warehouses[i].
func line(s stocked, price int64, deductions ...int) domain.CartLine {
	l := domain.CartLine{ProductID: s.productID, UnitPrice: usd(price)}
	for i, d := range deductions {
		l.Allocations = append(l.Allocations, domain.WarehouseAllocation{
			WarehouseID: s.warehouses[i],
			Deducted:    d,
		})
		l.Quantity += d
	}
	return l
}

func cashPayment(tendered int64) domain.Payment {
	return domain.Payment{
		Tendered:        usd(tendered),
		Method:          "cash",
		RequestedStatus: domain.SaleStatusCompleted,
		Customer:        domain.Customer{Name: gofakeit.Name(), Phone: gofakeit.Phone()},
	}
}
