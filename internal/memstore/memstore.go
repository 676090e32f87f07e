// Package memstore is an in-memory backend for the checkout engine. It honours the
// same contracts as the Postgres repositories: relative stock adjustments, atomic
// sale recording and single-call cancellation.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/port"
)

// Movement is one applied stock adjustment, kept for auditing.
type Movement struct {
	Adjustment domain.StockAdjustment
	Before     int
	After      int
	At         time.Time
}

type Store struct {
	mu sync.Mutex

	products  map[uuid.UUID]domain.Product
	pools     map[uuid.UUID][]domain.WarehousePool
	sales     map[uuid.UUID]domain.SaleTransaction
	movements []Movement
	seq       int64

	now func() time.Time
}

var (
	_ port.StockCatalog      = (*Store)(nil)
	_ port.StockAdjuster     = (*Store)(nil)
	_ port.SaleRecorder      = (*Store)(nil)
	_ port.SaleReader        = (*Store)(nil)
	_ port.SaleStatusUpdater = (*Store)(nil)
	_ port.SaleCanceller     = (*Store)(nil)
	_ port.ReferenceIssuer   = (*Store)(nil)
)

func New() *Store {
	return &Store{
		products: make(map[uuid.UUID]domain.Product),
		pools:    make(map[uuid.UUID][]domain.WarehousePool),
		sales:    make(map[uuid.UUID]domain.SaleTransaction),
		now:      time.Now,
	}
}

func (s *Store) AddProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.ID] = p
}

// AddPool appends a pool; pools are listed in insertion order.
func (s *Store) AddPool(p domain.WarehousePool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pools[p.ProductID] = append(s.pools[p.ProductID], p)
}

func (s *Store) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (s *Store) ListPools(_ context.Context, productID uuid.UUID) ([]domain.WarehousePool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.pools[productID]), nil
}

// Quantity returns the current quantity of one pool, or -1 if it does not exist.
func (s *Store) Quantity(productID, warehouseID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.poolIndex(productID, warehouseID)
	if i < 0 {
		return -1
	}
	return s.pools[productID][i].Quantity
}

func (s *Store) Movements() []Movement {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.movements)
}

func (s *Store) AdjustStock(ctx context.Context, adj domain.StockAdjustment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := adj.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.adjustLocked(adj)
}

func (s *Store) adjustLocked(adj domain.StockAdjustment) error {
	i := s.poolIndex(adj.ProductID, adj.WarehouseID)
	if i < 0 {
		return fmt.Errorf("product %s, warehouse %s: %w", adj.ProductID, adj.WarehouseID, domain.ErrPoolNotFound)
	}

	pool := &s.pools[adj.ProductID][i]
	after := pool.Quantity + adj.QuantityChange
	if after < 0 {
		return fmt.Errorf("product %s, warehouse %s: %w", adj.ProductID, adj.WarehouseID, domain.ErrNegativeStock)
	}

	s.movements = append(s.movements, Movement{
		Adjustment: adj,
		Before:     pool.Quantity,
		After:      after,
		At:         s.now(),
	})
	pool.Quantity = after

	return nil
}

func (s *Store) poolIndex(productID, warehouseID uuid.UUID) int {
	return slices.IndexFunc(s.pools[productID], func(p domain.WarehousePool) bool {
		return p.WarehouseID == warehouseID
	})
}

func (s *Store) IssueReference(ctx context.Context, variant domain.SaleVariant, date time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.issueLocked(variant, date), nil
}

func (s *Store) issueLocked(variant domain.SaleVariant, date time.Time) string {
	s.seq++
	return domain.FormatReference(variant, date, s.seq)
}
