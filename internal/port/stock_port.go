package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/domain"
)

type StockCatalog interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	// ListPools returns the product's warehouse pools in catalog priority order.
	ListPools(ctx context.Context, productID uuid.UUID) ([]domain.WarehousePool, error)
}

// StockAdjuster applies signed relative changes; implementations must never read-modify-write.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, adj domain.StockAdjustment) error
}

type StockRepository interface {
	StockCatalog
	StockAdjuster
}
