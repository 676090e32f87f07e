package allocation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/port"
)

// Proposal is an allocation plan together with the stock picture it was computed from.
type Proposal struct {
	Product   domain.Product
	Plan      domain.AllocationPlan
	Available int
	// LowStock is set when the units left after this plan fall to the product's threshold.
	LowStock bool
}

// Planner binds an Allocator to a live stock catalog.
type Planner struct {
	catalog   port.StockCatalog
	allocator *Allocator
}

func NewPlanner(catalog port.StockCatalog, allocator *Allocator) *Planner {
	if allocator == nil {
		allocator = New(nil)
	}
	return &Planner{catalog: catalog, allocator: allocator}
}

func (p *Planner) Plan(ctx context.Context, productID uuid.UUID, quantity int) (Proposal, error) {
	product, err := p.catalog.GetProduct(ctx, productID)
	if err != nil {
		return Proposal{}, fmt.Errorf("catalog.GetProduct: %w", err)
	}

	pools, err := p.catalog.ListPools(ctx, productID)
	if err != nil {
		return Proposal{}, fmt.Errorf("catalog.ListPools: %w", err)
	}

	plan, err := p.allocator.Allocate(productID, quantity, pools)
	if err != nil {
		return Proposal{}, err
	}

	available := domain.TotalQuantity(pools)

	return Proposal{
		Product:   product,
		Plan:      plan,
		Available: available,
		LowStock:  available-quantity <= product.LowStockThreshold,
	}, nil
}

// Revalidate checks a manually edited plan against freshly read pools.
func (p *Planner) Revalidate(ctx context.Context, productID uuid.UUID, quantity int, plan domain.AllocationPlan) error {
	pools, err := p.catalog.ListPools(ctx, productID)
	if err != nil {
		return fmt.Errorf("catalog.ListPools: %w", err)
	}

	return Validate(productID, quantity, plan, pools)
}
