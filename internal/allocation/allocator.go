package allocation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/domain"
)

type Allocator struct {
	order PoolOrder
}

func New(order PoolOrder) *Allocator {
	if order == nil {
		order = CatalogOrder
	}
	return &Allocator{order: order}
}

// Allocate splits requested units across pools greedily, in the allocator's pool order.
// On failure no partial plan is returned.
func (a *Allocator) Allocate(productID uuid.UUID, requested int, pools []domain.WarehousePool) (domain.AllocationPlan, error) {
	if err := domain.CheckQuantity("quantity", requested); err != nil {
		return nil, err
	}

	var (
		plan      domain.AllocationPlan
		remaining = requested
	)

	for _, pool := range a.order(pools) {
		if remaining == 0 {
			break
		}

		take := min(remaining, pool.Quantity)
		if take <= 0 {
			continue
		}

		plan = append(plan, domain.WarehouseAllocation{
			WarehouseID:   pool.WarehouseID,
			WarehouseName: pool.WarehouseName,
			Deducted:      take,
		})
		remaining -= take
	}

	if remaining > 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Available: domain.TotalQuantity(pools),
			Requested: requested,
		}
	}

	return plan, nil
}

// Validate checks a possibly hand-edited plan against the pools observed now.
func Validate(productID uuid.UUID, requested int, plan domain.AllocationPlan, pools []domain.WarehousePool) error {
	if err := domain.CheckQuantity("quantity", requested); err != nil {
		return err
	}

	byWarehouse := make(map[uuid.UUID]domain.WarehousePool, len(pools))
	for _, p := range pools {
		byWarehouse[p.WarehouseID] = p
	}

	seen := make(map[uuid.UUID]struct{}, len(plan))
	for _, alloc := range plan {
		mismatch := &domain.AllocationMismatchError{
			ProductID:   productID,
			WarehouseID: alloc.WarehouseID,
			Allocated:   alloc.Deducted,
			Requested:   requested,
		}

		if alloc.Deducted <= 0 {
			mismatch.Reason = fmt.Sprintf("deducted quantity must be positive, got %d", alloc.Deducted)
			return mismatch
		}
		if _, dup := seen[alloc.WarehouseID]; dup {
			mismatch.Reason = "warehouse allocated more than once"
			return mismatch
		}
		seen[alloc.WarehouseID] = struct{}{}

		pool, ok := byWarehouse[alloc.WarehouseID]
		if !ok {
			mismatch.Reason = "warehouse holds no stock for product"
			return mismatch
		}
		if alloc.Deducted > pool.Quantity {
			mismatch.Reason = fmt.Sprintf("deducted %d exceeds pool quantity %d", alloc.Deducted, pool.Quantity)
			return mismatch
		}
	}

	if total := plan.Total(); total != requested {
		return &domain.AllocationMismatchError{
			ProductID: productID,
			Allocated: total,
			Requested: requested,
			Reason:    "plan does not sum to requested quantity",
		}
	}

	return nil
}
