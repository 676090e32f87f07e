package allocation

import (
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/domain"
)

// PoolOrder decides the order in which warehouse pools are drained.
// Implementations must return a new slice and leave the input untouched.
type PoolOrder func(pools []domain.WarehousePool) []domain.WarehousePool

// CatalogOrder keeps the order supplied by the stock catalog.
func CatalogOrder(pools []domain.WarehousePool) []domain.WarehousePool {
	return slices.Clone(pools)
}

// LargestFirst drains the fullest pool first; ties keep catalog order.
func LargestFirst(pools []domain.WarehousePool) []domain.WarehousePool {
	out := slices.Clone(pools)
	slices.SortStableFunc(out, func(a, b domain.WarehousePool) int {
		return b.Quantity - a.Quantity
	})
	return out
}

// WarehousePriority drains the listed warehouses first, in the given order,
// followed by every other pool in catalog order.
func WarehousePriority(ids ...uuid.UUID) PoolOrder {
	rank := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		if _, ok := rank[id]; !ok {
			rank[id] = i
		}
	}

	return func(pools []domain.WarehousePool) []domain.WarehousePool {
		out := slices.Clone(pools)
		slices.SortStableFunc(out, func(a, b domain.WarehousePool) int {
			ra, okA := rank[a.WarehouseID]
			rb, okB := rank[b.WarehouseID]
			switch {
			case okA && okB:
				return ra - rb
			case okA:
				return -1
			case okB:
				return 1
			default:
				return 0
			}
		})
		return out
	}
}
