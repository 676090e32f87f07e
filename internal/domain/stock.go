package domain

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// MaxQuantity is the largest quantity a single line, pool or adjustment may carry.
const MaxQuantity = math.MaxInt32

// CheckQuantity rejects quantities that are not positive or exceed MaxQuantity.
func CheckQuantity(field string, q int) error {
	if q <= 0 {
		return NewValidationError(field, fmt.Sprintf("must be positive, got %d", q))
	}
	if q > MaxQuantity {
		return NewValidationError(field, fmt.Sprintf("must not exceed %d, got %d", MaxQuantity, q))
	}
	return nil
}

type Product struct {
	ID                uuid.UUID
	Name              string
	Code              string
	SalePrice         Money
	LowStockThreshold int
	CategoryID        uuid.UUID
}

// WarehousePool is the quantity of one product held at one warehouse.
type WarehousePool struct {
	ProductID     uuid.UUID
	WarehouseID   uuid.UUID
	WarehouseName string
	Quantity      int
}

type WarehouseAllocation struct {
	WarehouseID   uuid.UUID
	WarehouseName string
	Deducted      int
}

// AllocationPlan is the ordered set of warehouse deductions satisfying one cart line.
type AllocationPlan []WarehouseAllocation

func (p AllocationPlan) Total() int {
	total := 0
	for _, a := range p {
		total += a.Deducted
	}
	return total
}

func (p AllocationPlan) Clone() AllocationPlan {
	if p == nil {
		return nil
	}
	out := make(AllocationPlan, len(p))
	copy(out, p)
	return out
}

// StockAdjustment is a signed, relative change to one warehouse pool.
type StockAdjustment struct {
	ProductID      uuid.UUID
	WarehouseID    uuid.UUID
	QuantityChange int
	ActingUserID   uuid.UUID
	Reason         string
}

// Validate rejects a zero change and changes outside the storable range.
func (a StockAdjustment) Validate() error {
	change := a.QuantityChange
	if change == 0 {
		return NewValidationError("quantity_change", "must not be zero")
	}
	if change < -MaxQuantity || change > MaxQuantity {
		return NewValidationError("quantity_change", fmt.Sprintf("must be within ±%d, got %d", MaxQuantity, change))
	}
	return nil
}

// Reverse returns the adjustment that undoes a.
func (a StockAdjustment) Reverse(reason string) StockAdjustment {
	return StockAdjustment{
		ProductID:      a.ProductID,
		WarehouseID:    a.WarehouseID,
		QuantityChange: -a.QuantityChange,
		ActingUserID:   a.ActingUserID,
		Reason:         reason,
	}
}

func TotalQuantity(pools []WarehousePool) int {
	total := 0
	for _, p := range pools {
		if p.Quantity > 0 {
			total += p.Quantity
		}
	}
	return total
}
