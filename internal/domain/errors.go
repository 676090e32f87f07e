package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrAlreadyCancelled  = errors.New("sale already cancelled")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrProductNotFound   = errors.New("product not found")
	ErrPoolNotFound      = errors.New("warehouse pool not found")
	ErrNegativeStock     = errors.New("stock would become negative")
)

// ValidationError rejects malformed cart or payment input before any backend call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

type InsufficientStockError struct {
	ProductID uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

type AllocationMismatchError struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Allocated   int
	Requested   int
	Reason      string
}

func (e *AllocationMismatchError) Error() string {
	if e.WarehouseID != uuid.Nil {
		return fmt.Sprintf("allocation for product %s, warehouse %s: %s",
			e.ProductID, e.WarehouseID, e.Reason)
	}
	return fmt.Sprintf("allocation for product %s: %s (allocated %d, requested %d)",
		e.ProductID, e.Reason, e.Allocated, e.Requested)
}

// CompensationResult describes the reversal of adjustments applied before a checkout failed.
type CompensationResult struct {
	Reversed []StockAdjustment
	Failed   []StockAdjustment
	// Unconfirmed adjustments timed out; the backend may or may not have applied them.
	Unconfirmed []StockAdjustment
	Err         error
}

// Complete reports whether stock is known to be back where it started.
func (r CompensationResult) Complete() bool {
	return len(r.Failed) == 0 && len(r.Unconfirmed) == 0 && r.Err == nil
}

func (r CompensationResult) String() string {
	if r.Complete() {
		return fmt.Sprintf("%d adjustment(s) reversed", len(r.Reversed))
	}
	return fmt.Sprintf("%d adjustment(s) reversed, %d NOT reversed, %d unconfirmed: %v",
		len(r.Reversed), len(r.Failed), len(r.Unconfirmed), r.Err)
}

// StockAdjustmentFailure aborts a checkout before the sale is recorded.
type StockAdjustmentFailure struct {
	ProductID    uuid.UUID
	WarehouseID  uuid.UUID
	Err          error
	Compensation CompensationResult
}

func (e *StockAdjustmentFailure) Error() string {
	return fmt.Sprintf("stock adjustment failed for product %s, warehouse %s: %v; %s",
		e.ProductID, e.WarehouseID, e.Err, e.Compensation)
}

func (e *StockAdjustmentFailure) Unwrap() error {
	return e.Err
}

// PostDeductionRecordingFailure means stock was deducted but the sale could not be recorded.
type PostDeductionRecordingFailure struct {
	Err          error
	Compensation CompensationResult
}

func (e *PostDeductionRecordingFailure) Error() string {
	return fmt.Sprintf("sale recording failed after stock deduction: %v; %s", e.Err, e.Compensation)
}

func (e *PostDeductionRecordingFailure) Unwrap() error {
	return e.Err
}

type CancellationError struct {
	SaleID uuid.UUID
	Err    error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancel sale %s: %v", e.SaleID, e.Err)
}

func (e *CancellationError) Unwrap() error {
	return e.Err
}
