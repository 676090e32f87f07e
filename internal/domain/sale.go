package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SaleStatus string

const (
	SaleStatusHeld      SaleStatus = "held"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

func ParseSaleStatus(s string) (SaleStatus, error) {
	switch SaleStatus(s) {
	case SaleStatusHeld, SaleStatusCompleted, SaleStatusCancelled:
		return SaleStatus(s), nil
	default:
		return "", fmt.Errorf("unknown sale status %q", s)
	}
}

// CanTransitionTo reports whether a sale in status s may move to next.
// held and completed are interchangeable; cancelled is terminal.
func (s SaleStatus) CanTransitionTo(next SaleStatus) bool {
	switch s {
	case SaleStatusHeld:
		return next == SaleStatusCompleted || next == SaleStatusCancelled
	case SaleStatusCompleted:
		return next == SaleStatusHeld || next == SaleStatusCancelled
	default:
		return false
	}
}

// SaleVariant is either RegularSale or ExternalSale.
type SaleVariant interface {
	isSaleVariant()
}

type RegularSale struct {
	Items []SaleLine
}

type ExternalSale struct {
	Items []AdHocLine
}

func (RegularSale) isSaleVariant()  {}
func (ExternalSale) isSaleVariant() {}

type SaleLine struct {
	ProductID     uuid.UUID
	Quantity      int
	UnitSalePrice Money
	TotalPrice    Money
	Note          string
	Allocations   AllocationPlan
}

// AdHocLine is a free-text line of an external sale with a negotiated purchase price.
type AdHocLine struct {
	Description       string
	Quantity          int
	UnitSalePrice     Money
	UnitPurchasePrice Money
	Note              string
}

func (l AdHocLine) TotalPrice() Money {
	return l.UnitSalePrice.Mul(l.Quantity)
}

func (l AdHocLine) CostTotal() Money {
	return l.UnitPurchasePrice.Mul(l.Quantity)
}

type Customer struct {
	Name  string
	Phone string
}

type SaleTransaction struct {
	ID            uuid.UUID
	Reference     string
	Date          time.Time
	Status        SaleStatus
	Total         Money
	Cost          *Money
	CashierID     uuid.UUID
	BranchID      uuid.UUID
	Customer      Customer
	PaymentMethod string
	Variant       SaleVariant
}

// SaleRecord is the payload of a single atomic RecordSale call.
type SaleRecord struct {
	Date          time.Time
	CashierID     uuid.UUID
	BranchID      uuid.UUID
	Customer      Customer
	Total         Money
	Cost          *Money
	PaymentMethod string
	Status        SaleStatus
	Variant       SaleVariant
}

type RecordedSale struct {
	ID        uuid.UUID
	Reference string
	Message   string
}

type CancelAck struct {
	Status  string
	Message string
}

type Payment struct {
	Tendered        Money
	Method          string
	RequestedStatus SaleStatus
	Customer        Customer
	Date            time.Time
}
