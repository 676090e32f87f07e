package domain

import (
	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

// Cart is owned by a single checkout session and passed by value between operations.
type Cart struct {
	CashierID uuid.UUID
	BranchID  uuid.UUID
	Currency  currency.Unit
	Lines     []CartLine
}

type CartLine struct {
	ProductID   uuid.UUID
	Quantity    int
	UnitPrice   Money
	Note        string
	Allocations AllocationPlan
}

func (l CartLine) LineTotal() Money {
	return l.UnitPrice.Mul(l.Quantity)
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a deep copy so callers can mutate lines without aliasing.
func (c Cart) Clone() Cart {
	out := c
	if c.Lines != nil {
		out.Lines = make([]CartLine, len(c.Lines))
		for i, l := range c.Lines {
			l.Allocations = l.Allocations.Clone()
			out.Lines[i] = l
		}
	}
	return out
}

// ExternalCart holds ad-hoc lines that never touch warehouse stock.
type ExternalCart struct {
	CashierID uuid.UUID
	BranchID  uuid.UUID
	Currency  currency.Unit
	Lines     []AdHocLine
}

func (c ExternalCart) IsEmpty() bool {
	return len(c.Lines) == 0
}
