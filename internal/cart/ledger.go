// Package cart maintains the in-memory line items of one checkout session.
// Every operation takes a Cart value and returns a new one; nothing is persisted
// until checkout.
package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/domain"
)

type LineInput struct {
	ProductID uuid.UUID
	Plan      domain.AllocationPlan
	UnitPrice domain.Money
	Note      string
}

// Upsert replaces the line for in.ProductID, or appends one. The line quantity is
// the plan total, so a line can never disagree with its allocations.
func Upsert(c domain.Cart, in LineInput) (domain.Cart, error) {
	line := domain.CartLine{
		ProductID:   in.ProductID,
		Quantity:    in.Plan.Total(),
		UnitPrice:   in.UnitPrice,
		Note:        in.Note,
		Allocations: in.Plan.Clone(),
	}

	if err := validateLine(c, line); err != nil {
		return c, err
	}

	out := c.Clone()
	for i := range out.Lines {
		if out.Lines[i].ProductID == line.ProductID {
			out.Lines[i] = line
			return out, nil
		}
	}
	out.Lines = append(out.Lines, line)

	return out, nil
}

func Remove(c domain.Cart, index int) (domain.Cart, error) {
	if index < 0 || index >= len(c.Lines) {
		return c, domain.NewValidationError("index", fmt.Sprintf("%d out of range [0,%d)", index, len(c.Lines)))
	}

	out := c.Clone()
	out.Lines = append(out.Lines[:index], out.Lines[index+1:]...)

	return out, nil
}

// Clear drops every line but keeps the session identity.
func Clear(c domain.Cart) domain.Cart {
	c.Lines = nil
	return c
}

func Subtotal(c domain.Cart) domain.Money {
	total := domain.ZeroMoney(c.Currency)
	for _, l := range c.Lines {
		total.Amount = total.Amount.Add(l.LineTotal().Amount)
	}
	return total
}

// GrandTotal equals Subtotal; taxes are applied downstream of the sale record.
func GrandTotal(c domain.Cart) domain.Money {
	return Subtotal(c)
}

// Validate checks that c is ready for checkout.
func Validate(c domain.Cart) error {
	if c.IsEmpty() {
		return domain.ErrEmptyCart
	}

	seen := make(map[uuid.UUID]struct{}, len(c.Lines))
	for i, l := range c.Lines {
		if _, dup := seen[l.ProductID]; dup {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].product_id", i), "duplicate product line")
		}
		seen[l.ProductID] = struct{}{}

		if err := validateLine(c, l); err != nil {
			return err
		}
	}

	return nil
}

func validateLine(c domain.Cart, l domain.CartLine) error {
	if l.ProductID == uuid.Nil {
		return domain.NewValidationError("product_id", "is empty")
	}
	if err := domain.CheckQuantity("quantity", l.Quantity); err != nil {
		return err
	}
	if l.UnitPrice.IsNegative() {
		return domain.NewValidationError("unit_price", "must not be negative")
	}
	if l.UnitPrice.Currency.String() != c.Currency.String() {
		return domain.NewValidationError("unit_price", fmt.Sprintf("currency %s does not match cart currency %s", l.UnitPrice.Currency, c.Currency))
	}
	if total := l.Allocations.Total(); total != l.Quantity {
		return &domain.AllocationMismatchError{
			ProductID: l.ProductID,
			Allocated: total,
			Requested: l.Quantity,
			Reason:    "plan does not sum to requested quantity",
		}
	}
	for _, a := range l.Allocations {
		if a.Deducted <= 0 {
			return &domain.AllocationMismatchError{
				ProductID:   l.ProductID,
				WarehouseID: a.WarehouseID,
				Allocated:   a.Deducted,
				Requested:   l.Quantity,
				Reason:      fmt.Sprintf("deducted quantity must be positive, got %d", a.Deducted),
			}
		}
	}

	return nil
}
