package cart

import (
	"fmt"

	"github.com/nikolayk812/pos-checkout/internal/domain"
)

// ValidateExternal checks the ad-hoc lines of an external sale.
func ValidateExternal(c domain.ExternalCart) error {
	if c.IsEmpty() {
		return domain.ErrEmptyCart
	}

	for i, l := range c.Lines {
		field := func(name string) string { return fmt.Sprintf("lines[%d].%s", i, name) }

		if l.Description == "" {
			return domain.NewValidationError(field("description"), "is empty")
		}
		if err := domain.CheckQuantity(field("quantity"), l.Quantity); err != nil {
			return err
		}
		prices := []struct {
			name string
			m    domain.Money
		}{
			{"unit_sale_price", l.UnitSalePrice},
			{"unit_purchase_price", l.UnitPurchasePrice},
		}
		for _, p := range prices {
			name, m := p.name, p.m
			if m.IsNegative() {
				return domain.NewValidationError(field(name), "must not be negative")
			}
			if m.Currency.String() != c.Currency.String() {
				return domain.NewValidationError(field(name), fmt.Sprintf("currency %s does not match cart currency %s", m.Currency, c.Currency))
			}
		}
	}

	return nil
}

// ExternalTotals returns the sale total and the cost of goods sold.
func ExternalTotals(c domain.ExternalCart) (total, cost domain.Money) {
	total = domain.ZeroMoney(c.Currency)
	cost = domain.ZeroMoney(c.Currency)

	for _, l := range c.Lines {
		total.Amount = total.Amount.Add(l.TotalPrice().Amount)
		cost.Amount = cost.Amount.Add(l.CostTotal().Amount)
	}

	return total, cost
}
