package payment

import (
	"fmt"

	"github.com/nikolayk812/pos-checkout/internal/domain"
)

type Resolution struct {
	Status domain.SaleStatus
	// Change is nil unless the tendered amount covers the amount due.
	Change *domain.Money
}

// ResolveStatus derives the status a sale is recorded with. An underpaid sale is
// always held, whatever the operator asked for.
func ResolveStatus(tendered, due domain.Money, requested domain.SaleStatus) (Resolution, error) {
	if tendered.IsNegative() {
		return Resolution{}, domain.NewValidationError("amount_tendered", "must not be negative")
	}
	if due.IsNegative() {
		return Resolution{}, domain.NewValidationError("amount_due", "must not be negative")
	}
	if !tendered.SameCurrency(due) {
		return Resolution{}, domain.NewValidationError("amount_tendered",
			fmt.Sprintf("currency %s does not match %s", tendered.Currency, due.Currency))
	}

	switch requested {
	case domain.SaleStatusHeld, domain.SaleStatusCompleted:
	case "":
		requested = domain.SaleStatusCompleted
	default:
		return Resolution{}, domain.NewValidationError("status", fmt.Sprintf("cannot check out with status %q", requested))
	}

	if tendered.Cmp(due) < 0 {
		return Resolution{Status: domain.SaleStatusHeld}, nil
	}

	change, err := tendered.Sub(due)
	if err != nil {
		return Resolution{}, fmt.Errorf("tendered.Sub: %w", err)
	}

	return Resolution{Status: requested, Change: &change}, nil
}
