package payment_test

import (
	"testing"

	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func idr(amount int64) domain.Money {
	return domain.Money{Amount: decimal.NewFromInt(amount), Currency: currency.IDR}
}

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name       string
		tendered   domain.Money
		due        domain.Money
		requested  domain.SaleStatus
		wantStatus domain.SaleStatus
		wantChange *int64
		wantError  string
	}{
		{
			name:       "underpaid completed is forced to held",
			tendered:   idr(1000),
			due:        idr(1200),
			requested:  domain.SaleStatusCompleted,
			wantStatus: domain.SaleStatusHeld,
		},
		{
			name:       "exact payment completes",
			tendered:   idr(1200),
			due:        idr(1200),
			requested:  domain.SaleStatusCompleted,
			wantStatus: domain.SaleStatusCompleted,
			wantChange: ptr(int64(0)),
		},
		{
			name:       "overpayment returns change",
			tendered:   idr(2000),
			due:        idr(1200),
			requested:  domain.SaleStatusCompleted,
			wantStatus: domain.SaleStatusCompleted,
			wantChange: ptr(int64(800)),
		},
		{
			name:       "operator may hold a paid sale",
			tendered:   idr(2000),
			due:        idr(1200),
			requested:  domain.SaleStatusHeld,
			wantStatus: domain.SaleStatusHeld,
			wantChange: ptr(int64(800)),
		},
		{
			name:       "empty request defaults to completed",
			tendered:   idr(5),
			due:        idr(5),
			wantStatus: domain.SaleStatusCompleted,
			wantChange: ptr(int64(0)),
		},
		{
			name:      "cancelled is not a checkout status",
			tendered:  idr(5),
			due:       idr(5),
			requested: domain.SaleStatusCancelled,
			wantError: `status: cannot check out with status "cancelled"`,
		},
		{
			name:      "negative tender",
			tendered:  idr(-1),
			due:       idr(5),
			requested: domain.SaleStatusCompleted,
			wantError: "amount_tendered: must not be negative",
		},
		{
			name:      "currency mismatch",
			tendered:  domain.Money{Amount: decimal.NewFromInt(5), Currency: currency.USD},
			due:       idr(5),
			requested: domain.SaleStatusCompleted,
			wantError: "amount_tendered: currency USD does not match IDR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := payment.ResolveStatus(tt.tendered, tt.due, tt.requested)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, res.Status)
			if tt.wantChange == nil {
				assert.Nil(t, res.Change)
				return
			}
			require.NotNil(t, res.Change)
			assert.True(t, decimal.NewFromInt(*tt.wantChange).Equal(res.Change.Amount), "change %s", res.Change.Amount)
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
