package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/domain"
)

// SaleRecorder persists a sale with all of its lines atomically.
type SaleRecorder interface {
	RecordSale(ctx context.Context, record domain.SaleRecord) (domain.RecordedSale, error)
}

type SaleReader interface {
	GetSale(ctx context.Context, saleID uuid.UUID) (domain.SaleTransaction, error)
}

type SaleStatusUpdater interface {
	UpdateSaleStatus(ctx context.Context, saleID uuid.UUID, status domain.SaleStatus) error
}

// SaleCanceller restores stock and removes the sale in one backend call.
type SaleCanceller interface {
	CancelSale(ctx context.Context, saleID uuid.UUID, actingUserID *uuid.UUID) (domain.CancelAck, error)
	CancelExternalSale(ctx context.Context, saleID uuid.UUID, actingUserID *uuid.UUID) (domain.CancelAck, error)
}

type ReferenceIssuer interface {
	IssueReference(ctx context.Context, variant domain.SaleVariant, date time.Time) (string, error)
}

type SaleRepository interface {
	SaleRecorder
	SaleReader
	SaleStatusUpdater
	SaleCanceller
	ReferenceIssuer
}
