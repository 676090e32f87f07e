package memstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/domain"
)

func (s *Store) RecordSale(ctx context.Context, record domain.SaleRecord) (domain.RecordedSale, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecordedSale{}, err
	}
	if record.Variant == nil {
		return domain.RecordedSale{}, fmt.Errorf("sale variant is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	date := record.Date
	if date.IsZero() {
		date = s.now()
	}

	sale := domain.SaleTransaction{
		ID:            uuid.New(),
		Reference:     s.issueLocked(record.Variant, date),
		Date:          date,
		Status:        record.Status,
		Total:         record.Total,
		Cost:          record.Cost,
		CashierID:     record.CashierID,
		BranchID:      record.BranchID,
		Customer:      record.Customer,
		PaymentMethod: record.PaymentMethod,
		Variant:       cloneVariant(record.Variant),
	}
	s.sales[sale.ID] = sale

	return domain.RecordedSale{
		ID:        sale.ID,
		Reference: sale.Reference,
		Message:   "sale recorded",
	}, nil
}

func (s *Store) GetSale(_ context.Context, saleID uuid.UUID) (domain.SaleTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[saleID]
	if !ok {
		return domain.SaleTransaction{}, domain.ErrSaleNotFound
	}
	sale.Variant = cloneVariant(sale.Variant)
	return sale, nil
}

func (s *Store) UpdateSaleStatus(_ context.Context, saleID uuid.UUID, status domain.SaleStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[saleID]
	if !ok {
		return domain.ErrSaleNotFound
	}
	sale.Status = status
	s.sales[saleID] = sale
	return nil
}

// CancelSale restores every recorded allocation and deletes the sale. Either all
// restorations apply and the sale disappears, or nothing changes.
func (s *Store) CancelSale(ctx context.Context, saleID uuid.UUID, actingUserID *uuid.UUID) (domain.CancelAck, error) {
	if err := ctx.Err(); err != nil {
		return domain.CancelAck{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[saleID]
	if !ok {
		return domain.CancelAck{}, domain.ErrSaleNotFound
	}
	regular, ok := sale.Variant.(domain.RegularSale)
	if !ok {
		return domain.CancelAck{}, fmt.Errorf("sale %s is not a regular sale", saleID)
	}

	var actor uuid.UUID
	if actingUserID != nil {
		actor = *actingUserID
	}

	for _, item := range regular.Items {
		for _, alloc := range item.Allocations {
			if s.poolIndex(item.ProductID, alloc.WarehouseID) < 0 {
				return domain.CancelAck{}, fmt.Errorf("product %s, warehouse %s: %w", item.ProductID, alloc.WarehouseID, domain.ErrPoolNotFound)
			}
		}
	}

	for _, item := range regular.Items {
		for _, alloc := range item.Allocations {
			// pools only grow here and were checked above
			_ = s.adjustLocked(domain.StockAdjustment{
				ProductID:      item.ProductID,
				WarehouseID:    alloc.WarehouseID,
				QuantityChange: alloc.Deducted,
				ActingUserID:   actor,
				Reason:         fmt.Sprintf("cancel sale %s", sale.Reference),
			})
		}
	}
	delete(s.sales, saleID)

	return domain.CancelAck{Status: "ok", Message: fmt.Sprintf("sale %s cancelled", sale.Reference)}, nil
}

func (s *Store) CancelExternalSale(ctx context.Context, saleID uuid.UUID, _ *uuid.UUID) (domain.CancelAck, error) {
	if err := ctx.Err(); err != nil {
		return domain.CancelAck{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[saleID]
	if !ok {
		return domain.CancelAck{}, domain.ErrSaleNotFound
	}
	if _, ok := sale.Variant.(domain.ExternalSale); !ok {
		return domain.CancelAck{}, fmt.Errorf("sale %s is not an external sale", saleID)
	}
	delete(s.sales, saleID)

	return domain.CancelAck{Status: "ok", Message: fmt.Sprintf("external sale %s cancelled", sale.Reference)}, nil
}

func cloneVariant(v domain.SaleVariant) domain.SaleVariant {
	switch v := v.(type) {
	case domain.RegularSale:
		items := make([]domain.SaleLine, len(v.Items))
		for i, item := range v.Items {
			item.Allocations = item.Allocations.Clone()
			items[i] = item
		}
		return domain.RegularSale{Items: items}
	case domain.ExternalSale:
		items := make([]domain.AdHocLine, len(v.Items))
		copy(items, v.Items)
		return domain.ExternalSale{Items: items}
	default:
		return v
	}
}
