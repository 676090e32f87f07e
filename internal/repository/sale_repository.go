package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/pos-checkout/internal/db"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/port"
)

type saleRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewSale(pool *pgxpool.Pool) port.SaleRepository {
	return &saleRepository{
		q:    db.New(pool),
		pool: pool,
		now:  time.Now,
	}
}

func NewSaleWithTx(tx pgx.Tx) port.SaleRepository {
	return &saleRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
		now:  time.Now,
	}
}

// RecordSale writes the sale header, its lines and their allocations in one
// transaction. The reference is drawn from the sequence shared by both variants.
func (r *saleRepository) RecordSale(ctx context.Context, record domain.SaleRecord) (domain.RecordedSale, error) {
	if record.Variant == nil {
		return domain.RecordedSale{}, fmt.Errorf("sale variant is empty")
	}

	date := record.Date
	if date.IsZero() {
		date = r.now()
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.RecordedSale, error) {
		seq, err := q.NextSaleSequence(ctx)
		if err != nil {
			return domain.RecordedSale{}, fmt.Errorf("q.NextSaleSequence: %w", err)
		}

		saleID := uuid.New()
		reference := domain.FormatReference(record.Variant, date, seq)

		switch v := record.Variant.(type) {
		case domain.RegularSale:
			err = insertRegularSale(ctx, q, saleID, reference, date, record, v)
		case domain.ExternalSale:
			err = insertExternalSale(ctx, q, saleID, reference, date, record, v)
		default:
			err = fmt.Errorf("unsupported sale variant %T", v)
		}
		if err != nil {
			return domain.RecordedSale{}, err
		}

		return domain.RecordedSale{
			ID:        saleID,
			Reference: reference,
			Message:   "sale recorded",
		}, nil
	})
}

func insertRegularSale(ctx context.Context, q *db.Queries, saleID uuid.UUID, reference string, date time.Time,
	record domain.SaleRecord, sale domain.RegularSale) error {
	err := q.InsertSale(ctx, db.InsertSaleParams{
		ID:            saleID,
		Reference:     reference,
		SaleDate:      date,
		Status:        string(record.Status),
		TotalAmount:   record.Total.Amount,
		Currency:      record.Total.Currency.String(),
		CashierID:     record.CashierID,
		BranchID:      record.BranchID,
		CustomerName:  record.Customer.Name,
		CustomerPhone: stringPtr(record.Customer.Phone),
		PaymentMethod: record.PaymentMethod,
	})
	if err != nil {
		return fmt.Errorf("q.InsertSale: %w", err)
	}

	for i, item := range sale.Items {
		if err := domain.CheckQuantity(fmt.Sprintf("items[%d].quantity", i), item.Quantity); err != nil {
			return err
		}
		itemID := uuid.New()
		err := q.InsertSaleItem(ctx, db.InsertSaleItemParams{
			ID:            itemID,
			SaleID:        saleID,
			LineNo:        int32(i),
			ProductID:     item.ProductID,
			Quantity:      int32(item.Quantity),
			UnitSalePrice: item.UnitSalePrice.Amount,
			TotalPrice:    item.TotalPrice.Amount,
			Note:          item.Note,
		})
		if err != nil {
			return fmt.Errorf("q.InsertSaleItem[%d]: %w", i, err)
		}

		for j, alloc := range item.Allocations {
			if err := domain.CheckQuantity(fmt.Sprintf("items[%d].allocations[%d].deducted", i, j), alloc.Deducted); err != nil {
				return err
			}
			err := q.InsertSaleItemAllocation(ctx, db.InsertSaleItemAllocationParams{
				SaleItemID:    itemID,
				Seq:           int32(j),
				WarehouseID:   alloc.WarehouseID,
				WarehouseName: alloc.WarehouseName,
				Deducted:      int32(alloc.Deducted),
			})
			if err != nil {
				return fmt.Errorf("q.InsertSaleItemAllocation[%d][%d]: %w", i, j, err)
			}
		}
	}

	return nil
}

func insertExternalSale(ctx context.Context, q *db.Queries, saleID uuid.UUID, reference string, date time.Time,
	record domain.SaleRecord, sale domain.ExternalSale) error {
	cost := domain.ZeroMoney(record.Total.Currency)
	if record.Cost != nil {
		cost = *record.Cost
	}

	err := q.InsertExternalSale(ctx, db.InsertExternalSaleParams{
		ID:            saleID,
		Reference:     reference,
		SaleDate:      date,
		Status:        string(record.Status),
		TotalAmount:   record.Total.Amount,
		CostAmount:    cost.Amount,
		Currency:      record.Total.Currency.String(),
		CashierID:     record.CashierID,
		BranchID:      record.BranchID,
		CustomerName:  record.Customer.Name,
		CustomerPhone: stringPtr(record.Customer.Phone),
		PaymentMethod: record.PaymentMethod,
	})
	if err != nil {
		return fmt.Errorf("q.InsertExternalSale: %w", err)
	}

	for i, item := range sale.Items {
		if err := domain.CheckQuantity(fmt.Sprintf("items[%d].quantity", i), item.Quantity); err != nil {
			return err
		}
		err := q.InsertExternalSaleItem(ctx, db.InsertExternalSaleItemParams{
			ID:                uuid.New(),
			ExternalSaleID:    saleID,
			LineNo:            int32(i),
			Description:       item.Description,
			Quantity:          int32(item.Quantity),
			UnitSalePrice:     item.UnitSalePrice.Amount,
			UnitPurchasePrice: item.UnitPurchasePrice.Amount,
			TotalPrice:        item.TotalPrice().Amount,
			Note:              item.Note,
		})
		if err != nil {
			return fmt.Errorf("q.InsertExternalSaleItem[%d]: %w", i, err)
		}
	}

	return nil
}

// GetSale looks the id up among regular sales first, then external ones.
func (r *saleRepository) GetSale(ctx context.Context, saleID uuid.UUID) (domain.SaleTransaction, error) {
	row, err := r.q.GetSale(ctx, saleID)
	if err == nil {
		return r.loadRegularSale(ctx, row)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.SaleTransaction{}, fmt.Errorf("q.GetSale: %w", err)
	}

	extRow, err := r.q.GetExternalSale(ctx, saleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SaleTransaction{}, domain.ErrSaleNotFound
		}
		return domain.SaleTransaction{}, fmt.Errorf("q.GetExternalSale: %w", err)
	}

	return r.loadExternalSale(ctx, extRow)
}

func (r *saleRepository) loadRegularSale(ctx context.Context, row db.GetSaleRow) (domain.SaleTransaction, error) {
	sale, err := mapSaleHeaderToDomain(row.ID, row.Reference, row.SaleDate, row.Status, row.CashierID, row.BranchID,
		row.CustomerName, row.CustomerPhone, row.PaymentMethod)
	if err != nil {
		return domain.SaleTransaction{}, err
	}

	sale.Total, err = mapMoneyToDomain(row.TotalAmount, row.Currency)
	if err != nil {
		return domain.SaleTransaction{}, fmt.Errorf("mapMoneyToDomain: %w", err)
	}

	items, err := r.q.ListSaleItems(ctx, row.ID)
	if err != nil {
		return domain.SaleTransaction{}, fmt.Errorf("q.ListSaleItems: %w", err)
	}

	allocs, err := r.q.ListSaleAllocations(ctx, row.ID)
	if err != nil {
		return domain.SaleTransaction{}, fmt.Errorf("q.ListSaleAllocations: %w", err)
	}

	byItem := make(map[uuid.UUID]domain.AllocationPlan, len(items))
	for _, a := range allocs {
		byItem[a.SaleItemID] = append(byItem[a.SaleItemID], domain.WarehouseAllocation{
			WarehouseID:   a.WarehouseID,
			WarehouseName: a.WarehouseName,
			Deducted:      int(a.Deducted),
		})
	}

	lines := make([]domain.SaleLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.SaleLine{
			ProductID:     item.ProductID,
			Quantity:      int(item.Quantity),
			UnitSalePrice: domain.NewMoney(item.UnitSalePrice, sale.Total.Currency),
			TotalPrice:    domain.NewMoney(item.TotalPrice, sale.Total.Currency),
			Note:          item.Note,
			Allocations:   byItem[item.ID],
		})
	}
	sale.Variant = domain.RegularSale{Items: lines}

	return sale, nil
}

func (r *saleRepository) loadExternalSale(ctx context.Context, row db.GetExternalSaleRow) (domain.SaleTransaction, error) {
	sale, err := mapSaleHeaderToDomain(row.ID, row.Reference, row.SaleDate, row.Status, row.CashierID, row.BranchID,
		row.CustomerName, row.CustomerPhone, row.PaymentMethod)
	if err != nil {
		return domain.SaleTransaction{}, err
	}

	sale.Total, err = mapMoneyToDomain(row.TotalAmount, row.Currency)
	if err != nil {
		return domain.SaleTransaction{}, fmt.Errorf("mapMoneyToDomain: %w", err)
	}
	cost := domain.NewMoney(row.CostAmount, sale.Total.Currency)
	sale.Cost = &cost

	items, err := r.q.ListExternalSaleItems(ctx, row.ID)
	if err != nil {
		return domain.SaleTransaction{}, fmt.Errorf("q.ListExternalSaleItems: %w", err)
	}

	lines := make([]domain.AdHocLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.AdHocLine{
			Description:       item.Description,
			Quantity:          int(item.Quantity),
			UnitSalePrice:     domain.NewMoney(item.UnitSalePrice, sale.Total.Currency),
			UnitPurchasePrice: domain.NewMoney(item.UnitPurchasePrice, sale.Total.Currency),
			Note:              item.Note,
		})
	}
	sale.Variant = domain.ExternalSale{Items: lines}

	return sale, nil
}

func mapSaleHeaderToDomain(id uuid.UUID, reference string, date time.Time, status string, cashierID, branchID uuid.UUID,
	customerName string, customerPhone *string, paymentMethod string) (domain.SaleTransaction, error) {
	parsedStatus, err := domain.ParseSaleStatus(status)
	if err != nil {
		return domain.SaleTransaction{}, fmt.Errorf("domain.ParseSaleStatus: %w", err)
	}

	return domain.SaleTransaction{
		ID:        id,
		Reference: reference,
		Date:      date,
		Status:    parsedStatus,
		CashierID: cashierID,
		BranchID:  branchID,
		Customer: domain.Customer{
			Name:  customerName,
			Phone: derefString(customerPhone),
		},
		PaymentMethod: paymentMethod,
	}, nil
}

func (r *saleRepository) UpdateSaleStatus(ctx context.Context, saleID uuid.UUID, status domain.SaleStatus) error {
	rows, err := r.q.UpdateSaleStatus(ctx, db.UpdateSaleStatusParams{ID: saleID, Status: string(status)})
	if err != nil {
		return fmt.Errorf("q.UpdateSaleStatus: %w", err)
	}
	if rows > 0 {
		return nil
	}

	rows, err = r.q.UpdateExternalSaleStatus(ctx, db.UpdateExternalSaleStatusParams{ID: saleID, Status: string(status)})
	if err != nil {
		return fmt.Errorf("q.UpdateExternalSaleStatus: %w", err)
	}
	if rows == 0 {
		return domain.ErrSaleNotFound
	}

	return nil
}

// CancelSale locks the sale row, restores every recorded allocation with a relative
// increment and deletes the sale. All of it commits or none of it does.
func (r *saleRepository) CancelSale(ctx context.Context, saleID uuid.UUID, actingUserID *uuid.UUID) (domain.CancelAck, error) {
	var actor uuid.UUID
	if actingUserID != nil {
		actor = *actingUserID
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.CancelAck, error) {
		header, err := q.GetSaleStatusForUpdate(ctx, saleID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.CancelAck{}, domain.ErrSaleNotFound
			}
			return domain.CancelAck{}, fmt.Errorf("q.GetSaleStatusForUpdate: %w", err)
		}

		allocs, err := q.ListSaleAllocations(ctx, saleID)
		if err != nil {
			return domain.CancelAck{}, fmt.Errorf("q.ListSaleAllocations: %w", err)
		}

		for _, a := range allocs {
			_, err := applyAdjustment(ctx, q, domain.StockAdjustment{
				ProductID:      a.ProductID,
				WarehouseID:    a.WarehouseID,
				QuantityChange: int(a.Deducted),
				ActingUserID:   actor,
				Reason:         fmt.Sprintf("cancel sale %s", header.Reference),
			})
			if err != nil {
				return domain.CancelAck{}, fmt.Errorf("restore stock: %w", err)
			}
		}

		if _, err := q.DeleteSale(ctx, saleID); err != nil {
			return domain.CancelAck{}, fmt.Errorf("q.DeleteSale: %w", err)
		}

		return domain.CancelAck{
			Status:  "ok",
			Message: fmt.Sprintf("sale %s cancelled", header.Reference),
		}, nil
	})
}

func (r *saleRepository) CancelExternalSale(ctx context.Context, saleID uuid.UUID, _ *uuid.UUID) (domain.CancelAck, error) {
	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.CancelAck, error) {
		row, err := q.GetExternalSale(ctx, saleID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.CancelAck{}, domain.ErrSaleNotFound
			}
			return domain.CancelAck{}, fmt.Errorf("q.GetExternalSale: %w", err)
		}

		if _, err := q.DeleteExternalSale(ctx, saleID); err != nil {
			return domain.CancelAck{}, fmt.Errorf("q.DeleteExternalSale: %w", err)
		}

		return domain.CancelAck{
			Status:  "ok",
			Message: fmt.Sprintf("external sale %s cancelled", row.Reference),
		}, nil
	})
}

func (r *saleRepository) IssueReference(ctx context.Context, variant domain.SaleVariant, date time.Time) (string, error) {
	seq, err := r.q.NextSaleSequence(ctx)
	if err != nil {
		return "", fmt.Errorf("q.NextSaleSequence: %w", err)
	}

	return domain.FormatReference(variant, date, seq), nil
}
