package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/pos-checkout/internal/db"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const pgCheckViolation = "23514"

type stockRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewStock(pool *pgxpool.Pool) port.StockRepository {
	return &stockRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewStockWithTx(tx pgx.Tx) port.StockRepository {
	return &stockRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *stockRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	row, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	product, err := mapProductToDomain(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
	}

	return product, nil
}

func (r *stockRepository) ListPools(ctx context.Context, productID uuid.UUID) ([]domain.WarehousePool, error) {
	rows, err := r.q.ListPools(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("q.ListPools: %w", err)
	}

	pools := make([]domain.WarehousePool, 0, len(rows))
	for _, row := range rows {
		pools = append(pools, domain.WarehousePool{
			ProductID:     row.ProductID,
			WarehouseID:   row.WarehouseID,
			WarehouseName: row.WarehouseName,
			Quantity:      int(row.Quantity),
		})
	}

	return pools, nil
}

// AdjustStock applies adj as a single relative UPDATE and records the movement in
// the same transaction. The quantity >= 0 check constraint refuses oversells.
func (r *stockRepository) AdjustStock(ctx context.Context, adj domain.StockAdjustment) error {
	if err := adj.Validate(); err != nil {
		return err
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (int32, error) {
		return applyAdjustment(ctx, q, adj)
	})
	return err
}

func applyAdjustment(ctx context.Context, q *db.Queries, adj domain.StockAdjustment) (int32, error) {
	after, err := q.AdjustStock(ctx, db.AdjustStockParams{
		QuantityChange: int32(adj.QuantityChange),
		ProductID:      adj.ProductID,
		WarehouseID:    adj.WarehouseID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("product %s, warehouse %s: %w", adj.ProductID, adj.WarehouseID, domain.ErrPoolNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
			return 0, fmt.Errorf("product %s, warehouse %s: %w", adj.ProductID, adj.WarehouseID, domain.ErrNegativeStock)
		}
		return 0, fmt.Errorf("q.AdjustStock: %w", err)
	}

	err = q.InsertStockMovement(ctx, db.InsertStockMovementParams{
		ProductID:      adj.ProductID,
		WarehouseID:    adj.WarehouseID,
		QuantityChange: int32(adj.QuantityChange),
		QuantityAfter:  after,
		ActingUserID:   uuidPtr(adj.ActingUserID),
		Reason:         adj.Reason,
	})
	if err != nil {
		return 0, fmt.Errorf("q.InsertStockMovement: %w", err)
	}

	return after, nil
}

func mapProductToDomain(row db.Product) (domain.Product, error) {
	price, err := mapMoneyToDomain(row.SalePriceAmount, row.SalePriceCurrency)
	if err != nil {
		return domain.Product{}, err
	}

	var categoryID uuid.UUID
	if row.CategoryID != nil {
		categoryID = *row.CategoryID
	}

	return domain.Product{
		ID:                row.ID,
		Name:              row.Name,
		Code:              row.Code,
		SalePrice:         price,
		LowStockThreshold: int(row.LowStockThreshold),
		CategoryID:        categoryID,
	}, nil
}

func mapMoneyToDomain(amount decimal.Decimal, cur string) (domain.Money, error) {
	parsedCurrency, err := currency.ParseISO(cur)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", cur, err)
	}

	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
