package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/pos-checkout/internal/config"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/migrations"
	"github.com/nikolayk812/pos-checkout/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

// openMigratedPool starts a container, connects and applies the embedded schema.
func openMigratedPool(ctx context.Context) (*postgres.PostgresContainer, *pgxpool.Pool, error) {
	container, connStr, err := startPostgres(ctx)
	if err != nil {
		return nil, nil, err
	}

	pool, err := repository.NewPool(ctx, &config.Config{DatabaseURL: connStr})
	if err != nil {
		return container, nil, fmt.Errorf("repository.NewPool: %w", err)
	}

	if err := migrations.Up(ctx, pool); err != nil {
		pool.Close()
		return container, nil, fmt.Errorf("migrations.Up: %w", err)
	}

	return container, pool, nil
}

func truncateAll(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(t.Context(), `TRUNCATE TABLE
		sale_item_allocations, sale_items, sales,
		external_sale_items, external_sales,
		stock_movements, warehouse_stock, products, warehouses CASCADE`)
	require.NoError(t, err)
}

type seededPool struct {
	warehouseID   uuid.UUID
	warehouseName string
	quantity      int
}

// seedProduct inserts a product with one warehouse per quantity; warehouse priority
// follows argument order.
func seedProduct(t *testing.T, pool *pgxpool.Pool, price domain.Money, quantities ...int) (domain.Product, []seededPool) {
	t.Helper()
	ctx := t.Context()

	product := domain.Product{
		ID:                uuid.New(),
		Name:              gofakeit.ProductName(),
		Code:              gofakeit.UUID(),
		SalePrice:         price,
		LowStockThreshold: 2,
	}

	_, err := pool.Exec(ctx, `INSERT INTO products (id, name, code, sale_price_amount, sale_price_currency, low_stock_threshold)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		product.ID, product.Name, product.Code, price.Amount, price.Currency.String(), product.LowStockThreshold)
	require.NoError(t, err)

	pools := make([]seededPool, 0, len(quantities))
	for i, qty := range quantities {
		p := seededPool{
			warehouseID:   uuid.New(),
			warehouseName: fmt.Sprintf("%s %d", gofakeit.City(), i),
			quantity:      qty,
		}

		_, err := pool.Exec(ctx, `INSERT INTO warehouses (id, name, priority) VALUES ($1, $2, $3)`,
			p.warehouseID, p.warehouseName, i)
		require.NoError(t, err)

		_, err = pool.Exec(ctx, `INSERT INTO warehouse_stock (product_id, warehouse_id, quantity) VALUES ($1, $2, $3)`,
			product.ID, p.warehouseID, qty)
		require.NoError(t, err)

		pools = append(pools, p)
	}

	return product, pools
}

func quantityOf(t *testing.T, pool *pgxpool.Pool, productID, warehouseID uuid.UUID) int {
	t.Helper()

	var qty int
	err := pool.QueryRow(t.Context(),
		`SELECT quantity FROM warehouse_stock WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID).Scan(&qty)
	require.NoError(t, err)

	return qty
}

func usd(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), currency.USD)
}

var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})
