package memstore_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func gbp(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), currency.GBP)
}

func TestAdjustStock(t *testing.T) {
	productID, warehouseID := uuid.New(), uuid.New()

	tests := []struct {
		name        string
		warehouseID uuid.UUID
		change      int
		wantErr     error
		wantQty     int
	}{
		{name: "deduct: ok", warehouseID: warehouseID, change: -3, wantQty: 2},
		{name: "restore: ok", warehouseID: warehouseID, change: 4, wantQty: 9},
		{name: "oversell: refused", warehouseID: warehouseID, change: -6, wantErr: domain.ErrNegativeStock, wantQty: 5},
		{name: "unknown warehouse: not found", warehouseID: uuid.New(), change: -1, wantErr: domain.ErrPoolNotFound, wantQty: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()
			store.AddPool(domain.WarehousePool{ProductID: productID, WarehouseID: warehouseID, Quantity: 5})

			err := store.AdjustStock(t.Context(), domain.StockAdjustment{
				ProductID:      productID,
				WarehouseID:    tt.warehouseID,
				QuantityChange: tt.change,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, store.Movements())
			} else {
				require.NoError(t, err)
				require.Len(t, store.Movements(), 1)
				assert.Equal(t, 5, store.Movements()[0].Before)
				assert.Equal(t, tt.wantQty, store.Movements()[0].After)
			}
			assert.Equal(t, tt.wantQty, store.Quantity(productID, warehouseID))
		})
	}
}

func TestAdjustStock_rejectsInvalidChange(t *testing.T) {
	store := memstore.New()
	productID, warehouseID := uuid.New(), uuid.New()
	store.AddPool(domain.WarehousePool{ProductID: productID, WarehouseID: warehouseID, Quantity: 5})

	for _, change := range []int{0, domain.MaxQuantity + 1} {
		err := store.AdjustStock(t.Context(), domain.StockAdjustment{
			ProductID:      productID,
			WarehouseID:    warehouseID,
			QuantityChange: change,
		})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, "change %d", change)
		assert.Equal(t, "quantity_change", verr.Field)
	}

	assert.Empty(t, store.Movements())
	assert.Equal(t, 5, store.Quantity(productID, warehouseID))
}

func TestAdjustStock_concurrentDeductionsNeverOversell(t *testing.T) {
	store := memstore.New()
	productID, warehouseID := uuid.New(), uuid.New()
	store.AddPool(domain.WarehousePool{ProductID: productID, WarehouseID: warehouseID, Quantity: 7})

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.AdjustStock(t.Context(), domain.StockAdjustment{
				ProductID:      productID,
				WarehouseID:    warehouseID,
				QuantityChange: -1,
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 7, ok)
	assert.Equal(t, 0, store.Quantity(productID, warehouseID))
}

func TestRecordSale_sharedReferenceSequence(t *testing.T) {
	store := memstore.New()
	date := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	regular, err := store.RecordSale(t.Context(), domain.SaleRecord{
		Date:    date,
		Total:   gbp("1.00"),
		Variant: domain.RegularSale{},
	})
	require.NoError(t, err)

	external, err := store.RecordSale(t.Context(), domain.SaleRecord{
		Date:    date,
		Total:   gbp("1.00"),
		Variant: domain.ExternalSale{},
	})
	require.NoError(t, err)

	assert.Equal(t, "TRX-20260102-000001", regular.Reference)
	assert.Equal(t, "EXT-20260102-000002", external.Reference)

	_, err = store.RecordSale(t.Context(), domain.SaleRecord{Total: gbp("1.00")})
	require.EqualError(t, err, "sale variant is empty")
}

func TestGetSale_returnsCopy(t *testing.T) {
	store := memstore.New()
	warehouseID := uuid.New()

	recorded, err := store.RecordSale(t.Context(), domain.SaleRecord{
		Total:  gbp("2.00"),
		Status: domain.SaleStatusCompleted,
		Variant: domain.RegularSale{Items: []domain.SaleLine{{
			ProductID:   uuid.New(),
			Quantity:    1,
			Allocations: domain.AllocationPlan{{WarehouseID: warehouseID, Deducted: 1}},
		}}},
	})
	require.NoError(t, err)

	first, err := store.GetSale(t.Context(), recorded.ID)
	require.NoError(t, err)
	first.Variant.(domain.RegularSale).Items[0].Allocations[0].Deducted = 99

	second, err := store.GetSale(t.Context(), recorded.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Variant.(domain.RegularSale).Items[0].Allocations[0].Deducted)
}

func TestCancelSale_allOrNothing(t *testing.T) {
	store := memstore.New()
	productID, known, missing := uuid.New(), uuid.New(), uuid.New()
	store.AddPool(domain.WarehousePool{ProductID: productID, WarehouseID: known, Quantity: 1})

	recorded, err := store.RecordSale(t.Context(), domain.SaleRecord{
		Total: gbp("2.00"),
		Variant: domain.RegularSale{Items: []domain.SaleLine{{
			ProductID: productID,
			Quantity:  3,
			Allocations: domain.AllocationPlan{
				{WarehouseID: known, Deducted: 2},
				{WarehouseID: missing, Deducted: 1},
			},
		}}},
	})
	require.NoError(t, err)

	_, err = store.CancelSale(t.Context(), recorded.ID, nil)
	require.ErrorIs(t, err, domain.ErrPoolNotFound)

	assert.Equal(t, 1, store.Quantity(productID, known))
	_, err = store.GetSale(t.Context(), recorded.ID)
	require.NoError(t, err)
}

func TestCancel_variantMismatch(t *testing.T) {
	store := memstore.New()

	external, err := store.RecordSale(t.Context(), domain.SaleRecord{Total: gbp("1.00"), Variant: domain.ExternalSale{}})
	require.NoError(t, err)
	regular, err := store.RecordSale(t.Context(), domain.SaleRecord{Total: gbp("1.00"), Variant: domain.RegularSale{}})
	require.NoError(t, err)

	_, err = store.CancelSale(t.Context(), external.ID, nil)
	require.ErrorContains(t, err, "is not a regular sale")

	_, err = store.CancelExternalSale(t.Context(), regular.ID, nil)
	require.ErrorContains(t, err, "is not an external sale")

	ack, err := store.CancelExternalSale(t.Context(), external.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", ack.Status)
}
