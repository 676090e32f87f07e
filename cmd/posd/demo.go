package main

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/memstore"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Fixed ids so the demo catalog can be scripted against.
var (
	demoFrontStore = uuid.MustParse("6f1c2a8e-0b7d-4c1e-9a51-3d2f0e1a0001")
	demoBackRoom   = uuid.MustParse("6f1c2a8e-0b7d-4c1e-9a51-3d2f0e1a0002")
	demoDepot      = uuid.MustParse("6f1c2a8e-0b7d-4c1e-9a51-3d2f0e1a0003")
)

type demoProduct struct {
	id        string
	name      string
	code      string
	price     string
	threshold int
	stock     [3]int
}

var demoCatalog = []demoProduct{
	{id: "0b6e1f4c-58a2-4d3b-8f0e-6a1c9d2e0101", name: "Espresso beans 1kg", code: "COF-001", price: "18.90", threshold: 5, stock: [3]int{4, 12, 40}},
	{id: "0b6e1f4c-58a2-4d3b-8f0e-6a1c9d2e0102", name: "Ceramic mug", code: "MUG-010", price: "7.50", threshold: 10, stock: [3]int{20, 0, 100}},
	{id: "0b6e1f4c-58a2-4d3b-8f0e-6a1c9d2e0103", name: "Milk frother", code: "APP-220", price: "34.00", threshold: 2, stock: [3]int{1, 2, 0}},
}

func seedDemo(store *memstore.Store, cur currency.Unit) {
	warehouses := []struct {
		id   uuid.UUID
		name string
	}{
		{demoFrontStore, "Front store"},
		{demoBackRoom, "Back room"},
		{demoDepot, "Depot"},
	}

	for _, p := range demoCatalog {
		product := domain.Product{
			ID:                uuid.MustParse(p.id),
			Name:              p.name,
			Code:              p.code,
			SalePrice:         domain.NewMoney(decimal.RequireFromString(p.price), cur),
			LowStockThreshold: p.threshold,
		}
		store.AddProduct(product)

		for i, w := range warehouses {
			store.AddPool(domain.WarehousePool{
				ProductID:     product.ID,
				WarehouseID:   w.id,
				WarehouseName: w.name,
				Quantity:      p.stock[i],
			})
		}
	}
}
