// Package transport holds the JSON request and response shapes of the POS API.
// Amounts travel as decimal strings.
package transport

import "time"

type AllocationRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type Allocation struct {
	WarehouseID   string `json:"warehouse_id" validate:"required,uuid"`
	WarehouseName string `json:"warehouse_name,omitempty"`
	Deducted      int    `json:"deducted" validate:"gt=0"`
}

type AllocationResponse struct {
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	UnitPrice   string       `json:"unit_price"`
	Currency    string       `json:"currency"`
	Available   int          `json:"available"`
	LowStock    bool         `json:"low_stock"`
	Allocations []Allocation `json:"allocations"`
}

type Payment struct {
	AmountTendered string     `json:"amount_tendered" validate:"required,decimal_gte0"`
	Method         string     `json:"method" validate:"omitempty,max=32"`
	Status         string     `json:"status" validate:"omitempty,oneof=held completed cancelled"`
	CustomerName   string     `json:"customer_name" validate:"omitempty,max=200"`
	CustomerPhone  string     `json:"customer_phone" validate:"omitempty,max=32"`
	Date           *time.Time `json:"date"`
}

// CheckoutLine is one cart line. Without allocations the server plans one for
// Quantity; with allocations the plan is revalidated and Quantity may be omitted.
type CheckoutLine struct {
	ProductID   string       `json:"product_id" validate:"required,uuid"`
	Quantity    int          `json:"quantity" validate:"omitempty,gt=0"`
	UnitPrice   string       `json:"unit_price" validate:"omitempty,decimal_gte0"`
	Note        string       `json:"note" validate:"omitempty,max=500"`
	Allocations []Allocation `json:"allocations" validate:"omitempty,dive"`
}

type CheckoutRequest struct {
	CashierID string         `json:"cashier_id" validate:"required,uuid"`
	BranchID  string         `json:"branch_id" validate:"required,uuid"`
	Currency  string         `json:"currency" validate:"omitempty,len=3"`
	Lines     []CheckoutLine `json:"lines" validate:"required,min=1,dive"`
	Payment   Payment        `json:"payment"`
}

type ExternalLine struct {
	Description       string `json:"description" validate:"required,max=500"`
	Quantity          int    `json:"quantity" validate:"gt=0"`
	UnitSalePrice     string `json:"unit_sale_price" validate:"required,decimal_gte0"`
	UnitPurchasePrice string `json:"unit_purchase_price" validate:"required,decimal_gte0"`
	Note              string `json:"note" validate:"omitempty,max=500"`
}

type ExternalSaleRequest struct {
	CashierID string         `json:"cashier_id" validate:"required,uuid"`
	BranchID  string         `json:"branch_id" validate:"required,uuid"`
	Currency  string         `json:"currency" validate:"omitempty,len=3"`
	Lines     []ExternalLine `json:"lines" validate:"required,min=1,dive"`
	Payment   Payment        `json:"payment"`
}

type ReceiptResponse struct {
	SaleID    string  `json:"sale_id"`
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Total     string  `json:"total"`
	Cost      *string `json:"cost,omitempty"`
	Change    *string `json:"change,omitempty"`
	Currency  string  `json:"currency"`
	Message   string  `json:"message,omitempty"`
}

type CancelRequest struct {
	ActingUserID string `json:"acting_user_id" validate:"omitempty,uuid"`
}

type CancelResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type StatusRequest struct {
	Status       string `json:"status" validate:"required,oneof=held completed cancelled"`
	ActingUserID string `json:"acting_user_id" validate:"omitempty,uuid"`
}

type Compensation struct {
	Reversed    int    `json:"reversed"`
	NotReversed int    `json:"not_reversed"`
	Unconfirmed int    `json:"unconfirmed"`
	Complete    bool   `json:"complete"`
	Error       string `json:"error,omitempty"`
}
