// Package handler exposes the checkout engine over HTTP. Cart state is not kept
// server-side: every checkout request carries the whole cart.
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/allocation"
	"github.com/nikolayk812/pos-checkout/internal/cancellation"
	"github.com/nikolayk812/pos-checkout/internal/cart"
	"github.com/nikolayk812/pos-checkout/internal/checkout"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/http/httpkit"
	"github.com/nikolayk812/pos-checkout/internal/http/transport"
	"github.com/nikolayk812/pos-checkout/internal/logger"
	"github.com/nikolayk812/pos-checkout/internal/port"
	"github.com/nikolayk812/pos-checkout/internal/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid sale id"
)

type Handler struct {
	planner      *allocation.Planner
	catalog      port.StockCatalog
	checkout     *checkout.Coordinator
	cancellation *cancellation.Coordinator
	val          *validator.Validator
	currency     currency.Unit
}

func New(planner *allocation.Planner, catalog port.StockCatalog, co *checkout.Coordinator,
	cc *cancellation.Coordinator, val *validator.Validator, defaultCurrency currency.Unit) *Handler {
	return &Handler{
		planner:      planner,
		catalog:      catalog,
		checkout:     co,
		cancellation: cc,
		val:          val,
		currency:     defaultCurrency,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/allocations", h.ProposeAllocation)
	rg.POST("/checkout", h.Checkout)
	rg.POST("/external-sales", h.CheckoutExternal)
	rg.POST("/sales/:id/cancel", h.CancelSale)
	rg.PATCH("/sales/:id/status", h.ChangeSaleStatus)
}

// ProposeAllocation plans how a quantity of one product would be drawn from its warehouses.
// POST /api/v1/allocations
func (h *Handler) ProposeAllocation(c *gin.Context) {
	var req transport.AllocationRequest
	if !h.bind(c, &req) {
		return
	}

	proposal, err := h.planner.Plan(c.Request.Context(), uuid.MustParse(req.ProductID), req.Quantity)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.AllocationResponse{
		ProductID:   proposal.Product.ID.String(),
		ProductName: proposal.Product.Name,
		UnitPrice:   proposal.Product.SalePrice.Amount.StringFixed(2),
		Currency:    proposal.Product.SalePrice.Currency.String(),
		Available:   proposal.Available,
		LowStock:    proposal.LowStock,
		Allocations: toAllocations(proposal.Plan),
	})
}

// Checkout commits a cart as a regular sale.
// POST /api/v1/checkout
func (h *Handler) Checkout(c *gin.Context) {
	var req transport.CheckoutRequest
	if !h.bind(c, &req) {
		return
	}

	cur, err := h.resolveCurrency(req.Currency)
	if httpkit.HandleError(c, err) {
		return
	}

	cashierID := uuid.MustParse(req.CashierID)
	ctx := context.WithValue(c.Request.Context(), logger.CashierIDKey, cashierID)

	ct, err := h.buildCart(ctx, domain.Cart{
		CashierID: cashierID,
		BranchID:  uuid.MustParse(req.BranchID),
		Currency:  cur,
	}, req.Lines)
	if httpkit.HandleError(c, err) {
		return
	}

	pay, err := toPayment(req.Payment, cur)
	if httpkit.HandleError(c, err) {
		return
	}

	receipt, _, err := h.checkout.Checkout(ctx, ct, pay)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toReceipt(receipt))
}

// CheckoutExternal records a sale of items that are not tracked in stock.
// POST /api/v1/external-sales
func (h *Handler) CheckoutExternal(c *gin.Context) {
	var req transport.ExternalSaleRequest
	if !h.bind(c, &req) {
		return
	}

	cur, err := h.resolveCurrency(req.Currency)
	if httpkit.HandleError(c, err) {
		return
	}

	cashierID := uuid.MustParse(req.CashierID)
	ctx := context.WithValue(c.Request.Context(), logger.CashierIDKey, cashierID)

	ec := domain.ExternalCart{
		CashierID: cashierID,
		BranchID:  uuid.MustParse(req.BranchID),
		Currency:  cur,
	}
	for i, line := range req.Lines {
		salePrice, err := parseMoney(fmt.Sprintf("lines[%d].unit_sale_price", i), line.UnitSalePrice, cur)
		if httpkit.HandleError(c, err) {
			return
		}
		purchasePrice, err := parseMoney(fmt.Sprintf("lines[%d].unit_purchase_price", i), line.UnitPurchasePrice, cur)
		if httpkit.HandleError(c, err) {
			return
		}

		ec.Lines = append(ec.Lines, domain.AdHocLine{
			Description:       line.Description,
			Quantity:          line.Quantity,
			UnitSalePrice:     salePrice,
			UnitPurchasePrice: purchasePrice,
			Note:              line.Note,
		})
	}

	pay, err := toPayment(req.Payment, cur)
	if httpkit.HandleError(c, err) {
		return
	}

	receipt, _, err := h.checkout.CheckoutExternal(ctx, ec, pay)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toReceipt(receipt))
}

// CancelSale reverses a committed sale. The body is optional.
// POST /api/v1/sales/:id/cancel
func (h *Handler) CancelSale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	ack, err := h.cancellation.Cancel(c.Request.Context(), saleID, actingUser(req.ActingUserID))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.CancelResponse{Status: ack.Status, Message: ack.Message})
}

// ChangeSaleStatus moves a sale between held and completed, or cancels it.
// PATCH /api/v1/sales/:id/status
func (h *Handler) ChangeSaleStatus(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.StatusRequest
	if !h.bind(c, &req) {
		return
	}

	next := domain.SaleStatus(req.Status)
	err = h.cancellation.ChangeStatus(c.Request.Context(), saleID, next, actingUser(req.ActingUserID))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"status": next})
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func (h *Handler) resolveCurrency(code string) (currency.Unit, error) {
	if code == "" {
		return h.currency, nil
	}

	cur, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return currency.Unit{}, domain.NewValidationError("currency", fmt.Sprintf("unknown currency %q", code))
	}
	return cur, nil
}

// buildCart turns request lines into cart lines: lines without allocations are
// planned against live stock, manual allocations are revalidated.
func (h *Handler) buildCart(ctx context.Context, ct domain.Cart, lines []transport.CheckoutLine) (domain.Cart, error) {
	seen := make(map[uuid.UUID]bool, len(lines))

	for i, line := range lines {
		productID := uuid.MustParse(line.ProductID)
		if seen[productID] {
			return ct, domain.NewValidationError(fmt.Sprintf("lines[%d].product_id", i), "duplicate product")
		}
		seen[productID] = true

		in, err := h.lineInput(ctx, i, productID, line, ct.Currency)
		if err != nil {
			return ct, err
		}

		ct, err = cart.Upsert(ct, in)
		if err != nil {
			return ct, err
		}
	}

	return ct, nil
}

func (h *Handler) lineInput(ctx context.Context, i int, productID uuid.UUID, line transport.CheckoutLine, cur currency.Unit) (cart.LineInput, error) {
	in := cart.LineInput{ProductID: productID, Note: line.Note}

	var product domain.Product
	if len(line.Allocations) == 0 {
		if line.Quantity == 0 {
			return in, domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "required when no allocations are given")
		}

		proposal, err := h.planner.Plan(ctx, productID, line.Quantity)
		if err != nil {
			return in, err
		}
		product = proposal.Product
		in.Plan = proposal.Plan
	} else {
		in.Plan = fromAllocations(line.Allocations)

		quantity := line.Quantity
		if quantity == 0 {
			quantity = in.Plan.Total()
		}
		if err := h.planner.Revalidate(ctx, productID, quantity, in.Plan); err != nil {
			return in, err
		}

		if line.UnitPrice == "" {
			p, err := h.catalog.GetProduct(ctx, productID)
			if err != nil {
				return in, fmt.Errorf("catalog.GetProduct: %w", err)
			}
			product = p
		}
	}

	if line.UnitPrice == "" {
		in.UnitPrice = product.SalePrice
		return in, nil
	}

	price, err := parseMoney(fmt.Sprintf("lines[%d].unit_price", i), line.UnitPrice, cur)
	if err != nil {
		return in, err
	}
	in.UnitPrice = price

	return in, nil
}

func toPayment(p transport.Payment, cur currency.Unit) (domain.Payment, error) {
	tendered, err := parseMoney("payment.amount_tendered", p.AmountTendered, cur)
	if err != nil {
		return domain.Payment{}, err
	}

	pay := domain.Payment{
		Tendered:        tendered,
		Method:          p.Method,
		RequestedStatus: domain.SaleStatus(p.Status),
		Customer: domain.Customer{
			Name:  p.CustomerName,
			Phone: p.CustomerPhone,
		},
	}
	if p.Date != nil {
		pay.Date = *p.Date
	}

	return pay, nil
}

func parseMoney(field, amount string, cur currency.Unit) (domain.Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, domain.NewValidationError(field, "not a decimal amount")
	}
	return domain.NewMoney(d, cur), nil
}

func actingUser(id string) *uuid.UUID {
	if id == "" {
		return nil
	}
	parsed := uuid.MustParse(id)
	return &parsed
}

func fromAllocations(in []transport.Allocation) domain.AllocationPlan {
	plan := make(domain.AllocationPlan, 0, len(in))
	for _, a := range in {
		plan = append(plan, domain.WarehouseAllocation{
			WarehouseID:   uuid.MustParse(a.WarehouseID),
			WarehouseName: a.WarehouseName,
			Deducted:      a.Deducted,
		})
	}
	return plan
}

func toAllocations(plan domain.AllocationPlan) []transport.Allocation {
	out := make([]transport.Allocation, 0, len(plan))
	for _, a := range plan {
		out = append(out, transport.Allocation{
			WarehouseID:   a.WarehouseID.String(),
			WarehouseName: a.WarehouseName,
			Deducted:      a.Deducted,
		})
	}
	return out
}

func toReceipt(r checkout.Receipt) transport.ReceiptResponse {
	out := transport.ReceiptResponse{
		SaleID:    r.SaleID.String(),
		Reference: r.Reference,
		Status:    string(r.Status),
		Total:     r.Total.Amount.StringFixed(2),
		Currency:  r.Total.Currency.String(),
		Message:   r.Message,
	}
	if r.Cost != nil {
		cost := r.Cost.Amount.StringFixed(2)
		out.Cost = &cost
	}
	if r.Change != nil {
		change := r.Change.Amount.StringFixed(2)
		out.Change = &change
	}
	return out
}
