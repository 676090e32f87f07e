// Package httpkit holds the response helpers and middleware shared by the POS handlers.
package httpkit

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/http/transport"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func Error(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps checkout-engine errors to HTTP responses. It returns false
// when err is nil.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	status, details := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError && details == nil {
		message = "internal error"
	}

	_ = c.Error(err)
	Error(c, status, message, details)
	return true
}

func classify(err error) (int, any) {
	var (
		validationErr   *domain.ValidationError
		mismatchErr     *domain.AllocationMismatchError
		insufficientErr *domain.InsufficientStockError
		adjustmentErr   *domain.StockAdjustmentFailure
		recordingErr    *domain.PostDeductionRecordingFailure
	)

	switch {
	case errors.As(err, &adjustmentErr):
		// another till sold the stock first: re-plan rather than retry
		if errors.Is(adjustmentErr.Err, domain.ErrNegativeStock) {
			return http.StatusConflict, compensationDetails(adjustmentErr.Compensation)
		}
		return http.StatusBadGateway, compensationDetails(adjustmentErr.Compensation)
	case errors.As(err, &recordingErr):
		return http.StatusInternalServerError, compensationDetails(recordingErr.Compensation)
	case errors.As(err, &validationErr), errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest, nil
	case errors.As(err, &mismatchErr):
		return http.StatusUnprocessableEntity, nil
	case errors.As(err, &insufficientErr):
		return http.StatusConflict, gin.H{
			"product_id": insufficientErr.ProductID.String(),
			"available":  insufficientErr.Available,
			"requested":  insufficientErr.Requested,
		}
	case errors.Is(err, domain.ErrSaleNotFound), errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, nil
	case errors.Is(err, domain.ErrAlreadyCancelled), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, nil
	default:
		return http.StatusInternalServerError, nil
	}
}

func compensationDetails(r domain.CompensationResult) transport.Compensation {
	out := transport.Compensation{
		Reversed:    len(r.Reversed),
		NotReversed: len(r.Failed),
		Unconfirmed: len(r.Unconfirmed),
		Complete:    r.Complete(),
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}
