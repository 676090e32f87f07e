// Package cancellation reverses committed sales and applies the editable
// held/completed transitions of the sale lifecycle.
package cancellation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-checkout/internal/domain"
	"github.com/nikolayk812/pos-checkout/internal/logger"
	"github.com/nikolayk812/pos-checkout/internal/port"
)

type Coordinator struct {
	reader    port.SaleReader
	statuses  port.SaleStatusUpdater
	canceller port.SaleCanceller
	log       *logger.Logger
}

func New(reader port.SaleReader, statuses port.SaleStatusUpdater, canceller port.SaleCanceller, log *logger.Logger) *Coordinator {
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{
		reader:    reader,
		statuses:  statuses,
		canceller: canceller,
		log:       log,
	}
}

// Cancel restores stock (regular sales) and removes the sale in one backend call.
func (c *Coordinator) Cancel(ctx context.Context, saleID uuid.UUID, actingUserID *uuid.UUID) (domain.CancelAck, error) {
	sale, err := c.load(ctx, saleID)
	if err != nil {
		return domain.CancelAck{}, err
	}
	if sale.Status == domain.SaleStatusCancelled {
		return domain.CancelAck{}, &domain.CancellationError{SaleID: saleID, Err: domain.ErrAlreadyCancelled}
	}

	var ack domain.CancelAck
	switch sale.Variant.(type) {
	case domain.RegularSale:
		ack, err = c.canceller.CancelSale(ctx, saleID, actingUserID)
		if err != nil {
			err = fmt.Errorf("canceller.CancelSale: %w", err)
		}
	case domain.ExternalSale:
		ack, err = c.canceller.CancelExternalSale(ctx, saleID, actingUserID)
		if err != nil {
			err = fmt.Errorf("canceller.CancelExternalSale: %w", err)
		}
	default:
		err = fmt.Errorf("unsupported sale variant %T", sale.Variant)
	}

	log := c.log.WithContext(ctx)
	if err != nil {
		log.Error("sale cancellation failed",
			slog.String("sale_id", saleID.String()),
			slog.String("reference", sale.Reference),
			slog.String("error", err.Error()),
		)
		return domain.CancelAck{}, &domain.CancellationError{SaleID: saleID, Err: err}
	}

	log.Info("sale cancelled",
		slog.String("sale_id", saleID.String()),
		slog.String("reference", sale.Reference),
		slog.String("previous_status", string(sale.Status)),
	)

	return ack, nil
}

// ChangeStatus moves a sale between held and completed. Moving to cancelled is a
// full reversal and goes through Cancel.
func (c *Coordinator) ChangeStatus(ctx context.Context, saleID uuid.UUID, next domain.SaleStatus, actingUserID *uuid.UUID) error {
	if next == domain.SaleStatusCancelled {
		_, err := c.Cancel(ctx, saleID, actingUserID)
		return err
	}

	sale, err := c.load(ctx, saleID)
	if err != nil {
		return err
	}
	if sale.Status == next {
		return nil
	}
	if !sale.Status.CanTransitionTo(next) {
		return fmt.Errorf("%s -> %s: %w", sale.Status, next, domain.ErrInvalidTransition)
	}

	if err := c.statuses.UpdateSaleStatus(ctx, saleID, next); err != nil {
		return fmt.Errorf("statuses.UpdateSaleStatus: %w", err)
	}

	c.log.WithContext(ctx).Info("sale status changed",
		slog.String("sale_id", saleID.String()),
		slog.String("from", string(sale.Status)),
		slog.String("to", string(next)),
	)

	return nil
}

func (c *Coordinator) load(ctx context.Context, saleID uuid.UUID) (domain.SaleTransaction, error) {
	sale, err := c.reader.GetSale(ctx, saleID)
	if err != nil {
		if errors.Is(err, domain.ErrSaleNotFound) {
			return domain.SaleTransaction{}, &domain.CancellationError{SaleID: saleID, Err: domain.ErrSaleNotFound}
		}
		return domain.SaleTransaction{}, fmt.Errorf("reader.GetSale: %w", err)
	}
	return sale, nil
}
