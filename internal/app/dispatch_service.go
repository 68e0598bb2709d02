package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// DispatchServiceImpl implements the DispatchService interface.
type DispatchServiceImpl struct {
	orders  secondary.OrderGateway
	sheets  secondary.SpreadsheetWriter
	flights inflight
	logger  zerolog.Logger
}

// NewDispatchService creates a new DispatchService with injected dependencies.
func NewDispatchService(
	orders secondary.OrderGateway,
	sheets secondary.SpreadsheetWriter,
	logger zerolog.Logger,
) *DispatchServiceImpl {
	return &DispatchServiceImpl{
		orders: orders,
		sheets: sheets,
		logger: logger,
	}
}

// ListOrders re-lists orders and applies the search filter.
func (s *DispatchServiceImpl) ListOrders(ctx context.Context, query string) ([]order.WorkOrder, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return order.Filter(orders, query), nil
}

// GetOrder finds one order by id or radicado.
func (s *DispatchServiceImpl) GetOrder(ctx context.Context, ref string) (*order.WorkOrder, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	o, err := order.Find(orders, ref)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// SetStatus changes an order's status.
func (s *DispatchServiceImpl) SetStatus(ctx context.Context, req primary.SetStatusRequest) (*primary.SetStatusResponse, error) {
	return guarded(&s.flights, "status", req.OrderID, func() (*primary.SetStatusResponse, error) {
		current, err := s.GetOrder(ctx, req.OrderID)
		if err != nil {
			return nil, err
		}

		resp := &primary.SetStatusResponse{Order: *current, Previous: current.Status}
		if current.Status == req.Status {
			return resp, nil
		}

		result := order.CanSetStatus(order.SetStatusContext{
			OrderID:    string(current.ID),
			Current:    current.Status,
			Requested:  req.Status,
			AssignedTo: current.AssignedTo,
			Force:      req.Force,
		})
		if err := result.Error(); err != nil {
			return nil, err
		}
		if req.Force && !order.CanTransition(current.Status, req.Status) {
			resp.Forced = true
			s.logger.Warn().
				Str("order", string(current.ID)).
				Str("from", current.Status.Key()).
				Str("to", req.Status.Key()).
				Msg("forcing status change outside the lifecycle")
		}

		if err := s.orders.Patch(ctx, string(current.ID), order.Patch{Status: order.Ptr(req.Status)}); err != nil {
			return nil, fmt.Errorf("failed to update status of order %s: %w", current.ID, err)
		}
		resp.Order.Status = req.Status
		resp.Changed = true
		return resp, nil
	})
}

// Export writes the filtered board as a spreadsheet.
func (s *DispatchServiceImpl) Export(ctx context.Context, w io.Writer, query string) (int, error) {
	orders, err := s.ListOrders(ctx, query)
	if err != nil {
		return 0, err
	}
	if err := s.sheets.WriteBoard(w, orders); err != nil {
		return 0, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return len(orders), nil
}

var _ primary.DispatchService = (*DispatchServiceImpl)(nil)
