package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ctxutil"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// TechnicianServiceImpl implements the TechnicianService interface.
type TechnicianServiceImpl struct {
	orders  secondary.OrderGateway
	flights inflight
	logger  zerolog.Logger
}

// NewTechnicianService creates a new TechnicianService with injected dependencies.
func NewTechnicianService(orders secondary.OrderGateway, logger zerolog.Logger) *TechnicianServiceImpl {
	return &TechnicianServiceImpl{orders: orders, logger: logger}
}

// Board lists the orders available to claim and those assigned to the technician.
func (s *TechnicianServiceImpl) Board(ctx context.Context, query string) (*primary.Board, error) {
	me := ctxutil.ActorFromContext(ctx)
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	available, mine := order.Partition(order.Filter(orders, query), me)
	return &primary.Board{Technician: me, Available: available, Mine: mine}, nil
}

// Claim assigns an order to the technician and starts it.
func (s *TechnicianServiceImpl) Claim(ctx context.Context, orderID string) (*order.WorkOrder, error) {
	me := ctxutil.ActorFromContext(ctx)
	return guarded(&s.flights, "claim", orderID, func() (*order.WorkOrder, error) {
		orders, err := s.orders.List(ctx)
		if err != nil {
			return nil, err
		}
		o, err := order.Find(orders, orderID)
		if err != nil {
			return nil, err
		}

		result := order.CanClaim(order.ClaimContext{
			OrderID:    string(o.ID),
			Status:     o.Status,
			AssignedTo: o.AssignedTo,
			Technician: me,
		})
		if err := result.Error(); err != nil {
			return nil, err
		}

		patch := order.Patch{AssignedTo: order.Ptr(me), Status: order.Ptr(order.StatusInProgress)}
		if err := s.orders.Patch(ctx, string(o.ID), patch); err != nil {
			return nil, fmt.Errorf("failed to claim order %s: %w", o.ID, err)
		}
		s.logger.Info().Str("order", string(o.ID)).Str("technician", me).Msg("order claimed")

		o.AssignedTo = me
		o.Status = order.StatusInProgress
		return &o, nil
	})
}

var _ primary.TechnicianService = (*TechnicianServiceImpl)(nil)
