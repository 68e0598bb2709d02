package primary

import (
	"context"

	"github.com/pipemene/bluehome-os/internal/core/order"
)

// TechnicianService defines the primary port for the technician board.
// The acting technician is read from the context.
type TechnicianService interface {
	// Board lists the orders available to claim and those assigned to the technician.
	Board(ctx context.Context, query string) (*Board, error)

	// Claim assigns an order to the technician and starts it.
	Claim(ctx context.Context, orderID string) (*order.WorkOrder, error)
}

// Board is the technician's view of the order list.
type Board struct {
	Technician string
	Available  []order.WorkOrder
	Mine       []order.WorkOrder
}
