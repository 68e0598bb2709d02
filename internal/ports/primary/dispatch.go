package primary

import (
	"context"
	"io"

	"github.com/pipemene/bluehome-os/internal/core/order"
)

// DispatchService defines the primary port for the administrator board.
type DispatchService interface {
	// ListOrders re-lists orders and applies the search filter.
	ListOrders(ctx context.Context, query string) ([]order.WorkOrder, error)

	// GetOrder finds one order by id or radicado.
	GetOrder(ctx context.Context, ref string) (*order.WorkOrder, error)

	// SetStatus changes an order's status.
	SetStatus(ctx context.Context, req SetStatusRequest) (*SetStatusResponse, error)

	// Export writes the filtered board as a spreadsheet and returns the row count.
	Export(ctx context.Context, w io.Writer, query string) (int, error)
}

// SetStatusRequest contains parameters for an administrative status change.
type SetStatusRequest struct {
	OrderID string
	Status  order.Status
	Force   bool // Bypass the transition table
}

// SetStatusResponse reports the change.
type SetStatusResponse struct {
	Order    order.WorkOrder
	Previous order.Status
	Changed  bool
	Forced   bool
}
