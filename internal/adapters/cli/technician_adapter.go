package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
)

// TechnicianAdapter renders the technician board.
type TechnicianAdapter struct {
	service primary.TechnicianService
	out     io.Writer
}

// NewTechnicianAdapter creates a new TechnicianAdapter with the given service.
func NewTechnicianAdapter(service primary.TechnicianService, out io.Writer) *TechnicianAdapter {
	return &TechnicianAdapter{
		service: service,
		out:     out,
	}
}

// Board prints the available and assigned orders.
func (a *TechnicianAdapter) Board(ctx context.Context, query string) (*primary.Board, error) {
	board, err := a.service.Board(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	fmt.Fprintf(a.out, "Technician: %s\n\n", board.Technician)

	fmt.Fprintf(a.out, "Available (%d)\n", len(board.Available))
	if len(board.Available) == 0 {
		fmt.Fprintln(a.out, "  Nothing to claim.")
	} else {
		orderTable(a.out, board.Available)
	}

	fmt.Fprintf(a.out, "\nAssigned to me (%d)\n", len(board.Mine))
	if len(board.Mine) == 0 {
		fmt.Fprintln(a.out, "  No orders assigned.")
	} else {
		orderTable(a.out, board.Mine)
	}

	if len(board.Available) > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintf(a.out, "Claim one with: bluehome tech claim %s\n", board.Available[0].ID)
	}
	return board, nil
}

// Claim assigns an order to the acting technician.
func (a *TechnicianAdapter) Claim(ctx context.Context, orderID string) (*order.WorkOrder, error) {
	o, err := a.service.Claim(ctx, orderID)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Order %s claimed by %s\n", o.Radicado, o.AssignedTo)
	fmt.Fprintf(a.out, "  Status: %s\n", StatusBadge(o.Status))
	return o, nil
}
