package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pipemene/bluehome-os/internal/adapters/filesystem"
	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
)

// OrderAdapter renders the administrator board.
type OrderAdapter struct {
	service primary.DispatchService
	out     io.Writer
}

// NewOrderAdapter creates a new OrderAdapter with the given service.
func NewOrderAdapter(service primary.DispatchService, out io.Writer) *OrderAdapter {
	return &OrderAdapter{
		service: service,
		out:     out,
	}
}

// List prints the filtered board.
func (a *OrderAdapter) List(ctx context.Context, query string) ([]order.WorkOrder, error) {
	orders, err := a.service.ListOrders(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	if len(orders) == 0 {
		if query != "" {
			fmt.Fprintf(a.out, "No orders match %q.\n", query)
		} else {
			fmt.Fprintln(a.out, "No orders yet.")
		}
		return orders, nil
	}

	orderTable(a.out, orders)
	fmt.Fprintf(a.out, "\n%s", plural(len(orders), "order", "orders"))
	counts := order.CountByStatus(orders)
	var parts []string
	for _, s := range order.Statuses {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", s.Key(), counts[s]))
		}
	}
	fmt.Fprintf(a.out, " (%s)\n", strings.Join(parts, ", "))
	return orders, nil
}

// Show prints one order in full.
func (a *OrderAdapter) Show(ctx context.Context, ref string) (*order.WorkOrder, error) {
	o, err := a.service.GetOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	PrintOrder(a.out, o)
	return o, nil
}

// PrintOrder writes the detail view of an order.
func PrintOrder(out io.Writer, o *order.WorkOrder) {
	fmt.Fprintf(out, "\nOrder %s (%s)\n", o.Radicado, o.ID)
	fmt.Fprintf(out, "Status:    %s  %s\n", StatusBadge(o.Status), o.Status)
	fmt.Fprintf(out, "Assigned:  %s\n", orNone(o.AssignedTo))
	if !o.CreatedAt.IsZero() {
		fmt.Fprintf(out, "Created:   %s\n", o.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Tenant:    %s (%s)\n", o.Tenant.Name, o.Tenant.Code)
	fmt.Fprintf(out, "Phone:     %s\n", o.Tenant.Phone)
	if o.Tenant.Email != "" {
		fmt.Fprintf(out, "Email:     %s\n", o.Tenant.Email)
	}
	fmt.Fprintf(out, "Type:      %s\n", o.Tenant.Type)
	fmt.Fprintln(out, "Description:")
	fmt.Fprintln(out, indent(o.Tenant.Description, "  "))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Attachments: %s", plural(len(o.Attachments.Images), "photo", "photos"))
	if o.Attachments.Video != nil && !o.Attachments.Video.IsZero() {
		fmt.Fprint(out, ", 1 video")
	}
	fmt.Fprintln(out)
	for _, img := range o.Attachments.Images {
		fmt.Fprintf(out, "  - %s\n", describeRef(img.URL(), img.IsInline()))
	}

	if o.Work != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Work record:")
		fmt.Fprintf(out, "  Before: %d  During: %d  After: %d\n", len(o.Work.Before), len(o.Work.During), len(o.Work.After))
		if o.Work.Materials != "" {
			fmt.Fprintf(out, "  Materials: %s\n", o.Work.Materials)
		}
		if o.Work.Notes != "" {
			fmt.Fprintf(out, "  Notes: %s\n", o.Work.Notes)
		}
	}
	if o.Signature != "" {
		fmt.Fprintln(out, "Signature: captured")
	}
	if o.PDFURL != "" {
		fmt.Fprintf(out, "Report:    %s\n", o.PDFURL)
	}
	fmt.Fprintln(out)
}

func describeRef(url string, inline bool) string {
	if inline {
		return "(inline)"
	}
	return url
}

// SetStatus changes an order's status and reports the change.
func (a *OrderAdapter) SetStatus(ctx context.Context, req primary.SetStatusRequest) (*primary.SetStatusResponse, error) {
	resp, err := a.service.SetStatus(ctx, req)
	if err != nil {
		return nil, err
	}

	if !resp.Changed {
		fmt.Fprintf(a.out, "Order %s is already %s\n", resp.Order.Radicado, StatusBadge(resp.Order.Status))
		return resp, nil
	}
	fmt.Fprintf(a.out, "✓ Order %s status updated\n", resp.Order.Radicado)
	fmt.Fprintf(a.out, "  %s → %s\n", StatusBadge(resp.Previous), StatusBadge(resp.Order.Status))
	if resp.Forced {
		fmt.Fprintln(a.out, color.New(color.FgYellow).Sprint("  (forced: transition rules bypassed)"))
	}
	return resp, nil
}

// Export writes the filtered board to a spreadsheet at path. Nothing is
// written when the listing fails.
func (a *OrderAdapter) Export(ctx context.Context, path, query string) (int, error) {
	var buf bytes.Buffer
	n, err := a.service.Export(ctx, &buf, query)
	if err != nil {
		return 0, fmt.Errorf("failed to export orders: %w", err)
	}
	if err := filesystem.WriteFile(path, buf.Bytes()); err != nil {
		return 0, err
	}
	fmt.Fprintf(a.out, "✓ Exported %s to %s\n", plural(n, "order", "orders"), path)
	return n, nil
}
