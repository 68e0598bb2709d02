package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/pipemene/bluehome-os/internal/adapters/filesystem"
	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
)

// WorkAdapter renders the work record editor.
type WorkAdapter struct {
	service primary.WorkService
	out     io.Writer
}

// NewWorkAdapter creates a new WorkAdapter with the given service.
func NewWorkAdapter(service primary.WorkService, out io.Writer) *WorkAdapter {
	return &WorkAdapter{
		service: service,
		out:     out,
	}
}

// Show prints the draft of an order.
func (a *WorkAdapter) Show(ctx context.Context, orderID string) (*primary.WorkSession, error) {
	ws, err := a.service.Open(ctx, orderID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nOrder %s  %s\n", ws.Order.Radicado, StatusBadge(ws.Order.Status))
	fmt.Fprintf(a.out, "Tenant: %s (%s)\n\n", ws.Order.Tenant.Name, ws.Order.Tenant.Code)
	a.printDraft(&ws.Draft)
	return ws, nil
}

func (a *WorkAdapter) printDraft(d *primary.Draft) {
	fmt.Fprintf(a.out, "Before:     %s\n", plural(len(d.Work.Before), "photo", "photos"))
	fmt.Fprintf(a.out, "During:     %s\n", plural(len(d.Work.During), "photo", "photos"))
	fmt.Fprintf(a.out, "After:      %s\n", plural(len(d.Work.After), "photo", "photos"))
	fmt.Fprintf(a.out, "Materials:  %s\n", orNone(d.Work.Materials))
	fmt.Fprintf(a.out, "Notes:      %s\n", orNone(d.Work.Notes))
	fmt.Fprintf(a.out, "Email:      %s\n", orNone(d.Email))
	if d.Signature != "" {
		fmt.Fprintf(a.out, "Signature:  %s\n", color.New(color.FgGreen).Sprint("captured"))
	} else {
		fmt.Fprintf(a.out, "Signature:  %s\n", color.New(color.FgYellow).Sprint("missing"))
	}
	if !d.UpdatedAt.IsZero() {
		fmt.Fprintf(a.out, "Updated:    %s\n", d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
}

// AddPhotos uploads files into a phase.
func (a *WorkAdapter) AddPhotos(ctx context.Context, req primary.AddPhotosRequest) (*primary.AddPhotosResponse, error) {
	resp, err := a.service.AddPhotos(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Added %s to %s (%d total)\n", plural(resp.Added, "photo", "photos"), req.Phase, resp.Total)
	if resp.Inline > 0 {
		fmt.Fprintf(a.out, "  %d stored inline (upload unavailable)\n", resp.Inline)
	}
	if skipped := len(req.Files) - resp.Added; skipped > 0 {
		fmt.Fprintf(a.out, "  %d ignored (max %d per call)\n", skipped, primary.MaxPhotosPerAdd)
	}
	return resp, nil
}

// Update edits the draft's text buffers.
func (a *WorkAdapter) Update(ctx context.Context, req primary.UpdateDraftRequest) (*primary.Draft, error) {
	d, err := a.service.UpdateDraft(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Draft for %s updated\n\n", d.Radicado)
	a.printDraft(d)
	return d, nil
}

// Sign captures and persists a signature image.
func (a *WorkAdapter) Sign(ctx context.Context, orderID string, image []byte) error {
	if err := a.service.CaptureSignature(ctx, orderID, image); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Signature saved for order %s\n", orderID)
	return nil
}

// ClearSignature clears the draft signature.
func (a *WorkAdapter) ClearSignature(ctx context.Context, orderID string) error {
	if err := a.service.ClearSignature(ctx, orderID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Signature cleared for order %s (not saved until the next save or close)\n", orderID)
	return nil
}

// Save persists the work record.
func (a *WorkAdapter) Save(ctx context.Context, orderID string) (*order.WorkOrder, error) {
	o, err := a.service.SaveWork(ctx, orderID)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Work saved for order %s\n", o.Radicado)
	fmt.Fprintf(a.out, "  Status: %s\n", StatusBadge(o.Status))
	return o, nil
}

// Close runs the closing sequence and optionally writes the report to outPath.
func (a *WorkAdapter) Close(ctx context.Context, req primary.CloseRequest, outPath string) (*primary.CloseResult, error) {
	res, err := a.service.Close(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Order %s closed\n", res.Order.Radicado)
	if res.PDFURL != "" {
		fmt.Fprintf(a.out, "  Report: %s\n", res.PDFURL)
	} else {
		fmt.Fprintf(a.out, "  Report: %s (not published)\n", res.FileName)
	}

	switch {
	case res.EmailSent:
		fmt.Fprintf(a.out, "✓ Report emailed to %s\n", res.Recipient)
		if res.Preview != "" {
			fmt.Fprintf(a.out, "  Preview: %s\n", res.Preview)
		}
	case res.EmailErr != nil:
		fmt.Fprintf(a.out, "%s email to %s failed: %v\n", color.New(color.FgYellow).Sprint("!"), res.Recipient, res.EmailErr)
		fmt.Fprintln(a.out, "  The order stays closed.")
	default:
		fmt.Fprintln(a.out, "  No tenant email; report not sent.")
	}

	if outPath != "" {
		if err := filesystem.WriteFile(outPath, res.PDF); err != nil {
			return res, err
		}
		fmt.Fprintf(a.out, "✓ Report written to %s\n", outPath)
	}
	return res, nil
}

// Discard drops the local draft.
func (a *WorkAdapter) Discard(ctx context.Context, orderID string) error {
	if err := a.service.Discard(ctx, orderID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Draft for order %s discarded\n", orderID)
	return nil
}

// Drafts lists local drafts.
func (a *WorkAdapter) Drafts(ctx context.Context) ([]*primary.Draft, error) {
	drafts, err := a.service.ListDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	if len(drafts) == 0 {
		fmt.Fprintln(a.out, "No local drafts.")
		return drafts, nil
	}
	for _, d := range drafts {
		photos := len(d.Work.Before) + len(d.Work.During) + len(d.Work.After)
		signed := ""
		if d.Signature != "" {
			signed = ", signed"
		}
		fmt.Fprintf(a.out, "%s  %s  %s%s  (updated %s)\n",
			d.OrderID, d.Radicado, plural(photos, "photo", "photos"), signed,
			d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return drafts, nil
}
