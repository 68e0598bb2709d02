package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pipemene/bluehome-os/internal/ports/primary"
)

// IntakeAdapter renders tenant request submission.
type IntakeAdapter struct {
	service primary.IntakeService
	out     io.Writer
}

// NewIntakeAdapter creates a new IntakeAdapter with the given service.
func NewIntakeAdapter(service primary.IntakeService, out io.Writer) *IntakeAdapter {
	return &IntakeAdapter{
		service: service,
		out:     out,
	}
}

// Submit files the request and prints the radicado.
func (a *IntakeAdapter) Submit(ctx context.Context, req primary.IntakeRequest) (*primary.IntakeResponse, error) {
	resp, err := a.service.Submit(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Request filed. Radicado: %s\n", resp.Radicado)
	if n := resp.PhotosUploaded + resp.PhotosInline; n > 0 {
		fmt.Fprintf(a.out, "  %s attached", plural(n, "photo", "photos"))
		if resp.PhotosInline > 0 {
			fmt.Fprintf(a.out, " (%d inline)", resp.PhotosInline)
		}
		fmt.Fprintln(a.out)
	}
	if resp.VideoInline {
		fmt.Fprintln(a.out, "  Video stored inline")
	}
	if resp.Notified {
		fmt.Fprintln(a.out, "  Notification sent")
	}
	return resp, nil
}
