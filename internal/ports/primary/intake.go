package primary

import (
	"context"

	"github.com/pipemene/bluehome-os/internal/core/media"
)

// IntakeService defines the primary port for tenant requests.
type IntakeService interface {
	// Submit validates and files a new work order.
	Submit(ctx context.Context, req IntakeRequest) (*IntakeResponse, error)
}

// IntakeRequest contains the tenant's request.
type IntakeRequest struct {
	Code        string
	Name        string
	Phone       string
	Email       string // Optional
	Type        string // Optional: reparacion (default), mantenimiento, otro
	Description string
	Photos      []media.File // At most two are kept
	Videos      []media.File // Only the first is kept
	Notify      *NotifyOptions
}

// NotifyOptions enables the chat notification after intake.
type NotifyOptions struct {
	APIKey string
	UserID string
}

// IntakeResponse contains the result of filing a request.
type IntakeResponse struct {
	Radicado       string
	PhotosUploaded int
	PhotosInline   int
	VideoInline    bool
	Notified       bool
}
