package secondary

import (
	"context"

	"github.com/pipemene/bluehome-os/internal/core/order"
)

// OrderGateway defines the secondary port for the backend's order collection.
// The backend is the system of record; nothing is cached.
type OrderGateway interface {
	// List fetches every order visible to the current credential.
	List(ctx context.Context) ([]order.WorkOrder, error)

	// Create submits a new intake without authentication and returns the
	// radicado assigned by the backend.
	Create(ctx context.Context, intake order.Intake) (string, error)

	// Patch replaces the named top-level fields of an order.
	Patch(ctx context.Context, orderID string, patch order.Patch) error
}

// AuthGateway exchanges credentials for a bearer token.
type AuthGateway interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// UploadGrant is a pre-signed upload destination.
type UploadGrant struct {
	UploadURL string
	PublicURL string
}

// UploadGateway defines the secondary port for direct uploads to the object store.
type UploadGateway interface {
	// RequestUpload asks the backend for a pre-signed URL.
	RequestUpload(ctx context.Context, contentType string, withAuth bool) (*UploadGrant, error)

	// Put transfers data to a granted upload URL.
	Put(ctx context.Context, uploadURL, contentType string, data []byte) error
}

// SendPDFRequest is the email relay payload.
type SendPDFRequest struct {
	OrderID   string
	ToEmail   string
	PDFBase64 string
}

// MailGateway relays a closing report to the tenant by email.
type MailGateway interface {
	// SendPDF returns the relay's preview URL when it provides one.
	SendPDF(ctx context.Context, req SendPDFRequest) (string, error)
}

// NotifyRequest is a chat notification.
type NotifyRequest struct {
	Text   string
	UserID string
	APIKey string
}

// NotifyGateway posts chat notifications through the backend relay.
type NotifyGateway interface {
	Notify(ctx context.Context, req NotifyRequest) error
}

// MediaFetcher downloads hosted media for rendering.
type MediaFetcher interface {
	// Fetch returns the body and its content type.
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}
