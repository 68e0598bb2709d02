package primary

import (
	"context"
	"time"

	"github.com/pipemene/bluehome-os/internal/core/media"
	"github.com/pipemene/bluehome-os/internal/core/order"
)

// WorkService defines the primary port for the work record editor.
// Every operation except Discard and ListDrafts requires the acting
// technician (from context) to be the order's assignee.
type WorkService interface {
	// Open returns the order and its draft, seeding the draft from the server on first use.
	Open(ctx context.Context, orderID string) (*WorkSession, error)

	// AddPhotos uploads files and appends them to a phase buffer.
	AddPhotos(ctx context.Context, req AddPhotosRequest) (*AddPhotosResponse, error)

	// UpdateDraft edits the draft's text buffers. Nil fields are left unchanged.
	UpdateDraft(ctx context.Context, req UpdateDraftRequest) (*Draft, error)

	// CaptureSignature stores a signature and persists it immediately.
	CaptureSignature(ctx context.Context, orderID string, image []byte) error

	// ClearSignature clears the draft's signature without persisting.
	ClearSignature(ctx context.Context, orderID string) error

	// SaveWork persists the work record and moves the order to DONE_WAITING_SIGN.
	SaveWork(ctx context.Context, orderID string) (*order.WorkOrder, error)

	// Close generates the report, closes the order and emails the tenant.
	Close(ctx context.Context, req CloseRequest) (*CloseResult, error)

	// Discard drops the local draft.
	Discard(ctx context.Context, orderID string) error

	// ListDrafts returns every local draft.
	ListDrafts(ctx context.Context) ([]*Draft, error)
}

// Draft is the technician's unsaved work for one order.
type Draft struct {
	OrderID   string
	Radicado  string
	Work      order.WorkRecord
	Signature string
	Email     string
	UpdatedAt time.Time
}

// WorkSession is an order opened in the editor.
type WorkSession struct {
	Order order.WorkOrder
	Draft Draft
}

// AddPhotosRequest contains parameters for adding evidence photos.
type AddPhotosRequest struct {
	OrderID string
	Phase   order.Phase
	Files   []media.File // At most MaxPhotosPerAdd are kept
}

// MaxPhotosPerAdd caps the files accepted by one AddPhotos call.
const MaxPhotosPerAdd = 10

// AddPhotosResponse reports how the uploads resolved.
type AddPhotosResponse struct {
	Added  int
	Inline int
	Total  int
}

// UpdateDraftRequest contains text buffer edits.
type UpdateDraftRequest struct {
	OrderID   string
	Materials *string
	Notes     *string
	Email     *string
}

// CloseRequest contains parameters for closing an order.
type CloseRequest struct {
	OrderID string
	Email   *string // Overrides the draft's recipient when set
}

// CloseResult reports each step of the closing sequence.
type CloseResult struct {
	Order     order.WorkOrder
	FileName  string
	PDF       []byte
	PDFURL    string // Empty when the report could not be published
	Recipient string
	EmailSent bool
	Preview   string
	EmailErr  error
}
