package secondary

import (
	"context"
	"io"
	"time"

	"github.com/pipemene/bluehome-os/internal/core/document"
	"github.com/pipemene/bluehome-os/internal/core/media"
	"github.com/pipemene/bluehome-os/internal/core/order"
)

// Credential is the persisted session.
type Credential struct {
	Username string
	Token    string
	SavedAt  time.Time
}

// CredentialStore persists the session credential across runs.
type CredentialStore interface {
	// Load returns the stored credential, or nil when logged out.
	Load(ctx context.Context) (*Credential, error)

	// Save replaces the stored credential.
	Save(ctx context.Context, cred Credential) error

	// Clear removes the stored credential. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// DraftRecord holds a technician's local buffers for one order.
type DraftRecord struct {
	OrderID   string
	Radicado  string
	Work      order.WorkRecord
	Signature string
	Email     string
	UpdatedAt time.Time
}

// DraftRepository defines the secondary port for work-record drafts.
type DraftRepository interface {
	// Get returns the draft for an order, or nil when none exists.
	Get(ctx context.Context, orderID string) (*DraftRecord, error)

	// Save creates or replaces a draft.
	Save(ctx context.Context, draft *DraftRecord) error

	// Delete removes a draft. Deleting a missing draft is not an error.
	Delete(ctx context.Context, orderID string) error

	// List returns every draft, most recently updated first.
	List(ctx context.Context) ([]*DraftRecord, error)
}

// DocumentRenderer renders a closing report to PDF bytes.
type DocumentRenderer interface {
	Render(ctx context.Context, in document.Input) ([]byte, error)
}

// SpreadsheetWriter writes the dispatch board as a spreadsheet.
type SpreadsheetWriter interface {
	WriteBoard(w io.Writer, orders []order.WorkOrder) error
}

// FileLoader reads local files for upload, detecting their content type.
type FileLoader interface {
	Load(path string) (*media.File, error)
}
