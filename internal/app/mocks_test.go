package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pipemene/bluehome-os/internal/core/document"
	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

var errBackend = errors.New("backend unavailable")

func testLogger() zerolog.Logger { return zerolog.Nop() }

// ============================================================================
// mockOrderGateway
// ============================================================================

var _ secondary.OrderGateway = (*mockOrderGateway)(nil)

type patchCall struct {
	OrderID string
	Patch   order.Patch
}

type mockOrderGateway struct {
	mu        sync.Mutex
	orders    []order.WorkOrder
	created   []order.Intake
	patches   []patchCall
	radicado  string
	listErr   error
	createErr error
	patchErr  error
	// patchErrFor fails only patches touching the named field.
	patchErrFor string
}

func newMockOrderGateway(orders ...order.WorkOrder) *mockOrderGateway {
	return &mockOrderGateway{orders: orders, radicado: "BH-0100"}
}

func (m *mockOrderGateway) List(ctx context.Context) ([]order.WorkOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]order.WorkOrder, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

func (m *mockOrderGateway) Create(ctx context.Context, intake order.Intake) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, intake)
	return m.radicado, nil
}

func (m *mockOrderGateway) Patch(ctx context.Context, orderID string, patch order.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.patchErr != nil {
		return m.patchErr
	}
	for _, f := range patch.Fields() {
		if f == m.patchErrFor {
			return errBackend
		}
	}
	m.patches = append(m.patches, patchCall{OrderID: orderID, Patch: patch})
	return nil
}

func (m *mockOrderGateway) lastPatch() (patchCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.patches) == 0 {
		return patchCall{}, false
	}
	return m.patches[len(m.patches)-1], true
}

// ============================================================================
// mockUploadGateway
// ============================================================================

var _ secondary.UploadGateway = (*mockUploadGateway)(nil)

type mockUploadGateway struct {
	requests   []bool // withAuth per request
	puts       []string
	grant      *secondary.UploadGrant
	requestErr error
	putErr     error
}

func newMockUploadGateway() *mockUploadGateway {
	return &mockUploadGateway{
		grant: &secondary.UploadGrant{
			UploadURL: "https://store.example/put/abc",
			PublicURL: "https://cdn.example/abc",
		},
	}
}

func (m *mockUploadGateway) RequestUpload(ctx context.Context, contentType string, withAuth bool) (*secondary.UploadGrant, error) {
	m.requests = append(m.requests, withAuth)
	if m.requestErr != nil {
		return nil, m.requestErr
	}
	return m.grant, nil
}

func (m *mockUploadGateway) Put(ctx context.Context, uploadURL, contentType string, data []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts = append(m.puts, uploadURL)
	return nil
}

// ============================================================================
// mockNotifyGateway / mockMailGateway
// ============================================================================

var _ secondary.NotifyGateway = (*mockNotifyGateway)(nil)

type mockNotifyGateway struct {
	sent      []secondary.NotifyRequest
	notifyErr error
}

func (m *mockNotifyGateway) Notify(ctx context.Context, req secondary.NotifyRequest) error {
	m.sent = append(m.sent, req)
	return m.notifyErr
}

var _ secondary.MailGateway = (*mockMailGateway)(nil)

type mockMailGateway struct {
	sent    []secondary.SendPDFRequest
	preview string
	sendErr error
}

func (m *mockMailGateway) SendPDF(ctx context.Context, req secondary.SendPDFRequest) (string, error) {
	m.sent = append(m.sent, req)
	if m.sendErr != nil {
		return "", m.sendErr
	}
	return m.preview, nil
}

// ============================================================================
// mockAuthGateway / mockCredentialStore
// ============================================================================

var _ secondary.AuthGateway = (*mockAuthGateway)(nil)

type mockAuthGateway struct {
	calls    int
	token    string
	loginErr error
}

func (m *mockAuthGateway) Login(ctx context.Context, username, password string) (string, error) {
	m.calls++
	if m.loginErr != nil {
		return "", m.loginErr
	}
	return m.token, nil
}

var _ secondary.CredentialStore = (*mockCredentialStore)(nil)

type mockCredentialStore struct {
	cred    *secondary.Credential
	saveErr error
	loadErr error
}

func (m *mockCredentialStore) Load(ctx context.Context) (*secondary.Credential, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.cred, nil
}

func (m *mockCredentialStore) Save(ctx context.Context, cred secondary.Credential) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.cred = &cred
	return nil
}

func (m *mockCredentialStore) Clear(ctx context.Context) error {
	m.cred = nil
	return nil
}

// ============================================================================
// mockDraftRepository
// ============================================================================

var _ secondary.DraftRepository = (*mockDraftRepository)(nil)

type mockDraftRepository struct {
	drafts  map[string]secondary.DraftRecord
	saveErr error
}

func newMockDraftRepository() *mockDraftRepository {
	return &mockDraftRepository{drafts: make(map[string]secondary.DraftRecord)}
}

func (m *mockDraftRepository) Get(ctx context.Context, orderID string) (*secondary.DraftRecord, error) {
	d, ok := m.drafts[orderID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *mockDraftRepository) Save(ctx context.Context, draft *secondary.DraftRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.drafts[draft.OrderID] = *draft
	return nil
}

func (m *mockDraftRepository) Delete(ctx context.Context, orderID string) error {
	delete(m.drafts, orderID)
	return nil
}

func (m *mockDraftRepository) List(ctx context.Context) ([]*secondary.DraftRecord, error) {
	out := make([]*secondary.DraftRecord, 0, len(m.drafts))
	for _, d := range m.drafts {
		d := d
		out = append(out, &d)
	}
	return out, nil
}

// ============================================================================
// mockRenderer / mockSpreadsheetWriter
// ============================================================================

var _ secondary.DocumentRenderer = (*mockRenderer)(nil)

type mockRenderer struct {
	inputs    []document.Input
	renderErr error
}

func (m *mockRenderer) Render(ctx context.Context, in document.Input) ([]byte, error) {
	m.inputs = append(m.inputs, in)
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	return []byte("%PDF-1.3 " + in.Radicado), nil
}

var _ secondary.SpreadsheetWriter = (*mockSpreadsheetWriter)(nil)

type mockSpreadsheetWriter struct {
	rows     []order.WorkOrder
	writeErr error
}

func (m *mockSpreadsheetWriter) WriteBoard(w io.Writer, orders []order.WorkOrder) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.rows = orders
	_, err := io.WriteString(w, "xlsx")
	return err
}
