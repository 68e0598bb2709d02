package cli

import (
	"context"
	"errors"
	"io"

	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
)

var errService = errors.New("service failed")

type mockDispatchService struct {
	orders    []order.WorkOrder
	err       error
	setResp   *primary.SetStatusResponse
	lastSet   primary.SetStatusRequest
	exportN   int
	exportErr error
}

func (m *mockDispatchService) ListOrders(ctx context.Context, query string) ([]order.WorkOrder, error) {
	return order.Filter(m.orders, query), m.err
}

func (m *mockDispatchService) GetOrder(ctx context.Context, ref string) (*order.WorkOrder, error) {
	if m.err != nil {
		return nil, m.err
	}
	o, err := order.Find(m.orders, ref)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (m *mockDispatchService) SetStatus(ctx context.Context, req primary.SetStatusRequest) (*primary.SetStatusResponse, error) {
	m.lastSet = req
	if m.err != nil {
		return nil, m.err
	}
	return m.setResp, nil
}

func (m *mockDispatchService) Export(ctx context.Context, w io.Writer, query string) (int, error) {
	if m.exportErr != nil {
		return 0, m.exportErr
	}
	_, _ = w.Write([]byte("xlsx"))
	return m.exportN, nil
}

type mockTechnicianService struct {
	board   *primary.Board
	claimed *order.WorkOrder
	err     error
	lastID  string
}

func (m *mockTechnicianService) Board(ctx context.Context, query string) (*primary.Board, error) {
	return m.board, m.err
}

func (m *mockTechnicianService) Claim(ctx context.Context, orderID string) (*order.WorkOrder, error) {
	m.lastID = orderID
	return m.claimed, m.err
}

type mockWorkService struct {
	session  *primary.WorkSession
	photos   *primary.AddPhotosResponse
	draft    *primary.Draft
	saved    *order.WorkOrder
	closed   *primary.CloseResult
	drafts   []*primary.Draft
	err      error
	signed   []byte
	cleared  string
	discards string
}

func (m *mockWorkService) Open(ctx context.Context, orderID string) (*primary.WorkSession, error) {
	return m.session, m.err
}

func (m *mockWorkService) AddPhotos(ctx context.Context, req primary.AddPhotosRequest) (*primary.AddPhotosResponse, error) {
	return m.photos, m.err
}

func (m *mockWorkService) UpdateDraft(ctx context.Context, req primary.UpdateDraftRequest) (*primary.Draft, error) {
	return m.draft, m.err
}

func (m *mockWorkService) CaptureSignature(ctx context.Context, orderID string, image []byte) error {
	m.signed = image
	return m.err
}

func (m *mockWorkService) ClearSignature(ctx context.Context, orderID string) error {
	m.cleared = orderID
	return m.err
}

func (m *mockWorkService) SaveWork(ctx context.Context, orderID string) (*order.WorkOrder, error) {
	return m.saved, m.err
}

func (m *mockWorkService) Close(ctx context.Context, req primary.CloseRequest) (*primary.CloseResult, error) {
	return m.closed, m.err
}

func (m *mockWorkService) Discard(ctx context.Context, orderID string) error {
	m.discards = orderID
	return m.err
}

func (m *mockWorkService) ListDrafts(ctx context.Context) ([]*primary.Draft, error) {
	return m.drafts, m.err
}

type mockIntakeService struct {
	resp *primary.IntakeResponse
	err  error
	last primary.IntakeRequest
}

func (m *mockIntakeService) Submit(ctx context.Context, req primary.IntakeRequest) (*primary.IntakeResponse, error) {
	m.last = req
	return m.resp, m.err
}

type mockSessionService struct {
	session  *primary.Session
	identity *primary.Identity
	err      error
	loggedIn primary.LoginRequest
	out      bool
}

func (m *mockSessionService) Login(ctx context.Context, req primary.LoginRequest) (*primary.Session, error) {
	m.loggedIn = req
	return m.session, m.err
}

func (m *mockSessionService) Logout(ctx context.Context) error {
	m.out = true
	return m.err
}

func (m *mockSessionService) Current(ctx context.Context) (*primary.Session, error) {
	return m.session, nil
}

func (m *mockSessionService) WhoAmI(ctx context.Context, override string) (*primary.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	if override != "" {
		return &primary.Identity{Name: override, Source: "flag"}, nil
	}
	return m.identity, nil
}
