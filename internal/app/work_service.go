package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pipemene/bluehome-os/internal/core/document"
	"github.com/pipemene/bluehome-os/internal/core/media"
	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/core/signature"
	"github.com/pipemene/bluehome-os/internal/ctxutil"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// WorkServiceImpl implements the WorkService interface.
type WorkServiceImpl struct {
	orders   secondary.OrderGateway
	drafts   secondary.DraftRepository
	uploads  *UploadResolver
	renderer secondary.DocumentRenderer
	mail     secondary.MailGateway
	company  string
	now      func() time.Time
	flights  inflight
	logger   zerolog.Logger
}

// NewWorkService creates a new WorkService with injected dependencies.
// company heads the closing report.
func NewWorkService(
	orders secondary.OrderGateway,
	drafts secondary.DraftRepository,
	uploads *UploadResolver,
	renderer secondary.DocumentRenderer,
	mail secondary.MailGateway,
	company string,
	logger zerolog.Logger,
) *WorkServiceImpl {
	return &WorkServiceImpl{
		orders:   orders,
		drafts:   drafts,
		uploads:  uploads,
		renderer: renderer,
		mail:     mail,
		company:  company,
		now:      time.Now,
		logger:   logger,
	}
}

// Open returns the order and its draft.
func (s *WorkServiceImpl) Open(ctx context.Context, orderID string) (*primary.WorkSession, error) {
	o, draft, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &primary.WorkSession{Order: o, Draft: toDraft(draft)}, nil
}

// AddPhotos uploads files and appends them to a phase buffer.
func (s *WorkServiceImpl) AddPhotos(ctx context.Context, req primary.AddPhotosRequest) (*primary.AddPhotosResponse, error) {
	phase, err := order.ParsePhase(string(req.Phase))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", order.ErrValidation, err)
	}
	_, draft, err := s.load(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	files := req.Files
	if len(files) > primary.MaxPhotosPerAdd {
		files = files[:primary.MaxPhotosPerAdd]
	}
	resp := &primary.AddPhotosResponse{}
	refs := make([]media.Ref, 0, len(files))
	for _, f := range files {
		ref := s.uploads.Resolve(ctx, f, true)
		if ref.IsInline() {
			resp.Inline++
		}
		refs = append(refs, ref)
	}

	draft.Work = draft.Work.WithPhotos(phase, refs...)
	if err := s.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	resp.Added = len(refs)
	resp.Total = len(draft.Work.Photos(phase))
	return resp, nil
}

// UpdateDraft edits the draft's text buffers.
func (s *WorkServiceImpl) UpdateDraft(ctx context.Context, req primary.UpdateDraftRequest) (*primary.Draft, error) {
	_, draft, err := s.load(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if req.Materials != nil {
		draft.Work.Materials = *req.Materials
	}
	if req.Notes != nil {
		draft.Work.Notes = *req.Notes
	}
	if req.Email != nil {
		draft.Email = strings.TrimSpace(*req.Email)
	}
	if err := s.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	d := toDraft(draft)
	return &d, nil
}

// CaptureSignature stores a signature and persists it immediately.
// A failed PATCH leaves the draft unchanged.
func (s *WorkServiceImpl) CaptureSignature(ctx context.Context, orderID string, image []byte) error {
	o, draft, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	dataURL, err := signature.Capture(image)
	if err != nil {
		return err
	}

	_, err = guarded(&s.flights, "sign", string(o.ID), func() (struct{}, error) {
		return struct{}{}, s.orders.Patch(ctx, string(o.ID), order.Patch{Signature: order.Ptr(dataURL)})
	})
	if err != nil {
		return fmt.Errorf("failed to save signature for order %s: %w", o.ID, err)
	}

	draft.Signature = dataURL
	return s.saveDraft(ctx, draft)
}

// ClearSignature clears the draft's signature without persisting.
func (s *WorkServiceImpl) ClearSignature(ctx context.Context, orderID string) error {
	_, draft, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	draft.Signature = ""
	return s.saveDraft(ctx, draft)
}

// SaveWork persists the whole work record and moves the order to
// DONE_WAITING_SIGN, whether or not a signature exists yet.
func (s *WorkServiceImpl) SaveWork(ctx context.Context, orderID string) (*order.WorkOrder, error) {
	o, draft, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.CanSaveWork(s.workContext(ctx, o)).Error(); err != nil {
		return nil, err
	}

	work := draft.Work.Normalized()
	patch := order.Patch{Work: &work, Status: order.Ptr(order.StatusDoneWaitingSign)}
	_, err = guarded(&s.flights, "save", string(o.ID), func() (struct{}, error) {
		return struct{}{}, s.orders.Patch(ctx, string(o.ID), patch)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save work for order %s: %w", o.ID, err)
	}
	s.logger.Info().Str("order", string(o.ID)).Msg("work saved")

	o.Work = &work
	o.Status = order.StatusDoneWaitingSign
	return &o, nil
}

// Close composes the report, publishes it, closes the order and emails the
// tenant. Publishing and email are best effort; the close PATCH is not.
func (s *WorkServiceImpl) Close(ctx context.Context, req primary.CloseRequest) (*primary.CloseResult, error) {
	o, draft, err := s.load(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if err := order.CanClose(s.workContext(ctx, o)).Error(); err != nil {
		return nil, err
	}
	if req.Email != nil {
		draft.Email = strings.TrimSpace(*req.Email)
	}

	return guarded(&s.flights, "close", string(o.ID), func() (*primary.CloseResult, error) {
		pdf, err := s.renderer.Render(ctx, s.documentInput(ctx, o, draft))
		if err != nil {
			return nil, fmt.Errorf("failed to compose report: %w", err)
		}

		result := &primary.CloseResult{
			FileName:  document.FileName(o.Radicado),
			PDF:       pdf,
			Recipient: draft.Email,
		}

		patch := order.Patch{Status: order.Ptr(order.StatusClosed)}
		file := media.File{Name: result.FileName, ContentType: "application/pdf", Data: pdf}
		if url, ok := s.uploads.Publish(ctx, file, true); ok {
			patch.PDFURL = order.Ptr(url)
			result.PDFURL = url
		}
		if err := s.orders.Patch(ctx, string(o.ID), patch); err != nil {
			return nil, fmt.Errorf("failed to close order %s: %w", o.ID, err)
		}
		o.Status = order.StatusClosed
		if result.PDFURL != "" {
			o.PDFURL = result.PDFURL
		}
		result.Order = o
		s.logger.Info().Str("order", string(o.ID)).Bool("published", result.PDFURL != "").Msg("order closed")

		if result.Recipient != "" && s.mail != nil {
			preview, err := s.mail.SendPDF(ctx, secondary.SendPDFRequest{
				OrderID:   string(o.ID),
				ToEmail:   result.Recipient,
				PDFBase64: document.DataURI(pdf),
			})
			if err != nil {
				result.EmailErr = err
				s.logger.Warn().Err(err).Str("order", string(o.ID)).Msg("report email failed")
			} else {
				result.EmailSent = true
				result.Preview = preview
			}
		}

		if err := s.drafts.Delete(ctx, string(o.ID)); err != nil {
			s.logger.Warn().Err(err).Str("order", string(o.ID)).Msg("failed to drop draft")
		}
		return result, nil
	})
}

// Discard drops the local draft.
func (s *WorkServiceImpl) Discard(ctx context.Context, orderID string) error {
	if err := s.drafts.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("failed to discard draft: %w", err)
	}
	return nil
}

// ListDrafts returns every local draft.
func (s *WorkServiceImpl) ListDrafts(ctx context.Context) ([]*primary.Draft, error) {
	records, err := s.drafts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	out := make([]*primary.Draft, 0, len(records))
	for _, r := range records {
		d := toDraft(r)
		out = append(out, &d)
	}
	return out, nil
}

// load re-lists the order, checks ownership and returns its draft, seeding
// the draft from the server copy on first use.
func (s *WorkServiceImpl) load(ctx context.Context, orderID string) (order.WorkOrder, *secondary.DraftRecord, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return order.WorkOrder{}, nil, err
	}
	o, err := order.Find(orders, orderID)
	if err != nil {
		return order.WorkOrder{}, nil, err
	}
	if err := order.CanEditWork(s.workContext(ctx, o)).Error(); err != nil {
		return order.WorkOrder{}, nil, err
	}

	draft, err := s.drafts.Get(ctx, string(o.ID))
	if err != nil {
		return order.WorkOrder{}, nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if draft == nil {
		draft = &secondary.DraftRecord{
			OrderID:   string(o.ID),
			Radicado:  o.Radicado,
			Signature: o.Signature,
			Email:     o.Tenant.Email,
		}
		if o.Work != nil {
			draft.Work = *o.Work
		}
		if err := s.saveDraft(ctx, draft); err != nil {
			return order.WorkOrder{}, nil, err
		}
	}
	return o, draft, nil
}

func (s *WorkServiceImpl) saveDraft(ctx context.Context, draft *secondary.DraftRecord) error {
	draft.UpdatedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, draft); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *WorkServiceImpl) workContext(ctx context.Context, o order.WorkOrder) order.WorkContext {
	return order.WorkContext{
		OrderID:    string(o.ID),
		Status:     o.Status,
		AssignedTo: o.AssignedTo,
		Technician: ctxutil.ActorFromContext(ctx),
	}
}

func (s *WorkServiceImpl) documentInput(ctx context.Context, o order.WorkOrder, draft *secondary.DraftRecord) document.Input {
	technician := ctxutil.ActorFromContext(ctx)
	if technician == "" {
		technician = o.AssignedTo
	}
	return document.Input{
		Company:     s.company,
		Radicado:    o.Radicado,
		GeneratedAt: s.now(),
		Technician:  technician,
		Status:      string(o.Status),
		TenantCode:  o.Tenant.Code,
		TenantName:  o.Tenant.Name,
		TenantPhone: o.Tenant.Phone,
		Description: o.Tenant.Description,
		Before:      draft.Work.Before,
		During:      draft.Work.During,
		After:       draft.Work.After,
		Materials:   draft.Work.Materials,
		Notes:       draft.Work.Notes,
		Signature:   draft.Signature,
	}
}

func toDraft(r *secondary.DraftRecord) primary.Draft {
	return primary.Draft{
		OrderID:   r.OrderID,
		Radicado:  r.Radicado,
		Work:      r.Work,
		Signature: r.Signature,
		Email:     r.Email,
		UpdatedAt: r.UpdatedAt,
	}
}

var _ primary.WorkService = (*WorkServiceImpl)(nil)
