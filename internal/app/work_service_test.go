package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/pipemene/bluehome-os/internal/core/media"
	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/core/signature"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

type workFixture struct {
	svc      *WorkServiceImpl
	orders   *mockOrderGateway
	drafts   *mockDraftRepository
	uploads  *mockUploadGateway
	renderer *mockRenderer
	mail     *mockMailGateway
}

var fixedNow = time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC)

func newWorkFixture(orders ...order.WorkOrder) *workFixture {
	f := &workFixture{
		orders:   newMockOrderGateway(orders...),
		drafts:   newMockDraftRepository(),
		uploads:  newMockUploadGateway(),
		renderer: &mockRenderer{},
		mail:     &mockMailGateway{},
	}
	f.svc = NewWorkService(f.orders, f.drafts, NewUploadResolver(f.uploads, testLogger()), f.renderer, f.mail, "Blue Home Inmobiliaria", testLogger())
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func inProgressOrder() order.WorkOrder {
	return order.WorkOrder{
		ID:         "2",
		Radicado:   "BH-002",
		Status:     order.StatusInProgress,
		AssignedTo: "juan",
		Tenant: order.Tenant{
			Code: "LOC-3", Name: "Luis Gómez", Phone: "301", Email: "luis@example.com", Description: "Puerta dañada",
		},
		Work: &order.WorkRecord{
			Before:    []media.Ref{media.FromURL("https://cdn.example/before.jpg")},
			Materials: "Bisagras",
		},
	}
}

func signaturePNG(t *testing.T, ink bool) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	if ink {
		for x := 20; x < 180; x++ {
			img.Set(x, 50, color.NRGBA{A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestWorkService_OpenSeedsDraftFromServer(t *testing.T) {
	f := newWorkFixture(inProgressOrder())

	session, err := f.svc.Open(asTech("juan"), "BH-002")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	d := session.Draft
	if d.OrderID != "2" || d.Email != "luis@example.com" || d.Work.Materials != "Bisagras" || len(d.Work.Before) != 1 {
		t.Errorf("seeded draft = %+v", d)
	}
	if !d.UpdatedAt.Equal(fixedNow) {
		t.Errorf("UpdatedAt = %v", d.UpdatedAt)
	}
	if _, ok := f.drafts.drafts["2"]; !ok {
		t.Error("draft not stored")
	}
}

func TestWorkService_OpenKeepsExistingDraft(t *testing.T) {
	f := newWorkFixture(inProgressOrder())
	f.drafts.drafts["2"] = secondary.DraftRecord{OrderID: "2", Work: order.WorkRecord{Notes: "local"}}

	session, err := f.svc.Open(asTech("juan"), "2")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if session.Draft.Work.Notes != "local" || session.Draft.Work.Materials != "" {
		t.Errorf("draft overwritten from server: %+v", session.Draft)
	}
}

func TestWorkService_RequiresAssignee(t *testing.T) {
	f := newWorkFixture(inProgressOrder())

	_, err := f.svc.Open(asTech("pedro"), "2")
	if err == nil || !strings.Contains(err.Error(), "assigned to juan, not pedro") {
		t.Fatalf("expected ownership error, got %v", err)
	}
	if len(f.drafts.drafts) != 0 {
		t.Error("no draft expected for a foreign order")
	}
	if _, err := f.svc.SaveWork(asTech("pedro"), "2"); err == nil {
		t.Error("expected SaveWork to be refused")
	}
}

func TestWorkService_AddPhotos(t *testing.T) {
	f := newWorkFixture(inProgressOrder())

	files := make([]media.File, 12)
	for i := range files {
		files[i] = photo("p.jpg")
	}
	resp, err := f.svc.AddPhotos(asTech("juan"), primary.AddPhotosRequest{OrderID: "2", Phase: order.PhaseBefore, Files: files})
	if err != nil {
		t.Fatalf("AddPhotos failed: %v", err)
	}
	if resp.Added != 10 || resp.Total != 11 || resp.Inline != 0 {
		t.Errorf("resp = %+v", resp)
	}
	for _, withAuth := range f.uploads.requests {
		if !withAuth {
			t.Error("work uploads must be authenticated")
		}
	}
	if len(f.orders.patches) != 0 {
		t.Error("adding photos must not persist")
	}
}

func TestWorkService_AddPhotosInvalidPhase(t *testing.T) {
	f := newWorkFixture(inProgressOrder())

	_, err := f.svc.AddPhotos(asTech("juan"), primary.AddPhotosRequest{OrderID: "2", Phase: "antes"})
	if !errors.Is(err, order.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestWorkService_AddPhotosNormalizesPhase(t *testing.T) {
	f := newWorkFixture(inProgressOrder())

	resp, err := f.svc.AddPhotos(asTech("juan"), primary.AddPhotosRequest{
		OrderID: "2",
		Phase:   " Before",
		Files:   []media.File{photo("a.jpg"), photo("b.jpg")},
	})
	if err != nil {
		t.Fatalf("AddPhotos failed: %v", err)
	}
	if resp.Added != 2 || resp.Total != 3 {
		t.Errorf("resp = %+v, want Added 2 Total 3", resp)
	}
	if n := len(f.drafts.drafts["2"].Work.Before); n != 3 {
		t.Errorf("draft has %d before photos, want 3", n)
	}
}

func TestWorkService_UpdateDraft(t *testing.T) {
	f := newWorkFixture(inProgressOrder())

	notes := "Se cambiaron bisagras"
	email := " otro@example.com "
	d, err := f.svc.UpdateDraft(asTech("juan"), primary.UpdateDraftRequest{OrderID: "2", Notes: &notes, Email: &email})
	if err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}
	if d.Work.Notes != notes || d.Work.Materials != "Bisagras" || d.Email != "otro@example.com" {
		t.Errorf("draft = %+v", d)
	}
}

func TestWorkService_CaptureSignature(t *testing.T) {
	t.Run("empty canvas fails locally", func(t *testing.T) {
		f := newWorkFixture(inProgressOrder())

		err := f.svc.CaptureSignature(asTech("juan"), "2", signaturePNG(t, false))
		if !errors.Is(err, signature.ErrEmpty) {
			t.Fatalf("expected ErrEmpty, got %v", err)
		}
		if len(f.orders.patches) != 0 {
			t.Error("no PATCH expected for an empty signature")
		}
	})

	t.Run("persists immediately", func(t *testing.T) {
		f := newWorkFixture(inProgressOrder())

		if err := f.svc.CaptureSignature(asTech("juan"), "2", signaturePNG(t, true)); err != nil {
			t.Fatalf("CaptureSignature failed: %v", err)
		}
		p, ok := f.orders.lastPatch()
		if !ok || strings.Join(p.Patch.Fields(), ",") != "signature" {
			t.Fatalf("expected a signature-only PATCH, got %+v", p)
		}
		if !strings.HasPrefix(*p.Patch.Signature, "data:image/png;base64,") {
			t.Errorf("signature = %.40s", *p.Patch.Signature)
		}
		if f.drafts.drafts["2"].Signature != *p.Patch.Signature {
			t.Error("draft signature not updated")
		}
	})

	t.Run("failed persist leaves draft unchanged", func(t *testing.T) {
		f := newWorkFixture(inProgressOrder())
		f.orders.patchErrFor = "signature"

		if err := f.svc.CaptureSignature(asTech("juan"), "2", signaturePNG(t, true)); err == nil {
			t.Fatal("expected error")
		}
		if f.drafts.drafts["2"].Signature != "" {
			t.Error("draft signature changed despite failed persist")
		}
	})
}

func TestWorkService_ClearSignatureDoesNotPersist(t *testing.T) {
	o := inProgressOrder()
	o.Signature = "data:image/png;base64,AA=="
	f := newWorkFixture(o)

	if err := f.svc.ClearSignature(asTech("juan"), "2"); err != nil {
		t.Fatalf("ClearSignature failed: %v", err)
	}
	if f.drafts.drafts["2"].Signature != "" {
		t.Error("draft signature not cleared")
	}
	if len(f.orders.patches) != 0 {
		t.Error("clearing must not persist")
	}
}

func TestWorkService_SaveWork(t *testing.T) {
	f := newWorkFixture(inProgressOrder())

	saved, err := f.svc.SaveWork(asTech("juan"), "2")
	if err != nil {
		t.Fatalf("SaveWork failed: %v", err)
	}
	if saved.Status != order.StatusDoneWaitingSign {
		t.Errorf("Status = %q", saved.Status)
	}

	p, _ := f.orders.lastPatch()
	if fields := strings.Join(p.Patch.Fields(), ","); fields != "status,work" {
		t.Errorf("patched fields = %s", fields)
	}
	if *p.Patch.Status != order.StatusDoneWaitingSign {
		t.Errorf("patched status = %q", *p.Patch.Status)
	}
	w := p.Patch.Work
	if w.Materials != "Bisagras" || len(w.Before) != 1 || w.During == nil || w.After == nil {
		t.Errorf("patched work = %+v", w)
	}
}

func TestWorkService_SaveWorkWithoutSignatureStillAdvances(t *testing.T) {
	o := inProgressOrder()
	o.Status = order.StatusDoneWaitingSign
	f := newWorkFixture(o)

	if _, err := f.svc.SaveWork(asTech("juan"), "2"); err != nil {
		t.Fatalf("SaveWork failed: %v", err)
	}
	p, _ := f.orders.lastPatch()
	if p.Patch.Signature != nil {
		t.Error("save must not touch the signature")
	}
}

func TestWorkService_SaveWorkOnClosedOrderRefused(t *testing.T) {
	o := inProgressOrder()
	o.Status = order.StatusClosed
	f := newWorkFixture(o)

	if _, err := f.svc.SaveWork(asTech("juan"), "2"); err == nil {
		t.Fatal("expected refusal")
	}
	if len(f.orders.patches) != 0 {
		t.Error("no PATCH expected")
	}
}

func TestWorkService_Close(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(f *workFixture)
		email       *string
		wantPDFURL  string
		wantFields  string
		wantMail    int
		wantSent    bool
		wantPreview string
		wantMailErr bool
	}{
		{
			name:       "published and emailed",
			setup:      func(f *workFixture) {},
			wantPDFURL: "https://cdn.example/abc",
			wantFields: "status,pdfUrl",
			wantMail:   1,
			wantSent:   true,
		},
		{
			name:        "preview surfaced",
			setup:       func(f *workFixture) { f.mail.preview = "https://ethereal.example/m/1" },
			wantPDFURL:  "https://cdn.example/abc",
			wantFields:  "status,pdfUrl",
			wantMail:    1,
			wantSent:    true,
			wantPreview: "https://ethereal.example/m/1",
		},
		{
			name:       "upload failure still closes",
			setup:      func(f *workFixture) { f.uploads.putErr = errBackend },
			wantFields: "status",
			wantMail:   1,
			wantSent:   true,
		},
		{
			name:        "email failure does not revert",
			setup:       func(f *workFixture) { f.mail.sendErr = errBackend },
			wantPDFURL:  "https://cdn.example/abc",
			wantFields:  "status,pdfUrl",
			wantMail:    1,
			wantMailErr: true,
		},
		{
			name:       "no recipient skips email",
			setup:      func(f *workFixture) {},
			email:      new(string),
			wantPDFURL: "https://cdn.example/abc",
			wantFields: "status,pdfUrl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkFixture(inProgressOrder())
			tt.setup(f)

			result, err := f.svc.Close(asTech("juan"), primary.CloseRequest{OrderID: "2", Email: tt.email})
			if err != nil {
				t.Fatalf("Close failed: %v", err)
			}
			if result.Order.Status != order.StatusClosed {
				t.Errorf("Status = %q", result.Order.Status)
			}
			if result.PDFURL != tt.wantPDFURL {
				t.Errorf("PDFURL = %q, want %q", result.PDFURL, tt.wantPDFURL)
			}
			if result.FileName != "Acta_BH-002.pdf" {
				t.Errorf("FileName = %q", result.FileName)
			}

			p, _ := f.orders.lastPatch()
			if fields := strings.Join(p.Patch.Fields(), ","); fields != tt.wantFields {
				t.Errorf("patched fields = %s, want %s", fields, tt.wantFields)
			}
			if *p.Patch.Status != order.StatusClosed {
				t.Errorf("patched status = %q", *p.Patch.Status)
			}

			if len(f.mail.sent) != tt.wantMail {
				t.Fatalf("emails = %d, want %d", len(f.mail.sent), tt.wantMail)
			}
			if tt.wantMail == 1 {
				m := f.mail.sent[0]
				if m.OrderID != "2" || m.ToEmail != "luis@example.com" {
					t.Errorf("email = %+v", m)
				}
				if !strings.HasPrefix(m.PDFBase64, "data:application/pdf;filename=generated.pdf;base64,") {
					t.Errorf("PDFBase64 = %.60s", m.PDFBase64)
				}
			}
			if result.EmailSent != tt.wantSent || result.Preview != tt.wantPreview || (result.EmailErr != nil) != tt.wantMailErr {
				t.Errorf("email result = sent %v preview %q err %v", result.EmailSent, result.Preview, result.EmailErr)
			}
			if _, ok := f.drafts.drafts["2"]; ok {
				t.Error("draft should be dropped after closing")
			}
		})
	}
}

func TestWorkService_CloseDocumentInput(t *testing.T) {
	f := newWorkFixture(inProgressOrder())
	f.drafts.drafts["2"] = secondary.DraftRecord{
		OrderID:   "2",
		Work:      order.WorkRecord{Notes: "Listo", After: []media.Ref{media.FromURL("https://cdn.example/after.jpg")}},
		Signature: "data:image/png;base64,AA==",
		Email:     "luis@example.com",
	}

	if _, err := f.svc.Close(asTech("juan"), primary.CloseRequest{OrderID: "2"}); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	in := f.renderer.inputs[0]
	if in.Radicado != "BH-002" || in.Technician != "juan" || in.Status != string(order.StatusInProgress) {
		t.Errorf("input header = %+v", in)
	}
	if in.Notes != "Listo" || len(in.After) != 1 || in.Signature == "" || !in.GeneratedAt.Equal(fixedNow) {
		t.Errorf("input body = %+v", in)
	}
	if in.Company != "Blue Home Inmobiliaria" || in.Description != "Puerta dañada" {
		t.Errorf("input tenant = %+v", in)
	}
}

func TestWorkService_ClosePersistFailure(t *testing.T) {
	f := newWorkFixture(inProgressOrder())
	f.orders.patchErr = errBackend

	_, err := f.svc.Close(asTech("juan"), primary.CloseRequest{OrderID: "2"})
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if len(f.mail.sent) != 0 {
		t.Error("no email expected when the order did not close")
	}
	if _, ok := f.drafts.drafts["2"]; !ok {
		t.Error("draft must survive a failed close")
	}
}

func TestWorkService_CloseRenderFailure(t *testing.T) {
	f := newWorkFixture(inProgressOrder())
	f.renderer.renderErr = errors.New("font missing")

	if _, err := f.svc.Close(asTech("juan"), primary.CloseRequest{OrderID: "2"}); err == nil {
		t.Fatal("expected error")
	}
	if len(f.orders.patches) != 0 || len(f.uploads.requests) != 0 {
		t.Error("nothing should be sent when the report cannot be composed")
	}
}

func TestWorkService_SaveAndCloseFromNew(t *testing.T) {
	o := inProgressOrder()
	o.Status = order.StatusNew
	f := newWorkFixture(o)

	saved, err := f.svc.SaveWork(asTech("juan"), "2")
	if err != nil {
		t.Fatalf("SaveWork failed: %v", err)
	}
	if saved.Status != order.StatusDoneWaitingSign {
		t.Errorf("status = %s, want DONE_WAITING_SIGN", saved.Status.Key())
	}

	f = newWorkFixture(o)
	result, err := f.svc.Close(asTech("juan"), primary.CloseRequest{OrderID: "2"})
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if result.Order.Status != order.StatusClosed {
		t.Errorf("status = %s, want CLOSED", result.Order.Status.Key())
	}
}

func TestWorkService_DiscardAndList(t *testing.T) {
	f := newWorkFixture(inProgressOrder())
	if _, err := f.svc.Open(asTech("juan"), "2"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	drafts, err := f.svc.ListDrafts(context.Background())
	if err != nil || len(drafts) != 1 || drafts[0].Radicado != "BH-002" {
		t.Fatalf("ListDrafts = %+v, %v", drafts, err)
	}
	if err := f.svc.Discard(context.Background(), "2"); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if len(f.drafts.drafts) != 0 {
		t.Error("draft not discarded")
	}
}
