package document

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pipemene/bluehome-os/internal/core/media"
)

// fixedWidth measures every rune as half the font size.
type fixedWidth struct{}

func (fixedWidth) Width(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * 0.5
}

func refs(n int) []media.Ref {
	out := make([]media.Ref, n)
	for i := range out {
		out[i] = media.FromURL("https://cdn.example/p" + string(rune('a'+i)) + ".jpg")
	}
	return out
}

func baseInput() Input {
	return Input{
		Radicado:    "BH-0042",
		GeneratedAt: time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC),
		Technician:  "juan",
		Status:      "En proceso",
		TenantCode:  "APT-12",
		TenantName:  "Ana Pérez",
		TenantPhone: "3001234567",
		Description: "Gotera",
	}
}

func images(p Plan) []Op {
	var out []Op
	for _, op := range p.Ops {
		if op.Kind == OpImage {
			out = append(out, op)
		}
	}
	return out
}

func findText(p Plan, prefix string) (Op, bool) {
	for _, op := range p.Ops {
		if op.Kind == OpText && strings.HasPrefix(op.Text, prefix) {
			return op, true
		}
	}
	return Op{}, false
}

func TestLayoutHeader(t *testing.T) {
	plan := Layout(baseInput(), fixedWidth{})

	want := []struct {
		text string
		y    float64
		size float64
	}{
		{"Blue Home Inmobiliaria — Acta de Trabajo", 40, 16},
		{"Radicado: BH-0042", 58, 10},
		{"Fecha: 10/06/2024 14:30", 72, 10},
		{"Técnico: juan", 86, 10},
		{"Estado: En proceso", 100, 10},
		{"Código Inmueble: APT-12", 114, 10},
		{"Inquilino: Ana Pérez — Tel: 3001234567", 128, 10},
		{"Descripción de la solicitud:", 148, 12},
		{"Gotera", 162, 10},
	}
	for i, w := range want {
		op := plan.Ops[i]
		if op.Text != w.text || op.Y != w.y || op.FontSize != w.size {
			t.Errorf("op %d = {%q y=%v size=%v}, want {%q y=%v size=%v}", i, op.Text, op.Y, op.FontSize, w.text, w.y, w.size)
		}
	}
	if plan.Pages != 1 {
		t.Errorf("Pages = %d, want 1", plan.Pages)
	}
}

func TestLayoutCompanyAndDashes(t *testing.T) {
	in := baseInput()
	in.Company = "Acme"
	in.Technician = ""
	plan := Layout(in, fixedWidth{})

	if plan.Ops[0].Text != "Acme — Acta de Trabajo" {
		t.Errorf("header = %q", plan.Ops[0].Text)
	}
	if op, _ := findText(plan, "Técnico:"); op.Text != "Técnico: —" {
		t.Errorf("technician line = %q", op.Text)
	}
	mat, _ := findText(plan, "Materiales utilizados:")
	var next Op
	for i, op := range plan.Ops {
		if op == mat {
			next = plan.Ops[i+1]
		}
	}
	if next.Text != EmptyValue {
		t.Errorf("empty materials rendered as %q, want %q", next.Text, EmptyValue)
	}
}

func TestLayoutGalleryRows(t *testing.T) {
	in := baseInput()
	in.Before = refs(4)
	plan := Layout(in, fixedWidth{})

	imgs := images(plan)
	if len(imgs) != 4 {
		t.Fatalf("expected 4 images, got %d", len(imgs))
	}
	wantPos := [][2]float64{{40, 188}, {190, 188}, {340, 188}, {40, 338}}
	for i, p := range wantPos {
		if imgs[i].X != p[0] || imgs[i].Y != p[1] {
			t.Errorf("image %d at (%v,%v), want (%v,%v)", i, imgs[i].X, imgs[i].Y, p[0], p[1])
		}
		if imgs[i].Width != 140 || imgs[i].Height != 140 {
			t.Errorf("image %d size %vx%v", i, imgs[i].Width, imgs[i].Height)
		}
	}

	// The partial second row must not overlap the following section.
	mat, ok := findText(plan, "Materiales utilizados:")
	if !ok {
		t.Fatal("materials section missing")
	}
	if mat.Y < 338+140 {
		t.Errorf("materials title at y=%v overlaps the gallery", mat.Y)
	}
	if mat.Y != 494 {
		t.Errorf("materials title at y=%v, want 494", mat.Y)
	}
}

func TestLayoutGalleryPageBreak(t *testing.T) {
	in := baseInput()
	in.Before = refs(13)
	plan := Layout(in, fixedWidth{})

	imgs := images(plan)
	if imgs[11].Page != 1 || imgs[11].Y != 638 {
		t.Errorf("image 12 on page %d at y=%v, want page 1 y=638", imgs[11].Page, imgs[11].Y)
	}
	last := imgs[12]
	if last.Page != 2 || last.X != 40 || last.Y != 40 {
		t.Errorf("image 13 on page %d at (%v,%v), want page 2 (40,40)", last.Page, last.X, last.Y)
	}
	for _, op := range imgs {
		if op.Page == 1 && op.Y+op.Height > PageHeight-Margin {
			t.Errorf("image at y=%v overflows the page", op.Y)
		}
	}
	if plan.Pages != 2 {
		t.Errorf("Pages = %d, want 2", plan.Pages)
	}
}

func TestLayoutGalleryTitleKeepsWithFirstRow(t *testing.T) {
	in := baseInput()
	in.Description = strings.Repeat("x\n", 44) + "x"
	in.Before = refs(1)
	plan := Layout(in, fixedWidth{})

	title, ok := findText(plan, "Antes:")
	if !ok {
		t.Fatal("gallery title missing")
	}
	imgs := images(plan)
	if len(imgs) != 1 {
		t.Fatalf("expected 1 image, got %d", len(imgs))
	}
	if title.Page != 2 || title.Y != 40 {
		t.Errorf("title on page %d at y=%v, want page 2 y=40", title.Page, title.Y)
	}
	if imgs[0].Page != 2 || imgs[0].Y != 48 {
		t.Errorf("image on page %d at y=%v, want page 2 y=48", imgs[0].Page, imgs[0].Y)
	}
}

func TestLayoutSignature(t *testing.T) {
	tests := []struct {
		name     string
		photos   int
		wantPage int
		wantY    float64
	}{
		{name: "fits on the same page", photos: 6, wantPage: 1, wantY: 560},
		{name: "moves to a new page past the threshold", photos: 9, wantPage: 2, wantY: 46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			in.After = refs(tt.photos)
			in.Signature = "data:image/png;base64,AA=="
			plan := Layout(in, fixedWidth{})

			imgs := images(plan)
			sig := imgs[len(imgs)-1]
			if sig.Source != in.Signature || sig.Width != 220 || sig.Height != 110 {
				t.Fatalf("unexpected signature op %+v", sig)
			}
			if sig.Page != tt.wantPage || sig.Y != tt.wantY {
				t.Errorf("signature on page %d at y=%v, want page %d y=%v", sig.Page, sig.Y, tt.wantPage, tt.wantY)
			}
			title, _ := findText(plan, "Firma del inquilino:")
			if title.Page != sig.Page || title.Y != sig.Y-6 {
				t.Errorf("signature title on page %d y=%v", title.Page, title.Y)
			}
		})
	}
}

func TestLayoutWithoutSignature(t *testing.T) {
	plan := Layout(baseInput(), fixedWidth{})

	last := plan.Ops[len(plan.Ops)-1]
	if last.Kind != OpText || last.Text != NoSignature {
		t.Errorf("last op = %+v, want the pending signature line", last)
	}
	if _, ok := findText(plan, "Firma del inquilino:"); ok {
		t.Error("signature title should not be drawn without a signature")
	}
}

func TestLayoutLongTextBreaksPerLine(t *testing.T) {
	in := baseInput()
	in.Notes = strings.Repeat("palabra ", 800)
	plan := Layout(in, fixedWidth{})

	if plan.Pages < 2 {
		t.Fatalf("expected long notes to span pages, got %d", plan.Pages)
	}
	for _, op := range plan.Ops {
		if op.Kind == OpText && op.Y > textBreakY+wrapAdvance {
			t.Errorf("text %q at y=%v past the break threshold", op.Text, op.Y)
		}
	}
}

func TestLayoutIsDeterministic(t *testing.T) {
	in := baseInput()
	in.During = refs(5)
	a := Layout(in, fixedWidth{})
	b := Layout(in, fixedWidth{})
	if len(a.Ops) != len(b.Ops) {
		t.Fatal("plans differ in length")
	}
	for i := range a.Ops {
		if a.Ops[i] != b.Ops[i] {
			t.Errorf("op %d differs: %+v vs %+v", i, a.Ops[i], b.Ops[i])
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{name: "fits", text: "hola mundo", width: 100, want: []string{"hola mundo"}},
		{name: "breaks between words", text: "uno dos tres", width: 40, want: []string{"uno dos", "tres"}},
		{name: "keeps newlines", text: "a\n\nb", width: 100, want: []string{"a", "", "b"}},
		{name: "splits long words", text: "abcdefghij", width: 20, want: []string{"abcd", "efgh", "ij"}},
		{name: "empty", text: "", width: 100, want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(fixedWidth{}, tt.text, 10, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Wrap(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("BH-7"); got != "Acta_BH-7.pdf" {
		t.Errorf("FileName = %q", got)
	}
}

func TestDataURI(t *testing.T) {
	got := DataURI([]byte("%PDF"))
	if got != "data:application/pdf;filename=generated.pdf;base64,JVBERg==" {
		t.Errorf("DataURI = %q", got)
	}
	data, mime, err := media.DecodeDataURL(got)
	if err != nil || mime != "application/pdf" || string(data) != "%PDF" {
		t.Errorf("DecodeDataURL = %q, %q, %v", data, mime, err)
	}
}
