// Package document lays out the closing report ("acta") of a work order.
// This is part of the Functional Core - it produces draw operations and
// never touches fonts, images or files.
package document

import (
	"encoding/base64"
	"time"

	"github.com/pipemene/bluehome-os/internal/core/media"
)

// Page geometry in points (A4).
const (
	PageWidth  = 595.28
	PageHeight = 841.89
	Margin     = 40.0
)

const (
	headerSize    = 16.0
	headerAdvance = 18.0
	bodySize      = 10.0
	bodyAdvance   = 14.0
	titleSize     = 12.0
	wrapAdvance   = 12.0
	blockGap      = 6.0

	textBreakY      = 740.0
	signatureBreakY = 640.0

	thumbSize           = 140.0
	thumbGap            = 10.0
	galleryTitleAdvance = 8.0

	signatureWidth   = 220.0
	signatureHeight  = 110.0
	signatureAdvance = 120.0
)

// Placeholder labels used by the renderer.
const (
	NoSignature      = "(Sin firma — pendiente)"
	ImageUnavailable = "(imagen no disponible)"
	EmptyValue       = "—"
)

// DefaultCompany heads the report when no company name is configured.
const DefaultCompany = "Blue Home Inmobiliaria"

// Input is everything the report shows.
type Input struct {
	Company     string
	Radicado    string
	GeneratedAt time.Time
	Technician  string
	Status      string
	TenantCode  string
	TenantName  string
	TenantPhone string
	Description string
	Before      []media.Ref
	During      []media.Ref
	After       []media.Ref
	Materials   string
	Notes       string
	Signature   string
}

// OpKind distinguishes draw operations.
type OpKind int

const (
	OpText OpKind = iota
	OpImage
)

// Op is a single draw operation. Text ops are positioned at their baseline,
// image ops at their top-left corner.
type Op struct {
	Kind     OpKind
	Page     int
	X, Y     float64
	FontSize float64
	Text     string
	Width    float64
	Height   float64
	Source   string
}

// Plan is the laid-out report.
type Plan struct {
	Pages int
	Ops   []Op
}

// Measurer reports the rendered width of s at the given font size.
type Measurer interface {
	Width(s string, fontSize float64) float64
}

// FileName returns the report's file name for an order.
func FileName(radicado string) string {
	return "Acta_" + radicado + ".pdf"
}

// DataURI renders a PDF as the inline form sent to the email relay.
func DataURI(pdf []byte) string {
	return "data:application/pdf;filename=generated.pdf;base64," + base64.StdEncoding.EncodeToString(pdf)
}
