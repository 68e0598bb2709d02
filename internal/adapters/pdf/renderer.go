// Package pdf renders closing reports with go-pdf/fpdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	stddraw "image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"golang.org/x/image/webp"

	"github.com/pipemene/bluehome-os/internal/core/document"
	"github.com/pipemene/bluehome-os/internal/core/media"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

const fontFamily = "Helvetica"

// Renderer implements secondary.DocumentRenderer.
type Renderer struct {
	fetcher secondary.MediaFetcher
	logger  zerolog.Logger
}

// NewRenderer creates a renderer. fetcher resolves hosted images and may be
// nil, in which case only inline images are drawn.
func NewRenderer(fetcher secondary.MediaFetcher, logger zerolog.Logger) *Renderer {
	return &Renderer{fetcher: fetcher, logger: logger}
}

// measurer reports string widths with the report font.
type measurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (m measurer) Width(s string, fontSize float64) float64 {
	m.pdf.SetFontSize(fontSize)
	return m.pdf.GetStringWidth(m.tr(s))
}

// Render lays out in and returns the PDF bytes. The creation date is pinned
// to in.GeneratedAt so equal inputs give identical output.
func (r *Renderer) Render(ctx context.Context, in document.Input) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(document.Margin, document.Margin, document.Margin)
	pdf.SetCreationDate(in.GeneratedAt)
	pdf.SetModificationDate(in.GeneratedAt)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("bluehome", true)
	pdf.SetTitle(document.FileName(in.Radicado), true)
	pdf.SetFont(fontFamily, "", 10)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	plan := document.Layout(in, measurer{pdf: pdf, tr: tr})

	images := newImageCache(r, pdf)
	page := 0
	for _, op := range plan.Ops {
		for page < op.Page {
			pdf.AddPage()
			page++
		}
		switch op.Kind {
		case document.OpText:
			pdf.SetFontSize(op.FontSize)
			pdf.Text(op.X, op.Y, tr(op.Text))
		case document.OpImage:
			name, ok := images.get(ctx, op.Source)
			if !ok {
				drawUnavailable(pdf, tr, op)
				continue
			}
			pdf.ImageOptions(name, op.X, op.Y, op.Width, op.Height, false, fpdf.ImageOptions{}, 0, "")
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to render report: %w", err)
		}
	}
	for page < plan.Pages {
		pdf.AddPage()
		page++
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return buf.Bytes(), nil
}

func drawUnavailable(pdf *fpdf.Fpdf, tr func(string) string, op document.Op) {
	pdf.SetDrawColor(160, 160, 160)
	pdf.Rect(op.X, op.Y, op.Width, op.Height, "D")
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFontSize(8)
	pdf.Text(op.X+6, op.Y+op.Height/2, tr(document.ImageUnavailable))
}

// imageCache registers each distinct source once per document.
type imageCache struct {
	r     *Renderer
	pdf   *fpdf.Fpdf
	names map[string]string
}

func newImageCache(r *Renderer, pdf *fpdf.Fpdf) *imageCache {
	return &imageCache{r: r, pdf: pdf, names: make(map[string]string)}
}

// get returns the registered image name for source, or false when the image
// cannot be resolved or decoded.
func (c *imageCache) get(ctx context.Context, source string) (string, bool) {
	if name, ok := c.names[source]; ok {
		return name, name != ""
	}

	data, err := c.r.resolve(ctx, source)
	if err == nil {
		var kind string
		data, kind, err = embeddable(data)
		if err == nil {
			name := fmt.Sprintf("img%d", len(c.names)+1)
			c.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: kind}, bytes.NewReader(data))
			if c.pdf.Ok() {
				c.names[source] = name
				return name, true
			}
			err = c.pdf.Error()
			c.pdf.ClearError()
		}
	}

	c.r.logger.Warn().Err(err).Str("source", abbreviate(source)).Msg("image unavailable in report")
	c.names[source] = ""
	return "", false
}

// resolve returns the raw bytes behind an image source.
func (r *Renderer) resolve(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("empty image source")
	}
	if strings.HasPrefix(source, "data:") {
		data, _, err := media.DecodeDataURL(source)
		return data, err
	}
	if r.fetcher == nil {
		return nil, fmt.Errorf("no fetcher for %s", source)
	}
	data, _, err := r.fetcher.Fetch(ctx, source)
	return data, err
}

// embeddable returns data in a form fpdf can embed. JPEG passes through;
// PNG, GIF and WebP are re-encoded as 8-bit non-interlaced PNG.
func embeddable(data []byte) ([]byte, string, error) {
	ct := http.DetectContentType(data)
	if ct == "image/jpeg" {
		if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
			return nil, "", fmt.Errorf("invalid jpeg: %w", err)
		}
		return data, "JPG", nil
	}

	var (
		img image.Image
		err error
	)
	switch ct {
	case "image/png", "image/gif":
		img, _, err = image.Decode(bytes.NewReader(data))
	case "image/webp":
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, "", fmt.Errorf("unsupported image type %s", ct)
	}
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", ct, err)
	}

	rgba := image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	stddraw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, stddraw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, "", fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), "PNG", nil
}

func abbreviate(source string) string {
	if strings.HasPrefix(source, "data:") {
		if i := strings.IndexByte(source, ','); i > 0 {
			return source[:i] + ",…"
		}
	}
	return source
}

var _ secondary.DocumentRenderer = (*Renderer)(nil)
