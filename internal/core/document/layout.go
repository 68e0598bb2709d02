package document

import (
	"fmt"
	"strings"

	"github.com/pipemene/bluehome-os/internal/core/media"
)

type cursor struct {
	m    Measurer
	plan Plan
	page int
	y    float64
}

// Layout computes the draw operations for in. Pages are numbered from 1.
func Layout(in Input, m Measurer) Plan {
	c := &cursor{m: m, page: 1, y: Margin}

	company := in.Company
	if company == "" {
		company = DefaultCompany
	}
	c.line(company+" — Acta de Trabajo", headerSize, headerAdvance)
	c.line("Radicado: "+in.Radicado, bodySize, bodyAdvance)
	c.line("Fecha: "+in.GeneratedAt.Format("02/01/2006 15:04"), bodySize, bodyAdvance)
	c.line("Técnico: "+orDash(in.Technician), bodySize, bodyAdvance)
	c.line("Estado: "+in.Status, bodySize, bodyAdvance)
	c.line("Código Inmueble: "+in.TenantCode, bodySize, bodyAdvance)
	c.line(fmt.Sprintf("Inquilino: %s — Tel: %s", in.TenantName, in.TenantPhone), bodySize, bodyAdvance)

	c.y += blockGap
	c.line("Descripción de la solicitud:", titleSize, bodyAdvance)
	c.wrapped(in.Description)

	c.gallery("Antes:", in.Before)
	c.gallery("Durante:", in.During)
	c.gallery("Después:", in.After)

	c.section("Materiales utilizados:", orDash(in.Materials))
	c.section("Observaciones del técnico:", orDash(in.Notes))

	if in.Signature != "" {
		c.breakAfter(signatureBreakY)
		c.line("Firma del inquilino:", titleSize, blockGap)
		c.image(Margin, in.Signature, signatureWidth, signatureHeight)
		c.y += signatureAdvance
	} else {
		c.breakAfter(textBreakY)
		c.line(NoSignature, bodySize, bodyAdvance)
	}

	c.plan.Pages = c.page
	return c.plan
}

func (c *cursor) newPage() {
	c.page++
	c.y = Margin
}

func (c *cursor) breakAfter(threshold float64) {
	if c.y > threshold {
		c.newPage()
	}
}

func (c *cursor) line(text string, size, advance float64) {
	c.plan.Ops = append(c.plan.Ops, Op{Kind: OpText, Page: c.page, X: Margin, Y: c.y, FontSize: size, Text: text})
	c.y += advance
}

func (c *cursor) image(x float64, source string, w, h float64) {
	c.plan.Ops = append(c.plan.Ops, Op{Kind: OpImage, Page: c.page, X: x, Y: c.y, Width: w, Height: h, Source: source})
}

func (c *cursor) wrapped(text string) {
	for _, l := range Wrap(c.m, text, bodySize, PageWidth-2*Margin) {
		c.breakAfter(textBreakY)
		c.line(l, bodySize, wrapAdvance)
	}
	c.y += blockGap
}

func (c *cursor) section(title, body string) {
	c.breakAfter(textBreakY)
	c.line(title, titleSize, wrapAdvance)
	c.wrapped(body)
}

func (c *cursor) gallery(title string, refs []media.Ref) {
	if len(refs) == 0 {
		return
	}
	c.breakAfter(textBreakY)
	// The title stays with its first row.
	if c.y+galleryTitleAdvance+thumbSize > PageHeight-Margin {
		c.newPage()
	}
	c.line(title, titleSize, galleryTitleAdvance)

	x := Margin
	for _, ref := range refs {
		if c.y+thumbSize > PageHeight-Margin {
			c.newPage()
			x = Margin
		}
		c.image(x, ref.Source(), thumbSize, thumbSize)
		x += thumbSize + thumbGap
		if x+thumbSize > PageWidth-Margin {
			x = Margin
			c.y += thumbSize + thumbGap
		}
	}
	if x != Margin {
		c.y += thumbSize + thumbGap
	}
	c.y += blockGap
}

// Wrap breaks text into lines no wider than width. Explicit newlines are kept
// and words longer than a line are split by rune.
func Wrap(m Measurer, text string, size, width float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := ""
		for _, w := range words {
			for m.Width(w, size) > width {
				head, rest := splitWord(m, w, size, width)
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				lines = append(lines, head)
				w = rest
			}
			if current == "" {
				current = w
				continue
			}
			candidate := current + " " + w
			if m.Width(candidate, size) > width {
				lines = append(lines, current)
				current = w
				continue
			}
			current = candidate
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

func splitWord(m Measurer, w string, size, width float64) (string, string) {
	runes := []rune(w)
	n := 1
	for n < len(runes) && m.Width(string(runes[:n+1]), size) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return EmptyValue
	}
	return s
}
