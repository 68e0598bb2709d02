// Package xlsx exports the dispatch board as a spreadsheet.
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// SheetName is the name of the exported sheet.
const SheetName = "Ordenes"

// Columns are the header cells, in order.
var Columns = []string{
	"Radicado", "Estado", "Asignado a", "Creada", "Código Inmueble",
	"Inquilino", "Teléfono", "Email", "Tipo", "Descripción",
	"Fotos", "Video", "Fotos trabajo", "Firma", "PDF",
}

// BoardWriter implements secondary.SpreadsheetWriter.
type BoardWriter struct{}

// NewBoardWriter creates a board writer.
func NewBoardWriter() *BoardWriter {
	return &BoardWriter{}
}

// WriteBoard writes one row per order to w.
func (b *BoardWriter) WriteBoard(w io.Writer, orders []order.WorkOrder) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E79"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, title := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, title); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for r, o := range orders {
		row := r + 2
		for c, v := range rowValues(o) {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write order %s: %w", o.Radicado, err)
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", "I", 18); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(SheetName, "J", "J", 48); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

func rowValues(o order.WorkOrder) []any {
	created := ""
	if !o.CreatedAt.IsZero() {
		created = o.CreatedAt.Format("2006-01-02 15:04")
	}
	workPhotos := 0
	if o.Work != nil {
		workPhotos = len(o.Work.Before) + len(o.Work.During) + len(o.Work.After)
	}
	return []any{
		o.Radicado,
		o.Status.Key(),
		o.AssignedTo,
		created,
		o.Tenant.Code,
		o.Tenant.Name,
		o.Tenant.Phone,
		o.Tenant.Email,
		string(o.Tenant.Type),
		strings.TrimSpace(o.Tenant.Description),
		len(o.Attachments.Images),
		yesNo(o.Attachments.Video != nil && !o.Attachments.Video.IsZero()),
		workPhotos,
		yesNo(o.Signature != ""),
		o.PDFURL,
	}
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

var _ secondary.SpreadsheetWriter = (*BoardWriter)(nil)
