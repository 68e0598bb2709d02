package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pipemene/bluehome-os/internal/core/media"
	"github.com/pipemene/bluehome-os/internal/core/order"
)

func TestWriteBoard(t *testing.T) {
	video := media.FromURL("https://cdn.example/v.mp4")
	orders := []order.WorkOrder{
		{
			ID:         "1",
			Radicado:   "BH-0001",
			Status:     order.StatusInProgress,
			AssignedTo: "juan",
			CreatedAt:  order.Timestamp{Time: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
			Tenant:     order.Tenant{Code: "APT-101", Name: "Ana", Phone: "300", Type: order.TypeRepair, Description: "Fuga"},
			Attachments: order.Attachments{
				Images: []media.Ref{media.FromURL("https://cdn.example/a.jpg")},
				Video:  &video,
			},
			Work: &order.WorkRecord{Before: []media.Ref{media.FromURL("https://cdn.example/b.jpg")}},
		},
		{ID: "2", Radicado: "BH-0002", Status: order.StatusNew},
	}

	var buf bytes.Buffer
	if err := NewBoardWriter().WriteBoard(&buf, orders); err != nil {
		t.Fatalf("WriteBoard failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Radicado" || len(rows[0]) != len(Columns) {
		t.Errorf("unexpected header %v", rows[0])
	}

	first := rows[1]
	checks := map[int]string{0: "BH-0001", 1: "IN_PROGRESS", 2: "juan", 3: "2024-06-01 09:00", 10: "1", 11: "Sí", 12: "1", 13: "No"}
	for col, want := range checks {
		if first[col] != want {
			t.Errorf("column %s = %q, want %q", Columns[col], first[col], want)
		}
	}
	if rows[2][1] != "NEW" {
		t.Errorf("expected NEW, got %q", rows[2][1])
	}
}

func TestWriteBoard_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewBoardWriter().WriteBoard(&buf, nil); err != nil {
		t.Fatalf("WriteBoard failed: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(SheetName)
	if len(rows) != 1 {
		t.Errorf("expected only the header row, got %d", len(rows))
	}
}
