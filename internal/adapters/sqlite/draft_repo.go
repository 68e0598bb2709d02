// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// DraftRepository implements secondary.DraftRepository with SQLite.
type DraftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a new SQLite draft repository.
func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// Get returns the draft for an order, or nil when none exists.
func (r *DraftRepository) Get(ctx context.Context, orderID string) (*secondary.DraftRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT order_id, radicado, work_json, signature, email, updated_at FROM work_drafts WHERE order_id = ?",
		orderID,
	)
	record, err := scanDraft(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return record, nil
}

// Save creates or replaces a draft.
func (r *DraftRepository) Save(ctx context.Context, draft *secondary.DraftRecord) error {
	work, err := json.Marshal(draft.Work)
	if err != nil {
		return fmt.Errorf("failed to encode work record: %w", err)
	}
	updatedAt := draft.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO work_drafts (order_id, radicado, work_json, signature, email, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(order_id) DO UPDATE SET
			radicado = excluded.radicado,
			work_json = excluded.work_json,
			signature = excluded.signature,
			email = excluded.email,
			updated_at = excluded.updated_at`,
		draft.OrderID, draft.Radicado, string(work), nullString(draft.Signature), nullString(draft.Email), updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Delete removes a draft.
func (r *DraftRepository) Delete(ctx context.Context, orderID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM work_drafts WHERE order_id = ?", orderID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// List returns every draft, most recently updated first.
func (r *DraftRepository) List(ctx context.Context) ([]*secondary.DraftRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT order_id, radicado, work_json, signature, email, updated_at FROM work_drafts ORDER BY updated_at DESC, order_id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*secondary.DraftRecord
	for rows.Next() {
		record, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, record)
	}
	return drafts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(s scanner) (*secondary.DraftRecord, error) {
	var (
		record    secondary.DraftRecord
		work      string
		signature sql.NullString
		email     sql.NullString
		updatedAt time.Time
	)
	if err := s.Scan(&record.OrderID, &record.Radicado, &work, &signature, &email, &updatedAt); err != nil {
		return nil, err
	}
	var w order.WorkRecord
	if err := json.Unmarshal([]byte(work), &w); err != nil {
		return nil, fmt.Errorf("failed to decode work record for order %s: %w", record.OrderID, err)
	}
	record.Work = w
	record.Signature = signature.String
	record.Email = email.String
	record.UpdatedAt = updatedAt.UTC()
	return &record, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ secondary.DraftRepository = (*DraftRepository)(nil)
