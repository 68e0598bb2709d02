package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// OrderGateway implements secondary.OrderGateway over the backend API.
type OrderGateway struct {
	client *Client
}

// NewOrderGateway creates an order gateway.
func NewOrderGateway(client *Client) *OrderGateway {
	return &OrderGateway{client: client}
}

// List fetches every order. The backend answers with a bare array; an
// {"orders": [...]} envelope is accepted too.
func (g *OrderGateway) List(ctx context.Context) ([]order.WorkOrder, error) {
	var raw json.RawMessage
	if err := g.client.doJSON(ctx, http.MethodGet, "/api/orders", nil, true, &raw); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var orders []order.WorkOrder
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &orders); err != nil {
			return nil, fmt.Errorf("decode orders: %w", err)
		}
		return orders, nil
	}
	var envelope struct {
		Orders []order.WorkOrder `json:"orders"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return envelope.Orders, nil
}

type createResponse struct {
	Radicado string `json:"radicado"`
	Error    string `json:"error"`
}

// Create submits a new intake.
func (g *OrderGateway) Create(ctx context.Context, intake order.Intake) (string, error) {
	var resp createResponse
	err := g.client.doJSON(ctx, http.MethodPost, "/api/orders", intake, false, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return "", errors.New(apiErr.Message)
	}
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", errors.New(resp.Error)
	}
	if resp.Radicado == "" {
		return "", errors.New("backend returned no radicado")
	}
	return resp.Radicado, nil
}

// Patch replaces the named top-level fields of an order.
func (g *OrderGateway) Patch(ctx context.Context, orderID string, patch order.Patch) error {
	if len(patch.Fields()) == 0 {
		return nil
	}
	return g.client.doJSON(ctx, http.MethodPatch, "/api/orders/"+url.PathEscape(orderID), patch, true, nil)
}

var _ secondary.OrderGateway = (*OrderGateway)(nil)
