package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// ErrLoginFailed is returned when the backend refuses a login.
var ErrLoginFailed = errors.New("login failed")

// AuthGateway implements secondary.AuthGateway.
type AuthGateway struct {
	client *Client
}

// NewAuthGateway creates an auth gateway.
func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

// Login exchanges credentials for a token.
func (g *AuthGateway) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := g.client.doJSON(ctx, http.MethodPost, "/api/login", loginRequest{Username: username, Password: password}, false, &resp)
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" && !strings.HasPrefix(apiErr.Message, "<") {
			return "", fmt.Errorf("%w: %s", ErrLoginFailed, apiErr.Message)
		}
		return "", ErrLoginFailed
	case err != nil:
		return "", err
	}
	if resp.Token == "" {
		if resp.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrLoginFailed, resp.Error)
		}
		return "", ErrLoginFailed
	}
	return resp.Token, nil
}

// UploadGateway implements secondary.UploadGateway.
type UploadGateway struct {
	client *Client
}

// NewUploadGateway creates an upload gateway.
func NewUploadGateway(client *Client) *UploadGateway {
	return &UploadGateway{client: client}
}

type uploadURLRequest struct {
	ContentType string `json:"contentType"`
}

type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

// RequestUpload asks the backend for a pre-signed URL.
func (g *UploadGateway) RequestUpload(ctx context.Context, contentType string, withAuth bool) (*secondary.UploadGrant, error) {
	var resp uploadURLResponse
	if err := g.client.doJSON(ctx, http.MethodPost, "/api/upload-url", uploadURLRequest{ContentType: contentType}, withAuth, &resp); err != nil {
		return nil, err
	}
	return &secondary.UploadGrant{UploadURL: resp.UploadURL, PublicURL: resp.PublicURL}, nil
}

// Put transfers data to a granted upload URL. The object store authenticates
// through the URL itself, so no bearer token is sent.
func (g *UploadGateway) Put(ctx context.Context, uploadURL, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.ContentLength = int64(len(data))

	resp, err := g.client.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: "upload rejected"}
	}
	return nil
}

// MailGateway implements secondary.MailGateway.
type MailGateway struct {
	client *Client
}

// NewMailGateway creates a mail gateway.
func NewMailGateway(client *Client) *MailGateway {
	return &MailGateway{client: client}
}

type sendPDFRequest struct {
	OrderID   string `json:"orderId"`
	ToEmail   string `json:"toEmail"`
	PDFBase64 string `json:"pdfBase64"`
}

type sendPDFResponse struct {
	Preview string `json:"preview"`
}

// SendPDF asks the backend to email the report.
func (g *MailGateway) SendPDF(ctx context.Context, req secondary.SendPDFRequest) (string, error) {
	var resp sendPDFResponse
	body := sendPDFRequest{OrderID: req.OrderID, ToEmail: req.ToEmail, PDFBase64: req.PDFBase64}
	if err := g.client.doJSON(ctx, http.MethodPost, "/api/send-pdf", body, true, &resp); err != nil {
		return "", err
	}
	return resp.Preview, nil
}

// NotifyGateway implements secondary.NotifyGateway.
type NotifyGateway struct {
	client *Client
}

// NewNotifyGateway creates a notification gateway.
func NewNotifyGateway(client *Client) *NotifyGateway {
	return &NotifyGateway{client: client}
}

type notifyRequest struct {
	Text   string `json:"text"`
	UserID string `json:"userId"`
	APIKey string `json:"apiKey"`
}

// Notify posts a chat notification through the relay.
func (g *NotifyGateway) Notify(ctx context.Context, req secondary.NotifyRequest) error {
	body := notifyRequest{Text: req.Text, UserID: req.UserID, APIKey: req.APIKey}
	return g.client.doJSON(ctx, http.MethodPost, "/api/notify-manychat", body, false, nil)
}

// MediaFetcher implements secondary.MediaFetcher for hosted images.
type MediaFetcher struct {
	client *Client
}

// NewMediaFetcher creates a media fetcher.
func NewMediaFetcher(client *Client) *MediaFetcher {
	return &MediaFetcher{client: client}
}

// maxMediaBytes bounds a single fetched image.
const maxMediaBytes = 25 << 20

// Fetch downloads url and returns its body and media type.
func (f *MediaFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create media request: %w", err)
	}
	resp, err := f.client.send(ctx, req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &APIError{Status: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read media: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

var (
	_ secondary.AuthGateway   = (*AuthGateway)(nil)
	_ secondary.UploadGateway = (*UploadGateway)(nil)
	_ secondary.MailGateway   = (*MailGateway)(nil)
	_ secondary.NotifyGateway = (*NotifyGateway)(nil)
	_ secondary.MediaFetcher  = (*MediaFetcher)(nil)
)
