// Package testbackend is an in-process fake of the work-order backend used
// by adapter and end-to-end tests.
package testbackend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Route names used with Fail.
const (
	RouteLogin     = "login"
	RouteList      = "list"
	RouteCreate    = "create"
	RoutePatch     = "patch"
	RouteUploadURL = "upload-url"
	RoutePut       = "put"
	RouteObject    = "object"
	RouteSendPDF   = "send-pdf"
	RouteNotify    = "notify"
)

var signingKey = []byte("testbackend-secret")

// User is an account accepted by POST /api/login.
type User struct {
	Username string
	Password string
	Name     string
	Role     string
}

// Request is a recorded inbound request.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          []byte
}

// Patch is a recorded PATCH body.
type Patch struct {
	OrderID string
	Fields  map[string]json.RawMessage
}

// Mail is a recorded /api/send-pdf call.
type Mail struct {
	OrderID   string `json:"orderId"`
	ToEmail   string `json:"toEmail"`
	PDFBase64 string `json:"pdfBase64"`
}

// Notification is a recorded /api/notify-manychat call.
type Notification struct {
	Text   string `json:"text"`
	UserID string `json:"userId"`
	APIKey string `json:"apiKey"`
}

// Backend is a running fake backend.
type Backend struct {
	server *httptest.Server

	mu            sync.Mutex
	users         map[string]User
	orders        []map[string]json.RawMessage
	nextID        int
	nextRadicado  int
	objects       map[string][]byte
	objectTypes   map[string]string
	pending       map[string]string
	failures      map[string]int
	requests      []Request
	patches       []Patch
	mails         []Mail
	notifications []Notification
	preview       string
}

// New starts a backend. Call Close when done.
func New() *Backend {
	b := &Backend{
		users:        make(map[string]User),
		nextID:       1,
		nextRadicado: 1,
		objects:      make(map[string][]byte),
		objectTypes:  make(map[string]string),
		pending:      make(map[string]string),
		failures:     make(map[string]int),
	}
	b.server = httptest.NewServer(b.routes())
	return b
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Post("/api/login", b.login)
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", b.listOrders)
		r.Post("/", b.createOrder)
		r.Patch("/{id}", b.patchOrder)
	})
	r.Post("/api/upload-url", b.uploadURL)
	r.Post("/api/send-pdf", b.sendPDF)
	r.Post("/api/notify-manychat", b.notify)
	r.Put("/storage/upload/{key}", b.putObject)
	r.Get("/storage/objects/{key}", b.getObject)
	return r
}

// URL is the backend's base URL.
func (b *Backend) URL() string { return b.server.URL }

// Close stops the server.
func (b *Backend) Close() { b.server.Close() }

// AddUser registers an account.
func (b *Backend) AddUser(u User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[u.Username] = u
}

// AddOrder stores an order given as a JSON-encodable value and returns its id.
// A missing id is assigned.
func (b *Backend) AddOrder(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testbackend: encode order: %v", err))
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		panic(fmt.Sprintf("testbackend: order must be an object: %v", err))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	id := idOf(fields)
	if id == "" {
		id = strconv.Itoa(b.nextID)
		fields["id"] = mustJSON(id)
	}
	b.nextID++
	b.orders = append(b.orders, fields)
	return id
}

// Order returns the stored fields of an order, or nil.
func (b *Backend) Order(id string) map[string]json.RawMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.orders {
		if idOf(o) == id {
			out := make(map[string]json.RawMessage, len(o))
			for k, v := range o {
				out[k] = v
			}
			return out
		}
	}
	return nil
}

// Token mints a credential for the named user, as login would.
func (b *Backend) Token(username string) string {
	b.mu.Lock()
	u := b.users[username]
	b.mu.Unlock()
	return issue(u)
}

// Fail makes route answer with status until cleared with status 0.
func (b *Backend) Fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, route)
		return
	}
	b.failures[route] = status
}

// SetPreview sets the preview URL returned by /api/send-pdf.
func (b *Backend) SetPreview(url string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.preview = url
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Patches returns the PATCH bodies received so far.
func (b *Backend) Patches() []Patch {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Patch(nil), b.patches...)
}

// Mails returns the recorded send-pdf calls.
func (b *Backend) Mails() []Mail {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Mail(nil), b.mails...)
}

// Notifications returns the recorded chat notifications.
func (b *Backend) Notifications() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Notification(nil), b.notifications...)
}

// Object returns an uploaded object by its public URL.
func (b *Backend) Object(publicURL string) ([]byte, bool) {
	key := publicURL[strings.LastIndex(publicURL, "/")+1:]
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	return data, ok
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// failing writes the configured failure for route and reports whether it did.
func (b *Backend) failing(w http.ResponseWriter, route string) bool {
	b.mu.Lock()
	status, ok := b.failures[route]
	b.mu.Unlock()
	if !ok {
		return false
	}
	writeError(w, status, route+" unavailable")
	return true
}

// authorized reports whether the request carries a valid bearer token.
func (b *Backend) authorized(r *http.Request) bool {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return false
	}
	_, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err == nil
}

func issue(u User) string {
	claims := jwt.MapClaims{
		"sub":  u.Username,
		"name": u.Name,
		"role": u.Role,
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(fmt.Sprintf("testbackend: sign token: %v", err))
	}
	return token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func idOf(fields map[string]json.RawMessage) string {
	raw, ok := fields["id"]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
