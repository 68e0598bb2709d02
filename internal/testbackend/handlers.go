package testbackend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const statusNew = "Pendiente de asignación"

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	if b.failing(w, RouteLogin) {
		return
	}
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	b.mu.Lock()
	u, ok := b.users[req.Username]
	b.mu.Unlock()
	if !ok || u.Password != req.Password {
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": issue(u)})
}

func (b *Backend) listOrders(w http.ResponseWriter, r *http.Request) {
	if b.failing(w, RouteList) {
		return
	}
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	b.mu.Lock()
	out := make([]map[string]json.RawMessage, len(b.orders))
	copy(out, b.orders)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request) {
	if b.failing(w, RouteCreate) {
		return
	}
	var in struct {
		Code        string          `json:"codigo"`
		Name        string          `json:"nombre"`
		Phone       string          `json:"telefono"`
		Email       string          `json:"email"`
		Type        string          `json:"tipo"`
		Description string          `json:"descripcion"`
		Images      json.RawMessage `json:"imgs"`
		Video       json.RawMessage `json:"video"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.Code == "" || in.Name == "" {
		writeError(w, http.StatusBadRequest, "codigo y nombre son obligatorios")
		return
	}
	if len(in.Images) == 0 {
		in.Images = json.RawMessage("[]")
	}
	if len(in.Video) == 0 {
		in.Video = json.RawMessage("null")
	}

	b.mu.Lock()
	id := fmt.Sprintf("%d", b.nextID)
	b.nextID++
	radicado := fmt.Sprintf("BH-%04d", b.nextRadicado)
	b.nextRadicado++
	b.orders = append(b.orders, map[string]json.RawMessage{
		"id":        mustJSON(id),
		"radicado":  mustJSON(radicado),
		"status":    mustJSON(statusNew),
		"createdAt": mustJSON(time.Now().UTC().Format(time.RFC3339)),
		"tenant": mustJSON(map[string]string{
			"codigo":      in.Code,
			"nombre":      in.Name,
			"telefono":    in.Phone,
			"email":       in.Email,
			"tipo":        in.Type,
			"descripcion": in.Description,
		}),
		"attachments": mustJSON(map[string]json.RawMessage{"imgs": in.Images, "video": in.Video}),
	})
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"radicado": radicado})
}

var patchable = map[string]bool{"status": true, "assignedTo": true, "work": true, "signature": true, "pdfUrl": true}

func (b *Backend) patchOrder(w http.ResponseWriter, r *http.Request) {
	if b.failing(w, RoutePatch) {
		return
	}
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	for k := range fields {
		if !patchable[k] {
			writeError(w, http.StatusBadRequest, "field not patchable: "+k)
			return
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.orders {
		if idOf(o) != id {
			continue
		}
		for k, v := range fields {
			o[k] = v
		}
		b.patches = append(b.patches, Patch{OrderID: id, Fields: fields})
		writeJSON(w, http.StatusOK, o)
		return
	}
	writeError(w, http.StatusNotFound, "orden no encontrada")
}

func (b *Backend) uploadURL(w http.ResponseWriter, r *http.Request) {
	if b.failing(w, RouteUploadURL) {
		return
	}
	var req struct {
		ContentType string `json:"contentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ContentType == "" {
		writeError(w, http.StatusBadRequest, "contentType required")
		return
	}
	key := uuid.NewString()
	b.mu.Lock()
	b.pending[key] = req.ContentType
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{
		"uploadUrl": b.server.URL + "/storage/upload/" + key,
		"publicUrl": b.server.URL + "/storage/objects/" + key,
	})
}

func (b *Backend) putObject(w http.ResponseWriter, r *http.Request) {
	if b.failing(w, RoutePut) {
		return
	}
	key := chi.URLParam(r, "key")
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.pending[key]; !ok {
		writeError(w, http.StatusForbidden, "unknown upload")
		return
	}
	delete(b.pending, key)
	b.objects[key] = data
	b.objectTypes[key] = r.Header.Get("Content-Type")
	w.WriteHeader(http.StatusOK)
}

func (b *Backend) getObject(w http.ResponseWriter, r *http.Request) {
	if b.failing(w, RouteObject) {
		return
	}
	key := chi.URLParam(r, "key")
	b.mu.Lock()
	data, ok := b.objects[key]
	ct := b.objectTypes[key]
	b.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	if ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	_, _ = w.Write(data)
}

func (b *Backend) sendPDF(w http.ResponseWriter, r *http.Request) {
	if b.failing(w, RouteSendPDF) {
		return
	}
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var m Mail
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil || m.ToEmail == "" {
		writeError(w, http.StatusBadRequest, "toEmail required")
		return
	}
	if !strings.HasPrefix(m.PDFBase64, "data:application/pdf") {
		writeError(w, http.StatusBadRequest, "pdfBase64 must be a data URI")
		return
	}
	b.mu.Lock()
	b.mails = append(b.mails, m)
	preview := b.preview
	b.mu.Unlock()
	resp := map[string]any{"ok": true}
	if preview != "" {
		resp["preview"] = preview
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) notify(w http.ResponseWriter, r *http.Request) {
	if b.failing(w, RouteNotify) {
		return
	}
	var n Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	b.mu.Lock()
	b.notifications = append(b.notifications, n)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
