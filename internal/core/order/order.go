package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pipemene/bluehome-os/internal/core/media"
)

// RequestType classifies a tenant request.
type RequestType string

const (
	TypeRepair      RequestType = "reparacion"
	TypeMaintenance RequestType = "mantenimiento"
	TypeOther       RequestType = "otro"
)

// RequestTypes lists the accepted request types.
var RequestTypes = []RequestType{TypeRepair, TypeMaintenance, TypeOther}

// ParseRequestType validates v; an empty value means TypeRepair.
func ParseRequestType(v string) (RequestType, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return TypeRepair, nil
	}
	for _, t := range RequestTypes {
		if string(t) == v {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown request type %q (expected reparacion, mantenimiento or otro)", v)
}

// ID is the server-assigned order identifier. Backends emit it either as a
// JSON string or a number; it is always carried as a string.
type ID string

// UnmarshalJSON accepts strings and numbers.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if string(b) == "null" {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid order id %s", b)
	}
	*id = ID(n.String())
	return nil
}

// Timestamp accepts RFC 3339 strings or epoch milliseconds.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses RFC 3339 strings and epoch milliseconds.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" || len(b) == 0 {
		t.Time = time.Time{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		t.Time = parsed
		return nil
	}
	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s", b)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

// MarshalJSON renders the timestamp as RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Tenant is the tenant snapshot embedded in an order at intake.
type Tenant struct {
	Code        string      `json:"codigo"`
	Name        string      `json:"nombre"`
	Phone       string      `json:"telefono"`
	Email       string      `json:"email,omitempty"`
	Type        RequestType `json:"tipo"`
	Description string      `json:"descripcion"`
}

// Attachments are the media captured at intake.
type Attachments struct {
	Images []media.Ref `json:"imgs"`
	Video  *media.Ref  `json:"video"`
}

// WorkRecord is the technician-authored evidence. It is always replaced whole.
type WorkRecord struct {
	Before    []media.Ref `json:"before"`
	During    []media.Ref `json:"during"`
	After     []media.Ref `json:"after"`
	Materials string      `json:"materials"`
	Notes     string      `json:"notes"`
}

// WorkOrder is the backend's work order as seen by this client.
type WorkOrder struct {
	ID          ID          `json:"id"`
	Radicado    string      `json:"radicado"`
	Status      Status      `json:"status"`
	AssignedTo  string      `json:"assignedTo,omitempty"`
	CreatedAt   Timestamp   `json:"createdAt"`
	Tenant      Tenant      `json:"tenant"`
	Attachments Attachments `json:"attachments"`
	Work        *WorkRecord `json:"work,omitempty"`
	Signature   string      `json:"signature,omitempty"`
	PDFURL      string      `json:"pdfUrl,omitempty"`
}

// Intake is the payload of a new order. Tenant fields are sent flat.
type Intake struct {
	Code        string      `json:"codigo"`
	Name        string      `json:"nombre"`
	Phone       string      `json:"telefono"`
	Email       string      `json:"email"`
	Type        RequestType `json:"tipo"`
	Description string      `json:"descripcion"`
	Images      []media.Ref `json:"imgs"`
	Video       *media.Ref  `json:"video"`
}

// Patch names the top-level fields to replace on an order. Nil fields are
// not sent; Work is sent whole.
type Patch struct {
	Status     *Status     `json:"status,omitempty"`
	AssignedTo *string     `json:"assignedTo,omitempty"`
	Work       *WorkRecord `json:"work,omitempty"`
	Signature  *string     `json:"signature,omitempty"`
	PDFURL     *string     `json:"pdfUrl,omitempty"`
}

// Fields returns the names of the fields the patch sets, in wire order.
func (p Patch) Fields() []string {
	var out []string
	if p.Status != nil {
		out = append(out, "status")
	}
	if p.AssignedTo != nil {
		out = append(out, "assignedTo")
	}
	if p.Work != nil {
		out = append(out, "work")
	}
	if p.Signature != nil {
		out = append(out, "signature")
	}
	if p.PDFURL != nil {
		out = append(out, "pdfUrl")
	}
	return out
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }

// Normalized returns a copy whose photo sequences are non-nil, so they encode
// as [] rather than null.
func (w WorkRecord) Normalized() WorkRecord {
	out := w
	if out.Before == nil {
		out.Before = []media.Ref{}
	}
	if out.During == nil {
		out.During = []media.Ref{}
	}
	if out.After == nil {
		out.After = []media.Ref{}
	}
	return out
}

// Phase names a work-record photo sequence.
type Phase string

const (
	PhaseBefore Phase = "before"
	PhaseDuring Phase = "during"
	PhaseAfter  Phase = "after"
)

// ParsePhase validates a phase name.
func ParsePhase(v string) (Phase, error) {
	switch p := Phase(strings.ToLower(strings.TrimSpace(v))); p {
	case PhaseBefore, PhaseDuring, PhaseAfter:
		return p, nil
	}
	return "", fmt.Errorf("unknown phase %q (expected before, during or after)", v)
}

// Photos returns the sequence for a phase.
func (w WorkRecord) Photos(p Phase) []media.Ref {
	switch p {
	case PhaseBefore:
		return w.Before
	case PhaseDuring:
		return w.During
	case PhaseAfter:
		return w.After
	}
	return nil
}

// WithPhotos returns a copy with refs appended to the phase's sequence.
func (w WorkRecord) WithPhotos(p Phase, refs ...media.Ref) WorkRecord {
	out := w
	switch p {
	case PhaseBefore:
		out.Before = append(append([]media.Ref{}, w.Before...), refs...)
	case PhaseDuring:
		out.During = append(append([]media.Ref{}, w.During...), refs...)
	case PhaseAfter:
		out.After = append(append([]media.Ref{}, w.After...), refs...)
	}
	return out
}
