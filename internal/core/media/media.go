// Package media holds the two-variant reference to uploaded content and the
// data URL helpers used to build its inline form.
package media

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// File is a local file ready to be uploaded.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Ref references uploaded content: either an externally hosted URL or an
// inline data URL. Exactly one of the two is set on a non-zero Ref.
type Ref struct {
	url    string
	inline string
}

// FromURL builds a Ref to externally hosted content.
func FromURL(u string) Ref { return Ref{url: u} }

// FromInline builds a Ref carrying a self-contained data URL.
func FromInline(dataURL string) Ref { return Ref{inline: dataURL} }

// IsZero reports whether neither variant is set.
func (r Ref) IsZero() bool { return r.url == "" && r.inline == "" }

// IsURL reports whether r is the hosted variant.
func (r Ref) IsURL() bool { return r.url != "" }

// IsInline reports whether r is the inline variant.
func (r Ref) IsInline() bool { return r.url == "" && r.inline != "" }

// URL returns the hosted URL, or "" for inline refs.
func (r Ref) URL() string { return r.url }

// Inline returns the data URL, or "" for hosted refs.
func (r Ref) Inline() string {
	if r.url != "" {
		return ""
	}
	return r.inline
}

// Source returns whichever variant is set. Only rendering code should need it.
func (r Ref) Source() string {
	if r.url != "" {
		return r.url
	}
	return r.inline
}

type wireRef struct {
	URL    string `json:"url,omitempty"`
	Base64 string `json:"base64,omitempty"`
	Data   string `json:"data,omitempty"`
}

// MarshalJSON encodes r as {"url": ...} or {"base64": ...}.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	if r.url != "" {
		return json.Marshal(wireRef{URL: r.url})
	}
	return json.Marshal(wireRef{Base64: r.inline})
}

// UnmarshalJSON accepts {"url"}, {"base64"} and the older {"data"} shape.
func (r *Ref) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Ref{}
		return nil
	}
	var w wireRef
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("invalid media reference: %w", err)
	}
	switch {
	case w.URL != "":
		*r = FromURL(w.URL)
	case w.Base64 != "":
		*r = FromInline(w.Base64)
	default:
		*r = FromInline(w.Data)
	}
	return nil
}

// EncodeDataURL renders data as data:<mime>;base64,<payload>.
func EncodeDataURL(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL extracts the media type and bytes of a base64 data URL.
// Extra parameters between the media type and ";base64" are ignored.
func DecodeDataURL(raw string) ([]byte, string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "data:") {
		return nil, "", errors.New("invalid data url prefix")
	}
	comma := strings.Index(raw, ",")
	if comma < 5 {
		return nil, "", errors.New("invalid data url payload")
	}
	meta := raw[5:comma]
	if !strings.HasSuffix(strings.ToLower(meta), ";base64") {
		return nil, "", errors.New("data url must be base64")
	}
	mime := meta[:len(meta)-len(";base64")]
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	decoded, err := base64.StdEncoding.DecodeString(raw[comma+1:])
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode data url: %w", err)
	}
	return decoded, strings.TrimSpace(mime), nil
}
