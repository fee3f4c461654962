package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Load reads, decodes and validates one request file. On failure it returns
// either a plain I/O error, a *ParseError, or a *ValidationError; no partial
// Takedown is ever returned.
func Load(path string) (Takedown, error) {
	if strings.ToLower(filepath.Ext(path)) != ".json" {
		return Takedown{}, fmt.Errorf("request file must be JSON format: %s", path)
	}
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Takedown{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var t Takedown
	if err := dec.Decode(&t); err != nil {
		if field, ok := unknownField(err); ok {
			return Takedown{}, &ValidationError{Path: path, Fields: []FieldError{{Field: field, Reason: "unknown field"}}}
		}
		return Takedown{}, &ParseError{Path: path, Err: err}
	}

	if fields := t.Check(); len(fields) > 0 {
		return Takedown{}, &ValidationError{Path: path, Fields: fields}
	}
	return t, nil
}

// Check returns every field-level problem, not just the first.
func (t Takedown) Check() []FieldError {
	var fields []FieldError
	add := func(field, reason string) {
		fields = append(fields, FieldError{Field: field, Reason: reason})
	}

	// from flows into the message subject and header block, so it must be a
	// single line; the remaining free-text fields render into the body only.
	requireLine(&fields, "from", t.From)
	requireText(&fields, "copyright_holder_or_authorized", t.CopyrightHolderOrAuthorized)
	requireText(&fields, "ownership", t.Ownership)
	requireText(&fields, "work_description", t.WorkDescription)
	requireText(&fields, "forks_information", t.ForksInformation)
	requireText(&fields, "solution", t.Solution)
	requireText(&fields, "contact", t.Contact)
	requireText(&fields, "legal_name", t.LegalName)
	requireText(&fields, "phone", t.Phone)

	requireOneOf(&fields, "is_revised", t.IsRevised, yesNo)
	requireOneOf(&fields, "access_control", t.AccessControl, yesNo)
	requireOneOf(&fields, "open_source", t.OpenSource, yesNo)
	requireOneOf(&fields, "content_source", t.ContentSource, contentSources)

	if strings.TrimSpace(t.ContactEmail) == "" {
		add("contact_email", "required")
	} else if !validEmail(t.ContactEmail) {
		add("contact_email", fmt.Sprintf("not a valid email address: %q", t.ContactEmail))
	}

	if len(t.InfringingURLs) == 0 {
		add("infringing_urls", "at least one URL is required")
	}
	for i, raw := range t.InfringingURLs {
		if !validURL(raw) {
			add("infringing_urls", fmt.Sprintf("entry %d is not a valid URL: %q", i, raw))
		}
	}
	return fields
}

var (
	yesNo          = []string{"Yes", "No"}
	contentSources = []string{"GitHub", "npm.js", "Both"}
)

func requireText(fields *[]FieldError, name, v string) {
	if strings.TrimSpace(v) == "" {
		*fields = append(*fields, FieldError{Field: name, Reason: "required"})
	}
}

func requireLine(fields *[]FieldError, name, v string) {
	if strings.TrimSpace(v) == "" {
		*fields = append(*fields, FieldError{Field: name, Reason: "required"})
		return
	}
	if strings.ContainsAny(v, "\r\n") {
		*fields = append(*fields, FieldError{Field: name, Reason: "must not contain line breaks"})
	}
}

func requireOneOf(fields *[]FieldError, name, v string, allowed []string) {
	if strings.TrimSpace(v) == "" {
		*fields = append(*fields, FieldError{Field: name, Reason: "required"})
		return
	}
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	*fields = append(*fields, FieldError{Field: name, Reason: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", "))})
}

func validEmail(v string) bool {
	addr, err := mail.ParseAddress(v)
	// Bare addresses only; display names belong in separate config fields.
	return err == nil && addr.Address == v
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func unknownField(err error) (string, bool) {
	const marker = "unknown field "
	msg := err.Error()
	i := strings.Index(msg, marker)
	if i < 0 {
		return "", false
	}
	return strings.Trim(msg[i+len(marker):], `"`), true
}
