package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/catalog/service"
)

// form is the flattened body of a catalog write. Requests arrive either as
// multipart (admin UI with a picture) or as plain JSON.
type form struct {
	fields  map[string]string
	picture *service.Upload
	file    multipart.File
}

func (f *form) Close() {
	if f.file != nil {
		_ = f.file.Close()
	}
}

func (f *form) value(key string) string { return f.fields[key] }

// optional returns nil for absent or blank fields.
func (f *form) optional(key string) *string {
	v, ok := f.fields[key]
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func (f *form) price(key string) (*float64, error) {
	raw := f.optional(key)
	if raw == nil {
		return nil, nil
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		return nil, domain.ValidationError{Field: key, Message: "price must be a number"}
	}
	return &p, nil
}

func (f *form) uuid(key string) (*uuid.UUID, error) {
	raw := f.optional(key)
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, domain.ValidationError{Field: "category", Message: "category does not exist"}
	}
	return &id, nil
}

func readForm(w http.ResponseWriter, r *http.Request, maxUpload int64) (*form, error) {
	f := &form{fields: map[string]string{}}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mt != "multipart/form-data" {
		if r.ContentLength == 0 {
			return f, nil
		}
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, domain.ValidationError{Field: "body", Message: "invalid JSON body"}
		}
		for k, v := range raw {
			switch t := v.(type) {
			case string:
				f.fields[k] = t
			case float64:
				f.fields[k] = strconv.FormatFloat(t, 'f', -1, 64)
			case nil:
			default:
				return nil, domain.ValidationError{Field: k, Message: "unsupported value"}
			}
		}
		return f, nil
	}

	if maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload+1<<20)
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ValidationError{Field: "picture", Message: "upload is too large"}
		}
		return nil, domain.ValidationError{Field: "body", Message: "invalid multipart form"}
	}
	for k, vs := range r.MultipartForm.Value {
		if len(vs) > 0 {
			f.fields[k] = vs[0]
		}
	}
	file, hdr, err := r.FormFile("picture")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return nil, domain.ValidationError{Field: "picture", Message: "unreadable file"}
	default:
		f.file = file
		f.picture = &service.Upload{Body: file, Filename: hdr.Filename}
	}
	return f, nil
}
