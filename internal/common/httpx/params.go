package httpx

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"restaurant-admin/internal/domain"
)

// PathUUID parses the named route variable as a UUID.
func PathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := mux.Vars(r)[key]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ValidationError{Field: key, Message: fmt.Sprintf("invalid id %q", raw)}
	}
	return id, nil
}

// QueryUUID parses an optional query parameter. Absent means nil.
func QueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.ValidationError{Field: key, Message: fmt.Sprintf("invalid id %q", raw)}
	}
	return &id, nil
}

// QueryDate accepts RFC3339 or a plain YYYY-MM-DD date. With endOfDay set a
// plain date is moved to the last instant of that day.
func QueryDate(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, domain.ValidationError{Field: key, Message: "expected YYYY-MM-DD or RFC3339 timestamp"}
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func AtoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
