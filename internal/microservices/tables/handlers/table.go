package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/tables/service"
)

// loose holds a JSON string or number as text. The admin UI sends table
// numbers and capacities either way.
type loose struct {
	set bool
	val string
}

func (l *loose) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	l.set = true
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &l.val)
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	l.val = n.String()
	return nil
}

type tableRequest struct {
	Number   loose `json:"number"`
	Capacity loose `json:"capacity"`
}

func (req tableRequest) capacity() (*int, error) {
	if !req.Capacity.set || strings.TrimSpace(req.Capacity.val) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(req.Capacity.val))
	if err != nil {
		return nil, domain.ValidationError{Field: "capacity", Message: "capacity must be a whole number"}
	}
	return &n, nil
}

func decodeTable(r *http.Request) (tableRequest, error) {
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return tableRequest{}, domain.ValidationError{Field: "body", Message: "invalid JSON body"}
	}
	return req, nil
}

type TableHandler struct {
	service service.TableServiceInterface
	lg      *logger.Logger
}

func NewTableHandler(s service.TableServiceInterface, lg *logger.Logger) *TableHandler {
	return &TableHandler{service: s, lg: lg}
}

func (th *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := th.service.ListTables(r.Context())
	if err != nil {
		httpx.WriteError(w, r, th.lg, "list_tables", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tables)
}

func (th *TableHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	occ, err := th.service.Occupancy(r.Context())
	if err != nil {
		httpx.WriteError(w, r, th.lg, "table_occupancy", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, occ)
}

func (th *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeTable(r)
	if err != nil {
		httpx.WriteError(w, r, th.lg, "create_table", err)
		return
	}
	capacity, err := req.capacity()
	if err != nil {
		httpx.WriteError(w, r, th.lg, "create_table", err)
		return
	}
	if capacity == nil {
		capacity = new(int)
	}
	t, err := th.service.CreateTable(r.Context(), req.Number.val, *capacity)
	if err != nil {
		httpx.WriteError(w, r, th.lg, "create_table", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

func (th *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, th.lg, "update_table", err)
		return
	}
	req, err := decodeTable(r)
	if err != nil {
		httpx.WriteError(w, r, th.lg, "update_table", err)
		return
	}
	var patch domain.TablePatch
	if req.Number.set {
		patch.Number = &req.Number.val
	}
	if patch.Capacity, err = req.capacity(); err != nil {
		httpx.WriteError(w, r, th.lg, "update_table", err)
		return
	}
	t, err := th.service.UpdateTable(r.Context(), id, patch)
	if err != nil {
		httpx.WriteError(w, r, th.lg, "update_table", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (th *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, th.lg, "delete_table", err)
		return
	}
	if err := th.service.DeleteTable(r.Context(), id); err != nil {
		httpx.WriteError(w, r, th.lg, "delete_table", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Table deleted"})
}
