package offer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/noah-isme/backend-kelas/internal/common"
)

// AdminQuerier captures the mutations the admin surface performs.
type AdminQuerier interface {
	List(ctx context.Context) ([]Row, error)
	Create(ctx context.Context, row Row) (Row, error)
	Update(ctx context.Context, row Row) (Row, error)
	Delete(ctx context.Context, code string) error
}

// AdminHandler exposes tenant-staff offer management endpoints.
type AdminHandler struct {
	Q AdminQuerier
}

type offerPayload struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
	Active        *bool   `json:"active"`
}

func (p offerPayload) row() (Row, error) {
	code := strings.TrimSpace(p.Code)
	if code == "" {
		return Row{}, errors.New("code is required")
	}
	switch DiscountType(strings.ToLower(p.DiscountType)) {
	case DiscountAmount, DiscountPercentage:
	default:
		return Row{}, ErrUnknownDiscountType
	}
	if p.DiscountValue <= 0 {
		return Row{}, errors.New("discountValue must be positive")
	}
	active := true
	if p.Active != nil {
		active = *p.Active
	}
	return Row{
		Code:          code,
		DiscountType:  strings.ToLower(p.DiscountType),
		DiscountValue: p.DiscountValue,
		Active:        active,
	}, nil
}

// List handles GET /api/v1/admin/offers.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "offer queries not configured", nil)
		return
	}
	rows, err := h.Q.List(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list offers", nil)
		return
	}
	if rows == nil {
		rows = []Row{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

// Create handles POST /api/v1/admin/offers.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "offer queries not configured", nil)
		return
	}
	var payload offerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	row, err := payload.row()
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	created, err := h.Q.Create(r.Context(), row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			common.JSONError(w, http.StatusConflict, "CONFLICT", "offer code already exists", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create offer", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// Update handles PUT /api/v1/admin/offers/{code}.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "offer queries not configured", nil)
		return
	}
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code is required", nil)
		return
	}
	var payload offerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.Code = code
	row, err := payload.row()
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	updated, err := h.Q.Update(r.Context(), row)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "offer not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update offer", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

// Delete handles DELETE /api/v1/admin/offers/{code}.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "offer queries not configured", nil)
		return
	}
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code is required", nil)
		return
	}
	if err := h.Q.Delete(r.Context(), code); err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "offer not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete offer", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]string{"code": code}})
}
