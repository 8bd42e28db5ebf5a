package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noah-isme/backend-kelas/internal/catalog"
	"github.com/noah-isme/backend-kelas/internal/common"
	"github.com/noah-isme/backend-kelas/internal/obs"
	"github.com/noah-isme/backend-kelas/internal/tenant"
)

// Handler exposes the three checkout submission endpoints.
type Handler struct {
	Svc *Service
}

// SubmitItem handles POST /api/v1/checkout/item.
func (h *Handler) SubmitItem(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, KindItem)
}

// SubmitEvent handles POST /api/v1/checkout/event.
func (h *Handler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, KindEvent)
}

// SubmitPlan handles POST /api/v1/checkout/plan.
func (h *Handler) SubmitPlan(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, KindPlan)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, kind Kind) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if req.ItemID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "itemId is required", nil)
		return
	}
	result, err := h.Svc.Submit(r.Context(), kind, req)
	if err != nil {
		obs.ObserveCheckout(string(kind), "error")
		h.writeError(w, err)
		return
	}
	obs.ObserveCheckout(string(kind), "ok")
	common.JSON(w, http.StatusCreated, map[string]any{"data": result})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	switch {
	case errors.As(err, &appErr):
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
	case errors.Is(err, catalog.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "item not found", nil)
	case errors.Is(err, catalog.ErrInvalidItem):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "item cannot be priced", nil)
	case errors.Is(err, tenant.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "TENANT_NOT_FOUND", "tenant not found", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout failed", nil)
	}
}
