package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noah-isme/backend-kelas/internal/catalog"
	"github.com/noah-isme/backend-kelas/internal/common"
	"github.com/noah-isme/backend-kelas/internal/obs"
	"github.com/noah-isme/backend-kelas/internal/tenant"
)

// Handler exposes the cart quote endpoint.
type Handler struct {
	Svc *Service
}

// Quote handles POST /api/v1/cart/quote. The storefront calls this on every
// relevant state change (item, quantity, offer, fee toggle); responses are
// pure recomputations and safe to request repeatedly.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if req.ItemID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "itemId is required", nil)
		return
	}
	quote, err := h.Svc.Quote(r.Context(), req)
	if err != nil {
		obs.ObserveQuote("error")
		h.writeError(w, err)
		return
	}
	obs.ObserveQuote("ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": quote})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "item not found", nil)
	case errors.Is(err, catalog.ErrInvalidItem):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "item cannot be priced", nil)
	case errors.Is(err, tenant.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "TENANT_NOT_FOUND", "tenant not found", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to compute quote", nil)
	}
}
