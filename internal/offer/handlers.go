package offer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noah-isme/backend-kelas/internal/catalog"
	"github.com/noah-isme/backend-kelas/internal/common"
	"github.com/noah-isme/backend-kelas/internal/obs"
)

// Handler exposes the public offer preview endpoint.
type Handler struct {
	Svc *Service
}

type previewRequest struct {
	Code         string `json:"code"`
	ItemID       string `json:"itemId"`
	RecurringLeg string `json:"recurringLeg,omitempty"`
}

// Preview handles POST /api/v1/offers/preview: a dry-run redemption of a
// user-entered code against an item. Rejections are ordinary responses with a
// user-facing message, not server errors.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "offer service not configured", nil)
		return
	}
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if req.ItemID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "itemId is required", nil)
		return
	}
	result, err := h.Svc.Preview(r.Context(), req.Code, req.ItemID, Leg(req.RecurringLeg))
	if err != nil {
		h.writeError(w, err)
		return
	}
	obs.ObserveOfferPreview("ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCodeNotFound):
		obs.ObserveOfferPreview("not_found")
		common.JSONError(w, http.StatusNotFound, "OFFER_NOT_FOUND", "this code is not valid", nil)
	case errors.Is(err, catalog.ErrNotFound):
		obs.ObserveOfferPreview("not_found")
		common.JSONError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "item not found", nil)
	case errors.Is(err, ErrNotEligible),
		errors.Is(err, ErrNothingToDiscount),
		errors.Is(err, ErrUnknownDiscountType):
		obs.ObserveOfferPreview("not_eligible")
		common.JSONError(w, http.StatusUnprocessableEntity, "OFFER_NOT_ELIGIBLE", "this code cannot be applied to the selected item", nil)
	default:
		obs.ObserveOfferPreview("error")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to preview offer", nil)
	}
}
