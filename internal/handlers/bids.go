package handlers

import (
	"net/http"

	"talenthub/models"

	"github.com/go-chi/chi/v5"
)

// CreateBidHandler: POST /api/bid. jobId не проверяется.
func (h *Handler) CreateBidHandler(w http.ResponseWriter, r *http.Request) {
	var bid models.Document
	if err := decodeJSON(w, r, &bid); err != nil {
		writeError(w, r, err)
		return
	}
	if bid == nil {
		bid = models.Document{}
	}

	result, err := h.Store.CreateBid(r.Context(), bid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_ = writeJSON(w, result, http.StatusOK)
}

// GetBidsHandler: GET /api/bids?userEmail= или ?clientEmail=.
// Если заданы оба, приоритет у userEmail.
func (h *Handler) GetBidsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.BidFilter{
		BidderEmail: query.Get("userEmail"),
		OwnerEmail:  query.Get("clientEmail"),
	}

	bids, err := h.Store.ListBids(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_ = writeJSON(w, bids, http.StatusOK)
}

// UpdateBidStatusHandler: PUT /api/bid/{_id}. Меняется только status.
func (h *Handler) UpdateBidStatusHandler(w http.ResponseWriter, r *http.Request) {
	var update models.BidStatusUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.Store.UpdateBidStatus(r.Context(), chi.URLParam(r, idParam), update.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_ = writeJSON(w, result, http.StatusOK)
}
