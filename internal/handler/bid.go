package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopspring/decimal"

	"github.com/sakif/auction-house/internal/auth"
	"github.com/sakif/auction-house/internal/model"
	"github.com/sakif/auction-house/internal/service"
)

// BidHandler accepts bid submissions.
type BidHandler struct {
	bids   *service.BidService
	logger *slog.Logger
}

func NewBidHandler(bids *service.BidService, logger *slog.Logger) *BidHandler {
	return &BidHandler{bids: bids, logger: logger}
}

type placeBidRequest struct {
	Amount string `json:"amount"`
}

type placeBidResponse struct {
	Message string     `json:"message"`
	Bid     *model.Bid `json:"bid"`
}

// HandlePlace places a bid on a listing.
//
// HTTP: POST /api/listings/{id}/bids (requires auth)
//
// A malformed amount is a 400 before the evaluator ever runs; a
// well-formed bid that isn't strictly above the current highest, or a bid
// on a closed listing, is a 409 the client may retry with a higher
// amount.
func (h *BidHandler) HandlePlace(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "Invalid Bid"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "Invalid Bid"})
		return
	}

	bid, err := h.bids.Place(r.Context(), chi.URLParam(r, "id"), userID, amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, placeBidResponse{
		Message: service.BidAcceptedMessage,
		Bid:     bid,
	})
}
