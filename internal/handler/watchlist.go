package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/auction-house/internal/auth"
	"github.com/sakif/auction-house/internal/model"
	"github.com/sakif/auction-house/internal/service"
)

// WatchlistHandler toggles and lists watched listings.
type WatchlistHandler struct {
	watchlist *service.WatchlistService
	logger    *slog.Logger
}

func NewWatchlistHandler(watchlist *service.WatchlistService, logger *slog.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist, logger: logger}
}

type toggleResponse struct {
	State model.WatchState `json:"state"`
}

// HandleToggle flips the logged-in user's watch state for a listing.
//
// HTTP: POST /api/listings/{id}/watch (requires auth)
func (h *WatchlistHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	state, err := h.watchlist.Toggle(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{State: state})
}

// HandleList returns the logged-in user's watchlist.
//
// HTTP: GET /api/watchlist (requires auth)
func (h *WatchlistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	listings, err := h.watchlist.Listings(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listings)
}
