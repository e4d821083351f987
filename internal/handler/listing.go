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

// ListingHandler serves the listing index, the detail page, creation, and
// closing.
type ListingHandler struct {
	listings  *service.ListingService
	bids      *service.BidService
	comments  *service.CommentService
	watchlist *service.WatchlistService
	logger    *slog.Logger
}

func NewListingHandler(
	listings *service.ListingService,
	bids *service.BidService,
	comments *service.CommentService,
	watchlist *service.WatchlistService,
	logger *slog.Logger,
) *ListingHandler {
	return &ListingHandler{
		listings:  listings,
		bids:      bids,
		comments:  comments,
		watchlist: watchlist,
		logger:    logger,
	}
}

type createListingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	PhotoURL    string `json:"photoUrl"`
}

// listingDetail is the full view of a listing's page: the listing itself
// plus the bid count, comments, and whether the viewer is watching.
type listingDetail struct {
	Listing  *model.Listing  `json:"listing"`
	BidCount int             `json:"bidCount"`
	Comments []model.Comment `json:"comments"`
	Watching bool            `json:"watching"`
}

// HandleCreate creates a new listing owned by the logged-in user.
//
// HTTP: POST /api/listings (requires auth)
func (h *ListingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	price := decimal.Zero
	if req.Price != "" {
		var err error
		price, err = decimal.NewFromString(req.Price)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid price"})
			return
		}
	}

	listing, err := h.listings.Create(r.Context(), userID, req.Title, req.Description, req.Category, req.PhotoURL, price)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, listing)
}

// HandleList returns active listings, optionally filtered by category.
//
// HTTP: GET /api/listings?category=Tech
// "Any" or a missing category means all active listings.
func (h *ListingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.ListActive(r.Context(), r.URL.Query().Get("category"), 0, 0)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listings)
}

// HandleGetByID returns the listing detail view.
//
// HTTP: GET /api/listings/{id}
// Watching is always false for anonymous viewers.
func (h *ListingHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	listing, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	bidCount, err := h.bids.CountForListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := h.comments.ListForListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	watching := false
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		watching, err = h.watchlist.IsWatching(r.Context(), userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, listingDetail{
		Listing:  listing,
		BidCount: bidCount,
		Comments: comments,
		Watching: watching,
	})
}

// HandleClose closes a listing and reports the winner.
//
// HTTP: POST /api/listings/{id}/close (requires auth)
// Non-listers get 403 with no listing state in the body.
func (h *ListingHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	listing, err := h.listings.Close(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}
