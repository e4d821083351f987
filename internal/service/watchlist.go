package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/auction-house/internal/apperror"
	"github.com/sakif/auction-house/internal/model"
	"github.com/sakif/auction-house/internal/repository"
)

// WatchlistService toggles and reads a user's watched listings. Watching
// never touches bidding or price state.
type WatchlistService struct {
	watchlist repository.WatchlistRepository
	listings  repository.ListingRepository
	logger    *slog.Logger
}

func NewWatchlistService(watchlist repository.WatchlistRepository, listings repository.ListingRepository, logger *slog.Logger) *WatchlistService {
	return &WatchlistService{
		watchlist: watchlist,
		listings:  listings,
		logger:    logger,
	}
}

// Toggle flips the watch relation for (userID, listingID) and reports
// the new state. Toggling twice returns to the original state.
func (s *WatchlistService) Toggle(ctx context.Context, userID, listingID string) (model.WatchState, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return "", apperror.ValidationFailed("listingId", "listing ID is required")
	}

	// The listing must exist; watching a phantom ID would silently
	// succeed otherwise.
	if _, err := s.listings.GetListingByID(ctx, listingID); err != nil {
		return "", err
	}

	state, err := s.watchlist.ToggleWatch(ctx, userID, listingID)
	if err != nil {
		return "", fmt.Errorf("toggling watchlist: %w", err)
	}

	s.logger.Info("watchlist toggled",
		slog.String("userID", userID),
		slog.String("listingID", listingID),
		slog.String("state", string(state)),
	)

	return state, nil
}

// IsWatching reports whether userID currently watches listingID.
func (s *WatchlistService) IsWatching(ctx context.Context, userID, listingID string) (bool, error) {
	return s.watchlist.IsWatching(ctx, userID, listingID)
}

// Listings returns everything on the user's watchlist.
func (s *WatchlistService) Listings(ctx context.Context, userID string) ([]model.Listing, error) {
	listings, err := s.watchlist.WatchedListingsFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading watchlist: %w", err)
	}
	return listings, nil
}
