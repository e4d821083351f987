package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sakif/auction-house/internal/apperror"
	"github.com/sakif/auction-house/internal/model"
	"github.com/sakif/auction-house/internal/repository"
)

// Validation constants.
const (
	MaxTitleLength       = 30
	MaxDescriptionLength = 500
	DefaultListLimit     = 20
	MaxListLimit         = 100
)

// DefaultListingPrice is the asking price when the lister doesn't set one.
var DefaultListingPrice = decimal.NewFromInt(10)

// ListingService handles listing creation, lookup, the category-filtered
// index, and closing.
type ListingService struct {
	listings repository.ListingRepository
	logger   *slog.Logger
}

func NewListingService(listings repository.ListingRepository, logger *slog.Logger) *ListingService {
	return &ListingService{
		listings: listings,
		logger:   logger,
	}
}

// Create validates and saves a new listing owned by listerID.
// A zero price falls back to DefaultListingPrice; an empty category
// becomes CategoryNone.
func (s *ListingService) Create(ctx context.Context, listerID, title, description, categoryLabel, photoURL string, price decimal.Decimal) (*model.Listing, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "listing title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("listing title must be %d characters or less", MaxTitleLength))
	}

	description = strings.TrimSpace(description)
	if len(description) > MaxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}

	if price.IsZero() {
		price = DefaultListingPrice
	}
	if err := validateAmount("price", price); err != nil {
		return nil, err
	}

	category := model.CategoryNone
	if label := strings.TrimSpace(categoryLabel); label != "" {
		parsed, ok := model.ParseCategory(label)
		if !ok {
			return nil, apperror.ValidationFailed("category",
				fmt.Sprintf("unknown category %q", categoryLabel))
		}
		category = parsed
	}

	listing := &model.Listing{
		Title:       title,
		Description: description,
		Price:       price,
		Category:    category,
		PhotoURL:    strings.TrimSpace(photoURL),
		ListerID:    listerID,
	}

	if err := s.listings.CreateListing(ctx, listing); err != nil {
		s.logger.Error("failed to create listing",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating listing: %w", err)
	}

	s.logger.Info("listing created",
		slog.String("id", listing.ID),
		slog.String("listerID", listerID),
	)

	return listing, nil
}

// GetByID retrieves a listing. Returns apperror.ErrNotFound if absent.
func (s *ListingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "listing ID is required")
	}

	return s.listings.GetListingByID(ctx, id)
}

// ListActive returns active listings for the index page, filtered by
// category. "Any" (case-insensitive) or an empty label means no filter;
// any other unknown label is a validation error.
func (s *ListingService) ListActive(ctx context.Context, categoryLabel string, limit, offset int) ([]model.Listing, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var category model.Category
	if label := strings.TrimSpace(categoryLabel); label != "" && !strings.EqualFold(label, "any") {
		parsed, ok := model.ParseCategory(label)
		if !ok {
			return nil, apperror.ValidationFailed("category",
				fmt.Sprintf("unknown category %q", categoryLabel))
		}
		category = parsed
	}

	listings, err := s.listings.ListActive(ctx, category, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list listings", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing active listings: %w", err)
	}

	return listings, nil
}

// Close transitions a listing to closed and assigns the winner.
//
// Only the lister may close; anyone else gets a forbidden error and no
// state changes. The winner computation and the (active, winner) write
// happen in one repository transaction, so a reader never sees a closed
// listing with a stale winner.
func (s *ListingService) Close(ctx context.Context, listingID, requesterID string) (*model.Listing, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return nil, apperror.ValidationFailed("id", "listing ID is required")
	}

	listing, err := s.listings.GetListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	// ListerID is immutable, so checking outside the close transaction
	// cannot race.
	if listing.ListerID != requesterID {
		return nil, apperror.Forbidden("only the lister may close a listing")
	}

	closed, err := s.listings.CloseListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("listing closed",
		slog.String("id", closed.ID),
		slog.String("winnerID", closed.WinnerID),
	)

	return closed, nil
}
