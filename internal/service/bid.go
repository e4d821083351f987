// Package service contains the business logic layer: validation and the
// rules around bidding, closing, watching, and accounts. Handlers parse
// HTTP; services decide; repositories persist.
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

// BidAcceptedMessage is the user-facing text returned with an accepted bid.
const BidAcceptedMessage = "Success! You have placed your new bid."

// maxBidAmount bounds bid and price magnitudes: ten significant digits
// with two decimal places, so anything >= 100,000,000 is rejected.
var maxBidAmount = decimal.New(1, 8)

// BidService validates and places bids.
//
// The strict-increase and active checks run inside the repository's
// listing-scoped transaction; this layer rejects malformed amounts before
// a transaction is ever opened.
type BidService struct {
	listings repository.ListingRepository
	bids     repository.BidRepository
	logger   *slog.Logger
}

func NewBidService(listings repository.ListingRepository, bids repository.BidRepository, logger *slog.Logger) *BidService {
	return &BidService{
		listings: listings,
		bids:     bids,
		logger:   logger,
	}
}

// validateAmount enforces the shape of a money value: positive, at most
// two fractional digits, under the maximum magnitude.
func validateAmount(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(2)) {
		return apperror.ValidationFailed(field, "amounts may have at most two decimal places")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperror.ValidationFailed(field, "amount must be greater than zero")
	}
	if amount.GreaterThanOrEqual(maxBidAmount) {
		return apperror.ValidationFailed(field, "amount is too large")
	}
	return nil
}

// Place validates a bid and applies it against the listing.
//
// Rejections, in precondition order: malformed amount (validation),
// missing listing (not found), closed listing or amount not strictly
// above the current highest (conflict). On any rejection no state
// changes; the bid row and the price update commit together or not at
// all.
func (s *BidService) Place(ctx context.Context, listingID, bidderID string, amount decimal.Decimal) (*model.Bid, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return nil, apperror.ValidationFailed("listingId", "listing ID is required")
	}
	if bidderID == "" {
		return nil, apperror.ValidationFailed("bidderId", "bidder is required")
	}
	if err := validateAmount("amount", amount); err != nil {
		return nil, err
	}

	bid, err := s.listings.PlaceBid(ctx, listingID, bidderID, amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("bid accepted",
		slog.String("listingID", listingID),
		slog.String("bidderID", bidderID),
		slog.String("amount", amount.StringFixed(2)),
	)

	return bid, nil
}

// CountForListing returns how many bids a listing has received.
func (s *BidService) CountForListing(ctx context.Context, listingID string) (int, error) {
	count, err := s.bids.CountBidsForListing(ctx, listingID)
	if err != nil {
		return 0, fmt.Errorf("counting bids: %w", err)
	}
	return count, nil
}
