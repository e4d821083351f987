// Package repository declares the storage interfaces the service layer
// depends on. Concrete implementations live in repository/sqlite; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sakif/auction-house/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// ListingRepository covers listing reads and the two state transitions
// with real invariants: bid placement and closing. Both run as single
// listing-scoped transactions inside the implementation, so concurrent
// requests against the same listing are strictly ordered.
type ListingRepository interface {
	CreateListing(ctx context.Context, listing *model.Listing) error
	GetListingByID(ctx context.Context, id string) (*model.Listing, error)

	// ListActive returns active listings, newest first. An empty category
	// means no category filter.
	ListActive(ctx context.Context, category model.Category, opts ListOptions) ([]model.Listing, error)

	// PlaceBid atomically appends a bid and raises the listing price.
	// The strict-increase and active checks happen inside the transaction;
	// the loser of a concurrent race observes the winner's price and gets
	// a BidTooLow conflict.
	PlaceBid(ctx context.Context, listingID, bidderID string, amount decimal.Decimal) (*model.Bid, error)

	// CloseListing atomically sets active=false and assigns the winner
	// (bidder of the maximum bid, unset when no bids exist). Returns the
	// closed listing. Authorization is the caller's concern.
	CloseListing(ctx context.Context, listingID string) (*model.Listing, error)
}

type BidRepository interface {
	BidsForListing(ctx context.Context, listingID string) ([]model.Bid, error)
	CountBidsForListing(ctx context.Context, listingID string) (int, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	CommentsForListing(ctx context.Context, listingID string) ([]model.Comment, error)
}

type WatchlistRepository interface {
	// ToggleWatch flips the watch relation for (userID, listingID) in one
	// transaction and reports the resulting state.
	ToggleWatch(ctx context.Context, userID, listingID string) (model.WatchState, error)
	IsWatching(ctx context.Context, userID, listingID string) (bool, error)
	WatchedListingsFor(ctx context.Context, userID string) ([]model.Listing, error)
}
