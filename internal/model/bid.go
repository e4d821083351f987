package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is a price offer against a listing. Bids are append-only and
// immutable once written; strict increase is enforced at placement time,
// so amounts for a listing form a strictly ascending sequence.
type Bid struct {
	ID        string          `json:"id"        db:"id"`
	BidderID  string          `json:"bidderId"  db:"bidder_id"`
	ListingID string          `json:"listingId" db:"listing_id"`
	Amount    decimal.Decimal `json:"amount"    db:"amount_cents"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
