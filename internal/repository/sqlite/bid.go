package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/auction-house/internal/model"
	"github.com/sakif/auction-house/internal/repository"
)

var _ repository.BidRepository = (*DB)(nil)

// BidsForListing returns all bids for a listing, highest first.
func (db *DB) BidsForListing(ctx context.Context, listingID string) ([]model.Bid, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, bidder_id, listing_id, amount_cents, created_at
		 FROM bids WHERE listing_id = ?
		 ORDER BY amount_cents DESC, created_at DESC`,
		listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing bids for %s: %w", listingID, err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		var (
			b           model.Bid
			amountCents int64
		)
		if err := rows.Scan(&b.ID, &b.BidderID, &b.ListingID, &amountCents, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning bid row: %w", err)
		}
		b.Amount = fromCents(amountCents)
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating bids: %w", err)
	}

	return bids, nil
}

func (db *DB) CountBidsForListing(ctx context.Context, listingID string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bids WHERE listing_id = ?`, listingID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting bids for %s: %w", listingID, err)
	}
	return count, nil
}
