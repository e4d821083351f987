package sqlite

import (
	"context"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/auction-house/internal/model"
	"github.com/sakif/auction-house/internal/repository"
)

var _ repository.WatchlistRepository = (*DB)(nil)

// ToggleWatch flips the watch relation for (userID, listingID).
//
// DELETE-then-INSERT inside one transaction keeps the pair unique without
// a schema constraint: if the DELETE removed a row the user was watching,
// so we stop; otherwise we start. Two toggles in a row always restore the
// original state.
func (db *DB) ToggleWatch(ctx context.Context, userID, listingID string) (model.WatchState, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("sqlite: beginning toggle transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM watchlist WHERE user_id = ? AND listing_id = ?`,
		userID, listingID,
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: removing watchlist entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	state := model.NotWatching
	if affected == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO watchlist (id, user_id, listing_id) VALUES (?, ?, ?)`,
			xid.New().String(), userID, listingID,
		)
		if err != nil {
			return "", fmt.Errorf("sqlite: adding watchlist entry: %w", err)
		}
		state = model.Watching
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("sqlite: committing toggle: %w", err)
	}

	return state, nil
}

func (db *DB) IsWatching(ctx context.Context, userID, listingID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM watchlist WHERE user_id = ? AND listing_id = ?`,
		userID, listingID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking watchlist: %w", err)
	}
	return count > 0, nil
}

// WatchedListingsFor returns the listings a user watches, newest first.
// Closed listings stay on the watchlist so the user can see the outcome.
func (db *DB) WatchedListingsFor(ctx context.Context, userID string) ([]model.Listing, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT l.id, l.title, l.description, l.price_cents, l.category, l.photo_url,
		        l.lister_id, l.winner_id, l.active, l.created_at
		 FROM listings l
		 JOIN watchlist w ON w.listing_id = l.id
		 WHERE w.user_id = ?
		 ORDER BY l.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing watchlist for %s: %w", userID, err)
	}
	defer rows.Close()

	listings := []model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning watched listing: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating watchlist: %w", err)
	}

	return listings, nil
}
