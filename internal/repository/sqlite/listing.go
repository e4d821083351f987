package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"

	"github.com/sakif/auction-house/internal/apperror"
	"github.com/sakif/auction-house/internal/model"
	"github.com/sakif/auction-house/internal/repository"
)

var _ repository.ListingRepository = (*DB)(nil)

const listingColumns = `id, title, description, price_cents, category, photo_url,
	lister_id, winner_id, active, created_at`

// scanListing reads one listings row. Works with both sql.Row and the
// current row of sql.Rows.
func scanListing(row interface{ Scan(dest ...any) error }) (*model.Listing, error) {
	var (
		l          model.Listing
		priceCents int64
		category   string
		winnerID   sql.NullString
	)
	err := row.Scan(
		&l.ID,
		&l.Title,
		&l.Description,
		&priceCents,
		&category,
		&l.PhotoURL,
		&l.ListerID,
		&winnerID,
		&l.Active,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Price = fromCents(priceCents)
	l.Category = model.Category(category)
	l.WinnerID = winnerID.String
	return &l, nil
}

// CreateListing inserts a new listing. ID and CreatedAt are filled in on the
// caller's struct.
func (db *DB) CreateListing(ctx context.Context, listing *model.Listing) error {
	listing.ID = xid.New().String()
	listing.CreatedAt = time.Now()
	listing.Active = true

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO listings (id, title, description, price_cents, category,
		                       photo_url, lister_id, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		listing.ID,
		listing.Title,
		listing.Description,
		toCents(listing.Price),
		string(listing.Category),
		listing.PhotoURL,
		listing.ListerID,
		listing.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating listing: %w", err)
	}

	return nil
}

func (db *DB) GetListingByID(ctx context.Context, id string) (*model.Listing, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)

	listing, err := scanListing(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("listing", id)
		}
		return nil, fmt.Errorf("sqlite: getting listing %s: %w", id, err)
	}
	return listing, nil
}

// ListActive returns active listings, newest first, optionally filtered
// by category.
func (db *DB) ListActive(ctx context.Context, category model.Category, opts repository.ListOptions) ([]model.Listing, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + listingColumns + ` FROM listings WHERE active = 1`
	args := []any{}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing active listings: %w", err)
	}
	defer rows.Close()

	listings := make([]model.Listing, 0, limit)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning listing row: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating listings: %w", err)
	}

	return listings, nil
}

// PlaceBid appends a bid and raises the listing price as one transaction.
//
// currentHighest is the greater of the listing price and the maximum
// recorded bid, so correctness never depends on insertion order. The
// final UPDATE re-asserts active and strict increase as a guard: if a
// concurrent bid committed between our read and write, zero rows match
// and this bid loses with BidTooLow.
func (db *DB) PlaceBid(ctx context.Context, listingID, bidderID string, amount decimal.Decimal) (*model.Bid, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning bid transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		active     bool
		priceCents int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT active, price_cents FROM listings WHERE id = ?`, listingID,
	).Scan(&active, &priceCents)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("listing", listingID)
		}
		return nil, fmt.Errorf("sqlite: reading listing %s for bid: %w", listingID, err)
	}
	if !active {
		return nil, apperror.ListingClosed(listingID)
	}

	// Explicit maximum over all bids, with the listing price as the floor
	// when no bids exist yet.
	var maxCents sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT MAX(amount_cents) FROM bids WHERE listing_id = ?`, listingID,
	).Scan(&maxCents)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading highest bid for %s: %w", listingID, err)
	}

	highest := priceCents
	if maxCents.Valid && maxCents.Int64 > highest {
		highest = maxCents.Int64
	}

	amountCents := toCents(amount)
	if amountCents <= highest {
		return nil, apperror.BidTooLow(fromCents(highest).StringFixed(2))
	}

	bid := &model.Bid{
		ID:        xid.New().String(),
		BidderID:  bidderID,
		ListingID: listingID,
		Amount:    amount,
		CreatedAt: time.Now(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bids (id, bidder_id, listing_id, amount_cents, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		bid.ID, bid.BidderID, bid.ListingID, amountCents, bid.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: inserting bid for %s: %w", listingID, err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE listings SET price_cents = ?
		 WHERE id = ? AND active = 1 AND price_cents < ?`,
		amountCents, listingID, amountCents,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating price for %s: %w", listingID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		// Lost a race; the rollback discards the inserted bid.
		return nil, apperror.BidTooLow(fromCents(highest).StringFixed(2))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing bid for %s: %w", listingID, err)
	}

	return bid, nil
}

// CloseListing sets active=false and assigns the winner in one transaction.
// The winner is the bidder of the maximum bid (created_at and id break
// ties, though strict increase makes amount ties impossible today).
// Closing an already-closed listing matches zero rows and is a conflict,
// which keeps winner-set-at-most-once trivially true.
func (db *DB) CloseListing(ctx context.Context, listingID string) (*model.Listing, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning close transaction: %w", err)
	}
	defer tx.Rollback()

	var winnerID sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT bidder_id FROM bids WHERE listing_id = ?
		 ORDER BY amount_cents DESC, created_at DESC, id DESC LIMIT 1`,
		listingID,
	).Scan(&winnerID.String)
	switch {
	case err == sql.ErrNoRows:
		// No bids: the listing still closes, with no winner.
	case err != nil:
		return nil, fmt.Errorf("sqlite: finding winner for %s: %w", listingID, err)
	default:
		winnerID.Valid = true
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE listings SET active = 0, winner_id = ? WHERE id = ? AND active = 1`,
		winnerID, listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: closing listing %s: %w", listingID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		// Either absent or already closed; distinguish for the caller.
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM listings WHERE id = ?`, listingID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("sqlite: checking listing %s: %w", listingID, err)
		}
		if exists == 0 {
			return nil, apperror.NotFound("listing", listingID)
		}
		return nil, apperror.ListingClosed(listingID)
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`, listingID)
	listing, err := scanListing(row)
	if err != nil {
		return nil, fmt.Errorf("sqlite: re-reading closed listing %s: %w", listingID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing close for %s: %w", listingID, err)
	}

	return listing, nil
}
