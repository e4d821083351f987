package model

// WatchState is the result of toggling a watchlist entry.
type WatchState string

const (
	Watching    WatchState = "watching"
	NotWatching WatchState = "not_watching"
)

// WatchlistEntry marks that a user tracks a listing. At most one entry
// exists per (user, listing) pair; the toggle transaction enforces it.
type WatchlistEntry struct {
	ID        string `json:"id"        db:"id"`
	UserID    string `json:"userId"    db:"user_id"`
	ListingID string `json:"listingId" db:"listing_id"`
}
