package model

import "time"

// Comment is a remark left on a listing's page. Append-only.
type Comment struct {
	ID          string    `json:"id"          db:"id"`
	CommenterID string    `json:"commenterId" db:"commenter_id"`
	ListingID   string    `json:"listingId"   db:"listing_id"`
	Text        string    `json:"text"        db:"text"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}
