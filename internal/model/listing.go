package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the closed set of listing categories.
type Category string

const (
	CategoryNone       Category = "None"
	CategoryFashion    Category = "Fashion"
	CategoryTools      Category = "Tools"
	CategoryTech       Category = "Tech"
	CategoryAppliances Category = "Appliances"
	CategoryFurniture  Category = "Furniture"
	CategoryToys       Category = "Toys"
	CategoryVehicles   Category = "Vehicles"
	CategoryRealEstate Category = "Real Estate"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryNone,
	CategoryFashion,
	CategoryTools,
	CategoryTech,
	CategoryAppliances,
	CategoryFurniture,
	CategoryToys,
	CategoryVehicles,
	CategoryRealEstate,
}

// ParseCategory matches a label case-insensitively against the known set.
// Returns (category, true) on a match, ("", false) otherwise.
func ParseCategory(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	for _, c := range Categories {
		if strings.EqualFold(label, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Listing is an item up for auction.
//
// Price always reflects the highest accepted bid, or the initial asking
// price while no bids exist. Active starts true and only ever transitions
// to false; WinnerID is set at most once, at that same transition, and is
// empty when the listing closed without bids (or is still open).
type Listing struct {
	ID          string          `json:"id"          db:"id"`
	Title       string          `json:"title"       db:"title"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price"       db:"price_cents"`
	Category    Category        `json:"category"    db:"category"`
	PhotoURL    string          `json:"photoUrl"    db:"photo_url"`
	ListerID    string          `json:"listerId"    db:"lister_id"`
	WinnerID    string          `json:"winnerId,omitempty" db:"winner_id"`
	Active      bool            `json:"active"      db:"active"`
	CreatedAt   time.Time       `json:"createdAt"   db:"created_at"`
}
