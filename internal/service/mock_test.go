package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sakif/auction-house/internal/apperror"
	"github.com/sakif/auction-house/internal/model"
	"github.com/sakif/auction-house/internal/repository"
)

// mockStore is an in-memory stand-in for the sqlite repositories. It
// mirrors their semantics (strict increase, max-bid winner, toggle) so
// service tests exercise business rules without a database.
type mockStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	listings map[string]*model.Listing
	bids     map[string][]model.Bid
	comments map[string][]model.Comment
	watches  map[string]bool // key: userID + "/" + listingID
	nextID   int
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    make(map[string]*model.User),
		listings: make(map[string]*model.Listing),
		bids:     make(map[string][]model.Bid),
		comments: make(map[string][]model.Comment),
		watches:  make(map[string]bool),
	}
}

func (m *mockStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperror.Conflict("Username already taken.")
		}
	}
	user.ID = m.id("user")
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (m *mockStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *mockStore) CreateListing(_ context.Context, listing *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing.ID = m.id("listing")
	listing.Active = true
	stored := *listing
	m.listings[listing.ID] = &stored
	return nil
}

func (m *mockStore) GetListingByID(_ context.Context, id string) (*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, apperror.NotFound("listing", id)
	}
	copied := *l
	return &copied, nil
}

func (m *mockStore) ListActive(_ context.Context, category model.Category, _ repository.ListOptions) ([]model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []model.Listing{}
	for _, l := range m.listings {
		if !l.Active {
			continue
		}
		if category != "" && l.Category != category {
			continue
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockStore) PlaceBid(_ context.Context, listingID, bidderID string, amount decimal.Decimal) (*model.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[listingID]
	if !ok {
		return nil, apperror.NotFound("listing", listingID)
	}
	if !l.Active {
		return nil, apperror.ListingClosed(listingID)
	}
	highest := l.Price
	for _, b := range m.bids[listingID] {
		if b.Amount.GreaterThan(highest) {
			highest = b.Amount
		}
	}
	if amount.LessThanOrEqual(highest) {
		return nil, apperror.BidTooLow(highest.StringFixed(2))
	}
	bid := model.Bid{
		ID:        m.id("bid"),
		BidderID:  bidderID,
		ListingID: listingID,
		Amount:    amount,
	}
	m.bids[listingID] = append(m.bids[listingID], bid)
	l.Price = amount
	return &bid, nil
}

func (m *mockStore) CloseListing(_ context.Context, listingID string) (*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[listingID]
	if !ok {
		return nil, apperror.NotFound("listing", listingID)
	}
	if !l.Active {
		return nil, apperror.ListingClosed(listingID)
	}
	var winner *model.Bid
	for i := range m.bids[listingID] {
		b := &m.bids[listingID][i]
		if winner == nil || b.Amount.GreaterThan(winner.Amount) {
			winner = b
		}
	}
	l.Active = false
	if winner != nil {
		l.WinnerID = winner.BidderID
	}
	copied := *l
	return &copied, nil
}

func (m *mockStore) BidsForListing(_ context.Context, listingID string) ([]model.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Bid{}, m.bids[listingID]...), nil
}

func (m *mockStore) CountBidsForListing(_ context.Context, listingID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bids[listingID]), nil
}

func (m *mockStore) CreateComment(_ context.Context, comment *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.ID = m.id("comment")
	m.comments[comment.ListingID] = append(m.comments[comment.ListingID], *comment)
	return nil
}

func (m *mockStore) CommentsForListing(_ context.Context, listingID string) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Comment{}, m.comments[listingID]...), nil
}

func (m *mockStore) ToggleWatch(_ context.Context, userID, listingID string) (model.WatchState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userID + "/" + listingID
	if m.watches[key] {
		delete(m.watches, key)
		return model.NotWatching, nil
	}
	m.watches[key] = true
	return model.Watching, nil
}

func (m *mockStore) IsWatching(_ context.Context, userID, listingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watches[userID+"/"+listingID], nil
}

func (m *mockStore) WatchedListingsFor(_ context.Context, userID string) ([]model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []model.Listing{}
	for key, watching := range m.watches {
		if !watching {
			continue
		}
		for _, l := range m.listings {
			if key == userID+"/"+l.ID {
				result = append(result, *l)
			}
		}
	}
	return result, nil
}

// Interface checks: the mock must track the real repository surface.
var (
	_ repository.UserRepository      = (*mockStore)(nil)
	_ repository.ListingRepository   = (*mockStore)(nil)
	_ repository.BidRepository       = (*mockStore)(nil)
	_ repository.CommentRepository   = (*mockStore)(nil)
	_ repository.WatchlistRepository = (*mockStore)(nil)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// seedListing creates a user and an active listing priced at 10.00.
func seedListing(t *testing.T, store *mockStore) (*model.User, *model.Listing) {
	t.Helper()
	lister := &model.User{Username: "alice", PasswordHash: "x"}
	if err := store.CreateUser(context.Background(), lister); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	listing := &model.Listing{
		Title:    "Old Lamp",
		Price:    decimal.RequireFromString("10.00"),
		Category: model.CategoryNone,
		ListerID: lister.ID,
	}
	if err := store.CreateListing(context.Background(), listing); err != nil {
		t.Fatalf("seeding listing: %v", err)
	}
	return lister, listing
}
