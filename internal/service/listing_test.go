package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/auction-house/internal/apperror"
	"github.com/sakif/auction-house/internal/model"
)

func TestCreate_Defaults(t *testing.T) {
	store := newMockStore()
	svc := NewListingService(store, testLogger())

	listing, err := svc.Create(context.Background(), "lister-1", "  Old Lamp  ", "", "", "", decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "Old Lamp", listing.Title, "title should be trimmed")
	assert.True(t, listing.Price.Equal(DefaultListingPrice), "omitted price defaults to 10")
	assert.Equal(t, model.CategoryNone, listing.Category)
	assert.True(t, listing.Active)
}

func TestCreate_TitleRequired(t *testing.T) {
	store := newMockStore()
	svc := NewListingService(store, testLogger())

	_, err := svc.Create(context.Background(), "lister-1", "   ", "", "", "", decimal.Zero)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreate_TitleTooLong(t *testing.T) {
	store := newMockStore()
	svc := NewListingService(store, testLogger())

	long := strings.Repeat("a", MaxTitleLength+1)
	_, err := svc.Create(context.Background(), "lister-1", long, "", "", "", decimal.Zero)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreate_CaseInsensitiveCategory(t *testing.T) {
	store := newMockStore()
	svc := NewListingService(store, testLogger())

	listing, err := svc.Create(context.Background(), "lister-1", "Keyboard", "", "tEcH", "", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryTech, listing.Category)
}

func TestCreate_UnknownCategory(t *testing.T) {
	store := newMockStore()
	svc := NewListingService(store, testLogger())

	_, err := svc.Create(context.Background(), "lister-1", "Keyboard", "", "Gadgets", "", decimal.Zero)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestListActive_AnyMeansNoFilter(t *testing.T) {
	store := newMockStore()
	svc := NewListingService(store, testLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, "lister-1", "Keyboard", "", "Tech", "", decimal.Zero)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "lister-1", "Yo-yo", "", "Toys", "", decimal.Zero)
	require.NoError(t, err)

	for _, label := range []string{"", "Any", "any"} {
		listings, err := svc.ListActive(ctx, label, 0, 0)
		require.NoError(t, err)
		assert.Len(t, listings, 2, "label %q", label)
	}

	listings, err := svc.ListActive(ctx, "toys", 0, 0)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Yo-yo", listings[0].Title)
}

func TestListActive_UnknownCategory(t *testing.T) {
	store := newMockStore()
	svc := NewListingService(store, testLogger())

	_, err := svc.ListActive(context.Background(), "Gadgets", 0, 0)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestClose_OnlyListerMayClose(t *testing.T) {
	store := newMockStore()
	lister, listing := seedListing(t, store)
	svc := NewListingService(store, testLogger())
	ctx := context.Background()

	_, err := svc.Close(ctx, listing.ID, "someone-else")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Denial must not have changed anything.
	unchanged, err := store.GetListingByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.True(t, unchanged.Active)
	assert.Empty(t, unchanged.WinnerID)

	closed, err := svc.Close(ctx, listing.ID, lister.ID)
	require.NoError(t, err)
	assert.False(t, closed.Active)
}

func TestClose_WinnerFromBids(t *testing.T) {
	store := newMockStore()
	lister, listing := seedListing(t, store)
	svc := NewListingService(store, testLogger())
	ctx := context.Background()

	_, err := store.PlaceBid(ctx, listing.ID, "bidder-1", decimal.RequireFromString("15.00"))
	require.NoError(t, err)
	_, err = store.PlaceBid(ctx, listing.ID, "bidder-2", decimal.RequireFromString("20.00"))
	require.NoError(t, err)

	closed, err := svc.Close(ctx, listing.ID, lister.ID)
	require.NoError(t, err)

	assert.False(t, closed.Active)
	assert.Equal(t, "bidder-2", closed.WinnerID)
}

func TestClose_NoBidsNoWinner(t *testing.T) {
	store := newMockStore()
	lister, listing := seedListing(t, store)
	svc := NewListingService(store, testLogger())

	closed, err := svc.Close(context.Background(), listing.ID, lister.ID)
	require.NoError(t, err)

	assert.False(t, closed.Active)
	assert.Empty(t, closed.WinnerID)
}

func TestClose_NotFound(t *testing.T) {
	store := newMockStore()
	svc := NewListingService(store, testLogger())

	_, err := svc.Close(context.Background(), "no-such-listing", "lister-1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
