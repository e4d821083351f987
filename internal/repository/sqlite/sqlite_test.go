package sqlite

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sakif/auction-house/internal/model"
)

// newTestDB creates a fresh in-memory database for one test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$04$fakehashforrepositorytests",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return user
}

func createTestListing(t *testing.T, db *DB, listerID, title, price string) *model.Listing {
	t.Helper()
	listing := &model.Listing{
		Title:    title,
		Price:    mustDecimal(t, price),
		Category: model.CategoryNone,
		ListerID: listerID,
	}
	if err := db.CreateListing(context.Background(), listing); err != nil {
		t.Fatalf("failed to create test listing %s: %v", title, err)
	}
	return listing
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}
