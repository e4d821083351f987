package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/auction-house/internal/auth"
	"github.com/sakif/auction-house/internal/repository/sqlite"
	"github.com/sakif/auction-house/internal/service"
)

// testApp is the full HTTP stack over an in-memory database. Tests drive
// it through the router so routing, middleware, and handlers are all
// exercised together.
type testApp struct {
	router *chi.Mux
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	tokens, err := auth.NewTokenService("test-secret-test-secret")
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(4)

	authService := service.NewAuthService(db, tokens, passwords, logger)
	listingService := service.NewListingService(db, logger)
	bidService := service.NewBidService(db, db, logger)
	commentService := service.NewCommentService(db, db, logger)
	watchlistService := service.NewWatchlistService(db, db, logger)

	authHandler := NewAuthHandler(authService, logger)
	listingHandler := NewListingHandler(listingService, bidService, commentService, watchlistService, logger)
	bidHandler := NewBidHandler(bidService, logger)
	commentHandler := NewCommentHandler(commentService, logger)
	watchlistHandler := NewWatchlistHandler(watchlistService, logger)

	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})
	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/listings", listingHandler.HandleList)
			r.Get("/listings/{id}", listingHandler.HandleGetByID)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Post("/listings", listingHandler.HandleCreate)
			r.Post("/listings/{id}/bids", bidHandler.HandlePlace)
			r.Post("/listings/{id}/close", listingHandler.HandleClose)
			r.Post("/listings/{id}/watch", watchlistHandler.HandleToggle)
			r.Post("/listings/{id}/comments", commentHandler.HandleCreate)
			r.Get("/watchlist", watchlistHandler.HandleList)
		})
	})

	return &testApp{router: router}
}

// do sends a JSON request through the router. A nil cookie means an
// anonymous request.
func (a *testApp) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its session cookie.
func (a *testApp) register(t *testing.T, username string) *http.Cookie {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/auth/register", map[string]string{
		"username":     username,
		"password":     "s3cretpass",
		"confirmation": "s3cretpass",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, "register %s: %s", username, rec.Body.String())

	return sessionCookie(t, rec)
}

// createListing makes a listing as the given user and returns its ID.
func (a *testApp) createListing(t *testing.T, cookie *http.Cookie, title, price string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/listings", map[string]string{
		"title": title,
		"price": price,
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, "create listing: %s", rec.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
