package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/movie-catalog/internal/catalog"
	"github.com/Clark-Hu/movie-catalog/internal/config"
	"github.com/Clark-Hu/movie-catalog/internal/domain"
	httpserver "github.com/Clark-Hu/movie-catalog/internal/http"
	"github.com/Clark-Hu/movie-catalog/internal/store"
)

func newTestClient(t *testing.T) *HTTPClient {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(st.Close)
	srv := httpserver.New(config.Config{TopRatedLimit: 5}, catalog.New(st, nil), nil, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := NewHTTPClient(ts.URL+"/", 2*time.Second, nil)
	require.NoError(t, err)
	return c
}

func inception() domain.Movie {
	return domain.Movie{
		ID:          "m1",
		Title:       "Inception",
		Director:    "Christopher Nolan",
		Genre:       "Sci-Fi",
		ReleaseYear: 2010,
	}
}

func TestNewHTTPClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewHTTPClient("localhost:8080", time.Second, nil)
	require.Error(t, err)

	_, err = NewHTTPClient("://bad", time.Second, nil)
	require.Error(t, err)
}

func TestHTTPClient_CreateAndGet(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateMovie(ctx, inception())
	require.NoError(t, err)
	if diff := cmp.Diff(inception(), created); diff != "" {
		t.Fatalf("created movie mismatch (-want +got):\n%s", diff)
	}

	got, err := c.GetMovie(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Inception", got.Title)
	assert.Nil(t, got.Ratings)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetMovie(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.CreateMovie(ctx, inception())
	require.NoError(t, err)
	_, err = c.CreateMovie(ctx, inception())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "DUPLICATE_ID", apiErr.Code)

	_, err = c.AddRating(ctx, "m1", 6)
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, "INVALID_RATING", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "400")
}

func TestHTTPClient_RatingsAndTopRated(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.TopRated(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	first := inception()
	second := inception()
	second.ID, second.Title = "m2", "Tenet"
	for _, m := range []domain.Movie{first, second} {
		_, err := c.CreateMovie(ctx, m)
		require.NoError(t, err)
	}

	updated, err := c.AddRating(ctx, "m1", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, updated.Ratings)
	_, err = c.AddRating(ctx, "m2", 5)
	require.NoError(t, err)

	top, err := c.TopRated(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "m2", top[0].ID)
	assert.Equal(t, "m1", top[1].ID)

	_, err = c.AddRating(ctx, "ghost", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPClient_EscapesIDs(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	movie := inception()
	movie.ID = "a b/c?d"
	_, err := c.CreateMovie(ctx, movie)
	require.NoError(t, err)

	got, err := c.GetMovie(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, movie.ID, got.ID)
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	c := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetMovie(ctx, "m1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
