package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

func ids(movies []domain.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func rate(t testing.TB, c *Catalog, id string, values ...float64) {
	t.Helper()
	for _, v := range values {
		if _, err := c.AddRating(context.Background(), id, v); err != nil {
			t.Fatalf("rate %s with %v: %v", id, v, err)
		}
	}
}

func TestAddRatingAndAverage(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	mustCreate(t, c, draft("m1", "A", "D", "G", 2000))

	movie, err := c.AddRating(ctx, "m1", float64(3))
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, movie.Ratings)

	movie, err = c.AddRating(ctx, "m1", float64(5))
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5}, movie.Ratings)

	avg, err := c.AverageFor(ctx, "m1")
	require.NoError(t, err)
	mean, ok := avg.Mean()
	require.True(t, ok)
	assert.Equal(t, 4.0, mean)
	assert.Equal(t, 2, avg.Count())
	assert.Equal(t, "m1", avg.Movie.ID)
}

func TestAverageWithoutRatings(t *testing.T) {
	c := newTestCatalog(t)
	mustCreate(t, c, draft("m1", "A", "D", "G", 2000))

	avg, err := c.AverageFor(context.Background(), "m1")
	require.NoError(t, err)
	mean, ok := avg.Mean()
	assert.False(t, ok)
	assert.Zero(t, mean)
	assert.Zero(t, avg.Count())
}

func TestAverageUnknownMovie(t *testing.T) {
	c := newTestCatalog(t)
	_, err := c.AverageFor(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRatingErrors(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	mustCreate(t, c, draft("m1", "A", "D", "G", 2000))

	_, err := c.AddRating(ctx, "ghost", float64(3))
	assert.ErrorIs(t, err, ErrNotFound)

	for _, bad := range []any{float64(0), 0.99, 5.01, float64(6), "4", nil, true} {
		_, err := c.AddRating(ctx, "m1", bad)
		assert.ErrorIs(t, err, ErrInvalidRating, "value %v", bad)
	}

	for _, good := range []any{float64(1), 2.5, float64(5), 4} {
		_, err := c.AddRating(ctx, "m1", good)
		assert.NoError(t, err, "value %v", good)
	}

	movie, err := c.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, 5, 4}, movie.Ratings)
}

func TestTopRated(t *testing.T) {
	ctx := context.Background()

	t.Run("ties preserve insertion order", func(t *testing.T) {
		c := newTestCatalog(t)
		for _, id := range []string{"A", "B", "C"} {
			mustCreate(t, c, draft(id, "Title "+id, "D", "G", 2000))
		}
		rate(t, c, "A", 4)
		rate(t, c, "B", 3, 5)
		rate(t, c, "C", 2)

		top, err := c.TopRated(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, ids(top))
	})

	t.Run("sorts by descending average", func(t *testing.T) {
		c := newTestCatalog(t)
		for _, id := range []string{"low", "high", "mid"} {
			mustCreate(t, c, draft(id, id, "D", "G", 2000))
		}
		rate(t, c, "low", 1)
		rate(t, c, "high", 5)
		rate(t, c, "mid", 3)

		top, err := c.TopRated(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"high", "mid", "low"}, ids(top))
	})

	t.Run("excludes movies without ratings", func(t *testing.T) {
		c := newTestCatalog(t)
		for _, id := range []string{"unrated", "rated"} {
			mustCreate(t, c, draft(id, id, "D", "G", 2000))
		}
		rate(t, c, "rated", 1)

		top, err := c.TopRated(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"rated"}, ids(top))
	})

	t.Run("no rated movies yields empty ranking", func(t *testing.T) {
		c := newTestCatalog(t)
		mustCreate(t, c, draft("m1", "A", "D", "G", 2000))

		top, err := c.TopRated(ctx, 5)
		require.NoError(t, err)
		assert.NotNil(t, top)
		assert.Empty(t, top)
	})

	t.Run("empty store is not found", func(t *testing.T) {
		c := newTestCatalog(t)
		_, err := c.TopRated(ctx, 5)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("limit", func(t *testing.T) {
		c := newTestCatalog(t)
		for i := 0; i < 8; i++ {
			id := fmt.Sprintf("m%d", i)
			mustCreate(t, c, draft(id, id, "D", "G", 2000))
			rate(t, c, id, float64(1+i%5))
		}

		top, err := c.TopRated(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"m4", "m3", "m2"}, ids(top))

		top, err = c.TopRated(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, top, DefaultTopRatedLimit)
	})
}

func TestConcurrentRatingsAreAllRecorded(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	mustCreate(t, c, draft("m1", "A", "D", "G", 2000))

	const workers = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.AddRating(ctx, "m1", float64(4)); err != nil {
				t.Errorf("add rating: %v", err)
			}
		}()
	}
	wg.Wait()

	avg, err := c.AverageFor(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, workers, avg.Count())
}

func BenchmarkTopRated(b *testing.B) {
	c := newTestCatalog(b)
	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("m%d", i)
		mustCreate(b, c, draft(id, id, "D", "G", 2000))
		rate(b, c, id, float64(1+i%5), float64(1+(i*7)%5))
	}

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.TopRated(ctx, DefaultTopRatedLimit); err != nil {
			b.Fatalf("top rated: %v", err)
		}
	}
}
