package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

func sampleMovie(id string) domain.Movie {
	return domain.Movie{
		ID:          id,
		Title:       "Title " + id,
		Director:    "Director",
		Genre:       "Drama",
		ReleaseYear: 2000,
	}
}

// runStoreContract exercises behaviour every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("new store is empty", func(t *testing.T) {
		st := newStore(t)
		movies, err := st.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, movies)

		_, err = st.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("insert and get", func(t *testing.T) {
		st := newStore(t)
		want := sampleMovie("m1")
		require.NoError(t, st.Insert(ctx, want))

		got, err := st.Get(ctx, "m1")
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Get mismatch (-want +got):\n%s", diff)
		}
		assert.False(t, got.HasRatings())
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Insert(ctx, sampleMovie("m1")))
		assert.ErrorIs(t, st.Insert(ctx, sampleMovie("m1")), ErrDuplicateID)

		movies, err := st.List(ctx)
		require.NoError(t, err)
		assert.Len(t, movies, 1)
	})

	t.Run("save keeps insertion order", func(t *testing.T) {
		st := newStore(t)
		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, st.Insert(ctx, sampleMovie(id)))
		}
		updated := sampleMovie("a")
		updated.Title = "Renamed"
		updated.Ratings = []float64{3, 5}
		require.NoError(t, st.Save(ctx, updated))

		movies, err := st.List(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(movies))
		for _, m := range movies {
			ids = append(ids, m.ID)
		}
		assert.Equal(t, []string{"a", "b", "c"}, ids)
		assert.Equal(t, "Renamed", movies[0].Title)
		assert.Equal(t, []float64{3, 5}, movies[0].Ratings)
	})

	t.Run("save unknown id", func(t *testing.T) {
		st := newStore(t)
		assert.ErrorIs(t, st.Save(ctx, sampleMovie("ghost")), ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Insert(ctx, sampleMovie("m1")))
		require.NoError(t, st.Insert(ctx, sampleMovie("m2")))

		require.NoError(t, st.Delete(ctx, "m1"))
		_, err := st.Get(ctx, "m1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, st.Delete(ctx, "m1"), ErrNotFound)

		movies, err := st.List(ctx)
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.Equal(t, "m2", movies[0].ID)
	})

	t.Run("returned records do not alias storage", func(t *testing.T) {
		st := newStore(t)
		movie := sampleMovie("m1")
		movie.Ratings = []float64{4}
		require.NoError(t, st.Insert(ctx, movie))
		movie.Ratings[0] = 1

		got, err := st.Get(ctx, "m1")
		require.NoError(t, err)
		got.Ratings[0] = 2
		got.Title = "mutated"

		listed, err := st.List(ctx)
		require.NoError(t, err)
		listed[0].Ratings[0] = 3

		again, err := st.Get(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, []float64{4}, again.Ratings)
		assert.Equal(t, "Title m1", again.Title)
	})

	t.Run("concurrent inserts keep ids unique", func(t *testing.T) {
		st := newStore(t)
		const workers = 10
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				movie := sampleMovie("shared")
				movie.Title = fmt.Sprintf("writer-%d", i)
				if err := st.Insert(ctx, movie); err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
				} else if err != ErrDuplicateID {
					t.Errorf("insert %d: %v", i, err)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, accepted)
		movies, err := st.List(ctx)
		require.NoError(t, err)
		assert.Len(t, movies, 1)
	})

	t.Run("health check", func(t *testing.T) {
		st := newStore(t)
		assert.NoError(t, st.HealthCheck(ctx))
	})
}
