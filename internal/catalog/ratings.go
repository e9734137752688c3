package catalog

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

// DefaultTopRatedLimit is used when TopRated receives a non-positive limit.
const DefaultTopRatedLimit = 5

// Average is the result of AverageFor. A movie without ratings has no mean.
type Average struct {
	Movie   domain.Movie
	summary domain.RatingSummary
}

// Mean returns the average rating, or false when the movie has no ratings.
func (a Average) Mean() (float64, bool) {
	return a.summary.Mean()
}

// Count is the number of ratings the average is computed over.
func (a Average) Count() int {
	return a.summary.Count
}

// AddRating appends a rating to a movie.
func (c *Catalog) AddRating(ctx context.Context, id string, value any) (domain.Movie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	movie, err := c.store.Get(ctx, id)
	if err != nil {
		return domain.Movie{}, translate("rate", id, err)
	}

	rating, err := CheckRating(value)
	if err != nil {
		var cerr *Error
		if errors.As(err, &cerr) {
			cerr.ID = id
		}
		return domain.Movie{}, err
	}

	movie.Ratings = append(movie.Ratings, rating)
	if err := c.store.Save(ctx, movie); err != nil {
		return domain.Movie{}, translate("rate", id, err)
	}
	c.logger.Debug("movie rated", zap.String("id", id), zap.Float64("rating", rating))
	return movie, nil
}

// AverageFor computes the mean rating of a movie.
func (c *Catalog) AverageFor(ctx context.Context, id string) (Average, error) {
	movie, err := c.Get(ctx, id)
	if err != nil {
		return Average{}, err
	}
	return Average{Movie: movie, summary: domain.Summarize(movie.Ratings)}, nil
}

// TopRated ranks rated movies by descending average. Ties keep insertion
// order and movies without ratings are left out. An empty store is
// ErrNotFound; a store with no rated movies yields an empty slice.
func (c *Catalog) TopRated(ctx context.Context, limit int) ([]domain.Movie, error) {
	if limit <= 0 {
		limit = DefaultTopRatedLimit
	}

	c.mu.RLock()
	movies, err := c.list(ctx)
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, &Error{Op: "top-rated", Err: ErrNotFound}
	}

	averages := make(map[string]float64, len(movies))
	ranked := make([]domain.Movie, 0, len(movies))
	for _, movie := range movies {
		mean, ok := domain.Summarize(movie.Ratings).Mean()
		if !ok {
			continue
		}
		averages[movie.ID] = mean
		ranked = append(ranked, movie)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return averages[ranked[i].ID] > averages[ranked[j].ID]
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
