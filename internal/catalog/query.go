package catalog

import (
	"context"
	"strings"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

// ByGenre returns movies whose genre equals genre, ignoring case.
func (c *Catalog) ByGenre(ctx context.Context, genre string) ([]domain.Movie, error) {
	return c.filter(ctx, "by-genre", func(m domain.Movie) bool {
		return strings.EqualFold(m.Genre, genre)
	})
}

// ByDirector returns movies whose director equals director, ignoring case.
func (c *Catalog) ByDirector(ctx context.Context, director string) ([]domain.Movie, error) {
	return c.filter(ctx, "by-director", func(m domain.Movie) bool {
		return strings.EqualFold(m.Director, director)
	})
}

// ByTitleKeyword returns movies whose title contains keyword, ignoring case.
func (c *Catalog) ByTitleKeyword(ctx context.Context, keyword string) ([]domain.Movie, error) {
	needle := strings.ToLower(keyword)
	return c.filter(ctx, "search", func(m domain.Movie) bool {
		return strings.Contains(strings.ToLower(m.Title), needle)
	})
}

func (c *Catalog) filter(ctx context.Context, op string, match func(domain.Movie) bool) ([]domain.Movie, error) {
	movies, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Movie, 0)
	for _, movie := range movies {
		if match(movie) {
			out = append(out, movie)
		}
	}
	if len(out) == 0 {
		return nil, &Error{Op: op, Err: ErrNotFound}
	}
	return out, nil
}
