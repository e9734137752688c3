package store

import (
	"context"
	"errors"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

var (
	// ErrNotFound indicates the requested movie does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateID indicates a movie with the same id is already stored.
	ErrDuplicateID = errors.New("store: duplicate id")
)

// Store owns the movie records. Implementations must be safe for concurrent
// use, return copies that callers may freely mutate, and enumerate records
// in insertion order.
type Store interface {
	Insert(ctx context.Context, movie domain.Movie) error
	Get(ctx context.Context, id string) (domain.Movie, error)
	// Save replaces a stored record in place, keeping its insertion position.
	Save(ctx context.Context, movie domain.Movie) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Movie, error)
	HealthCheck(ctx context.Context) error
	Close()
}
