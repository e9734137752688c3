// Package catalog implements the movie catalog: record lifecycle, payload
// validation, rating aggregation and read-side queries over a store.Store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
	"github.com/Clark-Hu/movie-catalog/internal/store"
)

// Catalog serializes every mutation against the store and against reads
// that need a consistent snapshot.
type Catalog struct {
	mu     sync.RWMutex
	store  store.Store
	logger *zap.Logger
}

// New constructs a Catalog over st.
func New(st store.Store, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{store: st, logger: logger}
}

// Create validates a draft and inserts it. Ratings start absent.
func (c *Catalog) Create(ctx context.Context, draft domain.Draft) (domain.Movie, error) {
	movie, err := RequireFields(draft)
	if err != nil {
		return domain.Movie{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Insert(ctx, movie); err != nil {
		return domain.Movie{}, translate("create", movie.ID, err)
	}
	c.logger.Debug("movie created", zap.String("id", movie.ID))
	return movie, nil
}

// Get returns a movie by id.
func (c *Catalog) Get(ctx context.Context, id string) (domain.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	movie, err := c.store.Get(ctx, id)
	if err != nil {
		return domain.Movie{}, translate("get", id, err)
	}
	return movie, nil
}

// Update merges the provided fields of draft into an existing movie.
func (c *Catalog) Update(ctx context.Context, id string, draft domain.Draft) (domain.Movie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	movie, err := c.store.Get(ctx, id)
	if err != nil {
		return domain.Movie{}, translate("update", id, err)
	}

	patch, err := ParsePatch(draft)
	if err != nil {
		var cerr *Error
		if errors.As(err, &cerr) {
			cerr.ID = id
		}
		return domain.Movie{}, err
	}
	patch.Apply(&movie)

	if err := c.store.Save(ctx, movie); err != nil {
		return domain.Movie{}, translate("update", id, err)
	}
	c.logger.Debug("movie updated", zap.String("id", id))
	return movie, nil
}

// Delete removes a movie permanently.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, id); err != nil {
		return translate("delete", id, err)
	}
	c.logger.Debug("movie deleted", zap.String("id", id))
	return nil
}

// List returns every movie in insertion order.
func (c *Catalog) List(ctx context.Context) ([]domain.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list(ctx)
}

func (c *Catalog) list(ctx context.Context) ([]domain.Movie, error) {
	movies, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	return movies, nil
}

// HealthCheck reports whether the backing store is reachable.
func (c *Catalog) HealthCheck(ctx context.Context) error {
	return c.store.HealthCheck(ctx)
}

func translate(op, id string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &Error{Op: op, ID: id, Err: ErrNotFound}
	case errors.Is(err, store.ErrDuplicateID):
		return &Error{Op: op, ID: id, Fields: []string{"id"}, Err: ErrDuplicateID}
	default:
		return fmt.Errorf("catalog: %s %q: %w", op, id, err)
	}
}
