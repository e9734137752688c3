package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

const uniqueViolation = "23505"

const movieColumns = `id, title, director, genre, release_year, ratings`

// Options controls connection-pool behaviour.
type Options struct {
	MaxConns               int32
	MinConns               int32
	MaxConnIdleTime        time.Duration
	MaxConnLifetime        time.Duration
	ConnTimeout            time.Duration
	StatementCacheCapacity int
	Logger                 *zap.Logger
}

// Postgres stores movies in a private schema created for the lifetime of the
// process. Close drops the schema, so nothing outlives a restart.
type Postgres struct {
	pool   *pgxpool.Pool
	schema string
	logger *zap.Logger
	opts   Options
}

// NewPostgres connects a pool, creates a fresh schema and the movies table.
func NewPostgres(ctx context.Context, dbURL string, opts Options) (*Postgres, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	schema := "catalog_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	logger.Info("store: initializing connection pool",
		zap.Int32("max_conns", opts.MaxConns),
		zap.Int32("min_conns", opts.MinConns),
		zap.Duration("max_idle", opts.MaxConnIdleTime),
		zap.Duration("max_life", opts.MaxConnLifetime),
		zap.Int("stmt_cache", opts.StatementCacheCapacity),
		zap.String("schema", schema))

	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.StatementCacheCapacity >= 0 {
		cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
		cfg.ConnConfig.StatementCacheCapacity = opts.StatementCacheCapacity
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema

	connCtx := ctx
	if opts.ConnTimeout > 0 {
		var cancel context.CancelFunc
		connCtx, cancel = context.WithTimeout(ctx, opts.ConnTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(connCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(connCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(connCtx, "CREATE SCHEMA "+pgx.Identifier{schema}.Sanitize()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if _, err := pool.Exec(connCtx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create movies table: %w", err)
	}

	logger.Info("store: database connection established", zap.String("schema", schema))

	return &Postgres{pool: pool, schema: schema, logger: logger, opts: opts}, nil
}

// Insert adds a new movie row.
func (p *Postgres) Insert(ctx context.Context, movie domain.Movie) error {
	const query = `
        INSERT INTO movies (id, title, director, genre, release_year, ratings)
        VALUES ($1,$2,$3,$4,$5,$6)
    `
	_, err := p.pool.Exec(ctx, query, movie.ID, movie.Title, movie.Director, movie.Genre, movie.ReleaseYear, movie.Ratings)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

// Get fetches a movie by id.
func (p *Postgres) Get(ctx context.Context, id string) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	movie, err := scanMovie(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, fmt.Errorf("get movie: %w", err)
	}
	return movie, nil
}

// Save overwrites every mutable column of an existing movie.
func (p *Postgres) Save(ctx context.Context, movie domain.Movie) error {
	const query = `
        UPDATE movies
        SET title = $2,
            director = $3,
            genre = $4,
            release_year = $5,
            ratings = $6
        WHERE id = $1
    `
	tag, err := p.pool.Exec(ctx, query, movie.ID, movie.Title, movie.Director, movie.Genre, movie.ReleaseYear, movie.Ratings)
	if err != nil {
		return fmt.Errorf("save movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a movie row.
func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all movies ordered by insertion.
func (p *Postgres) List(ctx context.Context) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY seq`, movieColumns)
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// HealthCheck verifies the database is reachable.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return fmt.Errorf("store not initialized")
	}
	checkCtx := ctx
	if p.opts.ConnTimeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, p.opts.ConnTimeout)
		defer cancel()
	}
	return p.pool.Ping(checkCtx)
}

// Close drops the process schema and releases database resources.
func (p *Postgres) Close() {
	if p == nil || p.pool == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := p.pool.Exec(ctx, "DROP SCHEMA IF EXISTS "+pgx.Identifier{p.schema}.Sanitize()+" CASCADE"); err != nil {
		p.logger.Warn("store: drop schema failed", zap.String("schema", p.schema), zap.Error(err))
	}
	p.logger.Info("store: closing connection pool")
	p.pool.Close()
}

// Stats exposes pgxpool statistics for observability.
func (p *Postgres) Stats() *pgxpool.Stat {
	if p == nil || p.pool == nil {
		return nil
	}
	return p.pool.Stat()
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Director,
		&movie.Genre,
		&movie.ReleaseYear,
		&movie.Ratings,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}
