package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-catalog/internal/client"
	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

type seedEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	ReleaseYear int       `json:"releaseYear"`
	Genre       string    `json:"genre"`
	Ratings     []float64 `json:"ratings"`
}

type seedStats struct {
	Created int
	Skipped int
	Ratings int
}

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "catalog base url")
		data    = flag.String("data", "movies.json", "path to seed data file")
		timeout = flag.Duration("timeout", 5*time.Second, "per-request timeout")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entries, err := loadEntries(*data)
	if err != nil {
		logger.Fatal("load seed data", zap.String("path", *data), zap.Error(err))
	}

	c, err := client.NewHTTPClient(*baseURL, *timeout, logger)
	if err != nil {
		logger.Fatal("init catalog client", zap.Error(err))
	}

	stats, err := seed(ctx, c, entries, logger)
	if err != nil {
		logger.Fatal("seed catalog", zap.Error(err))
	}
	logger.Info("seed complete",
		zap.Int("created", stats.Created),
		zap.Int("skipped", stats.Skipped),
		zap.Int("ratings", stats.Ratings))
}

func loadEntries(path string) ([]seedEntry, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed data: %w", err)
	}
	var entries []seedEntry
	if err := json.Unmarshal(file, &entries); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return entries, nil
}

// seed creates every entry and submits its ratings. Entries whose id already
// exists are skipped along with their ratings.
func seed(ctx context.Context, c client.Client, entries []seedEntry, logger *zap.Logger) (seedStats, error) {
	var stats seedStats
	for _, e := range entries {
		_, err := c.CreateMovie(ctx, domain.Movie{
			ID:          e.ID,
			Title:       e.Title,
			Director:    e.Director,
			Genre:       e.Genre,
			ReleaseYear: e.ReleaseYear,
		})
		var apiErr *client.APIError
		switch {
		case err == nil:
			stats.Created++
		case errors.As(err, &apiErr) && apiErr.Code == "DUPLICATE_ID":
			logger.Warn("movie already exists", zap.String("id", e.ID))
			stats.Skipped++
			continue
		default:
			return stats, fmt.Errorf("create %q: %w", e.ID, err)
		}

		for _, r := range e.Ratings {
			if _, err := c.AddRating(ctx, e.ID, r); err != nil {
				return stats, fmt.Errorf("rate %q: %w", e.ID, err)
			}
			stats.Ratings++
		}
	}
	return stats, nil
}
