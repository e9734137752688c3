// Package client talks to the catalog HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

// ErrNotFound is returned when the catalog cannot find the requested movie.
var ErrNotFound = errors.New("client: not found")

// APIError describes a non-2xx response other than 404.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("client: %d %s: %s (%s)", e.StatusCode, e.Code, e.Message, strings.Join(e.Details, ", "))
	}
	return fmt.Sprintf("client: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client defines the catalog operations used by tooling.
type Client interface {
	CreateMovie(ctx context.Context, movie domain.Movie) (domain.Movie, error)
	GetMovie(ctx context.Context, id string) (domain.Movie, error)
	AddRating(ctx context.Context, id string, rating float64) (domain.Movie, error)
	TopRated(ctx context.Context) ([]domain.Movie, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient constructs a new HTTP-backed catalog client.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	trimmed := strings.TrimRight(baseURL, "/")
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse catalog url: %q is not absolute", baseURL)
	}
	return &HTTPClient{
		baseURL: trimmed,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

type moviePayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	ReleaseYear int       `json:"releaseYear"`
	Genre       string    `json:"genre"`
	Rating      []float64 `json:"rating,omitempty"`
}

type createPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Director    string `json:"director"`
	ReleaseYear int    `json:"releaseYear"`
	Genre       string `json:"genre"`
}

type movieEnvelope struct {
	Movie moviePayload `json:"movie"`
}

type moviesEnvelope struct {
	Movies []moviePayload `json:"movies"`
}

type errorPayload struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

// CreateMovie registers a movie. Ratings on movie are ignored.
func (c *HTTPClient) CreateMovie(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	body := createPayload{
		ID:          movie.ID,
		Title:       movie.Title,
		Director:    movie.Director,
		ReleaseYear: movie.ReleaseYear,
		Genre:       movie.Genre,
	}
	var resp movieEnvelope
	if err := c.do(ctx, http.MethodPost, c.endpoint("movies"), body, &resp); err != nil {
		return domain.Movie{}, err
	}
	return resp.Movie.toDomain(), nil
}

// GetMovie fetches a movie by id.
func (c *HTTPClient) GetMovie(ctx context.Context, id string) (domain.Movie, error) {
	var resp movieEnvelope
	if err := c.do(ctx, http.MethodGet, c.endpoint("movies", id), nil, &resp); err != nil {
		return domain.Movie{}, err
	}
	return resp.Movie.toDomain(), nil
}

// AddRating submits one rating for a movie.
func (c *HTTPClient) AddRating(ctx context.Context, id string, rating float64) (domain.Movie, error) {
	body := map[string]float64{"rating": rating}
	var resp movieEnvelope
	if err := c.do(ctx, http.MethodPost, c.endpoint("movies", id, "rating"), body, &resp); err != nil {
		return domain.Movie{}, err
	}
	return resp.Movie.toDomain(), nil
}

// TopRated returns the server's top-rated ranking.
func (c *HTTPClient) TopRated(ctx context.Context) ([]domain.Movie, error) {
	var resp moviesEnvelope
	if err := c.do(ctx, http.MethodGet, c.endpoint("movies", "top-rated"), nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Movie, 0, len(resp.Movies))
	for _, m := range resp.Movies {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (c *HTTPClient) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body, dst interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if dst == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("decode catalog response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload errorPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
			apiErr.Details = payload.Details
		}
		c.logger.Debug("client: unexpected status",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return apiErr
	}
}

func (m moviePayload) toDomain() domain.Movie {
	return domain.Movie{
		ID:          m.ID,
		Title:       m.Title,
		Director:    m.Director,
		Genre:       m.Genre,
		ReleaseYear: m.ReleaseYear,
		Ratings:     m.Rating,
	}
}
