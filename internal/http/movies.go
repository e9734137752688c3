package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-catalog/internal/catalog"
	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

const maxRequestBody = 1 << 20 // 1 MiB

const msgMovieNotFound = "Movie not found."

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type movieResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	ReleaseYear int       `json:"releaseYear"`
	Genre       string    `json:"genre"`
	Rating      []float64 `json:"rating,omitempty"`
}

type messageResponse struct {
	Message string         `json:"message"`
	Movie   *movieResponse `json:"movie,omitempty"`
}

type movieEnvelope struct {
	Movie movieResponse `json:"movie"`
}

type moviesEnvelope struct {
	Movies []movieResponse `json:"movies"`
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req domain.Draft
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	movie, err := s.catalog.Create(r.Context(), req)
	if err != nil {
		s.respondCatalogError(w, err, msgMovieNotFound)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/movies/%s", url.PathEscape(movie.ID)))
	resp := toMovieResponse(movie)
	s.respondJSON(w, http.StatusCreated, messageResponse{Message: "Movie added successfully", Movie: &resp})
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := decodeParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	movie, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.respondCatalogError(w, err, msgMovieNotFound)
		return
	}
	s.respondJSON(w, http.StatusOK, movieEnvelope{Movie: toMovieResponse(movie)})
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := decodeParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	var req domain.Draft
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	movie, err := s.catalog.Update(r.Context(), id, req)
	if err != nil {
		s.respondCatalogError(w, err, msgMovieNotFound)
		return
	}
	resp := toMovieResponse(movie)
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Movie updated", Movie: &resp})
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := decodeParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	if err := s.catalog.Delete(r.Context(), id); err != nil {
		s.respondCatalogError(w, err, msgMovieNotFound)
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Movie deleted successfully"})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Warn("failed to encode response", zap.Error(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string, details []string) {
	resp := errorResponse{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		resp.Details = details
	}
	s.respondJSON(w, status, resp)
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		s.respondError(w, http.StatusBadRequest, "MALFORMED_INPUT", "Invalid JSON format.", nil)
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusBadRequest, "MALFORMED_INPUT", "Request body must be a JSON object.", nil)
	case errors.As(err, &maxBytesError):
		s.respondError(w, http.StatusBadRequest, "MALFORMED_INPUT", "Request body too large.", nil)
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusBadRequest, "MALFORMED_INPUT", "Request body cannot be empty.", nil)
	default:
		s.respondError(w, http.StatusBadRequest, "MALFORMED_INPUT", "Unable to parse request body.", nil)
	}
}

func (s *Server) respondCatalogError(w http.ResponseWriter, err error, notFoundMessage string) {
	fields := catalog.FieldsOf(err)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", notFoundMessage, nil)
	case errors.Is(err, catalog.ErrMissingField):
		s.respondError(w, http.StatusBadRequest, "MISSING_FIELD", "Missing Required Fields", fields)
	case errors.Is(err, catalog.ErrDuplicateID):
		s.respondError(w, http.StatusBadRequest, "DUPLICATE_ID", "Duplicate ID.", fields)
	case errors.Is(err, catalog.ErrInvalidFieldType):
		s.respondError(w, http.StatusBadRequest, "INVALID_FIELD_TYPE", "Invalid fields provided.", fields)
	case errors.Is(err, catalog.ErrInvalidRating):
		s.respondError(w, http.StatusBadRequest, "INVALID_RATING", "Rating must be a number between 1 and 5.", fields)
	default:
		s.logger.Error("catalog operation failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		Director:    movie.Director,
		ReleaseYear: movie.ReleaseYear,
		Genre:       movie.Genre,
		Rating:      movie.Ratings,
	}
}

func toMoviesResponse(movies []domain.Movie) moviesEnvelope {
	items := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, toMovieResponse(movie))
	}
	return moviesEnvelope{Movies: items}
}

// decodeParam returns a path parameter in decoded form. chi matches against
// r.URL.RawPath when it is set, so only then is the value still escaped.
func decodeParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return "", fmt.Errorf("missing %s parameter", name)
	}
	if r.URL.RawPath == "" {
		return raw, nil
	}
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s parameter", name)
	}
	return value, nil
}
