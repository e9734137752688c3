package httpserver

import (
	"context"
	"net/http"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

func (s *Server) handleByGenre(w http.ResponseWriter, r *http.Request) {
	s.handleQuery(w, r, "genre", s.catalog.ByGenre, "No movies found for the specified genre.")
}

func (s *Server) handleByDirector(w http.ResponseWriter, r *http.Request) {
	s.handleQuery(w, r, "director", s.catalog.ByDirector, "No movies found by the specified director.")
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.handleQuery(w, r, "keyword", s.catalog.ByTitleKeyword, "No movies match the search keyword.")
}

func (s *Server) handleQuery(
	w http.ResponseWriter,
	r *http.Request,
	param string,
	query func(context.Context, string) ([]domain.Movie, error),
	notFoundMessage string,
) {
	value, err := decodeParam(r, param)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	movies, err := query(r.Context(), value)
	if err != nil {
		s.respondCatalogError(w, err, notFoundMessage)
		return
	}
	s.respondJSON(w, http.StatusOK, toMoviesResponse(movies))
}
