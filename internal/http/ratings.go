package httpserver

import (
	"net/http"
)

type ratingRequest struct {
	Rating any `json:"rating"`
}

type averageResponse struct {
	Movie         movieResponse `json:"movie"`
	AverageRating float64       `json:"averageRating"`
}

func (s *Server) handleAddRating(w http.ResponseWriter, r *http.Request) {
	id, err := decodeParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	var req ratingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	movie, err := s.catalog.AddRating(r.Context(), id, req.Rating)
	if err != nil {
		s.respondCatalogError(w, err, msgMovieNotFound)
		return
	}
	resp := toMovieResponse(movie)
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Movie rated successfully", Movie: &resp})
}

func (s *Server) handleGetAverage(w http.ResponseWriter, r *http.Request) {
	id, err := decodeParam(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	avg, err := s.catalog.AverageFor(r.Context(), id)
	if err != nil {
		s.respondCatalogError(w, err, msgMovieNotFound)
		return
	}

	mean, ok := avg.Mean()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.respondJSON(w, http.StatusOK, averageResponse{
		Movie:         toMovieResponse(avg.Movie),
		AverageRating: mean,
	})
}

func (s *Server) handleTopRated(w http.ResponseWriter, r *http.Request) {
	movies, err := s.catalog.TopRated(r.Context(), s.cfg.TopRatedLimit)
	if err != nil {
		s.respondCatalogError(w, err, "No movies found.")
		return
	}
	s.respondJSON(w, http.StatusOK, toMoviesResponse(movies))
}
