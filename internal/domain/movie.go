package domain

// Movie represents the canonical movie record held by the catalog.
type Movie struct {
	ID          string
	Title       string
	Director    string
	Genre       string
	ReleaseYear int
	Ratings     []float64
}

// Clone returns a deep copy so callers cannot alias the stored rating slice.
func (m Movie) Clone() Movie {
	if m.Ratings != nil {
		m.Ratings = append([]float64(nil), m.Ratings...)
	}
	return m
}

// HasRatings reports whether at least one rating has been recorded.
func (m Movie) HasRatings() bool {
	return len(m.Ratings) > 0
}

// Draft is a movie payload as submitted by a client. Fields stay untyped
// until the catalog validates them; nil means the field was not provided.
type Draft struct {
	ID          any `json:"id"`
	Title       any `json:"title"`
	Director    any `json:"director"`
	Genre       any `json:"genre"`
	ReleaseYear any `json:"releaseYear"`
}
