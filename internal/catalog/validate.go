package catalog

import (
	"encoding/json"
	"math"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

// Patch holds the typed fields of a partial update. Nil means unchanged.
type Patch struct {
	Title       *string
	Director    *string
	Genre       *string
	ReleaseYear *int
}

// Apply merges the provided fields into movie. The id is never touched.
func (p Patch) Apply(movie *domain.Movie) {
	if p.Title != nil {
		movie.Title = *p.Title
	}
	if p.Director != nil {
		movie.Director = *p.Director
	}
	if p.Genre != nil {
		movie.Genre = *p.Genre
	}
	if p.ReleaseYear != nil {
		movie.ReleaseYear = *p.ReleaseYear
	}
}

// RequireFields checks a create payload and returns the typed movie.
// Absent, empty, zero and false values count as missing. A non-integral
// releaseYear is ErrInvalidFieldType.
func RequireFields(d domain.Draft) (domain.Movie, error) {
	var missing, invalid []string
	movie := domain.Movie{}

	strField := func(name string, v any, dst *string) {
		if isFalsy(v) {
			missing = append(missing, name)
			return
		}
		s, ok := v.(string)
		if !ok {
			invalid = append(invalid, name)
			return
		}
		*dst = s
	}
	strField("id", d.ID, &movie.ID)
	strField("title", d.Title, &movie.Title)
	strField("director", d.Director, &movie.Director)
	strField("genre", d.Genre, &movie.Genre)

	if isFalsy(d.ReleaseYear) {
		missing = append(missing, "releaseYear")
	} else if year, ok := asYear(d.ReleaseYear); ok {
		movie.ReleaseYear = year
	} else {
		invalid = append(invalid, "releaseYear")
	}

	if len(missing) > 0 {
		return domain.Movie{}, &Error{Op: "create", Fields: missing, Err: ErrMissingField}
	}
	if len(invalid) > 0 {
		return domain.Movie{}, &Error{Op: "create", Fields: invalid, Err: ErrInvalidFieldType}
	}
	return movie, nil
}

// ParsePatch type-checks an update payload. The id field is ignored.
// releaseYear must be a whole number; 2010.5 is ErrInvalidFieldType like
// any other non-integral or non-numeric value.
func ParsePatch(d domain.Draft) (Patch, error) {
	var (
		patch   Patch
		invalid []string
	)
	strField := func(name string, v any) *string {
		if v == nil {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			invalid = append(invalid, name)
			return nil
		}
		return &s
	}
	patch.Title = strField("title", d.Title)
	patch.Director = strField("director", d.Director)
	patch.Genre = strField("genre", d.Genre)

	if d.ReleaseYear != nil {
		if year, ok := asYear(d.ReleaseYear); ok {
			patch.ReleaseYear = &year
		} else {
			invalid = append(invalid, "releaseYear")
		}
	}

	if len(invalid) > 0 {
		return Patch{}, &Error{Op: "update", Fields: invalid, Err: ErrInvalidFieldType}
	}
	return patch, nil
}

// CheckRating validates a submitted rating value.
func CheckRating(v any) (float64, error) {
	value, ok := asNumber(v)
	if !ok || value < domain.MinRating || value > domain.MaxRating {
		return 0, &Error{Op: "rate", Fields: []string{"rating"}, Err: ErrInvalidRating}
	}
	return value, nil
}

func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	}
	if n, ok := asNumber(v); ok {
		return n == 0
	}
	return false
}

func asNumber(v any) (float64, bool) {
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case float32:
		n = float64(val)
	case int:
		n = float64(val)
	case int32:
		n = float64(val)
	case int64:
		n = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func asYear(v any) (int, bool) {
	n, ok := asNumber(v)
	if !ok || n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false
	}
	return int(n), true
}
