package response

import "movie-discovery/internal/catalog"

const (
	SourceGenres   = "genres"
	SourceFallback = "fallback"
)

type RecommendationResponse struct {
	Source  string          `json:"source"`
	Results []catalog.Title `json:"results"`
}
