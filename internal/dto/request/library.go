package request

// LibraryItemRequest toggles a title in favorites or watchlist, and records
// a history entry. Title and poster are stored as display snapshots.
type LibraryItemRequest struct {
	MovieID    int     `json:"movie_id" validate:"required,gte=1"`
	MediaType  string  `json:"media_type" validate:"required,oneof=movie tv"`
	Title      string  `json:"title" validate:"max=500"`
	PosterPath *string `json:"poster_path,omitempty" validate:"omitempty,max=500"`
}
