package entity

import (
	"time"

	"github.com/google/uuid"
)

type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

func (m MediaType) Valid() bool {
	return m == MediaMovie || m == MediaTV
}

// ListKind names a user title list backed by its own table.
type ListKind string

const (
	ListFavorites ListKind = "favorites"
	ListWatchlist ListKind = "watchlist"
)

// LibraryItem is a favorite or watchlist row. Title and poster are snapshots
// taken when the item was added so lists render without a catalog call.
type LibraryItem struct {
	BaseSimple
	UserID     uuid.UUID `db:"user_id"`
	MovieID    int       `db:"movie_id"`
	MediaType  MediaType `db:"media_type"`
	Title      string    `db:"title"`
	PosterPath *string   `db:"poster_path"`
}

type WatchHistory struct {
	BaseSimple
	UserID     uuid.UUID `db:"user_id"`
	MovieID    int       `db:"movie_id"`
	MediaType  MediaType `db:"media_type"`
	Title      string    `db:"title"`
	PosterPath *string   `db:"poster_path"`
	WatchedAt  time.Time `db:"watched_at"`
}
