package response

import (
	"time"

	"movie-discovery/internal/data/entity"
)

type LibraryItemResponse struct {
	MovieID    int              `json:"movie_id"`
	MediaType  entity.MediaType `json:"media_type"`
	Title      string           `json:"title"`
	PosterPath *string          `json:"poster_path,omitempty"`
	AddedAt    time.Time        `json:"added_at"`
}

type ToggleResponse struct {
	InList bool `json:"in_list"`
}

type HistoryResponse struct {
	MovieID    int              `json:"movie_id"`
	MediaType  entity.MediaType `json:"media_type"`
	Title      string           `json:"title"`
	PosterPath *string          `json:"poster_path,omitempty"`
	WatchedAt  time.Time        `json:"watched_at"`
}

func LibraryItemToResponse(item *entity.LibraryItem) LibraryItemResponse {
	return LibraryItemResponse{
		MovieID:    item.MovieID,
		MediaType:  item.MediaType,
		Title:      item.Title,
		PosterPath: item.PosterPath,
		AddedAt:    item.CreatedAt,
	}
}

func HistoryToResponse(h *entity.WatchHistory) HistoryResponse {
	return HistoryResponse{
		MovieID:    h.MovieID,
		MediaType:  h.MediaType,
		Title:      h.Title,
		PosterPath: h.PosterPath,
		WatchedAt:  h.WatchedAt,
	}
}
