package response

import (
	"time"

	"movie-discovery/internal/data/entity"
)

type ReviewResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	AuthorName string              `json:"author_name"`
	MovieID    int                 `json:"movie_id"`
	MediaType  entity.MediaType    `json:"media_type"`
	Rating     int                 `json:"rating"`
	Content    *string             `json:"content,omitempty"`
	Status     entity.ReviewStatus `json:"status"`
	LikeCount  int                 `json:"like_count"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type ReviewStatsResponse struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}

type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

func ReviewToResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID.String(),
		UserID:     r.UserID.String(),
		AuthorName: r.AuthorName,
		MovieID:    r.MovieID,
		MediaType:  r.MediaType,
		Rating:     r.Rating,
		Content:    r.Content,
		Status:     r.Status,
		LikeCount:  r.LikeCount,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
