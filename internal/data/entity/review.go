package entity

import (
	"github.com/google/uuid"
)

type ReviewStatus string

const (
	ReviewApproved ReviewStatus = "approved"
	ReviewPending  ReviewStatus = "pending"
	ReviewHidden   ReviewStatus = "hidden"
	ReviewFlagged  ReviewStatus = "flagged"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewApproved, ReviewPending, ReviewHidden, ReviewFlagged:
		return true
	}
	return false
}

type Review struct {
	BaseNoDelete
	UserID    uuid.UUID    `db:"user_id"`
	MovieID   int          `db:"movie_id"`
	MediaType MediaType    `db:"media_type"`
	Rating    int          `db:"rating"` // 1-10
	Content   *string      `db:"content"`
	Status    ReviewStatus `db:"status"`
	LikeCount int          `db:"like_count"`

	// joined from users on reads
	AuthorName string `db:"display_name"`
}

type ReviewLike struct {
	BaseSimple
	UserID   uuid.UUID `db:"user_id"`
	ReviewID uuid.UUID `db:"review_id"`
}

type ReviewStats struct {
	Average float64
	Count   int64
}
