package request

type CreateReviewRequest struct {
	MovieID   int     `json:"movie_id" validate:"required,gte=1"`
	MediaType string  `json:"media_type" validate:"required,oneof=movie tv"`
	Rating    int     `json:"rating" validate:"required,min=1,max=10"`
	Content   *string `json:"content,omitempty" validate:"omitempty,max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=10"`
	Content *string `json:"content,omitempty" validate:"omitempty,max=2000"`
}

type UpdateReviewStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved pending hidden flagged"`
}
