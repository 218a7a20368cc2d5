package request

import "movie-discovery/internal/data/entity"

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`

	// filled by the handler from the HTTP request
	Client entity.ClientInfo `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`

	Client entity.ClientInfo `json:"-"`
}
