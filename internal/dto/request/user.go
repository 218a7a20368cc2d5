package request

type UpdateProfileRequest struct {
	DisplayName string  `json:"display_name" validate:"required,min=1,max=100"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url,max=2048"`
}

// GenrePreferencesRequest carries TMDb genre ids.
type GenrePreferencesRequest struct {
	GenreIDs []int `json:"genre_ids" validate:"required,min=1,max=20,unique,dive,gte=1"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}
