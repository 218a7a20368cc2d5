package response

import (
	"time"

	"movie-discovery/internal/data/entity"
)

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID                  string          `json:"id"`
	Email               string          `json:"email"`
	DisplayName         string          `json:"display_name"`
	AvatarURL           *string         `json:"avatar_url,omitempty"`
	GenrePreferences    []int           `json:"genre_preferences"`
	OnboardingCompleted bool            `json:"onboarding_completed"`
	IsPremium           bool            `json:"is_premium"`
	PremiumBenefits     map[string]any  `json:"premium_benefits"`
	Role                entity.UserRole `json:"role"`
	CreatedAt           time.Time       `json:"created_at"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	genres := user.GenrePreferences
	if genres == nil {
		genres = []int{}
	}
	benefits := user.PremiumBenefits
	if benefits == nil {
		benefits = map[string]any{}
	}

	return UserResponse{
		ID:                  user.ID.String(),
		Email:               user.Email,
		DisplayName:         user.DisplayName,
		AvatarURL:           user.AvatarURL,
		GenrePreferences:    genres,
		OnboardingCompleted: user.OnboardingCompleted,
		IsPremium:           user.IsPremium,
		PremiumBenefits:     benefits,
		Role:                user.Role,
		CreatedAt:           user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{User: UserToResponse(user)}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
