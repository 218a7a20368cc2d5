package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	Base
	Email               string         `db:"email"`
	PasswordHash        string         `db:"password"`
	DisplayName         string         `db:"display_name"`
	AvatarURL           *string        `db:"avatar_url"`
	GenrePreferences    []int          `db:"genre_preferences"`
	OnboardingCompleted bool           `db:"onboarding_completed"`
	IsPremium           bool           `db:"is_premium"`
	PremiumBenefits     map[string]any `db:"premium_benefits"`
	Role                UserRole       `db:"role"`
	IsActive            bool           `db:"is_active"`
}
