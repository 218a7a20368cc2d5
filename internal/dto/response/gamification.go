package response

import (
	"time"

	"movie-discovery/internal/data/entity"
)

type AchievementResponse struct {
	Type       entity.AchievementType `json:"type"`
	UnlockedAt time.Time              `json:"unlocked_at"`
}

type StreakResponse struct {
	CurrentStreak    int     `json:"current_streak"`
	LongestStreak    int     `json:"longest_streak"`
	LastActivityDate *string `json:"last_activity_date"`
}

func StreakToResponse(s *entity.Streak) StreakResponse {
	if s == nil {
		return StreakResponse{}
	}

	resp := StreakResponse{
		CurrentStreak: s.CurrentStreak,
		LongestStreak: s.LongestStreak,
	}
	if s.LastActivityDate != nil {
		d := s.LastActivityDate.UTC().Format(time.DateOnly)
		resp.LastActivityDate = &d
	}
	return resp
}
