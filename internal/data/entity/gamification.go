package entity

import (
	"time"

	"github.com/google/uuid"
)

type AchievementType string

const (
	AchievementFirstFavorite   AchievementType = "first_favorite"
	AchievementCollector       AchievementType = "collector"
	AchievementFirstReview     AchievementType = "first_review"
	AchievementCritic          AchievementType = "critic"
	AchievementBingeWatcher    AchievementType = "binge_watcher"
	AchievementStreak7         AchievementType = "streak_7"
	AchievementStreak30        AchievementType = "streak_30"
	AchievementFirstRedemption AchievementType = "first_redemption"
)

type Achievement struct {
	BaseSimple
	UserID     uuid.UUID       `db:"user_id"`
	Type       AchievementType `db:"achievement_type"`
	UnlockedAt time.Time       `db:"unlocked_at"`
}

type Streak struct {
	UserID           uuid.UUID  `db:"user_id"`
	CurrentStreak    int        `db:"current_streak"`
	LongestStreak    int        `db:"longest_streak"`
	LastActivityDate *time.Time `db:"last_activity_date"`
	UpdatedAt        time.Time  `db:"updated_at"`
}
