package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/data/repository"
	"movie-discovery/internal/dto/response"
	"movie-discovery/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event names the user action that may unlock achievements.
type Event string

const (
	EventFavorite   Event = "favorite"
	EventReview     Event = "review"
	EventHistory    Event = "history"
	EventStreak     Event = "streak"
	EventRedemption Event = "redemption"
)

type threshold struct {
	kind entity.AchievementType
	min  int64
}

var eventThresholds = map[Event][]threshold{
	EventFavorite:   {{entity.AchievementFirstFavorite, 1}, {entity.AchievementCollector, 10}},
	EventReview:     {{entity.AchievementFirstReview, 1}, {entity.AchievementCritic, 10}},
	EventHistory:    {{entity.AchievementBingeWatcher, 25}},
	EventStreak:     {{entity.AchievementStreak7, 7}, {entity.AchievementStreak30, 30}},
	EventRedemption: {{entity.AchievementFirstRedemption, 1}},
}

type GamificationService interface {
	RecordActivity(ctx context.Context, userID uuid.UUID, at time.Time) (*response.StreakResponse, error)
	GetStreak(ctx context.Context, userID uuid.UUID) (*response.StreakResponse, error)
	ListAchievements(ctx context.Context, userID uuid.UUID) ([]response.AchievementResponse, error)
	Unlock(ctx context.Context, userID uuid.UUID, kind entity.AchievementType) (bool, error)
	Evaluate(ctx context.Context, userID uuid.UUID, event Event) ([]entity.AchievementType, error)
}

type gamificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewGamificationService(repo *repository.Repository, log *zap.Logger) GamificationService {
	return &gamificationService{
		repo: repo,
		log:  log.With(zap.String("service", "gamification")),
	}
}

// RecordActivity advances the user's streak for the UTC day containing at
// and evaluates streak achievements.
func (s *gamificationService) RecordActivity(ctx context.Context, userID uuid.UUID, at time.Time) (*response.StreakResponse, error) {
	var updated entity.Streak

	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		current, err := tx.Streak.FindByUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		next, changed := advanceStreak(current, userID, at)
		updated = next
		if !changed {
			return nil
		}
		return tx.Streak.Save(ctx, &next)
	})
	if err != nil {
		s.log.Error("Failed to record activity", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to record activity")
	}

	if _, err := s.Evaluate(ctx, userID, EventStreak); err != nil {
		s.log.Warn("Streak achievement evaluation failed", zap.Error(err), zap.String("user_id", userID.String()))
	}

	resp := response.StreakToResponse(&updated)
	return &resp, nil
}

func (s *gamificationService) GetStreak(ctx context.Context, userID uuid.UUID) (*response.StreakResponse, error) {
	streak, err := s.repo.Streak.FindByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to get streak", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get streak")
	}

	// a streak only survives until the end of the day after the last activity
	if streak != nil && streak.LastActivityDate != nil {
		yesterday := utcDay(time.Now()).AddDate(0, 0, -1)
		if utcDay(*streak.LastActivityDate).Before(yesterday) {
			expired := *streak
			expired.CurrentStreak = 0
			streak = &expired
		}
	}

	resp := response.StreakToResponse(streak)
	return &resp, nil
}

func (s *gamificationService) ListAchievements(ctx context.Context, userID uuid.UUID) ([]response.AchievementResponse, error) {
	achievements, err := s.repo.Achievement.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list achievements", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get achievements")
	}

	out := make([]response.AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		out = append(out, response.AchievementResponse{Type: a.Type, UnlockedAt: a.UnlockedAt})
	}
	return out, nil
}

// Unlock records an achievement once. It reports whether this call unlocked it.
func (s *gamificationService) Unlock(ctx context.Context, userID uuid.UUID, kind entity.AchievementType) (bool, error) {
	now := time.Now()
	unlocked, err := s.repo.Achievement.Unlock(ctx, &entity.Achievement{
		BaseSimple: entity.NewBaseSimple(now),
		UserID:     userID,
		Type:       kind,
		UnlockedAt: now,
	})
	if err != nil {
		return false, err
	}

	if unlocked {
		metrics.AchievementsUnlocked.WithLabelValues(string(kind)).Inc()
		s.log.Info("Achievement unlocked",
			zap.String("user_id", userID.String()),
			zap.String("type", string(kind)))
	}
	return unlocked, nil
}

// Evaluate checks the counters behind event and unlocks every achievement
// whose threshold is met. It returns the newly unlocked types.
func (s *gamificationService) Evaluate(ctx context.Context, userID uuid.UUID, event Event) ([]entity.AchievementType, error) {
	thresholds, ok := eventThresholds[event]
	if !ok {
		return nil, fmt.Errorf("invalid achievement event %q", event)
	}

	count, err := s.progress(ctx, userID, event)
	if err != nil {
		return nil, err
	}

	var unlocked []entity.AchievementType
	for _, t := range thresholds {
		if count < t.min {
			continue
		}
		isNew, err := s.Unlock(ctx, userID, t.kind)
		if err != nil {
			return unlocked, err
		}
		if isNew {
			unlocked = append(unlocked, t.kind)
		}
	}

	return unlocked, nil
}

func (s *gamificationService) progress(ctx context.Context, userID uuid.UUID, event Event) (int64, error) {
	switch event {
	case EventFavorite:
		return s.repo.Favorite.Count(ctx, userID)
	case EventReview:
		return s.repo.Review.CountByUser(ctx, userID)
	case EventHistory:
		return s.repo.History.Count(ctx, userID)
	case EventStreak:
		streak, err := s.repo.Streak.FindByUser(ctx, userID)
		if err != nil || streak == nil {
			return 0, err
		}
		return int64(streak.CurrentStreak), nil
	case EventRedemption:
		// only called after a successful redemption
		return 1, nil
	}
	return 0, nil
}

// advanceStreak applies one day of activity. Same day leaves the streak
// unchanged, the next day extends it, any longer gap restarts it at 1.
func advanceStreak(current *entity.Streak, userID uuid.UUID, at time.Time) (entity.Streak, bool) {
	today := utcDay(at)

	if current == nil || current.LastActivityDate == nil {
		return entity.Streak{
			UserID:           userID,
			CurrentStreak:    1,
			LongestStreak:    max(1, longestOf(current)),
			LastActivityDate: &today,
			UpdatedAt:        at,
		}, true
	}

	last := utcDay(*current.LastActivityDate)
	if !last.Before(today) {
		return *current, false
	}

	next := *current
	if last.AddDate(0, 0, 1).Equal(today) {
		next.CurrentStreak = current.CurrentStreak + 1
	} else {
		next.CurrentStreak = 1
	}
	next.LongestStreak = max(current.LongestStreak, next.CurrentStreak)
	next.LastActivityDate = &today
	next.UpdatedAt = at

	return next, true
}

func longestOf(s *entity.Streak) int {
	if s == nil {
		return 0
	}
	return s.LongestStreak
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
