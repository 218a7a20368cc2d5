package usecase

import (
	"context"
	"testing"
	"time"

	"movie-discovery/internal/catalog"
	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/data/repository"
	"movie-discovery/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 1},
		TMDB:    utils.TMDBConfig{AggregatePages: 2, AggregateMaxLen: 40},
	}
}

func newTestService(t *testing.T) (*Service, *repository.Repository, *memStore, *fakeCatalog) {
	t.Helper()
	repo, store := newTestRepo()
	client := &fakeCatalog{discover: map[int]*catalog.Page{}, popular: map[int]*catalog.Page{}}
	return NewService(repo, client, testConfig(), zap.NewNop()), repo, store, client
}

func seedUser(t *testing.T, store *memStore, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now()
	store.users[id] = entity.User{
		Base:             entity.Base{ID: id, CreatedAt: now, UpdatedAt: now},
		Email:            name + "@example.com",
		DisplayName:      name,
		GenrePreferences: []int{},
		PremiumBenefits:  map[string]any{},
		Role:             entity.RoleUser,
		IsActive:         true,
	}
	return id
}

func seedCode(store *memStore, code string, credits int, mutate func(c *entity.RechargeCode)) entity.RechargeCode {
	now := time.Now()
	rc := entity.RechargeCode{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Code:         code,
		CreditAmount: credits,
		IsActive:     true,
	}
	if mutate != nil {
		mutate(&rc)
	}
	store.codes[rc.ID] = rc
	return rc
}

func ptr[T any](v T) *T {
	return &v
}

var bg = context.Background()
