package usecase

import (
	"errors"
	"slices"
	"testing"

	"movie-discovery/internal/catalog"
	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/dto/request"
	"movie-discovery/internal/dto/response"
)

func resultIDs(titles []catalog.Title) []int {
	out := make([]int, len(titles))
	for i, t := range titles {
		out[i] = t.ID
	}
	return out
}

func TestRecommendationsFromGenres(t *testing.T) {
	svc, _, store, client := newTestService(t)
	userID := seedUser(t, store, "ana")
	u := store.users[userID]
	u.GenrePreferences = []int{18, 35}
	store.users[userID] = u

	client.discover[1] = titlesPage(1, 2, 3)
	client.discover[2] = titlesPage(3, 4, 5)

	// already seen titles are skipped
	if _, err := svc.Library.Toggle(bg, userID, entity.ListFavorites, &request.LibraryItemRequest{MovieID: 2, MediaType: "movie"}); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if err := svc.Library.RecordHistory(bg, userID, &request.LibraryItemRequest{MovieID: 4, MediaType: "movie"}); err != nil {
		t.Fatalf("RecordHistory: %v", err)
	}

	recs, err := svc.Recommendation.For(bg, userID, 10)
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if recs.Source != response.SourceGenres {
		t.Errorf("source = %s, want genres", recs.Source)
	}
	if got := resultIDs(recs.Results); !slices.Equal(got, []int{1, 3, 5}) {
		t.Errorf("results = %v, want [1 3 5]", got)
	}
	if !slices.Equal(client.genreIDs, []int{18, 35}) {
		t.Errorf("discover genres = %v", client.genreIDs)
	}
}

func TestRecommendationsLimit(t *testing.T) {
	svc, _, store, client := newTestService(t)
	userID := seedUser(t, store, "ben")
	u := store.users[userID]
	u.GenrePreferences = []int{28}
	store.users[userID] = u
	client.discover[1] = titlesPage(1, 2, 3, 4, 5, 6)

	recs, err := svc.Recommendation.For(bg, userID, 2)
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if len(recs.Results) != 2 {
		t.Errorf("got %d results, want 2", len(recs.Results))
	}
}

func TestRecommendationsFallback(t *testing.T) {
	tests := []struct {
		name  string
		prefs []int
	}{
		{"no preferences", nil},
		{"nothing new in genres", []int{99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, store, client := newTestService(t)
			userID := seedUser(t, store, "cleo")
			u := store.users[userID]
			u.GenrePreferences = tt.prefs
			store.users[userID] = u
			client.popular[1] = titlesPage(10, 11, 12, 13)

			recs, err := svc.Recommendation.For(bg, userID, 3)
			if err != nil {
				t.Fatalf("For: %v", err)
			}
			if recs.Source != response.SourceFallback {
				t.Errorf("source = %s, want fallback", recs.Source)
			}
			if len(recs.Results) != 3 {
				t.Fatalf("got %d results, want 3", len(recs.Results))
			}
			for _, id := range resultIDs(recs.Results) {
				if id < 10 || id > 13 {
					t.Errorf("fallback returned non-popular title %d", id)
				}
			}
		})
	}
}

func TestRecommendationsUpstreamDown(t *testing.T) {
	svc, _, store, client := newTestService(t)
	userID := seedUser(t, store, "dan")
	client.err = errors.New("dial tcp: connection refused")

	recs, err := svc.Recommendation.For(bg, userID, 5)
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if recs.Source != response.SourceFallback || recs.Results == nil || len(recs.Results) != 0 {
		t.Errorf("recs = %+v, want empty fallback", recs)
	}
}
