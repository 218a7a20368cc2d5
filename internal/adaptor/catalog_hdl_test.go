package adaptor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"movie-discovery/internal/catalog"
	"movie-discovery/internal/usecase"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type stubCatalog struct {
	usecase.CatalogService
	calls []string
	err   error
}

func (s *stubCatalog) Trending(_ context.Context, mediaType, window string, page int) (*catalog.Page, error) {
	s.calls = append(s.calls, fmt.Sprintf("trending %s %s %d", mediaType, window, page))
	return &catalog.Page{Page: page, Results: []catalog.Title{}}, s.err
}

func (s *stubCatalog) List(_ context.Context, mediaType, category string, page int) (*catalog.Page, error) {
	s.calls = append(s.calls, fmt.Sprintf("list %s %s %d", mediaType, category, page))
	return &catalog.Page{Page: page, Results: []catalog.Title{}}, s.err
}

func (s *stubCatalog) Details(_ context.Context, mediaType string, id int) (*catalog.Details, error) {
	s.calls = append(s.calls, fmt.Sprintf("details %s %d", mediaType, id))
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.Details{ID: id, Title: "Arrival"}, nil
}

func catalogRouter(svc usecase.CatalogService) http.Handler {
	h := NewCatalogHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/catalog/trending", h.Trending)
	r.Get("/api/catalog/{mediaType}/{id:[0-9]+}", h.Details)
	r.Get("/api/catalog/{mediaType}/{category:[a-z_]+}", h.List)
	return r
}

func TestCatalogRoutesDispatch(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/catalog/trending", "trending all week 1"},
		{"/api/catalog/trending?media_type=tv&window=day&page=2", "trending tv day 2"},
		{"/api/catalog/movie/329865", "details movie 329865"},
		{"/api/catalog/tv/top_rated?page=4", "list tv top_rated 4"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			svc := &stubCatalog{}
			rec := httptest.NewRecorder()
			catalogRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if len(svc.calls) != 1 || svc.calls[0] != tt.want {
				t.Errorf("calls = %v, want [%s]", svc.calls, tt.want)
			}
		})
	}
}

func TestCatalogDetailsErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{catalog.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("details: %w", catalog.ErrUpstream), http.StatusBadGateway},
		{fmt.Errorf("media type %q: %w", "book", catalog.ErrInvalidInput), http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		catalogRouter(&stubCatalog{err: tt.err}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/movie/1", nil))

		if rec.Code != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, rec.Code, tt.want)
		}
	}
}
