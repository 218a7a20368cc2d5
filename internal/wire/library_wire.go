package wire

import (
	"movie-discovery/internal/adaptor"
	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireLibrary(
	r chi.Router,
	libraryHandler *adaptor.LibraryHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))

		for _, kind := range []entity.ListKind{entity.ListFavorites, entity.ListWatchlist} {
			base := "/api/user/" + string(kind)
			r.Get(base, libraryHandler.List(kind))
			r.Post(base+"/toggle", libraryHandler.Toggle(kind))
			r.Get(base+"/{mediaType}/{id:[0-9]+}", libraryHandler.Status(kind))
		}

		r.Get("/api/user/history", libraryHandler.GetHistory)
		r.Post("/api/user/history", libraryHandler.RecordHistory)
		r.Delete("/api/user/history", libraryHandler.ClearHistory)
	})
}
