package wire

import (
	"movie-discovery/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireCatalog exposes the TMDb proxy. All routes are public.
func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/trending", catalogHandler.Trending)
		r.Get("/search", catalogHandler.Search)
		r.Get("/genres/{mediaType}", catalogHandler.Genres)
		r.Get("/discover/{mediaType}", catalogHandler.Discover)

		// numeric ids are titles, lowercase words are list categories
		r.Get("/{mediaType}/{id:[0-9]+}", catalogHandler.Details)
		r.Get("/{mediaType}/{id:[0-9]+}/videos", catalogHandler.Videos)
		r.Get("/{mediaType}/{id:[0-9]+}/providers", catalogHandler.Providers)
		r.Get("/{mediaType}/{category:[a-z_]+}", catalogHandler.List)
	})
}
