// ABOUTME: HTTP server struct with chi router and the session store.
// ABOUTME: Maps every operator action of the live page to a route under /s/{id}.

package editor

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxUploadSize caps avatar and import uploads.
const maxUploadSize = 10 << 20

// Server holds the chi router and session store.
type Server struct {
	router chi.Router
	store  *Store
}

// NewServer creates a Server with all routes configured.
func NewServer(store *Store) *Server {
	s := &Server{store: store}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	static, err := fs.Sub(StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleNewSession)

	r.Route("/s/{id}", func(r chi.Router) {
		r.Get("/", s.handlePage)
		r.Get("/state", s.handleState)
		r.Post("/toggle", s.handleToggle)

		r.Put("/regions", s.handleEditRegion)
		r.Post("/selection", s.handleSelection)
		r.Post("/click-outside", s.handleClickOutside)
		r.Post("/commands/{command}", s.handleCommand)
		r.Post("/links", s.handleEditLink)

		r.Post("/avatars", s.handleDropAvatar)
		r.Post("/avatars/pick", s.handlePickAvatar)
		r.Post("/avatars/file", s.handleAvatarFile)

		r.Post("/undo", s.handleUndo)
		r.Get("/export", s.handleExportEdits)
		r.Post("/import", s.handleImportEdits)
		r.Get("/snapshot.html", s.handleExportHTML)
		r.Post("/keys", s.handleKey)
	})

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
