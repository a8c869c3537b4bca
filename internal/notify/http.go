package notify

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"farmergiant/pkg/kit"
)

type Server struct {
	Hub *Hub
	Log *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.list)
	r.Delete("/{id}", s.dismiss)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	sid := kit.EnsureSession(w, r)

	visible := s.Hub.Session(sid).Visible()
	if visible == nil {
		visible = []Notification{}
	}
	kit.WriteJSON(w, http.StatusOK, map[string]any{"notifications": visible})
}

// dismiss is the manual close. It answers 204 whether or not the id was
// still visible; a stale dismiss is not an error.
func (s *Server) dismiss(w http.ResponseWriter, r *http.Request) {
	sid := kit.EnsureSession(w, r)

	s.Hub.Session(sid).Dismiss(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
