package catalog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"farmergiant/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

// Routes is the public storefront surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.list)
	r.Get("/{key}", s.get)

	return r
}

// AdminRoutes is the mutation surface, mounted behind admin auth.
func (s *Server) AdminRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/", s.create)
	r.Put("/{id}", s.update)
	r.Delete("/{id}", s.delete)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := ParseQuery(r.URL.Query())

	page, err := s.Store.List(r.Context(), q)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if page.Products == nil {
		page.Products = []Product{}
	}
	kit.WriteJSON(w, http.StatusOK, page)
}

// get looks a product up by id first, then by slug, and bumps its view
// counter without holding the response for it.
func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	p, ok, err := s.Store.GetByID(r.Context(), key)
	if err == nil && !ok {
		p, ok, err = s.Store.GetBySlug(r.Context(), key)
	}
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get product failed", zap.Error(err), zap.String("key", key))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"key": key})
		return
	}

	s.countView(p.ID)

	kit.WriteJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (s *Server) countView(id string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.Store.IncrementViews(ctx, id); err != nil && s.Log != nil {
			s.Log.Warn("view count increment failed", zap.Error(err), zap.String("id", id))
		}
	}()
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var p Product
	if err := kit.DecodeJSON(w, r, &p); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.PriceCents <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "name and positive price required", nil)
		return
	}

	if p.ID == "" {
		p.ID = "p_" + uuid.NewString()
	}
	if p.Slug == "" {
		p.Slug = slugify(p.Name)
	}
	p.Views = 0
	p.CreatedAt = time.Now().UTC()

	if err := s.Store.Create(r.Context(), p); err != nil {
		if s.Log != nil {
			s.Log.Error("create product failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, map[string]any{"product": p})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p Product
	if err := kit.DecodeJSON(w, r, &p); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	p.ID = id

	ok, err := s.Store.Update(r.Context(), p)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("update product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ok, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("delete product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
