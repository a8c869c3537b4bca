package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"farmergiant/pkg/kit"
)

type Server struct {
	Slot   Slot
	Notify Notifier
	Log    *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.get)
	r.Post("/items", s.add)
	r.Patch("/items/{id}", s.update)
	r.Delete("/items/{id}", s.remove)
	r.Delete("/", s.clear)

	return r
}

type cartView struct {
	SessionID     string     `json:"session_id"`
	Items         []LineItem `json:"items"`
	Count         int        `json:"count"`
	SubtotalCents int64      `json:"subtotal_cents"`
}

func (s *Server) view(sid string, st *Store) cartView {
	return cartView{
		SessionID:     sid,
		Items:         st.Items(),
		Count:         st.Count(),
		SubtotalCents: st.SubtotalCents(),
	}
}

func (s *Server) open(w http.ResponseWriter, r *http.Request) (string, *Store) {
	sid := kit.EnsureSession(w, r)
	return sid, Open(r.Context(), s.Slot, sid, s.Notify, s.Log)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	sid, st := s.open(w, r)
	kit.WriteJSON(w, http.StatusOK, s.view(sid, st))
}

type addResp struct {
	Added bool     `json:"added"`
	Cart  cartView `json:"cart"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	sid := kit.EnsureSession(w, r)

	var p Product
	if err := kit.DecodeJSON(w, r, &p); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if p.Key() == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "validation failed",
			map[string]string{"id": "required"})
		return
	}

	st := Open(r.Context(), s.Slot, sid, s.Notify, s.Log)
	added := st.AddProduct(r.Context(), p)

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	kit.WriteJSON(w, status, addResp{Added: added, Cart: s.view(sid, st)})
}

type updateReq struct {
	Quantity int `json:"quantity"`
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	sid, st := s.open(w, r)

	var req updateReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	st.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	kit.WriteJSON(w, http.StatusOK, s.view(sid, st))
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	sid, st := s.open(w, r)
	st.RemoveProduct(r.Context(), chi.URLParam(r, "id"))
	kit.WriteJSON(w, http.StatusOK, s.view(sid, st))
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	sid, st := s.open(w, r)
	st.Clear(r.Context())
	kit.WriteJSON(w, http.StatusOK, s.view(sid, st))
}
