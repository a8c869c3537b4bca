package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"farmergiant/pkg/kit"
)

const tokenTTL = 30 * time.Minute

type Server struct {
	Log   *zap.Logger
	Store UserStore
	JWT   *TokenMaker
}

// Routes takes an optional middleware applied to login only, so callers
// can rate-limit credential guessing without throttling token checks.
func (s *Server) Routes(loginLimit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	if loginLimit != nil {
		r.With(loginLimit).Post("/login", s.handleLogin)
	} else {
		r.Post("/login", s.handleLogin)
	}
	r.Get("/whoami", s.handleWhoAmI)

	return r
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	req.Email = normalizeEmail(req.Email)
	req.Password = normalizePassword(req.Password)

	if req.Email == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "email/password required", nil)
		return
	}

	u, err := s.Store.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	tok, err := s.JWT.New(u.ID, u.Email, u.Role, tokenTTL)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("token issue", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, loginResp{AccessToken: tok})
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	claims, err := parseBearer(s.JWT, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"user_id": claims.UserID,
		"email":   claims.Email,
		"role":    claims.Role,
	})
}

// EnsureAdmin seeds the dashboard admin account at boot. An existing
// account is left untouched.
func EnsureAdmin(ctx context.Context, store UserStore, email, password string) error {
	err := store.Create(ctx, email, password, RoleAdmin, "u_"+uuid.NewString())
	if err == ErrEmailExists {
		return nil
	}
	return err
}
