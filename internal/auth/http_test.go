package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	store := NewMemStore()
	require.NoError(t, EnsureAdmin(context.Background(), store, "admin@farmergiant.ng", "hunter2hunter2"))

	srv := &Server{Log: zap.NewNop(), Store: store, JWT: NewTokenMaker(testSecret)}
	ts := httptest.NewServer(srv.Routes(nil))
	t.Cleanup(ts.Close)
	return srv, ts
}

func login(t *testing.T, ts *httptest.Server, email, password string) (*http.Response, string) {
	t.Helper()

	b, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)

	resp, err := ts.Client().Post(ts.URL+"/login", "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp, ""
	}
	var lr struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(data, &lr))
	return resp, lr.AccessToken
}

func TestLoginAndWhoAmI(t *testing.T) {
	_, ts := newAuthServer(t)

	resp, token := login(t, ts, "admin@farmergiant.ng", "hunter2hunter2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, token)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/whoami", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp2, err := ts.Client().Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp2.Body)
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var who map[string]string
	require.NoError(t, json.Unmarshal(data, &who))
	assert.Equal(t, "admin@farmergiant.ng", who["email"])
	assert.Equal(t, RoleAdmin, who["role"])
}

func TestLoginNormalizesEmail(t *testing.T) {
	_, ts := newAuthServer(t)

	resp, _ := login(t, ts, "  Admin@Farmergiant.NG ", "hunter2hunter2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, ts := newAuthServer(t)

	resp, _ := login(t, ts, "admin@farmergiant.ng", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = login(t, ts, "nobody@farmergiant.ng", "hunter2hunter2")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = login(t, ts, "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWhoAmIRejectsGarbageToken(t *testing.T) {
	_, ts := newAuthServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/whoami", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not.a.jwt")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEnsureAdminIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, EnsureAdmin(ctx, store, "a@b.c", "password123"))
	require.NoError(t, EnsureAdmin(ctx, store, "a@b.c", "different-password"))

	// original credentials survive the second seed
	_, err := store.Verify(ctx, "a@b.c", "password123")
	assert.NoError(t, err)
}

func TestRequireAdmin(t *testing.T) {
	jwt := NewTokenMaker(testSecret)

	protected := RequireAdmin(jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	ts := httptest.NewServer(protected)
	t.Cleanup(ts.Close)

	do := func(token string) int {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, do(""))

	adminTok, err := jwt.New("u_1", "a@b.c", RoleAdmin, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, do(adminTok))

	userTok, err := jwt.New("u_2", "c@d.e", "viewer", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(userTok))

	otherSecret := NewTokenMaker("ffffffffffffffffffffffffffffffff")
	forged, err := otherSecret.New("u_3", "x@y.z", RoleAdmin, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(forged))

	expired, err := jwt.New("u_1", "a@b.c", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(expired))
}
