package server

import (
	"context"
	"ctchen222/pokedex/internal/api/controller"
	"ctchen222/pokedex/internal/api/middleware"
	"ctchen222/pokedex/internal/api/models"
	"ctchen222/pokedex/internal/auth"
	"ctchen222/pokedex/internal/mocks"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fixture struct {
	server  *Server
	pokemon *mocks.MockPokemonService
	users   *mocks.MockUserService
	tokens  *auth.TokenManager
}

func newFixture(t *testing.T, db Pinger) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	tokens, err := auth.NewTokenManager("server-test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	f := &fixture{
		pokemon: mocks.NewMockPokemonService(ctrl),
		users:   mocks.NewMockUserService(ctrl),
		tokens:  tokens,
	}
	f.server = NewServer(
		Options{ServiceName: "pokedex-test", Tokens: tokens, Database: db, MaxUploadBytes: 1 << 20},
		controller.NewUserController(f.users),
		controller.NewPokemonController(f.pokemon, 1<<20),
	)
	return f
}

func (f *fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *fixture) bearer(t *testing.T, username string) string {
	t.Helper()
	token, _, err := f.tokens.IssueDefault(username)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthz(t *testing.T) {
	ok := newFixture(t, fakePinger{})
	rec := ok.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	down := newFixture(t, fakePinger{err: errors.New("connection refused")})
	rec = down.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPokemonRoutesRequireBearerToken(t *testing.T) {
	f := newFixture(t, fakePinger{})

	routes := []struct{ method, path string }{
		{http.MethodPost, "/pokemon/"},
		{http.MethodGet, "/pokemon/"},
		{http.MethodGet, "/pokemon/25"},
		{http.MethodPatch, "/pokemon/25"},
		{http.MethodDelete, "/pokemon/25"},
	}
	for _, rt := range routes {
		rec := f.do(t, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", rt.method, rt.path)

		req := httptest.NewRequest(rt.method, rt.path, nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec = f.do(t, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", rt.method, rt.path)
	}
}

func TestAuthenticatedRequestReachesController(t *testing.T) {
	f := newFixture(t, fakePinger{})
	f.pokemon.EXPECT().Get(gomock.Any(), int64(25)).Return(&models.Pokemon{ID: 25, Name: "Pikachu"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/pokemon/25", nil)
	req.Header.Set("Authorization", f.bearer(t, "ash"))
	rec := f.do(t, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Pikachu"`)
}

func TestRegisterIsPublic(t *testing.T) {
	f := newFixture(t, fakePinger{})
	f.users.EXPECT().Register(gomock.Any(), gomock.Any()).Return(&models.User{ID: 7, Username: "brock"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"brock","password":"onix-rocks"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(t, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":7,"username":"brock"}`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, fakePinger{})
	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/digimon/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
