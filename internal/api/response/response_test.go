package response

import (
	"ctchen222/pokedex/internal/apperr"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation:  http.StatusUnprocessableEntity,
		apperr.KindConflict:    http.StatusBadRequest,
		apperr.KindNotFound:    http.StatusNotFound,
		apperr.KindAuth:        http.StatusForbidden,
		apperr.KindStorage:     http.StatusBadGateway,
		apperr.KindPersistence: http.StatusServiceUnavailable,
		apperr.KindUnknown:     http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, StatusFor(kind), kind.String())
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (Response, ErrorExtras) {
	t.Helper()
	var body struct {
		Response
		Extras ErrorExtras `json:"extras"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Response, body.Extras
}

func TestError_ValidationEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/pokemon/", nil)

	Error(c, apperr.Validation("stats[1].base_stat", "field is required"))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env, extras := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusUnprocessableEntity, env.Code)
	assert.Equal(t, ErrorExtras{Message: "field is required", Kind: "validation_error", Field: "stats[1].base_stat"}, extras)
	assert.True(t, c.IsAborted())
}

func TestError_FaultHidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/pokemon/25", nil)

	Error(c, apperr.Persistence(errors.New("dial tcp 10.0.0.5:5432: connection refused"), "failed to get pokemon"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	_, extras := decode(t, w)
	assert.Equal(t, "failed to get pokemon", extras.Message)
}

func TestError_UnknownIsInternal(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, errors.New("secret detail"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret detail")
}
