package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/sales-game/internal/engine"
	"github.com/tatianab/sales-game/internal/gemini"
	"github.com/tatianab/sales-game/internal/models"
)

type fakeGenerator struct {
	results []string
	failing bool
	calls   int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeGenerator) GenerateStructured(_ context.Context, _ string, _ gemini.Shape) (string, error) {
	if f.failing {
		return "", fmt.Errorf("%w: provider unreachable", gemini.ErrGeneration)
	}
	if f.calls >= len(f.results) {
		return "", fmt.Errorf("%w: no response queued", gemini.ErrGeneration)
	}
	raw := f.results[f.calls]
	f.calls++
	return raw, nil
}

func newTestServer(gen *fakeGenerator) *Server {
	eng := engine.New(gen, nil)
	return New(eng, ":0", zerolog.Nop())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleRandomProduct(t *testing.T) {
	s := newTestServer(&fakeGenerator{results: []string{`{"name":"Unlosable socks","price":20}`}})

	rec := do(t, s, http.MethodGet, "/game/random-product", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var product models.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&product))
	assert.Equal(t, "Unlosable socks", product.Name)
	assert.Equal(t, float64(20), product.Price)
}

func TestHandleRandomProductFailure(t *testing.T) {
	s := newTestServer(&fakeGenerator{failing: true})

	rec := do(t, s, http.MethodGet, "/game/random-product", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "unreachable", "internal detail must not leak")
}

func TestHandleStartValidation(t *testing.T) {
	s := newTestServer(&fakeGenerator{})

	rec := do(t, s, http.MethodPost, "/game/start", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/game/start", `{"name":"","price":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/game/start", `{"name":"Widget","price":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetSessionNotFound(t *testing.T) {
	s := newTestServer(&fakeGenerator{})

	rec := do(t, s, http.MethodGet, "/game/session/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMessageNotFound(t *testing.T) {
	s := newTestServer(&fakeGenerator{})

	rec := do(t, s, http.MethodPost, "/game/message", `{"sessionId":"nope","message":"hi"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGameFlow(t *testing.T) {
	s := newTestServer(&fakeGenerator{results: []string{
		`{"name":"Al Beback","description":"A retired pilot.","patience":3}`,
		`{"message":"Sure, I'll take it!","willBuy":true}`,
	}})

	rec := do(t, s, http.MethodPost, "/game/start", `{"name":"Widget","price":100}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var session models.GameSession
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	require.NotEmpty(t, session.SessionID)
	assert.Equal(t, 3, session.TurnsRemaining)

	rec = do(t, s, http.MethodGet, "/game/session/"+session.SessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := fmt.Sprintf(`{"sessionId":%q,"message":"You need this widget."}`, session.SessionID)
	rec = do(t, s, http.MethodPost, "/game/message", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var response models.CustomerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.WillBuy)

	// The session is won now; further messages conflict.
	rec = do(t, s, http.MethodPost, "/game/message", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/game/end/"+session.SessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.SalesResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, float64(100), result.MoneyEarned)
	assert.Contains(t, result.Reason, "Sure, I'll take it!")

	rec = do(t, s, http.MethodGet, "/game/session/"+session.SessionID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/game/end/"+session.SessionID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
