package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tms-sim/citytraffic/internal/boundary"
	"github.com/tms-sim/citytraffic/internal/config"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 1
	b, err := boundary.New(cfg, "simple", logrus.New())
	require.NoError(t, err)
	return newServer(b, logrus.New()).router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = httptest.NewRequest(method, path, bytes.NewReader(raw))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	h := testRouter(t)
	w := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestSpawnAndGetVehicleEndpoints(t *testing.T) {
	h := testRouter(t)

	w := doJSON(t, h, http.MethodPost, "/vehicles", spawnVehicleRequest{Type: "car"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id, ok := created["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	w = doJSON(t, h, http.MethodGet, "/vehicles/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemoveVehicleBeforeAnyTickSucceeds(t *testing.T) {
	h := testRouter(t)

	w := doJSON(t, h, http.MethodPost, "/vehicles", spawnVehicleRequest{Type: "car"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id, ok := created["id"].(string)
	require.True(t, ok)

	w = doJSON(t, h, http.MethodDelete, "/vehicles/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/vehicles/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUnknownVehicleReturns404(t *testing.T) {
	h := testRouter(t)
	w := doJSON(t, h, http.MethodGet, "/vehicles/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTickEndpointAdvancesState(t *testing.T) {
	h := testRouter(t)
	w := doJSON(t, h, http.MethodPost, "/simulation/tick", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, float64(1), state["tick"])
}

func TestBlockAndUnblockEndpoints(t *testing.T) {
	h := testRouter(t)

	w := doJSON(t, h, http.MethodPost, "/blockages", blockRoadRequest{From: "A", To: "B", Reason: "construction"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodGet, "/blockages", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A,B")

	w = doJSON(t, h, http.MethodDelete, "/blockages/A/B", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSpawnVehicleRejectsUnknownType(t *testing.T) {
	h := testRouter(t)
	w := doJSON(t, h, http.MethodPost, "/vehicles", spawnVehicleRequest{Type: "spaceship"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
