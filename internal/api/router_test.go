package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlbsim/hr-predictor/internal/mlb"
	"github.com/mlbsim/hr-predictor/internal/services"
	"github.com/mlbsim/hr-predictor/pkg/config"
)

type staticProvider struct{}

func (staticProvider) GetSeasonStats() (*mlb.SeasonStats, error) {
	return &mlb.SeasonStats{HomeRuns: 30, PlateAppearances: 360, GamesPlayed: 80, HRPerPA: 30.0 / 360.0}, nil
}

func (staticProvider) GetHomeAwaySplits() (*mlb.HomeAwaySplits, error) {
	return &mlb.HomeAwaySplits{}, nil
}

func (staticProvider) GetPitcherSplits() (*mlb.PitcherSplits, error) {
	return &mlb.PitcherSplits{}, nil
}

func (staticProvider) GetSchedule() ([]mlb.ScheduleGame, error) {
	return []mlb.ScheduleGame{{VenueName: "Yankee Stadium", IsHome: true}}, nil
}

func (staticProvider) GetBallparkFactors() (mlb.BallparkFactors, error) {
	return mlb.KnownBallparkFactors(), nil
}

type noopCache struct{}

func (noopCache) SetSimple(key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (noopCache) GetSimple(key string, dest interface{}) error {
	return fmt.Errorf("cache miss: %s", key)
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logrus.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{
		SimulationTrials: 200,
		SimulationSeed:   42,
		MaxTrials:        100000,
	}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	updater := services.NewDataUpdaterService(staticProvider{}, nil, logger, time.Hour)

	return NewRouter(staticProvider{}, noopCache{}, updater, cfg)
}

func serve(t *testing.T, router *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter()

	rec, body := serve(t, router, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter()

	rec, body := serve(t, router, http.MethodGet, "/api/v1/nope")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])

	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errObj["code"])
	assert.Equal(t, "Route not found", errObj["message"])
}

func TestRouterServesSimulation(t *testing.T) {
	router := newTestRouter()

	rec, body := serve(t, router, http.MethodGet, "/api/v1/simulate/basic")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "basic", data["model"])
}
