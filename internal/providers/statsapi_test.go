package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlbsim/hr-predictor/internal/mlb"
)

// memoryCache is an in-memory stand-in for the redis-backed cache
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) SetSimple(key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memoryCache) GetSimple(key string, dest interface{}) error {
	b, ok := m.data[key]
	if !ok {
		return fmt.Errorf("key not found")
	}
	return json.Unmarshal(b, dest)
}

func newTestClient(t *testing.T, baseURL string, cache mlb.CacheProvider) *StatsAPIClient {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewStatsAPIClient(StatsAPIConfig{
		BaseURL:        baseURL,
		PlayerID:       592450,
		TeamID:         147,
		Timeout:        2 * time.Second,
		RequestsPerSec: 100,
	}, cache, logger)
}

func TestGetSeasonStatsParsesBattingLine(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"stats":[{"splits":[{"stat":{"homeRuns":40,"plateAppearances":500,"atBats":430,"hits":130,"gamesPlayed":110}}]}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, newMemoryCache())

	stats, err := client.GetSeasonStats()
	require.NoError(t, err)

	assert.Equal(t, 40, stats.HomeRuns)
	assert.Equal(t, 500, stats.PlateAppearances)
	assert.Equal(t, 430, stats.AtBats)
	assert.Equal(t, 130, stats.Hits)
	assert.Equal(t, 110, stats.GamesPlayed)
	assert.InDelta(t, 0.08, stats.HRPerPA, 1e-9)

	// Second call is served from cache
	_, err = client.GetSeasonStats()
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestGetSeasonStatsEmptyPayloadFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"stats":[]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, newMemoryCache())

	stats, err := client.GetSeasonStats()
	require.NoError(t, err)

	assert.Zero(t, stats.HomeRuns)
	assert.Zero(t, stats.GamesPlayed)
	assert.InDelta(t, mlb.DefaultHRPerPA, stats.HRPerPA, 1e-9)
}

func TestGetHomeAwaySplitsParsesSplitCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"stats":[{"splits":[
			{"split":{"code":"H"},"stat":{"homeRuns":20,"plateAppearances":200}},
			{"split":{"code":"A"},"stat":{"homeRuns":10,"plateAppearances":250}}
		]}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, newMemoryCache())

	splits, err := client.GetHomeAwaySplits()
	require.NoError(t, err)

	assert.Equal(t, 20, splits.Home.HomeRuns)
	assert.InDelta(t, 0.1, splits.Home.HRPerPA, 1e-9)
	assert.Equal(t, 10, splits.Away.HomeRuns)
	assert.InDelta(t, 0.04, splits.Away.HRPerPA, 1e-9)
}

func TestGetPitcherSplitsParsesDescriptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"stats":[{"splits":[
			{"split":{"description":"vs Left Handers"},"stat":{"homeRuns":8,"plateAppearances":100}},
			{"split":{"description":"vs Right Handers"},"stat":{"homeRuns":24,"plateAppearances":300}}
		]}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, newMemoryCache())

	splits, err := client.GetPitcherSplits()
	require.NoError(t, err)

	assert.Equal(t, 8, splits.VsLeft.HomeRuns)
	assert.InDelta(t, 0.08, splits.VsLeft.HRPerPA, 1e-9)
	assert.Equal(t, 24, splits.VsRight.HomeRuns)
	assert.InDelta(t, 0.08, splits.VsRight.HRPerPA, 1e-9)
}

func TestGetPitcherSplitsNoDataFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, newMemoryCache())

	splits, err := client.GetPitcherSplits()
	require.NoError(t, err)

	assert.InDelta(t, mlb.DefaultVsLeftHRPerPA, splits.VsLeft.HRPerPA, 1e-9)
	assert.InDelta(t, mlb.DefaultVsRightHRPerPA, splits.VsRight.HRPerPA, 1e-9)
}

func TestGetScheduleFiltersPastGames(t *testing.T) {
	past := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	future := time.Now().AddDate(0, 0, 30).Format("2006-01-02")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"dates":[
			{"games":[{"gameDate":"%sT23:05:00Z","venue":{"id":1,"name":"Fenway Park"},
				"teams":{"home":{"team":{"id":111,"name":"Boston Red Sox"}},"away":{"team":{"id":147,"name":"New York Yankees"}}}}]},
			{"games":[{"gameDate":"%sT23:05:00Z","venue":{"id":2,"name":"Yankee Stadium"},
				"teams":{"home":{"team":{"id":147,"name":"New York Yankees"}},"away":{"team":{"id":110,"name":"Baltimore Orioles"}}}}]}
		]}`, past, future)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, newMemoryCache())

	schedule, err := client.GetSchedule()
	require.NoError(t, err)

	require.Len(t, schedule, 1)
	game := schedule[0]
	assert.Equal(t, future, game.Date)
	assert.Equal(t, "Yankee Stadium", game.VenueName)
	assert.True(t, game.IsHome)
	assert.Equal(t, "Baltimore Orioles", game.Opponent)
}

func TestGetScheduleAwayGameOpponent(t *testing.T) {
	future := time.Now().AddDate(0, 0, 10).Format("2006-01-02")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"dates":[{"games":[{"gameDate":"%sT23:05:00Z","venue":{"id":3,"name":"Rogers Centre"},
			"teams":{"home":{"team":{"id":141,"name":"Toronto Blue Jays"}},"away":{"team":{"id":147,"name":"New York Yankees"}}}}]}]}`, future)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, newMemoryCache())

	schedule, err := client.GetSchedule()
	require.NoError(t, err)

	require.Len(t, schedule, 1)
	assert.False(t, schedule[0].IsHome)
	assert.Equal(t, "Toronto Blue Jays", schedule[0].Opponent)
}

func TestGetBallparkFactorsTable(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid", newMemoryCache())

	factors, err := client.GetBallparkFactors()
	require.NoError(t, err)

	assert.Greater(t, len(factors), 25)
	assert.Contains(t, factors, "Yankee Stadium")
	assert.InDelta(t, mlb.YankeeStadiumFactor, factors["Yankee Stadium"], 1e-9)

	for venue, factor := range factors {
		assert.Greater(t, factor, 0.0, "venue %s", venue)
		assert.Less(t, factor, 150.0, "venue %s", venue)
	}
}
