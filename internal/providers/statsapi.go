package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/mlbsim/hr-predictor/internal/mlb"
)

// StatsAPIConfig bundles the knobs for the MLB Stats API client.
type StatsAPIConfig struct {
	BaseURL          string
	PlayerID         int
	TeamID           int
	Timeout          time.Duration
	RequestsPerSec   int
	BreakerThreshold uint32
}

// StatsAPIClient implements mlb.StatsProvider against statsapi.mlb.com.
// Every fetch degrades to the documented fallback constants instead of
// returning an error: the simulator never has to handle "data
// unavailable", only "rate value given".
type StatsAPIClient struct {
	cfg        StatsAPIConfig
	httpClient *http.Client
	cache      mlb.CacheProvider
	logger     *logrus.Logger
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// NewStatsAPIClient creates a new MLB Stats API client
func NewStatsAPIClient(cfg StatsAPIConfig, cache mlb.CacheProvider, logger *logrus.Logger) *StatsAPIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://statsapi.mlb.com/api/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 10
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "mlb-stats-api",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &StatsAPIClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:   cache,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.RequestsPerSec),
		breaker: breaker,
	}
}

// MLB Stats API response structures
type statsResponse struct {
	Stats []struct {
		Splits []struct {
			Split struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"split"`
			Stat battingLine `json:"stat"`
		} `json:"splits"`
	} `json:"stats"`
}

type battingLine struct {
	HomeRuns         int `json:"homeRuns"`
	PlateAppearances int `json:"plateAppearances"`
	AtBats           int `json:"atBats"`
	Hits             int `json:"hits"`
	GamesPlayed      int `json:"gamesPlayed"`
}

type scheduleResponse struct {
	Dates []struct {
		Games []struct {
			GameDate string `json:"gameDate"`
			Venue    struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"venue"`
			Teams struct {
				Home scheduleTeamSide `json:"home"`
				Away scheduleTeamSide `json:"away"`
			} `json:"teams"`
		} `json:"games"`
	} `json:"dates"`
}

type scheduleTeamSide struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

// GetSeasonStats fetches the player's current season batting line
func (c *StatsAPIClient) GetSeasonStats() (*mlb.SeasonStats, error) {
	cacheKey := fmt.Sprintf("statsapi:season:%d", c.cfg.PlayerID)

	var cached mlb.SeasonStats
	if err := c.cacheGet(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	url := fmt.Sprintf("%s/people/%d/stats?stats=season&season=%d&sportId=1",
		c.cfg.BaseURL, c.cfg.PlayerID, time.Now().Year())

	var resp statsResponse
	if err := c.makeRequest(url, &resp); err != nil {
		c.logger.Warnf("Falling back to historical season stats: %v", err)
		return fallbackSeasonStats(), nil
	}

	if len(resp.Stats) == 0 || len(resp.Stats[0].Splits) == 0 {
		return fallbackSeasonStats(), nil
	}

	line := resp.Stats[0].Splits[0].Stat
	stats := &mlb.SeasonStats{
		HomeRuns:         line.HomeRuns,
		PlateAppearances: line.PlateAppearances,
		AtBats:           line.AtBats,
		Hits:             line.Hits,
		GamesPlayed:      line.GamesPlayed,
		HRPerPA:          ratePerPA(line.HomeRuns, line.PlateAppearances),
	}

	c.cacheSet(cacheKey, stats, 15*time.Minute)
	return stats, nil
}

// GetHomeAwaySplits fetches the player's home/away batting splits
func (c *StatsAPIClient) GetHomeAwaySplits() (*mlb.HomeAwaySplits, error) {
	cacheKey := fmt.Sprintf("statsapi:homeaway:%d", c.cfg.PlayerID)

	var cached mlb.HomeAwaySplits
	if err := c.cacheGet(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	url := fmt.Sprintf("%s/people/%d/stats?stats=homeAndAway&season=%d&sportId=1",
		c.cfg.BaseURL, c.cfg.PlayerID, time.Now().Year())

	var resp statsResponse
	if err := c.makeRequest(url, &resp); err != nil {
		c.logger.Warnf("Falling back to historical home/away splits: %v", err)
		return fallbackHomeAwaySplits(), nil
	}

	splits := &mlb.HomeAwaySplits{}
	found := false
	if len(resp.Stats) > 0 {
		for _, split := range resp.Stats[0].Splits {
			switch split.Split.Code {
			case "H":
				splits.Home = toSplitStats(split.Stat)
				found = true
			case "A":
				splits.Away = toSplitStats(split.Stat)
				found = true
			}
		}
	}
	if !found {
		return fallbackHomeAwaySplits(), nil
	}

	c.cacheSet(cacheKey, splits, 30*time.Minute)
	return splits, nil
}

// GetPitcherSplits fetches the player's vs-LHP/vs-RHP batting splits
func (c *StatsAPIClient) GetPitcherSplits() (*mlb.PitcherSplits, error) {
	cacheKey := fmt.Sprintf("statsapi:pitcher:%d", c.cfg.PlayerID)

	var cached mlb.PitcherSplits
	if err := c.cacheGet(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	url := fmt.Sprintf("%s/people/%d/stats?stats=vsLeft,vsRight&season=%d&sportId=1",
		c.cfg.BaseURL, c.cfg.PlayerID, time.Now().Year())

	var resp statsResponse
	if err := c.makeRequest(url, &resp); err != nil {
		c.logger.Warnf("Falling back to historical pitcher splits: %v", err)
		return fallbackPitcherSplits(), nil
	}

	splits := &mlb.PitcherSplits{}
	found := false
	if len(resp.Stats) > 0 {
		for _, split := range resp.Stats[0].Splits {
			desc := split.Split.Description
			switch {
			case strings.Contains(desc, "Left"):
				splits.VsLeft = toSplitStats(split.Stat)
				found = true
			case strings.Contains(desc, "Right"):
				splits.VsRight = toSplitStats(split.Stat)
				found = true
			}
		}
	}
	if !found {
		return fallbackPitcherSplits(), nil
	}

	c.cacheSet(cacheKey, splits, 30*time.Minute)
	return splits, nil
}

// GetSchedule fetches the team's remaining games, restricted to games
// dated today or later
func (c *StatsAPIClient) GetSchedule() ([]mlb.ScheduleGame, error) {
	cacheKey := fmt.Sprintf("statsapi:schedule:%d", c.cfg.TeamID)

	var cached []mlb.ScheduleGame
	if err := c.cacheGet(cacheKey, &cached); err == nil {
		return cached, nil
	}

	url := fmt.Sprintf("%s/schedule?teamId=%d&season=%d&sportId=1",
		c.cfg.BaseURL, c.cfg.TeamID, time.Now().Year())

	var resp scheduleResponse
	if err := c.makeRequest(url, &resp); err != nil {
		c.logger.Warnf("Schedule fetch failed, continuing without remaining games: %v", err)
		return []mlb.ScheduleGame{}, nil
	}

	today := time.Now().Truncate(24 * time.Hour)
	var schedule []mlb.ScheduleGame

	for _, date := range resp.Dates {
		for _, game := range date.Games {
			if len(game.GameDate) < 10 {
				continue
			}
			gameDate, err := time.Parse("2006-01-02", game.GameDate[:10])
			if err != nil || gameDate.Before(today) {
				continue
			}

			isHome := game.Teams.Home.Team.ID == c.cfg.TeamID
			opponent := game.Teams.Home.Team.Name
			if isHome {
				opponent = game.Teams.Away.Team.Name
			}

			schedule = append(schedule, mlb.ScheduleGame{
				Date:      gameDate.Format("2006-01-02"),
				VenueName: game.Venue.Name,
				VenueID:   game.Venue.ID,
				IsHome:    isHome,
				Opponent:  opponent,
			})
		}
	}

	if len(schedule) > 0 {
		c.cacheSet(cacheKey, schedule, 6*time.Hour)
	}
	return schedule, nil
}

// GetBallparkFactors returns the static park factor table. The Stats
// API doesn't publish park factors, so this never goes to the network.
func (c *StatsAPIClient) GetBallparkFactors() (mlb.BallparkFactors, error) {
	return mlb.KnownBallparkFactors(), nil
}

// makeRequest performs a rate-limited HTTP request through the circuit
// breaker, retrying with exponential backoff. An open breaker fails
// immediately so callers drop straight to their fallbacks.
func (c *StatsAPIClient) makeRequest(url string, target interface{}) error {
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		if err := c.limiter.Wait(context.Background()); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		_, err := c.breaker.Execute(func() (interface{}, error) {
			resp, err := c.httpClient.Get(url)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			}

			return nil, json.NewDecoder(resp.Body).Decode(target)
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return fmt.Errorf("mlb stats api unavailable: %w", err)
		}

		if attempt < 2 {
			waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			c.logger.Warnf("Request failed (attempt %d), waiting %v: %v", attempt+1, waitTime, err)
			time.Sleep(waitTime)
		}
	}

	return fmt.Errorf("request failed after retries: %w", lastErr)
}

func (c *StatsAPIClient) cacheGet(key string, dest interface{}) error {
	if c.cache == nil {
		return fmt.Errorf("no cache configured")
	}
	return c.cache.GetSimple(key, dest)
}

func (c *StatsAPIClient) cacheSet(key string, value interface{}, ttl time.Duration) {
	if c.cache == nil {
		return
	}
	if err := c.cache.SetSimple(key, value, ttl); err != nil {
		c.logger.Warnf("Failed to cache %s: %v", key, err)
	}
}

func toSplitStats(line battingLine) mlb.SplitStats {
	return mlb.SplitStats{
		HomeRuns:         line.HomeRuns,
		PlateAppearances: line.PlateAppearances,
		HRPerPA:          ratePerPA(line.HomeRuns, line.PlateAppearances),
	}
}

func ratePerPA(homeRuns, plateAppearances int) float64 {
	if plateAppearances <= 0 {
		plateAppearances = 1
	}
	return float64(homeRuns) / float64(plateAppearances)
}

// 2024 full-season numbers, used whenever the API is unreachable.

func fallbackSeasonStats() *mlb.SeasonStats {
	return &mlb.SeasonStats{HRPerPA: mlb.DefaultHRPerPA}
}

func fallbackHomeAwaySplits() *mlb.HomeAwaySplits {
	return &mlb.HomeAwaySplits{
		Home: mlb.SplitStats{HomeRuns: 31, PlateAppearances: 341, HRPerPA: mlb.DefaultHomeHRPerPA},
		Away: mlb.SplitStats{HomeRuns: 27, PlateAppearances: 363, HRPerPA: mlb.DefaultAwayHRPerPA},
	}
}

func fallbackPitcherSplits() *mlb.PitcherSplits {
	return &mlb.PitcherSplits{
		VsLeft:  mlb.SplitStats{HomeRuns: 16, PlateAppearances: 184, HRPerPA: mlb.DefaultVsLeftHRPerPA},
		VsRight: mlb.SplitStats{HomeRuns: 42, PlateAppearances: 520, HRPerPA: mlb.DefaultVsRightHRPerPA},
	}
}
