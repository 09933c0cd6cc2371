package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mlbsim/hr-predictor/internal/mlb"
	"github.com/mlbsim/hr-predictor/internal/services"
	"github.com/mlbsim/hr-predictor/internal/simulation"
	"github.com/mlbsim/hr-predictor/pkg/config"
	"github.com/mlbsim/hr-predictor/pkg/utils"
)

const simulationCacheTTL = 30 * time.Minute

type SimulationHandler struct {
	provider mlb.StatsProvider
	cache    mlb.CacheProvider
	cfg      *config.Config
}

func NewSimulationHandler(provider mlb.StatsProvider, cache mlb.CacheProvider, cfg *config.Config) *SimulationHandler {
	return &SimulationHandler{
		provider: provider,
		cache:    cache,
		cfg:      cfg,
	}
}

// ResultSummary is a simulation result without the raw distribution
type ResultSummary struct {
	MeanHRs      float64 `json:"mean_hrs"`
	MedianHRs    float64 `json:"median_hrs"`
	StdHRs       float64 `json:"std_hrs"`
	ProbOver40   float64 `json:"prob_over_40"`
	ProbOver50   float64 `json:"prob_over_50"`
	ProbOver60   float64 `json:"prob_over_60"`
	Percentile5  float64 `json:"percentile_5"`
	Percentile95 float64 `json:"percentile_95"`
}

type BasicSimulationResponse struct {
	Model      string                 `json:"model"`
	RunID      string                 `json:"run_id"`
	Parameters map[string]interface{} `json:"parameters"`
	Results    ResultSummary          `json:"results"`
	Timestamp  time.Time              `json:"timestamp"`
}

type CurrentStatsResponse struct {
	HomeRuns         int       `json:"home_runs"`
	PlateAppearances int       `json:"plate_appearances"`
	GamesPlayed      int       `json:"games_played"`
	HRPerPA          float64   `json:"hr_per_pa"`
	LastUpdated      time.Time `json:"last_updated"`
}

type AllSimulationsResponse struct {
	RunID             string               `json:"run_id"`
	Basic             ResultSummary        `json:"basic"`
	HomeAway          ResultSummary        `json:"home_away"`
	PitcherHandedness ResultSummary        `json:"pitcher_handedness"`
	BallparkFactors   ResultSummary        `json:"ballpark_factors"`
	AdvancedCombined  ResultSummary        `json:"advanced_combined"`
	CurrentStats      CurrentStatsResponse `json:"current_stats"`
	LastUpdated       time.Time            `json:"last_updated"`
}

type DistributionResponse struct {
	Model        string             `json:"model"`
	RunID        string             `json:"run_id"`
	Distribution []int              `json:"distribution"`
	Statistics   map[string]float64 `json:"statistics"`
	Trials       int                `json:"trials"`
	Timestamp    time.Time          `json:"timestamp"`
}

// RunBasic runs the basic Monte Carlo model with the live season rate
func (h *SimulationHandler) RunBasic(c *gin.Context) {
	trials, ok := h.parseTrials(c)
	if !ok {
		return
	}

	cacheKey := services.SimulationCacheKey("basic", trials)
	var cached BasicSimulationResponse
	if err := h.cache.GetSimple(cacheKey, &cached); err == nil {
		utils.SendSuccess(c, cached)
		return
	}

	stats, err := h.provider.GetSeasonStats()
	if err != nil {
		utils.SendServiceUnavailable(c, "Failed to fetch current stats")
		return
	}

	sim, err := simulation.New(trials, h.cfg.SimulationSeed, logrus.StandardLogger())
	if err != nil {
		utils.SendValidationError(c, "Invalid simulation parameters", err.Error())
		return
	}

	result, err := sim.BasicModel(stats.HRPerPA, simulation.DefaultMinPA, simulation.DefaultMaxPA)
	if err != nil {
		h.sendSimulationError(c, err)
		return
	}

	response := BasicSimulationResponse{
		Model: "basic",
		RunID: uuid.New().String(),
		Parameters: map[string]interface{}{
			"hr_per_pa": stats.HRPerPA,
			"trials":    trials,
		},
		Results:   summarize(result),
		Timestamp: time.Now().UTC(),
	}

	h.cache.SetSimple(cacheKey, response, simulationCacheTTL)
	utils.SendSuccess(c, response)
}

// RunAll runs every model against freshly fetched data
func (h *SimulationHandler) RunAll(c *gin.Context) {
	trials, ok := h.parseTrials(c)
	if !ok {
		return
	}

	cacheKey := services.SimulationSuiteCacheKey(trials)
	var cached AllSimulationsResponse
	if err := h.cache.GetSimple(cacheKey, &cached); err == nil {
		utils.SendSuccess(c, cached)
		return
	}

	stats, err := h.provider.GetSeasonStats()
	if err != nil {
		utils.SendServiceUnavailable(c, "Failed to fetch current stats")
		return
	}
	homeAway, err := h.provider.GetHomeAwaySplits()
	if err != nil {
		utils.SendServiceUnavailable(c, "Failed to fetch home/away splits")
		return
	}
	pitcher, err := h.provider.GetPitcherSplits()
	if err != nil {
		utils.SendServiceUnavailable(c, "Failed to fetch pitcher splits")
		return
	}
	schedule, err := h.provider.GetSchedule()
	if err != nil {
		utils.SendServiceUnavailable(c, "Failed to fetch schedule")
		return
	}
	factors, err := h.provider.GetBallparkFactors()
	if err != nil {
		utils.SendServiceUnavailable(c, "Failed to fetch ballpark factors")
		return
	}

	sim, err := simulation.New(trials, h.cfg.SimulationSeed, logrus.StandardLogger())
	if err != nil {
		utils.SendValidationError(c, "Invalid simulation parameters", err.Error())
		return
	}

	results, err := sim.RunAll(*stats, *homeAway, *pitcher, schedule, factors)
	if err != nil {
		h.sendSimulationError(c, err)
		return
	}

	now := time.Now().UTC()
	response := AllSimulationsResponse{
		RunID:             uuid.New().String(),
		Basic:             summarize(results["basic"]),
		HomeAway:          summarize(results["home_away"]),
		PitcherHandedness: summarize(results["pitcher_handedness"]),
		BallparkFactors:   summarize(results["ballpark_factors"]),
		AdvancedCombined:  summarize(results["advanced_combined"]),
		CurrentStats: CurrentStatsResponse{
			HomeRuns:         stats.HomeRuns,
			PlateAppearances: stats.PlateAppearances,
			GamesPlayed:      stats.GamesPlayed,
			HRPerPA:          stats.HRPerPA,
			LastUpdated:      now,
		},
		LastUpdated: now,
	}

	h.cache.SetSimple(cacheKey, response, simulationCacheTTL)
	utils.SendSuccess(c, response)
}

// GetDistribution returns the full per-trial distribution for one model
func (h *SimulationHandler) GetDistribution(c *gin.Context) {
	model := c.Param("model")

	trials, ok := h.parseTrials(c)
	if !ok {
		return
	}

	sim, err := simulation.New(trials, h.cfg.SimulationSeed, logrus.StandardLogger())
	if err != nil {
		utils.SendValidationError(c, "Invalid simulation parameters", err.Error())
		return
	}

	var result *simulation.Result
	switch model {
	case "basic":
		stats, statsErr := h.provider.GetSeasonStats()
		if statsErr != nil {
			utils.SendServiceUnavailable(c, "Failed to fetch current stats")
			return
		}
		result, err = sim.BasicModel(stats.HRPerPA, simulation.DefaultMinPA, simulation.DefaultMaxPA)
	case "home_away":
		splits, splitsErr := h.provider.GetHomeAwaySplits()
		if splitsErr != nil {
			utils.SendServiceUnavailable(c, "Failed to fetch home/away splits")
			return
		}
		result, err = sim.HomeAwayModel(splits.Home.HRPerPA, splits.Away.HRPerPA, simulation.DefaultMinPA, simulation.DefaultMaxPA)
	case "pitcher_handedness":
		splits, splitsErr := h.provider.GetPitcherSplits()
		if splitsErr != nil {
			utils.SendServiceUnavailable(c, "Failed to fetch pitcher splits")
			return
		}
		result, err = sim.PitcherHandednessModel(splits.VsLeft.HRPerPA, splits.VsRight.HRPerPA,
			simulation.DefaultMinPA, simulation.DefaultMaxPA, simulation.DefaultMinRHPPct, simulation.DefaultMaxRHPPct)
	case "ballpark_factors":
		stats, statsErr := h.provider.GetSeasonStats()
		if statsErr != nil {
			utils.SendServiceUnavailable(c, "Failed to fetch current stats")
			return
		}
		schedule, schedErr := h.provider.GetSchedule()
		if schedErr != nil {
			utils.SendServiceUnavailable(c, "Failed to fetch schedule")
			return
		}
		factors, factorsErr := h.provider.GetBallparkFactors()
		if factorsErr != nil {
			utils.SendServiceUnavailable(c, "Failed to fetch ballpark factors")
			return
		}
		result, err = sim.BallparkFactorModel(schedule, factors, stats.HRPerPA, mlb.YankeeStadiumFactor, mlb.DefaultPAPerGame)
	default:
		utils.SendValidationError(c, "Unknown model: "+model, "supported models: basic, home_away, pitcher_handedness, ballpark_factors")
		return
	}
	if err != nil {
		h.sendSimulationError(c, err)
		return
	}

	utils.SendSuccess(c, DistributionResponse{
		Model:        model,
		RunID:        uuid.New().String(),
		Distribution: result.Distribution,
		Statistics: map[string]float64{
			"mean":   result.MeanHRs,
			"median": result.MedianHRs,
			"std":    result.StdHRs,
		},
		Trials:    trials,
		Timestamp: time.Now().UTC(),
	})
}

// parseTrials validates the trials query parameter, falling back to the
// configured default when absent
func (h *SimulationHandler) parseTrials(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("trials", strconv.Itoa(h.cfg.SimulationTrials))

	trials, err := strconv.Atoi(raw)
	if err != nil {
		utils.SendValidationError(c, "Invalid trials parameter", err.Error())
		return 0, false
	}
	if trials <= 0 || trials > h.cfg.MaxTrials {
		utils.SendValidationError(c, "Trials out of range",
			"trials must be between 1 and "+strconv.Itoa(h.cfg.MaxTrials))
		return 0, false
	}

	return trials, true
}

func (h *SimulationHandler) sendSimulationError(c *gin.Context, err error) {
	if errors.Is(err, simulation.ErrInvalidParameter) {
		utils.SendValidationError(c, "Invalid simulation parameters", err.Error())
		return
	}
	utils.SendError(c, 500, utils.NewAppError(utils.ErrCodeSimulation, "Simulation failed", err.Error()))
}

func summarize(result *simulation.Result) ResultSummary {
	return ResultSummary{
		MeanHRs:      result.MeanHRs,
		MedianHRs:    result.MedianHRs,
		StdHRs:       result.StdHRs,
		ProbOver40:   result.ProbOver40,
		ProbOver50:   result.ProbOver50,
		ProbOver60:   result.ProbOver60,
		Percentile5:  result.Percentile5,
		Percentile95: result.Percentile95,
	}
}
