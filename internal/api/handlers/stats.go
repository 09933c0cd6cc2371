package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mlbsim/hr-predictor/internal/mlb"
	"github.com/mlbsim/hr-predictor/internal/services"
	"github.com/mlbsim/hr-predictor/pkg/utils"
)

type StatsHandler struct {
	provider mlb.StatsProvider
	updater  *services.DataUpdaterService
}

func NewStatsHandler(provider mlb.StatsProvider, updater *services.DataUpdaterService) *StatsHandler {
	return &StatsHandler{
		provider: provider,
		updater:  updater,
	}
}

// GetCurrentStats returns the player's current season statistics
func (h *StatsHandler) GetCurrentStats(c *gin.Context) {
	stats, err := h.provider.GetSeasonStats()
	if err != nil {
		utils.SendServiceUnavailable(c, "Failed to fetch current stats")
		return
	}

	utils.SendSuccess(c, gin.H{
		"home_runs":         stats.HomeRuns,
		"plate_appearances": stats.PlateAppearances,
		"at_bats":           stats.AtBats,
		"hits":              stats.Hits,
		"games_played":      stats.GamesPlayed,
		"hr_per_pa":         stats.HRPerPA,
		"last_updated":      time.Now().UTC(),
	})
}

// GetHomeAwaySplits returns the player's home/away performance splits
func (h *StatsHandler) GetHomeAwaySplits(c *gin.Context) {
	splits, err := h.provider.GetHomeAwaySplits()
	if err != nil {
		utils.SendServiceUnavailable(c, "Failed to fetch home/away splits")
		return
	}

	utils.SendSuccess(c, gin.H{
		"home":         splits.Home,
		"away":         splits.Away,
		"last_updated": time.Now().UTC(),
	})
}

// GetPitcherSplits returns the player's splits vs LHP/RHP
func (h *StatsHandler) GetPitcherSplits(c *gin.Context) {
	splits, err := h.provider.GetPitcherSplits()
	if err != nil {
		utils.SendServiceUnavailable(c, "Failed to fetch pitcher splits")
		return
	}

	utils.SendSuccess(c, gin.H{
		"vs_left":      splits.VsLeft,
		"vs_right":     splits.VsRight,
		"last_updated": time.Now().UTC(),
	})
}

// GetSchedule returns the team's remaining schedule
func (h *StatsHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.provider.GetSchedule()
	if err != nil {
		utils.SendServiceUnavailable(c, "Failed to fetch schedule")
		return
	}

	utils.SendSuccess(c, gin.H{
		"games":        schedule,
		"count":        len(schedule),
		"last_updated": time.Now().UTC(),
	})
}

// GetBallparkFactors returns the park factor table
func (h *StatsHandler) GetBallparkFactors(c *gin.Context) {
	factors, err := h.provider.GetBallparkFactors()
	if err != nil {
		utils.SendServiceUnavailable(c, "Failed to fetch ballpark factors")
		return
	}

	utils.SendSuccess(c, gin.H{
		"factors":               factors,
		"yankee_stadium_factor": mlb.YankeeStadiumFactor,
	})
}

// RefreshData triggers an immediate background data refresh
func (h *StatsHandler) RefreshData(c *gin.Context) {
	h.updater.RefreshNow()

	utils.SendSuccess(c, gin.H{
		"message":   "Data refresh started",
		"timestamp": time.Now().UTC(),
	})
}

// GetRefreshStatus reports the data updater's schedule state
func (h *StatsHandler) GetRefreshStatus(c *gin.Context) {
	utils.SendSuccess(c, h.updater.Status())
}
