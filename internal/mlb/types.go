package mlb

import (
	"time"
)

// SeasonStats represents a player's cumulative season batting line
type SeasonStats struct {
	HomeRuns         int     `json:"home_runs"`
	PlateAppearances int     `json:"plate_appearances"`
	AtBats           int     `json:"at_bats"`
	Hits             int     `json:"hits"`
	GamesPlayed      int     `json:"games_played"`
	HRPerPA          float64 `json:"hr_per_pa"`
}

// SplitStats represents a batting line restricted to one context
// (home games, away games, vs LHP, vs RHP)
type SplitStats struct {
	HomeRuns         int     `json:"home_runs"`
	PlateAppearances int     `json:"plate_appearances"`
	HRPerPA          float64 `json:"hr_per_pa"`
}

// HomeAwaySplits combines the home and away batting lines
type HomeAwaySplits struct {
	Home SplitStats `json:"home"`
	Away SplitStats `json:"away"`
}

// PitcherSplits combines the vs-LHP and vs-RHP batting lines
type PitcherSplits struct {
	VsLeft  SplitStats `json:"vs_left"`
	VsRight SplitStats `json:"vs_right"`
}

// ScheduleGame represents one remaining game on the team schedule
type ScheduleGame struct {
	Date      string `json:"date"` // ISO-8601 (YYYY-MM-DD)
	VenueName string `json:"venue_name"`
	VenueID   int    `json:"venue_id"`
	IsHome    bool   `json:"is_home"`
	Opponent  string `json:"opponent"`
}

// BallparkFactors maps a venue name to its home-run park factor,
// indexed against a league-average baseline of 100
type BallparkFactors map[string]float64

// Fallback rates used whenever the Stats API is unavailable or a split
// has not accrued any plate appearances yet. Values are the player's
// 2024 full-season rates.
const (
	DefaultHRPerPA        = 0.0824
	DefaultHomeHRPerPA    = 0.0909
	DefaultAwayHRPerPA    = 0.0744
	DefaultVsLeftHRPerPA  = 0.0870
	DefaultVsRightHRPerPA = 0.0808

	// DefaultPAPerGame is the historical plate appearances per game pace
	DefaultPAPerGame = 4.45

	// NeutralParkFactor is assumed for venues missing from the table
	NeutralParkFactor = 100.0

	// YankeeStadiumFactor is the baseline the ballpark model scales against
	YankeeStadiumFactor = 101.0
)

// StatsProvider is the interface for fetching player and schedule data
// from an external source
type StatsProvider interface {
	GetSeasonStats() (*SeasonStats, error)
	GetHomeAwaySplits() (*HomeAwaySplits, error)
	GetPitcherSplits() (*PitcherSplits, error)
	GetSchedule() ([]ScheduleGame, error)
	GetBallparkFactors() (BallparkFactors, error)
}

// CacheProvider is the interface for cache operations
type CacheProvider interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}
