package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mlbsim/hr-predictor/internal/mlb"
)

// ErrInvalidParameter is returned when a model is invoked with a
// probability outside [0,1], a non-positive trial count, or an
// inconsistent plate-appearance range.
var ErrInvalidParameter = errors.New("invalid parameter")

// Defaults shared by the models and the run-all aggregator.
const (
	DefaultTrials = 2500
	DefaultSeed   = 42

	DefaultMinPA = 600
	DefaultMaxPA = 700

	DefaultMinRHPPct = 0.70
	DefaultMaxRHPPct = 0.80

	// SeasonGames is the length of a full MLB season
	SeasonGames = 162
)

// Result contains the reduced statistics for one simulated outcome
// distribution. Distribution holds the raw per-trial totals in the
// order they were drawn so callers can render full histograms.
type Result struct {
	MeanHRs      float64 `json:"mean_hrs"`
	MedianHRs    float64 `json:"median_hrs"`
	StdHRs       float64 `json:"std_hrs"`
	ProbOver40   float64 `json:"prob_over_40"`
	ProbOver50   float64 `json:"prob_over_50"`
	ProbOver60   float64 `json:"prob_over_60"`
	Percentile5  float64 `json:"percentile_5"`
	Percentile95 float64 `json:"percentile_95"`
	Distribution []int   `json:"distribution"`
}

// Simulator runs Monte Carlo season projections for a single hitter.
// It owns its random source: two simulators with the same seed produce
// identical output for the same sequence of calls, and independent
// instances never contend on shared generator state.
type Simulator struct {
	trials int
	rng    *rand.Rand
	logger *logrus.Logger
}

// New creates a Simulator that runs trials iterations per model using a
// generator seeded with seed. The logger may be nil.
func New(trials int, seed int64, logger *logrus.Logger) (*Simulator, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidParameter, trials)
	}
	return &Simulator{
		trials: trials,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}, nil
}

// Trials returns the configured per-model trial count.
func (s *Simulator) Trials() int {
	return s.trials
}

// BasicModel projects the season total from a single overall HR/PA rate.
// Each trial draws plate appearances uniformly from [minPA, maxPA] and
// the home run count as a binomial outcome over those appearances.
func (s *Simulator) BasicModel(hrPerPA float64, minPA, maxPA int) (*Result, error) {
	if err := validateRate("hr_per_pa", hrPerPA); err != nil {
		return nil, err
	}
	if err := validatePARange(minPA, maxPA); err != nil {
		return nil, err
	}

	outcomes := make([]int, s.trials)
	for i := 0; i < s.trials; i++ {
		pa := uniformRange(s.rng, float64(minPA), float64(maxPA))
		outcomes[i] = sampleBinomial(s.rng, int(pa), hrPerPA)
	}

	return s.reduce("basic", outcomes), nil
}

// HomeAwayModel projects the season total from separate home and away
// rates. The drawn plate appearances split deterministically 50/50,
// with the odd appearance going to the home leg.
func (s *Simulator) HomeAwayModel(homeHRPerPA, awayHRPerPA float64, minPA, maxPA int) (*Result, error) {
	if err := validateRate("home_hr_per_pa", homeHRPerPA); err != nil {
		return nil, err
	}
	if err := validateRate("away_hr_per_pa", awayHRPerPA); err != nil {
		return nil, err
	}
	if err := validatePARange(minPA, maxPA); err != nil {
		return nil, err
	}

	outcomes := make([]int, s.trials)
	for i := 0; i < s.trials; i++ {
		totalPA := uniformRange(s.rng, float64(minPA), float64(maxPA))

		homePA := int(math.Ceil(totalPA / 2))
		awayPA := int(math.Floor(totalPA / 2))

		homeHRs := sampleBinomial(s.rng, homePA, homeHRPerPA)
		awayHRs := sampleBinomial(s.rng, awayPA, awayHRPerPA)

		outcomes[i] = homeHRs + awayHRs
	}

	return s.reduce("home_away", outcomes), nil
}

// PitcherHandednessModel projects the season total from separate rates
// against left- and right-handed pitching. The share of appearances
// against RHP is drawn uniformly from [minRHPPct, maxRHPPct] each trial.
// Both legs truncate to whole plate appearances, so a trial can lose up
// to one drawn appearance; the bias is negligible and left uncorrected.
func (s *Simulator) PitcherHandednessModel(vsLeftHRPerPA, vsRightHRPerPA float64, minPA, maxPA int, minRHPPct, maxRHPPct float64) (*Result, error) {
	if err := validateRate("vs_left_hr_per_pa", vsLeftHRPerPA); err != nil {
		return nil, err
	}
	if err := validateRate("vs_right_hr_per_pa", vsRightHRPerPA); err != nil {
		return nil, err
	}
	if err := validatePARange(minPA, maxPA); err != nil {
		return nil, err
	}
	if err := validateRate("min_rhp_pct", minRHPPct); err != nil {
		return nil, err
	}
	if err := validateRate("max_rhp_pct", maxRHPPct); err != nil {
		return nil, err
	}
	if minRHPPct > maxRHPPct {
		return nil, fmt.Errorf("%w: min_rhp_pct %v exceeds max_rhp_pct %v", ErrInvalidParameter, minRHPPct, maxRHPPct)
	}

	outcomes := make([]int, s.trials)
	for i := 0; i < s.trials; i++ {
		totalPA := uniformRange(s.rng, float64(minPA), float64(maxPA))
		rhpPct := uniformRange(s.rng, minRHPPct, maxRHPPct)

		vsRightPA := int(totalPA * rhpPct)
		vsLeftPA := int(totalPA * (1 - rhpPct))

		vsRightHRs := sampleBinomial(s.rng, vsRightPA, vsRightHRPerPA)
		vsLeftHRs := sampleBinomial(s.rng, vsLeftPA, vsLeftHRPerPA)

		outcomes[i] = vsRightHRs + vsLeftHRs
	}

	return s.reduce("pitcher_handedness", outcomes), nil
}

// BallparkFactorModel projects the season total venue by venue, scaling
// the base rate by each park's factor relative to baselineFactor.
// Venues missing from factors are treated as neutral (factor 100).
func (s *Simulator) BallparkFactorModel(schedule []mlb.ScheduleGame, factors mlb.BallparkFactors, baseHRPerPA, baselineFactor, paPerGame float64) (*Result, error) {
	if err := validateRate("base_hr_per_pa", baseHRPerPA); err != nil {
		return nil, err
	}
	if baselineFactor <= 0 {
		return nil, fmt.Errorf("%w: baseline factor must be positive, got %v", ErrInvalidParameter, baselineFactor)
	}
	if paPerGame <= 0 {
		return nil, fmt.Errorf("%w: pa_per_game must be positive, got %v", ErrInvalidParameter, paPerGame)
	}

	// Aggregate scheduled games per venue. Venues iterate in sorted
	// order so a fixed seed replays the same random stream.
	gamesByVenue := make(map[string]int)
	for _, game := range schedule {
		venue := game.VenueName
		if venue == "" {
			venue = "Unknown"
		}
		gamesByVenue[venue]++
	}

	venues := make([]string, 0, len(gamesByVenue))
	for venue := range gamesByVenue {
		venues = append(venues, venue)
	}
	sort.Strings(venues)

	outcomes := make([]int, s.trials)
	for i := 0; i < s.trials; i++ {
		totalHRs := 0
		for _, venue := range venues {
			factor, ok := factors[venue]
			if !ok {
				factor = mlb.NeutralParkFactor
			}

			adjustedRate := baseHRPerPA * (factor / baselineFactor)
			venuePA := int(float64(gamesByVenue[venue]) * paPerGame)

			totalHRs += sampleBinomial(s.rng, venuePA, adjustedRate)
		}
		outcomes[i] = totalHRs
	}

	return s.reduce("ballpark_factors", outcomes), nil
}

// AdvancedCombinedModel starts from the already-accrued home run count
// and simulates the rest of the season at the current HR/PA rate, with
// the remaining plate-appearance estimate jittered by ±10% per trial.
//
// The split, schedule, and ballpark arguments are accepted for call
// symmetry with the other models but are not yet folded into the
// remaining-season rate.
// TODO: blend the home/away, handedness, and park adjustments into the
// remaining-season rate instead of using the overall rate alone.
func (s *Simulator) AdvancedCombinedModel(stats mlb.SeasonStats, homeAway mlb.HomeAwaySplits, pitcher mlb.PitcherSplits, schedule []mlb.ScheduleGame, factors mlb.BallparkFactors) (*Result, error) {
	if err := validateRate("hr_per_pa", stats.HRPerPA); err != nil {
		return nil, err
	}

	gamesRemaining := SeasonGames - stats.GamesPlayed
	if gamesRemaining < 0 {
		gamesRemaining = 0
	}

	paPerGame := mlb.DefaultPAPerGame
	if stats.GamesPlayed > 0 {
		paPerGame = float64(stats.PlateAppearances) / float64(stats.GamesPlayed)
	}
	if paPerGame == 0 {
		paPerGame = mlb.DefaultPAPerGame
	}

	outcomes := make([]int, s.trials)
	for i := 0; i < s.trials; i++ {
		pace := uniformRange(s.rng, 0.9, 1.1)
		remainingPA := int(float64(gamesRemaining) * paPerGame * pace)

		remainingHRs := sampleBinomial(s.rng, remainingPA, stats.HRPerPA)
		outcomes[i] = stats.HomeRuns + remainingHRs
	}

	return s.reduce("advanced_combined", outcomes), nil
}

// RunAll executes all five models against the shared random stream in a
// fixed order: basic, home_away, pitcher_handedness, ballpark_factors,
// advanced_combined. Splits with no recorded plate appearances fall
// back to the historical rate constants.
func (s *Simulator) RunAll(stats mlb.SeasonStats, homeAway mlb.HomeAwaySplits, pitcher mlb.PitcherSplits, schedule []mlb.ScheduleGame, factors mlb.BallparkFactors) (map[string]*Result, error) {
	start := time.Now()

	overallRate := resolveOverallRate(stats)
	homeRate := resolveSplitRate(homeAway.Home, mlb.DefaultHomeHRPerPA)
	awayRate := resolveSplitRate(homeAway.Away, mlb.DefaultAwayHRPerPA)
	vsLeftRate := resolveSplitRate(pitcher.VsLeft, mlb.DefaultVsLeftHRPerPA)
	vsRightRate := resolveSplitRate(pitcher.VsRight, mlb.DefaultVsRightHRPerPA)

	basic, err := s.BasicModel(overallRate, DefaultMinPA, DefaultMaxPA)
	if err != nil {
		return nil, fmt.Errorf("basic model: %w", err)
	}

	homeAwayResult, err := s.HomeAwayModel(homeRate, awayRate, DefaultMinPA, DefaultMaxPA)
	if err != nil {
		return nil, fmt.Errorf("home/away model: %w", err)
	}

	handedness, err := s.PitcherHandednessModel(vsLeftRate, vsRightRate, DefaultMinPA, DefaultMaxPA, DefaultMinRHPPct, DefaultMaxRHPPct)
	if err != nil {
		return nil, fmt.Errorf("pitcher handedness model: %w", err)
	}

	ballpark, err := s.BallparkFactorModel(schedule, factors, overallRate, mlb.YankeeStadiumFactor, mlb.DefaultPAPerGame)
	if err != nil {
		return nil, fmt.Errorf("ballpark factor model: %w", err)
	}

	advancedStats := stats
	advancedStats.HRPerPA = overallRate
	advanced, err := s.AdvancedCombinedModel(advancedStats, homeAway, pitcher, schedule, factors)
	if err != nil {
		return nil, fmt.Errorf("advanced combined model: %w", err)
	}

	results := map[string]*Result{
		"basic":              basic,
		"home_away":          homeAwayResult,
		"pitcher_handedness": handedness,
		"ballpark_factors":   ballpark,
		"advanced_combined":  advanced,
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"models":         len(results),
			"trials":         s.trials,
			"execution_time": time.Since(start),
		}).Info("Monte Carlo simulation suite completed")
	}

	return results, nil
}

// reduce runs the shared statistics reduction and logs the summary.
func (s *Simulator) reduce(model string, outcomes []int) *Result {
	result := calculateStatistics(outcomes)

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"model":    model,
			"trials":   len(outcomes),
			"mean_hrs": result.MeanHRs,
		}).Debug("Simulation model completed")
	}

	return result
}

// resolveOverallRate applies the historical fallback when no plate
// appearances have accrued yet (the no-data shape the provider returns).
func resolveOverallRate(stats mlb.SeasonStats) float64 {
	if stats.PlateAppearances == 0 && stats.HRPerPA == 0 {
		return mlb.DefaultHRPerPA
	}
	return stats.HRPerPA
}

func resolveSplitRate(split mlb.SplitStats, fallback float64) float64 {
	if split.PlateAppearances == 0 && split.HRPerPA == 0 {
		return fallback
	}
	return split.HRPerPA
}

func validateRate(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidParameter, name, p)
	}
	return nil
}

func validatePARange(minPA, maxPA int) error {
	if minPA < 0 || maxPA < minPA {
		return fmt.Errorf("%w: plate appearance range [%d,%d] is invalid", ErrInvalidParameter, minPA, maxPA)
	}
	return nil
}
