package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mlbsim/hr-predictor/internal/mlb"
)

// DataUpdaterService keeps the MLB data caches warm on a schedule so
// simulation requests rarely wait on the Stats API.
type DataUpdaterService struct {
	provider      mlb.StatsProvider
	cache         *CacheService
	logger        *logrus.Logger
	cron          *cron.Cron
	mu            sync.Mutex
	isRunning     bool
	lastRefresh   time.Time
	fetchInterval time.Duration
}

// NewDataUpdaterService creates a new data updater service
func NewDataUpdaterService(
	provider mlb.StatsProvider,
	cache *CacheService,
	logger *logrus.Logger,
	fetchInterval time.Duration,
) *DataUpdaterService {
	return &DataUpdaterService{
		provider:      provider,
		cache:         cache,
		logger:        logger,
		cron:          cron.New(),
		fetchInterval: fetchInterval,
	}
}

// Start begins the scheduled data refresh
func (s *DataUpdaterService) Start(skipInitial bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("data updater is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.fetchInterval.String())
	_, err := s.cron.AddFunc(schedule, s.refreshAll)
	if err != nil {
		return fmt.Errorf("failed to schedule data updater: %w", err)
	}

	// Drop stale simulation results overnight
	_, err = s.cron.AddFunc("0 3 * * *", s.cleanupCache)
	if err != nil {
		return fmt.Errorf("failed to schedule cache cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	if !skipInitial {
		go s.refreshAll()
	}

	s.logger.Info("Data updater service started")
	return nil
}

// Stop halts the scheduled refresh and waits for in-flight jobs to
// finish. The wait happens outside the lock: a running refreshAll takes
// s.mu to record its completion time and would deadlock against us.
func (s *DataUpdaterService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info("Data updater service stopped")
}

// RefreshNow triggers an immediate refresh in the background
func (s *DataUpdaterService) RefreshNow() {
	go s.refreshAll()
}

// refreshAll pulls every data set through the provider, repopulating
// the caches as entries expire
func (s *DataUpdaterService) refreshAll() {
	s.logger.Info("Starting scheduled MLB data refresh")

	stats, err := s.provider.GetSeasonStats()
	if err != nil {
		s.logger.Errorf("Failed to refresh season stats: %v", err)
		return
	}

	if _, err := s.provider.GetHomeAwaySplits(); err != nil {
		s.logger.Errorf("Failed to refresh home/away splits: %v", err)
	}
	if _, err := s.provider.GetPitcherSplits(); err != nil {
		s.logger.Errorf("Failed to refresh pitcher splits: %v", err)
	}

	schedule, err := s.provider.GetSchedule()
	if err != nil {
		s.logger.Errorf("Failed to refresh schedule: %v", err)
	}

	s.mu.Lock()
	s.lastRefresh = time.Now()
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"home_runs":       stats.HomeRuns,
		"games_played":    stats.GamesPlayed,
		"games_remaining": len(schedule),
	}).Info("MLB data refresh completed")
}

// cleanupCache clears cached entries so the next request reflects the
// latest upstream data
func (s *DataUpdaterService) cleanupCache() {
	if s.cache == nil {
		return
	}
	s.logger.Info("Clearing cached data")
	if err := s.cache.Flush(); err != nil {
		s.logger.Errorf("Failed to flush cache: %v", err)
	}
}

// Status returns the current state of the updater
func (s *DataUpdaterService) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	status := map[string]interface{}{
		"is_running":     s.isRunning,
		"fetch_interval": s.fetchInterval.String(),
		"next_runs":      nextRuns,
		"cron_jobs":      len(entries),
	}
	if !s.lastRefresh.IsZero() {
		status["last_refresh"] = s.lastRefresh.UTC()
	}
	return status
}
