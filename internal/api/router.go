package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mlbsim/hr-predictor/internal/api/handlers"
	"github.com/mlbsim/hr-predictor/internal/api/middleware"
	"github.com/mlbsim/hr-predictor/internal/mlb"
	"github.com/mlbsim/hr-predictor/internal/services"
	"github.com/mlbsim/hr-predictor/pkg/config"
	"github.com/mlbsim/hr-predictor/pkg/utils"
)

// NewRouter builds the gin engine with the middleware chain, the health
// check, and all API routes under /api/v1.
func NewRouter(provider mlb.StatsProvider, cache mlb.CacheProvider, updater *services.DataUpdaterService, cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		utils.SendInternalError(c, "Internal server error")
	}))
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	router.NoRoute(func(c *gin.Context) {
		utils.SendNotFound(c, "Route not found")
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	apiV1 := router.Group("/api/v1")
	SetupRoutes(apiV1, provider, cache, updater, cfg)

	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, provider mlb.StatsProvider, cache mlb.CacheProvider, updater *services.DataUpdaterService, cfg *config.Config) {
	// Initialize handlers
	statsHandler := handlers.NewStatsHandler(provider, updater)
	simulationHandler := handlers.NewSimulationHandler(provider, cache, cfg)

	// Stats endpoints
	group.GET("/current-stats", statsHandler.GetCurrentStats)
	group.GET("/home-away-splits", statsHandler.GetHomeAwaySplits)
	group.GET("/pitcher-splits", statsHandler.GetPitcherSplits)
	group.GET("/schedule", statsHandler.GetSchedule)
	group.GET("/ballpark-factors", statsHandler.GetBallparkFactors)

	// Simulation endpoints
	group.GET("/simulate/basic", simulationHandler.RunBasic)
	group.GET("/simulate/all", simulationHandler.RunAll)
	group.GET("/simulate/:model/distribution", simulationHandler.GetDistribution)

	// Data refresh endpoints
	group.POST("/refresh-data", statsHandler.RefreshData)
	group.GET("/refresh-status", statsHandler.GetRefreshStatus)
}
