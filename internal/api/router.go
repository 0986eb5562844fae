package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mwaldt/cfpbflow/internal/api/handler"
	"github.com/mwaldt/cfpbflow/internal/api/middleware"
	"github.com/mwaldt/cfpbflow/internal/logger"
	"github.com/mwaldt/cfpbflow/internal/repository"
	"github.com/mwaldt/cfpbflow/internal/state"
)

// RouterDeps holds everything the read-only API serves from.
type RouterDeps struct {
	DB         *gorm.DB
	Complaints *repository.ComplaintRepository
	Marts      *repository.MartRepository
	Runs       *repository.RunRepository
	Store      state.Store
	Logger     *logger.Logger
	Mode       string
	CORS       middleware.CORSConfig
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps RouterDeps) *gin.Engine {
	// Set Gin mode
	switch deps.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(deps.Logger))
	r.Use(middleware.CORS(deps.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler(deps.DB)
	complaintHandler := handler.NewComplaintHandler(deps.Complaints)
	statsHandler := handler.NewStatsHandler(deps.Marts, deps.Complaints)
	runHandler := handler.NewRunHandler(deps.Runs, deps.Store)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Raw complaints
		v1.GET("/complaints", complaintHandler.ListComplaints)
		v1.GET("/complaints/:id", complaintHandler.GetComplaint)
		v1.GET("/companies", complaintHandler.ListCompanies)

		// Mart stats
		v1.GET("/stats", statsHandler.GetStats)
		v1.GET("/stats/products", statsHandler.GetProductTrends)
		v1.GET("/stats/timeliness", statsHandler.GetTimeliness)

		// Pipeline runs and checkpoint
		v1.GET("/runs", runHandler.ListRuns)
		v1.GET("/state", runHandler.GetState)
	}

	return r
}
