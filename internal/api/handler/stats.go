package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mwaldt/cfpbflow/internal/repository"
)

// StatsHandler serves the transformed mart tables.
type StatsHandler struct {
	marts      *repository.MartRepository
	complaints *repository.ComplaintRepository
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(marts *repository.MartRepository, complaints *repository.ComplaintRepository) *StatsHandler {
	return &StatsHandler{marts: marts, complaints: complaints}
}

// GetStats handles GET /api/v1/stats.
func (h *StatsHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.complaints.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to count complaints: " + err.Error(),
		})
		return
	}

	byCompany, err := h.marts.CompanyStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load company stats: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_complaints": total,
		"by_company":       byCompany,
	})
}

// GetProductTrends handles GET /api/v1/stats/products.
func (h *StatsHandler) GetProductTrends(c *gin.Context) {
	product := c.Query("product")

	trends, err := h.marts.ProductMonthStats(c.Request.Context(), product)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load product trends: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// GetTimeliness handles GET /api/v1/stats/timeliness.
func (h *StatsHandler) GetTimeliness(c *gin.Context) {
	timeliness, err := h.marts.ResponseTimeliness(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load timeliness stats: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"timeliness": timeliness})
}
