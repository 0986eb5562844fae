package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mwaldt/cfpbflow/internal/repository"
)

// ComplaintHandler handles raw-complaint browsing endpoints.
type ComplaintHandler struct {
	complaints *repository.ComplaintRepository
}

// NewComplaintHandler creates a new complaint handler.
func NewComplaintHandler(complaints *repository.ComplaintRepository) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints}
}

// ListComplaints handles GET /api/v1/complaints.
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	company := c.Query("company")
	product := c.Query("product")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	complaints, err := h.complaints.List(c.Request.Context(), company, product, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list complaints: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": complaints,
		"limit":      limit,
		"offset":     offset,
	})
}

// GetComplaint handles GET /api/v1/complaints/:id.
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	id := c.Param("id")

	complaint, err := h.complaints.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get complaint: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// ListCompanies handles GET /api/v1/companies.
func (h *ComplaintHandler) ListCompanies(c *gin.Context) {
	companies, err := h.complaints.GetCompanies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list companies: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies})
}
