package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mwaldt/cfpbflow/internal/repository"
	"github.com/mwaldt/cfpbflow/internal/state"
)

// RunHandler serves pipeline run history and the current checkpoint.
type RunHandler struct {
	runs  *repository.RunRepository
	store state.Store
}

// NewRunHandler creates a new run handler.
func NewRunHandler(runs *repository.RunRepository, store state.Store) *RunHandler {
	return &RunHandler{runs: runs, store: store}
}

// ListRuns handles GET /api/v1/runs.
func (h *RunHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	runs, err := h.runs.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list runs: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":   runs,
		"limit":  limit,
		"offset": offset,
	})
}

// GetState handles GET /api/v1/state.
func (h *RunHandler) GetState(c *gin.Context) {
	st, err := h.store.Read()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to read state: " + err.Error(),
		})
		return
	}

	if st.Absent() {
		c.JSON(http.StatusOK, gin.H{"last_loaded_date": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"last_loaded_date": st.LastLoadedDate,
		"updated_at":       st.UpdatedAt,
	})
}
