package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) handleDashboardMetrics(c *gin.Context) {
	stats, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
