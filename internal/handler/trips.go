package handlers

import (
	"net/http"

	"SafeAlarm/internal/models"
	"SafeAlarm/internal/service"
	"SafeAlarm/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) handleCreateTrip(c *gin.Context) {
	var in service.CreateTripInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"status": "invalid-argument", "message": "malformed request body"}})
		return
	}

	trip, err := h.trips.CreateTrip(c.Request.Context(), middleware.CurrentUID(c), in)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (h *Handlers) handleGetTrip(c *gin.Context) {
	trip, err := h.trips.GetTrip(c.Request.Context(), middleware.CurrentUID(c), c.Param("id"))
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

type updateStatusRequest struct {
	Status      models.TripStatus `json:"status"`
	SnoozeCount *int              `json:"snoozeCount"`
}

// handleUpdateTripStatus is the store-update surface the escalation trigger
// observes.
func (h *Handlers) handleUpdateTripStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"status": "invalid-argument", "message": "malformed request body"}})
		return
	}

	trip, err := h.trips.UpdateStatus(c.Request.Context(), middleware.CurrentUID(c), c.Param("id"), req.Status, req.SnoozeCount)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handlers) handleCreateTripAlerts(c *gin.Context) {
	alerts, err := h.trips.CreateAlerts(c.Request.Context(), middleware.CurrentUID(c), c.Param("id"))
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"alerts": alerts})
}
