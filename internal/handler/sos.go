package handlers

import (
	"net/http"

	"SafeAlarm/internal/service"
	"SafeAlarm/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type sosRequest struct {
	ToPhone  string            `json:"toPhone"`
	Message  string            `json:"message"`
	Location *service.Location `json:"location"`
}

func (h *Handlers) handleSendSOS(c *gin.Context) {
	var req sosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"status": "invalid-argument", "message": "malformed request body"}})
		return
	}

	sid, err := h.dispatch.SendSingle(c.Request.Context(), middleware.CurrentUID(c), req.ToPhone, req.Message, req.Location)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sid": sid})
}

type batchSOSRequest struct {
	Contacts []string          `json:"contacts"`
	Message  string            `json:"message"`
	Location *service.Location `json:"location"`
}

func (h *Handlers) handleSendBatchSOS(c *gin.Context) {
	var req batchSOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"status": "invalid-argument", "message": "malformed request body"}})
		return
	}

	summary, err := h.dispatch.SendBatch(c.Request.Context(), middleware.CurrentUID(c), req.Contacts, req.Message, req.Location)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
