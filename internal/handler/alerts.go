package handlers

import (
	"html/template"
	"net/http"
	"time"

	"SafeAlarm/pkg/errors"
	"SafeAlarm/pkg/logger"
	"SafeAlarm/pkg/notification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type smsAlertRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// handleSendSmsAlert is the unauthenticated inbound alert surface. It
// dispatches directly through the transport and is not part of the SOS
// audit trail.
func (h *Handlers) handleSendSmsAlert(c *gin.Context) {
	var req smsAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Phone == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing phone or message"})
		return
	}

	to := notification.NormalizePhone(req.Phone, h.dispatch.Region())
	if _, err := h.sms.Send(c.Request.Context(), to, req.Message); err != nil {
		logger.Error("SMS error", zap.String("to", to), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

var ackPage = template.Must(template.New("ack").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>SafeAlarm - Alert Acknowledged</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      background: #0A0A1A;
      color: white;
      min-height: 100vh;
      display: flex;
      align-items: center;
      justify-content: center;
      padding: 24px;
    }
    .card {
      background: rgba(255,255,255,0.05);
      border-radius: 24px;
      padding: 40px 32px;
      text-align: center;
      max-width: 400px;
      width: 100%;
      border: 1px solid rgba(255,255,255,0.08);
    }
    .icon {
      width: 80px;
      height: 80px;
      background: rgba(48, 209, 88, 0.15);
      border-radius: 50%;
      display: flex;
      align-items: center;
      justify-content: center;
      margin: 0 auto 24px;
      font-size: 36px;
    }
    h1 { font-size: 26px; margin-bottom: 12px; }
    p { color: rgba(255,255,255,0.6); font-size: 16px; line-height: 1.5; }
    .badge {
      display: inline-block;
      background: rgba(48, 209, 88, 0.15);
      color: #30D158;
      padding: 6px 16px;
      border-radius: 20px;
      font-size: 13px;
      font-weight: 600;
      margin-top: 20px;
    }
  </style>
</head>
<body>
  <div class="card">
    <div class="icon">✅</div>
    <h1>Alert Acknowledged</h1>
    <p>Thank you, <strong>{{.ContactName}}</strong>. Please check on the person immediately and call emergency services if you cannot reach them.</p>
    <div class="badge">Response logged at {{.LoggedAt}}</div>
  </div>
</body>
</html>
`))

// handleAcknowledgeAlert serves the link embedded in alert SMS messages.
// The token is the alert id in the query string.
func (h *Handlers) handleAcknowledgeAlert(c *gin.Context) {
	alertID := c.Query("alertId")
	if alertID == "" {
		c.String(http.StatusBadRequest, "Missing alertId")
		return
	}

	alert, err := h.ack.Acknowledge(c.Request.Context(), alertID)
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			c.String(http.StatusNotFound, "Alert not found")
			return
		}
		logger.Error("Ack error", zap.String("alert_id", alertID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Error processing acknowledgment")
		return
	}

	contactName := alert.ContactName
	if contactName == "" {
		contactName = "Contact"
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = ackPage.Execute(c.Writer, gin.H{
		"ContactName": contactName,
		"LoggedAt":    time.Now().Format("3:04:05 PM"),
	})
}
