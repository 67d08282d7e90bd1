package handlers

import (
	"rideguard/internal/models"
	"rideguard/internal/services"
	"rideguard/internal/utils"

	"github.com/gin-gonic/gin"
)

type TrackingHandler struct {
	trackingService services.TrackingService
}

func NewTrackingHandler(trackingService services.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// UpdateLocation ingests a position update from the tracked device.
// Rejected updates (unknown, stopped or expired sessions) return 410 so the
// device knows to stop sending.
func (h *TrackingHandler) UpdateLocation(c *gin.Context) {
	var update models.LocationUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	update.SessionID = c.Param("session_id")

	if !h.trackingService.UpdateLocation(c.Request.Context(), &update) {
		utils.ErrorResponse(c, 410, "SESSION_NOT_ACTIVE", "Tracking session is not accepting updates")
		return
	}

	utils.SuccessResponse(c, "Location updated", nil)
}

// GetSession returns the live state of a tracking session. This endpoint
// backs the shared tracking page, so it is not behind auth.
func (h *TrackingHandler) GetSession(c *gin.Context) {
	session, ok := h.trackingService.GetSession(c.Param("session_id"))
	if !ok {
		utils.NotFoundResponse(c, "Tracking session not found")
		return
	}

	utils.SuccessResponse(c, "Tracking session retrieved", gin.H{
		"session_id":       session.SessionID,
		"incident_id":      session.IncidentID,
		"status":           session.Status,
		"latitude":         session.LastLatitude,
		"longitude":        session.LastLongitude,
		"accuracy":         session.LastAccuracy,
		"last_update_time": session.LastUpdateTime,
		"expires_at":       session.ExpiresAt(),
	})
}

// StopSession ends a tracking session early.
func (h *TrackingHandler) StopSession(c *gin.Context) {
	if !h.trackingService.StopTracking(c.Request.Context(), c.Param("session_id")) {
		utils.NotFoundResponse(c, "Tracking session not found")
		return
	}

	utils.SuccessResponse(c, "Tracking session stopped", nil)
}
