package handlers

import (
	"errors"
	"net/http"

	"rideguard/internal/models"
	"rideguard/internal/services"
	"rideguard/internal/utils"
	"rideguard/internal/validators"

	"github.com/gin-gonic/gin"
)

type EmergencyHandler struct {
	emergencyService services.EmergencyService
	recordingService services.RecordingService
}

func NewEmergencyHandler(emergencyService services.EmergencyService, recordingService services.RecordingService) *EmergencyHandler {
	return &EmergencyHandler{
		emergencyService: emergencyService,
		recordingService: recordingService,
	}
}

// TriggerSOS activates the panic button flow for the authenticated user.
func (h *EmergencyHandler) TriggerSOS(c *gin.Context) {
	var request models.SOSRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := validators.ValidateSOSRequest(&request); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}
	request.UserID = userID.(string)

	response := h.emergencyService.TriggerSOS(c.Request.Context(), &request)
	if response.Status == "FAILED" {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "SOS_TRIGGER_FAILED", response.Message)
		return
	}

	utils.CreatedResponse(c, "Emergency response activated", response)
}

// GetIncident retrieves incident details
func (h *EmergencyHandler) GetIncident(c *gin.Context) {
	incident, err := h.emergencyService.GetIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Incident not found")
		return
	}

	utils.SuccessResponse(c, "Incident retrieved successfully", incident)
}

// GetIncidentStatus returns the live status snapshot for an incident.
func (h *EmergencyHandler) GetIncidentStatus(c *gin.Context) {
	status, err := h.emergencyService.GetIncidentStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Incident not found")
		return
	}

	utils.SuccessResponse(c, "Incident status retrieved", status)
}

type resolveRequest struct {
	Notes string `json:"notes"`
}

// ResolveIncident moves an active incident to RESOLVED.
func (h *EmergencyHandler) ResolveIncident(c *gin.Context) {
	var request resolveRequest
	_ = c.ShouldBindJSON(&request)

	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}

	err := h.emergencyService.ResolveIncident(c.Request.Context(), c.Param("id"), userID.(string), request.Notes)
	if err != nil {
		if errors.Is(err, services.ErrIncidentTerminal) {
			utils.ErrorResponse(c, http.StatusConflict, "INCIDENT_ALREADY_CLOSED", err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "INCIDENT_RESOLVE_FAILED", "Failed to resolve incident: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Incident resolved successfully", nil)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelIncident moves an active incident to CANCELLED (false alarm).
func (h *EmergencyHandler) CancelIncident(c *gin.Context) {
	var request cancelRequest
	_ = c.ShouldBindJSON(&request)

	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}

	err := h.emergencyService.CancelIncident(c.Request.Context(), c.Param("id"), userID.(string), request.Reason)
	if err != nil {
		if errors.Is(err, services.ErrIncidentTerminal) {
			utils.ErrorResponse(c, http.StatusConflict, "INCIDENT_ALREADY_CLOSED", err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "INCIDENT_CANCEL_FAILED", "Failed to cancel incident: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Incident cancelled successfully", nil)
}

// ListIncidents returns the authenticated user's incident history.
func (h *EmergencyHandler) ListIncidents(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	incidents, total, err := h.emergencyService.ListUserIncidents(c.Request.Context(), userID.(string), params.Limit, params.Offset())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "INCIDENT_LIST_FAILED", "Failed to list incidents: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Incidents retrieved successfully", gin.H{
		"incidents": incidents,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	})
}

// StopRecording tells the user's device to stop the evidence recording.
func (h *EmergencyHandler) StopRecording(c *gin.Context) {
	if err := h.recordingService.StopRecording(c.Request.Context(), c.Param("id")); err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "Recording stopped", nil)
}

// GetRecordingURL presigns a short-lived download link for the uploaded
// evidence recording.
func (h *EmergencyHandler) GetRecordingURL(c *gin.Context) {
	url, err := h.recordingService.GetRecordingDownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "Recording download link generated", gin.H{"download_url": url})
}
