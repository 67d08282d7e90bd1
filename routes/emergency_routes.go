package routes

import (
	"rideguard/internal/config"
	shared "rideguard/internal/handlers/shared"
	"rideguard/internal/middleware"
	"rideguard/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// SetupEmergencyRoutes wires the emergency, contact and tracking endpoints.
// Tracking session reads and the websocket feed are public so a shared
// tracking link works without an account.
func SetupEmergencyRoutes(
	r *gin.RouterGroup,
	security *config.SecurityConfig,
	emergencyHandler *shared.EmergencyHandler,
	contactHandler *shared.ContactHandler,
	trackingHandler *shared.TrackingHandler,
	wsHandler *websocket.Handler,
) {
	emergencies := r.Group("/emergencies")
	emergencies.Use(middleware.AuthRequired(security))
	{
		emergencies.POST("/sos", emergencyHandler.TriggerSOS)
		emergencies.GET("", emergencyHandler.ListIncidents)
		emergencies.GET("/:id", emergencyHandler.GetIncident)
		emergencies.GET("/:id/status", emergencyHandler.GetIncidentStatus)
		emergencies.POST("/:id/resolve", emergencyHandler.ResolveIncident)
		emergencies.POST("/:id/cancel", emergencyHandler.CancelIncident)
		emergencies.POST("/:id/recording/stop", emergencyHandler.StopRecording)
		emergencies.GET("/:id/recording", emergencyHandler.GetRecordingURL)
	}

	contacts := r.Group("/emergency-contacts")
	contacts.Use(middleware.AuthRequired(security))
	{
		contacts.POST("", contactHandler.AddContact)
		contacts.GET("", contactHandler.ListContacts)
		contacts.PUT("/:id", contactHandler.UpdateContact)
		contacts.DELETE("/:id", contactHandler.DeleteContact)
	}

	tracking := r.Group("/tracking")
	{
		tracking.GET("/:session_id", trackingHandler.GetSession)
		tracking.POST("/:session_id/location", middleware.AuthRequired(security), trackingHandler.UpdateLocation)
		tracking.POST("/:session_id/stop", middleware.AuthRequired(security), trackingHandler.StopSession)
	}

	r.GET("/ws", wsHandler.HandleWebSocket)
}
