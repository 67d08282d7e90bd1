package utils

import "time"

// Application Constants
const (
	AppName    = "RideGuard"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage    = "tr"
	DefaultCountryCode = "+90"
	DefaultTimeZone    = "UTC"

	// Incident numbering
	IncidentNumberPrefix = "EMG"
	IncidentNumberDigits = 4

	// Tracking
	TrackingSessionIDLength = 32

	// Rate Limiting
	DefaultRateLimit = 100
	SOSRateLimit     = 10
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFailed  = "failed"
)

// Error Messages
const (
	ErrInvalidToken     = "invalid token"
	ErrTokenExpired     = "token expired"
	ErrInvalidInput     = "invalid input"
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrNotFound         = "not found"
	ErrValidationFailed = "validation failed"
	ErrIncidentNotFound = "incident not found"
	ErrContactNotFound  = "emergency contact not found"
	ErrSessionNotFound  = "tracking session not found"
)

// Cache Keys
const (
	CacheIncidentStatusPrefix = "emergency:status:"
	CacheRecordingPrefix      = "emergency:recording:"
	CacheRateLimitPrefix      = "rate_limit:"
)

// Event Channels
const (
	EventEmergencyTriggered = "emergency.incidents.triggered"
	EventEmergencyResolved  = "emergency.incidents.resolved"
	EventEmergencyCancelled = "emergency.incidents.cancelled"
	EventActionsLate        = "emergency.actions.late"
	EventLocationUpdated    = "emergency.tracking.location"
	EventTrackingStopped    = "emergency.tracking.stopped"
)

// Collections
const (
	CollectionIncidents = "emergency_incidents"
	CollectionContacts  = "emergency_contacts"
)

// Geographic Constants
const (
	EarthRadiusKM = 6371.0
)

// Orchestration
const (
	SlowProcessingThreshold     = 10 * time.Second
	CriticalProcessingThreshold = 30 * time.Second
)
