package models

import (
	"time"
)

type ActionType string
type ActionResult string

const (
	ActionContactNotification ActionType = "CONTACT_NOTIFICATION"
	ActionAuthorityContact    ActionType = "AUTHORITY_CONTACT"
	ActionLocationTracking    ActionType = "LOCATION_TRACKING"
	ActionAudioRecording      ActionType = "AUDIO_RECORDING"

	ActionResultSuccess ActionResult = "SUCCESS"
	ActionResultFailed  ActionResult = "FAILED"
	ActionResultSkipped ActionResult = "SKIPPED"
)

// SOSRequest is the trigger payload for a panic button / SOS activation.
type SOSRequest struct {
	UserID                 string           `json:"user_id" binding:"required"`
	DriverID               string           `json:"driver_id,omitempty"`
	TripID                 string           `json:"trip_id,omitempty"`
	EmergencyType          string           `json:"emergency_type"`
	Priority               IncidentPriority `json:"priority"`
	Description            string           `json:"description,omitempty"`
	Location               GeoLocation      `json:"location" binding:"required"`
	LanguagePreference     string           `json:"language_preference"`
	SafetyMode             SafetyMode       `json:"safety_mode,omitempty"`
	NotifyContacts         bool             `json:"notify_contacts"`
	AutoContactAuthorities bool             `json:"auto_contact_authorities"`
	StartLocationTracking  bool             `json:"start_location_tracking"`
	StartAudioRecording    bool             `json:"start_audio_recording"`
	TrackingDurationMin    int              `json:"tracking_duration_minutes"`
	IsTestSOS              bool             `json:"is_test_sos"`
}

// ActionRecord captures the outcome of one fan-out action. Records are
// append-only; exactly one is produced per attempted action.
type ActionRecord struct {
	ActionType   ActionType   `json:"action_type"`
	Result       ActionResult `json:"result"`
	Description  string       `json:"description"`
	Target       string       `json:"target,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
}

type ContactNotification struct {
	ContactID    string    `json:"contact_id"`
	ContactName  string    `json:"contact_name"`
	ContactPhone string    `json:"contact_phone"`
	Relationship string    `json:"relationship,omitempty"`
	Method       string    `json:"method"` // SMS or PUSH
	Status       string    `json:"status"` // SENT or FAILED
	MessageSID   string    `json:"message_sid,omitempty"`
	ErrorDetails string    `json:"error_details,omitempty"`
	SentAt       time.Time `json:"sent_at"`
}

type AuthorityContact struct {
	ServiceType      string    `json:"service_type"`
	AuthorityName    string    `json:"authority_name"`
	ContactNumber    string    `json:"contact_number"`
	ContactMethod    string    `json:"contact_method"`
	Status           string    `json:"status"` // CONTACTED or FAILED
	ReferenceNumber  string    `json:"reference_number,omitempty"`
	EstimatedArrival int       `json:"estimated_arrival_minutes"`
	ContactedAt      time.Time `json:"contacted_at"`
}

type TrackingInfo struct {
	SessionID             string    `json:"session_id"`
	TrackingURL           string    `json:"tracking_url"`
	DurationMinutes       int       `json:"duration_minutes"`
	UpdateIntervalSeconds int       `json:"update_interval_seconds"`
	ExpiresAt             time.Time `json:"expires_at"`
	IsActive              bool      `json:"is_active"`
}

type NextSteps struct {
	ImmediateActions       []string `json:"immediate_actions"`
	Expectations           []string `json:"expectations"`
	ExpectedResolutionTime string   `json:"expected_resolution_time"`
	EmergencyHelpline      string   `json:"emergency_helpline"`
}

// PerformanceMetrics summarizes one orchestration run. Computed once from the
// sealed action snapshot, never mutated afterwards.
type PerformanceMetrics struct {
	TotalProcessingTimeMs int64   `json:"total_processing_time_ms"`
	SuccessfulActions     int     `json:"successful_actions"`
	FailedActions         int     `json:"failed_actions"`
	SuccessRate           float64 `json:"success_rate"`
	ResponseQualityScore  int     `json:"response_quality_score"`
}

type SOSResponse struct {
	Status                string                `json:"status"` // SUCCESS or FAILED
	Message               string                `json:"message,omitempty"`
	IncidentID            string                `json:"incident_id,omitempty"`
	IncidentNumber        string                `json:"incident_number,omitempty"`
	EstimatedResponseMin  int                   `json:"estimated_response_time_minutes,omitempty"`
	ActionsTaken          []ActionRecord        `json:"actions_taken,omitempty"`
	ContactsNotified      []ContactNotification `json:"contacts_notified,omitempty"`
	AuthoritiesContacted  []AuthorityContact    `json:"authorities_contacted,omitempty"`
	TrackingInfo          *TrackingInfo         `json:"tracking_info,omitempty"`
	NextSteps             *NextSteps            `json:"next_steps,omitempty"`
	PerformanceMetrics    *PerformanceMetrics   `json:"performance_metrics,omitempty"`
	Timestamp             time.Time             `json:"timestamp"`
}
