package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IncidentType string
type IncidentPriority string
type IncidentStatus string
type SafetyMode string

const (
	IncidentTypeMedical    IncidentType = "MEDICAL_EMERGENCY"
	IncidentTypeAccident   IncidentType = "ACCIDENT"
	IncidentTypeHarassment IncidentType = "HARASSMENT"
	IncidentTypeBreakdown  IncidentType = "VEHICLE_BREAKDOWN"
	IncidentTypeSafety     IncidentType = "SAFETY_CONCERN"
	IncidentTypeCrime      IncidentType = "CRIME_IN_PROGRESS"
	IncidentTypeDisaster   IncidentType = "NATURAL_DISASTER"
	IncidentTypeSOS        IncidentType = "SOS"

	PriorityLow      IncidentPriority = "LOW"
	PriorityMedium   IncidentPriority = "MEDIUM"
	PriorityHigh     IncidentPriority = "HIGH"
	PriorityCritical IncidentPriority = "CRITICAL"

	IncidentStatusActive    IncidentStatus = "ACTIVE"
	IncidentStatusResolved  IncidentStatus = "RESOLVED"
	IncidentStatusCancelled IncidentStatus = "CANCELLED"

	SafetyModeWomen   SafetyMode = "WOMEN_SAFETY"
	SafetyModeFamily  SafetyMode = "FAMILY_SAFETY"
	SafetyModeTourist SafetyMode = "TOURIST_SAFETY"
)

// ParseIncidentType maps a raw emergency type string onto a known incident
// type, defaulting to SOS for anything unrecognized.
func ParseIncidentType(raw string) IncidentType {
	switch IncidentType(raw) {
	case IncidentTypeMedical, IncidentTypeAccident, IncidentTypeHarassment,
		IncidentTypeBreakdown, IncidentTypeSafety, IncidentTypeCrime,
		IncidentTypeDisaster:
		return IncidentType(raw)
	default:
		return IncidentTypeSOS
	}
}

func (s IncidentStatus) IsTerminal() bool {
	return s == IncidentStatusResolved || s == IncidentStatusCancelled
}

type EmergencyIncident struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	IncidentNumber     string             `json:"incident_number" bson:"incident_number"`
	UserID             string             `json:"user_id" bson:"user_id" validate:"required"`
	DriverID           string             `json:"driver_id,omitempty" bson:"driver_id,omitempty"`
	TripID             string             `json:"trip_id,omitempty" bson:"trip_id,omitempty"`
	Type               IncidentType       `json:"type" bson:"type"`
	Priority           IncidentPriority   `json:"priority" bson:"priority"`
	Status             IncidentStatus     `json:"status" bson:"status"`
	Description        string             `json:"description,omitempty" bson:"description,omitempty"`
	Location           GeoLocation        `json:"location" bson:"location" validate:"required"`
	RiskScore          int                `json:"risk_score" bson:"risk_score"`
	LanguagePreference string             `json:"language_preference" bson:"language_preference"`
	SafetyMode         SafetyMode         `json:"safety_mode,omitempty" bson:"safety_mode,omitempty"`
	IsTestIncident     bool               `json:"is_test_incident" bson:"is_test_incident"`
	ResolvedBy         string             `json:"resolved_by,omitempty" bson:"resolved_by,omitempty"`
	ResolutionNotes    string             `json:"resolution_notes,omitempty" bson:"resolution_notes,omitempty"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
	ResolvedAt         *time.Time         `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
}
