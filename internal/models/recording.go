package models

import (
	"time"
)

// RecordingInfo tells the client where to stream audio. The service only
// brokers the upload; bytes go straight to object storage.
type RecordingInfo struct {
	RecordingID        string    `json:"recording_id"`
	IncidentID         string    `json:"incident_id"`
	UserID             string    `json:"user_id"`
	UploadURL          string    `json:"upload_url"`
	UploadMethod       string    `json:"upload_method"`
	StorageKey         string    `json:"storage_key"`
	MaxDurationMinutes int       `json:"max_duration_minutes"`
	ExpiresAt          time.Time `json:"expires_at"`
}
