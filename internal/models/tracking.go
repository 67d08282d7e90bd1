package models

import (
	"time"
)

type TrackingStatus string

const (
	TrackingStatusCreated TrackingStatus = "CREATED"
	TrackingStatusActive  TrackingStatus = "ACTIVE"
	TrackingStatusExpired TrackingStatus = "EXPIRED"
	TrackingStatusStopped TrackingStatus = "STOPPED"
)

// TrackingSession is the only mutable, concurrently accessed entity in the
// core. Position fields change on every UpdateLocation; everything else is
// fixed at creation. Access is serialized by the session manager.
type TrackingSession struct {
	SessionID      string         `json:"session_id"`
	IncidentID     string         `json:"incident_id"`
	UserID         string         `json:"user_id"`
	Status         TrackingStatus `json:"status"`
	StartTime      time.Time      `json:"start_time"`
	Duration       time.Duration  `json:"duration"`
	UpdateInterval time.Duration  `json:"update_interval"`
	LastLatitude   float64        `json:"last_latitude"`
	LastLongitude  float64        `json:"last_longitude"`
	LastAccuracy   float64        `json:"last_accuracy"`
	LastUpdateTime time.Time      `json:"last_update_time"`
}

func (s *TrackingSession) IsActive() bool {
	return s.Status == TrackingStatusActive
}

func (s *TrackingSession) ExpiresAt() time.Time {
	return s.StartTime.Add(s.Duration)
}

func (s *TrackingSession) IsExpired(now time.Time) bool {
	return now.Sub(s.StartTime) > s.Duration
}

// LocationUpdate is the payload published to the live location stream on
// every accepted position update.
type LocationUpdate struct {
	SessionID  string    `json:"session_id"`
	IncidentID string    `json:"incident_id"`
	UserID     string    `json:"user_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	// DistanceMeters is the haversine distance from the previous accepted
	// position.
	DistanceMeters float64   `json:"distance_meters"`
	Timestamp      time.Time `json:"timestamp"`
}
