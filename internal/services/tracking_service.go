package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rideguard/internal/config"
	"rideguard/internal/models"
	"rideguard/internal/utils"
	"rideguard/pkg/logger"
	"rideguard/pkg/websocket"

	"github.com/redis/go-redis/v9"
)

const (
	liveLocationGeoKey = "emergency:locations"

	// Movement below this radius does not move the geo index entry.
	stationaryRadiusKM = 0.005
)

// TrackingService manages live location sessions. Sessions move through
// CREATED, ACTIVE, then EXPIRED or STOPPED; location updates are only
// accepted while ACTIVE and inside the session window.
type TrackingService interface {
	StartTracking(ctx context.Context, incident *models.EmergencyIncident, durationMinutes int) (*models.TrackingInfo, error)
	UpdateLocation(ctx context.Context, update *models.LocationUpdate) bool
	StopTracking(ctx context.Context, sessionID string) bool
	StopByIncident(ctx context.Context, incidentID string) int
	GetSession(sessionID string) (*models.TrackingSession, bool)
	ActiveSessionCount() int

	// Run sweeps expired sessions until ctx is cancelled.
	Run(ctx context.Context)
}

type trackingService struct {
	cfg    *config.EmergencyConfig
	cache  Cache
	hub    *websocket.Handler
	logger *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*models.TrackingSession
}

func NewTrackingService(cfg *config.EmergencyConfig, redisCache Cache, hub *websocket.Handler, log *logger.Logger) TrackingService {
	return &trackingService{
		cfg:      cfg,
		cache:    redisCache,
		hub:      hub,
		logger:   log,
		sessions: make(map[string]*models.TrackingSession),
	}
}

func (t *trackingService) StartTracking(ctx context.Context, incident *models.EmergencyIncident, durationMinutes int) (*models.TrackingInfo, error) {
	if durationMinutes <= 0 {
		durationMinutes = t.cfg.TrackingDurationMin
	}

	session := &models.TrackingSession{
		SessionID:      utils.GenerateSessionID(),
		IncidentID:     incident.ID.Hex(),
		UserID:         incident.UserID,
		Status:         models.TrackingStatusCreated,
		StartTime:      time.Now(),
		Duration:       time.Duration(durationMinutes) * time.Minute,
		UpdateInterval: t.cfg.TrackingUpdateInterval,
		LastLatitude:   incident.Location.Latitude,
		LastLongitude:  incident.Location.Longitude,
		LastAccuracy:   incident.Location.Accuracy,
		LastUpdateTime: time.Now(),
	}

	t.mu.Lock()
	session.Status = models.TrackingStatusActive
	t.sessions[session.SessionID] = session
	t.mu.Unlock()

	t.recordLocation(ctx, session.SessionID, session.IncidentID, incident.Location.Latitude, incident.Location.Longitude)

	t.logger.WithIncidentID(incident.ID).WithSessionID(session.SessionID).
		WithField("duration_minutes", durationMinutes).
		Info("Tracking session started")

	return &models.TrackingInfo{
		SessionID:             session.SessionID,
		TrackingURL:           fmt.Sprintf("%s/%s", t.cfg.TrackingURLBase, session.SessionID),
		DurationMinutes:       durationMinutes,
		UpdateIntervalSeconds: int(session.UpdateInterval.Seconds()),
		ExpiresAt:             session.ExpiresAt(),
		IsActive:              true,
	}, nil
}

// UpdateLocation returns false for unknown, stopped or expired sessions.
// An update arriving past the window expires the session in place, taking
// the same stop path the sweep takes.
func (t *trackingService) UpdateLocation(ctx context.Context, update *models.LocationUpdate) bool {
	if !utils.IsValidCoordinates(update.Latitude, update.Longitude) {
		return false
	}

	t.mu.Lock()
	session, ok := t.sessions[update.SessionID]
	if !ok || session.Status != models.TrackingStatusActive {
		t.mu.Unlock()
		return false
	}

	now := time.Now()
	if session.IsExpired(now) {
		session.Status = models.TrackingStatusExpired
		delete(t.sessions, update.SessionID)
		incidentID := session.IncidentID
		t.mu.Unlock()

		t.publishStopped(ctx, update.SessionID, incidentID)
		t.logger.WithSessionID(update.SessionID).Info("Tracking session expired")
		return false
	}

	prevLat, prevLng := session.LastLatitude, session.LastLongitude
	session.LastLatitude = update.Latitude
	session.LastLongitude = update.Longitude
	session.LastAccuracy = update.Accuracy
	session.LastUpdateTime = now
	update.IncidentID = session.IncidentID
	update.UserID = session.UserID
	update.DistanceMeters = utils.CalculateDistanceMeters(prevLat, prevLng, update.Latitude, update.Longitude)
	update.Timestamp = now
	t.mu.Unlock()

	// Stationary positions are still broadcast but not re-indexed.
	if !utils.IsWithinRadius(prevLat, prevLng, update.Latitude, update.Longitude, stationaryRadiusKM) {
		t.recordLocation(ctx, update.SessionID, update.IncidentID, update.Latitude, update.Longitude)
	}
	t.broadcast(ctx, update)

	return true
}

func (t *trackingService) StopTracking(ctx context.Context, sessionID string) bool {
	t.mu.Lock()
	session, ok := t.sessions[sessionID]
	if !ok || session.Status != models.TrackingStatusActive {
		t.mu.Unlock()
		return false
	}
	session.Status = models.TrackingStatusStopped
	delete(t.sessions, sessionID)
	incidentID := session.IncidentID
	t.mu.Unlock()

	t.publishStopped(ctx, sessionID, incidentID)

	t.logger.WithSessionID(sessionID).Info("Tracking session stopped")
	return true
}

func (t *trackingService) publishStopped(ctx context.Context, sessionID, incidentID string) {
	if err := t.cache.Publish(ctx, utils.EventTrackingStopped, map[string]string{
		"session_id":  sessionID,
		"incident_id": incidentID,
	}); err != nil {
		t.logger.WithError(err).WithSessionID(sessionID).Warn("Failed to publish tracking stop event")
	}
}

// StopByIncident stops every active session tied to an incident and
// returns how many were stopped.
func (t *trackingService) StopByIncident(ctx context.Context, incidentID string) int {
	t.mu.Lock()
	var stopped []string
	for id, session := range t.sessions {
		if session.IncidentID == incidentID {
			session.Status = models.TrackingStatusStopped
			delete(t.sessions, id)
			stopped = append(stopped, id)
		}
	}
	t.mu.Unlock()

	for _, id := range stopped {
		t.publishStopped(ctx, id, incidentID)
	}

	return len(stopped)
}

func (t *trackingService) GetSession(sessionID string) (*models.TrackingSession, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	session, ok := t.sessions[sessionID]
	if !ok {
		return nil, false
	}

	copied := *session
	return &copied, true
}

func (t *trackingService) ActiveSessionCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

func (t *trackingService) Run(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.TrackingSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.sweep()
		}
	}
}

func (t *trackingService) sweep() {
	now := time.Now()
	expired := 0

	t.mu.Lock()
	for id, session := range t.sessions {
		if session.IsExpired(now) {
			session.Status = models.TrackingStatusExpired
			delete(t.sessions, id)
			expired++
		}
	}
	t.mu.Unlock()

	if expired > 0 {
		t.logger.WithField("expired_sessions", expired).Info("Swept expired tracking sessions")
	}
}

func (t *trackingService) recordLocation(ctx context.Context, sessionID, incidentID string, lat, lng float64) {
	err := t.cache.GeoAdd(ctx, liveLocationGeoKey, &redis.GeoLocation{
		Name:      incidentID,
		Latitude:  lat,
		Longitude: lng,
	})
	if err != nil {
		t.logger.WithError(err).WithSessionID(sessionID).Warn("Failed to index live location")
	}
}

func (t *trackingService) broadcast(ctx context.Context, update *models.LocationUpdate) {
	if err := t.cache.Publish(ctx, utils.EventLocationUpdated, update); err != nil {
		t.logger.WithError(err).WithSessionID(update.SessionID).Warn("Failed to publish location update")
	}

	if t.hub != nil {
		t.hub.SendSessionUpdate(update.SessionID, map[string]interface{}{
			"latitude":    update.Latitude,
			"longitude":   update.Longitude,
			"accuracy":    update.Accuracy,
			"incident_id": update.IncidentID,
			"timestamp":   update.Timestamp.Unix(),
		})
	}
}
