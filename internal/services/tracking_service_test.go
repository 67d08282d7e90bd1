package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"rideguard/internal/models"
	"rideguard/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracking(cache *fakeCache) *trackingService {
	return &trackingService{
		cfg:      testEmergencyConfig(),
		cache:    cache,
		hub:      nil,
		logger:   testLogger(),
		sessions: make(map[string]*models.TrackingSession),
	}
}

func TestStartTracking(t *testing.T) {
	tracking := newTestTracking(newFakeCache())
	incident := testIncident(models.IncidentTypeSOS)

	info, err := tracking.StartTracking(context.Background(), incident, 45)
	require.NoError(t, err)

	assert.NotEmpty(t, info.SessionID)
	assert.Contains(t, info.TrackingURL, info.SessionID)
	assert.Equal(t, 45, info.DurationMinutes)
	assert.Equal(t, 30, info.UpdateIntervalSeconds)
	assert.True(t, info.IsActive)

	session, ok := tracking.GetSession(info.SessionID)
	require.True(t, ok)
	assert.Equal(t, models.TrackingStatusActive, session.Status)
	assert.Equal(t, incident.ID.Hex(), session.IncidentID)
	assert.Equal(t, 1, tracking.ActiveSessionCount())
}

func TestStartTrackingDefaultDuration(t *testing.T) {
	tracking := newTestTracking(newFakeCache())

	info, err := tracking.StartTracking(context.Background(), testIncident(models.IncidentTypeSOS), 0)
	require.NoError(t, err)
	assert.Equal(t, 60, info.DurationMinutes)
}

func TestUpdateLocationAcceptedWhileActive(t *testing.T) {
	cache := newFakeCache()
	tracking := newTestTracking(cache)

	info, err := tracking.StartTracking(context.Background(), testIncident(models.IncidentTypeSOS), 60)
	require.NoError(t, err)

	accepted := tracking.UpdateLocation(context.Background(), &models.LocationUpdate{
		SessionID: info.SessionID,
		Latitude:  41.01,
		Longitude: 28.98,
		Accuracy:  5,
	})
	require.True(t, accepted)

	session, ok := tracking.GetSession(info.SessionID)
	require.True(t, ok)
	assert.Equal(t, 41.01, session.LastLatitude)
	assert.Equal(t, 28.98, session.LastLongitude)

	assert.Equal(t, 1, cache.publishedOn(utils.EventLocationUpdated))
}

func TestUpdateLocationConcurrent(t *testing.T) {
	cache := newFakeCache()
	tracking := newTestTracking(cache)

	info, err := tracking.StartTracking(context.Background(), testIncident(models.IncidentTypeSOS), 60)
	require.NoError(t, err)

	const writers = 8
	const updatesPerWriter = 200

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < updatesPerWriter; i++ {
				tracking.UpdateLocation(context.Background(), &models.LocationUpdate{
					SessionID: info.SessionID,
					Latitude:  41.0 + float64(w)*0.01,
					Longitude: 28.9 + float64(i)*0.0001,
					Accuracy:  5,
				})
			}
		}(w)
	}
	wg.Wait()

	session, ok := tracking.GetSession(info.SessionID)
	require.True(t, ok)
	assert.Equal(t, models.TrackingStatusActive, session.Status)
	assert.Equal(t, writers*updatesPerWriter, cache.publishedOn(utils.EventLocationUpdated))
}

func TestUpdateLocationSkipsGeoIndexWhenStationary(t *testing.T) {
	cache := newFakeCache()
	tracking := newTestTracking(cache)

	info, err := tracking.StartTracking(context.Background(), testIncident(models.IncidentTypeSOS), 60)
	require.NoError(t, err)
	baseline := cache.geoAddCount()

	session, ok := tracking.GetSession(info.SessionID)
	require.True(t, ok)

	// A fix within a few meters of the last one is broadcast but does not
	// move the geo index entry.
	accepted := tracking.UpdateLocation(context.Background(), &models.LocationUpdate{
		SessionID: info.SessionID,
		Latitude:  session.LastLatitude + 0.00001,
		Longitude: session.LastLongitude,
	})
	require.True(t, accepted)
	assert.Equal(t, baseline, cache.geoAddCount())
	assert.Equal(t, 1, cache.publishedOn(utils.EventLocationUpdated))

	// Real movement re-indexes and reports the distance travelled.
	update := &models.LocationUpdate{
		SessionID: info.SessionID,
		Latitude:  session.LastLatitude + 0.01,
		Longitude: session.LastLongitude,
	}
	require.True(t, tracking.UpdateLocation(context.Background(), update))
	assert.Equal(t, baseline+1, cache.geoAddCount())
	assert.InDelta(t, 1110, update.DistanceMeters, 20)
}

func TestUpdateLocationRejectsUnknownSession(t *testing.T) {
	tracking := newTestTracking(newFakeCache())

	accepted := tracking.UpdateLocation(context.Background(), &models.LocationUpdate{
		SessionID: "no-such-session",
		Latitude:  41.0,
		Longitude: 29.0,
	})
	assert.False(t, accepted)
}

func TestUpdateLocationRejectsBadCoordinates(t *testing.T) {
	tracking := newTestTracking(newFakeCache())

	info, err := tracking.StartTracking(context.Background(), testIncident(models.IncidentTypeSOS), 60)
	require.NoError(t, err)

	accepted := tracking.UpdateLocation(context.Background(), &models.LocationUpdate{
		SessionID: info.SessionID,
		Latitude:  123.0,
		Longitude: 28.98,
	})
	assert.False(t, accepted)
}

func TestUpdateLocationExpiresSessionPastWindow(t *testing.T) {
	cache := newFakeCache()
	tracking := newTestTracking(cache)

	info, err := tracking.StartTracking(context.Background(), testIncident(models.IncidentTypeSOS), 60)
	require.NoError(t, err)

	// Backdate the session start so the window has already closed.
	tracking.mu.Lock()
	tracking.sessions[info.SessionID].StartTime = time.Now().Add(-2 * time.Hour)
	tracking.mu.Unlock()

	accepted := tracking.UpdateLocation(context.Background(), &models.LocationUpdate{
		SessionID: info.SessionID,
		Latitude:  41.0,
		Longitude: 29.0,
	})
	assert.False(t, accepted)

	// Expiry takes the stop path: the session is removed and the stop
	// event goes out, so stale sessions are never served.
	_, ok := tracking.GetSession(info.SessionID)
	assert.False(t, ok)
	assert.Equal(t, 0, tracking.ActiveSessionCount())
	assert.Equal(t, 1, cache.publishedOn(utils.EventTrackingStopped))

	// A second update is also rejected.
	accepted = tracking.UpdateLocation(context.Background(), &models.LocationUpdate{
		SessionID: info.SessionID,
		Latitude:  41.0,
		Longitude: 29.0,
	})
	assert.False(t, accepted)
}

func TestStopTracking(t *testing.T) {
	cache := newFakeCache()
	tracking := newTestTracking(cache)

	info, err := tracking.StartTracking(context.Background(), testIncident(models.IncidentTypeSOS), 60)
	require.NoError(t, err)

	assert.True(t, tracking.StopTracking(context.Background(), info.SessionID))

	_, ok := tracking.GetSession(info.SessionID)
	assert.False(t, ok)
	assert.Equal(t, 0, tracking.ActiveSessionCount())
	assert.Equal(t, 1, cache.publishedOn(utils.EventTrackingStopped))

	// Stopping twice is a no-op.
	assert.False(t, tracking.StopTracking(context.Background(), info.SessionID))
}

func TestStopByIncident(t *testing.T) {
	tracking := newTestTracking(newFakeCache())
	incident := testIncident(models.IncidentTypeSOS)

	_, err := tracking.StartTracking(context.Background(), incident, 60)
	require.NoError(t, err)
	_, err = tracking.StartTracking(context.Background(), incident, 60)
	require.NoError(t, err)

	other := testIncident(models.IncidentTypeSOS)
	otherInfo, err := tracking.StartTracking(context.Background(), other, 60)
	require.NoError(t, err)

	stopped := tracking.StopByIncident(context.Background(), incident.ID.Hex())
	assert.Equal(t, 2, stopped)
	assert.Equal(t, 1, tracking.ActiveSessionCount())

	_, ok := tracking.GetSession(otherInfo.SessionID)
	assert.True(t, ok)
}

func TestSweepRemovesExpiredSessions(t *testing.T) {
	tracking := newTestTracking(newFakeCache())

	info, err := tracking.StartTracking(context.Background(), testIncident(models.IncidentTypeSOS), 60)
	require.NoError(t, err)

	tracking.mu.Lock()
	tracking.sessions[info.SessionID].StartTime = time.Now().Add(-2 * time.Hour)
	tracking.mu.Unlock()

	fresh, err := tracking.StartTracking(context.Background(), testIncident(models.IncidentTypeSOS), 60)
	require.NoError(t, err)

	tracking.sweep()

	_, ok := tracking.GetSession(info.SessionID)
	assert.False(t, ok)
	_, ok = tracking.GetSession(fresh.SessionID)
	assert.True(t, ok)
	assert.Equal(t, 1, tracking.ActiveSessionCount())
}

func TestGetSessionReturnsCopy(t *testing.T) {
	tracking := newTestTracking(newFakeCache())

	info, err := tracking.StartTracking(context.Background(), testIncident(models.IncidentTypeSOS), 60)
	require.NoError(t, err)

	session, ok := tracking.GetSession(info.SessionID)
	require.True(t, ok)
	session.LastLatitude = -33.0

	again, ok := tracking.GetSession(info.SessionID)
	require.True(t, ok)
	assert.NotEqual(t, -33.0, again.LastLatitude)
}
