package services

import (
	"context"
	"testing"

	"rideguard/internal/models"
	"rideguard/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecording(storageProvider *fakeStorage, pushProvider *fakePushProvider, cache *fakeCache) RecordingService {
	return NewRecordingService(testEmergencyConfig(), storageProvider, pushProvider, cache, testLogger())
}

func registerDevice(t *testing.T, cache *fakeCache, userID, token string) {
	t.Helper()
	require.NoError(t, cache.SAdd(context.Background(), pushTokenKeyPrefix+userID, token))
}

func TestStartRecording(t *testing.T) {
	storageProvider := &fakeStorage{}
	pushProvider := &fakePushProvider{}
	cache := newFakeCache()
	registerDevice(t, cache, "user-1", "device-token-1")

	recording := newTestRecording(storageProvider, pushProvider, cache)
	incident := testIncident(models.IncidentTypeSOS)

	info, err := recording.StartRecording(context.Background(), incident)
	require.NoError(t, err)

	assert.NotEmpty(t, info.RecordingID)
	assert.Equal(t, incident.ID.Hex(), info.IncidentID)
	assert.Contains(t, info.StorageKey, "recordings/"+incident.ID.Hex()+"/")
	assert.Equal(t, "PUT", info.UploadMethod)
	assert.Equal(t, 30, info.MaxDurationMinutes)

	// The device received the start command with the upload slot.
	require.Len(t, pushProvider.sent, 1)
	assert.Equal(t, "START_RECORDING", pushProvider.sent[0].Data["command"])
	assert.Equal(t, info.UploadURL, pushProvider.sent[0].Data["upload_url"])

	// Recording info is cached for the stop and download paths.
	var cached models.RecordingInfo
	require.NoError(t, cache.Get(context.Background(), utils.CacheRecordingPrefix+incident.ID.Hex(), &cached))
	assert.Equal(t, info.RecordingID, cached.RecordingID)
}

func TestStartRecordingNoDevices(t *testing.T) {
	recording := newTestRecording(&fakeStorage{}, &fakePushProvider{}, newFakeCache())

	_, err := recording.StartRecording(context.Background(), testIncident(models.IncidentTypeSOS))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no registered devices")
}

func TestStartRecordingPresignFailure(t *testing.T) {
	storageProvider := &fakeStorage{presignErr: assert.AnError}
	cache := newFakeCache()
	registerDevice(t, cache, "user-1", "device-token-1")

	recording := newTestRecording(storageProvider, &fakePushProvider{}, cache)

	_, err := recording.StartRecording(context.Background(), testIncident(models.IncidentTypeSOS))
	assert.Error(t, err)
}

func TestStopRecording(t *testing.T) {
	storageProvider := &fakeStorage{}
	pushProvider := &fakePushProvider{}
	cache := newFakeCache()
	registerDevice(t, cache, "user-1", "device-token-1")

	recording := newTestRecording(storageProvider, pushProvider, cache)
	incident := testIncident(models.IncidentTypeSOS)

	_, err := recording.StartRecording(context.Background(), incident)
	require.NoError(t, err)

	require.NoError(t, recording.StopRecording(context.Background(), incident.ID.Hex()))

	// Start command plus stop command.
	require.Len(t, pushProvider.sent, 2)
	assert.Equal(t, "STOP_RECORDING", pushProvider.sent[1].Data["command"])

	// Stopping again fails: the cache entry is gone.
	assert.Error(t, recording.StopRecording(context.Background(), incident.ID.Hex()))
}

func TestGetRecordingDownloadURL(t *testing.T) {
	storageProvider := &fakeStorage{fileExists: true}
	cache := newFakeCache()
	registerDevice(t, cache, "user-1", "device-token-1")

	recording := newTestRecording(storageProvider, &fakePushProvider{}, cache)
	incident := testIncident(models.IncidentTypeSOS)

	info, err := recording.StartRecording(context.Background(), incident)
	require.NoError(t, err)

	url, err := recording.GetRecordingDownloadURL(context.Background(), incident.ID.Hex())
	require.NoError(t, err)
	assert.Contains(t, url, info.StorageKey)
}

func TestGetRecordingDownloadURLNotUploaded(t *testing.T) {
	storageProvider := &fakeStorage{fileExists: false}
	cache := newFakeCache()
	registerDevice(t, cache, "user-1", "device-token-1")

	recording := newTestRecording(storageProvider, &fakePushProvider{}, cache)
	incident := testIncident(models.IncidentTypeSOS)

	_, err := recording.StartRecording(context.Background(), incident)
	require.NoError(t, err)

	_, err = recording.GetRecordingDownloadURL(context.Background(), incident.ID.Hex())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not yet uploaded")
}
