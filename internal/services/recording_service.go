package services

import (
	"context"
	"fmt"
	"time"

	"rideguard/internal/config"
	"rideguard/internal/models"
	"rideguard/internal/utils"
	"rideguard/pkg/logger"
	"rideguard/pkg/push"
	"rideguard/pkg/storage"
)

// RecordingService starts evidence audio capture on the user's device.
// It presigns an upload slot in object storage and instructs the device
// to record via a data push; the audio bytes never pass through us.
type RecordingService interface {
	StartRecording(ctx context.Context, incident *models.EmergencyIncident) (*models.RecordingInfo, error)
	StopRecording(ctx context.Context, incidentID string) error
	GetRecordingDownloadURL(ctx context.Context, incidentID string) (string, error)
}

type recordingService struct {
	cfg          *config.EmergencyConfig
	storage      storage.StorageProvider
	pushProvider push.PushProvider
	cache        Cache
	logger       *logger.Logger
}

func NewRecordingService(
	cfg *config.EmergencyConfig,
	storageProvider storage.StorageProvider,
	pushProvider push.PushProvider,
	redisCache Cache,
	log *logger.Logger,
) RecordingService {
	return &recordingService{
		cfg:          cfg,
		storage:      storageProvider,
		pushProvider: pushProvider,
		cache:        redisCache,
		logger:       log,
	}
}

func (r *recordingService) StartRecording(ctx context.Context, incident *models.EmergencyIncident) (*models.RecordingInfo, error) {
	recordingID := utils.GenerateUUID()
	storageKey := fmt.Sprintf("recordings/%s/%s.m4a", incident.ID.Hex(), recordingID)

	presigned, err := r.storage.PresignUpload(ctx, &storage.PresignRequest{
		Key:         storageKey,
		ContentType: "audio/mp4",
		Expiration:  r.cfg.RecordingMaxDuration,
		Metadata: map[string]string{
			"incident_id": incident.ID.Hex(),
			"user_id":     incident.UserID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign recording upload: %w", err)
	}

	info := &models.RecordingInfo{
		RecordingID:        recordingID,
		IncidentID:         incident.ID.Hex(),
		UserID:             incident.UserID,
		UploadURL:          presigned.URL,
		UploadMethod:       presigned.Method,
		StorageKey:         storageKey,
		MaxDurationMinutes: int(r.cfg.RecordingMaxDuration.Minutes()),
		ExpiresAt:          presigned.ExpiresAt,
	}

	// The recording key expires with the upload window so a stale entry
	// never outlives its usefulness.
	cacheKey := utils.CacheRecordingPrefix + incident.ID.Hex()
	if err := r.cache.Set(ctx, cacheKey, info, r.cfg.RecordingMaxDuration); err != nil {
		r.logger.WithError(err).WithIncidentID(incident.ID).Warn("Failed to cache recording info")
	}

	if err := r.commandDevice(ctx, incident, info); err != nil {
		return nil, err
	}

	r.logger.WithIncidentID(incident.ID).
		WithField("recording_id", recordingID).
		Info("Audio recording started")

	return info, nil
}

func (r *recordingService) commandDevice(ctx context.Context, incident *models.EmergencyIncident, info *models.RecordingInfo) error {
	tokens, err := r.cache.SMembers(ctx, pushTokenKeyPrefix+incident.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return fmt.Errorf("user has no registered devices")
	}

	var lastErr error
	for _, deviceToken := range tokens {
		resp, err := r.pushProvider.SendNotification(ctx, &push.NotificationRequest{
			Token:    deviceToken,
			Priority: "high",
			Data: map[string]string{
				"command":      "START_RECORDING",
				"incident_id":  incident.ID.Hex(),
				"recording_id": info.RecordingID,
				"upload_url":   info.UploadURL,
				"max_minutes":  fmt.Sprintf("%d", info.MaxDurationMinutes),
			},
		})
		if err == nil && resp.Success {
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to command device recording: %w", lastErr)
	}
	return fmt.Errorf("failed to command device recording")
}

func (r *recordingService) StopRecording(ctx context.Context, incidentID string) error {
	var info models.RecordingInfo
	cacheKey := utils.CacheRecordingPrefix + incidentID
	if err := r.cache.Get(ctx, cacheKey, &info); err != nil {
		return fmt.Errorf("no active recording for incident")
	}

	tokens, err := r.cache.SMembers(ctx, pushTokenKeyPrefix+info.UserID)
	if err == nil {
		for _, deviceToken := range tokens {
			_, _ = r.pushProvider.SendNotification(ctx, &push.NotificationRequest{
				Token:    deviceToken,
				Priority: "high",
				Data: map[string]string{
					"command":     "STOP_RECORDING",
					"incident_id": incidentID,
				},
			})
		}
	}

	return r.cache.Delete(ctx, cacheKey)
}

func (r *recordingService) GetRecordingDownloadURL(ctx context.Context, incidentID string) (string, error) {
	var info models.RecordingInfo
	cacheKey := utils.CacheRecordingPrefix + incidentID
	if err := r.cache.Get(ctx, cacheKey, &info); err != nil {
		return "", fmt.Errorf("no recording found for incident")
	}

	exists, err := r.storage.FileExists(ctx, info.StorageKey)
	if err != nil {
		return "", fmt.Errorf("failed to check recording: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("recording not yet uploaded")
	}

	presigned, err := r.storage.PresignDownload(ctx, info.StorageKey, 15*time.Minute)
	if err != nil {
		return "", fmt.Errorf("failed to presign recording download: %w", err)
	}

	return presigned.URL, nil
}
