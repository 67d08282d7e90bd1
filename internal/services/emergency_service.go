package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rideguard/internal/config"
	"rideguard/internal/models"
	"rideguard/internal/repositories/interfaces"
	"rideguard/internal/utils"
	"rideguard/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrIncidentTerminal = errors.New("incident is already resolved or cancelled")
	ErrInvalidLocation  = errors.New("invalid incident location")
)

const activeIncidentsSetPrefix = "emergency:active:"

// EmergencyService is the incident orchestration core. TriggerSOS runs the
// fan-out under a hard deadline and always returns a response; lifecycle
// operations move incidents to their terminal states.
type EmergencyService interface {
	TriggerSOS(ctx context.Context, req *models.SOSRequest) *models.SOSResponse
	GetIncident(ctx context.Context, incidentID string) (*models.EmergencyIncident, error)
	GetIncidentStatus(ctx context.Context, incidentID string) (map[string]string, error)
	ResolveIncident(ctx context.Context, incidentID, resolvedBy, notes string) error
	CancelIncident(ctx context.Context, incidentID, cancelledBy, reason string) error
	ListUserIncidents(ctx context.Context, userID string, limit, offset int) ([]*models.EmergencyIncident, int64, error)
}

type emergencyService struct {
	cfg          *config.EmergencyConfig
	incidentRepo interfaces.IncidentRepository
	notifier     ContactNotifier
	dispatcher   AuthorityDispatcher
	tracking     TrackingService
	recording    RecordingService
	cache        Cache
	logger       *logger.Logger
}

func NewEmergencyService(
	cfg *config.EmergencyConfig,
	incidentRepo interfaces.IncidentRepository,
	notifier ContactNotifier,
	dispatcher AuthorityDispatcher,
	tracking TrackingService,
	recording RecordingService,
	redisCache Cache,
	log *logger.Logger,
) EmergencyService {
	return &emergencyService{
		cfg:          cfg,
		incidentRepo: incidentRepo,
		notifier:     notifier,
		dispatcher:   dispatcher,
		tracking:     tracking,
		recording:    recording,
		cache:        redisCache,
		logger:       log,
	}
}

func (s *emergencyService) TriggerSOS(ctx context.Context, req *models.SOSRequest) *models.SOSResponse {
	started := time.Now()

	incident, err := s.createIncident(ctx, req)
	if err != nil {
		s.logger.WithError(err).WithUserID(req.UserID).Error("SOS trigger failed before orchestration")
		return &models.SOSResponse{
			Status:    "FAILED",
			Message:   err.Error(),
			Timestamp: time.Now(),
		}
	}

	log := s.logger.WithIncidentID(incident.ID).WithIncidentNumber(incident.IncidentNumber)
	log.WithField("risk_score", incident.RiskScore).Info("Incident created, starting orchestration")

	s.writeStatusSnapshot(ctx, incident, nil)
	s.indexActiveIncident(ctx, incident)

	snapshot := s.orchestrate(ctx, incident, req)

	elapsed := time.Since(started)
	metrics := buildMetrics(snapshot.Actions, elapsed)

	s.writeStatusSnapshot(ctx, incident, metrics)
	s.publishEvent(utils.EventEmergencyTriggered, map[string]interface{}{
		"incident_id":     incident.ID.Hex(),
		"incident_number": incident.IncidentNumber,
		"type":            incident.Type,
		"priority":        incident.Priority,
		"risk_score":      incident.RiskScore,
		"quality_score":   metrics.ResponseQualityScore,
		"is_test":         incident.IsTestIncident,
	})

	log.WithFields(map[string]interface{}{
		"duration_ms":    elapsed.Milliseconds(),
		"actions_total":  len(snapshot.Actions),
		"actions_failed": metrics.FailedActions,
		"quality_score":  metrics.ResponseQualityScore,
	}).Info("Orchestration complete")

	return &models.SOSResponse{
		Status:               "SUCCESS",
		IncidentID:           incident.ID.Hex(),
		IncidentNumber:       incident.IncidentNumber,
		EstimatedResponseMin: EstimatedResponseMinutes(incident.Priority),
		ActionsTaken:         snapshot.Actions,
		ContactsNotified:     snapshot.Contacts,
		AuthoritiesContacted: snapshot.Authorities,
		TrackingInfo:         snapshot.Tracking,
		NextSteps:            buildNextSteps(incident, s.cfg.HelplineNumber),
		PerformanceMetrics:   metrics,
		Timestamp:            time.Now(),
	}
}

func (s *emergencyService) createIncident(ctx context.Context, req *models.SOSRequest) (*models.EmergencyIncident, error) {
	if !req.Location.IsValid() {
		return nil, ErrInvalidLocation
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityHigh
	}

	language := req.LanguagePreference
	if language == "" {
		language = utils.DefaultLanguage
	}

	incidentType := models.ParseIncidentType(req.EmergencyType)

	incident := &models.EmergencyIncident{
		IncidentNumber:     utils.GenerateIncidentNumber(time.Now()),
		UserID:             req.UserID,
		DriverID:           req.DriverID,
		TripID:             req.TripID,
		Type:               incidentType,
		Priority:           priority,
		Status:             models.IncidentStatusActive,
		Description:        req.Description,
		Location:           req.Location,
		RiskScore:          CalculateRiskScore(incidentType, priority, req.SafetyMode),
		LanguagePreference: language,
		SafetyMode:         req.SafetyMode,
		IsTestIncident:     req.IsTestSOS,
	}

	if err := s.incidentRepo.Create(ctx, incident); err != nil {
		return nil, fmt.Errorf("failed to persist incident: %w", err)
	}

	return incident, nil
}

// orchestrate fans the enabled actions out, waits until they all finish or
// the deadline fires, then seals the sink. Goroutines that miss the seal
// publish their result to the late channel; it is never merged.
func (s *emergencyService) orchestrate(ctx context.Context, incident *models.EmergencyIncident, req *models.SOSRequest) actionSnapshot {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.OrchestrationDeadline)
	defer cancel()

	sink := newActionSink()
	var wg sync.WaitGroup

	// The notify action wants the tracking URL in the SMS. The tracking
	// goroutine resolves it almost immediately; the channel is closed
	// unfilled when tracking is disabled or fails.
	trackingURL := make(chan string, 1)

	if req.StartLocationTracking {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runTrackingAction(runCtx, incident, req.TrackingDurationMin, sink, trackingURL)
		}()
	} else {
		close(trackingURL)
	}

	if req.NotifyContacts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url := <-trackingURL
			s.runNotifyAction(runCtx, incident, url, sink)
		}()
	}

	if req.AutoContactAuthorities {
		// A test activation never reaches real emergency services.
		if incident.IsTestIncident {
			sink.recordAction(models.ActionRecord{
				ActionType:  models.ActionAuthorityContact,
				Result:      models.ActionResultSkipped,
				Description: "Test activation, authority contact suppressed",
				Timestamp:   time.Now(),
			})
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.runAuthorityAction(runCtx, incident, sink)
			}()
		}
	}

	if req.StartAudioRecording {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runRecordingAction(runCtx, incident, sink)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-runCtx.Done():
		s.logger.WithIncidentID(incident.ID).
			WithField("deadline", s.cfg.OrchestrationDeadline.String()).
			Warn("Orchestration deadline reached, sealing results")
	}

	return sink.seal()
}

func (s *emergencyService) runNotifyAction(ctx context.Context, incident *models.EmergencyIncident, trackingURL string, sink *actionSink) {
	record := models.ActionRecord{
		ActionType: models.ActionContactNotification,
		Timestamp:  time.Now(),
	}

	notifications, err := s.notifier.NotifyContacts(ctx, incident, trackingURL)
	switch {
	case errors.Is(err, ErrNoContacts):
		record.Result = models.ActionResultFailed
		record.Description = "No enabled emergency contacts configured"
	case err != nil:
		record.Result = models.ActionResultFailed
		record.Description = "Contact notification failed"
		record.ErrorMessage = err.Error()
	default:
		sent := 0
		for _, n := range notifications {
			if n.Status == "SENT" {
				sent++
			}
		}
		record.Result = models.ActionResultSuccess
		record.Description = fmt.Sprintf("Notified %d of %d emergency contacts", sent, len(notifications))
		if sent == 0 {
			record.Result = models.ActionResultFailed
			record.Description = "All contact notifications failed"
		}
	}
	record.Timestamp = time.Now()

	accepted := sink.recordAction(record)
	if accepted && len(notifications) > 0 {
		sink.recordContacts(notifications)
	}
	if !accepted {
		s.publishLateResult(incident, record)
	}
}

func (s *emergencyService) runAuthorityAction(ctx context.Context, incident *models.EmergencyIncident, sink *actionSink) {
	record := models.ActionRecord{
		ActionType: models.ActionAuthorityContact,
		Timestamp:  time.Now(),
	}

	contacts, err := s.dispatcher.ContactAuthorities(ctx, incident)
	switch {
	case err != nil:
		record.Result = models.ActionResultFailed
		record.Description = "Authority dispatch failed"
		record.ErrorMessage = err.Error()
	case len(contacts) == 0:
		record.Result = models.ActionResultSuccess
		record.Description = "No authority dispatch required for this incident type"
	default:
		reached := 0
		for _, c := range contacts {
			if c.Status == "CONTACTED" {
				reached++
			}
		}
		record.Result = models.ActionResultSuccess
		record.Description = fmt.Sprintf("Contacted %d of %d emergency services", reached, len(contacts))
		if reached == 0 {
			record.Result = models.ActionResultFailed
			record.Description = "All authority calls failed"
		}
	}
	record.Timestamp = time.Now()

	accepted := sink.recordAction(record)
	if accepted && len(contacts) > 0 {
		sink.recordAuthorities(contacts)
	}
	if !accepted {
		s.publishLateResult(incident, record)
	}
}

func (s *emergencyService) runTrackingAction(ctx context.Context, incident *models.EmergencyIncident, durationMin int, sink *actionSink, trackingURL chan<- string) {
	record := models.ActionRecord{
		ActionType: models.ActionLocationTracking,
		Timestamp:  time.Now(),
	}

	info, err := s.tracking.StartTracking(ctx, incident, durationMin)
	if err != nil {
		close(trackingURL)
		record.Result = models.ActionResultFailed
		record.Description = "Location tracking failed to start"
		record.ErrorMessage = err.Error()
	} else {
		trackingURL <- info.TrackingURL
		close(trackingURL)
		record.Result = models.ActionResultSuccess
		record.Description = fmt.Sprintf("Live tracking active for %d minutes", info.DurationMinutes)
		record.Target = info.SessionID
	}
	record.Timestamp = time.Now()

	accepted := sink.recordAction(record)
	if accepted && info != nil {
		sink.recordTracking(info)
	}
	if !accepted {
		s.publishLateResult(incident, record)
	}
}

func (s *emergencyService) runRecordingAction(ctx context.Context, incident *models.EmergencyIncident, sink *actionSink) {
	record := models.ActionRecord{
		ActionType: models.ActionAudioRecording,
		Timestamp:  time.Now(),
	}

	info, err := s.recording.StartRecording(ctx, incident)
	if err != nil {
		record.Result = models.ActionResultFailed
		record.Description = "Audio recording failed to start"
		record.ErrorMessage = err.Error()
	} else {
		record.Result = models.ActionResultSuccess
		record.Description = fmt.Sprintf("Recording window open for %d minutes", info.MaxDurationMinutes)
		record.Target = info.RecordingID
	}
	record.Timestamp = time.Now()

	accepted := sink.recordAction(record)
	if accepted && info != nil {
		sink.recordRecording(info)
	}
	if !accepted {
		s.publishLateResult(incident, record)
	}
}

// publishLateResult hands a result that missed the seal to the audit
// stream. Late results are never merged into the response.
func (s *emergencyService) publishLateResult(incident *models.EmergencyIncident, record models.ActionRecord) {
	s.logger.WithIncidentID(incident.ID).
		WithField("action_type", string(record.ActionType)).
		WithField("result", string(record.Result)).
		Warn("Action finished after deadline, result dropped from response")

	s.publishEvent(utils.EventActionsLate, map[string]interface{}{
		"incident_id": incident.ID.Hex(),
		"action_type": record.ActionType,
		"result":      record.Result,
		"description": record.Description,
		"error":       record.ErrorMessage,
	})
}

// publishEvent is fire and forget: a slow broker must never block or fail
// an emergency response.
func (s *emergencyService) publishEvent(channel string, payload map[string]interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.cache.Publish(ctx, channel, payload); err != nil {
			s.logger.WithError(err).WithField("channel", channel).Warn("Event publish failed")
		}
	}()
}

func buildMetrics(actions []models.ActionRecord, elapsed time.Duration) *models.PerformanceMetrics {
	successful, failed := 0, 0
	for _, a := range actions {
		switch a.Result {
		case models.ActionResultSuccess:
			successful++
		case models.ActionResultFailed:
			failed++
		}
	}

	// Skipped actions are neither attempted nor failed.
	rate := 0.0
	if attempted := successful + failed; attempted > 0 {
		rate = float64(successful) / float64(attempted) * 100
	}

	return &models.PerformanceMetrics{
		TotalProcessingTimeMs: elapsed.Milliseconds(),
		SuccessfulActions:     successful,
		FailedActions:         failed,
		SuccessRate:           rate,
		ResponseQualityScore:  CalculateQualityScore(elapsed, failed),
	}
}

func (s *emergencyService) GetIncident(ctx context.Context, incidentID string) (*models.EmergencyIncident, error) {
	id, err := primitive.ObjectIDFromHex(incidentID)
	if err != nil {
		return nil, fmt.Errorf("invalid incident id: %w", err)
	}

	return s.incidentRepo.GetByID(ctx, id)
}

// GetIncidentStatus reads the live status snapshot. The snapshot carries a
// TTL, so a missing key for a known incident means it aged out; fall back
// to the database in that case.
func (s *emergencyService) GetIncidentStatus(ctx context.Context, incidentID string) (map[string]string, error) {
	status, err := s.cache.HGetAll(ctx, utils.CacheIncidentStatusPrefix+incidentID)
	if err == nil && len(status) > 0 {
		return status, nil
	}

	incident, err := s.GetIncident(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"incident_id":     incident.ID.Hex(),
		"incident_number": incident.IncidentNumber,
		"status":          string(incident.Status),
		"priority":        string(incident.Priority),
		"risk_score":      fmt.Sprintf("%d", incident.RiskScore),
		"updated_at":      incident.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *emergencyService) ResolveIncident(ctx context.Context, incidentID, resolvedBy, notes string) error {
	incident, err := s.requireNonTerminal(ctx, incidentID)
	if err != nil {
		return err
	}

	if err := s.incidentRepo.Resolve(ctx, incident.ID, resolvedBy, notes); err != nil {
		return err
	}

	s.finishIncident(ctx, incident, models.IncidentStatusResolved)
	s.publishEvent(utils.EventEmergencyResolved, map[string]interface{}{
		"incident_id": incident.ID.Hex(),
		"resolved_by": resolvedBy,
	})

	return nil
}

func (s *emergencyService) CancelIncident(ctx context.Context, incidentID, cancelledBy, reason string) error {
	incident, err := s.requireNonTerminal(ctx, incidentID)
	if err != nil {
		return err
	}

	if err := s.incidentRepo.Cancel(ctx, incident.ID, cancelledBy, reason); err != nil {
		return err
	}

	s.finishIncident(ctx, incident, models.IncidentStatusCancelled)
	s.publishEvent(utils.EventEmergencyCancelled, map[string]interface{}{
		"incident_id":  incident.ID.Hex(),
		"cancelled_by": cancelledBy,
	})

	return nil
}

func (s *emergencyService) ListUserIncidents(ctx context.Context, userID string, limit, offset int) ([]*models.EmergencyIncident, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.incidentRepo.GetByUserID(ctx, userID, limit, offset)
}

func (s *emergencyService) requireNonTerminal(ctx context.Context, incidentID string) (*models.EmergencyIncident, error) {
	incident, err := s.GetIncident(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	if incident.Status.IsTerminal() {
		return nil, ErrIncidentTerminal
	}

	return incident, nil
}

func (s *emergencyService) finishIncident(ctx context.Context, incident *models.EmergencyIncident, status models.IncidentStatus) {
	s.tracking.StopByIncident(ctx, incident.ID.Hex())

	key := utils.CacheIncidentStatusPrefix + incident.ID.Hex()
	if err := s.cache.HSet(ctx, key, map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		s.logger.WithError(err).WithIncidentID(incident.ID).Warn("Failed to update status snapshot")
	}

	if err := s.cache.SRem(ctx, activeIncidentsSetPrefix+incident.UserID, incident.ID.Hex()); err != nil {
		s.logger.WithError(err).WithIncidentID(incident.ID).Warn("Failed to deindex active incident")
	}
}

func (s *emergencyService) writeStatusSnapshot(ctx context.Context, incident *models.EmergencyIncident, metrics *models.PerformanceMetrics) {
	key := utils.CacheIncidentStatusPrefix + incident.ID.Hex()

	fields := map[string]interface{}{
		"incident_id":     incident.ID.Hex(),
		"incident_number": incident.IncidentNumber,
		"status":          string(incident.Status),
		"priority":        string(incident.Priority),
		"type":            string(incident.Type),
		"risk_score":      incident.RiskScore,
		"updated_at":      time.Now().UTC().Format(time.RFC3339),
	}

	if metrics != nil {
		fields["successful_actions"] = metrics.SuccessfulActions
		fields["failed_actions"] = metrics.FailedActions
		fields["quality_score"] = metrics.ResponseQualityScore
		fields["processing_time_ms"] = metrics.TotalProcessingTimeMs
	}

	if err := s.cache.HSet(ctx, key, fields); err != nil {
		s.logger.WithError(err).WithIncidentID(incident.ID).Warn("Failed to write status snapshot")
		return
	}

	if err := s.cache.SetExpire(ctx, key, s.cfg.StatusCacheTTL); err != nil {
		s.logger.WithError(err).WithIncidentID(incident.ID).Warn("Failed to set status snapshot TTL")
	}
}

func (s *emergencyService) indexActiveIncident(ctx context.Context, incident *models.EmergencyIncident) {
	if err := s.cache.SAdd(ctx, activeIncidentsSetPrefix+incident.UserID, incident.ID.Hex()); err != nil {
		s.logger.WithError(err).WithIncidentID(incident.ID).Warn("Failed to index active incident")
	}
}
