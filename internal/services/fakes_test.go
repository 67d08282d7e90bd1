package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"rideguard/internal/models"
	"rideguard/pkg/logger"
	"rideguard/pkg/maps"
	"rideguard/pkg/push"
	"rideguard/pkg/sms"
	"rideguard/pkg/storage"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *logger.Logger {
	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.ErrorLevel,
		Format: "text",
		Output: "stdout",
	})
	if err != nil {
		panic(err)
	}
	return log
}

// fakeCache is an in-memory stand-in for the Redis client. Publishes are
// recorded per channel so tests can assert on the event stream.
type fakeCache struct {
	mu        sync.Mutex
	values    map[string][]byte
	hashes    map[string]map[string]string
	sets      map[string]map[string]struct{}
	published map[string][]interface{}
	geoAdds   int
	failAll   bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		values:    make(map[string][]byte),
		hashes:    make(map[string]map[string]string),
		sets:      make(map[string]map[string]struct{}),
		published: make(map[string][]interface{}),
	}
}

var errFakeCache = errors.New("cache unavailable")

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeCache
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = data
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeCache
	}
	data, ok := f.values[key]
	if !ok {
		return errors.New("key not found")
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
		delete(f.hashes, key)
		delete(f.sets, key)
	}
	return nil
}

func (f *fakeCache) SetExpire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}

func (f *fakeCache) HSet(ctx context.Context, key string, values map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeCache
	}
	hash, ok := f.hashes[key]
	if !ok {
		hash = make(map[string]string)
		f.hashes[key] = hash
	}
	for field, value := range values {
		data, _ := json.Marshal(value)
		hash[field] = string(data)
	}
	return nil
}

func (f *fakeCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeCache
	}
	hash := make(map[string]string, len(f.hashes[key]))
	for field, value := range f.hashes[key] {
		hash[field] = value
	}
	return hash, nil
}

func (f *fakeCache) SAdd(ctx context.Context, key string, members ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[key]
	if !ok {
		set = make(map[string]struct{})
		f.sets[key] = set
	}
	for _, member := range members {
		set[member.(string)] = struct{}{}
	}
	return nil
}

func (f *fakeCache) SMembers(ctx context.Context, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var members []string
	for member := range f.sets[key] {
		members = append(members, member)
	}
	return members, nil
}

func (f *fakeCache) SRem(ctx context.Context, key string, members ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, member := range members {
		delete(f.sets[key], member.(string))
	}
	return nil
}

func (f *fakeCache) GeoAdd(ctx context.Context, key string, geoLocation *redis.GeoLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geoAdds++
	return nil
}

func (f *fakeCache) geoAddCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.geoAdds
}

func (f *fakeCache) Publish(ctx context.Context, channel string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[channel] = append(f.published[channel], message)
	return nil
}

func (f *fakeCache) publishedOn(channel string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published[channel])
}

// fakeIncidentRepo keeps incidents in a map keyed by hex id.
type fakeIncidentRepo struct {
	mu        sync.Mutex
	incidents map[string]*models.EmergencyIncident
	createErr error
}

func newFakeIncidentRepo() *fakeIncidentRepo {
	return &fakeIncidentRepo{incidents: make(map[string]*models.EmergencyIncident)}
}

func (f *fakeIncidentRepo) Create(ctx context.Context, incident *models.EmergencyIncident) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if incident.ID.IsZero() {
		incident.ID = primitive.NewObjectID()
	}
	incident.CreatedAt = time.Now()
	incident.UpdatedAt = incident.CreatedAt
	f.incidents[incident.ID.Hex()] = incident
	return nil
}

func (f *fakeIncidentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyIncident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	incident, ok := f.incidents[id.Hex()]
	if !ok {
		return nil, errors.New("incident not found")
	}
	copied := *incident
	return &copied, nil
}

func (f *fakeIncidentRepo) GetByIncidentNumber(ctx context.Context, number string) (*models.EmergencyIncident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, incident := range f.incidents {
		if incident.IncidentNumber == number {
			copied := *incident
			return &copied, nil
		}
	}
	return nil, errors.New("incident not found")
}

func (f *fakeIncidentRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (f *fakeIncidentRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.IncidentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	incident, ok := f.incidents[id.Hex()]
	if !ok {
		return errors.New("incident not found")
	}
	incident.Status = status
	return nil
}

func (f *fakeIncidentRepo) Resolve(ctx context.Context, id primitive.ObjectID, resolvedBy, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	incident, ok := f.incidents[id.Hex()]
	if !ok {
		return errors.New("incident not found")
	}
	incident.Status = models.IncidentStatusResolved
	incident.ResolvedBy = resolvedBy
	incident.ResolutionNotes = notes
	return nil
}

func (f *fakeIncidentRepo) Cancel(ctx context.Context, id primitive.ObjectID, cancelledBy, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	incident, ok := f.incidents[id.Hex()]
	if !ok {
		return errors.New("incident not found")
	}
	incident.Status = models.IncidentStatusCancelled
	incident.ResolvedBy = cancelledBy
	incident.ResolutionNotes = reason
	return nil
}

func (f *fakeIncidentRepo) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.EmergencyIncident, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.EmergencyIncident
	for _, incident := range f.incidents {
		if incident.UserID == userID {
			copied := *incident
			result = append(result, &copied)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeIncidentRepo) GetActiveByUser(ctx context.Context, userID string) ([]*models.EmergencyIncident, error) {
	return nil, nil
}

func (f *fakeIncidentRepo) GetActiveIncidents(ctx context.Context) ([]*models.EmergencyIncident, error) {
	return nil, nil
}

func (f *fakeIncidentRepo) GetRecentIncidents(ctx context.Context, since time.Duration) ([]*models.EmergencyIncident, error) {
	return nil, nil
}

// fakeContactRepo serves a fixed contact list.
type fakeContactRepo struct {
	contacts []*models.EmergencyContact
	err      error
}

func (f *fakeContactRepo) Create(ctx context.Context, contact *models.EmergencyContact) error {
	if contact.ID.IsZero() {
		contact.ID = primitive.NewObjectID()
	}
	f.contacts = append(f.contacts, contact)
	return nil
}

func (f *fakeContactRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyContact, error) {
	for _, contact := range f.contacts {
		if contact.ID == id {
			return contact, nil
		}
	}
	return nil, errors.New("contact not found")
}

func (f *fakeContactRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (f *fakeContactRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

func (f *fakeContactRepo) GetEnabledByUser(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	if f.err != nil {
		return nil, f.err
	}
	var enabled []*models.EmergencyContact
	for _, contact := range f.contacts {
		if contact.UserID == userID && contact.IsEnabled {
			enabled = append(enabled, contact)
		}
	}
	return enabled, nil
}

func (f *fakeContactRepo) GetByUserID(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	return f.contacts, nil
}

func (f *fakeContactRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	return int64(len(f.contacts)), nil
}

// fakeSMSProvider counts calls and fails a configurable number of times.
type fakeSMSProvider struct {
	mu           sync.Mutex
	smsAttempts  int
	callAttempts int
	failSMSTimes int
	failCalls    bool
}

func (f *fakeSMSProvider) SendSMS(ctx context.Context, request *sms.SMSRequest) (*sms.SMSResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.smsAttempts++
	if f.failSMSTimes > 0 {
		f.failSMSTimes--
		return nil, errors.New("sms gateway unavailable")
	}
	return &sms.SMSResponse{MessageID: "SM123", Status: "queued"}, nil
}

func (f *fakeSMSProvider) SendBulkSMS(ctx context.Context, requests []*sms.SMSRequest) ([]*sms.SMSResponse, error) {
	return nil, nil
}

func (f *fakeSMSProvider) PlaceCall(ctx context.Context, request *sms.CallRequest) (*sms.CallResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callAttempts++
	if f.failCalls {
		return nil, errors.New("voice gateway unavailable")
	}
	return &sms.CallResponse{CallID: "CA456", Status: "queued"}, nil
}

func (f *fakeSMSProvider) GetDeliveryStatus(ctx context.Context, messageID string) (*sms.DeliveryStatus, error) {
	return &sms.DeliveryStatus{MessageID: messageID, Status: "delivered"}, nil
}

type fakePushProvider struct {
	mu      sync.Mutex
	sent    []*push.NotificationRequest
	failAll bool
}

func (f *fakePushProvider) SendNotification(ctx context.Context, request *push.NotificationRequest) (*push.NotificationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("push gateway unavailable")
	}
	f.sent = append(f.sent, request)
	return &push.NotificationResponse{MessageID: "PN789", Success: true}, nil
}

func (f *fakePushProvider) SendBulkNotifications(ctx context.Context, requests []*push.NotificationRequest) ([]*push.NotificationResponse, error) {
	return nil, nil
}

func (f *fakePushProvider) ValidateToken(ctx context.Context, token string) (bool, error) {
	return true, nil
}

type fakeMapsProvider struct {
	country *maps.CountryInfo
	err     error
}

func (f *fakeMapsProvider) Geocode(ctx context.Context, address string) (*maps.GeocodeResponse, error) {
	return &maps.GeocodeResponse{}, nil
}

func (f *fakeMapsProvider) ReverseGeocode(ctx context.Context, request *maps.ReverseGeocodeRequest) (*maps.GeocodeResponse, error) {
	return &maps.GeocodeResponse{}, nil
}

func (f *fakeMapsProvider) ResolveCountry(ctx context.Context, lat, lng float64) (*maps.CountryInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.country, nil
}

// Orchestrator collaborator fakes. Each can delay to simulate a slow
// gateway and fail on demand.

type fakeNotifier struct {
	delay         time.Duration
	err           error
	notifications []models.ContactNotification
}

func (f *fakeNotifier) NotifyContacts(ctx context.Context, incident *models.EmergencyIncident, trackingURL string) ([]models.ContactNotification, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.notifications, nil
}

type fakeDispatcher struct {
	delay    time.Duration
	err      error
	contacts []models.AuthorityContact
	calls    int
}

func (f *fakeDispatcher) ContactAuthorities(ctx context.Context, incident *models.EmergencyIncident) ([]models.AuthorityContact, error) {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.contacts, nil
}

func (f *fakeDispatcher) RequiredServices(incidentType models.IncidentType) []string {
	return nil
}

type fakeTracking struct {
	delay   time.Duration
	err     error
	info    *models.TrackingInfo
	stopped int
}

func (f *fakeTracking) StartTracking(ctx context.Context, incident *models.EmergencyIncident, durationMinutes int) (*models.TrackingInfo, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

func (f *fakeTracking) UpdateLocation(ctx context.Context, update *models.LocationUpdate) bool {
	return false
}

func (f *fakeTracking) StopTracking(ctx context.Context, sessionID string) bool { return false }

func (f *fakeTracking) StopByIncident(ctx context.Context, incidentID string) int {
	f.stopped++
	return f.stopped
}

func (f *fakeTracking) GetSession(sessionID string) (*models.TrackingSession, bool) {
	return nil, false
}

func (f *fakeTracking) ActiveSessionCount() int { return 0 }

func (f *fakeTracking) Run(ctx context.Context) {}

type fakeRecording struct {
	delay time.Duration
	err   error
	info  *models.RecordingInfo
}

func (f *fakeRecording) StartRecording(ctx context.Context, incident *models.EmergencyIncident) (*models.RecordingInfo, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

func (f *fakeRecording) StopRecording(ctx context.Context, incidentID string) error { return nil }

func (f *fakeRecording) GetRecordingDownloadURL(ctx context.Context, incidentID string) (string, error) {
	return "", nil
}

type fakeStorage struct {
	mu         sync.Mutex
	presigned  []string
	fileExists bool
	presignErr error
}

func (f *fakeStorage) PresignUpload(ctx context.Context, request *storage.PresignRequest) (*storage.PresignedURL, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	f.presigned = append(f.presigned, request.Key)
	return &storage.PresignedURL{
		URL:       "https://bucket.s3.amazonaws.com/" + request.Key,
		Method:    "PUT",
		Key:       request.Key,
		ExpiresAt: time.Now().Add(request.Expiration),
	}, nil
}

func (f *fakeStorage) PresignDownload(ctx context.Context, key string, expiration time.Duration) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{
		URL:       "https://bucket.s3.amazonaws.com/" + key + "?download",
		Method:    "GET",
		Key:       key,
		ExpiresAt: time.Now().Add(expiration),
	}, nil
}

func (f *fakeStorage) FileExists(ctx context.Context, key string) (bool, error) {
	return f.fileExists, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	return nil
}
