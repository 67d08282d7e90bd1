package services

import (
	"sync"

	"rideguard/internal/models"
)

// actionSink collects fan-out results under one mutex. Once sealed it
// refuses every write; late action goroutines learn this from the return
// value and hand their result to the late-event path instead. The sealed
// snapshot is the only data the response is ever built from.
type actionSink struct {
	mu     sync.Mutex
	sealed bool

	actions     []models.ActionRecord
	contacts    []models.ContactNotification
	authorities []models.AuthorityContact
	tracking    *models.TrackingInfo
	recording   *models.RecordingInfo
}

type actionSnapshot struct {
	Actions     []models.ActionRecord
	Contacts    []models.ContactNotification
	Authorities []models.AuthorityContact
	Tracking    *models.TrackingInfo
	Recording   *models.RecordingInfo
}

func newActionSink() *actionSink {
	return &actionSink{}
}

func (s *actionSink) recordAction(record models.ActionRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return false
	}
	s.actions = append(s.actions, record)
	return true
}

func (s *actionSink) recordContacts(notifications []models.ContactNotification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return false
	}
	s.contacts = append(s.contacts, notifications...)
	return true
}

func (s *actionSink) recordAuthorities(contacts []models.AuthorityContact) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return false
	}
	s.authorities = append(s.authorities, contacts...)
	return true
}

func (s *actionSink) recordTracking(info *models.TrackingInfo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return false
	}
	s.tracking = info
	return true
}

func (s *actionSink) recordRecording(info *models.RecordingInfo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return false
	}
	s.recording = info
	return true
}

// seal closes the sink and returns a copy of everything collected so far.
// Sealing twice returns the same data.
func (s *actionSink) seal() actionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sealed = true

	snapshot := actionSnapshot{
		Actions:     make([]models.ActionRecord, len(s.actions)),
		Contacts:    make([]models.ContactNotification, len(s.contacts)),
		Authorities: make([]models.AuthorityContact, len(s.authorities)),
		Tracking:    s.tracking,
		Recording:   s.recording,
	}
	copy(snapshot.Actions, s.actions)
	copy(snapshot.Contacts, s.contacts)
	copy(snapshot.Authorities, s.authorities)

	return snapshot
}
