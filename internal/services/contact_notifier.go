package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rideguard/internal/models"
	"rideguard/internal/repositories/interfaces"
	"rideguard/pkg/logger"
	"rideguard/pkg/push"
	"rideguard/pkg/retry"
	"rideguard/pkg/sms"
)

var ErrNoContacts = errors.New("no enabled emergency contacts")

const pushTokenKeyPrefix = "push:tokens:"

// ContactNotifier alerts the user's emergency contacts. SMS is the primary
// channel; push is the fallback when SMS delivery fails and the contact has
// the app installed.
type ContactNotifier interface {
	NotifyContacts(ctx context.Context, incident *models.EmergencyIncident, trackingURL string) ([]models.ContactNotification, error)
}

type contactNotifier struct {
	contactRepo  interfaces.ContactRepository
	smsProvider  sms.SMSProvider
	pushProvider push.PushProvider
	cache        Cache
	retryConfig  retry.Config
	logger       *logger.Logger
}

func NewContactNotifier(
	contactRepo interfaces.ContactRepository,
	smsProvider sms.SMSProvider,
	pushProvider push.PushProvider,
	redisCache Cache,
	retryConfig retry.Config,
	log *logger.Logger,
) ContactNotifier {
	return &contactNotifier{
		contactRepo:  contactRepo,
		smsProvider:  smsProvider,
		pushProvider: pushProvider,
		cache:        redisCache,
		retryConfig:  retryConfig,
		logger:       log,
	}
}

func (n *contactNotifier) NotifyContacts(ctx context.Context, incident *models.EmergencyIncident, trackingURL string) ([]models.ContactNotification, error) {
	contacts, err := n.contactRepo.GetEnabledByUser(ctx, incident.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load emergency contacts: %w", err)
	}
	if len(contacts) == 0 {
		return nil, ErrNoContacts
	}

	message := contactAlertMessage(incident, trackingURL)

	notifications := make([]models.ContactNotification, 0, len(contacts))
	for _, contact := range contacts {
		notifications = append(notifications, n.notifyOne(ctx, incident, contact, message))
	}

	return notifications, nil
}

func (n *contactNotifier) notifyOne(ctx context.Context, incident *models.EmergencyIncident, contact *models.EmergencyContact, message string) models.ContactNotification {
	notification := models.ContactNotification{
		ContactID:    contact.ID.Hex(),
		ContactName:  contact.ContactName,
		ContactPhone: contact.PhoneNumber,
		Relationship: contact.Relationship,
		Method:       "SMS",
		SentAt:       time.Now(),
	}

	var smsResp *sms.SMSResponse
	err := retry.Do(ctx, n.retryConfig, func() error {
		var sendErr error
		smsResp, sendErr = n.smsProvider.SendSMS(ctx, &sms.SMSRequest{
			To:      contact.PhoneNumber,
			Message: message,
			Type:    "emergency",
		})
		return sendErr
	})

	if err == nil {
		notification.Status = "SENT"
		if smsResp != nil {
			notification.MessageSID = smsResp.MessageID
		}
		return notification
	}

	n.logger.WithIncidentID(incident.ID).WithError(err).
		WithField("contact_id", contact.ID.Hex()).
		Warn("SMS delivery failed, trying push fallback")

	if pushed, msgID := n.pushFallback(ctx, incident, contact); pushed {
		notification.Method = "PUSH"
		notification.Status = "SENT"
		notification.MessageSID = msgID
		notification.SentAt = time.Now()
		return notification
	}

	notification.Status = "FAILED"
	notification.ErrorDetails = err.Error()
	return notification
}

func (n *contactNotifier) pushFallback(ctx context.Context, incident *models.EmergencyIncident, contact *models.EmergencyContact) (bool, string) {
	if contact.ContactUser == "" || n.pushProvider == nil {
		return false, ""
	}

	tokens, err := n.cache.SMembers(ctx, pushTokenKeyPrefix+contact.ContactUser)
	if err != nil || len(tokens) == 0 {
		return false, ""
	}

	for _, deviceToken := range tokens {
		resp, err := n.pushProvider.SendNotification(ctx, &push.NotificationRequest{
			Token:    deviceToken,
			Title:    contactPushTitle(incident),
			Body:     contactAlertMessage(incident, ""),
			Priority: "high",
			Critical: true,
			Data: map[string]string{
				"incident_id":     incident.ID.Hex(),
				"incident_number": incident.IncidentNumber,
				"type":            "EMERGENCY_ALERT",
			},
		})
		if err == nil && resp.Success {
			return true, resp.MessageID
		}
	}

	return false, ""
}
