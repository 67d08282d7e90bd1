package services

import (
	"context"
	"fmt"

	"rideguard/internal/models"
	"rideguard/internal/repositories/interfaces"
	"rideguard/internal/utils"
	"rideguard/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxContactsPerUser = 10

// ContactService manages the user's emergency contact list.
type ContactService interface {
	AddContact(ctx context.Context, contact *models.EmergencyContact) error
	UpdateContact(ctx context.Context, userID, contactID string, updates map[string]interface{}) error
	DeleteContact(ctx context.Context, userID, contactID string) error
	ListContacts(ctx context.Context, userID string) ([]*models.EmergencyContact, error)
}

type contactService struct {
	contactRepo interfaces.ContactRepository
	logger      *logger.Logger
}

func NewContactService(contactRepo interfaces.ContactRepository, log *logger.Logger) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		logger:      log,
	}
}

func (c *contactService) AddContact(ctx context.Context, contact *models.EmergencyContact) error {
	if contact.UserID == "" || contact.ContactName == "" {
		return fmt.Errorf("user id and contact name are required")
	}

	contact.PhoneNumber = utils.NormalizePhone(contact.PhoneNumber)
	if !utils.IsValidPhone(contact.PhoneNumber) {
		return fmt.Errorf("invalid phone number")
	}

	count, err := c.contactRepo.CountByUser(ctx, contact.UserID)
	if err != nil {
		return err
	}
	if count >= maxContactsPerUser {
		return fmt.Errorf("contact limit reached (%d)", maxContactsPerUser)
	}

	if contact.PriorityRank <= 0 {
		contact.PriorityRank = int(count) + 1
	}
	contact.IsEnabled = true

	if err := c.contactRepo.Create(ctx, contact); err != nil {
		return err
	}

	c.logger.WithUserID(contact.UserID).
		WithField("contact_id", contact.ID.Hex()).
		Info("Emergency contact added")

	return nil
}

func (c *contactService) UpdateContact(ctx context.Context, userID, contactID string, updates map[string]interface{}) error {
	id, err := c.ownedContact(ctx, userID, contactID)
	if err != nil {
		return err
	}

	if phone, ok := updates["phone_number"].(string); ok {
		normalized := utils.NormalizePhone(phone)
		if !utils.IsValidPhone(normalized) {
			return fmt.Errorf("invalid phone number")
		}
		updates["phone_number"] = normalized
	}

	return c.contactRepo.Update(ctx, id, updates)
}

func (c *contactService) DeleteContact(ctx context.Context, userID, contactID string) error {
	id, err := c.ownedContact(ctx, userID, contactID)
	if err != nil {
		return err
	}

	return c.contactRepo.Delete(ctx, id)
}

func (c *contactService) ListContacts(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	return c.contactRepo.GetByUserID(ctx, userID)
}

func (c *contactService) ownedContact(ctx context.Context, userID, contactID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(contactID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid contact id: %w", err)
	}

	contact, err := c.contactRepo.GetByID(ctx, id)
	if err != nil {
		return primitive.NilObjectID, err
	}

	if contact.UserID != userID {
		return primitive.NilObjectID, fmt.Errorf("contact not found")
	}

	return id, nil
}
