package services

import (
	"context"
	"testing"

	"rideguard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddContact(t *testing.T) {
	repo := &fakeContactRepo{}
	service := NewContactService(repo, testLogger())

	contact := &models.EmergencyContact{
		UserID:      "user-1",
		ContactName: "Ayse",
		PhoneNumber: "+90 555 111 22 33",
	}

	require.NoError(t, service.AddContact(context.Background(), contact))
	assert.Equal(t, "+905551112233", contact.PhoneNumber)
	assert.Equal(t, 1, contact.PriorityRank)
	assert.True(t, contact.IsEnabled)
}

func TestAddContactInvalidPhone(t *testing.T) {
	service := NewContactService(&fakeContactRepo{}, testLogger())

	err := service.AddContact(context.Background(), &models.EmergencyContact{
		UserID:      "user-1",
		ContactName: "Ayse",
		PhoneNumber: "not-a-number",
	})
	assert.Error(t, err)
}

func TestAddContactMissingName(t *testing.T) {
	service := NewContactService(&fakeContactRepo{}, testLogger())

	err := service.AddContact(context.Background(), &models.EmergencyContact{
		UserID:      "user-1",
		PhoneNumber: "+905551112233",
	})
	assert.Error(t, err)
}

func TestAddContactLimit(t *testing.T) {
	repo := &fakeContactRepo{}
	for i := 0; i < maxContactsPerUser; i++ {
		repo.contacts = append(repo.contacts, enabledContact("user-1", "Contact"))
	}
	service := NewContactService(repo, testLogger())

	err := service.AddContact(context.Background(), &models.EmergencyContact{
		UserID:      "user-1",
		ContactName: "One Too Many",
		PhoneNumber: "+905551112233",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestUpdateContactOwnership(t *testing.T) {
	owned := enabledContact("user-1", "Ayse")
	repo := &fakeContactRepo{contacts: []*models.EmergencyContact{owned}}
	service := NewContactService(repo, testLogger())

	// Another user cannot touch the contact.
	err := service.UpdateContact(context.Background(), "user-2", owned.ID.Hex(), map[string]interface{}{
		"contact_name": "Hacked",
	})
	assert.Error(t, err)

	// The owner can.
	err = service.UpdateContact(context.Background(), "user-1", owned.ID.Hex(), map[string]interface{}{
		"contact_name": "Ayse Y.",
	})
	assert.NoError(t, err)
}

func TestUpdateContactNormalizesPhone(t *testing.T) {
	owned := enabledContact("user-1", "Ayse")
	repo := &fakeContactRepo{contacts: []*models.EmergencyContact{owned}}
	service := NewContactService(repo, testLogger())

	updates := map[string]interface{}{"phone_number": "+90 (555) 999-88-77"}
	require.NoError(t, service.UpdateContact(context.Background(), "user-1", owned.ID.Hex(), updates))
	assert.Equal(t, "+905559998877", updates["phone_number"])
}

func TestDeleteContactInvalidID(t *testing.T) {
	service := NewContactService(&fakeContactRepo{}, testLogger())

	err := service.DeleteContact(context.Background(), "user-1", "not-hex")
	assert.Error(t, err)

	err = service.DeleteContact(context.Background(), "user-1", primitive.NewObjectID().Hex())
	assert.Error(t, err)
}
