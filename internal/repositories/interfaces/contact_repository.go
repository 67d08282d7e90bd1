package interfaces

import (
	"context"

	"rideguard/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *models.EmergencyContact) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyContact, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// GetEnabledByUser returns enabled contacts ordered by priority rank.
	GetEnabledByUser(ctx context.Context, userID string) ([]*models.EmergencyContact, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.EmergencyContact, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
