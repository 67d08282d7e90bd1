package interfaces

import (
	"context"
	"time"

	"rideguard/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IncidentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, incident *models.EmergencyIncident) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyIncident, error)
	GetByIncidentNumber(ctx context.Context, number string) (*models.EmergencyIncident, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Status operations
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.IncidentStatus) error
	Resolve(ctx context.Context, id primitive.ObjectID, resolvedBy, notes string) error
	Cancel(ctx context.Context, id primitive.ObjectID, cancelledBy, reason string) error

	// User incidents
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.EmergencyIncident, int64, error)
	GetActiveByUser(ctx context.Context, userID string) ([]*models.EmergencyIncident, error)

	// Operational queries
	GetActiveIncidents(ctx context.Context) ([]*models.EmergencyIncident, error)
	GetRecentIncidents(ctx context.Context, since time.Duration) ([]*models.EmergencyIncident, error)
}
