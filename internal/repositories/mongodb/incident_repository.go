package mongodb

import (
	"context"
	"fmt"
	"time"

	"rideguard/internal/models"
	"rideguard/internal/repositories/interfaces"
	"rideguard/internal/utils"
	"rideguard/pkg/cache"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type incidentRepository struct {
	collection *mongo.Collection
	cache      *cache.RedisCache
}

func NewIncidentRepository(db *mongo.Database, redisCache *cache.RedisCache) interfaces.IncidentRepository {
	return &incidentRepository{
		collection: db.Collection(utils.CollectionIncidents),
		cache:      redisCache,
	}
}

func (r *incidentRepository) Create(ctx context.Context, incident *models.EmergencyIncident) error {
	if incident.ID.IsZero() {
		incident.ID = primitive.NewObjectID()
	}
	incident.CreatedAt = time.Now()
	incident.UpdatedAt = incident.CreatedAt

	_, err := r.collection.InsertOne(ctx, incident)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}

	if incident.Status == models.IncidentStatusActive {
		r.cacheIncident(ctx, incident)
	}

	return nil
}

func (r *incidentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyIncident, error) {
	if incident := r.getIncidentFromCache(ctx, id.Hex()); incident != nil {
		return incident, nil
	}

	var incident models.EmergencyIncident
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&incident)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("incident not found")
		}
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	if incident.Status == models.IncidentStatusActive {
		r.cacheIncident(ctx, &incident)
	}

	return &incident, nil
}

func (r *incidentRepository) GetByIncidentNumber(ctx context.Context, number string) (*models.EmergencyIncident, error) {
	var incident models.EmergencyIncident
	err := r.collection.FindOne(ctx, bson.M{"incident_number": number}).Decode(&incident)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("incident not found")
		}
		return nil, fmt.Errorf("failed to get incident by number: %w", err)
	}

	return &incident, nil
}

func (r *incidentRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}

	r.invalidateIncidentCache(ctx, id.Hex())

	return nil
}

func (r *incidentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.IncidentStatus) error {
	return r.Update(ctx, id, map[string]interface{}{
		"status": status,
	})
}

func (r *incidentRepository) Resolve(ctx context.Context, id primitive.ObjectID, resolvedBy, notes string) error {
	now := time.Now()
	return r.Update(ctx, id, map[string]interface{}{
		"status":           models.IncidentStatusResolved,
		"resolved_by":      resolvedBy,
		"resolution_notes": notes,
		"resolved_at":      now,
	})
}

func (r *incidentRepository) Cancel(ctx context.Context, id primitive.ObjectID, cancelledBy, reason string) error {
	now := time.Now()
	return r.Update(ctx, id, map[string]interface{}{
		"status":           models.IncidentStatusCancelled,
		"resolved_by":      cancelledBy,
		"resolution_notes": reason,
		"resolved_at":      now,
	})
}

func (r *incidentRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.EmergencyIncident, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count incidents: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	incidents, err := r.findIncidents(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	return incidents, total, nil
}

func (r *incidentRepository) GetActiveByUser(ctx context.Context, userID string) ([]*models.EmergencyIncident, error) {
	filter := bson.M{
		"user_id": userID,
		"status":  models.IncidentStatusActive,
	}

	return r.findIncidents(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *incidentRepository) GetActiveIncidents(ctx context.Context) ([]*models.EmergencyIncident, error) {
	filter := bson.M{"status": models.IncidentStatusActive}
	return r.findIncidents(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *incidentRepository) GetRecentIncidents(ctx context.Context, since time.Duration) ([]*models.EmergencyIncident, error) {
	filter := bson.M{
		"created_at": bson.M{"$gte": time.Now().Add(-since)},
	}

	return r.findIncidents(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *incidentRepository) findIncidents(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.EmergencyIncident, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find incidents: %w", err)
	}
	defer cursor.Close(ctx)

	var incidents []*models.EmergencyIncident
	for cursor.Next(ctx) {
		var incident models.EmergencyIncident
		if err := cursor.Decode(&incident); err != nil {
			return nil, fmt.Errorf("failed to decode incident: %w", err)
		}
		incidents = append(incidents, &incident)
	}

	return incidents, nil
}

func (r *incidentRepository) cacheIncident(ctx context.Context, incident *models.EmergencyIncident) {
	if r.cache == nil {
		return
	}

	key := "incident:" + incident.ID.Hex()
	_ = r.cache.Set(ctx, key, incident, 30*time.Minute)
}

func (r *incidentRepository) getIncidentFromCache(ctx context.Context, id string) *models.EmergencyIncident {
	if r.cache == nil {
		return nil
	}

	var incident models.EmergencyIncident
	if err := r.cache.Get(ctx, "incident:"+id, &incident); err != nil {
		return nil
	}

	return &incident
}

func (r *incidentRepository) invalidateIncidentCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}

	_ = r.cache.Delete(ctx, "incident:"+id)
}
