package mongodb

import (
	"context"
	"fmt"
	"time"

	"rideguard/internal/models"
	"rideguard/internal/repositories/interfaces"
	"rideguard/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type contactRepository struct {
	collection *mongo.Collection
}

func NewContactRepository(db *mongo.Database) interfaces.ContactRepository {
	return &contactRepository{
		collection: db.Collection(utils.CollectionContacts),
	}
}

func (r *contactRepository) Create(ctx context.Context, contact *models.EmergencyContact) error {
	if contact.ID.IsZero() {
		contact.ID = primitive.NewObjectID()
	}
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt

	_, err := r.collection.InsertOne(ctx, contact)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("contact with this phone number already exists")
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyContact, error) {
	var contact models.EmergencyContact
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("contact not found")
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return &contact, nil
}

func (r *contactRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("contact not found")
	}

	return nil
}

func (r *contactRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("contact not found")
	}

	return nil
}

func (r *contactRepository) GetEnabledByUser(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	filter := bson.M{
		"user_id":    userID,
		"is_enabled": true,
	}

	return r.findContacts(ctx, filter, options.Find().SetSort(bson.D{{Key: "priority_rank", Value: 1}}))
}

func (r *contactRepository) GetByUserID(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	filter := bson.M{"user_id": userID}
	return r.findContacts(ctx, filter, options.Find().SetSort(bson.D{{Key: "priority_rank", Value: 1}}))
}

func (r *contactRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	return count, nil
}

func (r *contactRepository) findContacts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.EmergencyContact, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var contacts []*models.EmergencyContact
	for cursor.Next(ctx) {
		var contact models.EmergencyContact
		if err := cursor.Decode(&contact); err != nil {
			return nil, fmt.Errorf("failed to decode contact: %w", err)
		}
		contacts = append(contacts, &contact)
	}

	return contacts, nil
}
