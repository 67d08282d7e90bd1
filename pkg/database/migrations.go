package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(context.Context, *mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrator(db *mongo.Database) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version > currentVersion {
			log.Printf("Running migration %d: %s", migration.Version, migration.Description)

			err := migration.Up(ctx, m.db)
			if err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}

			err = m.updateVersion(ctx, migration.Version)
			if err != nil {
				return fmt.Errorf("failed to update migration version: %w", err)
			}
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result struct {
		Version int `bson:"version"`
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	err := m.db.Collection("migrations").FindOne(ctx, bson.M{}, opts).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.db.Collection("migrations").InsertOne(ctx, bson.M{
		"version":    version,
		"applied_at": time.Now().UTC(),
	})
	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create indexes for emergency incidents",
			Up: func(ctx context.Context, db *mongo.Database) error {
				ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
				defer cancel()

				indexes := []mongo.IndexModel{
					{
						Keys:    bson.D{{Key: "incident_number", Value: 1}},
						Options: options.Index().SetUnique(true),
					},
					{
						Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
					},
					{
						Keys: bson.D{{Key: "created_at", Value: -1}},
					},
					{
						Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: 1}},
					},
				}

				_, err := db.Collection("emergency_incidents").Indexes().CreateMany(ctx, indexes)
				return err
			},
		},
		{
			Version:     2,
			Description: "Create indexes for emergency contacts",
			Up: func(ctx context.Context, db *mongo.Database) error {
				ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
				defer cancel()

				indexes := []mongo.IndexModel{
					{
						Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "priority_rank", Value: 1}},
					},
					{
						Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "phone_number", Value: 1}},
						Options: options.Index().SetUnique(true),
					},
				}

				_, err := db.Collection("emergency_contacts").Indexes().CreateMany(ctx, indexes)
				return err
			},
		},
	}
}
