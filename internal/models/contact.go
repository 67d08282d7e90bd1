package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmergencyContact is a person the user wants alerted when an SOS fires.
type EmergencyContact struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID       string             `json:"user_id" bson:"user_id" validate:"required"`
	ContactName  string             `json:"contact_name" bson:"contact_name" validate:"required"`
	PhoneNumber  string             `json:"phone_number" bson:"phone_number" validate:"required"`
	ContactUser  string             `json:"contact_user_id,omitempty" bson:"contact_user_id,omitempty"`
	Relationship string             `json:"relationship,omitempty" bson:"relationship,omitempty"`
	PriorityRank int                `json:"priority_rank" bson:"priority_rank"`
	IsEnabled    bool               `json:"is_enabled" bson:"is_enabled"`
	IsVerified   bool               `json:"is_verified" bson:"is_verified"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
