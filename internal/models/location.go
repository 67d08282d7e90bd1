package models

import (
	"time"
)

type GeoLocation struct {
	Latitude  float64   `json:"latitude" bson:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64   `json:"longitude" bson:"longitude" validate:"required,min=-180,max=180"`
	Accuracy  float64   `json:"accuracy" bson:"accuracy"`
	Address   string    `json:"address,omitempty" bson:"address,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

func (l GeoLocation) IsValid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}
