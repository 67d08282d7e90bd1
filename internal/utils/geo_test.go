package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCoordinates(t *testing.T) {
	assert.True(t, IsValidCoordinates(41.0082, 28.9784))
	assert.True(t, IsValidCoordinates(-90, -180))
	assert.True(t, IsValidCoordinates(90, 180))
	assert.True(t, IsValidCoordinates(0, 0))

	assert.False(t, IsValidCoordinates(90.01, 0))
	assert.False(t, IsValidCoordinates(-90.01, 0))
	assert.False(t, IsValidCoordinates(0, 180.01))
	assert.False(t, IsValidCoordinates(0, -180.01))
}

func TestCalculateDistance(t *testing.T) {
	// Istanbul to Ankara, roughly 350 km.
	distance := CalculateDistance(41.0082, 28.9784, 39.9334, 32.8597)
	assert.InDelta(t, 350, distance, 10)

	assert.Zero(t, CalculateDistance(41.0, 29.0, 41.0, 29.0))
}

func TestCalculateDistanceMeters(t *testing.T) {
	km := CalculateDistance(41.0082, 28.9784, 41.0100, 28.9800)
	meters := CalculateDistanceMeters(41.0082, 28.9784, 41.0100, 28.9800)
	assert.InDelta(t, km*1000, meters, 0.001)
}

func TestIsWithinRadius(t *testing.T) {
	// Two points in central Istanbul, well under 5 km apart.
	assert.True(t, IsWithinRadius(41.0082, 28.9784, 41.0100, 28.9800, 5))

	// Istanbul and Ankara are not within 100 km.
	assert.False(t, IsWithinRadius(41.0082, 28.9784, 39.9334, 32.8597, 100))
}

func TestCalculateBearing(t *testing.T) {
	// Due north.
	bearing := CalculateBearing(41.0, 29.0, 42.0, 29.0)
	assert.InDelta(t, 0, bearing, 0.5)

	// Due east.
	bearing = CalculateBearing(0, 0, 0, 1)
	assert.InDelta(t, 90, bearing, 0.5)

	// Due south.
	bearing = CalculateBearing(42.0, 29.0, 41.0, 29.0)
	assert.InDelta(t, 180, bearing, 0.5)
}
