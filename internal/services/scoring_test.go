package services

import (
	"testing"
	"time"

	"rideguard/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculateRiskScore(t *testing.T) {
	tests := []struct {
		name       string
		incident   models.IncidentType
		priority   models.IncidentPriority
		safetyMode models.SafetyMode
		expected   int
	}{
		{
			name:     "default SOS medium priority",
			incident: models.IncidentTypeSOS,
			priority: models.PriorityMedium,
			expected: 5,
		},
		{
			name:     "high priority adds two",
			incident: models.IncidentTypeSOS,
			priority: models.PriorityHigh,
			expected: 7,
		},
		{
			name:     "critical medical caps at ten",
			incident: models.IncidentTypeMedical,
			priority: models.PriorityCritical,
			expected: 10,
		},
		{
			name:       "critical medical with women safety mode stays capped",
			incident:   models.IncidentTypeMedical,
			priority:   models.PriorityCritical,
			safetyMode: models.SafetyModeWomen,
			expected:   10,
		},
		{
			name:     "crime in progress high priority",
			incident: models.IncidentTypeCrime,
			priority: models.PriorityHigh,
			expected: 9,
		},
		{
			name:       "harassment with women safety mode",
			incident:   models.IncidentTypeHarassment,
			priority:   models.PriorityMedium,
			safetyMode: models.SafetyModeWomen,
			expected:   7,
		},
		{
			name:     "breakdown low priority keeps base",
			incident: models.IncidentTypeBreakdown,
			priority: models.PriorityLow,
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := CalculateRiskScore(tt.incident, tt.priority, tt.safetyMode)
			assert.Equal(t, tt.expected, score)
		})
	}
}

func TestCalculateQualityScore(t *testing.T) {
	tests := []struct {
		name          string
		processing    time.Duration
		failedActions int
		expected      int
	}{
		{"fast run, no failures", 2 * time.Second, 0, 10},
		{"slow run loses two", 12 * time.Second, 0, 8},
		{"very slow run loses four", 35 * time.Second, 0, 6},
		{"one failure loses two", 2 * time.Second, 1, 8},
		{"failure penalty capped at four", 2 * time.Second, 5, 6},
		{"slow run with two failures", 12 * time.Second, 2, 4},
		{"worst case bottoms out at two", 40 * time.Second, 4, 2},
		{"extra failures do not push below two", time.Minute, 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := CalculateQualityScore(tt.processing, tt.failedActions)
			assert.Equal(t, tt.expected, score)
		})
	}
}

func TestEstimatedResponseMinutes(t *testing.T) {
	assert.Equal(t, 5, EstimatedResponseMinutes(models.PriorityCritical))
	assert.Equal(t, 10, EstimatedResponseMinutes(models.PriorityHigh))
	assert.Equal(t, 20, EstimatedResponseMinutes(models.PriorityMedium))
	assert.Equal(t, 30, EstimatedResponseMinutes(models.PriorityLow))
}
