package services

import (
	"time"

	"rideguard/internal/models"
)

// CalculateRiskScore rates an incident 0-10 from its type, priority and
// active safety mode. The base of 5 means every SOS starts as a serious
// event; modifiers push it up, never down.
func CalculateRiskScore(incidentType models.IncidentType, priority models.IncidentPriority, safetyMode models.SafetyMode) int {
	score := 5

	switch priority {
	case models.PriorityCritical:
		score += 3
	case models.PriorityHigh:
		score += 2
	}

	switch incidentType {
	case models.IncidentTypeMedical, models.IncidentTypeCrime:
		score += 2
	case models.IncidentTypeHarassment:
		score += 1
	}

	if safetyMode == models.SafetyModeWomen {
		score += 1
	}

	if score > 10 {
		score = 10
	}

	return score
}

// CalculateQualityScore rates one orchestration run 1-10. Slow processing
// and failed actions both cost points; the floor of 1 keeps the scale
// stable for dashboards.
func CalculateQualityScore(totalProcessing time.Duration, failedActions int) int {
	score := 10

	if totalProcessing > 10*time.Second {
		score -= 2
	}
	if totalProcessing > 30*time.Second {
		score -= 2
	}

	penalty := failedActions * 2
	if penalty > 4 {
		penalty = 4
	}
	score -= penalty

	if score < 1 {
		score = 1
	}

	return score
}

// EstimatedResponseMinutes is the time quoted back to the user until
// someone engages with the incident.
func EstimatedResponseMinutes(priority models.IncidentPriority) int {
	switch priority {
	case models.PriorityCritical:
		return 5
	case models.PriorityHigh:
		return 10
	case models.PriorityMedium:
		return 20
	default:
		return 30
	}
}
