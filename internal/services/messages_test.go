package services

import (
	"testing"

	"rideguard/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestContactAlertMessageLanguages(t *testing.T) {
	incident := testIncident(models.IncidentTypeSOS)

	incident.LanguagePreference = "tr"
	msg := contactAlertMessage(incident, "https://track.example/s1")
	assert.Contains(t, msg, "ACIL DURUM")
	assert.Contains(t, msg, incident.IncidentNumber)
	assert.Contains(t, msg, "https://track.example/s1")

	incident.LanguagePreference = "en"
	msg = contactAlertMessage(incident, "")
	assert.Contains(t, msg, "EMERGENCY ALERT")
	assert.NotContains(t, msg, "tracking:")
}

func TestAuthorityCallScript(t *testing.T) {
	incident := testIncident(models.IncidentTypeMedical)

	incident.LanguagePreference = "tr"
	assert.Contains(t, authorityCallScript(incident, "AMBULANCE"), "Otomatik acil durum")
	assert.Equal(t, "tr-TR", voiceLanguage(incident))

	incident.LanguagePreference = "en"
	assert.Contains(t, authorityCallScript(incident, "AMBULANCE"), "Automated emergency")
	assert.Equal(t, "en-US", voiceLanguage(incident))
}

func TestBuildNextSteps(t *testing.T) {
	incident := testIncident(models.IncidentTypeSOS)
	incident.Priority = models.PriorityCritical
	incident.LanguagePreference = "tr"

	steps := buildNextSteps(incident, "112")
	assert.Equal(t, "112", steps.EmergencyHelpline)
	assert.Equal(t, "5 minutes", steps.ExpectedResolutionTime)
	assert.NotEmpty(t, steps.ImmediateActions)
	assert.NotEmpty(t, steps.Expectations)
	assert.Contains(t, steps.ImmediateActions[0], "Guvenli")

	incident.LanguagePreference = "en"
	incident.Priority = models.PriorityMedium
	steps = buildNextSteps(incident, "911")
	assert.Equal(t, "20 minutes", steps.ExpectedResolutionTime)
	assert.Contains(t, steps.ImmediateActions[0], "safe place")
}
