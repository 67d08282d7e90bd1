package services

import (
	"fmt"

	"rideguard/internal/models"
)

// Message templates for outbound SMS, voice scripts and push bodies.
// Turkish is the primary deployment language; everything else falls back
// to English.

func contactAlertMessage(incident *models.EmergencyIncident, trackingURL string) string {
	if incident.LanguagePreference == "tr" {
		msg := fmt.Sprintf(
			"ACIL DURUM: Yakininiz acil yardim cagrisi gonderdi. Olay no: %s. Konum: %.5f,%.5f.",
			incident.IncidentNumber, incident.Location.Latitude, incident.Location.Longitude)
		if trackingURL != "" {
			msg += " Canli takip: " + trackingURL
		}
		return msg
	}

	msg := fmt.Sprintf(
		"EMERGENCY ALERT: Your contact triggered an emergency. Incident: %s. Location: %.5f,%.5f.",
		incident.IncidentNumber, incident.Location.Latitude, incident.Location.Longitude)
	if trackingURL != "" {
		msg += " Live tracking: " + trackingURL
	}
	return msg
}

func contactPushTitle(incident *models.EmergencyIncident) string {
	if incident.LanguagePreference == "tr" {
		return "Acil Durum Bildirimi"
	}
	return "Emergency Alert"
}

func authorityCallScript(incident *models.EmergencyIncident, serviceType string) string {
	if incident.LanguagePreference == "tr" {
		return fmt.Sprintf(
			"Otomatik acil durum bildirimi. Olay numarasi %s. Olay turu %s. Konum enlem %.5f boylam %.5f. Lutfen mudahale edin.",
			incident.IncidentNumber, string(incident.Type), incident.Location.Latitude, incident.Location.Longitude)
	}

	return fmt.Sprintf(
		"Automated emergency notification. Incident number %s. Incident type %s. Location latitude %.5f longitude %.5f. Please respond.",
		incident.IncidentNumber, string(incident.Type), incident.Location.Latitude, incident.Location.Longitude)
}

func voiceLanguage(incident *models.EmergencyIncident) string {
	if incident.LanguagePreference == "tr" {
		return "tr-TR"
	}
	return "en-US"
}

func buildNextSteps(incident *models.EmergencyIncident, helpline string) *models.NextSteps {
	steps := &models.NextSteps{
		EmergencyHelpline:      helpline,
		ExpectedResolutionTime: fmt.Sprintf("%d minutes", EstimatedResponseMinutes(incident.Priority)),
	}

	if incident.LanguagePreference == "tr" {
		steps.ImmediateActions = []string{
			"Guvenli bir yerde kalin",
			"Telefonunuzu acik tutun",
			"Mumkunse konumunuzu degistirmeyin",
		}
		steps.Expectations = []string{
			"Acil durum kontaklariniz bilgilendirildi",
			"Konumunuz canli olarak paylasiliyor",
			"Destek ekibi sizinle iletisime gececek",
		}
		return steps
	}

	steps.ImmediateActions = []string{
		"Stay in a safe place",
		"Keep your phone on",
		"Avoid changing location if possible",
	}
	steps.Expectations = []string{
		"Your emergency contacts have been alerted",
		"Your location is being shared live",
		"A support agent will reach out to you",
	}
	return steps
}
