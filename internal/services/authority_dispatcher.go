package services

import (
	"context"
	"fmt"
	"time"

	"rideguard/internal/config"
	"rideguard/internal/models"
	"rideguard/internal/utils"
	"rideguard/pkg/logger"
	"rideguard/pkg/maps"
	"rideguard/pkg/retry"
	"rideguard/pkg/sms"
)

// AuthorityDispatcher places automated voice calls to the emergency
// services responsible for an incident. The dial plan comes from injected
// configuration; the country is resolved from the incident location and
// falls back to the configured default when resolution fails.
type AuthorityDispatcher interface {
	ContactAuthorities(ctx context.Context, incident *models.EmergencyIncident) ([]models.AuthorityContact, error)
	RequiredServices(incidentType models.IncidentType) []string
}

type authorityDispatcher struct {
	cfg          *config.EmergencyConfig
	mapsProvider maps.MapsProvider
	smsProvider  sms.SMSProvider
	retryConfig  retry.Config
	logger       *logger.Logger
}

func NewAuthorityDispatcher(
	cfg *config.EmergencyConfig,
	mapsProvider maps.MapsProvider,
	smsProvider sms.SMSProvider,
	retryConfig retry.Config,
	log *logger.Logger,
) AuthorityDispatcher {
	return &authorityDispatcher{
		cfg:          cfg,
		mapsProvider: mapsProvider,
		smsProvider:  smsProvider,
		retryConfig:  retryConfig,
		logger:       log,
	}
}

func (d *authorityDispatcher) RequiredServices(incidentType models.IncidentType) []string {
	if services, ok := d.cfg.RequiredServices[string(incidentType)]; ok {
		return services
	}
	return d.cfg.RequiredServices["*"]
}

func (d *authorityDispatcher) ContactAuthorities(ctx context.Context, incident *models.EmergencyIncident) ([]models.AuthorityContact, error) {
	services := d.RequiredServices(incident.Type)
	if len(services) == 0 {
		return nil, nil
	}

	country := d.resolveCountry(ctx, incident)
	numbers := d.numbersForCountry(country)

	contacts := make([]models.AuthorityContact, 0, len(services))
	for _, serviceType := range services {
		number, ok := numbers[serviceType]
		if !ok {
			number = d.cfg.CountryNumbers["*"][serviceType]
		}

		contacts = append(contacts, d.callAuthority(ctx, incident, serviceType, number, country))
	}

	return contacts, nil
}

func (d *authorityDispatcher) callAuthority(ctx context.Context, incident *models.EmergencyIncident, serviceType, number, country string) models.AuthorityContact {
	contact := models.AuthorityContact{
		ServiceType:      serviceType,
		AuthorityName:    fmt.Sprintf("%s (%s)", serviceType, country),
		ContactNumber:    number,
		ContactMethod:    "VOICE_CALL",
		EstimatedArrival: d.arrivalEstimate(serviceType),
		ContactedAt:      time.Now(),
	}

	script := authorityCallScript(incident, serviceType)

	var callResp *sms.CallResponse
	err := retry.Do(ctx, d.retryConfig, func() error {
		var callErr error
		callResp, callErr = d.smsProvider.PlaceCall(ctx, &sms.CallRequest{
			To:       number,
			Message:  script,
			Language: voiceLanguage(incident),
		})
		return callErr
	})

	if err != nil {
		d.logger.WithIncidentID(incident.ID).WithError(err).
			WithField("service_type", serviceType).
			Error("Authority call failed")

		contact.Status = "FAILED"
		return contact
	}

	contact.Status = "CONTACTED"
	contact.ReferenceNumber = d.referenceNumber(callResp)
	return contact
}

func (d *authorityDispatcher) resolveCountry(ctx context.Context, incident *models.EmergencyIncident) string {
	info, err := d.mapsProvider.ResolveCountry(ctx, incident.Location.Latitude, incident.Location.Longitude)
	if err != nil || info == nil || info.Code == "" {
		d.logger.WithIncidentID(incident.ID).
			WithField("fallback_country", d.cfg.DefaultCountry).
			Warn("Country resolution failed, using default")
		return d.cfg.DefaultCountry
	}

	return info.Code
}

func (d *authorityDispatcher) numbersForCountry(country string) map[string]string {
	if numbers, ok := d.cfg.CountryNumbers[country]; ok {
		return numbers
	}
	return d.cfg.CountryNumbers["*"]
}

func (d *authorityDispatcher) arrivalEstimate(serviceType string) int {
	if eta, ok := d.cfg.ArrivalEstimates[serviceType]; ok {
		return eta
	}
	return d.cfg.ArrivalEstimates["*"]
}

func (d *authorityDispatcher) referenceNumber(resp *sms.CallResponse) string {
	if resp != nil && resp.CallID != "" {
		return resp.CallID
	}
	return "REF-" + utils.GenerateRandomNumericString(8)
}
