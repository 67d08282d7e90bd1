package config

import (
	"time"
)

// EmergencyConfig carries the tunables of the incident orchestration core.
// The routing tables are deployment data, not logic: they are loaded here and
// injected so tests and per-environment overrides never touch code.
type EmergencyConfig struct {
	OrchestrationDeadline  time.Duration `yaml:"orchestration_deadline"`
	MaxRetryAttempts       int           `yaml:"max_retry_attempts"`
	RetryBackoff           time.Duration `yaml:"retry_backoff"`
	StatusCacheTTL         time.Duration `yaml:"status_cache_ttl"`
	DefaultCountry         string        `yaml:"default_country"`
	TrackingURLBase        string        `yaml:"tracking_url_base"`
	TrackingDurationMin    int           `yaml:"tracking_duration_minutes"`
	TrackingUpdateInterval time.Duration `yaml:"tracking_update_interval"`
	TrackingSweepInterval  time.Duration `yaml:"tracking_sweep_interval"`
	RecordingMaxDuration   time.Duration `yaml:"recording_max_duration"`
	HelplineNumber         string        `yaml:"helpline_number"`

	// CountryNumbers maps ISO country code -> service type -> dial number.
	// The "*" entry is the fallback for unlisted countries.
	CountryNumbers map[string]map[string]string `yaml:"country_numbers"`

	// RequiredServices maps incident type -> ordered service types to dial.
	RequiredServices map[string][]string `yaml:"required_services"`

	// ArrivalEstimates maps service type -> fixed ETA minutes quoted back to
	// the caller. "*" is the default.
	ArrivalEstimates map[string]int `yaml:"arrival_estimates"`
}

const (
	ServicePolice    = "POLICE"
	ServiceAmbulance = "AMBULANCE"
	ServiceFire      = "FIRE_DEPARTMENT"
)

func loadEmergencyConfig() *EmergencyConfig {
	return &EmergencyConfig{
		OrchestrationDeadline:  getEnvAsDuration("EMERGENCY_ORCHESTRATION_DEADLINE", 30*time.Second),
		MaxRetryAttempts:       getEnvAsInt("EMERGENCY_MAX_RETRY_ATTEMPTS", 3),
		RetryBackoff:           getEnvAsDuration("EMERGENCY_RETRY_BACKOFF", time.Second),
		StatusCacheTTL:         getEnvAsDuration("EMERGENCY_STATUS_CACHE_TTL", 24*time.Hour),
		DefaultCountry:         getEnv("EMERGENCY_DEFAULT_COUNTRY", "TR"),
		TrackingURLBase:        getEnv("EMERGENCY_TRACKING_URL_BASE", "https://track.rideguard.app/emergency"),
		TrackingDurationMin:    getEnvAsInt("EMERGENCY_TRACKING_DURATION_MINUTES", 60),
		TrackingUpdateInterval: getEnvAsDuration("EMERGENCY_TRACKING_UPDATE_INTERVAL", 30*time.Second),
		TrackingSweepInterval:  getEnvAsDuration("EMERGENCY_TRACKING_SWEEP_INTERVAL", time.Minute),
		RecordingMaxDuration:   getEnvAsDuration("EMERGENCY_RECORDING_MAX_DURATION", 30*time.Minute),
		HelplineNumber:         getEnv("EMERGENCY_HELPLINE_NUMBER", "+908001234567"),
		CountryNumbers:         defaultCountryNumbers(),
		RequiredServices:       defaultRequiredServices(),
		ArrivalEstimates:       defaultArrivalEstimates(),
	}
}

func defaultCountryNumbers() map[string]map[string]string {
	return map[string]map[string]string{
		"TR": {
			ServicePolice:    "155",
			ServiceAmbulance: "112",
			ServiceFire:      "110",
		},
		"US": {
			ServicePolice:    "911",
			ServiceAmbulance: "911",
			ServiceFire:      "911",
		},
		"GB": {
			ServicePolice:    "999",
			ServiceAmbulance: "999",
			ServiceFire:      "999",
		},
		"*": {
			ServicePolice:    "112",
			ServiceAmbulance: "112",
			ServiceFire:      "112",
		},
	}
}

func defaultRequiredServices() map[string][]string {
	return map[string][]string{
		"MEDICAL_EMERGENCY": {ServiceAmbulance},
		"ACCIDENT":          {ServicePolice, ServiceAmbulance},
		"CRIME_IN_PROGRESS": {ServicePolice},
		"HARASSMENT":        {ServicePolice},
		"NATURAL_DISASTER":  {ServiceFire, ServiceAmbulance},
		"VEHICLE_BREAKDOWN": {},
		"*":                 {ServicePolice},
	}
}

func defaultArrivalEstimates() map[string]int {
	return map[string]int{
		ServicePolice:    8,
		ServiceAmbulance: 12,
		ServiceFire:      10,
		"*":              15,
	}
}
