package validators

import (
	"testing"

	"rideguard/internal/models"

	"github.com/stretchr/testify/assert"
)

func validSOSRequest() *models.SOSRequest {
	return &models.SOSRequest{
		UserID:   "user-1",
		Priority: models.PriorityHigh,
		Location: models.GeoLocation{Latitude: 41.0082, Longitude: 28.9784},
	}
}

func TestValidateSOSRequest(t *testing.T) {
	assert.NoError(t, ValidateSOSRequest(validSOSRequest()))

	empty := validSOSRequest()
	empty.Priority = ""
	assert.NoError(t, ValidateSOSRequest(empty), "empty priority defaults downstream")

	badLocation := validSOSRequest()
	badLocation.Location.Latitude = 120
	assert.ErrorIs(t, ValidateSOSRequest(badLocation), ErrInvalidCoordinates)

	badPriority := validSOSRequest()
	badPriority.Priority = "URGENT"
	assert.ErrorIs(t, ValidateSOSRequest(badPriority), ErrInvalidPriority)

	badDuration := validSOSRequest()
	badDuration.TrackingDurationMin = -5
	assert.ErrorIs(t, ValidateSOSRequest(badDuration), ErrInvalidDuration)

	tooLong := validSOSRequest()
	tooLong.TrackingDurationMin = 2000
	assert.ErrorIs(t, ValidateSOSRequest(tooLong), ErrInvalidDuration)
}

func TestValidateEmergencyContact(t *testing.T) {
	assert.NoError(t, ValidateEmergencyContact(&models.EmergencyContact{
		ContactName: "Ayse",
		PhoneNumber: "+905551112233",
	}))

	assert.Error(t, ValidateEmergencyContact(&models.EmergencyContact{
		ContactName: "   ",
		PhoneNumber: "+905551112233",
	}))

	assert.ErrorIs(t, ValidateEmergencyContact(&models.EmergencyContact{
		ContactName: "Ayse",
		PhoneNumber: "garbage",
	}), ErrInvalidPhoneNumber)
}
