package validators

import (
	"errors"
	"fmt"
	"strings"

	"rideguard/internal/models"
	"rideguard/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("coordinates", validateCoordinates)
}

var (
	ErrInvalidObjectID    = errors.New("invalid object ID format")
	ErrInvalidPhoneNumber = errors.New("invalid phone number format")
	ErrInvalidCoordinates = errors.New("invalid GPS coordinates")
	ErrInvalidPriority    = errors.New("invalid incident priority")
	ErrInvalidDuration    = errors.New("tracking duration out of range")
)

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validateObjectID(fl validator.FieldLevel) bool {
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

func validatePhoneNumber(fl validator.FieldLevel) bool {
	return utils.IsValidPhone(utils.NormalizePhone(fl.Field().String()))
}

func validateCoordinates(fl validator.FieldLevel) bool {
	location, ok := fl.Field().Interface().(models.GeoLocation)
	if !ok {
		return false
	}
	return location.IsValid()
}

// ValidateSOSRequest checks an SOS trigger payload before it reaches the
// orchestrator. Empty priority and type are allowed; the service applies
// defaults.
func ValidateSOSRequest(req *models.SOSRequest) error {
	if !req.Location.IsValid() {
		return ErrInvalidCoordinates
	}

	if req.Priority != "" {
		switch req.Priority {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
		default:
			return ErrInvalidPriority
		}
	}

	if req.TrackingDurationMin < 0 || req.TrackingDurationMin > 24*60 {
		return ErrInvalidDuration
	}

	return nil
}

// ValidateEmergencyContact checks a contact payload on create.
func ValidateEmergencyContact(contact *models.EmergencyContact) error {
	if strings.TrimSpace(contact.ContactName) == "" {
		return errors.New("contact name is required")
	}

	if !utils.IsValidPhone(utils.NormalizePhone(contact.PhoneNumber)) {
		return ErrInvalidPhoneNumber
	}

	if contact.PriorityRank < 0 {
		return errors.New("priority rank must not be negative")
	}

	return nil
}

// ValidateStruct runs tag-based validation and flattens the result.
func ValidateStruct(s interface{}) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors []ValidationError
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fieldError := range fieldErrors {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(fieldError.Field()),
				Tag:     fieldError.Tag(),
				Message: fmt.Sprintf("failed on the '%s' rule", fieldError.Tag()),
			})
		}
	}

	return validationErrors
}
