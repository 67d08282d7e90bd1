package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const (
	letterBytes  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberBytes  = "0123456789"
	alphanumeric = letterBytes + numberBytes
)

func GenerateRandomString(length int) string {
	return generateRandom(length, alphanumeric)
}

func GenerateRandomNumericString(length int) string {
	return generateRandom(length, numberBytes)
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}

// GenerateIncidentNumber returns a human-readable reference like
// EMG-20250115-0042. Uniqueness is best effort; the database _id is the
// real identifier.
func GenerateIncidentNumber(now time.Time) string {
	suffix := GenerateRandomNumericString(IncidentNumberDigits)
	return fmt.Sprintf("%s-%s-%s", IncidentNumberPrefix, now.Format("20060102"), suffix)
}

func GenerateSessionID() string {
	return GenerateRandomString(TrackingSessionIDLength)
}

func GenerateUUID() string {
	return uuid.NewString()
}
