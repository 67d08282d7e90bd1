package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("+905551112233"))
	assert.True(t, IsValidPhone("905551112233"))
	assert.True(t, IsValidPhone("+1 555 123 4567"))

	assert.False(t, IsValidPhone(""))
	assert.False(t, IsValidPhone("+0123"))
	assert.False(t, IsValidPhone("abc"))
	assert.False(t, IsValidPhone("+123456789012345678"))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "+905551112233", FormatPhone("05551112233", "+90"))
	assert.Equal(t, "+905551112233", FormatPhone("5551112233", "90"))
	assert.Equal(t, "+905551112233", FormatPhone("905551112233", "+90"))
	assert.Equal(t, "+15551234567", FormatPhone("555-123-4567", "+1"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+905551112233", NormalizePhone("+90 555 111 22 33"))
	assert.Equal(t, "+905551112233", NormalizePhone("905551112233"))
	assert.Equal(t, "+905551112233", NormalizePhone("+90 (555) 111-22-33"))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "*********2233", MaskPhone("+905551112233"))
	assert.Equal(t, "123", MaskPhone("123"))
}

func TestGenerateIncidentNumber(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	number := GenerateIncidentNumber(now)
	assert.Regexp(t, `^EMG-20260829-\d{4}$`, number)
}

func TestGenerateSessionID(t *testing.T) {
	id := GenerateSessionID()
	assert.Len(t, id, TrackingSessionIDLength)
	assert.NotEqual(t, id, GenerateSessionID())
}
