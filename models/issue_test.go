package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityScore(t *testing.T) {
	assert.Equal(t, 10, PriorityScore(Critical))
	assert.Equal(t, 7, PriorityScore(High))
	assert.Equal(t, 4, PriorityScore(Medium))
	assert.Equal(t, 4, PriorityScore(Low))
	assert.Equal(t, 4, PriorityScore(IssueSeverity("Unknown")))
}

func TestValidCategory(t *testing.T) {
	for _, category := range []string{"Road", "Garbage", "Water", "Electricity", "Sanitation", "Streetlight", "Drainage", "Other"} {
		assert.True(t, ValidCategory(category), category)
	}
	assert.False(t, ValidCategory("road"))
	assert.False(t, ValidCategory("Potholes"))
	assert.False(t, ValidCategory(""))
}

func TestValidSeverity(t *testing.T) {
	for _, severity := range []string{"Low", "Medium", "High", "Critical"} {
		assert.True(t, ValidSeverity(severity), severity)
	}
	assert.False(t, ValidSeverity("critical"))
	assert.False(t, ValidSeverity(""))
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{"Submitted", "Acknowledged", "Assigned", "InProgress", "Resolved", "Verified"} {
		assert.True(t, ValidStatus(status), status)
	}
	assert.False(t, ValidStatus("Closed"))
	assert.False(t, ValidStatus("In Progress"))
}

func TestStatusClosed(t *testing.T) {
	assert.True(t, Resolved.Closed())
	assert.True(t, Verified.Closed())
	assert.False(t, Submitted.Closed())
	assert.False(t, Acknowledged.Closed())
	assert.False(t, Assigned.Closed())
	assert.False(t, InProgress.Closed())
}
