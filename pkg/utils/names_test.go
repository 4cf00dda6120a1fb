package utils

import (
	"testing"

	"github.com/campuspool/campuspool-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fullname string
		regno    string
	}{
		{"typical", "PRIYA SHARMA 22BCE1234", "PRIYA SHARMA", "22BCE1234"},
		{"three part name", "ARJUN KUMAR NAIR 21BIT0042", "ARJUN KUMAR NAIR", "21BIT0042"},
		{"extra whitespace", "  RAHUL   VERMA   23BCE9999  ", "RAHUL VERMA", "23BCE9999"},
		{"single token", "22BCE1234", "Unknown User", "22BCE1234"},
		{"empty", "", "Unknown User", "UNKNOWN_REGNO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullname, regno := ParseDisplayName(tt.input)
			assert.Equal(t, tt.fullname, fullname)
			assert.Equal(t, tt.regno, regno)
		})
	}
}

func TestInferGender(t *testing.T) {
	assert.Equal(t, models.GenderMale, InferGender("Rahul"))
	assert.Equal(t, models.GenderMale, InferGender("KARTHIK"))
	assert.Equal(t, models.GenderFemale, InferGender("priya"))
	assert.Equal(t, models.GenderFemale, InferGender(" Ananya "))
	assert.Equal(t, models.GenderUnknown, InferGender("Zorblax"))
	assert.Equal(t, models.GenderUnknown, InferGender(""))
}

func TestIsCampusEmail(t *testing.T) {
	assert.True(t, IsCampusEmail("priya.sharma2022@vitstudent.ac.in"))
	assert.True(t, IsCampusEmail("RAHUL@VITSTUDENT.AC.IN"))
	assert.False(t, IsCampusEmail("someone@gmail.com"))
	assert.False(t, IsCampusEmail("vitstudent.ac.in@gmail.com"))

	t.Setenv("CAMPUS_EMAIL_DOMAIN", "@example.edu")
	assert.True(t, IsCampusEmail("dev@example.edu"))
	assert.False(t, IsCampusEmail("priya@vitstudent.ac.in"))
}
