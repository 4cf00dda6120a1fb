package utils

import (
	"os"
	"strings"

	"github.com/campuspool/campuspool-backend/internal/models"
)

const defaultCampusDomain = "@vitstudent.ac.in"

// CampusDomain returns the email domain accounts are restricted to.
func CampusDomain() string {
	if domain := os.Getenv("CAMPUS_EMAIL_DOMAIN"); domain != "" {
		return domain
	}
	return defaultCampusDomain
}

// IsCampusEmail reports whether the address belongs to the campus domain.
func IsCampusEmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), CampusDomain())
}

// ParseDisplayName splits a campus directory display name into the person's
// full name and registration number. The registrar appends the regno as the
// last token, e.g. "PRIYA SHARMA 22BCE1234".
func ParseDisplayName(displayName string) (fullname, regno string) {
	parts := strings.Fields(strings.TrimSpace(displayName))
	if len(parts) == 0 {
		return "Unknown User", "UNKNOWN_REGNO"
	}

	regno = parts[len(parts)-1]
	parts = parts[:len(parts)-1]
	fullname = strings.Join(parts, " ")
	if fullname == "" {
		fullname = "Unknown User"
	}
	return fullname, regno
}

var namesByGender = map[string]string{
	"aarav": models.GenderMale, "aditya": models.GenderMale, "akash": models.GenderMale,
	"amit": models.GenderMale, "aniket": models.GenderMale, "arjun": models.GenderMale,
	"aryan": models.GenderMale, "dev": models.GenderMale, "dhruv": models.GenderMale,
	"gaurav": models.GenderMale, "harsh": models.GenderMale, "ishaan": models.GenderMale,
	"karan": models.GenderMale, "karthik": models.GenderMale, "krishna": models.GenderMale,
	"manish": models.GenderMale, "mohit": models.GenderMale, "nikhil": models.GenderMale,
	"pranav": models.GenderMale, "rahul": models.GenderMale, "raj": models.GenderMale,
	"rohan": models.GenderMale, "rohit": models.GenderMale, "sachin": models.GenderMale,
	"sai": models.GenderMale, "sanjay": models.GenderMale, "siddharth": models.GenderMale,
	"varun": models.GenderMale, "vikram": models.GenderMale, "vishal": models.GenderMale,

	"aadhya": models.GenderFemale, "aishwarya": models.GenderFemale, "ananya": models.GenderFemale,
	"anjali": models.GenderFemale, "anushka": models.GenderFemale, "deepika": models.GenderFemale,
	"divya": models.GenderFemale, "ishita": models.GenderFemale, "kavya": models.GenderFemale,
	"kriti": models.GenderFemale, "lakshmi": models.GenderFemale, "meera": models.GenderFemale,
	"neha": models.GenderFemale, "nikita": models.GenderFemale, "pooja": models.GenderFemale,
	"priya": models.GenderFemale, "riya": models.GenderFemale, "sanya": models.GenderFemale,
	"shreya": models.GenderFemale, "sneha": models.GenderFemale, "sonal": models.GenderFemale,
	"swati": models.GenderFemale, "tanvi": models.GenderFemale, "trisha": models.GenderFemale,
	"vidya": models.GenderFemale,
}

// InferGender guesses a gender from a first name, defaulting to "unknown".
// Users with an unknown gender cannot join gender-restricted rides.
func InferGender(firstName string) string {
	if gender, ok := namesByGender[strings.ToLower(strings.TrimSpace(firstName))]; ok {
		return gender
	}
	return models.GenderUnknown
}
