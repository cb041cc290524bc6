package rules

import (
	"strings"

	"github.com/hp356662-a11y/Mingle9933-Bot/internal/domain/enums"
)

const (
	MinAllowedAge = 18

	// Onboarding never asks for an age range, so new preferences get
	// the widest one.
	DefaultMinAge = 18
	DefaultMaxAge = 99
)

func ValidAge(age int) bool {
	return age >= MinAllowedAge
}

// NormalizeGender lower-cases free text as-is. The source never
// validated gender against a closed set and neither do we.
func NormalizeGender(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// LookingForFromAnswer maps the onboarding answer to a preference
// target: "men" means male profiles, "women" female, anything else both.
func LookingForFromAnswer(text string) enums.LookingFor {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "men":
		return enums.LookingForMale
	case "women":
		return enums.LookingForFemale
	default:
		return enums.LookingForBoth
	}
}

// GenderAccepted is the post-fetch gender filter applied to a single
// candidate: "both" accepts any profile, otherwise the candidate's
// gender must match exactly.
func GenderAccepted(lookingFor enums.LookingFor, candidateGender enums.Gender) bool {
	if lookingFor == enums.LookingForBoth {
		return true
	}
	return strings.EqualFold(string(candidateGender), string(lookingFor))
}

// CanonicalPair orders two user ids ascending for match storage.
func CanonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
