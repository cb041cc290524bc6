package botapp

import (
	"fmt"
	"strings"

	pgrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/postgres"
	"github.com/hp356662-a11y/Mingle9933-Bot/internal/session"
)

const (
	msgWelcomeNew = "Welcome to Mingle! 💕\n\nFind your perfect match!\n\nLet's create your profile!\n\nFirst, how old are you? (Must be 18+)"

	msgAskAgeAgain   = "Please enter a valid age (18 or older):"
	msgAskName       = "Great! What's your name?"
	msgAskGender     = "Nice to meet you! What's your gender?"
	msgAskBio        = "Tell us about yourself (bio):"
	msgAskLocation   = "Where are you located? (City/Area)"
	msgAskLookingFor = "Who are you looking for?"

	msgProfileCreated = "✅ Profile created successfully!\n\nYou're all set! Start browsing to find your match! 💕"

	msgRegisterFirst = "Please complete registration first with /start"

	msgNoProfiles = "No more profiles to show right now! 😔\n\nCheck back later or adjust your preferences."
	msgNoMatches  = "You don't have any matches yet! 💔\n\nKeep swiping to find your match!"

	msgLoadingNext = "Loading next profile..."

	ackMatch = "It's a match! 🎉"
	ackLiked = "Liked! ❤️"
	ackPass  = "Passed ❌"

	msgSomethingWrong = "Something went wrong, please try again later."
)

const (
	buttonBrowse   = "🔍 Browse"
	buttonMatches  = "💬 Matches"
	buttonProfile  = "👤 Profile"
	buttonSettings = "⚙️ Settings"
)

func mainMenuRows() [][]string {
	return [][]string{
		{buttonBrowse, buttonMatches},
		{buttonProfile, buttonSettings},
	}
}

func genderOptions() []string {
	return []string{"Male", "Female", "Other"}
}

func lookingForOptions() []string {
	return []string{"Men", "Women", "Both"}
}

func welcomeBackText(name string) string {
	return fmt.Sprintf("Welcome back, %s! 💕\n\nWhat would you like to do?", name)
}

func onboardingPrompt(step session.Step) string {
	switch step {
	case session.StepAge:
		return msgAskAgeAgain
	case session.StepName:
		return msgAskName
	case session.StepGender:
		return msgAskGender
	case session.StepBio:
		return msgAskBio
	case session.StepLocation:
		return msgAskLocation
	case session.StepLookingFor:
		return msgAskLookingFor
	default:
		return ""
	}
}

func ownProfileText(user pgrepo.UserRecord) string {
	bio := user.Bio
	if strings.TrimSpace(bio) == "" {
		bio = "Not set"
	}
	location := user.Location
	if strings.TrimSpace(location) == "" {
		location = "Not set"
	}
	return fmt.Sprintf("👤 Your Profile:\n\nName: %s\nAge: %d\nGender: %s\nBio: %s\nLocation: %s",
		user.Name, user.Age, user.Gender, bio, location)
}

func candidateCardText(name string, age int, gender, location, bio string) string {
	if strings.TrimSpace(location) == "" {
		location = "Location not set"
	}
	if strings.TrimSpace(bio) == "" {
		bio = "No bio yet"
	}
	return fmt.Sprintf("%s, %d\n%s\n%s\n\n%s", name, age, gender, location, bio)
}

func matchNotificationText(otherName string) string {
	return fmt.Sprintf("🎉 It's a Match!\n\nYou and %s liked each other!", otherName)
}

func matchListText(matched []pgrepo.MatchedUserRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💕 Your Matches (%d):\n\n", len(matched))
	for _, m := range matched {
		fmt.Fprintf(&b, "• %s, %d\n", m.Name, m.Age)
	}
	return b.String()
}
