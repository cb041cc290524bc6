package browse

import (
	"context"
	"errors"
	"fmt"

	"github.com/hp356662-a11y/Mingle9933-Bot/internal/domain/enums"
	"github.com/hp356662-a11y/Mingle9933-Bot/internal/domain/rules"
	pgrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNoPreferences = errors.New("preferences not set")
	ErrNoCandidates  = errors.New("no candidates available")
)

type PreferenceStore interface {
	Find(ctx context.Context, userID int64) (pgrepo.PreferenceRecord, error)
}

type CandidateStore interface {
	FirstEligible(ctx context.Context, viewerID int64, minAge, maxAge int) (pgrepo.CandidateRecord, error)
}

type Candidate struct {
	UserID   int64
	Name     string
	Age      int
	Gender   string
	Bio      string
	Location string
}

type Service struct {
	prefStore      PreferenceStore
	candidateStore CandidateStore
}

func NewService(prefStore PreferenceStore, candidateStore CandidateStore) *Service {
	return &Service{
		prefStore:      prefStore,
		candidateStore: candidateStore,
	}
}

// NextCandidate picks the single next profile to present. The store
// yields the first active, not-yet-swiped profile in the viewer's age
// range; the gender preference is then checked on that one row. A
// gender mismatch yields ErrNoCandidates without fetching a second
// profile.
func (s *Service) NextCandidate(ctx context.Context, userID int64) (Candidate, error) {
	if userID <= 0 {
		return Candidate{}, ErrValidation
	}
	if s.prefStore == nil || s.candidateStore == nil {
		return Candidate{}, fmt.Errorf("browse dependencies are not configured")
	}

	prefs, err := s.prefStore.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPreferencesNotFound) {
			return Candidate{}, ErrNoPreferences
		}
		return Candidate{}, fmt.Errorf("load viewer preferences: %w", err)
	}

	rec, err := s.candidateStore.FirstEligible(ctx, userID, prefs.MinAge, prefs.MaxAge)
	if err != nil {
		if errors.Is(err, pgrepo.ErrNoCandidate) {
			return Candidate{}, ErrNoCandidates
		}
		return Candidate{}, fmt.Errorf("select candidate: %w", err)
	}

	if !rules.GenderAccepted(enums.LookingFor(prefs.LookingFor), enums.Gender(rec.Gender)) {
		return Candidate{}, ErrNoCandidates
	}

	return Candidate{
		UserID:   rec.UserID,
		Name:     rec.Name,
		Age:      rec.Age,
		Gender:   rec.Gender,
		Bio:      rec.Bio,
		Location: rec.Location,
	}, nil
}
