package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hp356662-a11y/Mingle9933-Bot/internal/domain/rules"
	"github.com/hp356662-a11y/Mingle9933-Bot/internal/pkg/validate"
	pgrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/postgres"
	"github.com/hp356662-a11y/Mingle9933-Bot/internal/session"
)

var ErrNoSession = errors.New("no onboarding session")

type UserStore interface {
	Create(ctx context.Context, tx pgx.Tx, user pgrepo.UserRecord) (pgrepo.UserRecord, error)
}

type PreferenceStore interface {
	Create(ctx context.Context, tx pgx.Tx, prefs pgrepo.PreferenceRecord) error
}

// Outcome tells the transport layer what to ask next. NextStep is set
// while the conversation continues; Reprompt marks input that did not
// advance the step. Completed carries the stored profile.
type Outcome struct {
	NextStep  session.Step
	Reprompt  bool
	Completed bool
	Profile   pgrepo.UserRecord
}

type Service struct {
	sessions  *session.Store
	userStore UserStore
	prefStore PreferenceStore
	runTx     func(context.Context, func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool            *pgxpool.Pool
	Sessions        *session.Store
	UserStore       UserStore
	PreferenceStore PreferenceStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		sessions:  deps.Sessions,
		userStore: deps.UserStore,
		prefStore: deps.PreferenceStore,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, deps.Pool, fn)
		},
	}
}

// Begin opens a fresh session for the user, replacing any leftover one.
func (s *Service) Begin(userID int64) Outcome {
	s.sessions.Start(userID)
	return Outcome{NextStep: session.StepAge}
}

// InProgress reports whether the user is mid-onboarding.
func (s *Service) InProgress(userID int64) bool {
	return s.sessions.Exists(userID)
}

// HandleText advances the state machine with one message. The whole
// step, including the final profile insert, runs under the user's
// session lock so two rapid messages cannot both answer the same
// question. A failed insert keeps the session at the last step so the
// user can resend the answer.
func (s *Service) HandleText(ctx context.Context, userID int64, text string) (Outcome, error) {
	if !s.sessions.Exists(userID) {
		return Outcome{}, ErrNoSession
	}

	var (
		outcome Outcome
		opErr   error
	)
	s.sessions.Do(userID, func(current *session.Session) *session.Session {
		if current == nil {
			opErr = ErrNoSession
			return nil
		}

		switch current.Step {
		case session.StepAge:
			age, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil || !rules.ValidAge(age) {
				outcome = Outcome{NextStep: session.StepAge, Reprompt: true}
				return current
			}
			current.Age = age
			current.Step = session.StepName
			outcome = Outcome{NextStep: session.StepName}
			return current

		case session.StepName:
			name := strings.TrimSpace(text)
			if !validate.Required(name) {
				outcome = Outcome{NextStep: session.StepName, Reprompt: true}
				return current
			}
			current.Name = name
			current.Step = session.StepGender
			outcome = Outcome{NextStep: session.StepGender}
			return current

		case session.StepGender:
			gender := rules.NormalizeGender(text)
			if !validate.Required(gender) {
				outcome = Outcome{NextStep: session.StepGender, Reprompt: true}
				return current
			}
			current.Gender = gender
			current.Step = session.StepBio
			outcome = Outcome{NextStep: session.StepBio}
			return current

		case session.StepBio:
			bio := strings.TrimSpace(text)
			if !validate.Required(bio) {
				outcome = Outcome{NextStep: session.StepBio, Reprompt: true}
				return current
			}
			current.Bio = bio
			current.Step = session.StepLocation
			outcome = Outcome{NextStep: session.StepLocation}
			return current

		case session.StepLocation:
			location := strings.TrimSpace(text)
			if !validate.Required(location) {
				outcome = Outcome{NextStep: session.StepLocation, Reprompt: true}
				return current
			}
			current.Location = location
			current.Step = session.StepLookingFor
			outcome = Outcome{NextStep: session.StepLookingFor}
			return current

		case session.StepLookingFor:
			profile, err := s.finish(ctx, userID, current, text)
			if err != nil {
				opErr = err
				return current
			}
			outcome = Outcome{Completed: true, Profile: profile}
			return nil

		default:
			opErr = fmt.Errorf("unknown onboarding step %q", current.Step)
			return nil
		}
	})

	return outcome, opErr
}

func (s *Service) finish(ctx context.Context, userID int64, current *session.Session, answer string) (pgrepo.UserRecord, error) {
	lookingFor := rules.LookingForFromAnswer(answer)

	var profile pgrepo.UserRecord
	err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		created, err := s.userStore.Create(txCtx, tx, pgrepo.UserRecord{
			UserID:   userID,
			Name:     current.Name,
			Age:      current.Age,
			Gender:   current.Gender,
			Bio:      current.Bio,
			Location: current.Location,
			IsActive: true,
		})
		if err != nil {
			return err
		}
		profile = created

		return s.prefStore.Create(txCtx, tx, pgrepo.PreferenceRecord{
			UserID:     userID,
			LookingFor: string(lookingFor),
			MinAge:     rules.DefaultMinAge,
			MaxAge:     rules.DefaultMaxAge,
		})
	})
	if err != nil {
		return pgrepo.UserRecord{}, fmt.Errorf("store onboarded profile: %w", err)
	}

	return profile, nil
}
