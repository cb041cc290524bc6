package profiles

import (
	"context"
	"errors"

	pgrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("profile not found")
)

type UserStore interface {
	Find(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
}

type Service struct {
	userStore UserStore
}

func NewService(userStore UserStore) *Service {
	return &Service{userStore: userStore}
}

// Get loads the user's own profile. ErrNotFound means the user has not
// finished onboarding yet.
func (s *Service) Get(ctx context.Context, userID int64) (pgrepo.UserRecord, error) {
	if userID <= 0 {
		return pgrepo.UserRecord{}, ErrValidation
	}

	user, err := s.userStore.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return pgrepo.UserRecord{}, ErrNotFound
		}
		return pgrepo.UserRecord{}, err
	}
	return user, nil
}

// Exists reports whether the user already has a stored profile.
func (s *Service) Exists(ctx context.Context, userID int64) (bool, error) {
	_, err := s.Get(ctx, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}
