package matches

import (
	"context"
	"errors"

	pgrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

const defaultLimit = 50

type MatchStore interface {
	ListActiveForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchedUserRecord, error)
}

type Service struct {
	matchStore MatchStore
	limit      int
}

func NewService(matchStore MatchStore) *Service {
	return &Service{matchStore: matchStore, limit: defaultLimit}
}

// List returns the user's active matches, newest first, each joined
// with the other participant's profile. An empty slice means the user
// has no matches yet; that is not an error.
func (s *Service) List(ctx context.Context, userID int64) ([]pgrepo.MatchedUserRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	return s.matchStore.ListActiveForUser(ctx, userID, s.limit)
}
