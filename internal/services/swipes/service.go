package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hp356662-a11y/Mingle9933-Bot/internal/domain/enums"
	pgrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrUnsupportedAction = errors.New("unsupported action")
)

type SwipeStore interface {
	Create(ctx context.Context, tx pgx.Tx, swiperID, swipedID int64, action string) (pgrepo.SwipeRecord, error)
	LikeExists(ctx context.Context, tx pgx.Tx, fromID, toID int64) (bool, error)
}

type MatchStore interface {
	Create(ctx context.Context, tx pgx.Tx, userID, targetID int64) (pgrepo.MatchRecord, bool, error)
}

type Result struct {
	Action       enums.SwipeAction
	MatchCreated bool
	Match        pgrepo.MatchRecord
}

type Service struct {
	swipeStore SwipeStore
	matchStore MatchStore
	runTx      func(context.Context, func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool       *pgxpool.Pool
	SwipeStore SwipeStore
	MatchStore MatchStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		swipeStore: deps.SwipeStore,
		matchStore: deps.MatchStore,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, deps.Pool, fn)
		},
	}
}

// Swipe appends the decision and, for a like, detects a mutual pair in
// the same transaction: when the reciprocal like already exists the
// match row is created under the canonical-order unique index, so the
// chronologically second like is the only one that reports
// MatchCreated. The target id is trusted as-is; callers only pass ids
// surfaced by the candidate selector.
func (s *Service) Swipe(ctx context.Context, actorID, targetID int64, action string) (Result, error) {
	if actorID <= 0 || targetID <= 0 {
		return Result{}, ErrValidation
	}

	normalized, err := normalizeAction(action)
	if err != nil {
		return Result{}, err
	}

	if s.swipeStore == nil || s.matchStore == nil || s.runTx == nil {
		return Result{}, fmt.Errorf("swipe dependencies are not configured")
	}

	result := Result{Action: normalized}
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if _, err := s.swipeStore.Create(txCtx, tx, actorID, targetID, string(normalized)); err != nil {
			return err
		}

		if normalized != enums.SwipeActionLike {
			return nil
		}

		reciprocal, err := s.swipeStore.LikeExists(txCtx, tx, targetID, actorID)
		if err != nil {
			return err
		}
		if !reciprocal {
			return nil
		}

		match, created, err := s.matchStore.Create(txCtx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		result.MatchCreated = created
		result.Match = match
		return nil
	}); err != nil {
		return Result{}, err
	}

	return result, nil
}

func normalizeAction(input string) (enums.SwipeAction, error) {
	switch enums.SwipeAction(strings.ToLower(strings.TrimSpace(input))) {
	case enums.SwipeActionLike:
		return enums.SwipeActionLike, nil
	case enums.SwipeActionPass:
		return enums.SwipeActionPass, nil
	default:
		return "", ErrUnsupportedAction
	}
}
