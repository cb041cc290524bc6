package swipes

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/hp356662-a11y/Mingle9933-Bot/internal/domain/enums"
	pgrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/postgres"
)

type swipeStoreStub struct {
	created      []pgrepo.SwipeRecord
	likeExists   bool
	likeChecks   int
	createErr    error
	likeCheckErr error
}

func (s *swipeStoreStub) Create(_ context.Context, _ pgx.Tx, swiperID, swipedID int64, action string) (pgrepo.SwipeRecord, error) {
	if s.createErr != nil {
		return pgrepo.SwipeRecord{}, s.createErr
	}
	rec := pgrepo.SwipeRecord{ID: int64(len(s.created) + 1), SwiperID: swiperID, SwipedID: swipedID, Action: action}
	s.created = append(s.created, rec)
	return rec, nil
}

func (s *swipeStoreStub) LikeExists(_ context.Context, _ pgx.Tx, _, _ int64) (bool, error) {
	s.likeChecks++
	if s.likeCheckErr != nil {
		return false, s.likeCheckErr
	}
	return s.likeExists, nil
}

type matchStoreStub struct {
	created   bool
	calls     int
	record    pgrepo.MatchRecord
	createErr error
}

func (s *matchStoreStub) Create(_ context.Context, _ pgx.Tx, _, _ int64) (pgrepo.MatchRecord, bool, error) {
	s.calls++
	if s.createErr != nil {
		return pgrepo.MatchRecord{}, false, s.createErr
	}
	return s.record, s.created, nil
}

func newTestService(swipeStore *swipeStoreStub, matchStore *matchStoreStub) *Service {
	svc := NewService(Dependencies{SwipeStore: swipeStore, MatchStore: matchStore})
	svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	return svc
}

func TestSwipePassRecordsWithoutMatchCheck(t *testing.T) {
	swipeStore := &swipeStoreStub{likeExists: true}
	matchStore := &matchStoreStub{}
	svc := newTestService(swipeStore, matchStore)

	result, err := svc.Swipe(context.Background(), 10, 20, "pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Action != enums.SwipeActionPass {
		t.Fatalf("unexpected action: %s", result.Action)
	}
	if result.MatchCreated {
		t.Fatalf("pass must not create a match")
	}
	if swipeStore.likeChecks != 0 {
		t.Fatalf("pass must not look for a reciprocal like")
	}
	if matchStore.calls != 0 {
		t.Fatalf("pass must not touch the match store")
	}
	if len(swipeStore.created) != 1 || swipeStore.created[0].Action != "pass" {
		t.Fatalf("expected one recorded pass, got %+v", swipeStore.created)
	}
}

func TestSwipeLikeWithoutReciprocal(t *testing.T) {
	swipeStore := &swipeStoreStub{likeExists: false}
	matchStore := &matchStoreStub{}
	svc := newTestService(swipeStore, matchStore)

	result, err := svc.Swipe(context.Background(), 10, 20, "like")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MatchCreated {
		t.Fatalf("one-sided like must not create a match")
	}
	if swipeStore.likeChecks != 1 {
		t.Fatalf("expected exactly one reciprocal check, got %d", swipeStore.likeChecks)
	}
	if matchStore.calls != 0 {
		t.Fatalf("match store must not be touched without a reciprocal like")
	}
}

func TestSwipeMutualLikeCreatesMatch(t *testing.T) {
	swipeStore := &swipeStoreStub{likeExists: true}
	matchStore := &matchStoreStub{created: true, record: pgrepo.MatchRecord{ID: 7, UserAID: 10, UserBID: 20, IsActive: true}}
	svc := newTestService(swipeStore, matchStore)

	result, err := svc.Swipe(context.Background(), 20, 10, "like")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.MatchCreated {
		t.Fatalf("mutual like must report a created match")
	}
	if result.Match.ID != 7 {
		t.Fatalf("unexpected match record: %+v", result.Match)
	}
	if len(swipeStore.created) != 1 {
		t.Fatalf("expected the like to be recorded, got %+v", swipeStore.created)
	}
}

func TestSwipeMutualLikeLostInsertRace(t *testing.T) {
	// The canonical-order unique index may swallow the insert when a
	// concurrent transaction already created the pair.
	swipeStore := &swipeStoreStub{likeExists: true}
	matchStore := &matchStoreStub{created: false}
	svc := newTestService(swipeStore, matchStore)

	result, err := svc.Swipe(context.Background(), 20, 10, "like")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MatchCreated {
		t.Fatalf("a lost insert race must not be reported as a new match")
	}
	if matchStore.calls != 1 {
		t.Fatalf("expected one insert attempt, got %d", matchStore.calls)
	}
}

func TestSwipeActionNormalized(t *testing.T) {
	swipeStore := &swipeStoreStub{}
	svc := newTestService(swipeStore, &matchStoreStub{})

	result, err := svc.Swipe(context.Background(), 10, 20, "  LIKE ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Action != enums.SwipeActionLike {
		t.Fatalf("unexpected action: %s", result.Action)
	}
	if swipeStore.created[0].Action != "like" {
		t.Fatalf("stored action must be lower-cased, got %q", swipeStore.created[0].Action)
	}
}

func TestSwipeRejectsUnsupportedAction(t *testing.T) {
	svc := newTestService(&swipeStoreStub{}, &matchStoreStub{})

	if _, err := svc.Swipe(context.Background(), 10, 20, "superlike"); !errors.Is(err, ErrUnsupportedAction) {
		t.Fatalf("expected ErrUnsupportedAction, got %v", err)
	}
}

func TestSwipeRejectsBadIdentifiers(t *testing.T) {
	svc := newTestService(&swipeStoreStub{}, &matchStoreStub{})

	if _, err := svc.Swipe(context.Background(), 0, 20, "like"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for zero actor, got %v", err)
	}
	if _, err := svc.Swipe(context.Background(), 10, -1, "like"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for negative target, got %v", err)
	}
}

func TestSwipeStoreErrorAbortsTransaction(t *testing.T) {
	storeErr := errors.New("insert failed")
	swipeStore := &swipeStoreStub{createErr: storeErr}
	matchStore := &matchStoreStub{}
	svc := newTestService(swipeStore, matchStore)

	if _, err := svc.Swipe(context.Background(), 10, 20, "like"); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if matchStore.calls != 0 {
		t.Fatalf("match store must not be reached after a failed insert")
	}
}
