package matches

import (
	"context"
	"errors"
	"testing"

	pgrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/postgres"
)

type matchStoreStub struct {
	records   []pgrepo.MatchedUserRecord
	lastLimit int
	err       error
}

func (s *matchStoreStub) ListActiveForUser(_ context.Context, _ int64, limit int) ([]pgrepo.MatchedUserRecord, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func TestListReturnsMatches(t *testing.T) {
	store := &matchStoreStub{records: []pgrepo.MatchedUserRecord{
		{MatchID: 2, UserID: 30, Name: "Carol", Age: 27},
		{MatchID: 1, UserID: 20, Name: "Bob", Age: 31},
	}}
	svc := NewService(store)

	got, err := svc.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Carol" {
		t.Fatalf("unexpected matches: %+v", got)
	}
	if store.lastLimit != defaultLimit {
		t.Fatalf("unexpected limit: %d", store.lastLimit)
	}
}

func TestListEmptyIsNotAnError(t *testing.T) {
	svc := NewService(&matchStoreStub{})

	got, err := svc.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestListRejectsBadUserID(t *testing.T) {
	svc := NewService(&matchStoreStub{})

	if _, err := svc.List(context.Background(), 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("query failed")
	svc := NewService(&matchStoreStub{err: storeErr})

	if _, err := svc.List(context.Background(), 10); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
