package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoCandidate = errors.New("no candidate available")

type CandidateRepo struct {
	pool *pgxpool.Pool
}

type CandidateRecord struct {
	UserID   int64
	Name     string
	Age      int
	Gender   string
	Bio      string
	Location string
}

func NewCandidateRepo(pool *pgxpool.Pool) *CandidateRepo {
	return &CandidateRepo{pool: pool}
}

// FirstEligible returns the single next active profile in the viewer's
// age range, excluding the viewer and everyone the viewer already has
// any swipe row against. Order is created_at ASC, user_id ASC, so the
// oldest profile surfaces first; the gender filter is applied by the
// caller on this one row.
func (r *CandidateRepo) FirstEligible(ctx context.Context, viewerID int64, minAge, maxAge int) (CandidateRecord, error) {
	if viewerID <= 0 {
		return CandidateRecord{}, fmt.Errorf("invalid viewer id")
	}
	if minAge > maxAge {
		return CandidateRecord{}, fmt.Errorf("invalid age range")
	}
	if r.pool == nil {
		return CandidateRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec CandidateRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	u.user_id,
	u.name,
	u.age,
	u.gender,
	COALESCE(u.bio, ''),
	COALESCE(u.location, '')
FROM users u
WHERE
	u.is_active = TRUE
	AND u.user_id <> $1
	AND u.age BETWEEN $2 AND $3
	AND NOT EXISTS (
		SELECT 1
		FROM swipes s
		WHERE s.swiper_id = $1
			AND s.swiped_id = u.user_id
	)
ORDER BY u.created_at ASC, u.user_id ASC
LIMIT 1
`, viewerID, minAge, maxAge).Scan(
		&rec.UserID,
		&rec.Name,
		&rec.Age,
		&rec.Gender,
		&rec.Bio,
		&rec.Location,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CandidateRecord{}, ErrNoCandidate
		}
		return CandidateRecord{}, fmt.Errorf("select first eligible candidate: %w", err)
	}

	return rec, nil
}
