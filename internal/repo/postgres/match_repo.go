package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

type MatchRecord struct {
	ID        int64
	UserAID   int64
	UserBID   int64
	IsActive  bool
	CreatedAt time.Time
}

type MatchedUserRecord struct {
	MatchID   int64
	UserID    int64
	Name      string
	Age       int
	CreatedAt time.Time
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// Create inserts the match in canonical ascending order. The unique
// (user_a_id, user_b_id) index plus ON CONFLICT DO NOTHING makes the
// insert race-safe: when both sides' likes land concurrently, only one
// caller observes created=true.
func (r *MatchRepo) Create(ctx context.Context, tx pgx.Tx, userID, targetID int64) (MatchRecord, bool, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return MatchRecord{}, false, fmt.Errorf("invalid match payload")
	}
	if tx == nil {
		return MatchRecord{}, false, fmt.Errorf("transaction is required")
	}

	userA := userID
	userB := targetID
	if userA > userB {
		userA, userB = userB, userA
	}

	var rec MatchRecord
	err := tx.QueryRow(ctx, `
INSERT INTO matches (
	user_a_id,
	user_b_id,
	is_active,
	created_at
) VALUES ($1, $2, TRUE, NOW())
ON CONFLICT (user_a_id, user_b_id) DO NOTHING
RETURNING id, user_a_id, user_b_id, is_active, created_at
`, userA, userB).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.IsActive,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, false, nil
		}
		return MatchRecord{}, false, fmt.Errorf("create match: %w", err)
	}

	return rec, true, nil
}

// ListActiveForUser returns the counterpart user for every active match
// of userID, regardless of which canonical slot userID occupies.
func (r *MatchRepo) ListActiveForUser(ctx context.Context, userID int64, limit int) ([]MatchedUserRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	u.user_id,
	u.name,
	u.age,
	m.created_at
FROM matches m
JOIN users u ON u.user_id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
WHERE
	(m.user_a_id = $1 OR m.user_b_id = $1)
	AND m.is_active = TRUE
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list active matches: %w", err)
	}
	defer rows.Close()

	items := make([]MatchedUserRecord, 0, limit)
	for rows.Next() {
		var item MatchedUserRecord
		if err := rows.Scan(
			&item.MatchID,
			&item.UserID,
			&item.Name,
			&item.Age,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan active match: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate active matches: %w", rows.Err())
	}

	return items, nil
}
