package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SwipeRepo struct {
	pool *pgxpool.Pool
}

type SwipeRecord struct {
	ID        int64
	SwiperID  int64
	SwipedID  int64
	Action    string
	CreatedAt time.Time
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// Create appends one swipe row. Rows are never updated or deleted, and
// duplicate (swiper, swiped) pairs are allowed by the schema.
func (r *SwipeRepo) Create(ctx context.Context, tx pgx.Tx, swiperID, swipedID int64, action string) (SwipeRecord, error) {
	if swiperID <= 0 || swipedID <= 0 || strings.TrimSpace(action) == "" {
		return SwipeRecord{}, fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return SwipeRecord{}, fmt.Errorf("transaction is required")
	}

	var rec SwipeRecord
	err := tx.QueryRow(ctx, `
INSERT INTO swipes (
	swiper_id,
	swiped_id,
	action,
	created_at
) VALUES ($1, $2, $3, NOW())
RETURNING id, swiper_id, swiped_id, action, created_at
`, swiperID, swipedID, strings.ToLower(strings.TrimSpace(action))).Scan(
		&rec.ID,
		&rec.SwiperID,
		&rec.SwipedID,
		&rec.Action,
		&rec.CreatedAt,
	)
	if err != nil {
		return SwipeRecord{}, fmt.Errorf("create swipe: %w", err)
	}

	return rec, nil
}

// LikeExists reports whether fromID has a recorded like for toID.
func (r *SwipeRepo) LikeExists(ctx context.Context, tx pgx.Tx, fromID, toID int64) (bool, error) {
	if fromID <= 0 || toID <= 0 {
		return false, fmt.Errorf("invalid like lookup payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE swiper_id = $1 AND swiped_id = $2 AND action = 'like'
LIMIT 1
`, fromID, toID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup reciprocal like: %w", err)
	}

	return true, nil
}
