package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPreferencesNotFound = errors.New("preferences not found")

type PreferenceRepo struct {
	pool *pgxpool.Pool
}

type PreferenceRecord struct {
	UserID     int64
	LookingFor string
	MinAge     int
	MaxAge     int
	CreatedAt  time.Time
}

func NewPreferenceRepo(pool *pgxpool.Pool) *PreferenceRepo {
	return &PreferenceRepo{pool: pool}
}

func (r *PreferenceRepo) Find(ctx context.Context, userID int64) (PreferenceRecord, error) {
	if r.pool == nil {
		return PreferenceRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return PreferenceRecord{}, fmt.Errorf("invalid user id")
	}

	var prefs PreferenceRecord
	err := r.pool.QueryRow(ctx, `
SELECT user_id, looking_for_gender, min_age, max_age, created_at
FROM preferences
WHERE user_id = $1
`, userID).Scan(
		&prefs.UserID,
		&prefs.LookingFor,
		&prefs.MinAge,
		&prefs.MaxAge,
		&prefs.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PreferenceRecord{}, ErrPreferencesNotFound
		}
		return PreferenceRecord{}, fmt.Errorf("find preferences: %w", err)
	}

	return prefs, nil
}

func (r *PreferenceRepo) Create(ctx context.Context, tx pgx.Tx, prefs PreferenceRecord) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if prefs.UserID <= 0 || prefs.MinAge > prefs.MaxAge {
		return fmt.Errorf("invalid preferences payload")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO preferences (
	user_id,
	looking_for_gender,
	min_age,
	max_age,
	created_at
) VALUES ($1, $2, $3, $4, NOW())
`, prefs.UserID, prefs.LookingFor, prefs.MinAge, prefs.MaxAge); err != nil {
		return fmt.Errorf("create preferences: %w", err)
	}

	return nil
}
