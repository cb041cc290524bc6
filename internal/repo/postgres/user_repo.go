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

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	UserID    int64
	Name      string
	Age       int
	Gender    string
	Bio       string
	Location  string
	IsActive  bool
	CreatedAt time.Time
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Find(ctx context.Context, userID int64) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT user_id, name, age, gender, COALESCE(bio, ''), COALESCE(location, ''), is_active, created_at
FROM users
WHERE user_id = $1
`, userID).Scan(
		&user.UserID,
		&user.Name,
		&user.Age,
		&user.Gender,
		&user.Bio,
		&user.Location,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) Create(ctx context.Context, tx pgx.Tx, user UserRecord) (UserRecord, error) {
	if tx == nil {
		return UserRecord{}, fmt.Errorf("transaction is required")
	}
	if user.UserID <= 0 || strings.TrimSpace(user.Name) == "" || user.Age < 18 {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}

	var created UserRecord
	err := tx.QueryRow(ctx, `
INSERT INTO users (
	user_id,
	name,
	age,
	gender,
	bio,
	location,
	is_active,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW())
RETURNING user_id, name, age, gender, COALESCE(bio, ''), COALESCE(location, ''), is_active, created_at
`, user.UserID, strings.TrimSpace(user.Name), user.Age, user.Gender, user.Bio, user.Location).Scan(
		&created.UserID,
		&created.Name,
		&created.Age,
		&created.Gender,
		&created.Bio,
		&created.Location,
		&created.IsActive,
		&created.CreatedAt,
	)
	if err != nil {
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	return created, nil
}
