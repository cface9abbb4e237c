package repository

import (
	"context"
	"fmt"
	"time"

	"transcatalog/internal/model"
	"transcatalog/internal/snowflake"
)

type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type userRepository struct {
	db dbtx
}

func NewUserRepository(db dbtx) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, email, passwordHash string) (model.User, error) {
	id := snowflake.NextID()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id,
		email,
		passwordHash,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return model.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, email, password_hash, created_at, updated_at FROM users `+where, arg)

	var (
		u                    model.User
		createdAt, updatedAt string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt, _ = parseTime(createdAt)
	u.UpdatedAt, _ = parseTime(updatedAt)
	return u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(
		ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash,
		formatTime(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return nil
}
