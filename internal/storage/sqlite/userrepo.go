package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/lumen-wallet/internal/model"
)

// UserRepo stores principals and their login password hashes.
type UserRepo struct {
	db  *DB
	now func() time.Time
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db, now: time.Now}
}

// Create inserts a user. Returns model.ErrUserExists if the username is taken.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	createdAt := r.now().UTC()

	const query = `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)
		ON CONFLICT(username) DO NOTHING`
	res, err := r.db.Writer.ExecContext(ctx, query, username, passwordHash, formatTime(createdAt))
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	if n == 0 {
		return nil, model.ErrUserExists
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}

	return &model.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

// GetByUsername returns the user or model.ErrUserNotFound.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`
	return r.scanOne(ctx, query, username)
}

// GetByID returns the user or model.ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE id = ?`
	return r.scanOne(ctx, query, id)
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	var createdAt string
	err := r.db.Reader.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes the user and, through the foreign key, their wallet.
// Returns model.ErrUserNotFound if no such user exists.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	const query = `DELETE FROM users WHERE username = ?`
	res, err := r.db.Writer.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("delete user %q: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user %q: %w", username, err)
	}
	if n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
