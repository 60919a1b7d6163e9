package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/leadline/crm-server/internal/database"
	"github.com/leadline/crm-server/internal/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	RecordLogin(ctx context.Context, id string, loginAt, tokenExpiry time.Time) error
	// ClearExpiredTokenExpiry forgets stored expiries that are already in the past.
	ClearExpiredTokenExpiry(ctx context.Context, now time.Time) (int64, error)
}

type userRepo struct {
	db database.DBTX
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	return HandleNotFound(&user, err)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	return HandleNotFound(&user, err)
}

// RecordLogin stamps the login time and the expiry of the token issued with it.
// The stored expiry is informational; token verification never reads it.
func (r *userRepo) RecordLogin(ctx context.Context, id string, loginAt, tokenExpiry time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			last_login_at = $2,
			current_token_expiry = $3,
			updated_at = $2
		WHERE id = $1
	`, id, loginAt, tokenExpiry)
	return err
}

func (r *userRepo) ClearExpiredTokenExpiry(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET current_token_expiry = NULL
		WHERE current_token_expiry IS NOT NULL AND current_token_expiry <= $1
	`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
