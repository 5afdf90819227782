package repository

import (
	"context"
	"errors"
	"time"

	"couponkeeper/internal/domain/user"
	"couponkeeper/internal/infra"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*readmodel.AuthorizedUserRM, string, error) {
	var rm readmodel.AuthorizedUserRM
	var passwordHash string
	err := r.db.QueryRow(ctx, `
		SELECT id, email, display_name, app_role, is_active, password_hash
		FROM users
		WHERE lower(email) = lower($1)`,
		email.Value(),
	).Scan(&rm.ID, &rm.Email, &rm.DisplayName, &rm.AppRole, &rm.IsActive, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return &rm, passwordHash, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.AuthorizedUserRM, error) {
	var rm readmodel.AuthorizedUserRM
	err := r.db.QueryRow(ctx, `
		SELECT id, email, display_name, app_role, is_active
		FROM users
		WHERE id = $1`,
		id,
	).Scan(&rm.ID, &rm.Email, &rm.DisplayName, &rm.AppRole, &rm.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &rm, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, now time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`,
		now, userID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}

// ListNotifiableAdminEmails implements the administrator roster used for
// unmapped-coupon alerts: every active super admin's email address.
func (r *UserRepository) ListNotifiableAdminEmails(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT email FROM users WHERE app_role = 'super_admin' AND is_active`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list admin emails", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, infra.WrapRepoErr("failed to scan admin email", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
