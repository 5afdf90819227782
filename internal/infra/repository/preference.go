package repository

import (
	"context"
	"errors"
	"time"

	"couponkeeper/internal/infra"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PreferenceRepository struct {
	db *pgxpool.Pool
}

func NewPreferenceRepository(db *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// FindByUserID returns the stored preference, or the table defaults when the
// user has never saved one.
func (r *PreferenceRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*readmodel.PreferenceRM, error) {
	var rm readmodel.PreferenceRM
	err := r.db.QueryRow(ctx, `
		SELECT user_id, enabled, days_before, timezone, email_digest, updated_at
		FROM notification_preferences WHERE user_id = $1`,
		userID,
	).Scan(&rm.UserID, &rm.Enabled, &rm.DaysBefore, &rm.Timezone, &rm.EmailDigest, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &readmodel.PreferenceRM{
				UserID:      userID,
				Enabled:     true,
				DaysBefore:  []int{3, 7},
				Timezone:    "Asia/Jerusalem",
				EmailDigest: true,
			}, nil
		}
		return nil, infra.WrapRepoErr("failed to find notification preference", err)
	}
	return &rm, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, pref *readmodel.PreferenceRM, now time.Time) (*readmodel.PreferenceRM, error) {
	var rm readmodel.PreferenceRM
	err := r.db.QueryRow(ctx, `
		INSERT INTO notification_preferences (user_id, enabled, days_before, timezone, email_digest, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			enabled      = EXCLUDED.enabled,
			days_before  = EXCLUDED.days_before,
			timezone     = EXCLUDED.timezone,
			email_digest = EXCLUDED.email_digest,
			updated_at   = EXCLUDED.updated_at
		RETURNING user_id, enabled, days_before, timezone, email_digest, updated_at`,
		pref.UserID, pref.Enabled, pref.DaysBefore, pref.Timezone, pref.EmailDigest, now,
	).Scan(&rm.UserID, &rm.Enabled, &rm.DaysBefore, &rm.Timezone, &rm.EmailDigest, &rm.UpdatedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to upsert notification preference", err)
	}
	return &rm, nil
}

// ListEnabled returns every active user whose expiry notifications are on,
// joined with the email address the digest goes to.
func (r *PreferenceRepository) ListEnabled(ctx context.Context) ([]*readmodel.EnabledPreferenceRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.user_id, u.email, p.days_before, p.timezone, p.email_digest
		FROM notification_preferences p
		JOIN users u ON u.id = p.user_id
		WHERE p.enabled AND u.is_active`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list enabled preferences", err)
	}
	defer rows.Close()

	var result []*readmodel.EnabledPreferenceRM
	for rows.Next() {
		var rm readmodel.EnabledPreferenceRM
		if err := rows.Scan(&rm.UserID, &rm.Email, &rm.DaysBefore, &rm.Timezone, &rm.EmailDigest); err != nil {
			return nil, infra.WrapRepoErr("failed to scan preference row", err)
		}
		result = append(result, &rm)
	}
	return result, rows.Err()
}
