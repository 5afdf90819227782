package repository

import (
	"context"
	"errors"

	"couponkeeper/internal/domain/coupon"
	"couponkeeper/internal/infra"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CouponImageRepository struct {
	db *pgxpool.Pool
}

func NewCouponImageRepository(db *pgxpool.Pool) *CouponImageRepository {
	return &CouponImageRepository{db: db}
}

// Add inserts an image. The first image of a coupon always becomes primary;
// an explicit primary insert demotes the current one. Done in a transaction so
// the one-primary-per-coupon invariant holds at every commit point.
func (r *CouponImageRepository) Add(ctx context.Context, couponID uuid.UUID, img coupon.Image) (*readmodel.CouponImageRM, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to begin image transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var existing int
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM coupon_images WHERE coupon_id = $1`, couponID,
	).Scan(&existing); err != nil {
		return nil, infra.WrapRepoErr("failed to count coupon images", err)
	}

	makePrimary := img.IsPrimary() || existing == 0
	if makePrimary {
		if _, err := tx.Exec(ctx,
			`UPDATE coupon_images SET is_primary = false WHERE coupon_id = $1 AND is_primary`, couponID,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to demote primary image", err)
		}
	}

	var rm readmodel.CouponImageRM
	err = tx.QueryRow(ctx, `
		INSERT INTO coupon_images (id, coupon_id, url, file_name, mime_type, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, url, file_name, mime_type, is_primary, created_at`,
		img.ID(), couponID, img.URL(), img.FileName(), img.MimeType(), makePrimary, img.CreatedAt(),
	).Scan(&rm.ID, &rm.URL, &rm.FileName, &rm.MimeType, &rm.IsPrimary, &rm.CreatedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to insert coupon image", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, infra.WrapRepoErr("failed to commit image transaction", err)
	}
	return &rm, nil
}

// Delete removes an image; if it was primary, the oldest remaining image is
// promoted so a non-empty list always keeps exactly one primary.
func (r *CouponImageRepository) Delete(ctx context.Context, couponID, imageID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin image transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var wasPrimary bool
	err = tx.QueryRow(ctx,
		`DELETE FROM coupon_images WHERE id = $1 AND coupon_id = $2 RETURNING is_primary`,
		imageID, couponID,
	).Scan(&wasPrimary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return infra.WrapRepoErr("coupon image not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to delete coupon image", err)
	}

	if wasPrimary {
		if _, err := tx.Exec(ctx, `
			UPDATE coupon_images SET is_primary = true
			WHERE id = (
				SELECT id FROM coupon_images
				WHERE coupon_id = $1
				ORDER BY created_at, id
				LIMIT 1
			)`, couponID,
		); err != nil {
			return infra.WrapRepoErr("failed to promote replacement primary image", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit image transaction", err)
	}
	return nil
}

func (r *CouponImageRepository) SetPrimary(ctx context.Context, couponID, imageID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin image transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`UPDATE coupon_images SET is_primary = false WHERE coupon_id = $1 AND is_primary`, couponID,
	); err != nil {
		return infra.WrapRepoErr("failed to demote primary image", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE coupon_images SET is_primary = true WHERE id = $1 AND coupon_id = $2`,
		imageID, couponID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to set primary image", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon image not found", nil, infra.KindNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit image transaction", err)
	}
	return nil
}
