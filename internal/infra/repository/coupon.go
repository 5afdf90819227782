package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"couponkeeper/internal/domain/coupon"
	"couponkeeper/internal/infra"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const couponColumns = `
	id, group_id, created_by, type, title, store_id, multi_coupon_name,
	mapping_status, resolved_store_ids, expiry_date, total_amount_cents,
	used_amount_cents, remaining_amount_cents, currency, status, notes,
	created_at, updated_at`

type CouponRepository struct {
	db *pgxpool.Pool
}

func NewCouponRepository(db *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) (*readmodel.CouponRM, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO coupons (
			id, group_id, created_by, type, title, store_id, multi_coupon_name,
			mapping_status, resolved_store_ids, expiry_date, total_amount_cents,
			used_amount_cents, remaining_amount_cents, currency, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
		RETURNING `+couponColumns,
		c.ID(), c.GroupID(), c.CreatedBy(), c.Type().String(), c.Title().String(),
		c.StoreID(), nullableString(c.MultiCouponName()), c.MappingStatus().String(),
		storeIDsParam(c.ResolvedStoreIDs()), c.ExpiryDate(), c.TotalCents(),
		c.UsedCents(), c.RemainingCents(), c.Currency().String(), c.Status().String(),
		nullableString(c.Notes()), c.CreatedAt(),
	)

	rm, err := scanCoupon(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, infra.WrapRepoErr("coupon references missing group/store/user", err, infra.KindForeignKeyViolated)
		}
		return nil, infra.WrapRepoErr("failed to create coupon", err)
	}
	return rm, nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id, groupID uuid.UUID) (*readmodel.CouponRM, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE id = $1 AND group_id = $2`,
		id, groupID,
	)

	rm, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by ID", err)
	}

	if err := r.attachImages(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

var couponSortColumns = map[string]string{
	"expiryDate":      "expiry_date",
	"remainingAmount": "remaining_amount_cents",
	"createdAt":       "created_at",
}

func (r *CouponRepository) List(ctx context.Context, groupID uuid.UUID, filters readmodel.CouponListFilters, now time.Time) ([]*readmodel.CouponRM, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE group_id = $1`
	args := []any{groupID}

	if filters.StoreID != nil {
		args = append(args, *filters.StoreID)
		n := len(args)
		query += fmt.Sprintf(
			` AND ((type = 'SINGLE' AND store_id = $%d) OR (type = 'MULTI' AND mapping_status = 'MAPPED' AND $%d = ANY(resolved_store_ids)))`,
			n, n,
		)
	}
	if filters.Status != nil {
		args = append(args, *filters.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filters.MappingStatus != nil {
		args = append(args, *filters.MappingStatus)
		query += fmt.Sprintf(` AND mapping_status = $%d`, len(args))
	}
	if filters.ExpiringInDays != nil {
		args = append(args, now, now.AddDate(0, 0, *filters.ExpiringInDays))
		query += fmt.Sprintf(` AND expiry_date >= $%d AND expiry_date <= $%d`, len(args)-1, len(args))
	}
	if filters.Search != nil {
		args = append(args, "%"+*filters.Search+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (title ILIKE $%d OR multi_coupon_name ILIKE $%d)`, n, n)
	}

	sortCol, ok := couponSortColumns[filters.Sort]
	if !ok {
		sortCol = "expiry_date"
	}
	dir := "ASC"
	if filters.Order == "desc" {
		dir = "DESC"
	}
	query += fmt.Sprintf(` ORDER BY %s %s, id`, sortCol, dir)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	return scanCoupons(rows)
}

// UpdateUsage performs the conditional balance write: the row is updated only
// if used_amount_cents still equals the value the caller planned against.
// Zero matched rows means a concurrent writer won; the caller surfaces a
// conflict and may retry with fresh data.
func (r *CouponRepository) UpdateUsage(ctx context.Context, id, groupID uuid.UUID, change coupon.UsageChange, now time.Time) (*readmodel.CouponRM, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE coupons
		SET used_amount_cents = $1,
		    remaining_amount_cents = $2,
		    status = $3,
		    updated_at = $4
		WHERE id = $5 AND group_id = $6 AND used_amount_cents = $7
		RETURNING `+couponColumns,
		change.UsedCents, change.RemainingCents, change.Status.String(), now,
		id, groupID, change.PriorUsedCents,
	)

	rm, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("usage update lost to a concurrent writer", err, infra.KindConflict)
		}
		return nil, infra.WrapRepoErr("failed to update coupon usage", err)
	}
	return rm, nil
}

// Update persists field edits and cancellation. Last-write-wins.
func (r *CouponRepository) Update(ctx context.Context, c *coupon.Coupon) (*readmodel.CouponRM, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE coupons
		SET title = $1,
		    expiry_date = $2,
		    total_amount_cents = $3,
		    remaining_amount_cents = $4,
		    status = $5,
		    notes = $6,
		    updated_at = $7
		WHERE id = $8 AND group_id = $9
		RETURNING `+couponColumns,
		c.Title().String(), c.ExpiryDate(), c.TotalCents(), c.RemainingCents(),
		c.Status().String(), nullableString(c.Notes()), c.UpdatedAt(),
		c.ID(), c.GroupID(),
	)

	rm, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to update coupon", err)
	}
	return rm, nil
}

func (r *CouponRepository) Delete(ctx context.Context, id, groupID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM coupons WHERE id = $1 AND group_id = $2`, id, groupID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

// FindUnmappedByName returns UNMAPPED MULTI coupons whose program name equals
// the given name case-insensitively, for the resolve-unmapped batch.
func (r *CouponRepository) FindUnmappedByName(ctx context.Context, name string) ([]*readmodel.CouponRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE type = 'MULTI'
		  AND mapping_status = 'UNMAPPED'
		  AND lower(multi_coupon_name) = lower($1)`,
		name,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find unmapped coupons", err)
	}
	defer rows.Close()

	return scanCoupons(rows)
}

// Remap snapshots a definition's stores onto a previously-unmapped coupon.
func (r *CouponRepository) Remap(ctx context.Context, id uuid.UUID, storeIDs []uuid.UUID, now time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET mapping_status = 'MAPPED', resolved_store_ids = $1, updated_at = $2
		WHERE id = $3`,
		storeIDsParam(storeIDs), now, id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to remap coupon", err)
	}
	return nil
}

// BulkExpire transitions every overdue, non-terminal, non-expired coupon to
// EXPIRED in one conditional statement. It intentionally bypasses the usage
// ledger: no balance column is touched, so the optimistic guard cannot trip.
func (r *CouponRepository) BulkExpire(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET status = 'EXPIRED', updated_at = $1
		WHERE expiry_date < $1
		  AND status NOT IN ('USED', 'CANCELLED', 'EXPIRED')`,
		now,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to bulk-expire coupons", err)
	}
	return tag.RowsAffected(), nil
}

// FindExpiringInWindow returns non-terminal, non-expired coupons in the given
// groups whose expiry falls inside [from, to), one day-bucket of the sweep.
func (r *CouponRepository) FindExpiringInWindow(ctx context.Context, groupIDs []uuid.UUID, from, to time.Time) ([]*readmodel.CouponRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE group_id = ANY($1)
		  AND expiry_date >= $2 AND expiry_date < $3
		  AND status NOT IN ('USED', 'CANCELLED', 'EXPIRED')`,
		groupIDs, from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find expiring coupons", err)
	}
	defer rows.Close()

	return scanCoupons(rows)
}

func (r *CouponRepository) attachImages(ctx context.Context, rm *readmodel.CouponRM) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, url, file_name, mime_type, is_primary, created_at
		FROM coupon_images
		WHERE coupon_id = $1
		ORDER BY created_at, id`,
		rm.ID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to load coupon images", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img readmodel.CouponImageRM
		if err := rows.Scan(&img.ID, &img.URL, &img.FileName, &img.MimeType, &img.IsPrimary, &img.CreatedAt); err != nil {
			return infra.WrapRepoErr("failed to scan coupon image", err)
		}
		rm.Images = append(rm.Images, img)
	}
	return rows.Err()
}

func scanCoupon(row pgx.Row) (*readmodel.CouponRM, error) {
	var rm readmodel.CouponRM
	err := row.Scan(
		&rm.ID, &rm.GroupID, &rm.CreatedBy, &rm.Type, &rm.Title, &rm.StoreID,
		&rm.MultiCouponName, &rm.MappingStatus, &rm.ResolvedStoreIDs,
		&rm.ExpiryDate, &rm.TotalAmountCents, &rm.UsedAmountCents,
		&rm.RemainingAmountCents, &rm.Currency, &rm.Status, &rm.Notes,
		&rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func scanCoupons(rows pgx.Rows) ([]*readmodel.CouponRM, error) {
	var result []*readmodel.CouponRM
	for rows.Next() {
		rm, err := scanCoupon(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon row", err)
		}
		result = append(result, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupon rows", err)
	}
	return result, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// storeIDsParam normalizes nil to an empty array so the column never stores NULL.
func storeIDsParam(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
