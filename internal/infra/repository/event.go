package repository

import (
	"context"
	"errors"
	"time"

	"couponkeeper/internal/domain/multicoupon"
	"couponkeeper/internal/infra"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `
	id, multi_coupon_name, coupon_id, group_id, created_by, status,
	admin_notified_at, handled_at, notes, created_at, updated_at`

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *multicoupon.Event) (*readmodel.UnmappedEventRM, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO unmapped_multi_coupon_events (
			id, multi_coupon_name, coupon_id, group_id, created_by, status,
			admin_notified_at, handled_at, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING `+eventColumns,
		e.ID(), e.MultiCouponName(), e.CouponID(), e.GroupID(), e.CreatedBy(),
		e.Status().String(), e.AdminNotifiedAt(), e.HandledAt(), e.Notes(), e.CreatedAt(),
	)

	rm, err := scanEvent(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to create unmapped event", err)
	}
	return rm, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.UnmappedEventRM, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM unmapped_multi_coupon_events WHERE id = $1`, id,
	)

	rm, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("unmapped event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find unmapped event", err)
	}
	return rm, nil
}

func (r *EventRepository) List(ctx context.Context, status *string) ([]*readmodel.UnmappedEventRM, error) {
	query := `SELECT ` + eventColumns + ` FROM unmapped_multi_coupon_events`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list unmapped events", err)
	}
	defer rows.Close()

	var result []*readmodel.UnmappedEventRM
	for rows.Next() {
		rm, err := scanEvent(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan unmapped event row", err)
		}
		result = append(result, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate unmapped event rows", err)
	}
	return result, nil
}

func (r *EventRepository) Update(ctx context.Context, e *multicoupon.Event) (*readmodel.UnmappedEventRM, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE unmapped_multi_coupon_events
		SET status = $1, handled_at = $2, notes = $3, updated_at = $4
		WHERE id = $5
		RETURNING `+eventColumns,
		e.Status().String(), e.HandledAt(), e.Notes(), e.UpdatedAt(), e.ID(),
	)

	rm, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("unmapped event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to update unmapped event", err)
	}
	return rm, nil
}

// MarkHandledForCoupon closes every open event of a coupon after a
// resolve-unmapped batch mapped it.
func (r *EventRepository) MarkHandledForCoupon(ctx context.Context, couponID uuid.UUID, now time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE unmapped_multi_coupon_events
		SET status = 'handled', handled_at = $1, updated_at = $1
		WHERE coupon_id = $2 AND status = 'open'`,
		now, couponID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark events handled", err)
	}
	return nil
}

func scanEvent(row pgx.Row) (*readmodel.UnmappedEventRM, error) {
	var rm readmodel.UnmappedEventRM
	err := row.Scan(
		&rm.ID, &rm.MultiCouponName, &rm.CouponID, &rm.GroupID, &rm.CreatedBy,
		&rm.Status, &rm.AdminNotifiedAt, &rm.HandledAt, &rm.Notes,
		&rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}
