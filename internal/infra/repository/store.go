package repository

import (
	"context"
	"errors"
	"time"

	"couponkeeper/internal/infra"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreRepository struct {
	db *pgxpool.Pool
}

func NewStoreRepository(db *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) Create(ctx context.Context, name string, now time.Time) (*readmodel.StoreRM, error) {
	var rm readmodel.StoreRM
	err := r.db.QueryRow(ctx, `
		INSERT INTO stores (id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, true, $3, $3)
		RETURNING id, name, is_active, created_at, updated_at`,
		uuid.New(), name, now,
	).Scan(&rm.ID, &rm.Name, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, infra.WrapRepoErr("store name already exists", err, infra.KindDuplicateKey)
		}
		return nil, infra.WrapRepoErr("failed to create store", err)
	}
	return &rm, nil
}

func (r *StoreRepository) Update(ctx context.Context, id uuid.UUID, name string, isActive bool, now time.Time) (*readmodel.StoreRM, error) {
	var rm readmodel.StoreRM
	err := r.db.QueryRow(ctx, `
		UPDATE stores SET name = $1, is_active = $2, updated_at = $3
		WHERE id = $4
		RETURNING id, name, is_active, created_at, updated_at`,
		name, isActive, now, id,
	).Scan(&rm.ID, &rm.Name, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("store not found", err, infra.KindNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, infra.WrapRepoErr("store name already exists", err, infra.KindDuplicateKey)
		}
		return nil, infra.WrapRepoErr("failed to update store", err)
	}
	return &rm, nil
}

func (r *StoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return infra.WrapRepoErr("store is referenced by coupons", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to delete store", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("store not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *StoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.StoreRM, error) {
	var rm readmodel.StoreRM
	err := r.db.QueryRow(ctx, `
		SELECT id, name, is_active, created_at, updated_at
		FROM stores WHERE id = $1`,
		id,
	).Scan(&rm.ID, &rm.Name, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("store not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find store by ID", err)
	}
	return &rm, nil
}

func (r *StoreRepository) List(ctx context.Context, activeOnly bool) ([]*readmodel.StoreRM, error) {
	query := `SELECT id, name, is_active, created_at, updated_at FROM stores`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY lower(name)`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stores", err)
	}
	defer rows.Close()

	var result []*readmodel.StoreRM
	for rows.Next() {
		var rm readmodel.StoreRM
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan store row", err)
		}
		result = append(result, &rm)
	}
	return result, rows.Err()
}
