package repository

import (
	"context"
	"errors"

	"couponkeeper/internal/domain/multicoupon"
	"couponkeeper/internal/infra"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const definitionColumns = `id, name, store_ids, is_active, created_at, updated_at`

type DefinitionRepository struct {
	db *pgxpool.Pool
}

func NewDefinitionRepository(db *pgxpool.Pool) *DefinitionRepository {
	return &DefinitionRepository{db: db}
}

func (r *DefinitionRepository) Create(ctx context.Context, d *multicoupon.Definition) (*readmodel.DefinitionRM, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO multi_coupon_definitions (id, name, store_ids, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING `+definitionColumns,
		d.ID(), d.Name().String(), storeIDsParam(d.StoreIDs()), d.IsActive(), d.CreatedAt(),
	)

	rm, err := scanDefinition(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, infra.WrapRepoErr("definition name already exists", err, infra.KindDuplicateKey)
		}
		return nil, infra.WrapRepoErr("failed to create definition", err)
	}
	return rm, nil
}

func (r *DefinitionRepository) Update(ctx context.Context, d *multicoupon.Definition) (*readmodel.DefinitionRM, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE multi_coupon_definitions
		SET name = $1, store_ids = $2, is_active = $3, updated_at = $4
		WHERE id = $5
		RETURNING `+definitionColumns,
		d.Name().String(), storeIDsParam(d.StoreIDs()), d.IsActive(), d.UpdatedAt(), d.ID(),
	)

	rm, err := scanDefinition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("definition not found", err, infra.KindNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, infra.WrapRepoErr("definition name already exists", err, infra.KindDuplicateKey)
		}
		return nil, infra.WrapRepoErr("failed to update definition", err)
	}
	return rm, nil
}

func (r *DefinitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM multi_coupon_definitions WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete definition", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("definition not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *DefinitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.DefinitionRM, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+definitionColumns+` FROM multi_coupon_definitions WHERE id = $1`, id,
	)

	rm, err := scanDefinition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("definition not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find definition by ID", err)
	}
	return rm, nil
}

// FindActiveByName performs the resolver lookup: exact name match,
// case-insensitive, active definitions only.
func (r *DefinitionRepository) FindActiveByName(ctx context.Context, name string) (*readmodel.DefinitionRM, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+definitionColumns+`
		FROM multi_coupon_definitions
		WHERE lower(name) = lower($1) AND is_active`,
		name,
	)

	rm, err := scanDefinition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("definition not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find definition by name", err)
	}
	return rm, nil
}

func (r *DefinitionRepository) List(ctx context.Context) ([]*readmodel.DefinitionRM, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+definitionColumns+` FROM multi_coupon_definitions ORDER BY lower(name)`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list definitions", err)
	}
	defer rows.Close()

	var result []*readmodel.DefinitionRM
	for rows.Next() {
		rm, err := scanDefinition(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan definition row", err)
		}
		result = append(result, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate definition rows", err)
	}
	return result, nil
}

// ListActiveNames backs the user-facing lookup of known program names.
func (r *DefinitionRepository) ListActiveNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name FROM multi_coupon_definitions WHERE is_active ORDER BY lower(name)`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list definition names", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, infra.WrapRepoErr("failed to scan definition name", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func scanDefinition(row pgx.Row) (*readmodel.DefinitionRM, error) {
	var rm readmodel.DefinitionRM
	err := row.Scan(&rm.ID, &rm.Name, &rm.StoreIDs, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}
