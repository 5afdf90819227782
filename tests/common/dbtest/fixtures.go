//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, appRole string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, password_hash, display_name, app_role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (lower(email)) DO NOTHING",
		userID, email, testPasswordHash, email, appRole)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = lower($1)", email).Scan(&userID)
	}

	return userID
}

func CreateTestGroup(t *testing.T, db DBLike, name string, createdBy uuid.UUID) uuid.UUID {
	t.Helper()

	groupID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO groups (id, name, created_by) VALUES ($1, $2, $3)",
		groupID, name, createdBy)
	require.NoError(t, err)

	// creator joins as admin
	AddGroupMember(t, db, groupID, createdBy, "admin")

	return groupID
}

func AddGroupMember(t *testing.T, db DBLike, groupID, userID uuid.UUID, role string) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, "INSERT INTO group_members (group_id, user_id, role, status) VALUES ($1, $2, $3, 'active') ON CONFLICT (group_id, user_id) DO UPDATE SET role = EXCLUDED.role, status = 'active'",
		groupID, userID, role)
	require.NoError(t, err)
}

func CreateTestStore(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	storeID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO stores (id, name, is_active) VALUES ($1, $2, true) ON CONFLICT (lower(name)) DO NOTHING", storeID, name)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM stores WHERE lower(name) = lower($1)", name).Scan(&storeID)
	}

	return storeID
}

func CreateTestDefinition(t *testing.T, db DBLike, name string, storeIDs []uuid.UUID) uuid.UUID {
	t.Helper()

	defID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO multi_coupon_definitions (id, name, store_ids, is_active) VALUES ($1, $2, $3, true) ON CONFLICT (lower(name)) DO NOTHING",
		defID, name, storeIDs)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM multi_coupon_definitions WHERE lower(name) = lower($1)", name).Scan(&defID)
	}

	return defID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO users (email, password_hash, display_name, app_role, is_active) VALUES
		    ('seed-admin@example.com', '`+testPasswordHash+`', 'Seed Admin', 'super_admin', true)
		ON CONFLICT (lower(email)) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO stores (name, is_active) VALUES
		    ('Cafe Aroma', true),
		    ('Super Pharm', true),
		    ('Golda', true)
		ON CONFLICT (lower(name)) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
