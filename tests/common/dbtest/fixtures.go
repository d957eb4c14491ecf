//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// シーズン・グローバル設定以外のテーブル。サブテスト毎に空にする。
var mutableTables = []string{
	"membership_records",
	"guest_signups",
	"users",
}

// TestSeason は全E2Eテストが前提とするシーズン。
const TestSeason = "2025"

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active)
		VALUES ($1, $2, $3, 'Test', 'User', $4, true)
		ON CONFLICT (email) DO NOTHING`,
		userID, email, testPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

// SeedReferenceData は作業シーズンとシーズン設定を投入する。
// 6月1日〜9月1日、日次25人・個人5人の既定値。
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO season_settings (season, range_start, range_end, visible)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (season) DO UPDATE SET
			range_start = EXCLUDED.range_start,
			range_end = EXCLUDED.range_end,
			guest_cap_per_day = 25,
			guest_cap_per_person = 5,
			visible = true`,
		TestSeason, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO app_settings (id, working_season) VALUES ('global', $1)
		ON CONFLICT (id) DO UPDATE SET working_season = EXCLUDED.working_season`,
		TestSeason)
	return err
}

// ResetDB は可変テーブルを空にして参照データを入れ直す。
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, table := range mutableTables {
		if _, err := pool.Exec(ctx, "TRUNCATE "+table+" CASCADE"); err != nil {
			return err
		}
	}

	return SeedReferenceData(pool)
}

// SetDayCap はシーズンの日次上限を直接書き換える。容量試験用。
func SetDayCap(t *testing.T, db DBLike, season string, cap int) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		"UPDATE season_settings SET guest_cap_per_day = $1 WHERE season = $2", cap, season)
	require.NoError(t, err)
}
