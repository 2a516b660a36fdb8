package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-slots/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the demo participants when the users table is empty.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users`); err != nil {
		return fmt.Errorf("count users for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	return withTx(ctx, db, "bootstrap seed", func(tx *sqlx.Tx) error {
		for _, u := range memory.SeedUsers() {
			sqlQuery, args, err := sqlx.Named(`
INSERT INTO users (public_id, display_name, is_active)
VALUES (:public_id, :display_name, :is_active)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
				"public_id":    u.ID,
				"display_name": u.DisplayName,
				"is_active":    u.Active,
			})
			if err != nil {
				return fmt.Errorf("bind seed user %s query: %w", u.ID, err)
			}
			sqlQuery = tx.Rebind(sqlQuery)
			if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}
		return nil
	})
}
