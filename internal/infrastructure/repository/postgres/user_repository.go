package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-slots/internal/domain/user"
	qb "github.com/riskibarqy/cricket-slots/internal/platform/querybuilder"
)

// UserRepository reads the participant directory. Rows are owned by the
// surrounding application.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ListEligible(ctx context.Context) ([]user.User, error) {
	return r.list(ctx, "list eligible users", qb.Eq("is_active", true))
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select("public_id", "display_name", "is_active").
		From("users").
		Where(qb.Eq("public_id", userID)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user id=%s: %w", userID, err)
	}
	return userFromRow(row), true, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	ids := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		ids = append(ids, id)
	}
	return r.list(ctx, "list users by ids", qb.In("public_id", ids))
}

func (r *UserRepository) list(ctx context.Context, op string, conds ...qb.Condition) ([]user.User, error) {
	query, args, err := qb.Select("public_id", "display_name", "is_active").
		From("users").
		Where(conds...).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:          row.PublicID,
		DisplayName: row.DisplayName,
		Active:      row.IsActive,
	}
}
