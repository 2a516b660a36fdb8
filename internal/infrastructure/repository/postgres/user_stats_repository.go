package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-slots/internal/domain/userstats"
	qb "github.com/riskibarqy/cricket-slots/internal/platform/querybuilder"
)

type UserStatsRepository struct {
	db *sqlx.DB
}

func NewUserStatsRepository(db *sqlx.DB) *UserStatsRepository {
	return &UserStatsRepository{db: db}
}

func (r *UserStatsRepository) Upsert(ctx context.Context, item userstats.Stats) error {
	query, args, err := qb.InsertModel("user_match_stats", userMatchStatsInsertModel{
		MatchID:    item.MatchID,
		UserID:     item.UserID,
		TotalRuns:  item.TotalRuns,
		TotalBalls: item.TotalBalls,
	}, `ON CONFLICT (match_public_id, user_id) DO UPDATE SET
    total_runs = EXCLUDED.total_runs,
    total_balls = EXCLUDED.total_balls,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert user match stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user match stats match=%s user=%s: %w", item.MatchID, item.UserID, err)
	}
	return nil
}

func (r *UserStatsRepository) ListByMatch(ctx context.Context, matchID string) ([]userstats.Stats, error) {
	return r.list(ctx, "list user match stats", qb.Eq("match_public_id", matchID))
}

func (r *UserStatsRepository) ListAll(ctx context.Context) ([]userstats.Stats, error) {
	return r.list(ctx, "list all user match stats")
}

func (r *UserStatsRepository) list(ctx context.Context, op string, conds ...qb.Condition) ([]userstats.Stats, error) {
	builder := qb.Select("match_public_id", "user_id", "total_runs", "total_balls", "updated_at").From("user_match_stats")
	if len(conds) > 0 {
		builder = builder.Where(conds...)
	}
	query, args, err := builder.OrderBy("match_public_id", "user_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []userMatchStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]userstats.Stats, 0, len(rows))
	for _, row := range rows {
		out = append(out, userstats.Stats{
			MatchID:    row.MatchID,
			UserID:     row.UserID,
			TotalRuns:  row.TotalRuns,
			TotalBalls: row.TotalBalls,
			UpdatedAt:  row.UpdatedAt,
		})
	}
	return out, nil
}
