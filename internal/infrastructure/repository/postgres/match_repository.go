package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	qb "github.com/riskibarqy/cricket-slots/internal/platform/querybuilder"
)

const matchUpsertSuffix = `ON CONFLICT (external_key) DO UPDATE SET
    title = EXCLUDED.title,
    series = EXCLUDED.series,
    team_a_name = EXCLUDED.team_a_name,
    team_a_short_name = EXCLUDED.team_a_short_name,
    team_b_name = EXCLUDED.team_b_name,
    team_b_short_name = EXCLUDED.team_b_short_name,
    status = EXCLUDED.status,
    start_time = EXCLUDED.start_time,
    venue = EXCLUDED.venue,
    updated_at = CASE
        WHEN (matches.title, matches.series, matches.team_a_name, matches.team_a_short_name,
              matches.team_b_name, matches.team_b_short_name, matches.status, matches.start_time, matches.venue)
             IS DISTINCT FROM
             (EXCLUDED.title, EXCLUDED.series, EXCLUDED.team_a_name, EXCLUDED.team_a_short_name,
              EXCLUDED.team_b_name, EXCLUDED.team_b_short_name, EXCLUDED.status, EXCLUDED.start_time, EXCLUDED.venue)
        THEN NOW()
        ELSE matches.updated_at
    END
RETURNING id, public_id, external_key, title, series, team_a_name, team_a_short_name,
    team_b_name, team_b_short_name, status, start_time, venue, created_at, updated_at`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	return r.getOne(ctx, "get match", "public_id", matchID)
}

func (r *MatchRepository) GetByExternalKey(ctx context.Context, externalKey string) (match.Match, bool, error) {
	return r.getOne(ctx, "get match by external key", "external_key", externalKey)
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	builder := matchBaseSelectBuilder().OrderBy("start_time", "public_id")
	if status := strings.TrimSpace(string(filter.Status)); status != "" {
		builder = builder.Where(qb.Eq("status", status))
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) (match.Match, error) {
	if err := item.Validate(); err != nil {
		return match.Match{}, err
	}
	if strings.TrimSpace(item.ID) == "" {
		return match.Match{}, fmt.Errorf("match id is required for external key %s", item.ExternalKey)
	}

	insertModel := matchInsertModel{
		PublicID:    item.ID,
		ExternalKey: item.ExternalKey,
		Title:       item.Title,
		Series:      item.Series,
		TeamAName:   item.Teams[0].Name,
		TeamAShort:  item.Teams[0].ShortName,
		TeamBName:   item.Teams[1].Name,
		TeamBShort:  item.Teams[1].ShortName,
		Status:      string(item.Status),
		StartTime:   item.StartTime.UTC(),
		Venue:       item.Venue,
	}
	query, args, err := qb.InsertModel("matches", insertModel, matchUpsertSuffix)
	if err != nil {
		return match.Match{}, fmt.Errorf("build upsert match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("upsert match external key=%s: %w", item.ExternalKey, err)
	}
	return matchFromRow(row), nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID string, status match.Status) error {
	query, args, err := qb.Update("matches").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match status query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match status id=%s: %w", matchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows for match status id=%s: %w", matchID, err)
	}
	if affected == 0 {
		return fmt.Errorf("match not found: %s", matchID)
	}
	return nil
}

func (r *MatchRepository) getOne(ctx context.Context, op, column, value string) (match.Match, bool, error) {
	query, args, err := matchBaseSelectBuilder().Where(qb.Eq(column, value)).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if needsLiteralRetry(err) {
			return r.getOneLiteral(ctx, op, column, value)
		}
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return matchFromRow(row), true, nil
}

// getOneLiteral retries without bind parameters for poolers that drop
// unnamed prepared statements.
func (r *MatchRepository) getOneLiteral(ctx context.Context, op, column, value string) (match.Match, bool, error) {
	query, args, err := matchBaseSelectBuilder().Where(qb.EqLiteral(column, value)).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build %s literal fallback query: %w", op, err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("%s literal fallback: %w", op, err)
	}
	return matchFromRow(row), true, nil
}

func matchBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"id",
		"public_id",
		"external_key",
		"title",
		"series",
		"team_a_name",
		"team_a_short_name",
		"team_b_name",
		"team_b_short_name",
		"status",
		"start_time",
		"venue",
		"created_at",
		"updated_at",
	).From("matches")
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:          row.PublicID,
		ExternalKey: row.ExternalKey,
		Title:       row.Title,
		Series:      row.Series,
		Teams: [2]match.Team{
			{Name: row.TeamAName, ShortName: row.TeamAShort},
			{Name: row.TeamBName, ShortName: row.TeamBShort},
		},
		Status:    match.Status(row.Status),
		StartTime: row.StartTime.UTC(),
		Venue:     row.Venue,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
