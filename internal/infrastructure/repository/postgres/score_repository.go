package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-slots/internal/domain/score"
	qb "github.com/riskibarqy/cricket-slots/internal/platform/querybuilder"
)

type ScoreRepository struct {
	db *sqlx.DB
}

func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) UpsertEntry(ctx context.Context, resolution score.Resolution, item score.SlotScore) error {
	if resolution.MatchID != item.MatchID || resolution.Key() != item.Key() {
		return fmt.Errorf("resolution and score address different slots")
	}
	if err := item.Key().Validate(); err != nil {
		return err
	}

	return withTx(ctx, r.db, "upsert slot entry", func(tx *sqlx.Tx) error {
		resolutionQuery, resolutionArgs, err := qb.InsertModel("slot_resolutions", slotResolutionInsertModel{
			MatchID:          resolution.MatchID,
			Innings:          resolution.Innings,
			Position:         resolution.Position,
			ExternalPlayerID: resolution.ExternalPlayerID,
			PlayerName:       resolution.PlayerName,
			Dismissal:        resolution.Dismissal,
		}, `ON CONFLICT (match_public_id, innings, position) DO UPDATE SET
    external_player_id = EXCLUDED.external_player_id,
    player_name = EXCLUDED.player_name,
    dismissal = EXCLUDED.dismissal,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert resolution query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, resolutionQuery, resolutionArgs...); err != nil {
			return fmt.Errorf("upsert resolution match=%s innings=%d position=%d: %w", resolution.MatchID, resolution.Innings, resolution.Position, err)
		}

		scoreQuery, scoreArgs, err := qb.InsertModel("slot_scores", slotScoreInsertModel{
			MatchID:  item.MatchID,
			Innings:  item.Innings,
			Position: item.Position,
			Runs:     item.Runs,
			Balls:    item.Balls,
			Fours:    item.Fours,
			Sixes:    item.Sixes,
			IsOut:    item.IsOut,
		}, `ON CONFLICT (match_public_id, innings, position) DO UPDATE SET
    runs = EXCLUDED.runs,
    balls = EXCLUDED.balls,
    fours = EXCLUDED.fours,
    sixes = EXCLUDED.sixes,
    is_out = EXCLUDED.is_out,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert slot score query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, scoreQuery, scoreArgs...); err != nil {
			return fmt.Errorf("upsert slot score match=%s innings=%d position=%d: %w", item.MatchID, item.Innings, item.Position, err)
		}
		return nil
	})
}

func (r *ScoreRepository) ListSlotScores(ctx context.Context, matchID string) ([]score.SlotScore, error) {
	query, args, err := qb.Select("match_public_id", "innings", "position", "runs", "balls", "fours", "sixes", "is_out", "updated_at").
		From("slot_scores").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("innings", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list slot scores query: %w", err)
	}

	var rows []slotScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list slot scores match=%s: %w", matchID, err)
	}

	out := make([]score.SlotScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, score.SlotScore{
			MatchID:   row.MatchID,
			Innings:   row.Innings,
			Position:  row.Position,
			Runs:      row.Runs,
			Balls:     row.Balls,
			Fours:     row.Fours,
			Sixes:     row.Sixes,
			IsOut:     row.IsOut,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out, nil
}

func (r *ScoreRepository) ListResolutions(ctx context.Context, matchID string) ([]score.Resolution, error) {
	query, args, err := qb.Select("match_public_id", "innings", "position", "external_player_id", "player_name", "dismissal", "updated_at").
		From("slot_resolutions").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("innings", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list resolutions query: %w", err)
	}

	var rows []slotResolutionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list resolutions match=%s: %w", matchID, err)
	}

	out := make([]score.Resolution, 0, len(rows))
	for _, row := range rows {
		out = append(out, score.Resolution{
			MatchID:          row.MatchID,
			Innings:          row.Innings,
			Position:         row.Position,
			ExternalPlayerID: row.ExternalPlayerID,
			PlayerName:       row.PlayerName,
			Dismissal:        row.Dismissal,
			UpdatedAt:        row.UpdatedAt,
		})
	}
	return out, nil
}
