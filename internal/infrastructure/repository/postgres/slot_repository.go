package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
	qb "github.com/riskibarqy/cricket-slots/internal/platform/querybuilder"
)

const assignmentColumns = "id, public_id, match_public_id, user_id, innings, position, created_at, updated_at"

const assignmentUpsertSuffix = `ON CONFLICT (match_public_id, innings, position) DO UPDATE SET
    public_id = CASE WHEN user_batting_assignments.user_id = EXCLUDED.user_id
        THEN user_batting_assignments.public_id ELSE EXCLUDED.public_id END,
    created_at = CASE WHEN user_batting_assignments.user_id = EXCLUDED.user_id
        THEN user_batting_assignments.created_at ELSE NOW() END,
    user_id = EXCLUDED.user_id,
    updated_at = NOW()
RETURNING ` + assignmentColumns

type SlotRepository struct {
	db *sqlx.DB
}

func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) ReplaceSlots(ctx context.Context, matchID string, slots []slot.Slot) (int, error) {
	keys := make([]string, 0, len(slots))
	rows := make([]battingSlotTableModel, 0, len(slots))
	seen := make(map[slot.Key]struct{}, len(slots))
	for _, item := range slots {
		if item.MatchID != matchID {
			return 0, fmt.Errorf("slot match id %q does not match %q", item.MatchID, matchID)
		}
		if err := item.Key().Validate(); err != nil {
			return 0, err
		}
		if _, ok := seen[item.Key()]; ok {
			return 0, fmt.Errorf("duplicate slot innings=%d position=%d", item.Innings, item.Position)
		}
		seen[item.Key()] = struct{}{}
		keys = append(keys, slotKeyLiteral(item.Innings, item.Position))
		rows = append(rows, battingSlotTableModel{MatchID: matchID, Innings: item.Innings, Position: item.Position})
	}

	stmts, err := replaceSlotStatements(matchID, keys, rows)
	if err != nil {
		return 0, err
	}

	pruned := 0
	err = withTx(ctx, r.db, "replace batting slots", func(tx *sqlx.Tx) error {
		for i, stmt := range stmts {
			res, err := tx.ExecContext(ctx, stmt.query, stmt.args...)
			if err != nil {
				return fmt.Errorf("%s match=%s: %w", stmt.op, matchID, err)
			}
			if i > 0 {
				continue
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("read pruned assignments match=%s: %w", matchID, err)
			}
			pruned = int(affected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return pruned, nil
}

type statement struct {
	op    string
	query string
	args  []any
}

// replaceSlotStatements builds the lineup swap: the assignment prune comes
// first so its row count is reported, then slots outside the new lineup are
// dropped (their scores and resolutions cascade) and the new lineup is
// inserted without touching slots it keeps.
func replaceSlotStatements(matchID string, keys []string, rows []battingSlotTableModel) ([]statement, error) {
	outside := qb.Expr("(innings::text || ':' || position::text) <> ALL(?::text[])", pq.StringArray(keys))

	pruneQuery, pruneArgs, err := qb.DeleteFrom("user_batting_assignments").
		Where(qb.Eq("match_public_id", matchID), outside).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build prune assignments query: %w", err)
	}
	dropQuery, dropArgs, err := qb.DeleteFrom("batting_slots").
		Where(qb.Eq("match_public_id", matchID), outside).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build drop slots query: %w", err)
	}

	stmts := []statement{
		{op: "prune assignments", query: pruneQuery, args: pruneArgs},
		{op: "drop slots", query: dropQuery, args: dropArgs},
	}
	if len(rows) == 0 {
		return stmts, nil
	}

	insertQuery, insertArgs, err := qb.InsertModels("batting_slots", rows,
		"ON CONFLICT (match_public_id, innings, position) DO NOTHING")
	if err != nil {
		return nil, fmt.Errorf("build insert slots query: %w", err)
	}
	return append(stmts, statement{op: "insert slots", query: insertQuery, args: insertArgs}), nil
}

func (r *SlotRepository) ListSlots(ctx context.Context, matchID string) ([]slot.Slot, error) {
	query, args, err := qb.Select("match_public_id", "innings", "position").
		From("batting_slots").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("innings", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list slots query: %w", err)
	}

	var rows []battingSlotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list slots match=%s: %w", matchID, err)
	}

	out := make([]slot.Slot, 0, len(rows))
	for _, row := range rows {
		out = append(out, slot.Slot{MatchID: row.MatchID, Innings: row.Innings, Position: row.Position})
	}
	return out, nil
}

func (r *SlotRepository) SlotExists(ctx context.Context, matchID string, key slot.Key) (bool, error) {
	return slotExists(ctx, r.db, matchID, key)
}

func (r *SlotRepository) ListAssignments(ctx context.Context, matchID string) ([]slot.Assignment, error) {
	return r.listAssignments(ctx, "list assignments", qb.Eq("match_public_id", matchID))
}

func (r *SlotRepository) ListAssignmentsByUser(ctx context.Context, matchID, userID string) ([]slot.Assignment, error) {
	return r.listAssignments(ctx, "list user assignments",
		qb.Eq("match_public_id", matchID),
		qb.Eq("user_id", userID),
	)
}

func (r *SlotRepository) ListAllAssignments(ctx context.Context) ([]slot.Assignment, error) {
	return r.listAssignments(ctx, "list all assignments")
}

func (r *SlotRepository) GetAssignment(ctx context.Context, assignmentID string) (slot.Assignment, bool, error) {
	return r.getAssignment(ctx, "get assignment", qb.Eq("public_id", assignmentID))
}

func (r *SlotRepository) GetAssignmentBySlot(ctx context.Context, matchID string, key slot.Key) (slot.Assignment, bool, error) {
	return r.getAssignment(ctx, "get assignment by slot",
		qb.Eq("match_public_id", matchID),
		qb.Eq("innings", key.Innings),
		qb.Eq("position", key.Position),
	)
}

func (r *SlotRepository) ReplaceAssignments(ctx context.Context, matchID string, items []slot.Assignment) error {
	rows := make([]assignmentInsertModel, 0, len(items))
	for _, item := range items {
		if item.MatchID != matchID {
			return fmt.Errorf("assignment match id %q does not match %q", item.MatchID, matchID)
		}
		if err := item.Validate(); err != nil {
			return err
		}
		rows = append(rows, assignmentInsertModel{
			PublicID: item.ID,
			MatchID:  matchID,
			UserID:   item.UserID,
			Innings:  item.Innings,
			Position: item.Position,
		})
	}

	return withTx(ctx, r.db, "replace assignments", func(tx *sqlx.Tx) error {
		clearQuery, clearArgs, err := qb.DeleteFrom("user_batting_assignments").
			Where(qb.Eq("match_public_id", matchID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear assignments query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear assignments match=%s: %w", matchID, err)
		}

		if len(rows) == 0 {
			return nil
		}
		insertQuery, insertArgs, err := qb.InsertModels("user_batting_assignments", rows, "")
		if err != nil {
			return fmt.Errorf("build insert assignments query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert assignments match=%s: %w", matchID, err)
		}
		return nil
	})
}

func (r *SlotRepository) UpsertAssignment(ctx context.Context, item slot.Assignment) (slot.Assignment, error) {
	if err := item.Validate(); err != nil {
		return slot.Assignment{}, err
	}

	var out slot.Assignment
	err := withTx(ctx, r.db, "upsert assignment", func(tx *sqlx.Tx) error {
		exists, err := slotExists(ctx, tx, item.MatchID, item.Key())
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("slot innings=%d position=%d does not exist", item.Innings, item.Position)
		}

		conflictQuery, conflictArgs, err := qb.Select("COUNT(1)").
			From("user_batting_assignments").
			Where(
				qb.Eq("match_public_id", item.MatchID),
				qb.Eq("user_id", item.UserID),
				qb.Eq("innings", item.Innings),
				qb.Expr("position <> ?", item.Position),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build assignment conflict query: %w", err)
		}
		var conflicts int
		if err := tx.GetContext(ctx, &conflicts, conflictQuery, conflictArgs...); err != nil {
			return fmt.Errorf("check assignment conflict: %w", err)
		}
		if conflicts > 0 {
			return fmt.Errorf("user=%s already assigned in innings %d", item.UserID, item.Innings)
		}

		query, args, err := qb.InsertModel("user_batting_assignments", assignmentInsertModel{
			PublicID: item.ID,
			MatchID:  item.MatchID,
			UserID:   item.UserID,
			Innings:  item.Innings,
			Position: item.Position,
		}, assignmentUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert assignment query: %w", err)
		}

		var row assignmentTableModel
		if err := tx.GetContext(ctx, &row, query, args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("user=%s already assigned in innings %d: %w", item.UserID, item.Innings, err)
			}
			return fmt.Errorf("upsert assignment match=%s innings=%d position=%d: %w", item.MatchID, item.Innings, item.Position, err)
		}
		out = assignmentFromRow(row)
		return nil
	})
	if err != nil {
		return slot.Assignment{}, err
	}
	return out, nil
}

func (r *SlotRepository) DeleteAssignment(ctx context.Context, assignmentID string) (bool, error) {
	query, args, err := qb.DeleteFrom("user_batting_assignments").
		Where(qb.Eq("public_id", assignmentID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete assignment query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete assignment id=%s: %w", assignmentID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted assignment id=%s: %w", assignmentID, err)
	}
	return affected > 0, nil
}

func (r *SlotRepository) listAssignments(ctx context.Context, op string, conds ...qb.Condition) ([]slot.Assignment, error) {
	builder := qb.Select(assignmentColumns).From("user_batting_assignments")
	if len(conds) > 0 {
		builder = builder.Where(conds...)
	}
	query, args, err := builder.OrderBy("match_public_id", "innings", "position").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []assignmentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]slot.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, assignmentFromRow(row))
	}
	return out, nil
}

func (r *SlotRepository) getAssignment(ctx context.Context, op string, conds ...qb.Condition) (slot.Assignment, bool, error) {
	query, args, err := qb.Select(assignmentColumns).
		From("user_batting_assignments").
		Where(conds...).
		ToSQL()
	if err != nil {
		return slot.Assignment{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row assignmentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return slot.Assignment{}, false, nil
		}
		return slot.Assignment{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return assignmentFromRow(row), true, nil
}

func slotExists(ctx context.Context, q sqlx.QueryerContext, matchID string, key slot.Key) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").
		From("batting_slots").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("innings", key.Innings),
			qb.Eq("position", key.Position),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build slot exists query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, q, &count, query, args...); err != nil {
		return false, fmt.Errorf("check slot exists match=%s innings=%d position=%d: %w", matchID, key.Innings, key.Position, err)
	}
	return count > 0, nil
}

func assignmentFromRow(row assignmentTableModel) slot.Assignment {
	return slot.Assignment{
		ID:        row.PublicID,
		MatchID:   row.MatchID,
		UserID:    row.UserID,
		Innings:   row.Innings,
		Position:  row.Position,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
