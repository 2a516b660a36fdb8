package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	codeUniqueViolation   pq.ErrorCode = "23505"
	codeProtocolViolation pq.ErrorCode = "08P01"
	codeInvalidStatement  pq.ErrorCode = "26000"
)

func isNotFound(err error) bool {
	return stderrors.Is(err, sql.ErrNoRows)
}

func pgCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// needsLiteralRetry reports whether a transaction pooler rejected the
// unnamed prepared statement behind a bound query. Some poolers rewrite the
// backend error into plain text, so the message is checked as well.
func needsLiteralRetry(err error) bool {
	if err == nil {
		return false
	}
	switch pgCode(err) {
	case codeProtocolViolation, codeInvalidStatement:
		return true
	}

	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "bind message supplies") && strings.Contains(text, "parameters"):
		return true
	case strings.Contains(text, "unnamed prepared statement does not exist"):
		return true
	case strings.Contains(text, "prepared statement") && strings.Contains(text, "26000"):
		return true
	}
	return false
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, name string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx %s: %w", name, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s tx: %w", name, err)
	}
	return nil
}

// slotKeyLiteral matches the innings::text || ':' || position::text expression
// used to compare slot coordinates against a text array.
func slotKeyLiteral(innings, position int) string {
	return strconv.Itoa(innings) + ":" + strconv.Itoa(position)
}
