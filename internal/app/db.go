package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-slots/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	defaultDBName        = "cricket_slots"
	maxTracedQueryLength = 512
	dbMaxOpenConns       = 10
	dbMaxIdleConns       = 5
	dbConnMaxLifetime    = 30 * time.Minute
)

var traceWhitespace = regexp.MustCompile(`\s+`)

// openPostgres opens a traced pool and checks it is reachable.
func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := cfg.PostgresDSN()
	name := config.DBNameFromDSN(dsn)
	if name == "" {
		name = defaultDBName
	}

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(name),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres db=%s: %w", name, err)
	}
	return db, nil
}

func traceQuery(query string) string {
	query = traceWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(query) > maxTracedQueryLength {
		return query[:maxTracedQueryLength] + "..."
	}
	return query
}
