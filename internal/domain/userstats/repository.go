package userstats

import "context"

// Repository stores per-user match aggregates.
type Repository interface {
	Upsert(ctx context.Context, item Stats) error
	ListByMatch(ctx context.Context, matchID string) ([]Stats, error)
	ListAll(ctx context.Context) ([]Stats, error)
}
