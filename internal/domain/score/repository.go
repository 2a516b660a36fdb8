package score

import "context"

// Repository persists propagated batting figures.
type Repository interface {
	// UpsertEntry writes the resolution and the score of one slot atomically.
	UpsertEntry(ctx context.Context, resolution Resolution, item SlotScore) error
	ListSlotScores(ctx context.Context, matchID string) ([]SlotScore, error)
	ListResolutions(ctx context.Context, matchID string) ([]Resolution, error)
}
