package user

import "context"

// Repository exposes the participant directory owned by the surrounding application.
type Repository interface {
	// ListEligible returns active users ordered by id.
	ListEligible(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, userID string) (User, bool, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]User, error)
}
