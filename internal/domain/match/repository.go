package match

import "context"

// Repository describes match registry persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	GetByExternalKey(ctx context.Context, externalKey string) (Match, bool, error)
	List(ctx context.Context, filter Filter) ([]Match, error)
	// Upsert inserts by external key or updates mutable fields in place.
	// The stored ID of an existing row is kept and returned.
	Upsert(ctx context.Context, item Match) (Match, error)
	UpdateStatus(ctx context.Context, matchID string, status Status) error
}
