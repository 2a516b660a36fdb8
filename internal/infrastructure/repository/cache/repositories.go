package cache

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/domain/user"
	basecache "github.com/riskibarqy/cricket-slots/internal/platform/cache"
)

const matchKeyPrefix = "match:"

// lookup remembers misses too, so unknown IDs do not hit the store every time.
type lookup[T any] struct {
	value  T
	exists bool
}

func loadOne[T any](ctx context.Context, store *basecache.Store, key string, get func(context.Context) (T, bool, error)) (T, bool, error) {
	hit, err := basecache.Load(ctx, store, key, func(ctx context.Context) (lookup[T], error) {
		value, exists, err := get(ctx)
		return lookup[T]{value: value, exists: exists}, err
	})
	return hit.value, hit.exists, err
}

// loadList returns a copy so callers cannot mutate the cached slice.
func loadList[T any](ctx context.Context, store *basecache.Store, key string, list func(context.Context) ([]T, error)) ([]T, error) {
	items, err := basecache.Load(ctx, store, key, func(ctx context.Context) ([]T, error) {
		items, err := list(ctx)
		return slices.Clone(items), err
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

// MatchRepository caches match reads. Any write through it drops every match key.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	return loadOne(ctx, r.cache, matchKeyPrefix+"id:"+matchID, func(ctx context.Context) (match.Match, bool, error) {
		return r.next.GetByID(ctx, matchID)
	})
}

func (r *MatchRepository) GetByExternalKey(ctx context.Context, externalKey string) (match.Match, bool, error) {
	return loadOne(ctx, r.cache, matchKeyPrefix+"external:"+externalKey, func(ctx context.Context) (match.Match, bool, error) {
		return r.next.GetByExternalKey(ctx, externalKey)
	})
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	key := matchKeyPrefix + "list:" + string(filter.Status) + ":" + strconv.Itoa(filter.Limit)
	return loadList(ctx, r.cache, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.List(ctx, filter)
	})
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) (match.Match, error) {
	stored, err := r.next.Upsert(ctx, item)
	if err != nil {
		return match.Match{}, err
	}
	r.cache.DeletePrefix(ctx, matchKeyPrefix)
	return stored, nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID string, status match.Status) error {
	if err := r.next.UpdateStatus(ctx, matchID, status); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, matchKeyPrefix)
	return nil
}

// UserRepository caches the participant directory. The directory is owned
// elsewhere, so entries only expire by TTL.
type UserRepository struct {
	next  user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) ListEligible(ctx context.Context) ([]user.User, error) {
	return loadList(ctx, r.cache, "user:eligible", r.next.ListEligible)
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	return loadOne(ctx, r.cache, "user:id:"+userID, func(ctx context.Context) (user.User, bool, error) {
		return r.next.GetByID(ctx, userID)
	})
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	ids := slices.Clone(userIDs)
	slices.Sort(ids)
	return loadList(ctx, r.cache, "user:ids:"+strings.Join(ids, ","), func(ctx context.Context) ([]user.User, error) {
		return r.next.ListByIDs(ctx, userIDs)
	})
}
