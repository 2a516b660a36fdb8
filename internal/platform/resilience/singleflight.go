package resilience

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// SingleFlight collapses concurrent loads of the same key into one call.
// The zero value is ready to use.
type SingleFlight struct {
	group singleflight.Group
}

// Do runs fn once per in-flight key. shared reports whether the result was
// handed to more than one caller.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (value any, err error, shared bool) {
	return g.group.Do(key, fn)
}

// DoContext is Do for callers that carry their own deadline. fn receives a
// context that keeps the first caller's values but not its cancellation, so
// one caller giving up does not fail the others. A caller whose ctx ends
// stops waiting and gets ctx.Err().
func (g *SingleFlight) DoContext(ctx context.Context, key string, fn func(context.Context) (any, error)) (value any, err error, shared bool) {
	ch := g.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Val, res.Err, res.Shared
	case <-ctx.Done():
		return nil, ctx.Err(), false
	}
}

// Forget drops an in-flight key so the next Do starts a fresh call.
func (g *SingleFlight) Forget(key string) {
	g.group.Forget(key)
}
