package app

import "golang.org/x/sync/singleflight"

// inflight collapses concurrent duplicate mutations on the same order into
// one backend request. Keys are "action:orderID".
type inflight struct {
	group singleflight.Group
}

func guarded[T any](g *inflight, action, orderID string, fn func() (T, error)) (T, error) {
	v, err, _ := g.group.Do(action+":"+orderID, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
