package common //nolint:revive // var-naming: This is an internal package for common code that is shared between chains.

import "context"

// CallContext runs fn, a client call that does not accept a context, and stops waiting for it
// once ctx is done. fn keeps running in the background until it returns.
func CallContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}

	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		return r.v, r.err
	}
}
