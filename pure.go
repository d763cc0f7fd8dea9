package swrcache

import "context"

// PureFetch turns f into a plain request function: the cache is neither read
// nor written and the network value, or its error, is returned. Giving up on
// ctx aborts the underlying Request.
func PureFetch[V, R any](f Fetcher[V, R]) func(ctx context.Context, req R) (V, error) {
	return func(ctx context.Context, req R) (V, error) {
		res := f.Fetch(ctx, req, WithMode(ModeNoStore))
		v, _, err := FinalValue(ctx, res)
		if ctx.Err() != nil {
			res.Abort()
		}
		return v, err
	}
}
