package swrcache

import "context"

// Walk calls handler once per node of the chain, in order, as each settles.
// It runs in its own goroutine and returns the Request's abort function.
// Walking stops at the terminal node, on a rejected future, or when ctx is
// done; handler is not called for a rejected future.
func Walk[V any](ctx context.Context, res Result[V], handler func(Response[V])) (abort func()) {
	go func() {
		for f := res.Response; f != nil; {
			node, err := f.Wait(ctx)
			if err != nil {
				return
			}
			handler(node)
			f = node.Next
		}
	}()
	return res.Abort
}

// FinalValue waits for the whole chain and returns the last value seen.
// An error is returned only when no node carried a value and either the
// terminal node has an error or the chain was rejected. ctx bounds the wait.
func FinalValue[V any](ctx context.Context, res Result[V]) (V, bool, error) {
	var (
		last    V
		hasLast bool
	)
	for f := res.Response; f != nil; {
		node, err := f.Wait(ctx)
		if err != nil {
			if hasLast {
				return last, true, nil
			}
			return last, false, err
		}
		if node.OK {
			last, hasLast = node.Value, true
		}
		if node.Next == nil {
			if !hasLast && node.Err != nil {
				return last, false, node.Err
			}
			return last, hasLast, nil
		}
		f = node.Next
	}
	return last, hasLast, nil
}

// InitialValue returns the first value the chain yields, as soon as it
// appears. The rest of the chain keeps running. A chain that ends without a
// value yields (zero, false, nil), or the terminal node's error.
func InitialValue[V any](ctx context.Context, res Result[V]) (V, bool, error) {
	var zero V
	for f := res.Response; f != nil; {
		node, err := f.Wait(ctx)
		if err != nil {
			return zero, false, err
		}
		if node.OK {
			return node.Value, true, nil
		}
		if node.Next == nil {
			return zero, false, node.Err
		}
		f = node.Next
	}
	return zero, false, nil
}

// SpliceOnEnd returns a copy of the chain starting at resp in which every
// terminal node gets finalize(node) as its Next. Non-terminal nodes get a
// proxied Next that one background goroutine fills as the source settles.
// A rejected source future rejects the proxy and is not finalized.
func SpliceOnEnd[V any](resp Response[V], finalize func(Response[V]) *Future[Response[V]]) Response[V] {
	if resp.Next == nil {
		resp.Next = finalize(resp)
		return resp
	}
	src := resp.Next
	proxy := newFuture[Response[V]]()
	resp.Next = proxy
	go spliceLoop(src, proxy, finalize)
	return resp
}

func spliceLoop[V any](src, proxy *Future[Response[V]], finalize func(Response[V]) *Future[Response[V]]) {
	for {
		<-src.Done()
		node, err := src.val, src.err
		if err != nil {
			proxy.reject(err)
			return
		}
		if node.Next == nil {
			node.Next = finalize(node)
			proxy.resolve(node)
			return
		}
		next := newFuture[Response[V]]()
		src, node.Next = node.Next, next
		proxy.resolve(node)
		proxy = next
	}
}
