package swrcache

// Response is one stage of a fetch. OK reports whether Value is present.
//
// A node with OK=false, Err=nil and Next=nil is a plain miss that needs no
// refresh. Next, when set, settles with the following stage; a node never
// changes once its future has settled.
type Response[V any] struct {
	Value V
	OK    bool
	Err   error
	Next  *Future[Response[V]]
}

// Terminal reports whether no further stage follows.
func (r Response[V]) Terminal() bool { return r.Next == nil }

func abortedResponse[V any]() Response[V] {
	return Response[V]{Err: ErrAborted}
}
