package swrcache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFutureSettlesOnce(t *testing.T) {
	f := newFuture[int]()
	if f.Settled() {
		t.Fatal("new future is settled")
	}
	if !f.resolve(1) {
		t.Fatal("first resolve must win")
	}
	if f.resolve(2) || f.reject(errBoom) {
		t.Fatal("later settles must be ignored")
	}
	v, err := f.Wait(context.Background())
	if v != 1 || err != nil {
		t.Fatalf("(%d,%v)", v, err)
	}
}

func TestGoAndRejected(t *testing.T) {
	v, err := Go(func() (string, error) { return "x", nil }).Wait(context.Background())
	if v != "x" || err != nil {
		t.Fatalf("Go: (%q,%v)", v, err)
	}
	if _, err := Rejected[int](errBoom).Wait(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("Rejected: %v", err)
	}
	select {
	case <-Resolved(3).Done():
	default:
		t.Fatal("Resolved must be settled")
	}
}

func TestWaitHonoursContext(t *testing.T) {
	f := newFuture[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if f.Settled() {
		t.Fatal("giving up must not settle the future")
	}
}
