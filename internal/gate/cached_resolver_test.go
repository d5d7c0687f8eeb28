package gate

import (
	"context"
	"testing"
	"time"
)

func TestCachedResolverCachesHits(t *testing.T) {
	inner := &fakeResolver{profiles: map[uint]Profile{
		1: &fakeProfile{id: 10, role: "admin"},
	}}
	r := NewCachedResolver(inner, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := r.Resolve(ctx, 1)
		if err != nil {
			t.Fatal(err)
		}
		if p == nil || p.EmployeeID() != 10 {
			t.Fatalf("resolve %d: %+v", i, p)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner resolver called %d times, want 1", inner.calls)
	}
}

func TestCachedResolverCachesNegativeResults(t *testing.T) {
	inner := &fakeResolver{}
	r := NewCachedResolver(inner, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := r.Resolve(ctx, 42)
		if err != nil {
			t.Fatal(err)
		}
		if p != nil {
			t.Fatalf("expected nil profile, got %+v", p)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner resolver called %d times, want 1", inner.calls)
	}
}

func TestCachedResolverExpiry(t *testing.T) {
	inner := &fakeResolver{profiles: map[uint]Profile{
		1: &fakeProfile{id: 10},
	}}
	r := NewCachedResolver(inner, -time.Second) // already expired
	ctx := context.Background()

	if _, err := r.Resolve(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Fatalf("expired entries served from cache: %d calls", inner.calls)
	}
}

func TestCachedResolverInvalidate(t *testing.T) {
	inner := &fakeResolver{profiles: map[uint]Profile{
		1: &fakeProfile{id: 10},
		2: &fakeProfile{id: 11},
	}}
	r := NewCachedResolver(inner, time.Minute)
	ctx := context.Background()

	r.Resolve(ctx, 1)
	r.Resolve(ctx, 2)
	r.Invalidate(1)
	r.Resolve(ctx, 1)
	r.Resolve(ctx, 2)
	if inner.calls != 3 {
		t.Fatalf("inner resolver called %d times, want 3", inner.calls)
	}

	r.InvalidateAll()
	r.Resolve(ctx, 1)
	r.Resolve(ctx, 2)
	if inner.calls != 5 {
		t.Fatalf("inner resolver called %d times after InvalidateAll, want 5", inner.calls)
	}
}
