package wordcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSource struct {
	name  string
	words []string
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context) (map[string]struct{}, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]struct{}, len(f.words))
	for _, w := range f.words {
		out[w] = struct{}{}
	}
	return out, nil
}

type fakeLookup struct {
	valid map[string]bool
	err   error
	calls atomic.Int32
}

func (f *fakeLookup) Check(ctx context.Context, word string) (bool, error) {
	f.calls.Add(1)
	if f.err != nil {
		return false, f.err
	}
	return f.valid[word], nil
}

func TestIsValidFromPrimarySource(t *testing.T) {
	src := &fakeSource{name: "primary", words: []string{"araba", "ev", "elma"}}
	c := New([]Source{src}, nil, WithMinWords(2))
	ctx := context.Background()

	if !c.IsValid(ctx, "ARABA") {
		t.Fatalf("expected ARABA valid via Turkish folding")
	}
	if c.IsValid(ctx, "yok") {
		t.Fatalf("unknown word with no lookup should be invalid")
	}
	if got := src.calls.Load(); got != 1 {
		t.Fatalf("expected a single refresh, got %d fetches", got)
	}
}

func TestSecondarySourceWhenPrimaryUndersized(t *testing.T) {
	primary := &fakeSource{name: "primary", words: []string{"az"}}
	secondary := &fakeSource{name: "secondary", words: []string{"araba", "ev", "elma"}}
	c := New([]Source{primary, secondary}, nil, WithMinWords(3))

	if !c.IsValid(context.Background(), "elma") {
		t.Fatalf("expected secondary corpus to be used")
	}
	if secondary.calls.Load() != 1 {
		t.Fatalf("secondary source not consulted")
	}
}

func TestUndersizedCandidateBeatsNothing(t *testing.T) {
	small := &fakeSource{name: "small", words: []string{"ev", "elma"}}
	broken := &fakeSource{name: "broken", err: errors.New("down")}
	c := New([]Source{small, broken}, nil, WithMinWords(100))

	if !c.IsValid(context.Background(), "ev") {
		t.Fatalf("undersized but non-empty corpus should still be kept")
	}
}

func TestFallbackWhenAllSourcesFail(t *testing.T) {
	down := errors.New("source down")
	c := New([]Source{
		&fakeSource{name: "primary", err: down},
		&fakeSource{name: "secondary", err: down},
	}, &fakeLookup{err: down})
	ctx := context.Background()

	w := c.RandomWord(ctx)
	if w == "" {
		t.Fatalf("RandomWord returned empty word")
	}
	if _, ok := FallbackWords()[w]; !ok {
		t.Fatalf("expected a fallback word, got %q", w)
	}
	if !c.IsValid(ctx, "araba") {
		t.Fatalf("fallback corpus should make 'araba' valid")
	}
	if s := c.Stats(); s.Count == 0 || s.LastRefresh.IsZero() {
		t.Fatalf("stats not updated after fallback refresh: %+v", s)
	}
}

func TestIsValidMonotonicViaLookup(t *testing.T) {
	src := &fakeSource{name: "primary", words: []string{"araba", "ev", "elma"}}
	lk := &fakeLookup{valid: map[string]bool{"zeytin": true}}
	c := New([]Source{src}, lk, WithMinWords(2))
	ctx := context.Background()

	if !c.IsValid(ctx, "zeytin") {
		t.Fatalf("lookup-confirmed word rejected")
	}
	// lookup breaks afterwards; the word must stay cached
	lk.err = errors.New("tdk down")
	if !c.IsValid(ctx, "Zeytin") {
		t.Fatalf("confirmed word must remain valid until next refresh")
	}
	if got := lk.calls.Load(); got != 1 {
		t.Fatalf("expected one lookup call, got %d", got)
	}
}

func TestLookupFailureDegradesToFalse(t *testing.T) {
	src := &fakeSource{name: "primary", words: []string{"araba", "ev"}}
	c := New([]Source{src}, &fakeLookup{err: errors.New("timeout")}, WithMinWords(1))
	if c.IsValid(context.Background(), "zeytin") {
		t.Fatalf("lookup failure must degrade to invalid, not error")
	}
}

func TestRefreshSingleFlight(t *testing.T) {
	src := &fakeSource{name: "slow", words: []string{"araba", "ev", "elma"}, delay: 50 * time.Millisecond}
	c := New([]Source{src}, nil, WithMinWords(1))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if w := c.RandomWord(context.Background()); w == "" {
				t.Errorf("empty random word")
			}
		}()
	}
	wg.Wait()
	if got := src.calls.Load(); got != 1 {
		t.Fatalf("expected one collapsed refresh, got %d fetches", got)
	}
}

func TestRefreshReplacesWholesale(t *testing.T) {
	src := &fakeSource{name: "primary", words: []string{"araba", "ev"}}
	lk := &fakeLookup{valid: map[string]bool{"zeytin": true}}
	c := New([]Source{src}, lk, WithMinWords(1), WithTTL(time.Nanosecond))
	ctx := context.Background()

	if !c.IsValid(ctx, "zeytin") {
		t.Fatalf("lookup-confirmed word rejected")
	}
	lk.valid = map[string]bool{}
	time.Sleep(time.Millisecond) // expire the nanosecond TTL

	// next operation refreshes wholesale; the ad-hoc word is gone
	if c.IsValid(ctx, "zeytin") {
		t.Fatalf("wholesale refresh should drop ad-hoc additions")
	}
	if !c.IsValid(ctx, "araba") {
		t.Fatalf("refreshed corpus missing source word")
	}
}
