package wordgame

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestLoadAbsentGame(t *testing.T) {
	s, _ := newTestStore(t)
	g, err := s.Load(context.Background(), "nope")
	if err != nil || g != nil {
		t.Fatalf("expected nil game, nil error; got %v, %v", g, err)
	}
}

func TestWithGameSkipsWriteOnNil(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	err := s.WithGame(ctx, "ch1", func(g *Game) (*Game, error) {
		if g != nil {
			t.Fatalf("expected absent game")
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("WithGame: %v", err)
	}
	if g, _ := s.Load(ctx, "ch1"); g != nil {
		t.Fatalf("nil return must not persist anything")
	}
}

func TestWithGameSurfacesFnError(t *testing.T) {
	s, _ := newTestStore(t)
	wantErr := ErrNoActiveGame
	err := s.WithGame(context.Background(), "ch1", func(g *Game) (*Game, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fn error to pass through, got %v", err)
	}
}

func TestWithGamePersistenceFailure(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	g := &Game{ID: "g1", ChannelID: "ch1", CurrentWord: "araba", IsActive: true, CreatedAt: time.Now()}
	if err := s.Save(ctx, g); err != nil {
		t.Fatalf("Save: %v", err)
	}

	mr.Close()
	err := s.WithGame(ctx, "ch1", func(g *Game) (*Game, error) {
		t.Fatalf("fn must not run when the load fails")
		return nil, nil
	})
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}

func TestWithGameSerializesPerChannel(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, &Game{ID: "g1", ChannelID: "ch1", IsActive: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	const n = 20
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			done <- s.WithGame(ctx, "ch1", func(g *Game) (*Game, error) {
				g.UsedWords = append(g.UsedWords, UsedWord{Word: "w", UserID: "u", Timestamp: time.Now()})
				return g, nil
			})
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-done; err != nil {
			t.Fatalf("WithGame: %v", err)
		}
	}
	g, err := s.Load(ctx, "ch1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(g.UsedWords) != n {
		t.Fatalf("lost updates: got %d entries, want %d", len(g.UsedWords), n)
	}
}
