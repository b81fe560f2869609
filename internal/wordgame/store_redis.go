package wordgame

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store persists one Game document per channel and serializes read-modify-
// write cycles per channel. Unrelated channels never contend.
type Store struct {
	rdb *redis.Client

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, locks: make(map[string]*sync.Mutex)}
}

func (s *Store) keyGame(channelID string) string { return "wg:game:" + strings.TrimSpace(channelID) }

func (s *Store) channelLock(channelID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[channelID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[channelID] = l
	}
	return l
}

// Load reads the channel's game without exclusion. Returns nil when no game
// document exists.
func (s *Store) Load(ctx context.Context, channelID string) (*Game, error) {
	raw, err := s.rdb.Get(ctx, s.keyGame(channelID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	var g Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, &StoreError{Op: "decode", Err: err}
	}
	return &g, nil
}

// Save writes the whole game document.
func (s *Store) Save(ctx context.Context, g *Game) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return &StoreError{Op: "encode", Err: err}
	}
	if err := s.rdb.Set(ctx, s.keyGame(g.ChannelID), raw, 0).Err(); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	return nil
}

// WithGame runs fn under the channel's exclusive lock: load the current game
// (nil when absent), let fn decide, persist the game fn returns. Returning a
// nil game skips the write. A failed persist leaves the stored state as it
// was; fn's in-memory mutations are discarded with it.
func (s *Store) WithGame(ctx context.Context, channelID string, fn func(g *Game) (*Game, error)) error {
	if strings.TrimSpace(channelID) == "" {
		return ErrInvalidArgs
	}
	lock := s.channelLock(channelID)
	lock.Lock()
	defer lock.Unlock()

	g, err := s.Load(ctx, channelID)
	if err != nil {
		return err
	}
	out, err := fn(g)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return s.Save(ctx, out)
}
