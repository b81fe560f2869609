package wordgame

import (
	"context"
	"sort"
	"sync"
)

// memrepo is a development-only in-memory archive used when no DB is
// configured.
type memrepo struct {
	mu sync.RWMutex

	nextID    int64
	byChannel map[string][]*ArchivedGame
}

func NewMemoryRepository() Repository {
	return &memrepo{byChannel: make(map[string][]*ArchivedGame)}
}

func (m *memrepo) InsertGame(ctx context.Context, game *ArchivedGame) (int64, error) {
	if game == nil {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	cp := *game
	cp.ID = m.nextID
	m.byChannel[game.ChannelID] = append(m.byChannel[game.ChannelID], &cp)
	return cp.ID, nil
}

func (m *memrepo) GetRecentGames(ctx context.Context, channelID string, limit int) ([]*ArchivedGame, error) {
	if limit <= 0 {
		limit = 10
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.byChannel[channelID]
	items := append([]*ArchivedGame(nil), list...)
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].ID > items[j].ID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memrepo) Close() error { return nil }
