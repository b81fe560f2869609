// Package wordgame implements the per-channel word-chain game: turn
// evaluation, game lifecycle, and persistence of game state.
package wordgame

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/kelime-bot-go/internal/obslog"
	"github.com/kapu/kelime-bot-go/internal/turkish"
)

// Wordbook is the validity/draw surface the engine needs from the word
// cache.
type Wordbook interface {
	IsValid(ctx context.Context, word string) bool
	RandomWord(ctx context.Context) string
}

const (
	// No Turkish word starts with ğ, so a word ending in it would strand
	// the game without an automatic continuation.
	defaultDeadLetter      = 'ğ'
	defaultMaxAutoContinue = 3
)

// Manager runs the game state machine for every channel.
type Manager struct {
	store *Store
	words Wordbook
	repo  Repository

	deadLetter rune
	maxInject  int
}

type Option func(*Manager)

// WithDeadLetter overrides the letter that triggers auto-continuation.
func WithDeadLetter(r rune) Option {
	return func(m *Manager) { m.deadLetter = r }
}

// WithMaxAutoContinue bounds how often a continuation word is redrawn when
// the draw itself is unusable (ends in the dead letter or was already used).
func WithMaxAutoContinue(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxInject = n
		}
	}
}

func NewManager(store *Store, words Wordbook, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		words:      words,
		deadLetter: defaultDeadLetter,
		maxInject:  defaultMaxAutoContinue,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AttachRepository wires an archive for finished games.
func (m *Manager) AttachRepository(r Repository) {
	if m != nil {
		m.repo = r
	}
}

// Start begins a game in the channel. seed may be empty, in which case a
// random word is drawn. Fails with ErrGameActive when a game is already
// running.
func (m *Manager) Start(ctx context.Context, channelID, seed string) (*Game, error) {
	var created *Game
	err := m.store.WithGame(ctx, channelID, func(g *Game) (*Game, error) {
		if g != nil && g.IsActive {
			return nil, ErrGameActive
		}
		word := m.resolveSeed(ctx, seed)
		now := time.Now()
		created = &Game{
			ID:          uuid.NewString(),
			ChannelID:   channelID,
			CurrentWord: word,
			UsedWords:   []UsedWord{{Word: word, UserID: SystemUserID, Timestamp: now}},
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	obslog.L().Info("game_start",
		zap.String("channel_id", channelID),
		zap.String("game_id", created.ID),
		zap.String("seed", created.CurrentWord),
	)
	return created, nil
}

// End deactivates the channel's game. The word history stays readable; only
// a later Start overwrites it. Fails with ErrNoActiveGame when nothing runs.
func (m *Manager) End(ctx context.Context, channelID string) (*Game, error) {
	var ended *Game
	err := m.store.WithGame(ctx, channelID, func(g *Game) (*Game, error) {
		if g == nil || !g.IsActive {
			return nil, ErrNoActiveGame
		}
		g.IsActive = false
		g.UpdatedAt = time.Now()
		ended = g
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	m.archive(ctx, ended)
	obslog.L().Info("game_end",
		zap.String("channel_id", channelID),
		zap.String("game_id", ended.ID),
		zap.Int("words", len(ended.UsedWords)),
	)
	return ended, nil
}

// Reset replaces the running game's chain with a fresh seed while keeping it
// active. Fails with ErrNoActiveGame when nothing runs.
func (m *Manager) Reset(ctx context.Context, channelID, seed string) (*Game, error) {
	var reset *Game
	err := m.store.WithGame(ctx, channelID, func(g *Game) (*Game, error) {
		if g == nil || !g.IsActive {
			return nil, ErrNoActiveGame
		}
		word := m.resolveSeed(ctx, seed)
		now := time.Now()
		g.CurrentWord = word
		g.UsedWords = []UsedWord{{Word: word, UserID: SystemUserID, Timestamp: now}}
		g.LastUserID = ""
		g.CreatedAt = now
		g.UpdatedAt = now
		reset = g
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	obslog.L().Info("game_reset",
		zap.String("channel_id", channelID),
		zap.String("game_id", reset.ID),
		zap.String("seed", reset.CurrentWord),
	)
	return reset, nil
}

// Status returns the channel's active game without taking the channel lock.
func (m *Manager) Status(ctx context.Context, channelID string) (*Game, error) {
	g, err := m.store.Load(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if g == nil || !g.IsActive {
		return nil, ErrNoActiveGame
	}
	return g, nil
}

// Evaluate decides one submission. Checks run in order and stop at the first
// match: active game, consecutive author, duplicate, chain letter, validity.
// Rejections come back as outcomes, never as errors; only storage failures
// are errors.
func (m *Manager) Evaluate(ctx context.Context, channelID, userID, raw string) (*Result, error) {
	if userID == "" || turkish.Lower(raw) == "" {
		return nil, ErrInvalidArgs
	}
	var res *Result
	err := m.store.WithGame(ctx, channelID, func(g *Game) (*Game, error) {
		word := turkish.Lower(raw)
		if g == nil || !g.IsActive {
			res = &Result{Outcome: NoActiveGame, Word: word}
			return nil, nil
		}
		expected := turkish.LastLetter(g.CurrentWord)
		res = &Result{Word: word, Expected: expected, Count: len(g.UsedWords)}

		if g.LastUserID != "" && g.LastUserID == userID {
			res.Outcome = RejectedSameUser
			return nil, nil
		}
		for _, used := range g.UsedWords {
			if turkish.Lower(used.Word) == word {
				res.Outcome = RejectedDuplicate
				return nil, nil
			}
		}
		if turkish.FirstLetter(word) != expected {
			res.Outcome = RejectedWrongLetter
			return nil, nil
		}
		if !m.words.IsValid(ctx, word) {
			res.Outcome = RejectedInvalidWord
			return nil, nil
		}

		now := time.Now()
		g.UsedWords = append(g.UsedWords, UsedWord{Word: word, UserID: userID, Timestamp: now})
		g.CurrentWord = word
		g.LastUserID = userID
		g.UpdatedAt = now
		res.Outcome = Accepted
		res.Next = turkish.LastLetter(word)
		res.Count = len(g.UsedWords)

		if res.Next == m.deadLetter {
			injected := m.drawContinuation(ctx, g)
			g.UsedWords = append(g.UsedWords, UsedWord{Word: injected, UserID: SystemUserID, Timestamp: now})
			g.CurrentWord = injected
			g.LastUserID = ""
			res.Outcome = AcceptedAutoContinued
			res.Injected = injected
			res.Next = turkish.LastLetter(injected)
			res.Count = len(g.UsedWords)
		}
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	obslog.L().Debug("evaluate",
		zap.String("channel_id", channelID),
		zap.String("user_id", userID),
		zap.String("word", res.Word),
		zap.String("outcome", string(res.Outcome)),
	)
	return res, nil
}

func (m *Manager) resolveSeed(ctx context.Context, seed string) string {
	if w := turkish.Lower(seed); w != "" {
		return w
	}
	return turkish.Lower(m.words.RandomWord(ctx))
}

// drawContinuation picks the word injected after a dead-letter ending. A
// draw that itself ends in the dead letter, or that is already in the chain,
// is redrawn a bounded number of times; the last draw is kept either way so
// the game never stalls here.
func (m *Manager) drawContinuation(ctx context.Context, g *Game) string {
	var word string
	for i := 0; i < m.maxInject; i++ {
		word = turkish.Lower(m.words.RandomWord(ctx))
		if turkish.LastLetter(word) != m.deadLetter && !m.alreadyUsed(g, word) {
			return word
		}
	}
	obslog.L().Warn("continuation_redraw_exhausted",
		zap.String("channel_id", g.ChannelID),
		zap.String("word", word),
	)
	return word
}

func (m *Manager) alreadyUsed(g *Game, word string) bool {
	for _, used := range g.UsedWords {
		if turkish.Lower(used.Word) == word {
			return true
		}
	}
	return false
}

// archive is best-effort: a failed insert is logged, never surfaced.
func (m *Manager) archive(ctx context.Context, g *Game) {
	if m.repo == nil || g == nil {
		return
	}
	if _, err := m.repo.InsertGame(ctx, newArchivedGame(g)); err != nil {
		obslog.L().Warn("game_archive_failed", zap.String("game_id", g.ID), zap.Error(err))
	}
}
