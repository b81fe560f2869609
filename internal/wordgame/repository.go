package wordgame

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// ArchivedGame is a finished game as stored in the database.
type ArchivedGame struct {
	ID        int64
	GameID    string
	ChannelID string
	WordCount int
	Words     []UsedWord
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
}

func newArchivedGame(g *Game) *ArchivedGame {
	d := g.UpdatedAt.Sub(g.CreatedAt)
	if d < 0 {
		d = 0
	}
	return &ArchivedGame{
		GameID:    g.ID,
		ChannelID: g.ChannelID,
		WordCount: len(g.UsedWords),
		Words:     g.UsedWords,
		StartedAt: g.CreatedAt,
		EndedAt:   g.UpdatedAt,
		Duration:  d,
	}
}

// Repository archives finished games for later inspection.
type Repository interface {
	InsertGame(ctx context.Context, game *ArchivedGame) (int64, error)
	GetRecentGames(ctx context.Context, channelID string, limit int) ([]*ArchivedGame, error)
	Close() error
}

type pgRepository struct {
	db *sql.DB
}

// NewRepository opens a Postgres-backed archive.
func NewRepository(databaseURL string) (Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &pgRepository{db: db}, nil
}

func (r *pgRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *pgRepository) InsertGame(ctx context.Context, game *ArchivedGame) (int64, error) {
	if game == nil {
		return 0, fmt.Errorf("nil archived game payload")
	}
	words, err := json.Marshal(game.Words)
	if err != nil {
		return 0, fmt.Errorf("marshal words: %w", err)
	}

	const q = `INSERT INTO word_games (
	    game_id, channel_id, word_count, words,
	    started_at, ended_at, duration_ms
	  ) VALUES ($1,$2,$3,$4,$5,$6,$7)
	  ON CONFLICT (game_id) DO UPDATE SET
	    word_count=EXCLUDED.word_count,
	    words=EXCLUDED.words,
	    ended_at=EXCLUDED.ended_at,
	    duration_ms=EXCLUDED.duration_ms
	  RETURNING id`

	var id int64
	err = r.db.QueryRowContext(ctx, q,
		game.GameID,
		game.ChannelID,
		game.WordCount,
		words,
		game.StartedAt,
		game.EndedAt,
		game.Duration.Milliseconds(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert word_games: %w", err)
	}
	return id, nil
}

func (r *pgRepository) GetRecentGames(ctx context.Context, channelID string, limit int) ([]*ArchivedGame, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `SELECT id, game_id, channel_id, word_count, words,
	    started_at, ended_at, duration_ms
	  FROM word_games
	  WHERE channel_id = $1
	  ORDER BY ended_at DESC
	  LIMIT $2`

	rows, err := r.db.QueryContext(ctx, q, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("query word_games: %w", err)
	}
	defer rows.Close()

	var out []*ArchivedGame
	for rows.Next() {
		var g ArchivedGame
		var words []byte
		var durationMS int64
		if err := rows.Scan(&g.ID, &g.GameID, &g.ChannelID, &g.WordCount, &words,
			&g.StartedAt, &g.EndedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scan word_games: %w", err)
		}
		if len(words) > 0 {
			if err := json.Unmarshal(words, &g.Words); err != nil {
				return nil, fmt.Errorf("decode words: %w", err)
			}
		}
		g.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, &g)
	}
	return out, rows.Err()
}
