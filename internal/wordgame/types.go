package wordgame

import "time"

// SystemUserID marks words injected by the bot itself (the seed word and
// dead-letter continuations).
const SystemUserID = "bot"

// UsedWord is one accepted submission in a game.
type UsedWord struct {
	Word      string    `json:"word"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Game is the persisted word-chain state of a channel, stored as JSON in
// Redis under wg:game:<channel>.
type Game struct {
	ID          string     `json:"id"`
	ChannelID   string     `json:"channel_id"`
	CurrentWord string     `json:"current_word"`
	UsedWords   []UsedWord `json:"used_words"`
	LastUserID  string     `json:"last_user_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Outcome classifies the evaluation of one submission. Rejections are game
// results, not errors.
type Outcome string

const (
	NoActiveGame          Outcome = "NO_ACTIVE_GAME"
	RejectedSameUser      Outcome = "REJECTED_SAME_USER"
	RejectedDuplicate     Outcome = "REJECTED_DUPLICATE"
	RejectedWrongLetter   Outcome = "REJECTED_WRONG_LETTER"
	RejectedInvalidWord   Outcome = "REJECTED_INVALID_WORD"
	Accepted              Outcome = "ACCEPTED"
	AcceptedAutoContinued Outcome = "ACCEPTED_AUTO_CONTINUED"
)

// Result is what Evaluate reports back to the chat layer.
type Result struct {
	Outcome  Outcome
	Word     string // the submission, normalized
	Expected rune   // letter the submission had to start with
	Next     rune   // letter the following submission must start with
	Injected string // continuation word drawn after a dead-letter ending
	Count    int    // total accepted words in the game
}

// Errors
var (
	ErrInvalidArgs  = errf("invalid arguments")
	ErrGameActive   = errf("game already active in channel")
	ErrNoActiveGame = errf("no active game in channel")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }

// StoreError marks a storage-layer failure; game state is left unchanged
// when one is returned.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "wordgame store: " + e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }
