// Package discord is the chat surface: it maps guild messages onto the game
// engine and renders outcomes from the message catalog.
package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/kapu/kelime-bot-go/internal/msgcat"
	"github.com/kapu/kelime-bot-go/internal/obslog"
	"github.com/kapu/kelime-bot-go/internal/wordcache"
	"github.com/kapu/kelime-bot-go/internal/wordgame"
)

const evalTimeout = 15 * time.Second

type Bot struct {
	session *discordgo.Session
	engine  *wordgame.Manager
	cache   *wordcache.Cache
	cat     *msgcat.Catalog
	prefix  string
	allowed map[string]struct{}
}

// New builds the bot around an authenticated discordgo session. Channels in
// allowedChannels (empty = all) take part in the game.
func New(token string, engine *wordgame.Manager, cache *wordcache.Cache, cat *msgcat.Catalog, prefix string, allowedChannels []string) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	b := &Bot{
		session: session,
		engine:  engine,
		cache:   cache,
		cat:     cat,
		prefix:  prefix,
	}
	if len(allowedChannels) > 0 {
		b.allowed = make(map[string]struct{}, len(allowedChannels))
		for _, ch := range allowedChannels {
			b.allowed[ch] = struct{}{}
		}
	}
	session.AddHandler(b.onMessageCreate)
	return b, nil
}

func (b *Bot) Open() error  { return b.session.Open() }
func (b *Bot) Close() error { return b.session.Close() }

func (b *Bot) channelAllowed(id string) bool {
	if b.allowed == nil {
		return true
	}
	_, ok := b.allowed[id]
	return ok
}

// discordgo already dispatches each event on its own goroutine; the store's
// per-channel lock is what keeps simultaneous submissions ordered.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !b.channelAllowed(m.ChannelID) {
		return
	}
	content := strings.TrimSpace(m.Content)
	if content == "" {
		return
	}
	if strings.HasPrefix(content, b.prefix) {
		b.handleCommand(m, strings.TrimSpace(strings.TrimPrefix(content, b.prefix)))
		return
	}
	// the game only reacts to bare single-word messages
	if len(strings.Fields(content)) != 1 {
		return
	}
	b.handleSubmission(m, content)
}

func (b *Bot) handleCommand(m *discordgo.MessageCreate, raw string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 || !strings.EqualFold(fields[0], "kelime") {
		return
	}
	sub := ""
	if len(fields) > 1 {
		sub = strings.ToLower(fields[1])
	}
	seed := ""
	if len(fields) > 2 {
		seed = fields[2]
	}

	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	switch sub {
	case "başlat", "baslat", "start":
		b.cmdStart(ctx, m, seed)
	case "bitir", "end":
		b.cmdEnd(ctx, m)
	case "durum", "status":
		b.cmdStatus(ctx, m)
	case "sıfırla", "sifirla", "reset":
		b.cmdReset(ctx, m, seed)
	case "istatistik", "stats":
		b.cmdStats(m)
	default:
		b.send(m.ChannelID, fmt.Sprintf("Komutlar: %skelime başlat | bitir | durum | sıfırla | istatistik", b.prefix))
	}
}

func (b *Bot) cmdStart(ctx context.Context, m *discordgo.MessageCreate, seed string) {
	g, err := b.engine.Start(ctx, m.ChannelID, seed)
	if errors.Is(err, wordgame.ErrGameActive) {
		cur, serr := b.engine.Status(ctx, m.ChannelID)
		word := ""
		if serr == nil {
			word = cur.CurrentWord
		}
		b.send(m.ChannelID, b.render("game.already_active", map[string]any{"Word": word}))
		return
	}
	if err != nil {
		b.fail(m, err)
		return
	}
	b.send(m.ChannelID, b.render("game.start", map[string]any{
		"Word": g.CurrentWord,
		"Next": lastLetter(g.CurrentWord),
	}))
}

func (b *Bot) cmdEnd(ctx context.Context, m *discordgo.MessageCreate) {
	g, err := b.engine.End(ctx, m.ChannelID)
	if errors.Is(err, wordgame.ErrNoActiveGame) {
		b.send(m.ChannelID, b.render("game.not_found", nil))
		return
	}
	if err != nil {
		b.fail(m, err)
		return
	}
	b.send(m.ChannelID, b.render("game.end", map[string]any{
		"Word":    g.CurrentWord,
		"Count":   len(g.UsedWords),
		"Minutes": int(time.Since(g.CreatedAt).Minutes()),
	}))
}

func (b *Bot) cmdStatus(ctx context.Context, m *discordgo.MessageCreate) {
	g, err := b.engine.Status(ctx, m.ChannelID)
	if errors.Is(err, wordgame.ErrNoActiveGame) {
		b.send(m.ChannelID, b.render("game.not_found", nil))
		return
	}
	if err != nil {
		b.fail(m, err)
		return
	}
	b.send(m.ChannelID, b.render("game.status", map[string]any{
		"Word":    g.CurrentWord,
		"Next":    lastLetter(g.CurrentWord),
		"Recent":  recentWords(g, 5),
		"Count":   len(g.UsedWords),
		"Minutes": int(time.Since(g.CreatedAt).Minutes()),
	}))
}

func (b *Bot) cmdReset(ctx context.Context, m *discordgo.MessageCreate, seed string) {
	g, err := b.engine.Reset(ctx, m.ChannelID, seed)
	if errors.Is(err, wordgame.ErrNoActiveGame) {
		b.send(m.ChannelID, b.render("game.not_found", nil))
		return
	}
	if err != nil {
		b.fail(m, err)
		return
	}
	b.send(m.ChannelID, b.render("game.reset", map[string]any{
		"Word": g.CurrentWord,
		"Next": lastLetter(g.CurrentWord),
	}))
}

func (b *Bot) cmdStats(m *discordgo.MessageCreate) {
	s := b.cache.Stats()
	last := "-"
	if !s.LastRefresh.IsZero() {
		last = s.LastRefresh.Format("2006-01-02 15:04")
	}
	b.send(m.ChannelID, b.render("game.stats", map[string]any{
		"Count":       s.Count,
		"LastRefresh": last,
		"AgeMinutes":  int(s.Age.Minutes()),
	}))
}

func (b *Bot) handleSubmission(m *discordgo.MessageCreate, word string) {
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	res, err := b.engine.Evaluate(ctx, m.ChannelID, m.Author.ID, word)
	if err != nil {
		if errors.Is(err, wordgame.ErrInvalidArgs) {
			return
		}
		b.fail(m, err)
		return
	}

	switch res.Outcome {
	case wordgame.NoActiveGame:
		// unrelated chatter in a channel without a game

	case wordgame.RejectedSameUser:
		b.react(m, "⏳")
		b.reply(m, b.render("eval.same_user", nil))

	case wordgame.RejectedDuplicate:
		b.react(m, "🔄")
		b.reply(m, b.render("eval.duplicate", map[string]any{"Word": res.Word}))

	case wordgame.RejectedWrongLetter:
		b.react(m, "🔤")
		b.reply(m, b.render("eval.wrong_letter", map[string]any{
			"Word":     res.Word,
			"Expected": string(res.Expected),
		}))

	case wordgame.RejectedInvalidWord:
		b.react(m, "❌")
		b.reply(m, b.render("eval.invalid", map[string]any{"Word": res.Word}))

	case wordgame.Accepted:
		b.react(m, "✅")
		b.react(m, "🎉")
		b.reply(m, b.render("eval.accepted", map[string]any{
			"Word": res.Word,
			"Next": string(res.Next),
		}))

	case wordgame.AcceptedAutoContinued:
		b.react(m, "✅")
		b.react(m, "🎉")
		b.reply(m, b.render("eval.auto_continued", map[string]any{
			"Word":     res.Word,
			"Ended":    lastLetter(res.Word),
			"Injected": res.Injected,
			"Next":     string(res.Next),
		}))
	}
}

func (b *Bot) render(key string, data any) string {
	out, err := b.cat.Render(key, data)
	if err != nil {
		obslog.L().Error("message_render_failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return out
}

func (b *Bot) send(channelID, content string) {
	if content == "" {
		return
	}
	if _, err := b.session.ChannelMessageSend(channelID, content); err != nil {
		obslog.L().Warn("discord_send_failed", zap.String("channel_id", channelID), zap.Error(err))
	}
}

func (b *Bot) reply(m *discordgo.MessageCreate, content string) {
	if content == "" {
		return
	}
	if _, err := b.session.ChannelMessageSendReply(m.ChannelID, content, m.Reference()); err != nil {
		obslog.L().Warn("discord_reply_failed", zap.String("channel_id", m.ChannelID), zap.Error(err))
	}
}

func (b *Bot) react(m *discordgo.MessageCreate, emoji string) {
	if err := b.session.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
		obslog.L().Warn("discord_react_failed", zap.String("channel_id", m.ChannelID), zap.Error(err))
	}
}

func (b *Bot) fail(m *discordgo.MessageCreate, err error) {
	obslog.L().Error("command_failed", zap.String("channel_id", m.ChannelID), zap.Error(err))
	b.send(m.ChannelID, b.render("error.generic", nil))
}

func lastLetter(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}
	return string(runes[len(runes)-1])
}

func recentWords(g *wordgame.Game, n int) string {
	words := g.UsedWords
	if len(words) > n {
		words = words[len(words)-n:]
	}
	var sb strings.Builder
	for i := len(words) - 1; i >= 0; i-- {
		sb.WriteString("• ")
		sb.WriteString(words[i].Word)
		if i > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
